package trickle

// Event is a sealed interface representing a streaming event.
// EventDone and EventError are terminal: exactly one of them ends every
// request, and nothing follows it.
// The unexported marker method prevents external implementations.
type Event interface {
	event()
}

// EventFrame carries every decoded frame, whether or not it yielded payload.
type EventFrame struct {
	Frame Frame
}

func (EventFrame) event() {}

// EventPayload carries a non-empty payload fragment extracted from a frame.
type EventPayload struct {
	Text string
}

func (EventPayload) event() {}

// EventDone signals that the stream settled without error.
type EventDone struct {
	Reason StopReason
}

func (EventDone) event() {}

// EventError signals a fatal transport, status, or payload failure.
type EventError struct {
	Err error
}

func (EventError) event() {}

// Interface compliance checks.
var (
	_ Event = EventFrame{}
	_ Event = EventPayload{}
	_ Event = EventDone{}
	_ Event = EventError{}
)
