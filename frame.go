package trickle

// FrameKind classifies a decoded line of a streamed response body.
type FrameKind int

const (
	FramePlain FrameKind = iota // Line passed through unmodified.
	FrameEvent                  // Line carried the event prefix, now stripped.
)

// String returns the name of the frame kind.
func (k FrameKind) String() string {
	switch k {
	case FrameEvent:
		return "event"
	default:
		return "plain"
	}
}

// EventPrefix marks a line as an event-stream payload line.
const EventPrefix = "data: "

// EndMarker is the reserved payload that ends the assistant's reply.
const EndMarker = "[DONE]"

// Frame is one decoded, newline-delimited unit of a streamed response body.
// Text has the event prefix stripped when Kind is FrameEvent.
type Frame struct {
	Text string
	Kind FrameKind
}
