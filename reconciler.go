package trickle

import (
	"strings"
	"time"
)

// TurnState is the reconciliation state of the current conversation turn.
type TurnState int

const (
	TurnIdle   TurnState = iota // No assistant message open yet.
	TurnOpen                    // An assistant message is receiving fragments.
	TurnClosed                  // The turn ended; its message is immutable.
)

// String returns the lowercase name of the turn state.
func (s TurnState) String() string {
	switch s {
	case TurnOpen:
		return "open"
	case TurnClosed:
		return "closed"
	default:
		return "idle"
	}
}

// Reconciler folds streaming events into an ordered list of chat messages.
// Fragments of one turn grow a single assistant message instead of creating
// one message per fragment. It is a pure reducer: it performs no I/O and is
// not safe for concurrent use.
type Reconciler struct {
	messages []ChatMessage
	state    TurnState
	open     int // index of the open assistant message, -1 when none
	content  strings.Builder
	now      func() time.Time
}

// ReconcilerOption configures a Reconciler.
type ReconcilerOption func(*Reconciler)

// WithGreeting seeds the conversation with a closed assistant message.
// An empty greeting is ignored.
func WithGreeting(text string) ReconcilerOption {
	return func(r *Reconciler) {
		if text == "" {
			return
		}
		r.messages = append(r.messages, ChatMessage{
			Content:   text,
			Sender:    SenderAssistant,
			Timestamp: r.now(),
		})
	}
}

// WithClock sets the time source used for message timestamps.
func WithClock(now func() time.Time) ReconcilerOption {
	return func(r *Reconciler) { r.now = now }
}

// NewReconciler creates a Reconciler. Options apply in order, so WithClock
// must precede WithGreeting to affect the greeting's timestamp.
func NewReconciler(opts ...ReconcilerOption) *Reconciler {
	r := &Reconciler{
		state: TurnClosed,
		open:  -1,
		now:   time.Now,
	}
	for _, o := range opts {
		o(r)
	}
	return r
}

// Submit appends an immutable user message and begins a new turn. An
// assistant message still open from the previous turn is closed first.
func (r *Reconciler) Submit(text string) ChatMessage {
	r.Close()
	msg := ChatMessage{
		Content:   text,
		Sender:    SenderUser,
		Timestamp: r.now(),
	}
	r.messages = append(r.messages, msg)
	r.state = TurnIdle
	return msg
}

// Apply reduces one event into the message list.
func (r *Reconciler) Apply(evt Event) {
	switch e := evt.(type) {
	case EventPayload:
		r.appendFragment(e.Text)
	case EventDone, EventError:
		r.Close()
	}
}

// Consume applies events from ch until it is closed.
func (r *Reconciler) Consume(ch <-chan Event) {
	for evt := range ch {
		r.Apply(evt)
	}
}

func (r *Reconciler) appendFragment(text string) {
	if text == "" {
		return
	}
	switch r.state {
	case TurnIdle:
		r.content.Reset()
		r.content.WriteString(text)
		r.messages = append(r.messages, ChatMessage{
			Content:   text,
			Sender:    SenderAssistant,
			Timestamp: r.now(),
		})
		r.open = len(r.messages) - 1
		r.state = TurnOpen
	case TurnOpen:
		r.content.WriteString(text)
		r.messages[r.open].Content = r.content.String()
	}
	// TurnClosed: the turn ended, late fragments must not mutate it.
}

// Close ends the current turn. The open assistant message, if any, becomes
// immutable. Calling Close more than once has no further effect.
func (r *Reconciler) Close() {
	r.state = TurnClosed
	r.open = -1
	r.content.Reset()
}

// State returns the reconciliation state of the current turn.
func (r *Reconciler) State() TurnState { return r.state }

// Open reports whether an assistant message is accepting fragments.
func (r *Reconciler) Open() bool { return r.state == TurnOpen }

// Messages returns a copy of the conversation so far.
func (r *Reconciler) Messages() []ChatMessage {
	out := make([]ChatMessage, len(r.messages))
	copy(out, r.messages)
	return out
}

// Len returns the number of messages in the conversation.
func (r *Reconciler) Len() int { return len(r.messages) }
