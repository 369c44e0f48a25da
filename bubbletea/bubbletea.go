// Package bubbletea provides a Bubble Tea TUI for streaming chat.
package bubbletea

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/fwojciec/trickle"
)

// Streamer runs one streaming request at a time. Stream returns a channel
// that is closed after the request's terminal event. Abort cancels the
// in-flight request and is safe to call when nothing is running.
type Streamer interface {
	Stream(ctx context.Context, body any) <-chan trickle.Event
	Abort()
}

// RequestFunc builds the request body for the selected model from the
// conversation so far.
type RequestFunc func(model string, history []trickle.ChatMessage) any

// Run creates and runs the Bubble Tea TUI program. It blocks until the program
// exits. The context is used for graceful shutdown: when cancelled, the
// program quits.
func Run(ctx context.Context, m Model) error {
	p := tea.NewProgram(m, tea.WithAltScreen())
	go func() {
		<-ctx.Done()
		p.Quit()
	}()
	_, err := p.Run()
	return err
}

// StreamEventMsg wraps a streaming event for delivery to the Bubble Tea model.
type StreamEventMsg struct {
	Event trickle.Event
}

// StreamDoneMsg signals that the event channel of the current request closed.
type StreamDoneMsg struct{}

// listenForEvent waits for the next event from the channel.
func listenForEvent(ch <-chan trickle.Event) tea.Cmd {
	return func() tea.Msg {
		evt, ok := <-ch
		if !ok {
			return StreamDoneMsg{}
		}
		return StreamEventMsg{Event: evt}
	}
}
