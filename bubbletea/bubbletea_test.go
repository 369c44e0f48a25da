package bubbletea_test

import (
	"context"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/fwojciec/trickle"
	bt "github.com/fwojciec/trickle/bubbletea"
	"github.com/fwojciec/trickle/mock"
	"github.com/stretchr/testify/require"
)

var sentAt = time.Date(2026, 3, 14, 9, 26, 0, 0, time.UTC)

var testModels = []trickle.Model{
	{Name: "deepseek-r1-250120", Label: "DeepSeek R1"},
	{Name: "claude-3.5-sonnet"},
}

// historyBody passes the model name and conversation through as the body.
type historyBody struct {
	Model   string
	History []trickle.ChatMessage
}

func buildBody(model string, history []trickle.ChatMessage) any {
	return historyBody{Model: model, History: history}
}

func newModel(t *testing.T, s bt.Streamer, opts ...trickle.ReconcilerOption) bt.Model {
	t.Helper()
	opts = append([]trickle.ReconcilerOption{trickle.WithClock(func() time.Time { return sentAt })}, opts...)
	reg, err := trickle.NewModelRegistry(testModels, "")
	require.NoError(t, err)
	return bt.New(s, buildBody, trickle.NewReconciler(opts...), reg, trickle.DefaultTheme())
}

// initModel creates a model sized to an 80x24 terminal.
func initModel(t *testing.T, s bt.Streamer, opts ...trickle.ReconcilerOption) bt.Model {
	t.Helper()
	return initModelWithSize(t, s, 80, 24, opts...)
}

func initModelWithSize(t *testing.T, s bt.Streamer, width, height int, opts ...trickle.ReconcilerOption) bt.Model {
	t.Helper()
	return updateModel(t, newModel(t, s, opts...), tea.WindowSizeMsg{Width: width, Height: height})
}

// updateModel sends a message and returns the updated Model.
func updateModel(t *testing.T, m bt.Model, msg tea.Msg) bt.Model {
	t.Helper()
	updated, _ := m.Update(msg)
	model, ok := updated.(bt.Model)
	require.True(t, ok)
	return model
}

func typeText(t *testing.T, m bt.Model, s string) bt.Model {
	t.Helper()
	return updateModel(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)})
}

// submit types text and presses Enter.
func submit(t *testing.T, m bt.Model, text string) bt.Model {
	t.Helper()
	return updateModel(t, typeText(t, m, text), tea.KeyMsg{Type: tea.KeyEnter})
}

// pendingStreamer returns a streamer whose requests never produce events on
// their own; tests feed StreamEventMsg values directly.
func pendingStreamer() *mock.Streamer {
	return &mock.Streamer{
		StreamFn: func(context.Context, any) <-chan trickle.Event {
			return make(chan trickle.Event)
		},
	}
}
