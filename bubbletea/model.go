package bubbletea

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/fwojciec/trickle"
	"github.com/mattn/go-runewidth"
)

var _ tea.Model = Model{}

// Model is the Bubble Tea model for the chat TUI. The conversation is owned
// by a Reconciler that is only touched from Update, so it has one writer.
type Model struct {
	// Input is the text input component. Exported for test access.
	Input textinput.Model
	// Viewport is the scrollable output area. Exported for test access.
	Viewport viewport.Model
	// Spinner animates while waiting for the first fragment.
	Spinner spinner.Model

	streamer Streamer
	build    RequestFunc
	conv     *trickle.Reconciler
	models   *trickle.ModelRegistry
	theme    trickle.Theme
	styles   Styles

	blocks        []MessageBlock
	synced        int                  // conversation messages mirrored in blocks
	lastAssistant *AssistantTextBlock // block of the newest message, if assistant

	running bool
	aborted bool
	eventCh <-chan trickle.Event
	err     error
	ready   bool
}

// New creates a TUI Model. Messages already in conv, such as a greeting,
// are shown on the first render.
func New(streamer Streamer, build RequestFunc, conv *trickle.Reconciler, models *trickle.ModelRegistry, theme trickle.Theme) Model {
	ti := textinput.New()
	ti.Placeholder = "Type a message..."
	ti.Prompt = ""
	ti.Focus()
	ti.CharLimit = 0

	sp := spinner.New(spinner.WithSpinner(spinner.Dot))
	styles := NewStyles(theme)
	sp.Style = styles.Accent

	return Model{
		Input:    ti,
		Spinner:  sp,
		streamer: streamer,
		build:    build,
		conv:     conv,
		models:   models,
		theme:    theme,
		styles:   styles,
	}
}

// Running returns whether a request is in flight.
func (m Model) Running() bool { return m.running }

// Err returns the error of the last request, if any.
func (m Model) Err() error { return m.err }

// Messages returns the conversation so far.
func (m Model) Messages() []trickle.ChatMessage { return m.conv.Messages() }

// SelectedModel returns the model the next request will use.
func (m Model) SelectedModel() trickle.Model { return m.models.Selected() }

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m = m.handleWindowSize(msg)
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case spinner.TickMsg:
		if !m.running {
			return m, nil
		}
		var cmd tea.Cmd
		m.Spinner, cmd = m.Spinner.Update(msg)
		return m, cmd

	case StreamEventMsg:
		m = m.processEvent(msg.Event)
		if m.eventCh != nil {
			return m, listenForEvent(m.eventCh)
		}
		return m, nil

	case StreamDoneMsg:
		m.running = false
		m.eventCh = nil
		m.conv.Close()
		cmd := m.Input.Focus()
		return m, cmd
	}

	// Viewport always receives messages for scrolling (keyboard and mouse).
	var cmd tea.Cmd
	m.Viewport, cmd = m.Viewport.Update(msg)
	cmds = append(cmds, cmd)

	if !m.running {
		m.Input, cmd = m.Input.Update(msg)
		cmds = append(cmds, cmd)
	}

	return m, tea.Batch(cmds...)
}

// View implements tea.Model.
func (m Model) View() string {
	if !m.ready {
		return "Initializing..."
	}

	var b strings.Builder
	b.WriteString(m.Viewport.View())
	b.WriteString("\n")
	b.WriteString(m.statusLine())
	b.WriteString("\n")
	b.WriteString(m.Input.View())
	return b.String()
}

func (m Model) handleWindowSize(msg tea.WindowSizeMsg) Model {
	inputH := 1
	statusHeight := 1
	borderHeight := 2 // newlines between sections
	vpHeight := max(msg.Height-inputH-statusHeight-borderHeight, 1)

	if !m.ready {
		m.Viewport = viewport.New(msg.Width, vpHeight)
		m.ready = true
	} else {
		m.Viewport.Width = msg.Width
		m.Viewport.Height = vpHeight
	}
	m.Input.Width = msg.Width
	m = m.syncBlocks()
	m.refresh()
	return m
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyCtrlC:
		if m.running {
			return m.abort(), nil
		}
		return m, tea.Quit

	case tea.KeyEsc:
		if m.running {
			return m.abort(), nil
		}
		return m, nil

	case tea.KeyCtrlO:
		if !m.running {
			m.models.Next()
		}
		return m, nil

	case tea.KeyEnter:
		if m.running {
			return m, nil
		}
		text := strings.TrimSpace(m.Input.Value())
		if text == "" {
			return m, nil
		}
		return m.submitInput(text)
	}

	// When idle, pass keys to the input (for typing) and non-character keys
	// to the viewport (for scrolling).
	if !m.running {
		var cmd tea.Cmd
		var cmds []tea.Cmd

		if msg.Type != tea.KeyRunes {
			m.Viewport, cmd = m.Viewport.Update(msg)
			cmds = append(cmds, cmd)
		}

		m.Input, cmd = m.Input.Update(msg)
		cmds = append(cmds, cmd)

		return m, tea.Batch(cmds...)
	}

	return m, nil
}

func (m Model) submitInput(text string) (tea.Model, tea.Cmd) {
	m.Input.SetValue("")
	m.err = nil
	m.aborted = false

	m.conv.Submit(text)
	m = m.syncBlocks()
	m.refresh()

	body := m.build(m.models.Selected().Name, m.conv.Messages())
	m.eventCh = m.streamer.Stream(context.Background(), body)
	m.running = true
	m.Input.Blur()

	return m, tea.Batch(listenForEvent(m.eventCh), m.Spinner.Tick)
}

// abort cancels the request and closes the turn at once, so frames still
// buffered in the channel cannot change the message.
func (m Model) abort() Model {
	m.streamer.Abort()
	m.conv.Close()
	m.aborted = true
	return m
}

func (m Model) processEvent(evt trickle.Event) Model {
	m.conv.Apply(evt)
	if e, ok := evt.(trickle.EventError); ok {
		m = m.syncBlocks()
		m.err = e.Err
		m.blocks = append(m.blocks, NewErrorBlock(e.Err, m.styles))
	}
	m = m.syncBlocks()
	m.refresh()
	return m
}

// syncBlocks mirrors new conversation messages into blocks and refreshes
// the newest assistant block, the only message that can still grow.
func (m Model) syncBlocks() Model {
	msgs := m.conv.Messages()
	for _, msg := range msgs[m.synced:] {
		switch msg.Sender {
		case trickle.SenderUser:
			m.blocks = append(m.blocks, NewUserMessageBlock(msg.Content, msg.Timestamp, m.styles))
			m.lastAssistant = nil
		case trickle.SenderAssistant:
			b := NewAssistantTextBlock(msg.Content, m.theme)
			m.blocks = append(m.blocks, b)
			m.lastAssistant = b
		}
	}
	m.synced = len(msgs)
	if n := len(msgs); n > 0 && m.lastAssistant != nil && msgs[n-1].Sender == trickle.SenderAssistant {
		m.lastAssistant.SetContent(msgs[n-1].Content)
	}
	return m
}

func (m *Model) refresh() {
	if !m.ready {
		return
	}
	m.Viewport.SetContent(m.renderContent())
	m.Viewport.GotoBottom()
}

func (m Model) renderContent() string {
	var b strings.Builder
	for i, block := range m.blocks {
		if i > 0 {
			b.WriteString("\n\n")
		}
		b.WriteString(block.View(m.Viewport.Width))
	}
	return b.String()
}

func (m Model) statusLine() string {
	name := m.models.Selected().DisplayName()
	switch {
	case m.running && m.aborted:
		return m.styles.Muted.Render(m.truncate(name + " · Stopping..."))
	case m.running && !m.conv.Open():
		return m.Spinner.View() + " " + m.styles.Muted.Render(m.truncate(name+" · Thinking... (Esc to stop)"))
	case m.running:
		return m.styles.Muted.Render(m.truncate(name + " · Generating... (Esc to stop)"))
	case m.err != nil:
		return m.styles.Error.Render(m.truncate(fmt.Sprintf("%s · Error: %v", name, m.err)))
	default:
		return m.styles.Muted.Render(m.truncate(name + " · Enter to send, Ctrl+O to switch model, Ctrl+C to quit"))
	}
}

// truncate fits s to the viewport width, measuring wide runes correctly.
func (m Model) truncate(s string) string {
	w := m.Viewport.Width
	if w <= 0 || runewidth.StringWidth(s) <= w {
		return s
	}
	return runewidth.Truncate(s, w, "…")
}
