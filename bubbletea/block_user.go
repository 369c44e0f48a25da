package bubbletea

import (
	"time"

	"github.com/charmbracelet/lipgloss"
)

var _ MessageBlock = (*UserMessageBlock)(nil)

// UserMessageBlock renders a user message with a "> " prefix and the time
// it was sent.
type UserMessageBlock struct {
	text   string
	sent   time.Time
	styles Styles
}

// NewUserMessageBlock creates a UserMessageBlock.
func NewUserMessageBlock(text string, sent time.Time, styles Styles) *UserMessageBlock {
	return &UserMessageBlock{text: text, sent: sent, styles: styles}
}

func (b *UserMessageBlock) View(width int) string {
	content := b.styles.UserMsg.Render("> ") + b.text
	if !b.sent.IsZero() {
		content += " " + b.styles.Muted.Render(b.sent.Format("15:04"))
	}
	return lipgloss.NewStyle().Width(width).Render(content)
}
