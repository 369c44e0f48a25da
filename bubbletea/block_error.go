package bubbletea

import (
	"errors"
	"net/http"

	"github.com/charmbracelet/lipgloss"
	"github.com/fwojciec/trickle"
)

var _ MessageBlock = (*ErrorBlock)(nil)

// ErrorBlock renders a failed request. A partial reply stays in the
// assistant block above it.
type ErrorBlock struct {
	err    error
	styles Styles
}

// NewErrorBlock creates an ErrorBlock.
func NewErrorBlock(err error, styles Styles) *ErrorBlock {
	return &ErrorBlock{err: err, styles: styles}
}

func (b *ErrorBlock) View(width int) string {
	content := b.styles.Error.Render("Error: " + b.err.Error())
	if hint := errorHint(b.err); hint != "" {
		content += "\n" + b.styles.Muted.Render(hint)
	}
	return lipgloss.NewStyle().Width(width).Render(content)
}

// errorHint suggests a next step for failures the user can act on.
func errorHint(err error) string {
	var statusErr *trickle.HTTPStatusError
	if errors.As(err, &statusErr) {
		switch statusErr.Code {
		case http.StatusUnauthorized, http.StatusForbidden:
			return "Check the API key (--api-key or TRICKLE_API_KEY)."
		case http.StatusNotFound:
			return "Check the endpoint URL and model name."
		case http.StatusTooManyRequests:
			return "Rate limited. Wait a moment, then send again."
		}
		return ""
	}
	if errors.Is(err, trickle.ErrMalformedPayload) {
		return "The endpoint did not answer with a chat-completions stream."
	}
	return ""
}
