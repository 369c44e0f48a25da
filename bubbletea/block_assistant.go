package bubbletea

import (
	"strings"

	"github.com/fwojciec/trickle"
	"github.com/fwojciec/trickle/goldmark"
)

var _ MessageBlock = (*AssistantTextBlock)(nil)

// AssistantTextBlock renders an assistant message as markdown behind a
// colored gutter while it streams. The prefix up to the last paragraph break
// is rendered once per width and cached; only the trailing text is
// re-rendered as it grows.
type AssistantTextBlock struct {
	content strings.Builder
	theme   trickle.Theme
	gutter  string

	finalizedRaw     string
	finalizedByWidth map[int]string
}

// NewAssistantTextBlock creates a block holding text.
func NewAssistantTextBlock(text string, theme trickle.Theme) *AssistantTextBlock {
	b := &AssistantTextBlock{
		theme:            theme,
		gutter:           NewStyles(theme).Assistant.Render("▎") + " ",
		finalizedByWidth: make(map[int]string),
	}
	b.SetContent(text)
	return b
}

// SetContent replaces the block's text with the cumulative message content.
// Content that extends the current text keeps the render cache.
func (b *AssistantTextBlock) SetContent(text string) {
	cur := b.content.String()
	if rest, ok := strings.CutPrefix(text, cur); ok {
		if rest == "" {
			return
		}
		b.content.WriteString(rest)
	} else {
		b.content.Reset()
		b.content.WriteString(text)
		b.finalizedRaw = ""
		clear(b.finalizedByWidth)
	}
	b.promoteFinalized()
}

// Content returns the raw markdown held by the block.
func (b *AssistantTextBlock) Content() string { return b.content.String() }

func (b *AssistantTextBlock) View(width int) string {
	body := b.renderBody(max(width-gutterWidth, 10))
	if body == "" {
		return ""
	}
	lines := strings.Split(body, "\n")
	for i, line := range lines {
		lines[i] = b.gutter + line
	}
	return strings.Join(lines, "\n")
}

const gutterWidth = 2

func (b *AssistantTextBlock) renderBody(width int) string {
	finalized := b.renderFinalized(width)
	trailing := b.trailingRaw()
	if hasUnclosedFence(trailing) {
		// Close the fence for rendering only, so partial code displays.
		trailing += "\n```"
	}
	if trailing == "" {
		return finalized
	}
	rendered := goldmark.Render(trailing, width, b.theme)
	if strings.TrimSpace(rendered) == "" {
		return finalized
	}
	if finalized == "" {
		return rendered
	}
	return strings.TrimRight(finalized, "\n") + "\n\n" + strings.TrimLeft(rendered, "\n")
}

// promoteFinalized moves the stable prefix forward to the last "\n\n" that
// is not inside an open code fence.
func (b *AssistantTextBlock) promoteFinalized() {
	raw := b.content.String()
	for end := len(raw); ; {
		idx := strings.LastIndex(raw[:end], "\n\n")
		if idx <= 0 {
			return
		}
		candidate := raw[:idx]
		if !hasUnclosedFence(candidate) {
			if candidate != b.finalizedRaw {
				b.finalizedRaw = candidate
				clear(b.finalizedByWidth)
			}
			return
		}
		end = idx
	}
}

func (b *AssistantTextBlock) renderFinalized(width int) string {
	if width <= 0 || b.finalizedRaw == "" {
		return ""
	}
	if cached, ok := b.finalizedByWidth[width]; ok {
		return cached
	}
	rendered := goldmark.Render(b.finalizedRaw, width, b.theme)
	b.finalizedByWidth[width] = rendered
	return rendered
}

func (b *AssistantTextBlock) trailingRaw() string {
	raw := b.content.String()
	if b.finalizedRaw == "" {
		return raw
	}
	return strings.TrimPrefix(raw, b.finalizedRaw+"\n\n")
}

// hasUnclosedFence reports an odd number of "```" in s. Triple backticks
// inside inline code spans are miscounted.
func hasUnclosedFence(s string) bool {
	return strings.Count(s, "```")%2 == 1
}
