// Package goldmark renders assistant markdown to ANSI-styled terminal output.
// Parsing is done by goldmark, styling by lipgloss, and fenced code blocks
// are syntax highlighted with chroma.
package goldmark

import "github.com/fwojciec/trickle"

// Render parses markdown source and returns ANSI-styled terminal output.
// Paragraphs, quotes and list items are word-wrapped to width. Code blocks
// are rendered without reflow.
func Render(source string, width int, theme trickle.Theme) string {
	if source == "" {
		return ""
	}
	if width <= 0 {
		width = 80
	}
	return newRenderer(theme).render([]byte(source), width)
}
