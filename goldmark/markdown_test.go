package goldmark_test

import (
	"os"
	"regexp"
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/fwojciec/trickle"
	"github.com/fwojciec/trickle/goldmark"
	"github.com/muesli/termenv"
	"github.com/stretchr/testify/assert"
)

var ansiRE = regexp.MustCompile(`\x1b\[[0-9;]*[a-zA-Z]`)

func stripANSI(s string) string {
	return ansiRE.ReplaceAllString(s, "")
}

func TestMain(m *testing.M) {
	// Force ANSI color output so styled elements produce escape codes.
	lipgloss.SetColorProfile(termenv.ANSI)
	os.Exit(m.Run())
}

func TestRender(t *testing.T) {
	t.Parallel()

	theme := trickle.DefaultTheme()

	t.Run("empty input returns empty string", func(t *testing.T) {
		t.Parallel()
		assert.Equal(t, "", goldmark.Render("", 80, theme))
	})

	t.Run("plain paragraph", func(t *testing.T) {
		t.Parallel()
		assert.Equal(t, "hello world", strings.TrimSpace(stripANSI(goldmark.Render("hello world", 80, theme))))
	})

	t.Run("heading is styled differently from a paragraph", func(t *testing.T) {
		t.Parallel()
		heading := goldmark.Render("# Title", 80, theme)
		paragraph := goldmark.Render("Title", 80, theme)
		assert.Contains(t, stripANSI(heading), "Title")
		assert.NotEqual(t, heading, paragraph)
	})

	t.Run("emphasis and inline code keep their text", func(t *testing.T) {
		t.Parallel()
		result := stripANSI(goldmark.Render("**bold**, *italic*, ***both*** and `code`", 80, theme))
		assert.Contains(t, result, "bold, italic, both and code")
	})

	t.Run("fenced code block is not reflowed", func(t *testing.T) {
		t.Parallel()
		src := "```go\nfmt.Println(\"hello world\")\n```"
		result := stripANSI(goldmark.Render(src, 20, theme))
		assert.Contains(t, result, `fmt.Println("hello world")`)
	})

	t.Run("fenced code block shows language label and gutter", func(t *testing.T) {
		t.Parallel()
		src := "```python\nprint('hi')\nprint('bye')\n```"
		lines := strings.Split(stripANSI(goldmark.Render(src, 80, theme)), "\n")
		assert.Equal(t, []string{"python", "│ print('hi')", "│ print('bye')"}, lines)
	})

	t.Run("known language is syntax highlighted", func(t *testing.T) {
		t.Parallel()
		src := "```go\nfunc main() {}\n```"
		result := goldmark.Render(src, 80, theme)
		codeLine := strings.Split(result, "\n")[1]
		assert.Contains(t, stripANSI(codeLine), "func main() {}")
		assert.Contains(t, codeLine, "\x1b[38;5;", "expected 256-color escape codes")
	})

	t.Run("fenced code block without language label", func(t *testing.T) {
		t.Parallel()
		result := stripANSI(goldmark.Render("```\nsome code\n```", 80, theme))
		assert.Contains(t, result, "some code")
	})

	t.Run("indented code block", func(t *testing.T) {
		t.Parallel()
		result := stripANSI(goldmark.Render("paragraph\n\n    indented code\n    more code", 80, theme))
		assert.Contains(t, result, "indented code")
		assert.Contains(t, result, "more code")
	})

	t.Run("bullet and ordered lists", func(t *testing.T) {
		t.Parallel()
		bullets := stripANSI(goldmark.Render("- one\n- two", 80, theme))
		assert.Equal(t, []string{"- one", "- two"}, trimLines(bullets))

		ordered := stripANSI(goldmark.Render("3. third\n4. fourth", 80, theme))
		assert.Equal(t, []string{"3. third", "4. fourth"}, trimLines(ordered))
	})

	t.Run("nested list is indented", func(t *testing.T) {
		t.Parallel()
		result := stripANSI(goldmark.Render("- outer\n  - inner one\n  - inner two", 80, theme))
		assert.Equal(t, []string{"- outer", "  - inner one", "  - inner two"}, trimLines(result))
	})

	t.Run("list item continuation lines are indented", func(t *testing.T) {
		t.Parallel()
		src := "- this is a very long list item that should wrap and have continuation lines properly indented"
		lines := strings.Split(stripANSI(goldmark.Render(src, 30, theme)), "\n")
		assert.True(t, strings.HasPrefix(lines[0], "- "))
		assert.Greater(t, len(lines), 1)
		for _, line := range lines[1:] {
			if strings.TrimSpace(line) != "" {
				assert.True(t, strings.HasPrefix(line, "  "), "continuation line should be indented: %q", line)
			}
		}
	})

	t.Run("blockquote has a bar on every line", func(t *testing.T) {
		t.Parallel()
		result := stripANSI(goldmark.Render("> quoted words that wrap across several lines of output", 24, theme))
		lines := strings.Split(result, "\n")
		assert.Greater(t, len(lines), 1)
		for _, line := range lines {
			assert.True(t, strings.HasPrefix(line, "┃ "), "line %q", line)
		}
	})

	t.Run("links and images show their destination", func(t *testing.T) {
		t.Parallel()
		result := stripANSI(goldmark.Render("[click](https://example.com) ![alt text](https://example.com/img.png)", 80, theme))
		assert.Contains(t, result, "click (https://example.com)")
		assert.Contains(t, result, "alt text (https://example.com/img.png)")
	})

	t.Run("paragraph wraps to width", func(t *testing.T) {
		t.Parallel()
		long := "word1 word2 word3 word4 word5 word6 word7 word8 word9 word10 word11 word12"
		result := goldmark.Render(long, 30, theme)
		assert.Contains(t, stripANSI(result), "word12")
		assert.Greater(t, len(strings.Split(result, "\n")), 1)
	})

	t.Run("blocks are separated by one blank line", func(t *testing.T) {
		t.Parallel()
		result := stripANSI(goldmark.Render("first\n\n---\n\nsecond", 80, theme))
		lines := trimLines(result)
		assert.Len(t, lines, 5)
		assert.Equal(t, "first", lines[0])
		assert.Equal(t, "", lines[1])
		assert.Contains(t, lines[2], "─")
		assert.Equal(t, "", lines[3])
		assert.Equal(t, "second", lines[4])
	})

	t.Run("table columns are aligned", func(t *testing.T) {
		t.Parallel()
		src := "| Name | Qty |\n|:-----|----:|\n| apple | 3 |\n| fig | 12 |"
		lines := trimLines(stripANSI(goldmark.Render(src, 80, theme)))
		assert.Equal(t, []string{
			"Name  │ Qty",
			"──────┼────",
			"apple │   3",
			"fig   │  12",
		}, lines)
	})

	t.Run("strikethrough keeps its text", func(t *testing.T) {
		t.Parallel()
		result := goldmark.Render("~~old~~ new", 80, theme)
		assert.Equal(t, "old new", strings.TrimSpace(stripANSI(result)))
		assert.NotEqual(t, "old new", strings.TrimSpace(result))
	})

	t.Run("task list shows check boxes", func(t *testing.T) {
		t.Parallel()
		lines := trimLines(stripANSI(goldmark.Render("- [x] done\n- [ ] todo", 80, theme)))
		assert.Equal(t, []string{"- [x] done", "- [ ] todo"}, lines)
	})

	t.Run("width zero defaults to 80", func(t *testing.T) {
		t.Parallel()
		assert.Contains(t, stripANSI(goldmark.Render("hello world", 0, theme)), "hello world")
	})
}

func trimLines(s string) []string {
	lines := strings.Split(s, "\n")
	for i, l := range lines {
		lines[i] = strings.TrimRight(l, " ")
	}
	return lines
}
