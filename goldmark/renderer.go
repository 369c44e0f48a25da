package goldmark

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/fwojciec/trickle"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	east "github.com/yuin/goldmark/extension/ast"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/text"
)

// gfm parses GitHub Flavored Markdown: tables, strikethrough, task lists
// and bare URLs are common in model replies.
var gfm parser.Parser = goldmark.New(goldmark.WithExtensions(extension.GFM)).Parser()

type ansiRenderer struct {
	bold      lipgloss.Style
	italic    lipgloss.Style
	accent    lipgloss.Style
	muted     lipgloss.Style
	underline lipgloss.Style
	strike    lipgloss.Style
	codeStyle string
}

func newRenderer(theme trickle.Theme) *ansiRenderer {
	return &ansiRenderer{
		bold:      lipgloss.NewStyle().Bold(true),
		italic:    lipgloss.NewStyle().Italic(true),
		accent:    lipgloss.NewStyle().Foreground(ansiColor(theme.Accent)).Bold(true),
		muted:     lipgloss.NewStyle().Foreground(ansiColor(theme.Muted)).Faint(true),
		underline: lipgloss.NewStyle().Underline(true),
		strike:    lipgloss.NewStyle().Strikethrough(true),
		codeStyle: theme.CodeStyle,
	}
}

func ansiColor(index int) lipgloss.TerminalColor {
	if index < 0 {
		return lipgloss.NoColor{}
	}
	return lipgloss.Color(strconv.Itoa(index))
}

func (r *ansiRenderer) render(source []byte, width int) string {
	doc := gfm.Parse(text.NewReader(source))

	var buf bytes.Buffer
	r.walkBlock(doc, source, width, &buf)
	return strings.TrimRight(buf.String(), "\n")
}

func (r *ansiRenderer) walkBlock(node ast.Node, source []byte, width int, buf *bytes.Buffer) {
	for c := node.FirstChild(); c != nil; c = c.NextSibling() {
		r.renderBlock(c, source, width, buf)
		// A blank line separates sibling blocks.
		if c.NextSibling() != nil && c.Kind() != ast.KindHTMLBlock {
			buf.WriteString("\n")
		}
	}
}

func (r *ansiRenderer) renderBlock(node ast.Node, source []byte, width int, buf *bytes.Buffer) {
	switch n := node.(type) {
	case *ast.Paragraph, *ast.TextBlock:
		r.writeWrapped(buf, r.collectInline(n, source), width)

	case *ast.Heading:
		r.writeWrapped(buf, r.accent.Render(r.collectInline(n, source)), width)

	case *ast.FencedCodeBlock:
		lang := string(n.Language(source))
		if lang != "" {
			buf.WriteString(r.muted.Render(lang))
			buf.WriteString("\n")
		}
		r.writeCode(buf, blockText(n, source), lang)

	case *ast.CodeBlock:
		r.writeCode(buf, blockText(n, source), "")

	case *ast.Blockquote:
		var inner bytes.Buffer
		r.walkBlock(n, source, max(width-2, 10), &inner)
		bar := r.muted.Render("┃") + " "
		for _, line := range strings.Split(strings.TrimRight(inner.String(), "\n"), "\n") {
			buf.WriteString(bar + line + "\n")
		}

	case *ast.List:
		r.renderList(n, source, width, buf, 0)

	case *ast.ThematicBreak:
		buf.WriteString(r.muted.Render(strings.Repeat("─", min(width, 40))))
		buf.WriteString("\n")

	case *east.Table:
		r.renderTable(n, source, buf)

	case *ast.HTMLBlock:
		buf.WriteString(blockText(n, source))

	default:
		r.walkBlock(node, source, width, buf)
	}
}

// writeCode writes highlighted code behind a gutter, one source line per
// output line.
func (r *ansiRenderer) writeCode(buf *bytes.Buffer, code, lang string) {
	code = strings.TrimRight(code, "\n")
	if code == "" {
		return
	}
	gutter := r.muted.Render("│") + " "
	for _, line := range highlight(code, lang, r.codeStyle) {
		buf.WriteString(gutter + line + "\n")
	}
}

func (r *ansiRenderer) writeWrapped(buf *bytes.Buffer, s string, width int) {
	buf.WriteString(lipgloss.NewStyle().Width(width).Render(s))
	buf.WriteString("\n")
}

// blockText concatenates the raw source lines of a block node.
func blockText(n ast.Node, source []byte) string {
	var sb strings.Builder
	lines := n.Lines()
	for i := 0; i < lines.Len(); i++ {
		seg := lines.At(i)
		sb.Write(seg.Value(source))
	}
	return sb.String()
}

func (r *ansiRenderer) renderList(node *ast.List, source []byte, width int, buf *bytes.Buffer, depth int) {
	indent := strings.Repeat("  ", depth)
	n := node.Start
	for c := node.FirstChild(); c != nil; c = c.NextSibling() {
		item, ok := c.(*ast.ListItem)
		if !ok {
			continue
		}
		marker := "- "
		if node.IsOrdered() {
			marker = fmt.Sprintf("%d. ", n)
			n++
		}

		var content bytes.Buffer
		for ic := item.FirstChild(); ic != nil; ic = ic.NextSibling() {
			switch in := ic.(type) {
			case *ast.Paragraph, *ast.TextBlock:
				content.WriteString(r.collectInline(in, source))
			case *ast.List:
				if content.Len() > 0 {
					r.writeListItem(buf, indent+marker, content.String(), width)
					content.Reset()
				}
				r.renderList(in, source, width, buf, depth+1)
				// Text after a nested list continues the same item.
				marker = strings.Repeat(" ", len(marker))
			default:
				r.renderBlock(ic, source, width, &content)
			}
		}
		if content.Len() > 0 {
			r.writeListItem(buf, indent+marker, content.String(), width)
		}
	}
}

// writeListItem writes a wrapped list item whose continuation lines align
// with the text after the marker.
func (r *ansiRenderer) writeListItem(buf *bytes.Buffer, prefix, content string, width int) {
	wrapped := lipgloss.NewStyle().Width(max(width-len(prefix), 10)).Render(content)
	continuation := strings.Repeat(" ", len(prefix))
	for i, line := range strings.Split(wrapped, "\n") {
		if i == 0 {
			buf.WriteString(prefix + line + "\n")
		} else {
			buf.WriteString(continuation + line + "\n")
		}
	}
}

// collectInline renders a node's inline children to a styled string.
func (r *ansiRenderer) collectInline(node ast.Node, source []byte) string {
	var buf bytes.Buffer
	for c := node.FirstChild(); c != nil; c = c.NextSibling() {
		r.renderInline(c, source, &buf)
	}
	return buf.String()
}

func (r *ansiRenderer) renderInline(node ast.Node, source []byte, buf *bytes.Buffer) {
	switch n := node.(type) {
	case *ast.Text:
		buf.Write(n.Segment.Value(source))
		switch {
		case n.HardLineBreak():
			buf.WriteByte('\n')
		case n.SoftLineBreak():
			buf.WriteByte(' ')
		}

	case *ast.String:
		buf.Write(n.Value)

	case *ast.Emphasis:
		inner := r.collectInline(n, source)
		if n.Level == 1 {
			buf.WriteString(r.italic.Render(inner))
		} else {
			buf.WriteString(r.bold.Render(inner))
		}

	case *ast.CodeSpan:
		buf.WriteString(r.bold.Render(r.collectInline(n, source)))

	case *ast.Link:
		r.writeLink(buf, r.collectInline(n, source), string(n.Destination))

	case *ast.Image:
		r.writeLink(buf, r.collectInline(n, source), string(n.Destination))

	case *ast.AutoLink:
		buf.WriteString(r.underline.Render(string(n.URL(source))))

	case *east.Strikethrough:
		buf.WriteString(r.strike.Render(r.collectInline(n, source)))

	case *east.TaskCheckBox:
		if n.IsChecked {
			buf.WriteString("[x] ")
		} else {
			buf.WriteString("[ ] ")
		}

	case *ast.RawHTML:
		for i := 0; i < n.Segments.Len(); i++ {
			seg := n.Segments.At(i)
			buf.Write(seg.Value(source))
		}

	default:
		for c := node.FirstChild(); c != nil; c = c.NextSibling() {
			r.renderInline(c, source, buf)
		}
	}
}

func (r *ansiRenderer) writeLink(buf *bytes.Buffer, label, dest string) {
	buf.WriteString(r.underline.Render(label))
	buf.WriteString(" ")
	buf.WriteString(r.muted.Render("(" + dest + ")"))
}

// renderTable lays out a table with columns padded to their widest cell.
// Tables are not wrapped; wide ones overflow like code blocks.
func (r *ansiRenderer) renderTable(node *east.Table, source []byte, buf *bytes.Buffer) {
	var rows [][]string
	var widths []int
	for row := node.FirstChild(); row != nil; row = row.NextSibling() {
		var cells []string
		for cell := row.FirstChild(); cell != nil; cell = cell.NextSibling() {
			content := r.collectInline(cell, source)
			if row.Kind() == east.KindTableHeader {
				content = r.bold.Render(content)
			}
			j := len(cells)
			if j == len(widths) {
				widths = append(widths, 0)
			}
			widths[j] = max(widths[j], lipgloss.Width(content))
			cells = append(cells, content)
		}
		rows = append(rows, cells)
	}

	sep := r.muted.Render(" │ ")
	for i, cells := range rows {
		padded := make([]string, len(cells))
		for j, c := range cells {
			align := east.AlignNone
			if j < len(node.Alignments) {
				align = node.Alignments[j]
			}
			padded[j] = pad(c, widths[j], align)
		}
		buf.WriteString(strings.TrimRight(strings.Join(padded, sep), " "))
		buf.WriteString("\n")

		if i == 0 && node.FirstChild().Kind() == east.KindTableHeader {
			rules := make([]string, len(widths))
			for j, w := range widths {
				rules[j] = strings.Repeat("─", w)
			}
			buf.WriteString(r.muted.Render(strings.Join(rules, "─┼─")))
			buf.WriteString("\n")
		}
	}
}

func pad(s string, width int, align east.Alignment) string {
	gap := width - lipgloss.Width(s)
	if gap <= 0 {
		return s
	}
	switch align {
	case east.AlignRight:
		return strings.Repeat(" ", gap) + s
	case east.AlignCenter:
		left := gap / 2
		return strings.Repeat(" ", left) + s + strings.Repeat(" ", gap-left)
	default:
		return s + strings.Repeat(" ", gap)
	}
}
