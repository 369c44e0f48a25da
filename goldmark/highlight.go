package goldmark

import (
	"bytes"
	"strings"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/formatters"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"
)

// highlight returns code as terminal-colored lines, one per source line.
// An unknown language is guessed from the content. On any failure the code
// is returned uncolored.
func highlight(code, language, styleName string) []string {
	plain := strings.Split(code, "\n")

	lexer := lexers.Get(language)
	if lexer == nil {
		lexer = lexers.Analyse(code)
	}
	if lexer == nil {
		return plain
	}
	lexer = chroma.Coalesce(lexer)

	style := styles.Get(styleName)
	if style == nil {
		style = styles.Fallback
	}
	formatter := formatters.Get("terminal256")
	if formatter == nil {
		formatter = formatters.Fallback
	}

	it, err := lexer.Tokenise(nil, code)
	if err != nil {
		return plain
	}

	// Each line is formatted on its own so escape sequences never span a
	// line break.
	var out []string
	for _, line := range chroma.SplitTokensIntoLines(it.Tokens()) {
		toks := make([]chroma.Token, 0, len(line))
		for _, tok := range line {
			tok.Value = strings.TrimRight(tok.Value, "\n")
			if tok.Value != "" {
				toks = append(toks, tok)
			}
		}
		var buf bytes.Buffer
		if err := formatter.Format(&buf, style, chroma.Literator(toks...)); err != nil {
			return plain
		}
		out = append(out, buf.String())
	}
	// The lexer terminates its input with a newline, leaving an empty tail.
	if len(out) > len(plain) {
		out = out[:len(plain)]
	}
	return out
}
