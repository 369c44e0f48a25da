package trickle

// Theme defines semantic color mappings using ANSI color indices (0-15).
// The user's terminal theme determines the actual RGB values, so the app
// automatically matches any color scheme. A negative index means no color.
type Theme struct {
	UserMsg   int // User message accent
	Assistant int // Assistant message gutter
	Error     int // Error messages
	Muted     int // Status bar, timestamps, placeholders
	Accent    int // Headings, links, spinner
	CodeStyle string
}

// DefaultTheme returns the default ANSI color mapping.
func DefaultTheme() Theme {
	return Theme{
		UserMsg:   4,
		Assistant: 5,
		Error:     1,
		Muted:     8,
		Accent:    5,
		CodeStyle: "monokai",
	}
}
