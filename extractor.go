package trickle

import (
	"fmt"
	"strings"
)

// Payload is the application content extracted from one frame.
type Payload struct {
	Text string // Fragment to append to the assistant message; may be empty.
	Done bool   // End of the assistant's turn.
}

// Extractor turns a decoded frame into application payload. Implementations
// return an error wrapping ErrMalformedPayload for content that is delivered
// but not well-formed; any other error is fatal to the stream.
type Extractor interface {
	Extract(frame Frame) (Payload, error)
}

// ExtractorFunc adapts an ordinary function to the Extractor interface.
type ExtractorFunc func(frame Frame) (Payload, error)

// Extract calls f(frame).
func (f ExtractorFunc) Extract(frame Frame) (Payload, error) {
	return f(frame)
}

// PassThroughExtractor treats every frame's text as a fragment. A frame
// holding only the end marker ends the turn.
var PassThroughExtractor Extractor = ExtractorFunc(func(frame Frame) (Payload, error) {
	if IsEndMarker(frame.Text) {
		return Payload{Done: true}, nil
	}
	return Payload{Text: frame.Text}, nil
})

// IsEndMarker reports whether text is exactly the end marker, ignoring
// surrounding whitespace.
func IsEndMarker(text string) bool {
	return strings.TrimSpace(text) == EndMarker
}

// ValidationMode controls how malformed payload is treated.
type ValidationMode string

const (
	// ValidationLenient logs malformed payload and keeps streaming.
	ValidationLenient ValidationMode = "lenient"
	// ValidationStrict fails the stream on malformed payload.
	ValidationStrict ValidationMode = "strict"
)

// ParseValidationMode parses "lenient" or "strict". Empty means lenient.
func ParseValidationMode(s string) (ValidationMode, error) {
	switch ValidationMode(strings.ToLower(strings.TrimSpace(s))) {
	case "", ValidationLenient:
		return ValidationLenient, nil
	case ValidationStrict:
		return ValidationStrict, nil
	default:
		return "", fmt.Errorf("validation mode must be %q or %q, got %q: %w", ValidationLenient, ValidationStrict, s, ErrValidation)
	}
}
