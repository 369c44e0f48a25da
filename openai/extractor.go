package openai

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/fwojciec/trickle"
)

// Interface compliance check.
var _ trickle.Extractor = Extractor{}

// chunk is one streamed chat-completions delta.
type chunk struct {
	Choices []struct {
		Delta struct {
			Content string `json:"content"`
		} `json:"delta"`
		FinishReason *string `json:"finish_reason"`
	} `json:"choices"`
	Error *struct {
		Type    string `json:"type"`
		Message string `json:"message"`
	} `json:"error"`
}

// Extractor reads the text fragment from a chat-completions chunk.
//
// Event-stream comments (": keep-alive") and the event, id and retry fields
// some proxies send carry no content and yield an empty payload.
//
// The end marker is recognised twice: as a frame of its own, and anywhere
// inside a frame whose content cannot be parsed. A non-empty finish_reason
// also ends the turn.
type Extractor struct{}

// Extract implements [trickle.Extractor].
func (Extractor) Extract(frame trickle.Frame) (trickle.Payload, error) {
	text := strings.TrimSpace(frame.Text)
	if text == trickle.EndMarker {
		return trickle.Payload{Done: true}, nil
	}
	if frame.Kind == trickle.FramePlain && isFieldLine(text) {
		return trickle.Payload{}, nil
	}

	var c chunk
	if err := json.Unmarshal([]byte(text), &c); err != nil {
		if strings.Contains(text, trickle.EndMarker) {
			return trickle.Payload{Done: true}, nil
		}
		return trickle.Payload{}, fmt.Errorf("openai: %w: %v", trickle.ErrMalformedPayload, err)
	}
	if c.Error != nil {
		return trickle.Payload{}, &trickle.UpstreamError{Type: c.Error.Type, Message: c.Error.Message}
	}
	if len(c.Choices) == 0 {
		return trickle.Payload{}, nil
	}
	choice := c.Choices[0]
	return trickle.Payload{
		Text: choice.Delta.Content,
		Done: choice.FinishReason != nil && *choice.FinishReason != "",
	}, nil
}

// isFieldLine reports an event-stream line other than data.
func isFieldLine(line string) bool {
	if strings.HasPrefix(line, ":") {
		return true
	}
	for _, field := range []string{"event:", "id:", "retry:"} {
		if strings.HasPrefix(line, field) {
			return true
		}
	}
	return false
}
