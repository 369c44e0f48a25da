// Package openai describes the OpenAI-compatible chat-completions wire
// format: the streaming request body and the extraction of text fragments
// from "data: " chunks.
package openai

import (
	"net/http"

	"github.com/fwojciec/trickle"
)

// Message is one conversation turn in the request body.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Request is the JSON body of a streaming chat-completions request.
type Request struct {
	Model    string    `json:"model"`
	Messages []Message `json:"messages"`
	Stream   bool      `json:"stream"`
}

// NewRequest builds a streaming request from the conversation history.
// Messages with empty content are skipped.
func NewRequest(model string, history []trickle.ChatMessage) Request {
	msgs := make([]Message, 0, len(history))
	for _, m := range history {
		if m.Content == "" {
			continue
		}
		role := "user"
		if m.Sender == trickle.SenderAssistant {
			role = "assistant"
		}
		msgs = append(msgs, Message{Role: role, Content: m.Content})
	}
	return Request{Model: model, Messages: msgs, Stream: true}
}

// NewDescriptor returns a request template for a chat-completions endpoint.
// The Authorization header is omitted when apiKey is empty.
func NewDescriptor(url, apiKey string) trickle.RequestDescriptor {
	h := make(http.Header)
	h.Set("Content-Type", "application/json")
	h.Set("Accept", "text/event-stream")
	if apiKey != "" {
		h.Set("Authorization", "Bearer "+apiKey)
	}
	return trickle.RequestDescriptor{
		URL:    url,
		Method: http.MethodPost,
		Header: h,
	}
}
