package trickle

import "time"

// Sender identifies who authored a chat message.
type Sender string

const (
	SenderUser      Sender = "user"
	SenderAssistant Sender = "assistant"
)

// ChatMessage is one entry of a conversation.
type ChatMessage struct {
	Content   string
	Sender    Sender
	Timestamp time.Time
}
