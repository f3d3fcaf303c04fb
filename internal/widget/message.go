// Package widget implements the chat widget: it turns user input into
// requests against the chat endpoint and renders replies into an HTML
// transcript, either as formatted prose or as a diagram.
package widget

import "github.com/google/uuid"

// Origin says who authored a message. It decides how much the text is
// trusted and which rendering path it takes.
type Origin int

const (
	User Origin = iota
	Assistant
)

func (o Origin) String() string {
	switch o {
	case User:
		return "user"
	case Assistant:
		return "assistant"
	default:
		return "unknown"
	}
}

// Message is one transcript entry. It is never modified after creation.
type Message struct {
	ID     string
	Text   string
	Origin Origin
}

// NewMessage creates a message with a fresh ID.
func NewMessage(text string, origin Origin) Message {
	return Message{
		ID:     uuid.NewString(),
		Text:   text,
		Origin: origin,
	}
}
