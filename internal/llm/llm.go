// Package llm sends single-turn prompts to the chat-completion APIs behind
// the assistant agents.
package llm

import (
	"context"
	"errors"
	"fmt"
)

// Provider completes one prompt.
type Provider interface {
	Complete(ctx context.Context, req Request) (*Reply, error)
	// Name is the provider identifier used in logs.
	Name() string
}

// Request is a system instruction plus one user prompt.
type Request struct {
	System      string
	Prompt      string
	MaxTokens   int
	Temperature float64
	// JSON asks the provider to return a single JSON object.
	JSON bool
}

// Reply is the text of a completion and its token usage.
type Reply struct {
	Text         string
	Model        string
	InputTokens  int
	OutputTokens int
}

const defaultMaxTokens = 2048

func (r Request) maxTokens() int {
	if r.MaxTokens > 0 {
		return r.MaxTokens
	}
	return defaultMaxTokens
}

// ErrEmptyReply is returned when a provider answers without any text.
var ErrEmptyReply = errors.New("provider returned an empty reply")

// StatusError is a non-200 answer from a provider's HTTP API.
type StatusError struct {
	Provider string
	Code     int
	Body     string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s returned status %d: %s", e.Provider, e.Code, e.Body)
}
