package llm

import (
	"context"
	"fmt"
	"net/http"
	"strings"
)

// DefaultOllamaHost is used when OLLAMA_HOST is unset.
const DefaultOllamaHost = "http://localhost:11434"

// Ollama calls a local Ollama server's chat API.
type Ollama struct {
	baseURL string
	model   string
	client  *http.Client
}

// NewOllama creates an Ollama provider. An empty baseURL uses
// DefaultOllamaHost.
func NewOllama(baseURL, model string) *Ollama {
	if baseURL == "" {
		baseURL = DefaultOllamaHost
	}
	return &Ollama{
		baseURL: strings.TrimRight(baseURL, "/"),
		model:   model,
		client:  &http.Client{},
	}
}

func (p *Ollama) Name() string { return "ollama" }

type ollamaMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type ollamaRequest struct {
	Model    string          `json:"model"`
	Messages []ollamaMessage `json:"messages"`
	Stream   bool            `json:"stream"`
	Format   string          `json:"format,omitempty"`
	Options  struct {
		Temperature float64 `json:"temperature,omitempty"`
		NumPredict  int     `json:"num_predict,omitempty"`
	} `json:"options"`
}

type ollamaResponse struct {
	Model           string        `json:"model"`
	Message         ollamaMessage `json:"message"`
	PromptEvalCount int           `json:"prompt_eval_count"`
	EvalCount       int           `json:"eval_count"`
}

func (p *Ollama) Complete(ctx context.Context, req Request) (*Reply, error) {
	in := ollamaRequest{Model: p.model}
	if req.System != "" {
		in.Messages = append(in.Messages, ollamaMessage{Role: "system", Content: req.System})
	}
	in.Messages = append(in.Messages, ollamaMessage{Role: "user", Content: req.Prompt})
	in.Options.Temperature = req.Temperature
	in.Options.NumPredict = req.maxTokens()
	if req.JSON {
		in.Format = "json"
	}

	var resp ollamaResponse
	if err := postJSON(ctx, p.client, p.Name(), p.baseURL+"/api/chat", nil, in, &resp); err != nil {
		return nil, err
	}
	if strings.TrimSpace(resp.Message.Content) == "" {
		return nil, fmt.Errorf("ollama: %w", ErrEmptyReply)
	}
	return &Reply{
		Text:         resp.Message.Content,
		Model:        resp.Model,
		InputTokens:  resp.PromptEvalCount,
		OutputTokens: resp.EvalCount,
	}, nil
}
