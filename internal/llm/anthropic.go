package llm

import (
	"context"
	"fmt"
	"net/http"
	"strings"
)

const anthropicBaseURL = "https://api.anthropic.com"

// Anthropic calls the Messages API over plain HTTP.
type Anthropic struct {
	apiKey  string
	model   string
	baseURL string
	client  *http.Client
}

// NewAnthropic creates an Anthropic provider for model.
func NewAnthropic(apiKey, model string) *Anthropic {
	return &Anthropic{
		apiKey:  apiKey,
		model:   model,
		baseURL: anthropicBaseURL,
		client:  &http.Client{},
	}
}

func (p *Anthropic) Name() string { return "anthropic" }

type anthropicRequest struct {
	Model       string             `json:"model"`
	MaxTokens   int                `json:"max_tokens"`
	Temperature float64            `json:"temperature"`
	System      string             `json:"system,omitempty"`
	Messages    []anthropicMessage `json:"messages"`
}

type anthropicMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type anthropicResponse struct {
	Model   string `json:"model"`
	Content []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"content"`
	Usage struct {
		InputTokens  int `json:"input_tokens"`
		OutputTokens int `json:"output_tokens"`
	} `json:"usage"`
}

// Complete sends the prompt. The Messages API has no JSON mode, so JSON
// requests get an extra instruction and a pre-filled opening brace.
func (p *Anthropic) Complete(ctx context.Context, req Request) (*Reply, error) {
	system := req.System
	messages := []anthropicMessage{{Role: "user", Content: req.Prompt}}
	if req.JSON {
		system = strings.TrimSpace(system + "\n\nRespond with a single JSON object and nothing else.")
		messages = append(messages, anthropicMessage{Role: "assistant", Content: "{"})
	}

	var resp anthropicResponse
	err := postJSON(ctx, p.client, p.Name(), p.baseURL+"/v1/messages", map[string]string{
		"x-api-key":         p.apiKey,
		"anthropic-version": "2023-06-01",
	}, anthropicRequest{
		Model:       p.model,
		MaxTokens:   req.maxTokens(),
		Temperature: req.Temperature,
		System:      system,
		Messages:    messages,
	}, &resp)
	if err != nil {
		return nil, err
	}

	var b strings.Builder
	if req.JSON {
		b.WriteString("{")
	}
	for _, block := range resp.Content {
		if block.Type == "text" {
			b.WriteString(block.Text)
		}
	}
	if strings.TrimSpace(b.String()) == "" || b.String() == "{" {
		return nil, fmt.Errorf("anthropic: %w", ErrEmptyReply)
	}

	return &Reply{
		Text:         b.String(),
		Model:        resp.Model,
		InputTokens:  resp.Usage.InputTokens,
		OutputTokens: resp.Usage.OutputTokens,
	}, nil
}
