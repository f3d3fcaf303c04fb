package llm

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/ziadkadry99/mindchat/internal/config"
)

func TestOpenAIComplete(t *testing.T) {
	var got struct {
		Model          string `json:"model"`
		ResponseFormat *struct {
			Type string `json:"type"`
		} `json:"response_format"`
		Messages []struct {
			Role    string `json:"role"`
			Content string `json:"content"`
		} `json:"messages"`
	}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/chat/completions" {
			t.Errorf("path = %s", r.URL.Path)
		}
		if r.Header.Get("Authorization") != "Bearer sk-test" {
			t.Errorf("Authorization = %q", r.Header.Get("Authorization"))
		}
		json.NewDecoder(r.Body).Decode(&got)
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"id":"c1","object":"chat.completion","model":"gpt-4o",
			"choices":[{"index":0,"message":{"role":"assistant","content":"{\"label\":\"Go\"}"},"finish_reason":"stop"}],
			"usage":{"prompt_tokens":12,"completion_tokens":5,"total_tokens":17}}`))
	}))
	defer srv.Close()

	p := NewOpenAI("sk-test", "gpt-4o", srv.URL+"/v1")
	reply, err := p.Complete(context.Background(), Request{System: "be brief", Prompt: "topic?", JSON: true})
	if err != nil {
		t.Fatalf("Complete: %v", err)
	}
	if reply.Text != `{"label":"Go"}` {
		t.Errorf("Text = %q", reply.Text)
	}
	if reply.InputTokens != 12 || reply.OutputTokens != 5 {
		t.Errorf("usage = %d/%d", reply.InputTokens, reply.OutputTokens)
	}
	if got.Model != "gpt-4o" {
		t.Errorf("model = %q", got.Model)
	}
	if got.ResponseFormat == nil || got.ResponseFormat.Type != "json_object" {
		t.Error("JSON mode not requested")
	}
	if len(got.Messages) != 2 || got.Messages[0].Role != "system" || got.Messages[1].Content != "topic?" {
		t.Errorf("messages = %+v", got.Messages)
	}
}

func TestOpenAIEmptyChoices(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"id":"c1","object":"chat.completion","model":"gpt-4o","choices":[]}`))
	}))
	defer srv.Close()

	_, err := NewOpenAI("k", "gpt-4o", srv.URL+"/v1").Complete(context.Background(), Request{Prompt: "x"})
	if !errors.Is(err, ErrEmptyReply) {
		t.Errorf("expected ErrEmptyReply, got %v", err)
	}
}

func TestAnthropicComplete(t *testing.T) {
	var got anthropicRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/messages" {
			t.Errorf("path = %s", r.URL.Path)
		}
		if r.Header.Get("x-api-key") != "key" || r.Header.Get("anthropic-version") == "" {
			t.Error("missing auth headers")
		}
		json.NewDecoder(r.Body).Decode(&got)
		w.Write([]byte(`{"model":"claude","content":[{"type":"text","text":"\"label\":\"Go\"}"}],
			"usage":{"input_tokens":7,"output_tokens":3}}`))
	}))
	defer srv.Close()

	p := NewAnthropic("key", "claude")
	p.baseURL = srv.URL

	reply, err := p.Complete(context.Background(), Request{System: "sys", Prompt: "hi", JSON: true})
	if err != nil {
		t.Fatalf("Complete: %v", err)
	}
	if reply.Text != `{"label":"Go"}` {
		t.Errorf("Text = %q", reply.Text)
	}
	if got.MaxTokens != defaultMaxTokens {
		t.Errorf("max_tokens = %d", got.MaxTokens)
	}
	if len(got.Messages) != 2 || got.Messages[1].Role != "assistant" || got.Messages[1].Content != "{" {
		t.Errorf("messages = %+v", got.Messages)
	}
	if reply.InputTokens != 7 || reply.OutputTokens != 3 {
		t.Errorf("usage = %d/%d", reply.InputTokens, reply.OutputTokens)
	}
}

func TestAnthropicStatusError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		w.Write([]byte(`{"error":{"type":"rate_limit_error"}}`))
	}))
	defer srv.Close()

	p := NewAnthropic("key", "claude")
	p.baseURL = srv.URL

	_, err := p.Complete(context.Background(), Request{Prompt: "hi"})
	var se *StatusError
	if !errors.As(err, &se) {
		t.Fatalf("expected StatusError, got %v", err)
	}
	if se.Code != http.StatusTooManyRequests || se.Provider != "anthropic" {
		t.Errorf("StatusError = %+v", se)
	}
}

func TestOllamaComplete(t *testing.T) {
	var got ollamaRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/chat" {
			t.Errorf("path = %s", r.URL.Path)
		}
		json.NewDecoder(r.Body).Decode(&got)
		w.Write([]byte(`{"model":"llama3.2","message":{"role":"assistant","content":"Q1. What is Go?"},
			"prompt_eval_count":9,"eval_count":4}`))
	}))
	defer srv.Close()

	reply, err := NewOllama(srv.URL+"/", "llama3.2").Complete(context.Background(), Request{Prompt: "quiz me", JSON: true, MaxTokens: 100})
	if err != nil {
		t.Fatalf("Complete: %v", err)
	}
	if reply.Text != "Q1. What is Go?" {
		t.Errorf("Text = %q", reply.Text)
	}
	if got.Stream {
		t.Error("streaming must be off")
	}
	if got.Format != "json" || got.Options.NumPredict != 100 {
		t.Errorf("request = %+v", got)
	}
	if len(got.Messages) != 1 || got.Messages[0].Role != "user" {
		t.Errorf("messages = %+v", got.Messages)
	}
}

func TestOllamaEmptyReply(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"model":"m","message":{"role":"assistant","content":"  "}}`))
	}))
	defer srv.Close()

	_, err := NewOllama(srv.URL, "m").Complete(context.Background(), Request{Prompt: "x"})
	if !errors.Is(err, ErrEmptyReply) {
		t.Errorf("expected ErrEmptyReply, got %v", err)
	}
}

func TestNewProvider(t *testing.T) {
	t.Setenv("ANTHROPIC_API_KEY", "")
	t.Setenv("OPENAI_API_KEY", "")
	t.Setenv("OLLAMA_HOST", "")

	if _, err := New(config.ProviderAnthropic, "m"); err == nil {
		t.Error("expected error for missing ANTHROPIC_API_KEY")
	}
	if _, err := New(config.ProviderOpenAI, "m"); err == nil {
		t.Error("expected error for missing OPENAI_API_KEY")
	}
	if _, err := New("gemini", "m"); err == nil {
		t.Error("expected error for unknown provider")
	}

	p, err := New(config.ProviderOllama, "llama3.2")
	if err != nil {
		t.Fatalf("ollama: %v", err)
	}
	if o := p.(*Ollama); o.baseURL != DefaultOllamaHost {
		t.Errorf("baseURL = %q", o.baseURL)
	}

	t.Setenv("OPENAI_API_KEY", "sk")
	p, err = New(config.ProviderOpenAI, "gpt-4o")
	if err != nil || p.Name() != "openai" {
		t.Errorf("openai: %v, %v", p, err)
	}
	t.Setenv("ANTHROPIC_API_KEY", "sk")
	p, err = New(config.ProviderAnthropic, "claude")
	if err != nil || p.Name() != "anthropic" {
		t.Errorf("anthropic: %v, %v", p, err)
	}
}
