// Package embeddings turns knowledge passages and queries into vectors.
package embeddings

import (
	"context"
	"fmt"
	"os"

	"github.com/ziadkadry99/mindchat/internal/config"
)

// Embedder produces one vector per input text, in input order.
type Embedder interface {
	Embed(ctx context.Context, texts []string) ([][]float32, error)
	// Name identifies the model in logs.
	Name() string
}

// New creates the embedder named in the configuration.
func New(provider config.ProviderType, model string) (Embedder, error) {
	switch provider {
	case config.ProviderOpenAI:
		key := os.Getenv(config.APIKeyEnvVar(provider))
		if key == "" {
			return nil, fmt.Errorf("%s environment variable is not set", config.APIKeyEnvVar(provider))
		}
		return NewOpenAI(key, model, os.Getenv("OPENAI_BASE_URL")), nil
	case config.ProviderOllama:
		return NewOllama(os.Getenv("OLLAMA_HOST"), model), nil
	case config.ProviderAnthropic:
		return nil, fmt.Errorf("anthropic does not offer an embeddings API; use openai or ollama")
	default:
		return nil, fmt.Errorf("unsupported embedding provider: %s", provider)
	}
}

// checkCount guards against providers that drop inputs.
func checkCount(name string, got, want int) error {
	if got != want {
		return fmt.Errorf("%s returned %d embeddings, expected %d", name, got, want)
	}
	return nil
}
