package llm

import (
	"fmt"
	"os"

	"github.com/ziadkadry99/mindchat/internal/config"
)

// New creates the provider named in the configuration. API keys come from
// the environment; see config.APIKeyEnvVar. OPENAI_BASE_URL and OLLAMA_HOST
// override the default servers.
func New(provider config.ProviderType, model string) (Provider, error) {
	switch provider {
	case config.ProviderAnthropic, config.ProviderOpenAI:
		envVar := config.APIKeyEnvVar(provider)
		key := os.Getenv(envVar)
		if key == "" {
			return nil, fmt.Errorf("%s environment variable is not set", envVar)
		}
		if provider == config.ProviderAnthropic {
			return NewAnthropic(key, model), nil
		}
		return NewOpenAI(key, model, os.Getenv("OPENAI_BASE_URL")), nil

	case config.ProviderOllama:
		return NewOllama(os.Getenv("OLLAMA_HOST"), model), nil

	default:
		return nil, fmt.Errorf("unsupported provider type: %s", provider)
	}
}
