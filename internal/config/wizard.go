package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/manifoldco/promptui"
)

// ErrAborted is returned by RunWizard when the user declines to overwrite
// an existing config file.
var ErrAborted = errors.New("init aborted")

// RunWizard runs an interactive configuration wizard, saves the result to
// path and returns it.
func RunWizard(path string) (*Config, error) {
	if _, err := os.Stat(path); err == nil {
		confirm := promptui.Prompt{
			Label:     fmt.Sprintf("%s already exists. Overwrite", path),
			IsConfirm: true,
		}
		if _, err := confirm.Run(); err != nil {
			return nil, ErrAborted
		}
	}

	fmt.Println("Welcome to mindchat! Let's configure your assistant.")
	fmt.Println()

	// 1. Provider selection.
	providerPrompt := promptui.Select{
		Label: "Select LLM provider",
		Items: []string{"openai", "anthropic", "ollama"},
	}
	_, providerStr, err := providerPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("provider selection: %w", err)
	}
	provider := ProviderType(providerStr)
	model, embeddingModel := DefaultModels(provider)

	// 2. Model.
	modelPrompt := promptui.Prompt{
		Label:   "Chat model",
		Default: model,
	}
	model, err = modelPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("model: %w", err)
	}

	// 3. Port.
	portPrompt := promptui.Prompt{
		Label:   "Server port",
		Default: strconv.Itoa(DefaultPort),
		Validate: func(s string) error {
			p, err := strconv.Atoi(s)
			if err != nil || p <= 0 || p > 65535 {
				return fmt.Errorf("port must be a number between 1 and 65535")
			}
			return nil
		},
	}
	portStr, err := portPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("port: %w", err)
	}
	port, _ := strconv.Atoi(portStr)

	// 4. Knowledge base directory.
	knowledgePrompt := promptui.Prompt{
		Label:   "Knowledge base directory (leave blank to disable)",
		Default: "knowledge",
	}
	knowledgeDir, err := knowledgePrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("knowledge dir: %w", err)
	}

	cfg := DefaultConfig()
	cfg.Provider = provider
	cfg.Model = model
	cfg.EmbeddingProvider = embeddingProviderFor(provider)
	cfg.EmbeddingModel = embeddingModel
	cfg.Port = port
	cfg.KnowledgeDir = knowledgeDir

	// Check for API key.
	envVar := APIKeyEnvVar(provider)
	if envVar != "" {
		if os.Getenv(envVar) == "" {
			fmt.Printf("\nNote: Set %s in your environment before running mindchat server.\n", envVar)
		}
	}

	if err := cfg.Save(path); err != nil {
		return nil, fmt.Errorf("saving config: %w", err)
	}

	fmt.Printf("\nConfiguration saved to %s\n", path)
	return cfg, nil
}

// embeddingProviderFor returns the default embedding provider for a given
// LLM provider. OpenAI embeddings are used for all cloud providers.
func embeddingProviderFor(p ProviderType) ProviderType {
	if p == ProviderOllama {
		return ProviderOllama
	}
	return ProviderOpenAI
}
