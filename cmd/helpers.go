package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/rs/zerolog"

	"github.com/ziadkadry99/mindchat/internal/agent"
	"github.com/ziadkadry99/mindchat/internal/config"
	"github.com/ziadkadry99/mindchat/internal/diagram"
	"github.com/ziadkadry99/mindchat/internal/embeddings"
	"github.com/ziadkadry99/mindchat/internal/knowledge"
	"github.com/ziadkadry99/mindchat/internal/llm"
	"github.com/ziadkadry99/mindchat/internal/logging"
	"github.com/ziadkadry99/mindchat/internal/markup"
	"github.com/ziadkadry99/mindchat/internal/progress"
	"github.com/ziadkadry99/mindchat/internal/widget"
)

// loadConfig loads and validates the config, providing a user-friendly error.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w\nRun `mindchat init` to create a config file", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", cfgFile, err)
	}
	return cfg, nil
}

// loadKnowledge builds the knowledge base from cfg.KnowledgeDir. A missing
// directory or embedder is not fatal: the question agent then answers
// without reference material and nil is returned.
func loadKnowledge(ctx context.Context, cfg *config.Config, log zerolog.Logger) *knowledge.Store {
	if cfg.KnowledgeDir == "" {
		return nil
	}
	if info, err := os.Stat(cfg.KnowledgeDir); err != nil || !info.IsDir() {
		log.Debug().Str("dir", cfg.KnowledgeDir).Msg("no knowledge directory")
		return nil
	}

	provider := cfg.EmbeddingProvider
	if provider == "" {
		provider = cfg.Provider
	}
	// Anthropic has no embeddings API; fall back to OpenAI.
	if provider == config.ProviderAnthropic {
		provider = config.ProviderOpenAI
	}
	embedder, err := embeddings.New(provider, cfg.EmbeddingModel)
	if err != nil {
		log.Warn().Err(err).Msg("knowledge base disabled: creating embedder")
		return nil
	}

	store, err := knowledge.NewStore(embeddings.ToChromemFunc(embedder))
	if err != nil {
		log.Warn().Err(err).Msg("knowledge base disabled: creating store")
		return nil
	}

	n, err := store.LoadDir(ctx, cfg.KnowledgeDir, cfg.KnowledgeInclude, progress.NewReporter(os.Stderr))
	if err != nil {
		log.Warn().Err(err).Msg("knowledge base disabled: loading documents")
		return nil
	}
	log.Info().Str("dir", cfg.KnowledgeDir).Int("passages", n).Str("embedder", embedder.Name()).Msg("knowledge base loaded")
	return store
}

// buildAssistant wires the agent router. When the LLM provider cannot be
// created the router still answers, with the fixed "not loaded" replies.
func buildAssistant(cfg *config.Config, kb *knowledge.Store, log zerolog.Logger) *agent.Router {
	agentLog := logging.Component(log, "agent")

	// Interface-typed so an agent that failed to load stays a nil Agent.
	var graph, question agent.Agent

	provider, err := llm.New(cfg.Provider, cfg.Model)
	if err != nil {
		log.Error().Err(err).Str("provider", string(cfg.Provider)).Msg("LLM provider not loaded")
	} else {
		graph = agent.NewGraphAgent(provider, cfg.DiagramTag, agentLog)

		var retriever agent.Retriever
		if kb != nil {
			retriever = kb
		}
		question = agent.NewQuestionAgent(provider, retriever, cfg.KnowledgeResults, agentLog)
	}

	return agent.NewRouter(graph, question, agentLog)
}

// newRenderer builds a widget renderer with the Markdown formatter and
// the diagram engine.
func newRenderer(cfg *config.Config) *widget.Renderer {
	return widget.NewRenderer(markup.New(), diagram.New(), widget.NewClassifier(cfg.DiagramTag))
}

// sessionOptions returns the widget options from cfg.
func sessionOptions(cfg *config.Config, log zerolog.Logger) widget.Options {
	return widget.Options{
		Greeting:   cfg.Greeting,
		Apology:    cfg.Apology,
		Extensions: []string{"mindmap"},
		Logger:     logging.Component(log, "widget"),
	}
}
