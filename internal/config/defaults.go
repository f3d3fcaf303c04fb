package config

// Defaults shown to the user by the chat widget.
const (
	DefaultGreeting = "Hello! I'm your study assistant. I can write practice questions or draw a knowledge graph (mind map) for a topic. What would you like to do?"
	DefaultApology  = "Sorry, something went wrong while processing your request. Please try again."
)

// DefaultPort matches the port the original Flask backend listened on.
const DefaultPort = 5001

// defaultModels maps each provider to its default chat and embedding models.
var defaultModels = map[ProviderType]struct {
	Model          string
	EmbeddingModel string
}{
	ProviderAnthropic: {Model: "claude-sonnet-4-5-20250929", EmbeddingModel: "text-embedding-3-small"},
	ProviderOpenAI:    {Model: "gpt-4o", EmbeddingModel: "text-embedding-3-small"},
	ProviderOllama:    {Model: "llama3", EmbeddingModel: "nomic-embed-text"},
}

// DefaultKnowledgeInclude are the glob patterns loaded into the knowledge base.
var DefaultKnowledgeInclude = []string{
	"**/*.md",
	"**/*.txt",
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Provider:          ProviderOpenAI,
		Model:             "gpt-4o",
		EmbeddingProvider: ProviderOpenAI,
		EmbeddingModel:    "text-embedding-3-small",
		Port:              DefaultPort,
		KnowledgeDir:      "knowledge",
		KnowledgeInclude:  DefaultKnowledgeInclude,
		KnowledgeResults:  5,
		Greeting:          DefaultGreeting,
		Apology:           DefaultApology,
		DiagramTag:        "mermaid",
	}
}

// DefaultModels returns the default chat and embedding model for a provider.
// Unknown providers get the OpenAI defaults.
func DefaultModels(provider ProviderType) (model, embeddingModel string) {
	if m, ok := defaultModels[provider]; ok {
		return m.Model, m.EmbeddingModel
	}
	m := defaultModels[ProviderOpenAI]
	return m.Model, m.EmbeddingModel
}
