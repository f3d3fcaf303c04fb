package config

// ProviderType identifies an LLM or embedding provider.
type ProviderType string

const (
	ProviderAnthropic ProviderType = "anthropic"
	ProviderOpenAI    ProviderType = "openai"
	ProviderOllama    ProviderType = "ollama"
)

// Config is the top-level mindchat configuration, corresponding to .mindchat.yml.
type Config struct {
	Provider          ProviderType `yaml:"provider" koanf:"provider"`
	Model             string       `yaml:"model" koanf:"model"`
	EmbeddingProvider ProviderType `yaml:"embedding_provider" koanf:"embedding_provider"`
	EmbeddingModel    string       `yaml:"embedding_model" koanf:"embedding_model"`

	// Port is where `mindchat server` listens; Endpoint is the chat URL the
	// widget posts to. An empty Endpoint means /chat on Port at localhost.
	Port            int    `yaml:"port" koanf:"port"`
	Endpoint        string `yaml:"endpoint" koanf:"endpoint"`
	AllowAllOrigins bool   `yaml:"allow_all_origins" koanf:"allow_all_origins"`

	KnowledgeDir     string   `yaml:"knowledge_dir" koanf:"knowledge_dir"`
	KnowledgeInclude []string `yaml:"knowledge_include" koanf:"knowledge_include"`
	KnowledgeResults int      `yaml:"knowledge_results" koanf:"knowledge_results"`

	Greeting   string `yaml:"greeting" koanf:"greeting"`
	Apology    string `yaml:"apology" koanf:"apology"`
	DiagramTag string `yaml:"diagram_tag" koanf:"diagram_tag"`
}
