// Package config provides the configuration schema, loader, and provider
// registry for the semantic-chunker pipeline.
package config

// Config is the root configuration structure for a chunker run.
// It is typically loaded from a YAML file using [Load] or [LoadFromReader].
type Config struct {
	// LogLevel controls verbosity. Valid values: "debug", "info", "warn", "error".
	LogLevel string `yaml:"log_level"`

	Runtime           RuntimeConfig           `yaml:"runtime"`
	LLM               LLMConfig               `yaml:"llm"`
	Failover          FailoverConfig          `yaml:"failover"`
	DocumentStructure DocumentStructureConfig `yaml:"document_structure"`
	Builder           BuilderConfig           `yaml:"builder"`
}

// RuntimeConfig holds embedder and concurrency tuning shared across the run.
type RuntimeConfig struct {
	// Device is an accelerator tag for the embedder, e.g. "cpu", "mps", "cuda".
	// It is informational; the embedding provider decides what to do with it.
	Device string `yaml:"device"`

	// BatchSize is the embedder's micro-batch size.
	BatchSize int `yaml:"batch_size"`

	// LLMConcurrency is the router's semaphore capacity — the maximum
	// number of in-flight LLM calls shared between the local and remote
	// backends.
	LLMConcurrency int64 `yaml:"llm_concurrency"`
}

// LLMConfig selects and configures the provider router's backend.
type LLMConfig struct {
	// Provider selects the router's dispatch mode. Valid values: "local",
	// "remote", "auto".
	Provider string `yaml:"provider"`

	Local  LocalLLMConfig  `yaml:"local"`
	Remote RemoteLLMConfig `yaml:"remote"`
}

// LocalLLMConfig configures the local OpenAI-compatible chat endpoint.
type LocalLLMConfig struct {
	// ServerURL is the base URL for the local chat-completions endpoint.
	ServerURL string `yaml:"server_url"`

	// ModelPath is informational; the server addressed by ServerURL may
	// ignore it entirely.
	ModelPath string `yaml:"model_path"`
}

// RemoteLLMConfig configures the hosted OpenAI-compatible chat endpoint.
type RemoteLLMConfig struct {
	// Endpoint is the OpenAI-compatible base URL. Leave empty to use the
	// provider's built-in default.
	Endpoint string `yaml:"endpoint"`

	// Model is the model name passed in every request.
	Model string `yaml:"model"`

	// APIKey authenticates against Endpoint. Typically sourced from an
	// environment variable rather than committed to a config file.
	APIKey string `yaml:"api_key"`
}

// FailoverConfig tunes the auto-mode health warning.
type FailoverConfig struct {
	// F1DropThreshold is the absolute rolling-F1 drop against a gold set
	// that triggers an operator warning when LLM.Provider is "auto". It
	// never causes a silent backend switch.
	F1DropThreshold float64 `yaml:"f1_drop_threshold"`
}

// DocumentStructureConfig mirrors preprocessor.Config's recognised options.
type DocumentStructureConfig struct {
	DetectMarkdown      bool `yaml:"detect_markdown"`
	DetectHTML          bool `yaml:"detect_html"`
	DetectIndentation   bool `yaml:"detect_indentation"`
	TabWidth            int  `yaml:"tab_width"`
	MinHeaderLevel      int  `yaml:"min_header_level"`
	MaxHeaderLevel      int  `yaml:"max_header_level"`
	ListIndentThreshold int  `yaml:"list_indent_threshold"`
}

// BuilderConfig bounds chunk size.
type BuilderConfig struct {
	MinChars  int `yaml:"min_chars"`
	MaxChars  int `yaml:"max_chars"`
	MaxTokens int `yaml:"max_tokens"`
}
