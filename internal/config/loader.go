package config

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"gopkg.in/yaml.v3"
)

// validLLMProviders lists the recognised llm.provider values.
var validLLMProviders = []string{"local", "remote", "auto"}

// Load reads the YAML configuration file at path and returns a validated
// [Config]. It is a convenience wrapper around [LoadFromReader].
func Load(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("config: open %q: %w", path, err)
	}
	defer f.Close()

	cfg, err := LoadFromReader(f)
	if err != nil {
		return nil, fmt.Errorf("config: parse %q: %w", path, err)
	}
	return cfg, nil
}

// LoadFromReader decodes a YAML config from r, applies defaults, and
// validates the result. Useful in tests where configs are constructed from
// string literals.
func LoadFromReader(r io.Reader) (*Config, error) {
	cfg := &Config{}
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && err != io.EOF {
		return nil, fmt.Errorf("config: decode yaml: %w", err)
	}
	applyDefaults(cfg)
	if err := Validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// applyDefaults fills in zero-valued fields with the pipeline's documented
// defaults, so a minimal config file is usable as-is.
func applyDefaults(cfg *Config) {
	if cfg.Runtime.Device == "" {
		cfg.Runtime.Device = "cpu"
	}
	if cfg.Runtime.BatchSize == 0 {
		cfg.Runtime.BatchSize = 32
	}
	if cfg.Runtime.LLMConcurrency == 0 {
		cfg.Runtime.LLMConcurrency = 8
	}
	if cfg.LLM.Provider == "" {
		cfg.LLM.Provider = "local"
	}
	if cfg.LLM.Local.ServerURL == "" {
		cfg.LLM.Local.ServerURL = "http://localhost:8080"
	}
	if cfg.DocumentStructure.TabWidth == 0 {
		cfg.DocumentStructure.TabWidth = 4
	}
	if cfg.DocumentStructure.MinHeaderLevel == 0 {
		cfg.DocumentStructure.MinHeaderLevel = 1
	}
	if cfg.DocumentStructure.MaxHeaderLevel == 0 {
		cfg.DocumentStructure.MaxHeaderLevel = 6
	}
	if cfg.DocumentStructure.ListIndentThreshold == 0 {
		cfg.DocumentStructure.ListIndentThreshold = 2
	}
	if cfg.Builder.MaxChars == 0 {
		cfg.Builder.MaxChars = 2000
	}
	if cfg.Builder.MinChars == 0 {
		cfg.Builder.MinChars = 200
	}
}

// Validate checks that cfg contains a coherent set of values. It returns a
// joined error listing every validation failure found, and emits slog.Warn
// for soft inconsistencies that don't block a run.
func Validate(cfg *Config) error {
	var errs []error

	if cfg.LogLevel != "" && !isValidLogLevel(cfg.LogLevel) {
		errs = append(errs, fmt.Errorf("log_level %q is invalid; valid values: debug, info, warn, error", cfg.LogLevel))
	}

	if !isValidLLMProvider(cfg.LLM.Provider) {
		errs = append(errs, fmt.Errorf("llm.provider %q is invalid; valid values: local, remote, auto", cfg.LLM.Provider))
	}

	if cfg.LLM.Provider == "remote" || cfg.LLM.Provider == "auto" {
		if cfg.LLM.Remote.Model == "" {
			errs = append(errs, errors.New("llm.remote.model is required when llm.provider is remote or auto"))
		}
		if cfg.LLM.Remote.APIKey == "" {
			slog.Warn("llm.remote.api_key is empty; the remote backend will fail authentication")
		}
	}

	if cfg.LLM.Provider == "local" || cfg.LLM.Provider == "auto" {
		if cfg.LLM.Local.ServerURL == "" {
			errs = append(errs, errors.New("llm.local.server_url is required when llm.provider is local or auto"))
		}
	}

	if cfg.Failover.F1DropThreshold < 0 || cfg.Failover.F1DropThreshold > 1 {
		errs = append(errs, fmt.Errorf("failover.f1_drop_threshold %.3f is out of range [0, 1]", cfg.Failover.F1DropThreshold))
	}
	if cfg.LLM.Provider != "auto" && cfg.Failover.F1DropThreshold != 0 {
		slog.Warn("failover.f1_drop_threshold is set but llm.provider is not auto; it will have no effect")
	}

	if cfg.DocumentStructure.MinHeaderLevel < 1 || cfg.DocumentStructure.MinHeaderLevel > 6 {
		errs = append(errs, fmt.Errorf("document_structure.min_header_level %d is out of range [1, 6]", cfg.DocumentStructure.MinHeaderLevel))
	}
	if cfg.DocumentStructure.MaxHeaderLevel < 1 || cfg.DocumentStructure.MaxHeaderLevel > 6 {
		errs = append(errs, fmt.Errorf("document_structure.max_header_level %d is out of range [1, 6]", cfg.DocumentStructure.MaxHeaderLevel))
	}
	if cfg.DocumentStructure.MinHeaderLevel > cfg.DocumentStructure.MaxHeaderLevel {
		errs = append(errs, fmt.Errorf("document_structure.min_header_level %d exceeds max_header_level %d",
			cfg.DocumentStructure.MinHeaderLevel, cfg.DocumentStructure.MaxHeaderLevel))
	}

	if cfg.Builder.MinChars > cfg.Builder.MaxChars {
		errs = append(errs, fmt.Errorf("builder.min_chars %d exceeds builder.max_chars %d", cfg.Builder.MinChars, cfg.Builder.MaxChars))
	}
	if cfg.Builder.MaxTokens < 0 {
		errs = append(errs, fmt.Errorf("builder.max_tokens %d must not be negative", cfg.Builder.MaxTokens))
	}

	if cfg.Runtime.LLMConcurrency <= 0 {
		errs = append(errs, fmt.Errorf("runtime.llm_concurrency %d must be positive", cfg.Runtime.LLMConcurrency))
	}
	if cfg.Runtime.BatchSize <= 0 {
		errs = append(errs, fmt.Errorf("runtime.batch_size %d must be positive", cfg.Runtime.BatchSize))
	}

	return errors.Join(errs...)
}

func isValidLLMProvider(name string) bool {
	for _, v := range validLLMProviders {
		if v == name {
			return true
		}
	}
	return false
}

func isValidLogLevel(level string) bool {
	switch level {
	case "debug", "info", "warn", "error":
		return true
	default:
		return false
	}
}
