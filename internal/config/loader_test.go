package config

import (
	"strings"
	"testing"
)

func TestLoadFromReader_DefaultsApplied(t *testing.T) {
	cfg, err := LoadFromReader(strings.NewReader(""))
	if err != nil {
		t.Fatalf("LoadFromReader: %v", err)
	}
	if cfg.Runtime.Device != "cpu" {
		t.Errorf("Runtime.Device = %q, want cpu", cfg.Runtime.Device)
	}
	if cfg.Runtime.BatchSize != 32 {
		t.Errorf("Runtime.BatchSize = %d, want 32", cfg.Runtime.BatchSize)
	}
	if cfg.LLM.Provider != "local" {
		t.Errorf("LLM.Provider = %q, want local", cfg.LLM.Provider)
	}
	if cfg.Builder.MaxChars != 2000 {
		t.Errorf("Builder.MaxChars = %d, want 2000", cfg.Builder.MaxChars)
	}
}

func TestLoadFromReader_RejectsUnknownFields(t *testing.T) {
	yaml := `
runtime:
  device: cpu
bogus_field: true
`
	if _, err := LoadFromReader(strings.NewReader(yaml)); err == nil {
		t.Fatal("expected an error for an unknown field, got nil")
	}
}

func TestLoadFromReader_ParsesOverrides(t *testing.T) {
	yaml := `
runtime:
  device: cuda
  batch_size: 64
  llm_concurrency: 4
llm:
  provider: remote
  remote:
    endpoint: https://example.com/v1
    model: gpt-4o-mini
    api_key: sk-test
failover:
  f1_drop_threshold: 0.1
document_structure:
  detect_markdown: true
  detect_html: true
builder:
  min_chars: 100
  max_chars: 1500
`
	cfg, err := LoadFromReader(strings.NewReader(yaml))
	if err != nil {
		t.Fatalf("LoadFromReader: %v", err)
	}
	if cfg.Runtime.Device != "cuda" || cfg.Runtime.BatchSize != 64 || cfg.Runtime.LLMConcurrency != 4 {
		t.Errorf("Runtime = %+v, unexpected", cfg.Runtime)
	}
	if cfg.LLM.Remote.Endpoint != "https://example.com/v1" || cfg.LLM.Remote.Model != "gpt-4o-mini" {
		t.Errorf("LLM.Remote = %+v, unexpected", cfg.LLM.Remote)
	}
	if cfg.Builder.MinChars != 100 || cfg.Builder.MaxChars != 1500 {
		t.Errorf("Builder = %+v, unexpected", cfg.Builder)
	}
}

func TestValidate_RejectsUnknownProvider(t *testing.T) {
	cfg := &Config{LLM: LLMConfig{Provider: "bogus"}}
	applyDefaults(cfg)
	cfg.LLM.Provider = "bogus"
	if err := Validate(cfg); err == nil {
		t.Fatal("expected an error for an invalid llm.provider, got nil")
	}
}

func TestValidate_RemoteRequiresModel(t *testing.T) {
	cfg := &Config{}
	applyDefaults(cfg)
	cfg.LLM.Provider = "remote"
	if err := Validate(cfg); err == nil {
		t.Fatal("expected an error for a missing llm.remote.model, got nil")
	}
}

func TestValidate_RejectsInvertedChunkBounds(t *testing.T) {
	cfg := &Config{}
	applyDefaults(cfg)
	cfg.Builder.MinChars = 5000
	cfg.Builder.MaxChars = 100
	if err := Validate(cfg); err == nil {
		t.Fatal("expected an error for min_chars > max_chars, got nil")
	}
}

func TestValidate_RejectsOutOfRangeF1DropThreshold(t *testing.T) {
	cfg := &Config{}
	applyDefaults(cfg)
	cfg.Failover.F1DropThreshold = 1.5
	if err := Validate(cfg); err == nil {
		t.Fatal("expected an error for an out-of-range f1_drop_threshold, got nil")
	}
}
