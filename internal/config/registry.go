package config

import (
	"errors"
	"fmt"
	"sync"

	"github.com/MrWong99/semanticchunker/pkg/embedding"
	"github.com/MrWong99/semanticchunker/pkg/llm"
)

// ErrProviderNotRegistered is returned by Create* methods when no factory has
// been registered under the requested name.
var ErrProviderNotRegistered = errors.New("config: provider not registered")

// Registry maps provider-kind names to their constructor functions. It is
// safe for concurrent use.
//
// Unlike a plugin system with an open set of provider names, the router only
// ever has two backend kinds ("local", "remote"); the Registry still pays
// off here because cmd/chunker builds one of them, or both in "auto" mode,
// depending on LLM.Provider, and tests substitute a mock factory under the
// same name.
type Registry struct {
	mu         sync.RWMutex
	llm        map[string]func(Config) (llm.Backend, error)
	embeddings map[string]func(Config) (embedding.Provider, error)
}

// NewRegistry returns an empty, ready-to-use [Registry].
func NewRegistry() *Registry {
	return &Registry{
		llm:        make(map[string]func(Config) (llm.Backend, error)),
		embeddings: make(map[string]func(Config) (embedding.Provider, error)),
	}
}

// RegisterLLM registers an LLM backend factory under name ("local" or
// "remote"). Subsequent calls with the same name overwrite the previous
// registration.
func (r *Registry) RegisterLLM(name string, factory func(Config) (llm.Backend, error)) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.llm[name] = factory
}

// RegisterEmbeddings registers an embedding provider factory under name.
func (r *Registry) RegisterEmbeddings(name string, factory func(Config) (embedding.Provider, error)) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.embeddings[name] = factory
}

// CreateLLM instantiates an LLM backend using the factory registered under
// name. Returns [ErrProviderNotRegistered] if no factory was registered.
func (r *Registry) CreateLLM(name string, cfg Config) (llm.Backend, error) {
	r.mu.RLock()
	factory, ok := r.llm[name]
	r.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: llm/%q", ErrProviderNotRegistered, name)
	}
	return factory(cfg)
}

// CreateEmbeddings instantiates an embedding provider using the factory
// registered under name.
func (r *Registry) CreateEmbeddings(name string, cfg Config) (embedding.Provider, error) {
	r.mu.RLock()
	factory, ok := r.embeddings[name]
	r.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: embeddings/%q", ErrProviderNotRegistered, name)
	}
	return factory(cfg)
}
