package config

import (
	"context"
	"errors"
	"testing"

	"github.com/MrWong99/semanticchunker/pkg/llm"
)

type stubBackend struct{}

func (stubBackend) Generate(ctx context.Context, req llm.CompletionRequest) (*llm.CompletionResponse, error) {
	return &llm.CompletionResponse{}, nil
}

func TestRegistry_CreateLLM(t *testing.T) {
	r := NewRegistry()
	r.RegisterLLM("local", func(cfg Config) (llm.Backend, error) {
		return stubBackend{}, nil
	})

	backend, err := r.CreateLLM("local", Config{})
	if err != nil {
		t.Fatalf("CreateLLM: %v", err)
	}
	if backend == nil {
		t.Fatal("CreateLLM returned a nil backend")
	}
}

func TestRegistry_CreateLLM_NotRegistered(t *testing.T) {
	r := NewRegistry()
	_, err := r.CreateLLM("remote", Config{})
	if !errors.Is(err, ErrProviderNotRegistered) {
		t.Errorf("err = %v, want ErrProviderNotRegistered", err)
	}
}
