package pipeline

import (
	"context"
	"testing"

	"github.com/MrWong99/semanticchunker/internal/builder"
	"github.com/MrWong99/semanticchunker/internal/detector"
	"github.com/MrWong99/semanticchunker/internal/embedder"
	"github.com/MrWong99/semanticchunker/internal/llmrouter"
	"github.com/MrWong99/semanticchunker/internal/preprocessor"
	"github.com/MrWong99/semanticchunker/pkg/embedding/mock"
	"github.com/MrWong99/semanticchunker/pkg/llm"
	llmmock "github.com/MrWong99/semanticchunker/pkg/llm/mock"
)

func newTestStages(t *testing.T) Stages {
	t.Helper()

	embProvider := &mock.Provider{Dims: 4}
	emb := embedder.New(embProvider, embedder.Config{}, nil)

	backend := &llmmock.Backend{Response: &llm.CompletionResponse{Content: "NO"}}
	router := llmrouter.New(backend, nil, llmrouter.Config{Mode: llmrouter.ModeLocal}, nil)

	return Stages{
		Preprocessor: preprocessor.New(preprocessor.Config{DetectMarkdown: true, DetectIndentation: true}),
		Embedder:     emb,
		Detector:     detector.New(router, detector.Config{}),
		Builder:      builder.New(builder.Config{}),
	}
}

func TestRun_ProducesChunksFromPlainText(t *testing.T) {
	stages := newTestStages(t)

	text := "# Heading\n\nFirst sentence. Second sentence.\n"
	result, err := Run(context.Background(), stages, text)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(result.Sentences) == 0 {
		t.Fatal("expected at least one sentence")
	}
	if len(result.Chunks) == 0 {
		t.Fatal("expected at least one chunk")
	}
	if len(result.Boundaries) != len(result.Sentences)-1 {
		t.Errorf("len(Boundaries) = %d, want %d", len(result.Boundaries), len(result.Sentences)-1)
	}
}

func TestRun_EmptyInputProducesNoChunks(t *testing.T) {
	stages := newTestStages(t)

	result, err := Run(context.Background(), stages, "")
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(result.Chunks) != 0 || len(result.Sentences) != 0 {
		t.Errorf("result = %+v, want empty", result)
	}
}
