// Package pipeline wires the pre-processor, embedder, detector, and builder
// into a single-document pipeline, shared by cmd/chunker's run and eval
// subcommands.
package pipeline

import (
	"context"
	"fmt"

	"github.com/MrWong99/semanticchunker/internal/builder"
	"github.com/MrWong99/semanticchunker/internal/detector"
	"github.com/MrWong99/semanticchunker/internal/embedder"
	"github.com/MrWong99/semanticchunker/internal/pipelineerr"
	"github.com/MrWong99/semanticchunker/internal/preprocessor"
	"github.com/MrWong99/semanticchunker/pkg/chunker"
)

// Stages bundles the constructed pipeline stages for a single run.
type Stages struct {
	Preprocessor *preprocessor.Preprocessor
	Embedder     *embedder.Embedder
	Detector     *detector.Detector
	Builder      *builder.Builder
}

// Result holds everything a caller might want out of a single document run:
// the structured sentences, the per-adjacency boundary decisions, and the
// assembled chunks.
type Result struct {
	Sentences  []chunker.Sentence
	Boundaries []bool
	Chunks     []chunker.Chunk
}

// Run processes text through every stage in order: pre-process, embed,
// detect boundaries, and assemble chunks.
func Run(ctx context.Context, s Stages, text string) (Result, error) {
	sentences := s.Preprocessor.Process(text)
	if len(sentences) == 0 {
		return Result{}, nil
	}

	vectors, err := s.Embedder.EmbedSentences(ctx, sentences)
	if err != nil {
		return Result{}, &pipelineerr.EmbeddingError{Cause: err}
	}

	detected, err := s.Detector.Detect(ctx, sentences, vectors)
	if err != nil {
		return Result{}, &pipelineerr.LLMCallError{Cause: err}
	}
	boundaries := detected.Boundaries()

	chunks := s.Builder.Build(sentences, boundaries)
	if len(chunks) == 0 && len(sentences) > 0 {
		return Result{}, &pipelineerr.StructuralError{Cause: fmt.Errorf("builder produced no chunks for %d sentences", len(sentences))}
	}

	return Result{Sentences: sentences, Boundaries: boundaries, Chunks: chunks}, nil
}
