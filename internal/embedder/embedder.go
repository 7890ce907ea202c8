// Package embedder implements the embedding stage: it
// micro-batches sentence text from the pre-processor, calls an
// [embedding.Provider] for each batch, and normalises every returned vector
// to unit length so the detector's Stage A can use a plain dot product as
// cosine similarity.
package embedder

import (
	"context"
	"fmt"
	"log/slog"
	"math"

	"github.com/MrWong99/semanticchunker/pkg/chunker"
	"github.com/MrWong99/semanticchunker/pkg/embedding"
)

// DefaultBatchSize is used when Config.BatchSize is zero.
const DefaultBatchSize = 32

// DefaultScratchReleaseEvery is used when Config.ScratchReleaseEvery is zero.
// Every Nth batch, the embedder drops its scratch buffers back to the
// runtime so long documents don't pin an ever-growing working set.
const DefaultScratchReleaseEvery = 16

// Config tunes the embedder's batching behaviour.
type Config struct {
	// BatchSize is the number of sentences embedded per provider call.
	// Default: DefaultBatchSize.
	BatchSize int

	// ScratchReleaseEvery controls how often (in batches) the embedder
	// resets its internal scratch slice capacity. Default:
	// DefaultScratchReleaseEvery.
	ScratchReleaseEvery int
}

// Embedder computes L2-normalised embedding vectors for a sequence of
// sentences, preserving input order.
type Embedder struct {
	provider embedding.Provider
	batch    int
	release  int

	logger *slog.Logger
}

// New constructs an Embedder backed by provider. A nil logger falls back to
// slog.Default().
func New(provider embedding.Provider, cfg Config, logger *slog.Logger) *Embedder {
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = DefaultBatchSize
	}
	if cfg.ScratchReleaseEvery <= 0 {
		cfg.ScratchReleaseEvery = DefaultScratchReleaseEvery
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Embedder{provider: provider, batch: cfg.BatchSize, release: cfg.ScratchReleaseEvery, logger: logger}
}

// EmbedSentences computes one normalised vector per sentence, in order.
//
// On a batch failure the embedder retries once with the batch split in
// half; if the halved batches also fail, EmbedSentences returns an
// [Error] wrapping the underlying cause and processing stops — this is a
// fatal condition for the pipeline run.
func (e *Embedder) EmbedSentences(ctx context.Context, sentences []chunker.Sentence) ([][]float32, error) {
	out := make([][]float32, len(sentences))
	texts := make([]string, 0, e.batch)

	batchesSinceRelease := 0
	for start := 0; start < len(sentences); start += e.batch {
		end := start + e.batch
		if end > len(sentences) {
			end = len(sentences)
		}

		texts = texts[:0]
		for _, s := range sentences[start:end] {
			texts = append(texts, s.Text)
		}

		vecs, err := e.embedWithRetry(ctx, texts)
		if err != nil {
			return nil, &Error{Start: start, End: end, Cause: err}
		}
		for i, v := range vecs {
			out[start+i] = normalize(v)
		}

		batchesSinceRelease++
		if batchesSinceRelease >= e.release {
			texts = make([]string, 0, e.batch)
			batchesSinceRelease = 0
		}
	}

	return out, nil
}

// embedWithRetry calls the provider once, and on failure retries a single
// time with the batch split into two halves, concatenating the results.
// A failure of either half after the retry is fatal.
func (e *Embedder) embedWithRetry(ctx context.Context, texts []string) ([][]float32, error) {
	vecs, err := e.provider.EmbedBatch(ctx, texts)
	if err == nil {
		return vecs, nil
	}

	e.logger.Warn("embedding batch failed, retrying with halved batch",
		"batch_size", len(texts), "error", err)

	if len(texts) <= 1 {
		return nil, err
	}

	mid := len(texts) / 2
	first, err1 := e.provider.EmbedBatch(ctx, texts[:mid])
	if err1 != nil {
		return nil, fmt.Errorf("retry first half: %w", err1)
	}
	second, err2 := e.provider.EmbedBatch(ctx, texts[mid:])
	if err2 != nil {
		return nil, fmt.Errorf("retry second half: %w", err2)
	}
	return append(first, second...), nil
}

// normalize returns v scaled to unit L2 length. A zero vector is returned
// unchanged to avoid dividing by zero.
func normalize(v []float32) []float32 {
	var sumSq float64
	for _, x := range v {
		sumSq += float64(x) * float64(x)
	}
	if sumSq == 0 {
		return v
	}
	norm := float32(math.Sqrt(sumSq))
	out := make([]float32, len(v))
	for i, x := range v {
		out[i] = x / norm
	}
	return out
}
