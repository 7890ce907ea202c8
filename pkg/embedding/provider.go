// Package embedding defines the Provider interface for vector embedding
// backends used by the pre-detector embedder stage.
//
// A Provider wraps a service that maps sentence text to dense float32
// vectors. The embedder assumes vectors are (or can be normalised to) unit
// length so that cosine similarity reduces to a dot product.
//
// Implementations must be safe for concurrent use.
package embedding

import "context"

// Provider is the abstraction over any text-embedding backend.
//
// All vectors returned by a single Provider instance share the same
// dimensionality (Dimensions). Callers must not mix vectors from different
// Provider instances in the same similarity computation.
type Provider interface {
	// EmbedBatch computes embedding vectors for a batch of sentence texts in
	// a single provider call. The returned slice has the same length as
	// texts, and result[i] corresponds to texts[i].
	//
	// Returns an error if the call fails or ctx is cancelled; on error the
	// returned slice is nil. Batch-level retry with a halved batch size is
	// the caller's (internal/embedder's) responsibility, not the
	// Provider's.
	EmbedBatch(ctx context.Context, texts []string) ([][]float32, error)

	// Dimensions returns the fixed length of every embedding vector
	// produced by this provider.
	Dimensions() int

	// ModelID returns the provider-specific embedding model identifier, for
	// logging and config-consistency checks.
	ModelID() string
}
