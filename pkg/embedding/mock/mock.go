// Package mock provides a test double for the embedding.Provider interface.
package mock

import (
	"context"
	"sync"

	"github.com/MrWong99/semanticchunker/pkg/embedding"
)

// Call records a single invocation of EmbedBatch.
type Call struct {
	Texts []string
}

// Provider is a mock implementation of embedding.Provider.
//
// Vectors maps an input text verbatim to its canned embedding. If a text is
// not present in Vectors, syntheticVector derives a deterministic one, so
// tests that only care about distinctness need not populate every entry.
type Provider struct {
	mu sync.Mutex

	// Vectors holds canned embeddings keyed by input text.
	Vectors map[string][]float32

	// Dims is returned by Dimensions. Defaults to 8 if zero.
	Dims int

	// Model is returned by ModelID.
	Model string

	// Err, if non-nil, is returned as the error from EmbedBatch.
	Err error

	// Calls records every invocation of EmbedBatch in order.
	Calls []Call
}

var _ embedding.Provider = (*Provider)(nil)

// EmbedBatch implements embedding.Provider.
func (p *Provider) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.Calls = append(p.Calls, Call{Texts: append([]string(nil), texts...)})

	if p.Err != nil {
		return nil, p.Err
	}

	dims := p.dims()
	out := make([][]float32, len(texts))
	for i, t := range texts {
		if v, ok := p.Vectors[t]; ok {
			out[i] = v
			continue
		}
		out[i] = syntheticVector(t, dims)
	}
	return out, nil
}

// Dimensions implements embedding.Provider.
func (p *Provider) Dimensions() int {
	return p.dims()
}

func (p *Provider) dims() int {
	if p.Dims == 0 {
		return 8
	}
	return p.Dims
}

// ModelID implements embedding.Provider.
func (p *Provider) ModelID() string {
	if p.Model == "" {
		return "mock-embedding"
	}
	return p.Model
}

// Reset clears all recorded calls.
func (p *Provider) Reset() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.Calls = nil
}

// syntheticVector derives a deterministic unit-ish vector from text so that
// distinct inputs produce distinct, reproducible embeddings without a real
// model.
func syntheticVector(text string, dims int) []float32 {
	v := make([]float32, dims)
	h := fnv32(text)
	for i := range v {
		h = h*16777619 ^ uint32(i+1)
		v[i] = float32(h%2001-1000) / 1000.0
	}
	return v
}

func fnv32(s string) uint32 {
	var h uint32 = 2166136261
	for i := 0; i < len(s); i++ {
		h ^= uint32(s[i])
		h *= 16777619
	}
	return h
}
