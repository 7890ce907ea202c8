package embedder

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/MrWong99/semanticchunker/pkg/chunker"
	"github.com/MrWong99/semanticchunker/pkg/embedding/mock"
)

func sentences(texts ...string) []chunker.Sentence {
	out := make([]chunker.Sentence, len(texts))
	for i, t := range texts {
		out[i] = chunker.Sentence{Text: t, LineNumber: i + 1}
	}
	return out
}

func TestEmbedSentences_PreservesOrderAndNormalises(t *testing.T) {
	provider := &mock.Provider{
		Vectors: map[string][]float32{
			"a": {3, 4, 0},
			"b": {0, 0, 5},
			"c": {1, 0, 0},
		},
		Dims: 3,
	}
	e := New(provider, Config{BatchSize: 2}, nil)

	vecs, err := e.EmbedSentences(context.Background(), sentences("a", "b", "c"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(vecs) != 3 {
		t.Fatalf("len(vecs) = %d, want 3", len(vecs))
	}

	for i, v := range vecs {
		var sumSq float64
		for _, x := range v {
			sumSq += float64(x) * float64(x)
		}
		if math.Abs(sumSq-1) > 1e-4 {
			t.Errorf("vector %d not unit length: sumSq=%v", i, sumSq)
		}
	}

	if vecs[0][0] <= 0 || vecs[0][1] <= 0 {
		t.Errorf("vector 0 = %v, want same direction as (3,4,0)", vecs[0])
	}
}

func TestEmbedSentences_BatchesRequests(t *testing.T) {
	provider := &mock.Provider{Dims: 4}
	e := New(provider, Config{BatchSize: 2}, nil)

	_, err := e.EmbedSentences(context.Background(), sentences("a", "b", "c", "d", "e"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(provider.Calls) != 3 {
		t.Fatalf("len(provider.Calls) = %d, want 3 batches of size <=2", len(provider.Calls))
	}
	if len(provider.Calls[0].Texts) != 2 || len(provider.Calls[2].Texts) != 1 {
		t.Fatalf("unexpected batch sizes: %v", provider.Calls)
	}
}

type flakyOnce struct {
	calls int
	dims  int
}

func (f *flakyOnce) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	f.calls++
	if f.calls == 1 {
		return nil, errors.New("transient failure")
	}
	out := make([][]float32, len(texts))
	for i := range texts {
		out[i] = make([]float32, f.dims)
		out[i][0] = 1
	}
	return out, nil
}

func (f *flakyOnce) Dimensions() int  { return f.dims }
func (f *flakyOnce) ModelID() string { return "flaky" }

func TestEmbedSentences_RetriesOnceWithHalvedBatch(t *testing.T) {
	provider := &flakyOnce{dims: 3}
	e := New(provider, Config{BatchSize: 4}, nil)

	vecs, err := e.EmbedSentences(context.Background(), sentences("a", "b", "c", "d"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(vecs) != 4 {
		t.Fatalf("len(vecs) = %d, want 4", len(vecs))
	}
	// 1 failed full-batch call + 2 halved-batch calls.
	if provider.calls != 3 {
		t.Fatalf("provider.calls = %d, want 3", provider.calls)
	}
}

type alwaysFails struct{ dims int }

func (f *alwaysFails) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	return nil, errors.New("permanent failure")
}
func (f *alwaysFails) Dimensions() int  { return f.dims }
func (f *alwaysFails) ModelID() string { return "broken" }

func TestEmbedSentences_FatalAfterHalvedRetryFails(t *testing.T) {
	provider := &alwaysFails{dims: 3}
	e := New(provider, Config{BatchSize: 4}, nil)

	_, err := e.EmbedSentences(context.Background(), sentences("a", "b"))
	if err == nil {
		t.Fatal("expected error")
	}
	var embErr *Error
	if !errors.As(err, &embErr) {
		t.Fatalf("error = %v, want *Error", err)
	}
}

func TestEmbedSentences_ScratchRelease(t *testing.T) {
	provider := &mock.Provider{Dims: 2}
	e := New(provider, Config{BatchSize: 1, ScratchReleaseEvery: 2}, nil)

	texts := make([]string, 5)
	for i := range texts {
		texts[i] = string(rune('a' + i))
	}
	_, err := e.EmbedSentences(context.Background(), sentences(texts...))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(provider.Calls) != 5 {
		t.Fatalf("len(provider.Calls) = %d, want 5", len(provider.Calls))
	}
}
