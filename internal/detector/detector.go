package detector

import (
	"context"

	"github.com/MrWong99/semanticchunker/internal/llmrouter"
	"github.com/MrWong99/semanticchunker/pkg/chunker"
)

// Config bundles the per-stage tuning knobs for the full cascade.
type Config struct {
	StageA StageAConfig
	StageB StageBConfig
	StageC StageCConfig
	StageD StageDConfig
}

// Detector runs the four-stage boundary-detection cascade described in
// package doc.
type Detector struct {
	router *llmrouter.Router
	cfg    Config
}

// New constructs a Detector. router is used only for Stage C; candidates
// fully resolved by Stage A/B never reach it.
func New(router *llmrouter.Router, cfg Config) *Detector {
	return &Detector{router: router, cfg: cfg}
}

// Result is the cascade's per-document output: one Candidate per adjacency,
// in source order, each carrying its final label and the stage that
// produced it.
type Result struct {
	Candidates []Candidate
}

// Detect runs the cascade over sentences and their aligned, unit-normalised
// embeddings (len(embeddings) == len(sentences)) and returns the final
// boundary decision for every adjacency.
//
// Stage order is fixed: A screens on raw similarity, B screens what's left
// with a local anomaly check, C adjudicates whatever remains with the LLM
// router, and D applies structural overrides/demotions over the combined
// result — D can flip any prior stage's label.
func (d *Detector) Detect(ctx context.Context, sentences []chunker.Sentence, embeddings [][]float32) (Result, error) {
	if len(sentences) < 2 {
		return Result{}, nil
	}

	candidates := runStageA(embeddings, d.cfg.StageA)
	runStageB(candidates, d.cfg.StageB)
	if err := runStageC(ctx, sentences, candidates, d.router, d.cfg.StageC); err != nil {
		return Result{}, err
	}
	runStageD(sentences, candidates, d.cfg.StageD)

	return Result{Candidates: candidates}, nil
}

// Boundaries extracts the plain []bool boundary labels, indexed by
// adjacency, from a Result.
func (r Result) Boundaries() []bool {
	out := make([]bool, len(r.Candidates))
	for i, c := range r.Candidates {
		out[i] = c.Boundary
	}
	return out
}
