package detector

import "testing"

func TestRunStageA_ThresholdsResolveExtremes(t *testing.T) {
	embeddings := [][]float32{
		{1, 0}, // identical to next -> sim 1.0 -> non-boundary
		{1, 0}, // orthogonal to next -> sim 0.0 -> boundary
		{0, 1}, // sim 0.8 to next
		{0.6, 0.8},
	}
	candidates := runStageA(embeddings, StageAConfig{ThetaHigh: 0.8, ThetaLow: 0.2})

	if len(candidates) != 3 {
		t.Fatalf("len(candidates) = %d, want 3", len(candidates))
	}
	if !candidates[0].Resolved || candidates[0].Boundary {
		t.Errorf("candidate 0 = %+v, want resolved non-boundary", candidates[0])
	}
	if !candidates[1].Resolved || !candidates[1].Boundary {
		t.Errorf("candidate 1 = %+v, want resolved boundary", candidates[1])
	}
}

func TestRunStageA_MidRangeLeftUnresolved(t *testing.T) {
	embeddings := [][]float32{
		{1, 0},
		{0.7, 0.71414}, // sim ~0.707, between defaults 0.45 and 0.82
	}
	candidates := runStageA(embeddings, StageAConfig{})
	if candidates[0].Resolved {
		t.Errorf("candidate = %+v, want unresolved for mid-range similarity", candidates[0])
	}
}
