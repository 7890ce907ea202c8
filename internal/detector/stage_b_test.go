package detector

import "testing"

func TestRunStageB_ResolvesStrongAnomaly(t *testing.T) {
	candidates := make([]Candidate, 9)
	for i := range candidates {
		candidates[i] = Candidate{Index: i, Similarity: 0.7}
	}
	// A sharp similarity drop in the middle of an otherwise flat sequence.
	candidates[4].Similarity = 0.1

	runStageB(candidates, StageBConfig{WindowRadius: 4, StrongZ: 1.5})

	if !candidates[4].Resolved || !candidates[4].Boundary {
		t.Errorf("candidate 4 = %+v, want resolved boundary", candidates[4])
	}
	if candidates[0].Resolved {
		t.Errorf("candidate 0 = %+v, want unresolved (flat window)", candidates[0])
	}
}

func TestRunStageB_SkipsAlreadyResolved(t *testing.T) {
	candidates := []Candidate{
		{Index: 0, Similarity: 0.9, Resolved: true, Boundary: false, Source: "stage_a"},
		{Index: 1, Similarity: 0.1},
	}
	runStageB(candidates, StageBConfig{})
	if candidates[0].Source != "stage_a" {
		t.Errorf("candidate 0 source = %q, want unchanged stage_a", candidates[0].Source)
	}
}

func TestMedianOf(t *testing.T) {
	if got := medianOf([]float64{1, 2, 3}); got != 2 {
		t.Errorf("median = %v, want 2", got)
	}
	if got := medianOf([]float64{1, 2, 3, 4}); got != 2.5 {
		t.Errorf("median = %v, want 2.5", got)
	}
}
