// Package evalmetrics scores a pipeline run's detected boundaries against a
// human-labelled gold set, reporting precision, recall, and F1 (a
// supplemented feature the distillation's spec left under-specified; see
// DESIGN.md).
package evalmetrics

import "fmt"

// GoldBoundary is a single gold-set label, as decoded from a JSONL gold file
// holding one {"boundary_after_sentence_index": N} object per line.
type GoldBoundary struct {
	BoundaryAfterSentenceIndex int `json:"boundary_after_sentence_index"`
}

// Score holds the precision/recall/F1 result of comparing predicted
// boundaries against a gold set.
type Score struct {
	TruePositives  int
	FalsePositives int
	FalseNegatives int
	Precision      float64
	Recall         float64
	F1             float64
}

// String renders the score as a short human-readable summary.
func (s Score) String() string {
	return fmt.Sprintf("precision=%.3f recall=%.3f f1=%.3f (tp=%d fp=%d fn=%d)",
		s.Precision, s.Recall, s.F1, s.TruePositives, s.FalsePositives, s.FalseNegatives)
}

// Evaluate compares predicted boundary labels (indexed by adjacency, as
// produced by detector.Result.Boundaries) against a gold set of sentence
// indices after which a human labeller marked a boundary.
func Evaluate(predicted []bool, gold []GoldBoundary) Score {
	goldSet := make(map[int]struct{}, len(gold))
	for _, g := range gold {
		goldSet[g.BoundaryAfterSentenceIndex] = struct{}{}
	}

	var tp, fp int
	for i, b := range predicted {
		if !b {
			continue
		}
		if _, ok := goldSet[i]; ok {
			tp++
		} else {
			fp++
		}
	}

	predictedSet := make(map[int]struct{}, len(predicted))
	for i, b := range predicted {
		if b {
			predictedSet[i] = struct{}{}
		}
	}
	fn := 0
	for idx := range goldSet {
		if _, ok := predictedSet[idx]; !ok {
			fn++
		}
	}

	s := Score{TruePositives: tp, FalsePositives: fp, FalseNegatives: fn}
	if tp+fp > 0 {
		s.Precision = float64(tp) / float64(tp+fp)
	}
	if tp+fn > 0 {
		s.Recall = float64(tp) / float64(tp+fn)
	}
	if s.Precision+s.Recall > 0 {
		s.F1 = 2 * s.Precision * s.Recall / (s.Precision + s.Recall)
	}
	return s
}
