package detector

// StageAConfig tunes the cosine-similarity screen.
type StageAConfig struct {
	// ThetaHigh is the similarity above which an adjacency is confidently
	// labelled non-boundary (same topic). Default: 0.82.
	ThetaHigh float64

	// ThetaLow is the similarity below which an adjacency is confidently
	// labelled a boundary (topic change). Default: 0.45.
	ThetaLow float64
}

func (c StageAConfig) withDefaults() StageAConfig {
	if c.ThetaHigh == 0 {
		c.ThetaHigh = 0.82
	}
	if c.ThetaLow == 0 {
		c.ThetaLow = 0.45
	}
	return c
}

// runStageA computes the cosine similarity for every adjacency and applies
// the hard θ_high/θ_low thresholds. Candidates whose similarity falls
// between the thresholds are left unresolved for Stage B.
func runStageA(embeddings [][]float32, cfg StageAConfig) []Candidate {
	cfg = cfg.withDefaults()
	n := len(embeddings)
	if n == 0 {
		return nil
	}

	candidates := make([]Candidate, n-1)
	for i := 0; i < n-1; i++ {
		sim := cosineSimilarity(embeddings[i], embeddings[i+1])
		c := Candidate{Index: i, Similarity: sim}

		switch {
		case sim <= cfg.ThetaLow:
			c.Resolved = true
			c.Boundary = true
			c.Source = "stage_a"
		case sim >= cfg.ThetaHigh:
			c.Resolved = true
			c.Boundary = false
			c.Source = "stage_a"
		}
		candidates[i] = c
	}
	return candidates
}

// cosineSimilarity computes the dot product of two vectors, which equals
// cosine similarity when both are unit-normalised.
func cosineSimilarity(a, b []float32) float64 {
	var sum float64
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	for i := 0; i < n; i++ {
		sum += float64(a[i]) * float64(b[i])
	}
	return sum
}
