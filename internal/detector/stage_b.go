package detector

import "math"

// StageBConfig tunes the sliding-window robust anomaly check.
type StageBConfig struct {
	// WindowRadius is how many candidates on each side of an adjacency
	// form its local window for median/MAD estimation. Default: 4.
	WindowRadius int

	// StrongZ is the |z-score| beyond which Stage B resolves the
	// adjacency outright rather than deferring to Stage C. A strongly
	// negative z (similarity far below the local median) resolves to a
	// boundary; a strongly positive z resolves to non-boundary. Default: 2.5.
	StrongZ float64
}

func (c StageBConfig) withDefaults() StageBConfig {
	if c.WindowRadius <= 0 {
		c.WindowRadius = 4
	}
	if c.StrongZ == 0 {
		c.StrongZ = 2.5
	}
	return c
}

// runStageB computes a robust z-score (via the median and MAD of each
// candidate's local similarity window) for every candidate Stage A left
// unresolved, and resolves the ones whose anomaly is strong enough.
func runStageB(candidates []Candidate, cfg StageBConfig) {
	cfg = cfg.withDefaults()
	n := len(candidates)
	if n == 0 {
		return
	}

	sims := make([]float64, n)
	for i, c := range candidates {
		sims[i] = c.Similarity
	}

	for i := range candidates {
		if candidates[i].Resolved {
			continue
		}

		lo := i - cfg.WindowRadius
		if lo < 0 {
			lo = 0
		}
		hi := i + cfg.WindowRadius + 1
		if hi > n {
			hi = n
		}
		window := sims[lo:hi]

		median := medianOf(window)
		mad := madOf(window, median)

		// 0.6745 scales MAD to be a consistent estimator of the
		// standard deviation under normality; madEpsilon keeps the score
		// finite when the window is flat (MAD of 0).
		const madEpsilon = 1e-9
		z := 0.6745 * (sims[i] - median) / (mad + madEpsilon)
		candidates[i].ZScore = z
		// A similarity well below the local median leans boundary; at or
		// above it leans continuation. This lean is recorded as Hint for
		// every candidate examined here, not only the ones strong enough
		// to resolve outright, so Stage C has a fallback for candidates it
		// cannot adjudicate itself.
		candidates[i].Hint = z < 0

		switch {
		case z <= -cfg.StrongZ:
			candidates[i].Resolved = true
			candidates[i].Boundary = true
			candidates[i].Source = "stage_b"
		case z >= cfg.StrongZ:
			candidates[i].Resolved = true
			candidates[i].Boundary = false
			candidates[i].Source = "stage_b"
		}
	}
}

func medianOf(xs []float64) float64 {
	sorted := append([]float64(nil), xs...)
	sortFloat64s(sorted)
	n := len(sorted)
	if n == 0 {
		return 0
	}
	if n%2 == 1 {
		return sorted[n/2]
	}
	return (sorted[n/2-1] + sorted[n/2]) / 2
}

func madOf(xs []float64, median float64) float64 {
	devs := make([]float64, len(xs))
	for i, x := range xs {
		devs[i] = math.Abs(x - median)
	}
	return medianOf(devs)
}

// sortFloat64s is a small insertion sort — window sizes are tiny (2*radius+1),
// so this avoids pulling in sort for a handful of elements repeatedly.
func sortFloat64s(xs []float64) {
	for i := 1; i < len(xs); i++ {
		v := xs[i]
		j := i - 1
		for j >= 0 && xs[j] > v {
			xs[j+1] = xs[j]
			j--
		}
		xs[j+1] = v
	}
}
