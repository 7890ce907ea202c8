// Package detector implements the four-stage boundary-detection cascade: a
// cheap embedding-similarity screen (Stage A), a sliding-window anomaly
// check (Stage B), concurrent LLM majority-vote adjudication for whatever
// remains uncertain (Stage C), and a structural post-filter that can force
// or demote any prior label (Stage D).
//
// Each stage is implemented in its own file (stage_a.go..stage_d.go) and
// operates on the same []Candidate slice, one entry per adjacency between
// sentence i and sentence i+1. Detect orchestrates the cascade and returns
// the final boundary decision per adjacency, in source order.
package detector

// Candidate is the per-adjacency working state threaded through the
// cascade. Index i represents the adjacency between sentences[i] and
// sentences[i+1].
type Candidate struct {
	Index int

	// Similarity is the cosine similarity between the two adjoining
	// sentence embeddings, computed once in Stage A.
	Similarity float64

	// ZScore is the robust (MAD-based) anomaly score computed by Stage B,
	// for adjacencies Stage A left uncertain.
	ZScore float64

	// Hint is Stage B's lean on whether this adjacency is a boundary, set
	// for every candidate Stage B examines regardless of whether its
	// z-score was strong enough to resolve the candidate outright. Stage C
	// falls back to Hint when every adjudication call for a candidate
	// fails, and also uses it to break a tied vote.
	Hint bool

	// Resolved is true once a stage has produced a final label without
	// needing further cascade stages.
	Resolved bool

	// Boundary is the current best label: true means a chunk boundary
	// belongs after sentences[Index].
	Boundary bool

	// Votes holds the individual Stage-C votes that received a response,
	// when Stage C ran for this candidate (for diagnostics/eval). true
	// means the backend answered YES (same topic, not a boundary); false
	// means NO (boundary). Calls that errored are not recorded here — see
	// VoteFailures — so len(Votes) can be less than Stage C's configured
	// NVote.
	Votes []bool

	// VoteFailures counts Stage-C adjudication calls for this candidate
	// that errored rather than returning a YES/NO answer.
	VoteFailures int

	// Source records which stage produced the final label, for eval and
	// debugging output ("stage_a", "stage_b", "stage_c", "stage_d").
	Source string
}
