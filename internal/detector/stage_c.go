package detector

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"

	"github.com/MrWong99/semanticchunker/internal/llmrouter"
	"github.com/MrWong99/semanticchunker/pkg/chunker"
	"github.com/MrWong99/semanticchunker/pkg/llm"
)

// StageCConfig tunes LLM majority-vote adjudication.
type StageCConfig struct {
	// NVote is the number of independent votes collected per candidate.
	// Odd by default to avoid ties, though a tie is still possible when
	// some calls fail and fewer than NVote votes come back. Default: 3.
	NVote int

	// ContextSentences is how many sentences of context are included on
	// each side of the adjacency in the adjudication prompt. Default: 2.
	ContextSentences int

	// MaxConcurrent bounds concurrent in-flight vote calls issued by
	// Stage C across all candidates — distinct from the router's own
	// backend concurrency cap, this limits how much adjudication work
	// Stage C fans out at once. Default: 16.
	MaxConcurrent int64

	// Temperature is passed to every vote call so repeated votes are not
	// degenerate.
	Temperature float64

	// Logger receives a warning whenever every vote call for a candidate
	// fails. Defaults to slog.Default().
	Logger *slog.Logger
}

func (c StageCConfig) withDefaults() StageCConfig {
	if c.NVote <= 0 {
		c.NVote = 3
	}
	if c.NVote%2 == 0 {
		c.NVote++
	}
	if c.ContextSentences <= 0 {
		c.ContextSentences = 2
	}
	if c.MaxConcurrent <= 0 {
		c.MaxConcurrent = 16
	}
	if c.Temperature == 0 {
		c.Temperature = 0.3
	}
	if c.Logger == nil {
		c.Logger = slog.Default()
	}
	return c
}

// runStageC adjudicates every candidate Stage A/B left unresolved by
// issuing cfg.NVote concurrent LLM calls per candidate through router,
// bounded by an internal semaphore, and taking the majority vote.
//
// A vote of YES means the backend judged the two sentences to belong to
// the same topic (not a boundary); NO means a boundary. A candidate whose
// calls all fail, or whose successful votes tie, falls back to the
// Stage-B hint recorded on the candidate — an all-failure fallback is
// logged as a warning.
func runStageC(ctx context.Context, sentences []chunker.Sentence, candidates []Candidate, router *llmrouter.Router, cfg StageCConfig) error {
	cfg = cfg.withDefaults()
	sem := semaphore.NewWeighted(cfg.MaxConcurrent)

	eg, egCtx := errgroup.WithContext(ctx)
	for i := range candidates {
		if candidates[i].Resolved {
			continue
		}
		i := i
		eg.Go(func() error {
			votes, failures, err := voteOne(egCtx, sentences, candidates[i].Index, router, sem, cfg)
			if err != nil {
				return err
			}
			candidates[i].Votes = votes
			candidates[i].VoteFailures = failures
			candidates[i].Resolved = true
			candidates[i].Source = "stage_c"

			if failures == cfg.NVote {
				cfg.Logger.Warn("stage_c: all adjudication calls failed, falling back to stage-b hint",
					"adjacency", candidates[i].Index, "failures", failures)
			}
			candidates[i].Boundary = resolveVote(votes, candidates[i].Hint)
			return nil
		})
	}
	return eg.Wait()
}

// voteOne collects up to cfg.NVote independent votes for the adjacency at
// idx, each call bounded by sem. A call that errors contributes to
// failures rather than votes; it is not recorded as a NO.
func voteOne(ctx context.Context, sentences []chunker.Sentence, idx int, router *llmrouter.Router, sem *semaphore.Weighted, cfg StageCConfig) (votes []bool, failures int, err error) {
	prompt := buildPrompt(sentences, idx, cfg.ContextSentences)

	results := make([]*bool, cfg.NVote)
	eg, egCtx := errgroup.WithContext(ctx)
	for v := 0; v < cfg.NVote; v++ {
		v := v
		if err := sem.Acquire(egCtx, 1); err != nil {
			return nil, 0, err
		}
		eg.Go(func() error {
			defer sem.Release(1)
			resp, callErr := router.Generate(egCtx, llm.CompletionRequest{
				Messages:    []llm.Message{{Role: "user", Content: prompt}},
				Temperature: cfg.Temperature,
				MaxTokens:   8,
			})
			if callErr != nil {
				return nil
			}
			sameTopic := isYes(resp.Content)
			results[v] = &sameTopic
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, 0, err
	}

	for _, r := range results {
		if r == nil {
			failures++
			continue
		}
		votes = append(votes, *r)
	}
	return votes, failures, nil
}

// buildPrompt renders a single-turn adjudication prompt asking whether the
// two passages surrounding sentences[idx]/sentences[idx+1] belong to the
// same topic, with up to radius sentences of context on each side.
func buildPrompt(sentences []chunker.Sentence, idx, radius int) string {
	loLeft := idx - radius + 1
	if loLeft < 0 {
		loLeft = 0
	}
	hiRight := idx + 1 + radius
	if hiRight > len(sentences) {
		hiRight = len(sentences)
	}

	var before, after strings.Builder
	for i := loLeft; i <= idx; i++ {
		before.WriteString(sentences[i].Text)
		before.WriteString(" ")
	}
	for i := idx + 1; i < hiRight; i++ {
		after.WriteString(sentences[i].Text)
		after.WriteString(" ")
	}

	return fmt.Sprintf(
		"You are judging whether two passages of text belong to the same topic.\n\n"+
			"Passage A:\n%s\n\nPassage B:\n%s\n\n"+
			"Do Passage A and Passage B belong to the same topic? "+
			"Answer with exactly one word: YES if they are the same topic, "+
			"NO if Passage B begins a new topic (a boundary).",
		strings.TrimSpace(before.String()), strings.TrimSpace(after.String()),
	)
}

// isYes reports whether content is an affirmative "same topic" answer.
func isYes(content string) bool {
	return strings.HasPrefix(strings.ToUpper(strings.TrimSpace(content)), "YES")
}

// resolveVote turns a set of same-topic votes into a boundary decision: NO
// votes (boundary) must strictly outnumber YES votes (same topic) for the
// result to be a boundary; a tie — including the zero-votes case, when
// every call failed — defers to hint.
func resolveVote(votes []bool, hint bool) bool {
	sameTopic := 0
	for _, v := range votes {
		if v {
			sameTopic++
		}
	}
	boundaryVotes := len(votes) - sameTopic
	if boundaryVotes == sameTopic {
		return hint
	}
	return boundaryVotes > sameTopic
}
