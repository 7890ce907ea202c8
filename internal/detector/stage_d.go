package detector

import (
	"strings"
	"unicode"

	"github.com/antzucaro/matchr"

	"github.com/MrWong99/semanticchunker/pkg/chunker"
)

// StageDConfig tunes the structural post-filter.
type StageDConfig struct {
	// IndentDeltaThreshold is the minimum drop in indent level (left
	// minus right, in normalised columns) that forces a boundary — a
	// sharp outdent usually means leaving a nested block. Default: 4.
	IndentDeltaThreshold int

	// EntityJaccardThreshold is the fuzzy-token-overlap ratio above which
	// a "true" label is demoted to "false": heavy shared-entity overlap
	// across the adjacency suggests continuation, not a topic change.
	// Default: 0.6.
	EntityJaccardThreshold float64

	// EntityFuzzyMatch is the matchr Jaro-Winkler score above which two
	// capitalised tokens are considered the same entity. Default: 0.90.
	EntityFuzzyMatch float64

	// ConnectiveWords demotes a "true" label to "false" when the sentence
	// following the adjacency opens with one of these (lower-cased)
	// tokens, since such connectives usually continue the prior thought
	// rather than start a new topic. Defaults to a small built-in list
	// when nil.
	ConnectiveWords []string
}

var defaultConnectives = []string{
	"however", "therefore", "thus", "moreover", "furthermore",
	"additionally", "also", "meanwhile", "consequently", "otherwise",
}

func (c StageDConfig) withDefaults() StageDConfig {
	if c.IndentDeltaThreshold <= 0 {
		c.IndentDeltaThreshold = 4
	}
	if c.EntityJaccardThreshold == 0 {
		c.EntityJaccardThreshold = 0.6
	}
	if c.EntityFuzzyMatch == 0 {
		c.EntityFuzzyMatch = 0.90
	}
	if c.ConnectiveWords == nil {
		c.ConnectiveWords = defaultConnectives
	}
	return c
}

// runStageD applies forced-true overrides, forced-false overrides, and
// label-demotion heuristics over the sentence structure surrounding each
// candidate. Forced overrides win regardless of the label a prior stage
// assigned; demotions only ever flip true to false, never the reverse.
func runStageD(sentences []chunker.Sentence, candidates []Candidate, cfg StageDConfig) {
	cfg = cfg.withDefaults()

	for i := range candidates {
		idx := candidates[i].Index
		left := sentences[idx]
		right := sentences[idx+1]

		if forced, boundary := forcedLabel(left, right, cfg); forced {
			candidates[i].Boundary = boundary
			candidates[i].Source = "stage_d"
			continue
		}

		if !candidates[i].Boundary {
			continue
		}

		if sameStructureListRun(left, right) {
			candidates[i].Boundary = false
			candidates[i].Source = "stage_d"
			continue
		}

		if highEntityOverlap(left, right, cfg) {
			candidates[i].Boundary = false
			candidates[i].Source = "stage_d"
			continue
		}

		if startsWithConnective(right.Text, cfg.ConnectiveWords) {
			candidates[i].Boundary = false
			candidates[i].Source = "stage_d"
		}
	}
}

// forcedLabel returns a forced boundary decision, when one applies:
// entering or leaving a header always forces a boundary, as does a sharp
// outdent.
func forcedLabel(left, right chunker.Sentence, cfg StageDConfig) (forced bool, boundary bool) {
	if right.IsHeader() {
		return true, true
	}
	if left.IsHeader() {
		return true, true
	}
	if left.IndentLevel-right.IndentLevel >= cfg.IndentDeltaThreshold {
		return true, true
	}
	if left.IsList() != right.IsList() {
		return true, true
	}
	return false, false
}

// sameStructureListRun reports whether left and right are both list items
// at the same indent level — consecutive items in one list are never a
// boundary regardless of what earlier stages decided.
func sameStructureListRun(left, right chunker.Sentence) bool {
	return left.IsList() && right.IsList() && left.IndentLevel == right.IndentLevel
}

// highEntityOverlap extracts capitalised-word tokens from both sentences
// as a cheap proxy for named entities, fuzzy-matches them pairwise with
// matchr's Jaro-Winkler, and reports whether the Jaccard overlap ratio
// exceeds the configured threshold.
func highEntityOverlap(left, right chunker.Sentence, cfg StageDConfig) bool {
	leftEntities := extractEntities(left.Text)
	rightEntities := extractEntities(right.Text)
	if len(leftEntities) == 0 || len(rightEntities) == 0 {
		return false
	}

	matched := 0
	for _, le := range leftEntities {
		for _, re := range rightEntities {
			if strings.EqualFold(le, re) || matchr.JaroWinkler(strings.ToLower(le), strings.ToLower(re), false) >= cfg.EntityFuzzyMatch {
				matched++
				break
			}
		}
	}

	union := len(leftEntities) + len(rightEntities) - matched
	if union == 0 {
		return false
	}
	return float64(matched)/float64(union) >= cfg.EntityJaccardThreshold
}

// extractEntities returns capitalised word tokens, a lightweight proxy for
// named entities in the absence of a real NER model in the dependency pack.
func extractEntities(text string) []string {
	var out []string
	for _, word := range strings.Fields(text) {
		trimmed := strings.TrimFunc(word, func(r rune) bool {
			return unicode.IsPunct(r)
		})
		if trimmed == "" {
			continue
		}
		first := []rune(trimmed)[0]
		if unicode.IsUpper(first) {
			out = append(out, trimmed)
		}
	}
	return out
}

func startsWithConnective(text string, connectives []string) bool {
	fields := strings.Fields(text)
	if len(fields) == 0 {
		return false
	}
	first := strings.ToLower(strings.TrimFunc(fields[0], func(r rune) bool { return unicode.IsPunct(r) }))
	for _, c := range connectives {
		if first == c {
			return true
		}
	}
	return false
}
