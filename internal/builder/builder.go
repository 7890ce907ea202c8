// Package builder implements the chunk-assembly stage: it walks the sentence stream and the detector's per-adjacency
// boundary labels, groups sentences into bounded chunks, and reconstructs
// each chunk's display text.
package builder

import (
	"strings"

	"github.com/MrWong99/semanticchunker/pkg/chunker"
)

// DefaultMaxChars is used when Config.MaxChars is zero.
const DefaultMaxChars = 2000

// approxCharsPerToken approximates token count from character count when no
// real tokenizer is wired in.
const approxCharsPerToken = 4

// Config tunes chunk-size bounds.
type Config struct {
	// MaxChars is the soft upper bound on a chunk's character count. A
	// detected boundary is honoured unless the open chunk is still under
	// MinChars; MaxChars only forces an additional split when a chunk would
	// otherwise grow past it.
	// Default: DefaultMaxChars.
	MaxChars int

	// MaxTokens, if non-zero, is an additional soft upper bound expressed
	// in approximate tokens, checked alongside MaxChars.
	MaxTokens int

	// MinChars is the minimum character count a chunk must reach before a
	// detected boundary is honoured, to avoid pathologically tiny chunks.
	// A boundary is still forced regardless of MinChars when the next
	// sentence is a Header.
	MinChars int
}

func (c Config) withDefaults() Config {
	if c.MaxChars <= 0 {
		c.MaxChars = DefaultMaxChars
	}
	return c
}

// Builder assembles chunker.Chunk values from a sentence stream and its
// per-adjacency boundary labels.
type Builder struct {
	cfg Config
}

// New constructs a Builder.
func New(cfg Config) *Builder {
	return &Builder{cfg: cfg.withDefaults()}
}

// Build groups sentences into chunks. boundaries must have length
// len(sentences)-1: boundaries[i] is true if a chunk boundary belongs
// after sentences[i].
//
// Sentences accumulate into the current group one at a time. On each
// arrival: a detected boundary seals the current group once it has
// reached MinChars (or the arriving sentence is a Header, which always
// forces the split); failing that, if the arriving sentence would push
// the group past MaxChars/MaxTokens, the current group is sealed first
// (MinChars is not consulted here) and the new sentence starts a fresh
// group; a sentence that is already oversized on its own is emitted as
// its own chunk immediately rather than accumulating further sentences
// onto it, since a single sentence is never split. Whatever remains is
// sealed at end of stream.
func (b *Builder) Build(sentences []chunker.Sentence, boundaries []bool) []chunker.Chunk {
	if len(sentences) == 0 {
		return nil
	}

	var chunks []chunker.Chunk
	start := 0 // sentences[start:i] is the not-yet-sealed group

	seal := func(end int) {
		if end > start {
			chunks = append(chunks, b.assemble(sentences[start:end]))
		}
		start = end
	}

	for i := range sentences {
		if start < i && boundaries[i-1] {
			if charCount(sentences[start:i]) >= b.cfg.MinChars || sentences[i].IsHeader() {
				seal(i)
			}
		}
		if start < i && b.exceedsBounds(sentences[start:i+1]) {
			seal(i)
		}
		if start == i && b.exceedsBounds(sentences[i:i+1]) {
			seal(i + 1)
		}
	}
	seal(len(sentences))

	return chunks
}

// exceedsBounds reports whether group already exceeds the configured size
// bounds, forcing a split even without a detected boundary.
func (b *Builder) exceedsBounds(group []chunker.Sentence) bool {
	chars := charCount(group)
	if chars > b.cfg.MaxChars {
		return true
	}
	if b.cfg.MaxTokens > 0 && chars/approxCharsPerToken > b.cfg.MaxTokens {
		return true
	}
	return false
}

func charCount(group []chunker.Sentence) int {
	n := 0
	for _, s := range group {
		n += len([]rune(s.Text))
	}
	return n
}

// assemble reconstructs a Chunk's text and metadata from its sentence group.
func (b *Builder) assemble(group []chunker.Sentence) chunker.Chunk {
	text := Reconstruct(group)
	meta := chunker.ChunkMetadata{
		FirstLine: group[0].LineNumber,
		LastLine:  group[len(group)-1].LineNumber,
	}

	seenLevel := map[int]bool{}
	for _, s := range group {
		if s.IsList() {
			meta.SpansList = true
		}
		if s.IsHeader() {
			level := headerLevel(s.StructureInfo)
			if level > 0 && !seenLevel[level] {
				seenLevel[level] = true
				meta.HeaderLevels = append(meta.HeaderLevels, level)
			}
		}
	}

	charN := len([]rune(text))
	return chunker.Chunk{
		Sentences:  append([]chunker.Sentence(nil), group...),
		Text:       text,
		CharCount:  charN,
		TokenCount: charN / approxCharsPerToken,
		Metadata:   meta,
	}
}

func headerLevel(info string) int {
	for _, part := range strings.Split(info, ",") {
		if strings.HasPrefix(part, "header:") {
			n := 0
			for _, r := range part[len("header:"):] {
				if r < '0' || r > '9' {
					break
				}
				n = n*10 + int(r-'0')
			}
			return n
		}
	}
	return 0
}
