// Package chunker defines the shared data types that flow through the
// semantic-chunking pipeline: structured sentences produced by the
// pre-processor, and the chunks assembled from them.
//
// These types are intentionally minimal — each pipeline stage package defines
// its own internal working state, but the data that crosses stage boundaries
// lives here to avoid circular imports between internal/preprocessor,
// internal/detector, and internal/builder.
package chunker

// StructureType classifies the structural role of a line/sentence in the
// source document.
type StructureType int

const (
	// Plain is ordinary prose — the default when no other rule matches.
	Plain StructureType = iota

	// Header is a Markdown/HTML heading line.
	Header

	// List is a single list item line (ordered or unordered).
	List

	// Code is a line inside a fenced code block, emitted verbatim.
	Code

	// Table is a pipe-delimited table row.
	Table

	// Blank marks an empty line. Blank-typed sentences never reach the
	// detector — the pre-processor consumes them as paragraph-break hints on
	// the following sentence.
	Blank
)

// String returns the lowercase wire-format name of the structure type, as
// used in Sentence.StructureInfo and the structure_type field of each JSONL
// sentence record.
func (t StructureType) String() string {
	switch t {
	case Plain:
		return "plain"
	case Header:
		return "header"
	case List:
		return "list"
	case Code:
		return "code"
	case Table:
		return "table"
	case Blank:
		return "blank"
	default:
		return "unknown"
	}
}

// Sentence is a single structured unit emitted by the pre-processor:
// the sentence body plus the document-structural metadata needed by the
// detector and builder downstream.
//
// Invariants (enforced by internal/preprocessor): no Blank-typed sentence is
// ever emitted to the detector; LineNumber is non-decreasing across the
// stream; Text is non-empty after trimming.
type Sentence struct {
	// Text is the sentence body, trimmed of enclosing whitespace but with
	// internal spacing preserved.
	Text string

	// LineNumber is the 1-indexed source line on which the sentence starts.
	LineNumber int

	// StructureType classifies the sentence's structural role.
	StructureType StructureType

	// IndentLevel is the count of leading space-equivalent units (tab-width
	// normalised), used by list-nesting and Stage-D indent-delta rules.
	IndentLevel int

	// StructureInfo is an opaque, enum-like annotation such as "header:2",
	// "list:unordered", or "list:ordered". A "paragraph_break" suffix marks a
	// sentence that immediately followed one or more blank lines.
	StructureInfo string
}

// IsHeader reports whether the sentence is a heading line.
func (s Sentence) IsHeader() bool { return s.StructureType == Header }

// IsList reports whether the sentence is a list item line.
func (s Sentence) IsList() bool { return s.StructureType == List }

// Chunk is a contiguous, ordered, non-empty run of sentences assembled by the
// builder. Every Sentence emitted by the pre-processor appears in exactly one
// Chunk, and chunks are produced in source order.
type Chunk struct {
	// Sentences is the ordered sequence of sentences belonging to this chunk.
	Sentences []Sentence

	// Text is the reconstructed chunk text.
	Text string

	// CharCount is len(Text) in runes.
	CharCount int

	// TokenCount is an approximate token count of Text, used as a guard
	// alongside CharCount when token bounds are configured.
	TokenCount int

	// Metadata summarises the chunk's structural content.
	Metadata ChunkMetadata
}

// ChunkMetadata is a structural summary of a Chunk, useful to downstream
// consumers without re-scanning Sentences.
type ChunkMetadata struct {
	// HeaderLevels lists the distinct heading levels present in the chunk, in
	// first-seen order. Empty when the chunk spans no heading.
	HeaderLevels []int

	// SpansList is true if the chunk contains at least one List-typed
	// sentence.
	SpansList bool

	// FirstLine and LastLine give the inclusive source line range covered by
	// the chunk.
	FirstLine int
	LastLine  int
}
