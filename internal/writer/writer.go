// Package writer implements the JSONL sink stage:
// it serialises chunks as newline-delimited JSON records, one per line, and
// guarantees that an aborted run leaves no partially written trailing
// record behind.
package writer

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"

	"github.com/MrWong99/semanticchunker/pkg/chunker"
)

// Record is the on-disk JSONL shape for one chunk: reconstructed text, its
// sentence breakdown, and size/structure metadata, nested under their own
// top-level keys rather than flattened alongside text.
type Record struct {
	Text      string           `json:"text"`
	Sentences []SentenceRecord `json:"sentences"`
	Metadata  RecordMetadata   `json:"metadata"`
}

// RecordMetadata is the on-disk shape of a chunk's metadata object.
type RecordMetadata struct {
	CharCount    int   `json:"char_count"`
	TokenCount   int   `json:"token_count"`
	FirstLine    int   `json:"first_line"`
	LastLine     int   `json:"last_line"`
	HeaderLevels []int `json:"header_levels,omitempty"`
	SpansList    bool  `json:"spans_list,omitempty"`
}

// SentenceRecord is the on-disk shape of a single sentence within a chunk,
// carried in every Record's "sentences" array.
type SentenceRecord struct {
	Text          string `json:"text"`
	LineNumber    int    `json:"line_number"`
	StructureType string `json:"structure_type"`
	IndentLevel   int    `json:"indent_level"`
}

// Writer serialises chunks to an underlying io.Writer as JSONL.
//
// Writer marshals each record fully in memory and only ever hands whole
// lines to the underlying writer (a line that does not fit the buffer is
// preceded by a flush of the lines already buffered), so a process killed
// mid-run never leaves a half-written JSON object as the last line of the
// file — the worst case is missing trailing records, not a corrupt one.
type Writer struct {
	bw *bufio.Writer
}

// New constructs a Writer over w. Every record carries its full sentence
// breakdown alongside the reconstructed chunk text, per the fixed output
// schema.
func New(w io.Writer) *Writer {
	return &Writer{bw: bufio.NewWriter(w)}
}

// WriteChunk serialises a single chunk as one JSON line.
func (w *Writer) WriteChunk(c chunker.Chunk) error {
	sentences := make([]SentenceRecord, len(c.Sentences))
	for i, s := range c.Sentences {
		sentences[i] = SentenceRecord{
			Text:          s.Text,
			LineNumber:    s.LineNumber,
			StructureType: s.StructureType.String(),
			IndentLevel:   s.IndentLevel,
		}
	}

	rec := Record{
		Text:      c.Text,
		Sentences: sentences,
		Metadata: RecordMetadata{
			CharCount:    c.CharCount,
			TokenCount:   c.TokenCount,
			FirstLine:    c.Metadata.FirstLine,
			LastLine:     c.Metadata.LastLine,
			HeaderLevels: c.Metadata.HeaderLevels,
			SpansList:    c.Metadata.SpansList,
		},
	}

	line, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("writer: marshal record: %w", err)
	}
	line = append(line, '\n')

	// Flush whole buffered lines first when this line does not fit, so the
	// buffer never spills a partial line to the underlying writer.
	if len(line) > w.bw.Available() && w.bw.Buffered() > 0 {
		if err := w.bw.Flush(); err != nil {
			return fmt.Errorf("writer: flush: %w", err)
		}
	}
	if _, err := w.bw.Write(line); err != nil {
		return fmt.Errorf("writer: write record: %w", err)
	}
	return nil
}

// Flush flushes any buffered output to the underlying writer. Call it once
// after the last successful WriteChunk — a run that aborts before Flush
// loses at most the buffered tail, never a corrupt partial line, since
// WriteChunk only lets whole lines leave the buffer.
func (w *Writer) Flush() error {
	if err := w.bw.Flush(); err != nil {
		return fmt.Errorf("writer: flush: %w", err)
	}
	return nil
}
