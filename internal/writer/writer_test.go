package writer

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/MrWong99/semanticchunker/pkg/chunker"
)

func TestWriteChunk_ProducesOneLinePerChunk(t *testing.T) {
	var buf bytes.Buffer
	w := New(&buf)

	chunks := []chunker.Chunk{
		{Text: "first chunk", CharCount: 11, Metadata: chunker.ChunkMetadata{FirstLine: 1, LastLine: 1}},
		{Text: "second chunk", CharCount: 12, Metadata: chunker.ChunkMetadata{FirstLine: 2, LastLine: 2}},
	}
	for _, c := range chunks {
		if err := w.WriteChunk(c); err != nil {
			t.Fatalf("WriteChunk: %v", err)
		}
	}
	if err := w.Flush(); err != nil {
		t.Fatalf("Flush: %v", err)
	}

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	if len(lines) != 2 {
		t.Fatalf("len(lines) = %d, want 2", len(lines))
	}

	var rec Record
	if err := json.Unmarshal([]byte(lines[0]), &rec); err != nil {
		t.Fatalf("unmarshal line 0: %v", err)
	}
	if rec.Text != "first chunk" {
		t.Errorf("Text = %q, want %q", rec.Text, "first chunk")
	}
	if rec.Metadata.FirstLine != 1 || rec.Metadata.LastLine != 1 {
		t.Errorf("Metadata = %+v, want FirstLine=1 LastLine=1", rec.Metadata)
	}
}

func TestWriteChunk_AlwaysIncludesSentences(t *testing.T) {
	var buf bytes.Buffer
	w := New(&buf)

	c := chunker.Chunk{
		Text: "a b",
		Sentences: []chunker.Sentence{
			{Text: "a", LineNumber: 1, StructureType: chunker.Plain},
			{Text: "b", LineNumber: 2, StructureType: chunker.List},
		},
	}
	if err := w.WriteChunk(c); err != nil {
		t.Fatalf("WriteChunk: %v", err)
	}
	w.Flush()

	var rec Record
	if err := json.Unmarshal(buf.Bytes(), &rec); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(rec.Sentences) != 2 {
		t.Fatalf("len(Sentences) = %d, want 2", len(rec.Sentences))
	}
	if rec.Sentences[1].StructureType != "list" {
		t.Errorf("Sentences[1].StructureType = %q, want list", rec.Sentences[1].StructureType)
	}
}

func TestWriteChunk_MetadataNestedUnderKey(t *testing.T) {
	var buf bytes.Buffer
	w := New(&buf)
	c := chunker.Chunk{
		Text:      "x",
		CharCount: 1,
		Sentences: []chunker.Sentence{{Text: "x"}},
		Metadata:  chunker.ChunkMetadata{FirstLine: 1, LastLine: 1, SpansList: true},
	}
	w.WriteChunk(c)
	w.Flush()

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(buf.Bytes(), &raw); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if _, ok := raw["metadata"]; !ok {
		t.Fatalf("output = %q, want a top-level metadata object", buf.String())
	}
	if _, ok := raw["first_line"]; ok {
		t.Errorf("output = %q, want first_line nested under metadata, not flattened", buf.String())
	}
	if _, ok := raw["sentences"]; !ok {
		t.Errorf("output = %q, want a top-level sentences array", buf.String())
	}
}
