package builder

import (
	"strings"
	"testing"

	"github.com/MrWong99/semanticchunker/pkg/chunker"
)

func TestBuild_SplitsOnDetectedBoundary(t *testing.T) {
	sentences := []chunker.Sentence{
		{Text: "First.", LineNumber: 1},
		{Text: "Second.", LineNumber: 2},
		{Text: "Third.", LineNumber: 3},
	}
	boundaries := []bool{true, false}

	b := New(Config{MinChars: 0})
	chunks := b.Build(sentences, boundaries)

	if len(chunks) != 2 {
		t.Fatalf("len(chunks) = %d, want 2: %+v", len(chunks), chunks)
	}
	if len(chunks[0].Sentences) != 1 || len(chunks[1].Sentences) != 2 {
		t.Fatalf("chunk sizes = %d,%d want 1,2", len(chunks[0].Sentences), len(chunks[1].Sentences))
	}
	if chunks[0].Metadata.FirstLine != 1 || chunks[1].Metadata.LastLine != 3 {
		t.Errorf("unexpected line metadata: %+v / %+v", chunks[0].Metadata, chunks[1].Metadata)
	}
}

func TestBuild_ForcesSplitOnMaxChars(t *testing.T) {
	long := strings.Repeat("x", 50)
	sentences := []chunker.Sentence{
		{Text: long, LineNumber: 1},
		{Text: long, LineNumber: 2},
		{Text: long, LineNumber: 3},
	}
	boundaries := []bool{false, false}

	b := New(Config{MaxChars: 80})
	chunks := b.Build(sentences, boundaries)

	if len(chunks) < 2 {
		t.Fatalf("len(chunks) = %d, want >= 2 given MaxChars forcing a split", len(chunks))
	}
	for _, c := range chunks {
		if c.CharCount > 80+50 { // margin above MaxChars; Build seals a chunk before a sentence would push it over
			t.Errorf("chunk too large: %d chars", c.CharCount)
		}
	}
}

func TestBuild_MinCharsSuppressesTinySplit(t *testing.T) {
	sentences := []chunker.Sentence{
		{Text: "a", LineNumber: 1},
		{Text: "b", LineNumber: 2},
	}
	boundaries := []bool{true}

	b := New(Config{MinChars: 10})
	chunks := b.Build(sentences, boundaries)

	if len(chunks) != 1 {
		t.Fatalf("len(chunks) = %d, want 1 (boundary suppressed by MinChars)", len(chunks))
	}
}

func TestBuild_HeaderAlwaysForcesSplitRegardlessOfMinChars(t *testing.T) {
	sentences := []chunker.Sentence{
		{Text: "a", LineNumber: 1},
		{Text: "Section", LineNumber: 2, StructureType: chunker.Header},
	}
	boundaries := []bool{true}

	b := New(Config{MinChars: 1000})
	chunks := b.Build(sentences, boundaries)

	if len(chunks) != 2 {
		t.Fatalf("len(chunks) = %d, want 2 (header always forces split)", len(chunks))
	}
}

func TestReconstruct_HeaderAndList(t *testing.T) {
	group := []chunker.Sentence{
		{Text: "Title", StructureType: chunker.Header, StructureInfo: "header:2"},
		{Text: "first item", StructureType: chunker.List, StructureInfo: "list:unordered"},
		{Text: "second item", StructureType: chunker.List, StructureInfo: "list:unordered"},
	}
	got := Reconstruct(group)
	if !strings.Contains(got, "## Title") {
		t.Errorf("got %q, want ## prefix for header level 2", got)
	}
	if !strings.Contains(got, "- first item") || !strings.Contains(got, "- second item") {
		t.Errorf("got %q, want bullet-prefixed list items", got)
	}
}

func TestReconstruct_OrderedListRestartsPerGroup(t *testing.T) {
	group := []chunker.Sentence{
		{Text: "alpha", StructureType: chunker.List, StructureInfo: "list:ordered"},
		{Text: "beta", StructureType: chunker.List, StructureInfo: "list:ordered"},
	}
	got := Reconstruct(group)
	if !strings.Contains(got, "1. alpha") || !strings.Contains(got, "2. beta") {
		t.Errorf("got %q, want restarted ordered numbering", got)
	}
}

func TestReconstruct_ParagraphBreakInsertsBlankLine(t *testing.T) {
	group := []chunker.Sentence{
		{Text: "First paragraph.", StructureType: chunker.Plain},
		{Text: "Second paragraph.", StructureType: chunker.Plain, StructureInfo: "plain,paragraph_break"},
	}
	got := Reconstruct(group)
	if !strings.Contains(got, "\n\n") {
		t.Errorf("got %q, want blank line between paragraphs", got)
	}
}
