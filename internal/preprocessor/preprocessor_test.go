package preprocessor

import (
	"strings"
	"testing"

	"github.com/MrWong99/semanticchunker/pkg/chunker"
)

func TestProcess_HeaderAndParagraph(t *testing.T) {
	doc := "# Title\n\nFirst sentence. Second sentence!\n"
	p := New(Config{DetectMarkdown: true, DetectIndentation: true})
	sentences := p.Process(doc)

	if len(sentences) != 3 {
		t.Fatalf("len(sentences) = %d, want 3: %+v", len(sentences), sentences)
	}
	if !sentences[0].IsHeader() || sentences[0].Text != "Title" {
		t.Errorf("sentence 0 = %+v, want header %q", sentences[0], "Title")
	}
	if sentences[1].Text != "First sentence." {
		t.Errorf("sentence 1 = %q, want %q", sentences[1].Text, "First sentence.")
	}
	if !strings.Contains(sentences[1].StructureInfo, "paragraph_break") {
		t.Errorf("sentence 1 info = %q, want paragraph_break after blank line", sentences[1].StructureInfo)
	}
	if sentences[2].Text != "Second sentence!" {
		t.Errorf("sentence 2 = %q, want %q", sentences[2].Text, "Second sentence!")
	}
}

func TestProcess_ListItems(t *testing.T) {
	doc := "- first item\n- second item\n1. ordered one\n2. ordered two\n"
	p := New(Config{DetectMarkdown: true})
	sentences := p.Process(doc)

	if len(sentences) != 4 {
		t.Fatalf("len(sentences) = %d, want 4: %+v", len(sentences), sentences)
	}
	for i, s := range sentences {
		if !s.IsList() {
			t.Errorf("sentence %d = %+v, want list", i, s)
		}
	}
	if sentences[0].StructureInfo != "list:unordered" {
		t.Errorf("sentence 0 info = %q, want list:unordered", sentences[0].StructureInfo)
	}
	if sentences[2].StructureInfo != "list:ordered" {
		t.Errorf("sentence 2 info = %q, want list:ordered", sentences[2].StructureInfo)
	}
}

func TestProcess_CodeFenceEmittedVerbatim(t *testing.T) {
	doc := "Some prose.\n```go\nfunc main() {}\n```\nMore prose.\n"
	p := New(Config{DetectMarkdown: true})
	sentences := p.Process(doc)

	var codeSentences []chunker.Sentence
	for _, s := range sentences {
		if s.StructureType == chunker.Code {
			codeSentences = append(codeSentences, s)
		}
	}
	if len(codeSentences) != 1 {
		t.Fatalf("len(codeSentences) = %d, want 1: %+v", len(codeSentences), sentences)
	}
	if codeSentences[0].Text != "func main() {}" {
		t.Errorf("code text = %q, want verbatim %q", codeSentences[0].Text, "func main() {}")
	}
}

func TestProcess_BlankLinesNeverEmitted(t *testing.T) {
	doc := "A.\n\n\n\nB.\n"
	p := New(Config{DetectMarkdown: true})
	sentences := p.Process(doc)
	for _, s := range sentences {
		if s.StructureType == chunker.Blank {
			t.Fatalf("blank sentence emitted: %+v", s)
		}
	}
}

func TestProcess_IndentationNormalisesTabs(t *testing.T) {
	doc := "\tindented line\n"
	p := New(Config{DetectIndentation: true, TabWidth: 4})
	sentences := p.Process(doc)
	if len(sentences) != 1 {
		t.Fatalf("len(sentences) = %d, want 1", len(sentences))
	}
	if sentences[0].IndentLevel != 4 {
		t.Errorf("IndentLevel = %d, want 4", sentences[0].IndentLevel)
	}
}

func TestProcess_HTMLHeaderRecognisedWhenEnabled(t *testing.T) {
	doc := "<h2>Section</h2>\nBody text.\n"
	p := New(Config{DetectMarkdown: true, DetectHTML: true})
	sentences := p.Process(doc)
	if len(sentences) != 2 {
		t.Fatalf("len(sentences) = %d, want 2: %+v", len(sentences), sentences)
	}
	if !sentences[0].IsHeader() || sentences[0].StructureInfo != "header:2" {
		t.Errorf("sentence 0 = %+v, want header:2", sentences[0])
	}
}

func TestProcess_SegmentsJapaneseFullWidthPunctuation(t *testing.T) {
	doc := "これは最初の文です。これは二番目の文です！これは質問ですか？\n"
	p := New(Config{})
	sentences := p.Process(doc)

	if len(sentences) != 3 {
		t.Fatalf("len(sentences) = %d, want 3: %+v", len(sentences), sentences)
	}
	want := []string{"これは最初の文です。", "これは二番目の文です！", "これは質問ですか？"}
	for i, w := range want {
		if sentences[i].Text != w {
			t.Errorf("sentence %d = %q, want %q", i, sentences[i].Text, w)
		}
	}
}
