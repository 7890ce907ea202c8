// Package preprocessor implements the pre-processing stage: it classifies each source line's structural role, strips and
// segments prose into sentences, and emits a flat, ordered []chunker.Sentence
// stream for the embedder and detector.
//
// Classification is priority-ordered, in the spirit of the line-tokenizing
// block scanners in the Markdown-parsing corpus: code fences bind tightest
// (everything between a pair of fences is Code regardless of content),
// then headers, then list items, then tables, with Plain prose as the
// fallback.
package preprocessor

import (
	"bufio"
	"regexp"
	"strings"

	"github.com/MrWong99/semanticchunker/pkg/chunker"
)

var (
	atxHeaderRe    = regexp.MustCompile(`^(#{1,6})\s+(.*)$`)
	htmlHeaderRe   = regexp.MustCompile(`(?i)^\s*<h([1-6])[^>]*>(.*?)</h[1-6]>\s*$`)
	codeFenceRe    = regexp.MustCompile("^\\s*(```+|~~~+)")
	orderedListRe  = regexp.MustCompile(`^(\s*)(\d+)([.)])\s+(.*)$`)
	bulletListRe   = regexp.MustCompile(`^(\s*)([-*+])\s+(.*)$`)
	tableRowRe     = regexp.MustCompile(`^\s*\|.*\|\s*$`)
	// ASCII terminators only end a sentence when followed by whitespace or
	// end of line, so "e.g." and "3.14" don't split mid-token. Full-width
	// terminators (used in Japanese prose, which rarely inserts a space
	// between sentences) end a sentence on their own.
	sentenceEndsRe = regexp.MustCompile(`[.!?](?:\s+|$)|[。．！？]`)
)

// Config tunes structural classification and sentence segmentation.
type Config struct {
	// DetectMarkdown enables ATX header (#), list marker, and code fence
	// recognition. The zero value (false) leaves it disabled.
	DetectMarkdown bool

	// DetectHTML enables <h1>-<h6> header tag recognition alongside
	// Markdown headers. Default: false.
	DetectHTML bool

	// DetectIndentation tracks each line's leading-whitespace width as
	// Sentence.IndentLevel, tab-width normalised. The zero value (false)
	// leaves it disabled.
	DetectIndentation bool

	// TabWidth is the number of columns a tab character counts as when
	// DetectIndentation is enabled. Default: 4.
	TabWidth int

	// MinHeaderLevel and MaxHeaderLevel bound which ATX/HTML header levels
	// are recognised as headers; levels outside the range are treated as
	// plain prose. Defaults: 1 and 6.
	MinHeaderLevel int
	MaxHeaderLevel int

	// ListIndentThreshold is an indent delta (in normalised columns)
	// between consecutive list items. It defaults to 2 but Process does not
	// read it: list items are not classified as nested or sibling, and
	// their depth appears only as Sentence.IndentLevel.
	ListIndentThreshold int
}

// withDefaults fills zero-valued fields with Config's documented defaults.
func (c Config) withDefaults() Config {
	if c.TabWidth == 0 {
		c.TabWidth = 4
	}
	if c.MinHeaderLevel == 0 {
		c.MinHeaderLevel = 1
	}
	if c.MaxHeaderLevel == 0 {
		c.MaxHeaderLevel = 6
	}
	if c.ListIndentThreshold == 0 {
		c.ListIndentThreshold = 2
	}
	return c
}

// Preprocessor converts raw document text into a structured sentence stream.
type Preprocessor struct {
	cfg Config
}

// New constructs a Preprocessor. DetectMarkdown and DetectIndentation take
// effect only when set to true; all other fields default as documented on
// Config.
func New(cfg Config) *Preprocessor {
	cfg = cfg.withDefaults()
	return &Preprocessor{cfg: cfg}
}

// lineKind is the structural classification of a single raw source line,
// before sentence segmentation.
type lineKind struct {
	text    string
	typ     chunker.StructureType
	indent  int
	info    string
	lineNum int
}

// Process classifies every line of text and segments prose lines into
// sentences, returning them in source order. Blank lines are consumed as a
// paragraph-break signal on the next non-blank sentence rather than being
// emitted.
func (p *Preprocessor) Process(text string) []chunker.Sentence {
	lines := p.classifyLines(text)

	var sentences []chunker.Sentence
	pendingBreak := false
	inCodeFence := false
	var fenceDelim string

	for _, ln := range lines {
		if ln.typ == chunker.Blank {
			pendingBreak = true
			continue
		}

		if p.cfg.DetectMarkdown {
			if m := codeFenceRe.FindStringSubmatch(ln.text); m != nil {
				delim := m[1]
				if !inCodeFence {
					inCodeFence = true
					fenceDelim = string(delim[0])
					continue
				} else if strings.HasPrefix(strings.TrimSpace(ln.text), fenceDelim) {
					inCodeFence = false
					continue
				}
			}
		}

		if inCodeFence {
			sentences = append(sentences, chunker.Sentence{
				Text:          ln.text,
				LineNumber:    ln.lineNum,
				StructureType: chunker.Code,
				IndentLevel:   ln.indent,
				StructureInfo: withBreak("code", pendingBreak),
			})
			pendingBreak = false
			continue
		}

		switch ln.typ {
		case chunker.Header, chunker.List, chunker.Table:
			sentences = append(sentences, chunker.Sentence{
				Text:          strings.TrimSpace(ln.text),
				LineNumber:    ln.lineNum,
				StructureType: ln.typ,
				IndentLevel:   ln.indent,
				StructureInfo: withBreak(ln.info, pendingBreak),
			})
			pendingBreak = false

		default:
			for _, s := range splitSentences(ln.text) {
				if s == "" {
					continue
				}
				sentences = append(sentences, chunker.Sentence{
					Text:          s,
					LineNumber:    ln.lineNum,
					StructureType: chunker.Plain,
					IndentLevel:   ln.indent,
					StructureInfo: withBreak("plain", pendingBreak),
				})
				pendingBreak = false
			}
		}
	}

	return sentences
}

// withBreak appends a "paragraph_break" suffix to info when pendingBreak is
// set.
func withBreak(info string, pendingBreak bool) string {
	if !pendingBreak {
		return info
	}
	return info + ",paragraph_break"
}

// classifyLines splits text into lines and assigns each a structural
// classification, without yet segmenting prose into sentences.
func (p *Preprocessor) classifyLines(text string) []lineKind {
	var out []lineKind
	sc := bufio.NewScanner(strings.NewReader(text))
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	lineNum := 0
	for sc.Scan() {
		lineNum++
		raw := sc.Text()
		trimmed := strings.TrimSpace(raw)

		indent := 0
		if p.cfg.DetectIndentation {
			indent = leadingIndent(raw, p.cfg.TabWidth)
		}

		if trimmed == "" {
			out = append(out, lineKind{text: raw, typ: chunker.Blank, indent: indent, lineNum: lineNum})
			continue
		}

		if p.cfg.DetectMarkdown {
			if m := atxHeaderRe.FindStringSubmatch(trimmed); m != nil {
				level := len(m[1])
				if level >= p.cfg.MinHeaderLevel && level <= p.cfg.MaxHeaderLevel {
					out = append(out, lineKind{text: m[2], typ: chunker.Header, indent: indent, info: headerInfo(level), lineNum: lineNum})
					continue
				}
			}
			if m := orderedListRe.FindStringSubmatch(raw); m != nil {
				out = append(out, lineKind{text: m[4], typ: chunker.List, indent: indent, info: "list:ordered", lineNum: lineNum})
				continue
			}
			if m := bulletListRe.FindStringSubmatch(raw); m != nil {
				out = append(out, lineKind{text: m[3], typ: chunker.List, indent: indent, info: "list:unordered", lineNum: lineNum})
				continue
			}
			if tableRowRe.MatchString(trimmed) {
				out = append(out, lineKind{text: trimmed, typ: chunker.Table, indent: indent, info: "table", lineNum: lineNum})
				continue
			}
		}

		if p.cfg.DetectHTML {
			if m := htmlHeaderRe.FindStringSubmatch(trimmed); m != nil {
				level := atoiSafe(m[1])
				if level >= p.cfg.MinHeaderLevel && level <= p.cfg.MaxHeaderLevel {
					out = append(out, lineKind{text: m[2], typ: chunker.Header, indent: indent, info: headerInfo(level), lineNum: lineNum})
					continue
				}
			}
		}

		out = append(out, lineKind{text: raw, typ: chunker.Plain, indent: indent, lineNum: lineNum})
	}

	return out
}

func headerInfo(level int) string {
	switch level {
	case 1:
		return "header:1"
	case 2:
		return "header:2"
	case 3:
		return "header:3"
	case 4:
		return "header:4"
	case 5:
		return "header:5"
	default:
		return "header:6"
	}
}

// leadingIndent returns the normalised column width of raw's leading
// whitespace, expanding tabs to tabWidth columns each.
func leadingIndent(raw string, tabWidth int) int {
	cols := 0
	for _, r := range raw {
		switch r {
		case ' ':
			cols++
		case '\t':
			cols += tabWidth
		default:
			return cols
		}
	}
	return cols
}

func atoiSafe(s string) int {
	n := 0
	for _, r := range s {
		if r < '0' || r > '9' {
			return n
		}
		n = n*10 + int(r-'0')
	}
	return n
}

// splitSentences segments a prose line into individual sentences on
// terminal punctuation: ASCII ., !, ? followed by whitespace or end of
// line, or the full-width 。．！？ used in Japanese prose. Abbreviation
// handling is intentionally simple: this is a structural pre-pass, not a
// linguistic sentence boundary detector — Stage C's LLM adjudication
// corrects any over-splitting at candidate boundaries.
func splitSentences(line string) []string {
	trimmed := strings.TrimSpace(line)
	if trimmed == "" {
		return nil
	}

	var out []string
	last := 0
	for _, loc := range sentenceEndsRe.FindAllStringIndex(trimmed, -1) {
		end := loc[1]
		piece := strings.TrimSpace(trimmed[last:end])
		if piece != "" {
			out = append(out, piece)
		}
		last = end
	}
	if last < len(trimmed) {
		piece := strings.TrimSpace(trimmed[last:])
		if piece != "" {
			out = append(out, piece)
		}
	}
	if len(out) == 0 {
		out = append(out, trimmed)
	}
	return out
}
