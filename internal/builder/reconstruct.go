package builder

import (
	"strconv"
	"strings"

	"github.com/MrWong99/semanticchunker/pkg/chunker"
)

// Reconstruct renders a chunk's sentence group back into display text
//:
//   - Header sentences are re-prefixed with their "#"-repeated level.
//   - List sentences are re-prefixed with a marker; ordered-list numbering
//     restarts at 1 for each contiguous run of list items.
//   - A blank line separates any pair of adjacent sentences whose
//     structural region differs (e.g. leaving a list, entering a header) or
//     that were separated by a paragraph break in the source.
//   - Plain sentences within the same paragraph are joined with a single
//     space; sentences that follow a paragraph break start a new line.
func Reconstruct(group []chunker.Sentence) string {
	var b strings.Builder

	listCounter := 0
	var prevType chunker.StructureType
	havePrev := false

	for _, s := range group {
		if havePrev {
			if needsBlankLine(prevType, s) {
				b.WriteString("\n\n")
			} else if strings.Contains(s.StructureInfo, "paragraph_break") {
				b.WriteString("\n\n")
			} else if prevType != s.StructureType || s.StructureType == chunker.List || s.StructureType == chunker.Header {
				b.WriteString("\n")
			} else {
				b.WriteString(" ")
			}
		}

		if !s.IsList() {
			listCounter = 0
		}

		switch s.StructureType {
		case chunker.Header:
			level := headerLevel(s.StructureInfo)
			if level <= 0 {
				level = 1
			}
			b.WriteString(strings.Repeat("#", level))
			b.WriteString(" ")
			b.WriteString(s.Text)

		case chunker.List:
			b.WriteString(strings.Repeat(" ", s.IndentLevel))
			if strings.Contains(s.StructureInfo, "list:ordered") {
				listCounter++
				b.WriteString(strconv.Itoa(listCounter))
				b.WriteString(". ")
			} else {
				listCounter++
				b.WriteString("- ")
			}
			b.WriteString(s.Text)

		default:
			b.WriteString(s.Text)
		}

		prevType = s.StructureType
		havePrev = true
	}

	return b.String()
}

// needsBlankLine reports whether a structural-region transition between
// prev and the current sentence warrants a blank-line separator rather
// than a single newline — any change of structure type (header, list,
// plain, code) does.
func needsBlankLine(prevType chunker.StructureType, cur chunker.Sentence) bool {
	return prevType != cur.StructureType
}
