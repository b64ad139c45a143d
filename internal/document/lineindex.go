package document

import "strings"

// Position is a 0-based line/column location in a document.
// Column counts runes, not bytes.
type Position struct {
	Line   int
	Column int
}

// LineIndex provides fast byte-offset to line/column conversion and
// position clamping for a fixed text snapshot.
type LineIndex struct {
	text  string
	lines []lineInfo
}

// lineInfo stores per-line geometry for position conversion.
type lineInfo struct {
	byteOffset int // byte offset of line start
	byteLen    int // length in bytes, excluding the newline
	runeLen    int // length in runes, excluding the newline
}

// NewLineIndex builds a line index for the given text.
func NewLineIndex(text string) *LineIndex {
	li := &LineIndex{text: text}
	li.build()
	return li
}

func (li *LineIndex) build() {
	li.lines = nil

	lineStart := 0
	for i := 0; i < len(li.text); i++ {
		if li.text[i] == '\n' {
			seg := li.text[lineStart:i]
			li.lines = append(li.lines, lineInfo{
				byteOffset: lineStart,
				byteLen:    len(seg),
				runeLen:    runeLen(seg),
			})
			lineStart = i + 1
		}
	}

	// Last line when the text does not end in a newline. A trailing newline
	// does not produce an extra empty line, matching SplitLines.
	if lineStart < len(li.text) {
		seg := li.text[lineStart:]
		li.lines = append(li.lines, lineInfo{
			byteOffset: lineStart,
			byteLen:    len(seg),
			runeLen:    runeLen(seg),
		})
	}
}

// LineCount returns the number of lines in the indexed text.
func (li *LineIndex) LineCount() int {
	return len(li.lines)
}

// Line returns the text of the 0-based line, without its newline.
// Out-of-range lines return the empty string.
func (li *LineIndex) Line(i int) string {
	if i < 0 || i >= len(li.lines) {
		return ""
	}
	info := li.lines[i]
	return li.text[info.byteOffset : info.byteOffset+info.byteLen]
}

// OffsetToPosition converts a byte offset into a clamped Position.
func (li *LineIndex) OffsetToPosition(offset int) Position {
	if len(li.lines) == 0 {
		return Position{}
	}
	if offset < 0 {
		offset = 0
	}
	if offset > len(li.text) {
		offset = len(li.text)
	}

	line := 0
	for i, info := range li.lines {
		if offset < info.byteOffset {
			break
		}
		line = i
	}

	info := li.lines[line]
	byteCol := offset - info.byteOffset
	if byteCol > info.byteLen {
		byteCol = info.byteLen
	}
	return Position{
		Line:   line,
		Column: runeLen(li.text[info.byteOffset : info.byteOffset+byteCol]),
	}
}

// ClampPosition clamps a position to the indexed text: line into the valid
// line range, column into the clamped line's rune length.
func (li *LineIndex) ClampPosition(pos Position) Position {
	if len(li.lines) == 0 {
		return Position{}
	}
	if pos.Line < 0 {
		pos.Line = 0
	}
	if pos.Line >= len(li.lines) {
		pos.Line = len(li.lines) - 1
	}
	if pos.Column < 0 {
		pos.Column = 0
	}
	if max := li.lines[pos.Line].runeLen; pos.Column > max {
		pos.Column = max
	}
	return pos
}

// SplitLines splits text into lines without trailing newlines.
// The empty string yields nil; a trailing newline does not produce an
// extra empty line.
func SplitLines(text string) []string {
	if text == "" {
		return nil
	}
	text = strings.TrimSuffix(text, "\n")
	return strings.Split(text, "\n")
}

func runeLen(s string) int {
	n := 0
	for range s {
		n++
	}
	return n
}
