// Package document tracks the open documents the engine operates on.
//
// The editable buffer itself is owned by the host editor; the engine keeps a
// read-only snapshot of each open document's text plus a monotonically
// advancing version so computations always run over the latest content.
package document

// ID identifies a document by its stable URI.
type ID string

// Document is a read-only snapshot of an open document.
type Document struct {
	ID       ID
	Language string
	Text     string
	Version  int64
	// Folder is the absolute path of the directory containing the document,
	// used to resolve relative resource references.
	Folder string
}

// Lines splits the document text into lines without trailing newlines.
// An empty document yields no lines.
func (d *Document) Lines() []string {
	return SplitLines(d.Text)
}

// LineCount returns the number of lines in the document.
func (d *Document) LineCount() int {
	return len(SplitLines(d.Text))
}

// ClampLine clamps a 0-based line index into the document's valid range.
// An empty document clamps everything to line 0.
func (d *Document) ClampLine(line int) int {
	n := d.LineCount()
	if n == 0 {
		return 0
	}
	if line < 0 {
		return 0
	}
	if line >= n {
		return n - 1
	}
	return line
}
