// Package report renders validation findings for terminals.
//
// Format per finding:
//
//	<path>:<line>:<col>: <SEVERITY> <code>: <message>
//	    <source line>
//	    ^~~~
//
// The caret underlines the finding's column range. Display alignment uses
// terminal cell widths, so findings on lines with wide runes or tabs still
// point at the right cells.
package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"

	"livemark/internal/document"
	"livemark/internal/lint"
)

var (
	errorColor   = color.New(color.FgRed, color.Bold)
	warningColor = color.New(color.FgYellow, color.Bold)
	caretColor   = color.New(color.FgGreen, color.Bold)
	noteColor    = color.New(color.FgCyan)
	posColor     = color.New(color.Bold)
)

const tabWidth = 4

// Reporter writes findings to a terminal or file.
type Reporter struct {
	w       io.Writer
	noColor bool
}

// NewReporter creates a reporter writing to w.
func NewReporter(w io.Writer, noColor bool) *Reporter {
	return &Reporter{w: w, noColor: noColor}
}

// Report writes every finding with its source context and returns the number
// of error-severity findings.
func (r *Reporter) Report(path, text string, findings []lint.Finding) int {
	lines := document.SplitLines(text)
	errs := 0
	for _, f := range findings {
		if f.Severity == lint.SeverityError {
			errs++
		}
		r.writeFinding(path, lines, f)
	}
	return errs
}

// Summary writes a one-line closing count.
func (r *Reporter) Summary(findings []lint.Finding) {
	errs, warns := 0, 0
	for _, f := range findings {
		if f.Severity == lint.SeverityError {
			errs++
		} else {
			warns++
		}
	}
	if errs == 0 && warns == 0 {
		fmt.Fprintln(r.w, "no findings")
		return
	}
	fmt.Fprintf(r.w, "%s, %s\n",
		pluralize(errs, "error"), pluralize(warns, "warning"))
}

func (r *Reporter) writeFinding(path string, lines []string, f lint.Finding) {
	sev := r.paint(warningColor, "WARNING")
	if f.Severity == lint.SeverityError {
		sev = r.paint(errorColor, "ERROR")
	}
	pos := fmt.Sprintf("%s:%d:%d:", path, f.Line+1, f.Column+1)
	fmt.Fprintf(r.w, "%s %s %s: %s\n", r.paint(posColor, pos), sev, f.Code, f.Message)

	if f.Line >= 0 && f.Line < len(lines) {
		src := lines[f.Line]
		fmt.Fprintf(r.w, "    %s\n", expandTabs(src))
		fmt.Fprintf(r.w, "    %s\n", r.paint(caretColor, caretFor(src, f)))
	}
	if f.RelatedNote != "" {
		fmt.Fprintf(r.w, "    %s %s\n", r.paint(noteColor, "note:"), f.RelatedNote)
	}
}

// caretFor builds the `^~~~` underline aligned to display cells.
func caretFor(src string, f lint.Finding) string {
	runes := []rune(src)
	col := clamp(f.Column, 0, len(runes))
	end := clamp(f.EndColumn, col+1, len(runes))
	if end <= col {
		end = col + 1
	}

	pad := cellWidth(runes[:col])
	width := cellWidth(runes[col:min(end, len(runes))])
	if width < 1 {
		width = 1
	}
	return strings.Repeat(" ", pad) + "^" + strings.Repeat("~", width-1)
}

// cellWidth sums terminal cell widths, expanding tabs.
func cellWidth(runes []rune) int {
	w := 0
	for _, r := range runes {
		if r == '\t' {
			w += tabWidth
			continue
		}
		w += runewidth.RuneWidth(r)
	}
	return w
}

func expandTabs(s string) string {
	return strings.ReplaceAll(s, "\t", strings.Repeat(" ", tabWidth))
}

func (r *Reporter) paint(c *color.Color, s string) string {
	if r.noColor {
		return s
	}
	return c.Sprint(s)
}

func pluralize(n int, word string) string {
	if n == 1 {
		return fmt.Sprintf("1 %s", word)
	}
	return fmt.Sprintf("%d %ss", n, word)
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
