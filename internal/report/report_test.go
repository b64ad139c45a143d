package report

import (
	"bytes"
	"strings"
	"testing"

	"livemark/internal/lint"
)

func TestReporter_FormatsFinding(t *testing.T) {
	var buf bytes.Buffer
	r := NewReporter(&buf, true)

	text := `<img src="a.png">`
	errs := r.Report("doc.html", text, []lint.Finding{{
		Line:      0,
		Column:    1,
		EndColumn: 4,
		Message:   "<img> is missing the alt attribute",
		Severity:  lint.SeverityWarning,
		Code:      lint.CodeMissingAlt,
	}})

	out := buf.String()
	if errs != 0 {
		t.Errorf("errs = %d, want 0 for a warning", errs)
	}
	if !strings.Contains(out, "doc.html:1:2:") {
		t.Errorf("output missing 1-based position: %q", out)
	}
	if !strings.Contains(out, "WARNING") || !strings.Contains(out, lint.CodeMissingAlt) {
		t.Errorf("output missing severity or code: %q", out)
	}
	if !strings.Contains(out, text) {
		t.Errorf("output missing source context: %q", out)
	}
	if !strings.Contains(out, " ^~~") {
		t.Errorf("output missing caret underline: %q", out)
	}
}

func TestReporter_CountsErrors(t *testing.T) {
	var buf bytes.Buffer
	r := NewReporter(&buf, true)

	findings := []lint.Finding{
		{Line: 0, Severity: lint.SeverityError, Code: lint.CodeNotWellFormed, Message: "x"},
		{Line: 0, Severity: lint.SeverityWarning, Code: lint.CodeVoidSelfClose, Message: "y"},
	}
	if errs := r.Report("f", "<div>", findings); errs != 1 {
		t.Errorf("errs = %d, want 1", errs)
	}
}

func TestReporter_CaretAlignment(t *testing.T) {
	tests := []struct {
		name    string
		src     string
		finding lint.Finding
		wantPad int // leading spaces before the caret
	}{
		{
			name:    "ascii",
			src:     `<p><br></p>`,
			finding: lint.Finding{Column: 3, EndColumn: 7},
			wantPad: 3,
		},
		{
			name: "wide rune before span",
			// 漢 occupies two terminal cells.
			src:     `漢<br>`,
			finding: lint.Finding{Column: 1, EndColumn: 5},
			wantPad: 2,
		},
		{
			name:    "tab before span",
			src:     "\t<br>",
			finding: lint.Finding{Column: 1, EndColumn: 5},
			wantPad: 4,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := caretFor(tt.src, tt.finding)
			pad := len(got) - len(strings.TrimLeft(got, " "))
			if pad != tt.wantPad {
				t.Errorf("caret pad = %d, want %d (caret line %q)", pad, tt.wantPad, got)
			}
			if !strings.HasPrefix(strings.TrimLeft(got, " "), "^") {
				t.Errorf("caret line %q should start with ^", got)
			}
		})
	}
}

func TestReporter_Summary(t *testing.T) {
	tests := []struct {
		name     string
		findings []lint.Finding
		want     string
	}{
		{"none", nil, "no findings"},
		{"singular", []lint.Finding{{Severity: lint.SeverityError}}, "1 error, 0 warnings"},
		{"plural", []lint.Finding{
			{Severity: lint.SeverityError},
			{Severity: lint.SeverityError},
			{Severity: lint.SeverityWarning},
		}, "2 errors, 1 warning"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			NewReporter(&buf, true).Summary(tt.findings)
			if got := strings.TrimSpace(buf.String()); got != tt.want {
				t.Errorf("summary = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestReporter_RelatedNote(t *testing.T) {
	var buf bytes.Buffer
	NewReporter(&buf, true).Report("f", "<img>", []lint.Finding{{
		Severity:    lint.SeverityWarning,
		Code:        lint.CodeMissingAlt,
		Message:     "m",
		RelatedNote: "assistive technology relies on alt text",
	}})
	if !strings.Contains(buf.String(), "note: assistive technology") {
		t.Errorf("note missing from output: %q", buf.String())
	}
}
