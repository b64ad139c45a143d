package lint

import (
	"fmt"
	"unicode"

	"livemark/internal/document"
)

// Validate checks full document text and returns findings in source order.
//
// Tier 1 (well-formedness) gates tier 2 (dialect rules): a malformed document
// yields exactly one error finding and no rule evaluation. Validate never
// panics; an unexpected failure inside the checker becomes a single error
// finding at the document start.
func Validate(text string) (findings []Finding) {
	defer func() {
		if r := recover(); r != nil {
			findings = []Finding{{
				Line:     0,
				Column:   0,
				Message:  fmt.Sprintf("markup parsing failed: %v", r),
				Severity: SeverityError,
				Code:     CodeParseFailure,
			}}
		}
	}()

	if text == "" {
		return nil
	}

	lines := document.SplitLines(text)

	if f, ok := checkWellFormed(text); !ok {
		f = clampFinding(f, lines)
		f = widenFinding(f, lines)
		return []Finding{f}
	}

	for i, line := range lines {
		spans := scanLine(line)
		findings = append(findings, ruleVoidSelfClose(i, spans)...)
		findings = append(findings, ruleMandatoryAlt(i, spans)...)
	}
	findings = append(findings, ruleDoctype(lines)...)

	for i := range findings {
		findings[i] = clampFinding(findings[i], lines)
	}
	sortFindings(findings)
	return findings
}

// clampFinding clamps a finding's position into the document's valid range:
// line into the line count, column into the clamped line's rune length.
func clampFinding(f Finding, lines []string) Finding {
	if len(lines) == 0 {
		f.Line, f.Column, f.EndColumn = 0, 0, 0
		return f
	}
	if f.Line < 0 {
		f.Line = 0
	}
	if f.Line >= len(lines) {
		f.Line = len(lines) - 1
	}
	lineLen := len([]rune(lines[f.Line]))
	if f.Column < 0 {
		f.Column = 0
	}
	if f.Column > lineLen {
		f.Column = lineLen
	}
	if f.EndColumn > lineLen {
		f.EndColumn = lineLen
	}
	if f.EndColumn < f.Column {
		f.EndColumn = f.Column
	}
	return f
}

// widenFinding widens a finding without a highlight span to the next word
// boundary after its column, minimum one character.
func widenFinding(f Finding, lines []string) Finding {
	if f.EndColumn > f.Column || f.Line >= len(lines) {
		return f
	}
	rs := []rune(lines[f.Line])
	end := f.Column
	for end < len(rs) && !unicode.IsSpace(rs[end]) {
		end++
	}
	if end == f.Column {
		end++
	}
	f.EndColumn = end
	return f
}
