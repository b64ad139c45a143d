package lint

import "sort"

// Severity classifies a finding.
type Severity string

const (
	// SeverityError marks findings that make the document structurally unusable.
	SeverityError Severity = "error"
	// SeverityWarning marks dialect violations the document survives.
	SeverityWarning Severity = "warning"
)

// Stable finding codes, derived from the message category.
const (
	CodeNotWellFormed  = "not-well-formed"
	CodeParseFailure   = "parse-failure"
	CodeVoidSelfClose  = "void-self-close"
	CodeMissingAlt     = "missing-alt"
	CodeDoctypeDialect = "doctype-dialect"
)

// Finding is a single positioned diagnostic result.
//
// Line and Column are 0-based, clamped into the document's valid range.
// EndColumn is the exclusive end of the highlight span on the same line and
// is not part of the wire shape.
type Finding struct {
	Line     int      `json:"line"`
	Column   int      `json:"column"`
	Message  string   `json:"message"`
	Severity Severity `json:"severity"`
	Code     string   `json:"code"`

	EndColumn   int    `json:"-"`
	RelatedNote string `json:"-"`
}

// sortFindings orders findings in source order: line, then column.
// The sort is stable so same-position findings keep their scan order.
func sortFindings(findings []Finding) {
	sort.SliceStable(findings, func(i, j int) bool {
		if findings[i].Line != findings[j].Line {
			return findings[i].Line < findings[j].Line
		}
		return findings[i].Column < findings[j].Column
	})
}
