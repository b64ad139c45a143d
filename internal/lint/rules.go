package lint

import (
	"fmt"
	"strings"
)

// ruleVoidSelfClose warns on void elements written without the self-closing
// form. The highlight span covers the full tag.
func ruleVoidSelfClose(lineNo int, spans []span) []Finding {
	var findings []Finding
	for _, s := range spans {
		if s.kind != spanOpenTag || s.selfClosed || !voidElements[s.name] {
			continue
		}
		findings = append(findings, Finding{
			Line:      lineNo,
			Column:    s.start,
			EndColumn: s.end,
			Message:   fmt.Sprintf("void element <%s> must be self-closing (use <%s ... />)", s.name, s.name),
			Severity:  SeverityWarning,
			Code:      CodeVoidSelfClose,
		})
	}
	return findings
}

// mandatoryAltElements are the elements required to carry an alt attribute.
var mandatoryAltElements = map[string]bool{
	"img":  true,
	"area": true,
}

// ruleMandatoryAlt warns on img and area elements lacking an alt attribute.
// The highlight span covers the offending element name.
func ruleMandatoryAlt(lineNo int, spans []span) []Finding {
	var findings []Finding
	for _, s := range spans {
		if s.kind != spanOpenTag || !mandatoryAltElements[s.name] {
			continue
		}
		if s.hasAttr("alt") {
			continue
		}
		findings = append(findings, Finding{
			Line:        lineNo,
			Column:      s.nameStart,
			EndColumn:   s.nameEnd,
			Message:     fmt.Sprintf("<%s> is missing the alt attribute", s.name),
			Severity:    SeverityWarning,
			Code:        CodeMissingAlt,
			RelatedNote: "assistive technology relies on alt text for non-text content",
		})
	}
	return findings
}

// xhtmlDoctype is the declaration the doctype rule recommends.
const xhtmlDoctype = `<!DOCTYPE html PUBLIC "-//W3C//DTD XHTML 1.0 Strict//EN" "http://www.w3.org/TR/xhtml1/DTD/xhtml1-strict.dtd">`

// ruleDoctype warns when the declaration line carries a generic
// case-insensitive `<!doctype html` without an XHTML marker. Only the first
// line is considered, or the second when the first is an XML prolog.
func ruleDoctype(lines []string) []Finding {
	target := 0
	if len(lines) > 0 && strings.HasPrefix(strings.TrimSpace(lines[0]), "<?xml") {
		target = 1
	}
	if target >= len(lines) {
		return nil
	}

	for _, s := range scanLine(lines[target]) {
		if s.kind != spanDoctype {
			continue
		}
		lower := strings.ToLower(s.text)
		if !strings.HasPrefix(lower, "<!doctype html") {
			continue
		}
		if strings.Contains(lower, "xhtml") {
			continue
		}
		return []Finding{{
			Line:        target,
			Column:      s.start,
			EndColumn:   s.end,
			Message:     "generic HTML doctype; the XHTML declaration is recommended",
			Severity:    SeverityWarning,
			Code:        CodeDoctypeDialect,
			RelatedNote: xhtmlDoctype,
		}}
	}
	return nil
}
