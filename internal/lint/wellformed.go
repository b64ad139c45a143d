package lint

import (
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strings"

	"livemark/internal/document"
)

// voidElements are the element names that carry no closing tag in the HTML
// dialect and must be self-terminated in strict XHTML.
var voidElements = map[string]bool{
	"area": true, "base": true, "br": true, "col": true,
	"embed": true, "hr": true, "img": true, "input": true,
	"link": true, "meta": true, "param": true, "source": true,
	"track": true, "wbr": true,
}

// checkWellFormed runs the tier-1 well-formedness check.
//
// It tokenizes the document with the generic XML tokenizer and verifies
// element balance itself, treating void elements as implicitly closed so
// plain HTML-style `<br>` does not trip the balance check. The tokenizer's
// 1-based line numbers are converted to the engine's 0-based convention.
//
// ok is true when the document is well formed; otherwise f carries the single
// error finding describing the first failure.
func checkWellFormed(text string) (f Finding, ok bool) {
	dec := xml.NewDecoder(strings.NewReader(text))
	dec.Strict = true
	dec.Entity = xml.HTMLEntity

	li := document.NewLineIndex(text)

	type openTag struct {
		name string
		pos  document.Position
	}
	var stack []openTag

	for {
		tokStart := dec.InputOffset()
		tok, err := dec.RawToken()
		if err == io.EOF {
			break
		}
		if err != nil {
			return syntaxFinding(err, li, dec.InputOffset()), false
		}

		switch t := tok.(type) {
		case xml.StartElement:
			name := strings.ToLower(t.Name.Local)
			if !voidElements[name] {
				stack = append(stack, openTag{name: name, pos: li.OffsetToPosition(int(tokStart))})
			}
		case xml.EndElement:
			name := strings.ToLower(t.Name.Local)
			if voidElements[name] {
				continue
			}
			if len(stack) == 0 || stack[len(stack)-1].name != name {
				pos := li.OffsetToPosition(int(tokStart))
				return Finding{
					Line:     pos.Line,
					Column:   pos.Column,
					Message:  fmt.Sprintf("unexpected closing tag </%s>", name),
					Severity: SeverityError,
					Code:     CodeNotWellFormed,
				}, false
			}
			stack = stack[:len(stack)-1]
		}
	}

	if len(stack) > 0 {
		top := stack[len(stack)-1]
		return Finding{
			Line:     top.pos.Line,
			Column:   top.pos.Column,
			Message:  fmt.Sprintf("element <%s> is never closed", top.name),
			Severity: SeverityError,
			Code:     CodeNotWellFormed,
		}, false
	}
	return Finding{}, true
}

// syntaxFinding converts a tokenizer error into a positioned finding. The
// tokenizer reports 1-based lines; columns are recovered from the input
// offset when it still points at the failing line.
func syntaxFinding(err error, li *document.LineIndex, offset int64) Finding {
	line := 0
	column := 0

	var syn *xml.SyntaxError
	if errors.As(err, &syn) && syn.Line > 0 {
		line = syn.Line - 1
	}
	if pos := li.OffsetToPosition(int(offset)); pos.Line == line {
		column = pos.Column
	}

	clamped := li.ClampPosition(document.Position{Line: line, Column: column})
	return Finding{
		Line:     clamped.Line,
		Column:   clamped.Column,
		Message:  "document is not well-formed: " + cleanSyntaxMessage(err),
		Severity: SeverityError,
		Code:     CodeNotWellFormed,
	}
}

// cleanSyntaxMessage strips the tokenizer's own location prefix so the
// message is not double-positioned.
func cleanSyntaxMessage(err error) string {
	var syn *xml.SyntaxError
	if errors.As(err, &syn) {
		return syn.Msg
	}
	return err.Error()
}
