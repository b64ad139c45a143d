package lint

import (
	"strings"
	"testing"
)

func TestValidate_EmptyDocument(t *testing.T) {
	if got := Validate(""); got != nil {
		t.Errorf("Validate(\"\") = %v, want nil", got)
	}
}

func TestValidate_CleanDocument(t *testing.T) {
	text := strings.Join([]string{
		`<!DOCTYPE html PUBLIC "-//W3C//DTD XHTML 1.0 Strict//EN" "http://www.w3.org/TR/xhtml1/DTD/xhtml1-strict.dtd">`,
		`<html>`,
		`<body><p>hello</p><img src="a.png" alt="a"/></body>`,
		`</html>`,
	}, "\n")

	if got := Validate(text); len(got) != 0 {
		t.Errorf("clean document produced findings: %v", got)
	}
}

func TestValidate_PlainImgGetsBothWarnings(t *testing.T) {
	findings := Validate(`<img src="a.png">`)
	if len(findings) != 2 {
		t.Fatalf("findings = %v, want void-self-close and missing-alt", findings)
	}

	byCode := map[string]Finding{}
	for _, f := range findings {
		if f.Severity != SeverityWarning {
			t.Errorf("%s severity = %q, want warning", f.Code, f.Severity)
		}
		if f.Line != 0 {
			t.Errorf("%s line = %d, want 0", f.Code, f.Line)
		}
		byCode[f.Code] = f
	}

	vsc, ok := byCode[CodeVoidSelfClose]
	if !ok {
		t.Fatal("void-self-close finding missing")
	}
	if vsc.Column != 0 || vsc.EndColumn != 17 {
		t.Errorf("void-self-close span = [%d,%d), want [0,17)", vsc.Column, vsc.EndColumn)
	}

	alt, ok := byCode[CodeMissingAlt]
	if !ok {
		t.Fatal("missing-alt finding missing")
	}
	if alt.Column != 1 || alt.EndColumn != 4 {
		t.Errorf("missing-alt span = [%d,%d), want the element name [1,4)", alt.Column, alt.EndColumn)
	}
	if alt.RelatedNote == "" {
		t.Error("missing-alt should carry its accessibility note")
	}
}

func TestValidate_UnclosedElementGatesRules(t *testing.T) {
	// The document also has a rule violation; the gate must hide it.
	findings := Validate("<div>\n<img src=\"a.png\">\n")
	if len(findings) != 1 {
		t.Fatalf("findings = %v, want exactly the well-formedness error", findings)
	}

	f := findings[0]
	if f.Code != CodeNotWellFormed {
		t.Errorf("code = %q, want %q", f.Code, CodeNotWellFormed)
	}
	if f.Severity != SeverityError {
		t.Errorf("severity = %q, want error", f.Severity)
	}
	if f.Line != 0 || f.Column != 0 {
		t.Errorf("position = %d:%d, want 0:0 at the unclosed <div>", f.Line, f.Column)
	}
	if !strings.Contains(f.Message, "div") {
		t.Errorf("message %q should name the unclosed element", f.Message)
	}
	if f.EndColumn <= f.Column {
		t.Errorf("gate finding span = [%d,%d), want a non-empty highlight", f.Column, f.EndColumn)
	}
}

func TestValidate_MismatchedCloseTag(t *testing.T) {
	findings := Validate("<p>text</div></p>")
	if len(findings) != 1 {
		t.Fatalf("findings = %v, want one error", findings)
	}
	f := findings[0]
	if f.Code != CodeNotWellFormed || f.Severity != SeverityError {
		t.Errorf("got %s/%s, want not-well-formed error", f.Code, f.Severity)
	}
	if !strings.Contains(f.Message, "</div>") {
		t.Errorf("message %q should name the unexpected closing tag", f.Message)
	}
	if f.Line != 0 || f.Column != 7 {
		t.Errorf("position = %d:%d, want 0:7 at </div>", f.Line, f.Column)
	}
}

func TestValidate_SyntaxErrorPositionClamped(t *testing.T) {
	findings := Validate("<p>ok</p>\n<p attr=></p>")
	if len(findings) != 1 {
		t.Fatalf("findings = %v, want one error", findings)
	}
	f := findings[0]
	if f.Code != CodeNotWellFormed {
		t.Errorf("code = %q, want %q", f.Code, CodeNotWellFormed)
	}
	lines := []string{"<p>ok</p>", "<p attr=></p>"}
	if f.Line < 0 || f.Line >= len(lines) {
		t.Fatalf("line %d outside document", f.Line)
	}
	if f.Column > len([]rune(lines[f.Line])) {
		t.Errorf("column %d beyond line length", f.Column)
	}
}

func TestValidate_GenericDoctypeWarns(t *testing.T) {
	text := "<!DOCTYPE html>\n<html><body><p>hi</p></body></html>"
	findings := Validate(text)
	if len(findings) != 1 {
		t.Fatalf("findings = %v, want the doctype warning", findings)
	}
	f := findings[0]
	if f.Code != CodeDoctypeDialect || f.Severity != SeverityWarning {
		t.Errorf("got %s/%s, want doctype-dialect warning", f.Code, f.Severity)
	}
	if f.Line != 0 {
		t.Errorf("line = %d, want 0", f.Line)
	}
	if !strings.Contains(f.RelatedNote, "XHTML") {
		t.Errorf("note %q should carry the recommended declaration", f.RelatedNote)
	}
}

func TestValidate_DoctypeAfterXMLProlog(t *testing.T) {
	text := "<?xml version=\"1.0\" encoding=\"UTF-8\"?>\n<!DOCTYPE html>\n<html><body></body></html>"
	findings := Validate(text)
	if len(findings) != 1 {
		t.Fatalf("findings = %v, want the doctype warning", findings)
	}
	if findings[0].Line != 1 {
		t.Errorf("line = %d, want 1 (prolog shifts the doctype line)", findings[0].Line)
	}
}

func TestValidate_DoctypeBeyondFirstLinesIgnored(t *testing.T) {
	text := "<html>\n<!DOCTYPE html>\n</html>"
	for _, f := range Validate(text) {
		if f.Code == CodeDoctypeDialect {
			t.Errorf("doctype rule fired on line %d, only the declaration line is considered", f.Line)
		}
	}
}

func TestValidate_FindingsSortedBySourceOrder(t *testing.T) {
	text := "<html>\n<body>\n<img src=\"b.png\">\n<br>\n</body>\n</html>"
	findings := Validate(text)
	if len(findings) < 3 {
		t.Fatalf("findings = %v, want at least 3", findings)
	}
	for i := 1; i < len(findings); i++ {
		prev, cur := findings[i-1], findings[i]
		if cur.Line < prev.Line || (cur.Line == prev.Line && cur.Column < prev.Column) {
			t.Errorf("findings out of order at %d: %d:%d after %d:%d",
				i, cur.Line, cur.Column, prev.Line, prev.Column)
		}
	}
}

func TestValidate_SelfClosedVoidClean(t *testing.T) {
	for _, f := range Validate(`<br/>`) {
		if f.Code == CodeVoidSelfClose {
			t.Errorf("self-closed void element flagged: %v", f)
		}
	}
}

func TestValidate_AreaRequiresAlt(t *testing.T) {
	findings := Validate(`<map name="m"><area href="#x"/></map>`)
	found := false
	for _, f := range findings {
		if f.Code == CodeMissingAlt {
			found = true
		}
	}
	if !found {
		t.Errorf("area without alt not flagged: %v", findings)
	}
}
