package lint

import "testing"

func TestScanLine_MixedContent(t *testing.T) {
	spans := scanLine(`<p class="x">text <img src="a.png"/> more</p>`)
	if len(spans) != 3 {
		t.Fatalf("spans = %d, want 3", len(spans))
	}

	if spans[0].kind != spanOpenTag || spans[0].name != "p" {
		t.Errorf("span 0 = %+v, want open <p>", spans[0])
	}
	if !spans[0].hasAttr("class") {
		t.Error("p should carry the class attribute")
	}

	if spans[1].name != "img" || !spans[1].selfClosed {
		t.Errorf("span 1 = %+v, want self-closed <img>", spans[1])
	}
	if !spans[1].hasAttr("src") || spans[1].hasAttr("alt") {
		t.Error("img attribute scan wrong")
	}

	if spans[2].kind != spanCloseTag || spans[2].name != "p" {
		t.Errorf("span 2 = %+v, want close </p>", spans[2])
	}
}

func TestScanLine_RuneColumns(t *testing.T) {
	// The multibyte rune before the tag must not shift the reported columns.
	spans := scanLine("é <br>")
	if len(spans) != 1 {
		t.Fatalf("spans = %d, want 1", len(spans))
	}
	if spans[0].start != 2 || spans[0].end != 6 {
		t.Errorf("span = [%d,%d), want rune columns [2,6)", spans[0].start, spans[0].end)
	}
}

func TestScanLine_UnterminatedTagSkipped(t *testing.T) {
	if spans := scanLine(`<div class="x`); len(spans) != 0 {
		t.Errorf("unterminated tag produced spans: %+v", spans)
	}
}

func TestScanLine_Declarations(t *testing.T) {
	spans := scanLine(`<!DOCTYPE html><!-- note -->`)
	if len(spans) != 1 {
		t.Fatalf("spans = %+v, want only the doctype", spans)
	}
	if spans[0].kind != spanDoctype {
		t.Errorf("kind = %d, want doctype", spans[0].kind)
	}
	if spans[0].text != "<!DOCTYPE html>" {
		t.Errorf("text = %q", spans[0].text)
	}
}

func TestScanLine_UppercaseNamesLowered(t *testing.T) {
	spans := scanLine(`<IMG SRC="a.png" ALT="a">`)
	if len(spans) != 1 {
		t.Fatalf("spans = %d, want 1", len(spans))
	}
	if spans[0].name != "img" {
		t.Errorf("name = %q, want img", spans[0].name)
	}
	if !spans[0].hasAttr("alt") {
		t.Error("uppercase attribute names should be matched case-insensitively")
	}
}
