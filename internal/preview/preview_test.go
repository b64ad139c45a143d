package preview

import (
	"fmt"
	"strings"
	"testing"
)

func TestRender_LineCountInvariant(t *testing.T) {
	tests := []struct {
		name string
		text string
		want int
	}{
		{"empty", "", 0},
		{"single line no newline", "<p>hi</p>", 1},
		{"single line with newline", "<p>hi</p>\n", 1},
		{"three lines", "<p>a</p>\n\n<p>b</p>", 3},
		{"blank only", "\n\n\n", 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Render(tt.text, "")
			if len(got) != tt.want {
				t.Errorf("len(Render(%q)) = %d, want %d", tt.text, len(got), tt.want)
			}
			for i, line := range got {
				if line.SourceLine != i {
					t.Errorf("line %d has SourceLine %d", i, line.SourceLine)
				}
			}
		})
	}
}

func TestRender_BlankLinesBecomeSpacers(t *testing.T) {
	got := Render("<p>a</p>\n   \t\n<p>b</p>", "")
	if len(got) != 3 {
		t.Fatalf("len = %d, want 3", len(got))
	}
	if !got[1].Blank {
		t.Error("whitespace-only line should be a spacer")
	}
	if got[1].HTML != "" {
		t.Errorf("spacer HTML = %q, want empty", got[1].HTML)
	}
	if got[0].Blank || got[2].Blank {
		t.Error("non-blank lines must not be spacers")
	}
}

func TestRender_StampsSourceLineOnFirstOpenTag(t *testing.T) {
	got := Render("<p>one</p>\n<div class=\"x\">two</div>", "")

	want0 := `<p data-source-line="1">one</p>`
	if got[0].HTML != want0 {
		t.Errorf("line 0 = %q, want %q", got[0].HTML, want0)
	}
	want1 := `<div class="x" data-source-line="2">two</div>`
	if got[1].HTML != want1 {
		t.Errorf("line 1 = %q, want %q", got[1].HTML, want1)
	}
}

func TestRender_WrapsBareTextInSpan(t *testing.T) {
	got := Render("just text", "")
	want := `<span data-source-line="1">just text</span>`
	if got[0].HTML != want {
		t.Errorf("got %q, want %q", got[0].HTML, want)
	}
}

func TestRender_SelfClosingTagStamped(t *testing.T) {
	got := Render(`<img src="a.png" alt="a"/>`, "/tmp")
	if !strings.Contains(got[0].HTML, `data-source-line="1"/>`) {
		t.Errorf("self-closing tag not stamped before />: %q", got[0].HTML)
	}
}

func TestRender_EscapesStrayMarkupCharacters(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"stray less-than", "a < b", `<span data-source-line="1">a &lt; b</span>`},
		{"bare ampersand", "fish & chips", `<span data-source-line="1">fish &amp; chips</span>`},
		{"entity passes through", "a &amp; b", `<span data-source-line="1">a &amp; b</span>`},
		{"numeric entity passes through", "&#169; 2026", `<span data-source-line="1">&#169; 2026</span>`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Render(tt.in, "")
			if got[0].HTML != tt.want {
				t.Errorf("Render(%q) = %q, want %q", tt.in, got[0].HTML, tt.want)
			}
		})
	}
}

func TestRender_ScriptTagsNeverEmittedAsMarkup(t *testing.T) {
	got := Render(`<script>alert(1)</script>`, "")
	if strings.Contains(got[0].HTML, "<script") {
		t.Errorf("script tag leaked into output: %q", got[0].HTML)
	}
	if !strings.Contains(got[0].HTML, "&lt;script&gt;") {
		t.Errorf("script tag should be escaped to text: %q", got[0].HTML)
	}
}

func TestRender_UnterminatedTagDegradesToText(t *testing.T) {
	got := Render(`<div class="x`, "")
	if strings.Contains(got[0].HTML, `<div`) {
		t.Errorf("unterminated tag must not pass through as markup: %q", got[0].HTML)
	}
}

func TestRender_Deterministic(t *testing.T) {
	text := "<h1>title</h1>\n\n<p>body & more</p>\n<img src=\"x.png\">"
	first := Render(text, "/tmp")
	second := Render(text, "/tmp")
	if len(first) != len(second) {
		t.Fatalf("lengths differ: %d vs %d", len(first), len(second))
	}
	for i := range first {
		if first[i] != second[i] {
			t.Errorf("line %d differs between identical renders", i)
		}
	}
}

func TestRender_WideDocument(t *testing.T) {
	var b strings.Builder
	for i := 0; i < 500; i++ {
		fmt.Fprintf(&b, "<p>paragraph %d</p>\n", i)
	}
	got := Render(b.String(), "")
	if len(got) != 500 {
		t.Fatalf("len = %d, want 500", len(got))
	}
	if !strings.Contains(got[499].HTML, `data-source-line="500"`) {
		t.Errorf("last line not stamped with its own number: %q", got[499].HTML)
	}
}
