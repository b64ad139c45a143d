package document

import "testing"

func TestSplitLines(t *testing.T) {
	tests := []struct {
		name string
		text string
		want []string
	}{
		{"empty", "", nil},
		{"single", "abc", []string{"abc"}},
		{"trailing newline", "abc\n", []string{"abc"}},
		{"interior blank", "a\n\nb", []string{"a", "", "b"}},
		{"only newlines", "\n\n", []string{"", ""}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SplitLines(tt.text)
			if len(got) != len(tt.want) {
				t.Fatalf("SplitLines(%q) = %v, want %v", tt.text, got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("line %d = %q, want %q", i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestLineIndex_AgreesWithSplitLines(t *testing.T) {
	texts := []string{"", "a", "a\n", "a\nb", "a\nb\n", "\n", "a\n\nb\n"}
	for _, text := range texts {
		li := NewLineIndex(text)
		lines := SplitLines(text)
		if li.LineCount() != len(lines) {
			t.Errorf("LineCount(%q) = %d, SplitLines = %d", text, li.LineCount(), len(lines))
			continue
		}
		for i := range lines {
			if li.Line(i) != lines[i] {
				t.Errorf("Line(%d) of %q = %q, want %q", i, text, li.Line(i), lines[i])
			}
		}
	}
}

func TestLineIndex_OffsetToPosition(t *testing.T) {
	// "héllo" spans 6 bytes for 5 runes.
	text := "héllo\nworld"
	li := NewLineIndex(text)

	tests := []struct {
		offset int
		want   Position
	}{
		{0, Position{0, 0}},
		{1, Position{0, 1}},
		{3, Position{0, 2}}, // past the 2-byte é
		{7, Position{1, 0}},
		{9, Position{1, 2}},
		{100, Position{1, 5}},
		{-1, Position{0, 0}},
	}
	for _, tt := range tests {
		if got := li.OffsetToPosition(tt.offset); got != tt.want {
			t.Errorf("OffsetToPosition(%d) = %v, want %v", tt.offset, got, tt.want)
		}
	}
}

func TestLineIndex_ClampPosition(t *testing.T) {
	li := NewLineIndex("ab\ncdef")

	tests := []struct {
		in, want Position
	}{
		{Position{0, 0}, Position{0, 0}},
		{Position{0, 99}, Position{0, 2}},
		{Position{-1, -1}, Position{0, 0}},
		{Position{9, 1}, Position{1, 1}},
		{Position{9, 99}, Position{1, 4}},
	}
	for _, tt := range tests {
		if got := li.ClampPosition(tt.in); got != tt.want {
			t.Errorf("ClampPosition(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}

	empty := NewLineIndex("")
	if got := empty.ClampPosition(Position{5, 5}); got != (Position{}) {
		t.Errorf("empty ClampPosition = %v, want zero", got)
	}
}
