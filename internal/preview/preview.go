// Package preview transforms document text into a line-addressable rendered
// representation.
//
// The transformation is a pure function of the text and the document folder:
// each non-blank source line becomes one rendered fragment tagged with its
// 1-based source line number, blank lines collapse to spacer markers, and
// same-document-relative resource references are rewritten to the rendering
// surface's addressing scheme. The output is rebuilt wholesale on every
// render; there is no incremental patching.
package preview

// RenderedLine is one output unit of the line mapper.
type RenderedLine struct {
	// SourceLine is the 0-based index of the source line this fragment
	// was produced from.
	SourceLine int `json:"sourceLine"`
	// HTML is the rendered fragment. Empty for spacers.
	HTML string `json:"html"`
	// Blank marks a spacer emitted for a whitespace-only source line.
	Blank bool `json:"blank"`
}

// SourceLineAttr is the attribute embedded into rendered fragments carrying
// the 1-based source line number, queryable by the rendering surface.
const SourceLineAttr = "data-source-line"

// Render maps full document text to an ordered sequence of rendered lines.
//
// folder is the absolute path of the document's directory, used to resolve
// relative resource references; an unresolvable reference is left unchanged.
// Render never fails: malformed markup passes through escaped or as-is and
// is the structural validator's concern, not the mapper's.
func Render(text, folder string) []RenderedLine {
	lines := splitLines(text)
	out := make([]RenderedLine, 0, len(lines))

	for i, line := range lines {
		if isBlank(line) {
			out = append(out, RenderedLine{SourceLine: i, Blank: true})
			continue
		}
		out = append(out, RenderedLine{
			SourceLine: i,
			HTML:       renderLine(line, i+1, folder),
		})
	}
	return out
}

func splitLines(text string) []string {
	if text == "" {
		return nil
	}
	var lines []string
	start := 0
	for i := 0; i < len(text); i++ {
		if text[i] == '\n' {
			lines = append(lines, text[start:i])
			start = i + 1
		}
	}
	if start < len(text) {
		lines = append(lines, text[start:])
	}
	return lines
}

func isBlank(line string) bool {
	for i := 0; i < len(line); i++ {
		switch line[i] {
		case ' ', '\t', '\r', '\v', '\f':
		default:
			return false
		}
	}
	return true
}
