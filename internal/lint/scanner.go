package lint

import (
	"strings"
	"unicode"
)

// The tier-2 rules consume tagged spans produced by this scanner rather than
// re-deriving their own matching, so each rule is testable in isolation.
//
// The scanner operates on a single physical line and never crosses line
// boundaries. All span offsets are rune columns within the line.

type spanKind int

const (
	spanOpenTag spanKind = iota
	spanCloseTag
	spanDoctype
	spanOther // comments and non-doctype declarations
)

// attr is an attribute occurrence inside an open tag.
type attr struct {
	name  string // lowercased
	start int    // rune column of the name
	end   int    // exclusive end of the name
}

// span is one tagged region of a scanned line.
type span struct {
	kind       spanKind
	start, end int    // rune columns, end exclusive; end is the column after '>'
	name       string // lowercased element name for open/close tags
	nameStart  int
	nameEnd    int
	selfClosed bool
	attrs      []attr
	text       string // raw span text, used by the doctype rule
}

// scanLine tokenizes one physical line into tagged spans. Tags that do not
// terminate on the line are skipped: per-line rule scope is a documented
// limitation of the rule set.
func scanLine(line string) []span {
	rs := []rune(line)
	var spans []span

	for i := 0; i < len(rs); i++ {
		if rs[i] != '<' || i+1 >= len(rs) {
			continue
		}
		switch {
		case rs[i+1] == '!':
			if s, next, ok := scanDeclaration(rs, i); ok {
				if s.kind == spanDoctype {
					spans = append(spans, s)
				}
				i = next - 1
			}
		case rs[i+1] == '/':
			if s, next, ok := scanCloseTag(rs, i); ok {
				spans = append(spans, s)
				i = next - 1
			}
		case unicode.IsLetter(rs[i+1]):
			if s, next, ok := scanOpenTag(rs, i); ok {
				spans = append(spans, s)
				i = next - 1
			}
		}
	}
	return spans
}

// scanOpenTag scans an open (or self-closing) element tag starting at '<'.
func scanOpenTag(rs []rune, start int) (span, int, bool) {
	i := start + 1
	nameStart := i
	for i < len(rs) && isNameRune(rs[i]) {
		i++
	}
	s := span{
		kind:      spanOpenTag,
		start:     start,
		name:      strings.ToLower(string(rs[nameStart:i])),
		nameStart: nameStart,
		nameEnd:   i,
	}

	for i < len(rs) {
		for i < len(rs) && unicode.IsSpace(rs[i]) {
			i++
		}
		if i >= len(rs) {
			return span{}, 0, false // unterminated on this line
		}
		switch rs[i] {
		case '>':
			s.end = i + 1
			return s, i + 1, true
		case '/':
			if i+1 < len(rs) && rs[i+1] == '>' {
				s.selfClosed = true
				s.end = i + 2
				return s, i + 2, true
			}
			i++
		default:
			a, next, ok := scanAttr(rs, i)
			if !ok {
				i++
				continue
			}
			s.attrs = append(s.attrs, a)
			i = next
		}
	}
	return span{}, 0, false
}

// scanAttr scans an attribute name with an optional quoted or bare value.
func scanAttr(rs []rune, start int) (attr, int, bool) {
	if !unicode.IsLetter(rs[start]) {
		return attr{}, 0, false
	}
	i := start
	for i < len(rs) && isNameRune(rs[i]) {
		i++
	}
	a := attr{
		name:  strings.ToLower(string(rs[start:i])),
		start: start,
		end:   i,
	}
	if i < len(rs) && rs[i] == '=' {
		i++
		if i < len(rs) && (rs[i] == '"' || rs[i] == '\'') {
			quote := rs[i]
			i++
			for i < len(rs) && rs[i] != quote {
				i++
			}
			if i < len(rs) {
				i++ // past closing quote
			}
		} else {
			for i < len(rs) && !unicode.IsSpace(rs[i]) && rs[i] != '>' {
				i++
			}
		}
	}
	return a, i, true
}

// scanCloseTag scans a closing tag starting at '<'.
func scanCloseTag(rs []rune, start int) (span, int, bool) {
	i := start + 2
	nameStart := i
	for i < len(rs) && isNameRune(rs[i]) {
		i++
	}
	for i < len(rs) && unicode.IsSpace(rs[i]) {
		i++
	}
	if i >= len(rs) || rs[i] != '>' {
		return span{}, 0, false
	}
	return span{
		kind:      spanCloseTag,
		start:     start,
		end:       i + 1,
		name:      strings.ToLower(string(rs[nameStart:i])),
		nameStart: nameStart,
		nameEnd:   i,
	}, i + 1, true
}

// scanDeclaration scans a <!...> declaration and classifies doctypes.
func scanDeclaration(rs []rune, start int) (span, int, bool) {
	i := start
	for i < len(rs) && rs[i] != '>' {
		i++
	}
	if i >= len(rs) {
		return span{}, 0, false
	}
	text := string(rs[start : i+1])
	s := span{start: start, end: i + 1, text: text}
	if len(text) >= len("<!doctype") && strings.EqualFold(text[:len("<!doctype")], "<!doctype") {
		s.kind = spanDoctype
	} else {
		s.kind = spanOther
	}
	return s, i + 1, true
}

// hasAttr reports whether the open tag carries the named attribute.
func (s *span) hasAttr(name string) bool {
	for _, a := range s.attrs {
		if a.name == name {
			return true
		}
	}
	return false
}

func isNameRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r) || r == '-' || r == ':'
}
