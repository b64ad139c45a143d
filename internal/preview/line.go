package preview

import (
	"fmt"
	"strings"
)

var textEscaper = strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;")

// renderLine renders a single non-blank source line into an HTML fragment
// tagged with its 1-based source line number.
//
// Markup on the line passes through with resource references rewritten;
// plain-text runs have markup-breaking characters escaped. Script tags are
// never emitted as markup: they are escaped into visible text so embedded
// scripts cannot execute in the rendering surface.
//
// The source line attribute is injected into the first open tag on the line;
// a line with no open tag is wrapped in a span carrying the attribute.
func renderLine(line string, sourceLine int, folder string) string {
	var b strings.Builder
	b.Grow(len(line) + 32)

	tagged := false
	i := 0
	for i < len(line) {
		c := line[i]
		switch {
		case c == '<' && startsTag(line, i):
			end := findTagEnd(line, i)
			if end < 0 {
				// Tag does not terminate on this line. Rules operate per
				// physical line, so degrade to escaped text.
				b.WriteString(textEscaper.Replace(line[i:]))
				i = len(line)
				continue
			}
			tag := line[i:end]
			if isScriptTag(tag) {
				b.WriteString(textEscaper.Replace(tag))
			} else {
				tag = rewriteResources(tag, folder)
				if !tagged && isOpenTag(tag) {
					tag = injectSourceLine(tag, sourceLine)
					tagged = true
				}
				b.WriteString(tag)
			}
			i = end

		case c == '<':
			b.WriteString("&lt;")
			i++

		case c == '&':
			if n := entityLen(line[i:]); n > 0 {
				b.WriteString(line[i : i+n])
				i += n
			} else {
				b.WriteString("&amp;")
				i++
			}

		default:
			b.WriteByte(c)
			i++
		}
	}

	if !tagged {
		return fmt.Sprintf(`<span %s="%d">%s</span>`, SourceLineAttr, sourceLine, b.String())
	}
	return b.String()
}

// startsTag reports whether the '<' at position i opens a markup construct.
func startsTag(s string, i int) bool {
	if i+1 >= len(s) {
		return false
	}
	c := s[i+1]
	return isAlpha(c) || c == '/' || c == '!' || c == '?'
}

// findTagEnd returns the index just past the '>' closing the tag starting at
// position i, honoring quoted attribute values. Returns -1 when the tag does
// not terminate within the string.
func findTagEnd(s string, i int) int {
	var quote byte
	for j := i + 1; j < len(s); j++ {
		c := s[j]
		switch {
		case quote != 0:
			if c == quote {
				quote = 0
			}
		case c == '"' || c == '\'':
			quote = c
		case c == '>':
			return j + 1
		}
	}
	return -1
}

// isOpenTag reports whether the tag is an opening (or self-closing) element
// tag rather than a close tag, comment, directive, or processing instruction.
func isOpenTag(tag string) bool {
	return len(tag) > 1 && isAlpha(tag[1])
}

// tagName extracts the lowercased element name from an open or close tag.
func tagName(tag string) string {
	i := 1
	if i < len(tag) && tag[i] == '/' {
		i++
	}
	start := i
	for i < len(tag) && (isAlpha(tag[i]) || isDigit(tag[i]) || tag[i] == '-' || tag[i] == ':') {
		i++
	}
	return strings.ToLower(tag[start:i])
}

func isScriptTag(tag string) bool {
	return tagName(tag) == "script"
}

// injectSourceLine inserts the source line attribute before the tag's
// terminating '>' or '/>'.
func injectSourceLine(tag string, sourceLine int) string {
	attr := fmt.Sprintf(` %s="%d"`, SourceLineAttr, sourceLine)
	if strings.HasSuffix(tag, "/>") {
		return tag[:len(tag)-2] + attr + "/>"
	}
	if strings.HasSuffix(tag, ">") {
		return tag[:len(tag)-1] + attr + ">"
	}
	return tag
}

// entityLen returns the length of the character entity at the start of s,
// or 0 when s does not begin with a well-formed entity.
func entityLen(s string) int {
	if len(s) < 3 || s[0] != '&' {
		return 0
	}
	i := 1
	if s[i] == '#' {
		i++
		if i < len(s) && (s[i] == 'x' || s[i] == 'X') {
			i++
		}
		start := i
		for i < len(s) && i-start < 8 && isHexDigit(s[i]) {
			i++
		}
		if i == start {
			return 0
		}
	} else {
		start := i
		for i < len(s) && i-start < 32 && (isAlpha(s[i]) || isDigit(s[i])) {
			i++
		}
		if i == start {
			return 0
		}
	}
	if i < len(s) && s[i] == ';' {
		return i + 1
	}
	return 0
}

func isAlpha(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

func isHexDigit(c byte) bool {
	return isDigit(c) || (c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F')
}
