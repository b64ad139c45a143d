package preview

import (
	"net/url"
	"path/filepath"
	"strings"
)

// ResourceRoute is the rendering surface's resource-addressing scheme.
// Rewritten references take the form /resource?path=<absolute path>.
const ResourceRoute = "/resource"

// resourceAttrs are the attributes whose values may carry same-document
// relative resource references.
var resourceAttrs = map[string]bool{
	"src":    true,
	"href":   true,
	"poster": true,
}

// rewriteResources rewrites relative resource references inside a single tag
// against the document folder. Absolute paths, network URLs, data URIs, and
// fragment references pass through unchanged, as does anything that fails to
// resolve.
func rewriteResources(tag, folder string) string {
	if folder == "" {
		return tag
	}

	var b strings.Builder
	i := 0
	for i < len(tag) {
		name, valStart, valEnd, next := nextAttr(tag, i)
		if next < 0 {
			b.WriteString(tag[i:])
			break
		}
		if resourceAttrs[strings.ToLower(name)] && valStart >= 0 {
			val := tag[valStart:valEnd]
			if rewritten, ok := rewriteRef(val, folder); ok {
				b.WriteString(tag[i:valStart])
				b.WriteString(rewritten)
				b.WriteString(tag[valEnd:next])
				i = next
				continue
			}
		}
		b.WriteString(tag[i:next])
		i = next
	}
	return b.String()
}

// nextAttr scans for the next name="value" attribute at or after position i.
// It returns the attribute name, the value's span, and the position scanning
// should resume from. next is -1 when no further attribute exists.
func nextAttr(tag string, i int) (name string, valStart, valEnd, next int) {
	// Skip past the tag name on the first call.
	j := i
	for j < len(tag) {
		// Find start of an attribute name: a letter preceded by whitespace.
		for j < len(tag) && !isSpaceByte(tag[j]) {
			j++
		}
		for j < len(tag) && isSpaceByte(tag[j]) {
			j++
		}
		if j >= len(tag) || !isAlpha(tag[j]) {
			return "", -1, -1, -1
		}

		nameStart := j
		for j < len(tag) && (isAlpha(tag[j]) || isDigit(tag[j]) || tag[j] == '-' || tag[j] == ':') {
			j++
		}
		name = tag[nameStart:j]

		if j >= len(tag) || tag[j] != '=' {
			// Valueless attribute; keep scanning from here.
			continue
		}
		j++
		if j >= len(tag) || (tag[j] != '"' && tag[j] != '\'') {
			continue
		}
		quote := tag[j]
		j++
		valStart = j
		for j < len(tag) && tag[j] != quote {
			j++
		}
		if j >= len(tag) {
			return "", -1, -1, -1
		}
		return name, valStart, j, j + 1
	}
	return "", -1, -1, -1
}

// rewriteRef resolves a relative reference against the document folder and
// rewrites it to the resource route. ok is false when the reference should
// pass through unchanged.
func rewriteRef(ref, folder string) (string, bool) {
	if ref == "" || strings.HasPrefix(ref, "#") || strings.HasPrefix(ref, "/") {
		return "", false
	}
	u, err := url.Parse(ref)
	if err != nil || u.Scheme != "" || u.Host != "" {
		return "", false
	}

	path := u.Path
	if path == "" {
		return "", false
	}
	abs, err := filepath.Abs(filepath.Join(folder, filepath.FromSlash(path)))
	if err != nil {
		return "", false
	}
	return ResourceRoute + "?path=" + url.QueryEscape(abs), true
}

func isSpaceByte(c byte) bool {
	return c == ' ' || c == '\t'
}
