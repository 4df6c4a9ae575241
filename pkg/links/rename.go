package links

import "strings"

// ReplaceWikilinks rewrites every well-formed [[...]] span whose target
// normalizes to the same slug as oldTitle so that it points at newTitle
// instead. Heading ("#...") and alias ("|...") fragments are preserved
// verbatim. Spans with empty or non-matching targets are copied through
// unchanged. The whole operation is a no-op when the normalized old and
// new titles are equal, or when oldTitle normalizes empty. If newTitle
// trims to nothing the original target text is kept.
func ReplaceWikilinks(text, oldTitle, newTitle string) string {
	oldSlug := normalize(oldTitle)
	if oldSlug == "" || oldSlug == normalize(newTitle) {
		return text
	}

	spans := scanSpans(text, "[[", "]]")
	if len(spans) == 0 {
		return text
	}

	replacement := strings.TrimSpace(newTitle)

	var out strings.Builder
	out.Grow(len(text))
	last := 0
	for _, sp := range spans {
		out.WriteString(text[last:sp.start])
		out.WriteString("[[")
		out.WriteString(rewriteInner(sp.inner, oldSlug, replacement))
		out.WriteString("]]")
		last = sp.end
	}
	out.WriteString(text[last:])
	return out.String()
}

// rewriteInner splits a wikilink's inner content into target, heading and
// alias, rewrites the target on a normalized match, and reassembles the
// fragments untouched.
func rewriteInner(inner, oldSlug, replacement string) string {
	rest := inner
	alias := ""
	if pipe := strings.Index(rest, "|"); pipe >= 0 {
		alias = rest[pipe:] // includes '|'
		rest = rest[:pipe]
	}
	heading := ""
	if hash := strings.Index(rest, "#"); hash >= 0 {
		heading = rest[hash:] // includes '#'
		rest = rest[:hash]
	}

	target := rest
	if normalize(target) != oldSlug {
		return inner
	}
	if replacement == "" {
		return inner
	}
	return replacement + heading + alias
}
