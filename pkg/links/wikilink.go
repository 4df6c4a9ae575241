package links

import "strings"

// span is one well-formed [[...]] or ((...)) region of a text.
type span struct {
	start int // offset of the opening marker
	end   int // offset just past the closing marker
	inner string
}

// scanSpans finds balanced open...close spans left to right. An opening
// marker with no closing marker is ignored, not partially consumed. When
// another opening marker appears before the close, the earlier one is
// treated as literal text and scanning restarts from the inner one.
func scanSpans(text, open, close string) []span {
	var spans []span
	i := 0
	for {
		rel := strings.Index(text[i:], open)
		if rel < 0 {
			return spans
		}
		start := i + rel
		innerStart := start + len(open)

		closeRel := strings.Index(text[innerStart:], close)
		if closeRel < 0 {
			return spans
		}
		inner := text[innerStart : innerStart+closeRel]
		if nested := strings.Index(inner, open); nested >= 0 {
			i = innerStart + nested
			continue
		}
		spans = append(spans, span{
			start: start,
			end:   innerStart + closeRel + len(close),
			inner: inner,
		})
		i = innerStart + closeRel + len(close)
	}
}

// ExtractWikilinks returns the raw target of every well-formed [[...]]
// span: the content before any '|' alias, whitespace-trimmed, heading
// fragment retained verbatim. Unterminated markers are ignored.
func ExtractWikilinks(text string) []string {
	spans := scanSpans(text, "[[", "]]")
	out := make([]string, 0, len(spans))
	for _, sp := range spans {
		target := sp.inner
		if pipe := strings.Index(target, "|"); pipe >= 0 {
			target = target[:pipe]
		}
		out = append(out, strings.TrimSpace(target))
	}
	return out
}

// StripWikilinks replaces each well-formed [[...]] span with its inner
// content, trimmed. A trailing unterminated "[[" is left untouched.
func StripWikilinks(text string) string {
	spans := scanSpans(text, "[[", "]]")
	if len(spans) == 0 {
		return text
	}
	var out strings.Builder
	out.Grow(len(text))
	last := 0
	for _, sp := range spans {
		out.WriteString(text[last:sp.start])
		out.WriteString(strings.TrimSpace(sp.inner))
		last = sp.end
	}
	out.WriteString(text[last:])
	return out.String()
}

// ExtractTargets returns the page-adjacency keys of a text: every
// well-formed wikilink target, heading fragment dropped, normalized
// through the slug function. Targets that normalize empty are skipped.
// Duplicates are preserved in order; callers wanting a set deduplicate.
func ExtractTargets(text string) []string {
	raw := ExtractWikilinks(text)
	out := make([]string, 0, len(raw))
	for _, target := range raw {
		if hash := strings.Index(target, "#"); hash >= 0 {
			target = target[:hash]
		}
		if slug := normalize(target); slug != "" {
			out = append(out, slug)
		}
	}
	return out
}
