package links

import "strings"

// ExtractBlockRefs returns the referenced block id of every well-formed
// ((...)) span. The alias form is "id|alias"; extraction yields the id,
// trimmed. Unterminated markers are ignored.
func ExtractBlockRefs(text string) []string {
	spans := scanSpans(text, "((", "))")
	out := make([]string, 0, len(spans))
	for _, sp := range spans {
		id := sp.inner
		if pipe := strings.Index(id, "|"); pipe >= 0 {
			id = id[:pipe]
		}
		out = append(out, strings.TrimSpace(id))
	}
	return out
}

// StripBlockRefs replaces each well-formed ((...)) span with its alias
// when one is present, otherwise with the block id. A trailing
// unterminated "((" is left untouched.
func StripBlockRefs(text string) string {
	spans := scanSpans(text, "((", "))")
	if len(spans) == 0 {
		return text
	}
	var out strings.Builder
	out.Grow(len(text))
	last := 0
	for _, sp := range spans {
		out.WriteString(text[last:sp.start])
		repl := sp.inner
		if pipe := strings.Index(repl, "|"); pipe >= 0 {
			repl = repl[pipe+1:]
		}
		out.WriteString(strings.TrimSpace(repl))
		last = sp.end
	}
	out.WriteString(text[last:])
	return out.String()
}
