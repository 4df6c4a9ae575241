// Package mentions finds unlinked references to known page titles in
// block text. A single Aho-Corasick automaton compiled from every title
// scans text in one pass; matches already wrapped in [[...]] are skipped
// since those are links, not candidates.
package mentions

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// joiner runes survive canonicalization so multiword titles like
// "Jean-Luc's Log" stay one pattern.
func isJoiner(r rune) bool {
	switch r {
	case '\'', '-', '.', '_', '/', '&':
		return true
	}
	return false
}

func isKept(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r) || isJoiner(r)
}

// canonicalize folds text for matching: lowercase, kept runes pass
// through, every other run collapses to a single space, ends trimmed.
// Titles and scanned text must go through the same fold or offsets and
// matches drift apart.
func canonicalize(s string) string {
	var out strings.Builder
	out.Grow(len(s))

	lastSpace := true
	for _, ch := range s {
		c := unicode.ToLower(ch)
		if isKept(c) {
			out.WriteRune(c)
			lastSpace = false
			continue
		}
		if !lastSpace {
			out.WriteRune(' ')
			lastSpace = true
		}
	}
	return strings.TrimRight(out.String(), " ")
}

// offsetMap returns, for every byte position of canonicalize(original),
// the byte position in original it came from, plus a final entry for
// end-of-string. Lowercasing can change rune width, which is why the map
// is per canonical byte.
func offsetMap(original string) []int {
	mapping := make([]int, 0, len(original)+1)

	lastSpace := true
	pos := 0
	for _, ch := range original {
		c := unicode.ToLower(ch)
		if isKept(c) {
			for i := 0; i < utf8.RuneLen(c); i++ {
				mapping = append(mapping, pos)
			}
			lastSpace = false
		} else if !lastSpace {
			mapping = append(mapping, pos)
			lastSpace = true
		}
		pos += utf8.RuneLen(ch)
	}
	mapping = append(mapping, pos)
	return mapping
}

func mapOffset(canonOffset int, mapping []int, originalLen int) int {
	if canonOffset < 0 {
		return 0
	}
	if canonOffset >= len(mapping) {
		return originalLen
	}
	return mapping[canonOffset]
}
