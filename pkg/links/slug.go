// Package links implements wikilink and block-reference text transforms:
// extraction, stripping, rename rewriting, and the slug normalization
// shared with page uid resolution. All functions are pure; the package
// holds no state.
package links

import "strings"

// SlugFallback is the uid used when a title normalizes to nothing.
const SlugFallback = "untitled"

// normalize lowercases ASCII alphanumerics and collapses every other run
// of characters into a single '-'. Returns "" for titles with no
// alphanumeric content.
func normalize(title string) string {
	var out strings.Builder
	out.Grow(len(title))

	pendingSep := false
	for i := 0; i < len(title); i++ {
		c := title[i]
		switch {
		case c >= 'a' && c <= 'z', c >= '0' && c <= '9':
			if pendingSep && out.Len() > 0 {
				out.WriteByte('-')
			}
			pendingSep = false
			out.WriteByte(c)
		case c >= 'A' && c <= 'Z':
			if pendingSep && out.Len() > 0 {
				out.WriteByte('-')
			}
			pendingSep = false
			out.WriteByte(c + ('a' - 'A'))
		default:
			pendingSep = true
		}
	}
	return out.String()
}

// Slugify derives the normalized page uid for a free-form title:
// lowercase ASCII alphanumerics, separator runs collapsed to '-',
// leading/trailing separators trimmed, empty result mapped to
// SlugFallback.
func Slugify(title string) string {
	s := normalize(title)
	if s == "" {
		return SlugFallback
	}
	return s
}
