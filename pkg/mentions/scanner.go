package mentions

import (
	"fmt"
	"strings"

	"github.com/coregx/ahocorasick"
)

// PageRef is one known page the scanner can recognize.
type PageRef struct {
	UID   string
	Title string
}

// Match is one unlinked mention: a span of the original text whose
// canonical form equals a known page title.
type Match struct {
	PageUID string
	Title   string
	Text    string // the matched slice of the original text
	Start   int    // byte offset in the original text
	End     int    // byte offset, exclusive
}

// Scanner holds the compiled automaton over all page titles.
type Scanner struct {
	ac    *ahocorasick.Automaton
	pages []PageRef // indexed by pattern id
}

// NewScanner compiles the titles into one automaton. Leftmost-longest
// matching prefers "Project Atlas Review" over "Project Atlas" when both
// are pages. Titles that canonicalize to the same pattern keep the first
// page; titles that canonicalize empty are skipped.
func NewScanner(pages []PageRef) (*Scanner, error) {
	var patterns []string
	var byPattern []PageRef
	seen := make(map[string]bool, len(pages))
	for _, p := range pages {
		key := canonicalize(p.Title)
		if key == "" || seen[key] {
			continue
		}
		seen[key] = true
		patterns = append(patterns, key)
		byPattern = append(byPattern, p)
	}
	if len(patterns) == 0 {
		return &Scanner{}, nil
	}

	ac, err := ahocorasick.NewBuilder().
		AddStrings(patterns).
		SetMatchKind(ahocorasick.LeftmostLongest).
		SetPrefilter(true).
		Build()
	if err != nil {
		return nil, fmt.Errorf("compile title automaton: %w", err)
	}
	return &Scanner{ac: ac, pages: byPattern}, nil
}

// Scan returns every title mention in text with offsets into the
// original text, excluding spans that sit inside an existing [[...]]
// wikilink.
func (s *Scanner) Scan(text string) []Match {
	if s.ac == nil {
		return nil
	}

	canon := canonicalize(text)
	mapping := offsetMap(text)
	linked := linkSpans(text)

	raw := s.ac.FindAllOverlapping([]byte(canon))
	out := make([]Match, 0, len(raw))
	for _, m := range raw {
		start := mapOffset(m.Start, mapping, len(text))
		end := mapOffset(m.End, mapping, len(text))
		if start >= end || end > len(text) {
			continue
		}
		if insideAny(start, end, linked) {
			continue
		}
		page := s.pages[m.PatternID]
		out = append(out, Match{
			PageUID: page.UID,
			Title:   page.Title,
			Text:    text[start:end],
			Start:   start,
			End:     end,
		})
	}
	return out
}

// linkSpans returns the byte ranges of well-formed [[...]] spans.
func linkSpans(text string) [][2]int {
	var spans [][2]int
	for i := 0; i < len(text); {
		open := strings.Index(text[i:], "[[")
		if open < 0 {
			break
		}
		open += i
		close := strings.Index(text[open+2:], "]]")
		if close < 0 {
			break
		}
		end := open + 2 + close + 2
		spans = append(spans, [2]int{open, end})
		i = end
	}
	return spans
}

func insideAny(start, end int, spans [][2]int) bool {
	for _, sp := range spans {
		if start >= sp[0] && end <= sp[1] {
			return true
		}
	}
	return false
}
