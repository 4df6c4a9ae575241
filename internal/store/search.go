package store

import (
	"database/sql"
	"fmt"
	"sort"
	"strings"
	"unicode"

	"github.com/orsinium-labs/stopwords"
)

// englishStopwords filters filler terms out of the index and out of
// queries, so "the" never matches every block.
var englishStopwords = stopwords.MustGet("en")

// tokenize lowercases text and splits it on every non-letter/non-digit
// rune, dropping stopwords and duplicates. Order is not significant.
func tokenize(text string) []string {
	fields := strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})

	seen := make(map[string]bool, len(fields))
	out := make([]string, 0, len(fields))
	for _, f := range fields {
		if seen[f] || englishStopwords.Contains(f) {
			continue
		}
		seen[f] = true
		out = append(out, f)
	}
	return out
}

// indexText replaces the indexed terms for sourceID with the tokens of
// text. Runs inside the caller's mutation transaction so a read after
// commit never observes stale index state.
func indexText(tx *sql.Tx, sourceID, text string) error {
	if _, err := tx.Exec(`DELETE FROM search_terms WHERE source_id = ?`, sourceID); err != nil {
		return fmt.Errorf("retract index terms: %w", err)
	}
	for _, term := range tokenize(text) {
		if _, err := tx.Exec(`
			INSERT OR IGNORE INTO search_terms (term, source_id) VALUES (?, ?)
		`, term, sourceID); err != nil {
			return fmt.Errorf("index term %q: %w", term, err)
		}
	}
	return nil
}

// removeFromIndex drops every indexed term for sourceID.
func removeFromIndex(tx *sql.Tx, sourceID string) error {
	if _, err := tx.Exec(`DELETE FROM search_terms WHERE source_id = ?`, sourceID); err != nil {
		return fmt.Errorf("remove index terms: %w", err)
	}
	return nil
}

// Search returns the ids (page and block uids) whose indexed text
// matches every query token by substring. Results are ordered by id
// ascending; ordering is deliberately relevance-agnostic. An empty or
// all-stopword query returns nothing.
func (s *Store) Search(query string) ([]string, error) {
	tokens := tokenize(query)
	if len(tokens) == 0 {
		return nil, nil
	}

	var result map[string]bool
	for _, token := range tokens {
		rows, err := s.db.Query(`
			SELECT DISTINCT source_id FROM search_terms WHERE instr(term, ?) > 0
		`, token)
		if err != nil {
			return nil, fmt.Errorf("search %q: %w", token, err)
		}

		matched := make(map[string]bool)
		for rows.Next() {
			var id string
			if err := rows.Scan(&id); err != nil {
				rows.Close()
				return nil, fmt.Errorf("search %q: %w", token, err)
			}
			if result == nil || result[id] {
				matched[id] = true
			}
		}
		if err := rows.Err(); err != nil {
			rows.Close()
			return nil, fmt.Errorf("search %q: %w", token, err)
		}
		rows.Close()

		result = matched
		if len(result) == 0 {
			return nil, nil
		}
	}

	ids := make([]string, 0, len(result))
	for id := range result {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids, nil
}
