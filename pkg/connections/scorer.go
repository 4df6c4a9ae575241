// Package connections ranks pages related to an active page from the
// wikilink graph: shared outbound targets plus direct links in either
// direction. Scoring is pure over PageLinks inputs; callers materialize
// those from the store's edge table.
package connections

import (
	"math/rand"
	"sort"
)

const (
	sharedTargetWeight = 3.0
	directLinkWeight   = 2.0

	maxSharedReasons = 3
	maxResults       = 8
)

// PageLinks is one page's outbound link adjacency: every wikilink target
// in its blocks, normalized through the slug function with headings
// dropped.
type PageLinks struct {
	UID     string
	Title   string
	Targets map[string]struct{}
}

// Connection is one scored candidate with the reasons it ranked.
type Connection struct {
	UID     string
	Title   string
	Score   float64
	Reasons []string
}

// Score ranks every other page against active. Candidates scoring zero
// are excluded. Results sort by score descending; equal scores tie-break
// by page uid ascending so the order is deterministic regardless of
// input order. At most 8 results are returned.
func Score(active PageLinks, others []PageLinks) []Connection {
	var out []Connection
	for _, cand := range others {
		if cand.UID == active.UID {
			continue
		}
		if c, ok := score(active, cand); ok {
			out = append(out, c)
		}
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].Score != out[j].Score {
			return out[i].Score > out[j].Score
		}
		return out[i].UID < out[j].UID
	})
	if len(out) > maxResults {
		out = out[:maxResults]
	}
	return out
}

func score(active, cand PageLinks) (Connection, bool) {
	c := Connection{UID: cand.UID, Title: cand.Title}

	// Shared targets accumulate score per target; reasons cap at 3.
	// Iterate sorted so the recorded reasons are stable.
	shared := make([]string, 0, len(active.Targets))
	for target := range active.Targets {
		if _, ok := cand.Targets[target]; ok {
			shared = append(shared, target)
		}
	}
	sort.Strings(shared)
	for _, target := range shared {
		c.Score += sharedTargetWeight
		if len(c.Reasons) < maxSharedReasons {
			c.Reasons = append(c.Reasons, "both link to "+target)
		}
	}

	// Direct links score each direction but record one reason at most.
	direct := false
	if _, ok := active.Targets[cand.UID]; ok {
		c.Score += directLinkWeight
		direct = true
	}
	if _, ok := cand.Targets[active.UID]; ok {
		c.Score += directLinkWeight
		direct = true
	}
	if direct {
		c.Reasons = append(c.Reasons, "directly linked")
	}

	if c.Score == 0 {
		return Connection{}, false
	}
	return c, true
}

// Discover samples up to n random pages excluding the active one, for an
// unscored discovery list. rng is injected so callers control
// determinism in tests.
func Discover(pages []PageLinks, activeUID string, n int, rng *rand.Rand) []Connection {
	pool := make([]PageLinks, 0, len(pages))
	for _, p := range pages {
		if p.UID != activeUID {
			pool = append(pool, p)
		}
	}
	rng.Shuffle(len(pool), func(i, j int) {
		pool[i], pool[j] = pool[j], pool[i]
	})
	if n > len(pool) {
		n = len(pool)
	}
	out := make([]Connection, 0, n)
	for _, p := range pool[:n] {
		out = append(out, Connection{UID: p.UID, Title: p.Title})
	}
	return out
}
