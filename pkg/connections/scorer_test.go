package connections

import (
	"fmt"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func page(uid string, targets ...string) PageLinks {
	set := make(map[string]struct{}, len(targets))
	for _, t := range targets {
		set[t] = struct{}{}
	}
	return PageLinks{UID: uid, Title: uid, Targets: set}
}

func TestScoreSharedTargets(t *testing.T) {
	active := page("inbox", "alpha", "beta", "gamma")
	cand := page("journal", "alpha", "beta")

	got := Score(active, []PageLinks{cand})
	require.Len(t, got, 1)
	assert.Equal(t, 6.0, got[0].Score)
	assert.Equal(t, []string{"both link to alpha", "both link to beta"}, got[0].Reasons)
}

func TestScoreSharedReasonsCapAtThree(t *testing.T) {
	active := page("a", "t1", "t2", "t3", "t4", "t5")
	cand := page("b", "t1", "t2", "t3", "t4", "t5")

	got := Score(active, []PageLinks{cand})
	require.Len(t, got, 1)
	// Score still accumulates for every shared target.
	assert.Equal(t, 15.0, got[0].Score)
	assert.Len(t, got[0].Reasons, 3)
}

func TestScoreDirectLinks(t *testing.T) {
	t.Run("one direction", func(t *testing.T) {
		got := Score(page("a", "b"), []PageLinks{page("b")})
		require.Len(t, got, 1)
		assert.Equal(t, 2.0, got[0].Score)
		assert.Equal(t, []string{"directly linked"}, got[0].Reasons)
	})
	t.Run("both directions score four, one reason", func(t *testing.T) {
		got := Score(page("a", "b"), []PageLinks{page("b", "a")})
		require.Len(t, got, 1)
		assert.Equal(t, 4.0, got[0].Score)
		assert.Equal(t, []string{"directly linked"}, got[0].Reasons)
	})
}

func TestScoreExcludesZeroAndSelf(t *testing.T) {
	active := page("a", "x")
	got := Score(active, []PageLinks{page("a", "x"), page("unrelated", "y")})
	assert.Empty(t, got)
}

func TestScoreOrderingAndTruncation(t *testing.T) {
	active := page("active", "shared")
	var others []PageLinks
	for i := 0; i < 12; i++ {
		others = append(others, page(fmt.Sprintf("p-%02d", i), "shared"))
	}
	// One candidate also directly links back, so it must rank first.
	others[7].Targets["active"] = struct{}{}

	got := Score(active, others)
	require.Len(t, got, 8)
	assert.Equal(t, "p-07", got[0].UID)
	// Equal scores tie-break by uid ascending.
	for i := 2; i < len(got); i++ {
		assert.Less(t, got[i-1].UID, got[i].UID)
	}
}

func TestDiscover(t *testing.T) {
	pages := []PageLinks{page("a"), page("b"), page("c"), page("d")}
	rng := rand.New(rand.NewSource(42))

	got := Discover(pages, "b", 3, rng)
	require.Len(t, got, 3)
	for _, c := range got {
		assert.NotEqual(t, "b", c.UID)
		assert.Zero(t, c.Score)
	}

	// Asking for more than available returns everything but the active page.
	got = Discover(pages, "b", 99, rng)
	assert.Len(t, got, 3)
}
