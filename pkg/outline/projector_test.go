package outline

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func rowsFromIndents(indents ...int) []Row {
	rows := make([]Row, len(indents))
	for i, ind := range indents {
		rows[i] = Row{UID: string(rune('a' + i)), Indent: ind, Type: "text"}
	}
	return rows
}

func TestProjectCollapseScenario(t *testing.T) {
	// Page "Inbox": indents [0,1,1,0], uids a,b,c,d; collapsing a hides b and c.
	rows := rowsFromIndents(0, 1, 1, 0)
	p := Project(rows, map[string]bool{"a": true})

	assert.Equal(t, []int{0, 3}, p.VisibleToActual)
	assert.Equal(t, []int{0, Hidden, Hidden, 1}, p.ActualToVisible)
	assert.Equal(t, []bool{true, false, false, false}, p.HasChildren)
	assert.Equal(t, []int{Hidden, 0, 0, Hidden}, p.ParentByActual)
}

func TestProjectNoCollapse(t *testing.T) {
	rows := rowsFromIndents(0, 1, 2, 1, 0)
	p := Project(rows, nil)

	assert.Equal(t, []int{0, 1, 2, 3, 4}, p.VisibleToActual)
	assert.Equal(t, []int{Hidden, 0, 1, 0, Hidden}, p.ParentByActual)
	assert.Equal(t, []bool{true, true, false, false, false}, p.HasChildren)
}

func TestProjectDeepCollapseInherits(t *testing.T) {
	// Collapsing the root hides grandchildren even if the child is expanded.
	rows := rowsFromIndents(0, 1, 2, 2)
	p := Project(rows, map[string]bool{"a": true})
	assert.Equal(t, []int{0}, p.VisibleToActual)

	// Collapsing only the middle hides just its subtree.
	p = Project(rows, map[string]bool{"b": true})
	assert.Equal(t, []int{0, 1}, p.VisibleToActual)
}

func TestProjectEmbeddedContainerHidesDescendants(t *testing.T) {
	rows := rowsFromIndents(0, 1, 1)
	rows[0].Type = TypeColumnLayout
	p := Project(rows, nil)
	assert.Equal(t, []int{0}, p.VisibleToActual)
	assert.Equal(t, []int{0, Hidden, Hidden}, p.ActualToVisible)
}

func TestProjectMappingsAreInverse(t *testing.T) {
	cases := [][]int{
		{0, 1, 1, 0},
		{0, 1, 2, 3, 1, 0, 1},
		{2, 2, 0, 1}, // starts deep; tolerated, treated as roots
		{},
	}
	collapses := []map[string]bool{nil, {"a": true}, {"b": true, "e": true}}

	for _, indents := range cases {
		rows := rowsFromIndents(indents...)
		for _, collapsed := range collapses {
			p := Project(rows, collapsed)
			for v, a := range p.VisibleToActual {
				require.Equal(t, v, p.ActualToVisible[a])
			}
			for a, v := range p.ActualToVisible {
				if v != Hidden {
					require.Equal(t, a, p.VisibleToActual[v])
				}
			}
		}
	}
}

func TestFoldToLevelZero(t *testing.T) {
	rows := rowsFromIndents(0, 1, 0, 0, 1, 2)
	collapsed := map[string]bool{}
	FoldToLevel(rows, collapsed, 0)

	// Every indent-0 block with children is collapsed; leaves are not.
	want := map[string]bool{"a": true, "d": true, "e": true}
	if diff := cmp.Diff(want, collapsed); diff != "" {
		t.Fatalf("collapsed set mismatch (-want +got):\n%s", diff)
	}
}

func TestFoldToLevelDeeper(t *testing.T) {
	rows := rowsFromIndents(0, 1, 2, 1)
	collapsed := map[string]bool{}
	FoldToLevel(rows, collapsed, 1)
	assert.Equal(t, map[string]bool{"b": true}, collapsed)
}

func TestExpandAncestors(t *testing.T) {
	rows := rowsFromIndents(0, 1, 2)
	collapsed := map[string]bool{"a": true, "b": true}

	changed := ExpandAncestors(rows, collapsed, "c")
	assert.True(t, changed)
	assert.Empty(t, collapsed)

	// Second call is a no-op.
	assert.False(t, ExpandAncestors(rows, collapsed, "c"))
	// Unknown uid is a no-op.
	assert.False(t, ExpandAncestors(rows, collapsed, "zz"))
}

func TestVisibleRangeToActual(t *testing.T) {
	rows := rowsFromIndents(0, 1, 1, 0)
	p := Project(rows, map[string]bool{"a": true})

	assert.Equal(t, []int{0, 3}, p.VisibleRangeToActual(0, 1))
	assert.Equal(t, []int{3}, p.VisibleRangeToActual(1, 9)) // clamped
	assert.Nil(t, p.VisibleRangeToActual(5, 9))
}

func TestUIDsToVisibleRange(t *testing.T) {
	rows := rowsFromIndents(0, 1, 1, 0)
	p := Project(rows, map[string]bool{"a": true})

	first, last, ok := p.UIDsToVisibleRange(rows, []string{"d", "a"})
	require.True(t, ok)
	assert.Equal(t, 0, first)
	assert.Equal(t, 1, last)

	// Hidden and missing uids are ignored.
	first, last, ok = p.UIDsToVisibleRange(rows, []string{"b", "missing", "d"})
	require.True(t, ok)
	assert.Equal(t, 1, first)
	assert.Equal(t, 1, last)

	_, _, ok = p.UIDsToVisibleRange(rows, []string{"b", "c"})
	assert.False(t, ok)
}
