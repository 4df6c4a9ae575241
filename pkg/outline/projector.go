// Package outline computes the visible projection of an ordered,
// indent-tagged block list under a per-page collapsed set. The block tree
// is never materialized as a pointer graph; parent/child relations are
// derived per call from the flat ordered slice.
package outline

// Row is one block in page order, as the projector sees it: its stable
// uid, nesting depth, and type tag.
type Row struct {
	UID    string
	Indent int
	Type   BlockType
}

// BlockType mirrors the store's closed block type tag set. Duplicated
// here as a plain string so the projector stays dependency-free.
type BlockType string

// Layout-container variants whose descendants are always hidden in the
// outline, regardless of explicit collapse state.
const (
	TypeColumnLayout BlockType = "column_layout"
	TypeColumn       BlockType = "column"
	TypeDatabaseView BlockType = "database_view"
)

// embedded reports whether a block type hides all descendants by itself.
// Closed, type-driven rule; not a per-instance flag.
func embedded(t BlockType) bool {
	switch t {
	case TypeColumnLayout, TypeColumn, TypeDatabaseView:
		return true
	default:
		return false
	}
}

// Hidden marks an actual index with no visible slot, and a block with no
// parent, in the aligned projection arrays.
const Hidden = -1

// Projection holds the four aligned arrays of an outline pass.
// VisibleToActual lists actual indices in display order; ActualToVisible
// is the reverse mapping with Hidden where a block is not shown;
// HasChildren[i] is true iff row i+1 has strictly greater indent;
// ParentByActual[i] is the nearest preceding row with strictly smaller
// indent, or Hidden.
type Projection struct {
	VisibleToActual []int
	ActualToVisible []int
	HasChildren     []bool
	ParentByActual  []int
}

type ancestor struct {
	index  int
	indent int
	hiding bool // own collapse/embed state OR inherited from an ancestor
}

// Project runs a single left-to-right pass over rows, maintaining a stack
// of open ancestors. collapsed holds the uids the user has folded.
func Project(rows []Row, collapsed map[string]bool) Projection {
	n := len(rows)
	p := Projection{
		VisibleToActual: make([]int, 0, n),
		ActualToVisible: make([]int, n),
		HasChildren:     make([]bool, n),
		ParentByActual:  make([]int, n),
	}

	var stack []ancestor
	for i, row := range rows {
		// Close ancestors that are not strictly shallower.
		for len(stack) > 0 && stack[len(stack)-1].indent >= row.Indent {
			stack = stack[:len(stack)-1]
		}

		if len(stack) > 0 {
			p.ParentByActual[i] = stack[len(stack)-1].index
		} else {
			p.ParentByActual[i] = Hidden
		}

		hidden := false
		inherited := false
		if len(stack) > 0 {
			top := stack[len(stack)-1]
			hidden = top.hiding
			inherited = top.hiding
		}

		if hidden {
			p.ActualToVisible[i] = Hidden
		} else {
			p.ActualToVisible[i] = len(p.VisibleToActual)
			p.VisibleToActual = append(p.VisibleToActual, i)
		}

		hasChildren := i+1 < n && rows[i+1].Indent > row.Indent
		p.HasChildren[i] = hasChildren
		if hasChildren {
			stack = append(stack, ancestor{
				index:  i,
				indent: row.Indent,
				hiding: inherited || collapsed[row.UID] || embedded(row.Type),
			})
		}
	}
	return p
}

// FoldToLevel adds to collapsed every row at indent >= level that has
// children. Rows without children are never collapsed.
func FoldToLevel(rows []Row, collapsed map[string]bool, level int) {
	for i, row := range rows {
		if row.Indent < level {
			continue
		}
		if i+1 < len(rows) && rows[i+1].Indent > row.Indent {
			collapsed[row.UID] = true
		}
	}
}

// ExpandAncestors walks the parent chain of target, removing each
// ancestor from collapsed. Reports whether anything changed.
func ExpandAncestors(rows []Row, collapsed map[string]bool, targetUID string) bool {
	idx := Hidden
	for i, row := range rows {
		if row.UID == targetUID {
			idx = i
			break
		}
	}
	if idx == Hidden {
		return false
	}

	p := Project(rows, collapsed)
	changed := false
	for parent := p.ParentByActual[idx]; parent != Hidden; parent = p.ParentByActual[parent] {
		if collapsed[rows[parent].UID] {
			delete(collapsed, rows[parent].UID)
			changed = true
		}
	}
	return changed
}

// VisibleRangeToActual maps a contiguous visible-index range (inclusive)
// back to actual indices in display order. Out-of-bounds ends are
// clamped; an inverted or fully out-of-range request yields nil.
func (p Projection) VisibleRangeToActual(first, last int) []int {
	if first < 0 {
		first = 0
	}
	if last >= len(p.VisibleToActual) {
		last = len(p.VisibleToActual) - 1
	}
	if first > last {
		return nil
	}
	out := make([]int, 0, last-first+1)
	for v := first; v <= last; v++ {
		out = append(out, p.VisibleToActual[v])
	}
	return out
}

// UIDsToVisibleRange maps a uid list to the min/max visible indices
// covering them, ignoring uids that are missing or currently hidden.
// ok is false when no uid resolved to a visible row.
func (p Projection) UIDsToVisibleRange(rows []Row, uids []string) (first, last int, ok bool) {
	byUID := make(map[string]int, len(rows))
	for i, row := range rows {
		byUID[row.UID] = i
	}

	first, last = Hidden, Hidden
	for _, uid := range uids {
		i, found := byUID[uid]
		if !found {
			continue
		}
		v := p.ActualToVisible[i]
		if v == Hidden {
			continue
		}
		if first == Hidden || v < first {
			first = v
		}
		if last == Hidden || v > last {
			last = v
		}
	}
	if first == Hidden {
		return 0, 0, false
	}
	return first, last, true
}
