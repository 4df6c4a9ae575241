package store

import (
	"database/sql"
	"fmt"
	"sort"

	"github.com/google/uuid"

	"github.com/kittclouds/loom/pkg/links"
)

// CreateBlock inserts a block. UID defaults to a fresh uuid and Type to
// TypeText. The parent, when set, must be a block of the same page; a
// mismatch fails with ErrConstraint. Text is indexed and link edges are
// recorded in the same transaction.
func (s *Store) CreateBlock(b *Block) error {
	if b.UID == "" {
		b.UID = uuid.NewString()
	}
	if b.Type == "" {
		b.Type = TypeText
	}
	return s.withTx("create block", func(tx *sql.Tx) error {
		if err := checkParent(tx, b.PageID, b.ParentID); err != nil {
			return err
		}
		now := s.now()
		b.CreatedAt, b.UpdatedAt = now, now
		res, err := tx.Exec(`
			INSERT INTO blocks (uid, page_id, parent_id, sort_key, text, block_type, props, created_at, updated_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		`, b.UID, b.PageID, b.ParentID, b.SortKey, b.Text, string(b.Type), nullable(b.Props), now, now)
		if err != nil {
			return err
		}
		if b.ID, err = res.LastInsertId(); err != nil {
			return err
		}
		if err := indexText(tx, b.UID, b.Text); err != nil {
			return err
		}
		return replaceEdges(tx, b.ID, b.PageID, b.Text)
	})
}

// UpdateBlockText replaces a block's text; the previous index terms are
// retracted and the new ones written atomically with the edit.
func (s *Store) UpdateBlockText(uid, text string) error {
	return s.withTx("update block text", func(tx *sql.Tx) error {
		var id, pageID int64
		err := tx.QueryRow(`SELECT id, page_id FROM blocks WHERE uid = ?`, uid).Scan(&id, &pageID)
		if err == sql.ErrNoRows {
			return fmt.Errorf("block %q: %w", uid, ErrNotFound)
		}
		if err != nil {
			return err
		}
		if _, err := tx.Exec(`
			UPDATE blocks SET text = ?, updated_at = ? WHERE id = ?
		`, text, s.now(), id); err != nil {
			return err
		}
		if err := indexText(tx, uid, text); err != nil {
			return err
		}
		return replaceEdges(tx, id, pageID, text)
	})
}

// UpdateBlockType changes a block's type tag and opaque props.
func (s *Store) UpdateBlockType(uid string, t BlockType, props string) error {
	return s.withTx("update block type", func(tx *sql.Tx) error {
		res, err := tx.Exec(`
			UPDATE blocks SET block_type = ?, props = ?, updated_at = ? WHERE uid = ?
		`, string(t), nullable(props), s.now(), uid)
		if err != nil {
			return err
		}
		return requireRow(res, "block "+uid)
	})
}

// MoveBlock reparents a block and/or gives it a new sort key. The new
// parent must belong to the same page.
func (s *Store) MoveBlock(uid string, parentID *int64, sortKey string) error {
	return s.withTx("move block", func(tx *sql.Tx) error {
		var id, pageID int64
		err := tx.QueryRow(`SELECT id, page_id FROM blocks WHERE uid = ?`, uid).Scan(&id, &pageID)
		if err == sql.ErrNoRows {
			return fmt.Errorf("block %q: %w", uid, ErrNotFound)
		}
		if err != nil {
			return err
		}
		if err := checkParent(tx, pageID, parentID); err != nil {
			return err
		}
		_, err = tx.Exec(`
			UPDATE blocks SET parent_id = ?, sort_key = ?, updated_at = ? WHERE id = ?
		`, parentID, sortKey, s.now(), id)
		return err
	})
}

// DeleteBlock removes a block and, via foreign keys, its descendants,
// tag memberships and edges. Index entries for the whole subtree are
// retracted in the same transaction.
func (s *Store) DeleteBlock(uid string) error {
	return s.withTx("delete block", func(tx *sql.Tx) error {
		var id int64
		err := tx.QueryRow(`SELECT id FROM blocks WHERE uid = ?`, uid).Scan(&id)
		if err == sql.ErrNoRows {
			return fmt.Errorf("block %q: %w", uid, ErrNotFound)
		}
		if err != nil {
			return err
		}
		if _, err := tx.Exec(`
			DELETE FROM search_terms WHERE source_id IN (
				WITH RECURSIVE subtree(id, uid) AS (
					SELECT id, uid FROM blocks WHERE id = ?
					UNION ALL
					SELECT b.id, b.uid FROM blocks b JOIN subtree s ON b.parent_id = s.id
				)
				SELECT uid FROM subtree
			)
		`, id); err != nil {
			return err
		}
		_, err = tx.Exec(`DELETE FROM blocks WHERE id = ?`, id)
		return err
	})
}

// GetBlock retrieves a block by uid. Indent is not populated here; it is
// a property of the listed page order.
func (s *Store) GetBlock(uid string) (*Block, error) {
	var b Block
	var props sql.NullString
	err := s.db.QueryRow(`
		SELECT id, uid, page_id, parent_id, sort_key, text, block_type, props, created_at, updated_at
		FROM blocks WHERE uid = ?
	`, uid).Scan(&b.ID, &b.UID, &b.PageID, &b.ParentID, &b.SortKey, &b.Text,
		(*string)(&b.Type), &props, &b.CreatedAt, &b.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("block %q: %w", uid, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get block: %w", err)
	}
	if props.Valid {
		b.Props = props.String
	}
	return &b, nil
}

// ListBlocks returns a page's blocks as the flat display sequence:
// depth-first over the parent tree, siblings ordered by sort key, each
// block's Indent set to its tree depth.
func (s *Store) ListBlocks(pageID int64) ([]*Block, error) {
	rows, err := s.db.Query(`
		SELECT id, uid, page_id, parent_id, sort_key, text, block_type, props, created_at, updated_at
		FROM blocks WHERE page_id = ? ORDER BY sort_key
	`, pageID)
	if err != nil {
		return nil, fmt.Errorf("list blocks: %w", err)
	}
	defer rows.Close()

	var all []*Block
	for rows.Next() {
		var b Block
		var props sql.NullString
		if err := rows.Scan(&b.ID, &b.UID, &b.PageID, &b.ParentID, &b.SortKey, &b.Text,
			(*string)(&b.Type), &props, &b.CreatedAt, &b.UpdatedAt); err != nil {
			return nil, fmt.Errorf("list blocks: %w", err)
		}
		if props.Valid {
			b.Props = props.String
		}
		all = append(all, &b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list blocks: %w", err)
	}
	return flattenTree(all), nil
}

// flattenTree orders blocks depth-first by (parent, sort_key) and stamps
// each with its depth. Input is already sorted by sort_key, so sibling
// groups stay ordered.
func flattenTree(all []*Block) []*Block {
	children := make(map[int64][]*Block, len(all))
	var roots []*Block
	for _, b := range all {
		if b.ParentID == nil {
			roots = append(roots, b)
		} else {
			children[*b.ParentID] = append(children[*b.ParentID], b)
		}
	}

	out := make([]*Block, 0, len(all))
	var walk func(b *Block, depth int)
	walk = func(b *Block, depth int) {
		b.Indent = depth
		out = append(out, b)
		for _, c := range children[b.ID] {
			walk(c, depth+1)
		}
	}
	for _, r := range roots {
		walk(r, 0)
	}

	// Orphans (parent on another page would have been rejected; parent
	// deleted mid-scan cannot happen inside one snapshot) — tolerate by
	// appending any block the walk missed, in sort order.
	if len(out) != len(all) {
		seen := make(map[int64]bool, len(out))
		for _, b := range out {
			seen[b.ID] = true
		}
		var rest []*Block
		for _, b := range all {
			if !seen[b.ID] {
				b.Indent = 0
				rest = append(rest, b)
			}
		}
		sort.SliceStable(rest, func(i, j int) bool { return rest[i].SortKey < rest[j].SortKey })
		out = append(out, rest...)
	}
	return out
}

// replaceEdges rewrites the persisted link edges for a block from its
// current text: one row per normalized wikilink target.
func replaceEdges(tx *sql.Tx, blockID, pageID int64, text string) error {
	if _, err := tx.Exec(`DELETE FROM edges WHERE source_block_id = ?`, blockID); err != nil {
		return fmt.Errorf("retract edges: %w", err)
	}
	seen := make(map[string]bool)
	for _, target := range links.ExtractTargets(text) {
		if seen[target] {
			continue
		}
		seen[target] = true
		if _, err := tx.Exec(`
			INSERT INTO edges (source_block_id, source_page_id, target_uid) VALUES (?, ?, ?)
		`, blockID, pageID, target); err != nil {
			return fmt.Errorf("insert edge %q: %w", target, err)
		}
	}
	return nil
}

// ListPageLinks returns every persisted link edge joined with its source
// page, the raw material for connection scoring.
func (s *Store) ListPageLinks() ([]PageLink, error) {
	rows, err := s.db.Query(`
		SELECT p.uid, p.title, e.target_uid
		FROM edges e JOIN pages p ON p.id = e.source_page_id
		ORDER BY p.uid, e.target_uid
	`)
	if err != nil {
		return nil, fmt.Errorf("list page links: %w", err)
	}
	defer rows.Close()

	var out []PageLink
	for rows.Next() {
		var l PageLink
		if err := rows.Scan(&l.SourcePageUID, &l.SourceTitle, &l.TargetUID); err != nil {
			return nil, fmt.Errorf("list page links: %w", err)
		}
		out = append(out, l)
	}
	return out, rows.Err()
}

// checkParent enforces that a parent block, when set, lives on pageID.
func checkParent(tx *sql.Tx, pageID int64, parentID *int64) error {
	if parentID == nil {
		return nil
	}
	var parentPage int64
	err := tx.QueryRow(`SELECT page_id FROM blocks WHERE id = ?`, *parentID).Scan(&parentPage)
	if err == sql.ErrNoRows {
		return fmt.Errorf("parent block %d: %w", *parentID, ErrNotFound)
	}
	if err != nil {
		return err
	}
	if parentPage != pageID {
		return fmt.Errorf("parent block %d belongs to page %d, not %d: %w",
			*parentID, parentPage, pageID, ErrConstraint)
	}
	return nil
}

// nullable maps "" to NULL for optional text columns.
func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}

// requireRow converts a zero-row UPDATE into ErrNotFound.
func requireRow(res sql.Result, what string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("%s: %w", what, ErrNotFound)
	}
	return nil
}
