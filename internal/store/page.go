package store

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/kittclouds/loom/pkg/links"
)

// CreatePage inserts a page under a fresh unique uid derived from title
// and indexes the title.
func (s *Store) CreatePage(title string) (*Page, error) {
	var page *Page
	err := s.withTx("create page", func(tx *sql.Tx) error {
		uid, err := uniqueUID(tx, title)
		if err != nil {
			return err
		}
		now := s.now()
		res, err := tx.Exec(`
			INSERT INTO pages (uid, title, created_at, updated_at)
			VALUES (?, ?, ?, ?)
		`, uid, title, now, now)
		if err != nil {
			return err
		}
		id, err := res.LastInsertId()
		if err != nil {
			return err
		}
		if err := indexText(tx, uid, title); err != nil {
			return err
		}
		page = &Page{ID: id, UID: uid, Title: title, CreatedAt: now, UpdatedAt: now}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return page, nil
}

// EnsurePage looks a page up by uid and creates it with the given title
// when absent. Idempotent: the resolved page is returned either way.
func (s *Store) EnsurePage(uid, title string) (*Page, error) {
	if page, err := s.GetPageByUID(uid); err == nil {
		return page, nil
	} else if !errors.Is(err, ErrNotFound) {
		return nil, err
	}

	var page *Page
	err := s.withTx("ensure page", func(tx *sql.Tx) error {
		// Re-check inside the transaction: another writer may have won.
		var existing Page
		err := tx.QueryRow(`
			SELECT id, uid, title, created_at, updated_at FROM pages WHERE uid = ?
		`, uid).Scan(&existing.ID, &existing.UID, &existing.Title, &existing.CreatedAt, &existing.UpdatedAt)
		if err == nil {
			page = &existing
			return nil
		}
		if err != sql.ErrNoRows {
			return err
		}

		now := s.now()
		res, err := tx.Exec(`
			INSERT INTO pages (uid, title, created_at, updated_at)
			VALUES (?, ?, ?, ?)
		`, uid, title, now, now)
		if err != nil {
			return err
		}
		id, err := res.LastInsertId()
		if err != nil {
			return err
		}
		if err := indexText(tx, uid, title); err != nil {
			return err
		}
		page = &Page{ID: id, UID: uid, Title: title, CreatedAt: now, UpdatedAt: now}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return page, nil
}

// GetPage retrieves a page by id.
func (s *Store) GetPage(id int64) (*Page, error) {
	return s.scanPage(s.db.QueryRow(`
		SELECT id, uid, title, created_at, updated_at FROM pages WHERE id = ?
	`, id))
}

// GetPageByUID retrieves a page by its stable slug.
func (s *Store) GetPageByUID(uid string) (*Page, error) {
	return s.scanPage(s.db.QueryRow(`
		SELECT id, uid, title, created_at, updated_at FROM pages WHERE uid = ?
	`, uid))
}

func (s *Store) scanPage(row *sql.Row) (*Page, error) {
	var p Page
	err := row.Scan(&p.ID, &p.UID, &p.Title, &p.CreatedAt, &p.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("page: %w", ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get page: %w", err)
	}
	return &p, nil
}

// ListPages returns all pages ordered by uid.
func (s *Store) ListPages() ([]*Page, error) {
	rows, err := s.db.Query(`
		SELECT id, uid, title, created_at, updated_at FROM pages ORDER BY uid
	`)
	if err != nil {
		return nil, fmt.Errorf("list pages: %w", err)
	}
	defer rows.Close()

	var pages []*Page
	for rows.Next() {
		var p Page
		if err := rows.Scan(&p.ID, &p.UID, &p.Title, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, fmt.Errorf("list pages: %w", err)
		}
		pages = append(pages, &p)
	}
	return pages, rows.Err()
}

// RenamePage updates a page's title, reindexes it, and rewrites every
// wikilink in the vault that targeted the old title so that it points at
// the new one — all in one transaction, so text, index and edges never
// diverge. The page uid is stable and does not change.
func (s *Store) RenamePage(id int64, newTitle string) error {
	return s.withTx("rename page", func(tx *sql.Tx) error {
		var uid, oldTitle string
		err := tx.QueryRow(`SELECT uid, title FROM pages WHERE id = ?`, id).Scan(&uid, &oldTitle)
		if err == sql.ErrNoRows {
			return fmt.Errorf("page %d: %w", id, ErrNotFound)
		}
		if err != nil {
			return err
		}

		now := s.now()
		if _, err := tx.Exec(`
			UPDATE pages SET title = ?, updated_at = ? WHERE id = ?
		`, newTitle, now, id); err != nil {
			return err
		}
		if err := indexText(tx, uid, newTitle); err != nil {
			return err
		}
		return propagateRename(tx, oldTitle, newTitle, now)
	})
}

// propagateRename rewrites wikilinks in every block whose text contains
// a link marker, refreshing index and edges for the blocks that changed.
func propagateRename(tx *sql.Tx, oldTitle, newTitle string, now int64) error {
	rows, err := tx.Query(`
		SELECT id, uid, page_id, text FROM blocks WHERE instr(text, '[[') > 0
	`)
	if err != nil {
		return err
	}

	type rewrite struct {
		id     int64
		uid    string
		pageID int64
		text   string
	}
	var changed []rewrite
	for rows.Next() {
		var r rewrite
		if err := rows.Scan(&r.id, &r.uid, &r.pageID, &r.text); err != nil {
			rows.Close()
			return err
		}
		if next := links.ReplaceWikilinks(r.text, oldTitle, newTitle); next != r.text {
			r.text = next
			changed = append(changed, r)
		}
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return err
	}
	rows.Close()

	for _, r := range changed {
		if _, err := tx.Exec(`
			UPDATE blocks SET text = ?, updated_at = ? WHERE id = ?
		`, r.text, now, r.id); err != nil {
			return err
		}
		if err := indexText(tx, r.uid, r.text); err != nil {
			return err
		}
		if err := replaceEdges(tx, r.id, r.pageID, r.text); err != nil {
			return err
		}
	}
	return nil
}

// DeletePage removes a page; owned blocks, tag memberships and edges
// cascade, and the search index drops every affected id.
func (s *Store) DeletePage(id int64) error {
	return s.withTx("delete page", func(tx *sql.Tx) error {
		var uid string
		err := tx.QueryRow(`SELECT uid FROM pages WHERE id = ?`, id).Scan(&uid)
		if err == sql.ErrNoRows {
			return fmt.Errorf("page %d: %w", id, ErrNotFound)
		}
		if err != nil {
			return err
		}

		// Retract block index entries before the cascade erases the rows.
		if _, err := tx.Exec(`
			DELETE FROM search_terms WHERE source_id IN
				(SELECT uid FROM blocks WHERE page_id = ?)
		`, id); err != nil {
			return err
		}
		if err := removeFromIndex(tx, uid); err != nil {
			return err
		}
		_, err = tx.Exec(`DELETE FROM pages WHERE id = ?`, id)
		return err
	})
}

// uniqueUID derives the slug for title and probes numeric suffixes until
// no existing page owns the uid.
func uniqueUID(tx *sql.Tx, title string) (string, error) {
	base := links.Slugify(title)
	uid := base
	for n := 2; ; n++ {
		var one int
		err := tx.QueryRow(`SELECT 1 FROM pages WHERE uid = ?`, uid).Scan(&one)
		if err == sql.ErrNoRows {
			return uid, nil
		}
		if err != nil {
			return "", fmt.Errorf("probe uid %q: %w", uid, err)
		}
		uid = fmt.Sprintf("%s-%d", base, n)
	}
}
