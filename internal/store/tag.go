package store

import (
	"database/sql"
	"fmt"
	"strings"
)

// EnsureTag returns the tag named name, creating it when absent. Names
// are stored lowercase.
func (s *Store) EnsureTag(name string) (*Tag, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" {
		return nil, fmt.Errorf("empty tag name: %w", ErrConstraint)
	}

	var tag *Tag
	err := s.withTx("ensure tag", func(tx *sql.Tx) error {
		if _, err := tx.Exec(`INSERT OR IGNORE INTO tags (name) VALUES (?)`, name); err != nil {
			return err
		}
		var t Tag
		if err := tx.QueryRow(`SELECT id, name FROM tags WHERE name = ?`, name).Scan(&t.ID, &t.Name); err != nil {
			return err
		}
		tag = &t
		return nil
	})
	if err != nil {
		return nil, err
	}
	return tag, nil
}

// TagBlock attaches a tag to a block. Repeating the call is a no-op.
func (s *Store) TagBlock(blockUID, tagName string) error {
	return s.withTx("tag block", func(tx *sql.Tx) error {
		blockID, tagID, err := resolveBlockTag(tx, blockUID, tagName)
		if err != nil {
			return err
		}
		_, err = tx.Exec(`
			INSERT OR IGNORE INTO block_tags (block_id, tag_id) VALUES (?, ?)
		`, blockID, tagID)
		return err
	})
}

// UntagBlock detaches a tag from a block. Missing membership is not an
// error; the tag row itself stays.
func (s *Store) UntagBlock(blockUID, tagName string) error {
	return s.withTx("untag block", func(tx *sql.Tx) error {
		blockID, tagID, err := resolveBlockTag(tx, blockUID, tagName)
		if err != nil {
			return err
		}
		_, err = tx.Exec(`
			DELETE FROM block_tags WHERE block_id = ? AND tag_id = ?
		`, blockID, tagID)
		return err
	})
}

func resolveBlockTag(tx *sql.Tx, blockUID, tagName string) (blockID, tagID int64, err error) {
	err = tx.QueryRow(`SELECT id FROM blocks WHERE uid = ?`, blockUID).Scan(&blockID)
	if err == sql.ErrNoRows {
		return 0, 0, fmt.Errorf("block %q: %w", blockUID, ErrNotFound)
	}
	if err != nil {
		return 0, 0, err
	}
	err = tx.QueryRow(`SELECT id FROM tags WHERE name = ?`, strings.ToLower(strings.TrimSpace(tagName))).Scan(&tagID)
	if err == sql.ErrNoRows {
		return 0, 0, fmt.Errorf("tag %q: %w", tagName, ErrNotFound)
	}
	if err != nil {
		return 0, 0, err
	}
	return blockID, tagID, nil
}

// ListBlockTags returns a block's tags sorted by name.
func (s *Store) ListBlockTags(blockUID string) ([]*Tag, error) {
	rows, err := s.db.Query(`
		SELECT t.id, t.name
		FROM tags t
		JOIN block_tags bt ON bt.tag_id = t.id
		JOIN blocks b ON b.id = bt.block_id
		WHERE b.uid = ?
		ORDER BY t.name
	`, blockUID)
	if err != nil {
		return nil, fmt.Errorf("list block tags: %w", err)
	}
	defer rows.Close()

	var tags []*Tag
	for rows.Next() {
		var t Tag
		if err := rows.Scan(&t.ID, &t.Name); err != nil {
			return nil, fmt.Errorf("list block tags: %w", err)
		}
		tags = append(tags, &t)
	}
	return tags, rows.Err()
}

// ListTaggedBlocks returns the uids of blocks carrying every one of the
// given tag names, ordered ascending. No names means no blocks.
func (s *Store) ListTaggedBlocks(tagNames ...string) ([]string, error) {
	if len(tagNames) == 0 {
		return nil, nil
	}
	args := make([]any, 0, len(tagNames)+1)
	for _, n := range tagNames {
		args = append(args, strings.ToLower(strings.TrimSpace(n)))
	}
	args = append(args, len(tagNames))

	rows, err := s.db.Query(fmt.Sprintf(`
		SELECT b.uid
		FROM blocks b
		JOIN block_tags bt ON bt.block_id = b.id
		JOIN tags t ON t.id = bt.tag_id
		WHERE t.name IN (%s)
		GROUP BY b.id
		HAVING COUNT(DISTINCT t.id) = ?
		ORDER BY b.uid
	`, placeholders(len(tagNames))), args...)
	if err != nil {
		return nil, fmt.Errorf("list tagged blocks: %w", err)
	}
	defer rows.Close()

	var uids []string
	for rows.Next() {
		var uid string
		if err := rows.Scan(&uid); err != nil {
			return nil, fmt.Errorf("list tagged blocks: %w", err)
		}
		uids = append(uids, uid)
	}
	return uids, rows.Err()
}

// ListTags returns every tag sorted by name.
func (s *Store) ListTags() ([]*Tag, error) {
	rows, err := s.db.Query(`SELECT id, name FROM tags ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("list tags: %w", err)
	}
	defer rows.Close()

	var tags []*Tag
	for rows.Next() {
		var t Tag
		if err := rows.Scan(&t.ID, &t.Name); err != nil {
			return nil, fmt.Errorf("list tags: %w", err)
		}
		tags = append(tags, &t)
	}
	return tags, rows.Err()
}
