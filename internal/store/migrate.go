package store

import (
	"database/sql"
	"fmt"
)

// migration is one versioned, ordered schema step. Versions are applied
// idempotently: each runs at most once, inside its own transaction that
// also advances the schema_version high-water mark, so a mid-migration
// failure leaves the store at the prior consistent version.
type migration struct {
	version int
	name    string
	sql     string
}

var migrations = []migration{
	{1, "pages, blocks, tags, kv", `
CREATE TABLE pages (
    id INTEGER PRIMARY KEY,
    uid TEXT NOT NULL UNIQUE,
    title TEXT NOT NULL,
    created_at INTEGER NOT NULL,
    updated_at INTEGER NOT NULL
);

CREATE TABLE blocks (
    id INTEGER PRIMARY KEY,
    uid TEXT NOT NULL UNIQUE,
    page_id INTEGER NOT NULL REFERENCES pages(id) ON DELETE CASCADE,
    parent_id INTEGER REFERENCES blocks(id) ON DELETE CASCADE,
    sort_key TEXT NOT NULL,
    text TEXT NOT NULL DEFAULT '',
    block_type TEXT NOT NULL DEFAULT 'text',
    props TEXT,
    created_at INTEGER NOT NULL,
    updated_at INTEGER NOT NULL
);

CREATE INDEX idx_blocks_page_sort ON blocks(page_id, sort_key);
CREATE INDEX idx_blocks_parent_sort ON blocks(parent_id, sort_key);

CREATE TABLE tags (
    id INTEGER PRIMARY KEY,
    name TEXT NOT NULL UNIQUE
);

CREATE TABLE block_tags (
    block_id INTEGER NOT NULL REFERENCES blocks(id) ON DELETE CASCADE,
    tag_id INTEGER NOT NULL REFERENCES tags(id) ON DELETE CASCADE,
    PRIMARY KEY (block_id, tag_id)
);

CREATE INDEX idx_block_tags_tag ON block_tags(tag_id);

CREATE TABLE kv (
    key TEXT PRIMARY KEY,
    value TEXT NOT NULL
);
`},
	{2, "assets and link edges", `
CREATE TABLE assets (
    id INTEGER PRIMARY KEY,
    hash TEXT NOT NULL UNIQUE,
    path TEXT NOT NULL,
    mime_type TEXT NOT NULL,
    size INTEGER NOT NULL,
    created_at INTEGER NOT NULL
);

CREATE TABLE edges (
    id INTEGER PRIMARY KEY,
    source_block_id INTEGER NOT NULL REFERENCES blocks(id) ON DELETE CASCADE,
    source_page_id INTEGER NOT NULL REFERENCES pages(id) ON DELETE CASCADE,
    target_uid TEXT NOT NULL
);

CREATE INDEX idx_edges_source ON edges(source_block_id);
CREATE INDEX idx_edges_target ON edges(target_uid);
`},
	{3, "sync log and plugin perms", `
-- Append-only; rows are never updated or deleted, so no page FK: the log
-- must survive page deletion for replay.
CREATE TABLE sync_ops (
    id INTEGER PRIMARY KEY,
    op_id TEXT NOT NULL UNIQUE,
    page_id INTEGER NOT NULL,
    device_id TEXT NOT NULL,
    op_type TEXT NOT NULL,
    payload BLOB,
    created_at INTEGER NOT NULL
);

CREATE INDEX idx_sync_ops_page_created ON sync_ops(page_id, created_at);

CREATE TABLE plugin_perms (
    plugin_id TEXT NOT NULL,
    perm TEXT NOT NULL,
    PRIMARY KEY (plugin_id, perm)
);
`},
	{4, "search terms", `
CREATE TABLE search_terms (
    term TEXT NOT NULL,
    source_id TEXT NOT NULL,
    PRIMARY KEY (term, source_id)
) WITHOUT ROWID;

CREATE INDEX idx_search_terms_source ON search_terms(source_id);
`},
}

// migrate applies every migration above the recorded high-water mark.
// backup, when set, runs once before the first pending migration and a
// failure there aborts the whole open.
func (s *Store) migrate(backup BackupFunc) error {
	if _, err := s.db.Exec(`
CREATE TABLE IF NOT EXISTS schema_version (version INTEGER NOT NULL)`); err != nil {
		return fmt.Errorf("migrate: create version table: %w", err)
	}

	var mark int
	err := s.db.QueryRow(`SELECT version FROM schema_version`).Scan(&mark)
	if err == sql.ErrNoRows {
		if _, err := s.db.Exec(`INSERT INTO schema_version (version) VALUES (0)`); err != nil {
			return fmt.Errorf("migrate: seed version: %w", err)
		}
	} else if err != nil {
		return fmt.Errorf("migrate: read version: %w", err)
	}

	backedUp := false
	for _, m := range migrations {
		if m.version <= mark {
			continue
		}
		if backup != nil && !backedUp {
			if err := backup(); err != nil {
				return fmt.Errorf("migrate: backup before v%d: %w", m.version, err)
			}
			backedUp = true
		}
		if err := s.applyMigration(m); err != nil {
			return err
		}
		mark = m.version
	}
	return nil
}

// applyMigration runs one migration and the version bump in a single
// transaction.
func (s *Store) applyMigration(m migration) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("migrate v%d (%s): begin: %w", m.version, m.name, err)
	}
	if _, err := tx.Exec(m.sql); err != nil {
		tx.Rollback()
		return fmt.Errorf("migrate v%d (%s): %w", m.version, m.name, err)
	}
	if _, err := tx.Exec(`UPDATE schema_version SET version = ?`, m.version); err != nil {
		tx.Rollback()
		return fmt.Errorf("migrate v%d (%s): record version: %w", m.version, m.name, err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("migrate v%d (%s): commit: %w", m.version, m.name, err)
	}
	return nil
}

// SchemaVersion reports the applied high-water mark.
func (s *Store) SchemaVersion() (int, error) {
	var v int
	if err := s.db.QueryRow(`SELECT version FROM schema_version`).Scan(&v); err != nil {
		return 0, fmt.Errorf("schema version: %w", err)
	}
	return v, nil
}
