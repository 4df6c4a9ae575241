package store

import (
	"database/sql"
	"fmt"
)

// PutAsset records an asset keyed by content hash. Re-registering the
// same hash is idempotent and returns the existing row; path, mime type
// and size of the first registration win.
func (s *Store) PutAsset(hash, path, mimeType string, size int64) (*Asset, error) {
	var asset *Asset
	err := s.withTx("put asset", func(tx *sql.Tx) error {
		if _, err := tx.Exec(`
			INSERT INTO assets (hash, path, mime_type, size, created_at)
			VALUES (?, ?, ?, ?, ?)
			ON CONFLICT(hash) DO NOTHING
		`, hash, path, mimeType, size, s.now()); err != nil {
			return err
		}
		a, err := scanAsset(tx.QueryRow(`
			SELECT id, hash, path, mime_type, size, created_at FROM assets WHERE hash = ?
		`, hash))
		if err != nil {
			return err
		}
		asset = a
		return nil
	})
	if err != nil {
		return nil, err
	}
	return asset, nil
}

// GetAssetByHash looks up an asset by its content hash.
func (s *Store) GetAssetByHash(hash string) (*Asset, error) {
	return scanAsset(s.db.QueryRow(`
		SELECT id, hash, path, mime_type, size, created_at FROM assets WHERE hash = ?
	`, hash))
}

func scanAsset(row *sql.Row) (*Asset, error) {
	var a Asset
	err := row.Scan(&a.ID, &a.Hash, &a.Path, &a.MimeType, &a.Size, &a.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("asset: %w", ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get asset: %w", err)
	}
	return &a, nil
}

// ListAssets returns all assets ordered by hash.
func (s *Store) ListAssets() ([]*Asset, error) {
	rows, err := s.db.Query(`
		SELECT id, hash, path, mime_type, size, created_at FROM assets ORDER BY hash
	`)
	if err != nil {
		return nil, fmt.Errorf("list assets: %w", err)
	}
	defer rows.Close()

	var assets []*Asset
	for rows.Next() {
		var a Asset
		if err := rows.Scan(&a.ID, &a.Hash, &a.Path, &a.MimeType, &a.Size, &a.CreatedAt); err != nil {
			return nil, fmt.Errorf("list assets: %w", err)
		}
		assets = append(assets, &a)
	}
	return assets, rows.Err()
}

// DeleteAsset removes an asset row by hash. The file on disk, if any,
// is the caller's problem.
func (s *Store) DeleteAsset(hash string) error {
	return s.withTx("delete asset", func(tx *sql.Tx) error {
		res, err := tx.Exec(`DELETE FROM assets WHERE hash = ?`, hash)
		if err != nil {
			return err
		}
		return requireRow(res, "asset "+hash)
	})
}
