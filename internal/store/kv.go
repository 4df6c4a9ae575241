package store

import (
	"database/sql"
	"fmt"
)

// SetKV writes a key, replacing any prior value.
func (s *Store) SetKV(key, value string) error {
	return s.withTx("set kv", func(tx *sql.Tx) error {
		_, err := tx.Exec(`INSERT OR REPLACE INTO kv (key, value) VALUES (?, ?)`, key, value)
		return err
	})
}

// GetKV reads a key; a missing key is ErrNotFound.
func (s *Store) GetKV(key string) (string, error) {
	var value string
	err := s.db.QueryRow(`SELECT value FROM kv WHERE key = ?`, key).Scan(&value)
	if err == sql.ErrNoRows {
		return "", fmt.Errorf("kv %q: %w", key, ErrNotFound)
	}
	if err != nil {
		return "", fmt.Errorf("get kv: %w", err)
	}
	return value, nil
}

// DeleteKV removes a key. Deleting an absent key is a no-op.
func (s *Store) DeleteKV(key string) error {
	return s.withTx("delete kv", func(tx *sql.Tx) error {
		_, err := tx.Exec(`DELETE FROM kv WHERE key = ?`, key)
		return err
	})
}
