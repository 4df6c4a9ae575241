package store

import (
	"database/sql"
	"fmt"
)

// GrantPluginPerm records a permission for a plugin. Granting twice is a
// no-op.
func (s *Store) GrantPluginPerm(pluginID, perm string) error {
	return s.withTx("grant plugin perm", func(tx *sql.Tx) error {
		_, err := tx.Exec(`
			INSERT OR IGNORE INTO plugin_perms (plugin_id, perm) VALUES (?, ?)
		`, pluginID, perm)
		return err
	})
}

// RevokePluginPerm removes a permission. Revoking an absent grant is a
// no-op.
func (s *Store) RevokePluginPerm(pluginID, perm string) error {
	return s.withTx("revoke plugin perm", func(tx *sql.Tx) error {
		_, err := tx.Exec(`
			DELETE FROM plugin_perms WHERE plugin_id = ? AND perm = ?
		`, pluginID, perm)
		return err
	})
}

// PluginPerms returns a plugin's granted permissions sorted ascending.
func (s *Store) PluginPerms(pluginID string) ([]string, error) {
	rows, err := s.db.Query(`
		SELECT perm FROM plugin_perms WHERE plugin_id = ? ORDER BY perm
	`, pluginID)
	if err != nil {
		return nil, fmt.Errorf("plugin perms: %w", err)
	}
	defer rows.Close()

	var perms []string
	for rows.Next() {
		var p string
		if err := rows.Scan(&p); err != nil {
			return nil, fmt.Errorf("plugin perms: %w", err)
		}
		perms = append(perms, p)
	}
	return perms, rows.Err()
}

// HasPluginPerm reports whether the grant exists.
func (s *Store) HasPluginPerm(pluginID, perm string) (bool, error) {
	var one int
	err := s.db.QueryRow(`
		SELECT 1 FROM plugin_perms WHERE plugin_id = ? AND perm = ?
	`, pluginID, perm).Scan(&one)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("plugin perm: %w", err)
	}
	return true, nil
}
