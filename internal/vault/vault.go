package vault

import (
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/kittclouds/loom/internal/store"
)

const dbFileName = "loom.db"

// Vault is an opened storage root: the resolved directory plus its
// store handle.
type Vault struct {
	Root  string
	Store *store.Store
	log   *zap.Logger
}

// Open resolves the vault root, snapshots the store file ahead of any
// pending migrations, and opens the store. The backup hook only fires
// when migrations are actually pending, and its failure aborts the open.
func Open(explicit string, cfg Config, log *zap.Logger) (*Vault, error) {
	if log == nil {
		log = zap.NewNop()
	}

	root, err := Resolve(explicit, cfg)
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("create vault root: %w", err)
	}

	dbPath := filepath.Join(root, dbFileName)
	keep := cfg.BackupKeep
	if keep <= 0 {
		keep = DefaultBackupKeep
	}

	s, err := store.Open(dbPath, store.Options{
		Backup: func() error {
			log.Info("snapshotting store before migration",
				zap.String("db", dbPath), zap.Int("keep", keep))
			return Backup(dbPath, keep)
		},
	})
	if err != nil {
		return nil, fmt.Errorf("open vault %s: %w", root, err)
	}

	log.Info("vault opened", zap.String("root", root))
	return &Vault{Root: root, Store: s, log: log}, nil
}

// ShadowDir returns where shadow exports belong for this vault: the
// configured directory, or <root>/shadow by default.
func (v *Vault) ShadowDir(cfg Config) string {
	if cfg.ShadowDir != "" {
		return cfg.ShadowDir
	}
	return filepath.Join(v.Root, "shadow")
}

// Close closes the underlying store.
func (v *Vault) Close() error {
	return v.Store.Close()
}
