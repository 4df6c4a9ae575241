// Package vault resolves where the active store lives and manages the
// snapshot backups taken before schema migrations. The store itself
// never discovers its own path; everything goes through Resolve.
package vault

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/tailscale/hujson"
)

// ErrNoVault is returned when no vault path can be resolved from any
// source.
var ErrNoVault = errors.New("no vault configured")

// DefaultBackupKeep is how many pre-migration snapshots are retained.
const DefaultBackupKeep = 3

// Config is the JSONC config file. Comments and trailing commas are
// allowed; the file is standardized before decoding.
type Config struct {
	VaultPath  string `json:"vault_path"`
	ShadowDir  string `json:"shadow_dir,omitempty"`
	BackupKeep int    `json:"backup_keep,omitempty"`
	DebounceMS int    `json:"debounce_ms,omitempty"`
}

// DefaultConfigPath is $LOOM_CONFIG or ~/.config/loom/config.json.
func DefaultConfigPath() string {
	if p := os.Getenv("LOOM_CONFIG"); p != "" {
		return p
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "loom", "config.json")
}

// LoadConfig reads the config file at path (or the default location when
// path is empty). A missing file yields the zero config, not an error.
func LoadConfig(path string) (Config, error) {
	if path == "" {
		path = DefaultConfigPath()
	}
	var cfg Config
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return cfg, fmt.Errorf("read config %s: %w", path, err)
	}

	standardized, err := hujson.Standardize(data)
	if err != nil {
		return cfg, fmt.Errorf("config %s: invalid JSONC: %w", path, err)
	}
	if err := json.Unmarshal(standardized, &cfg); err != nil {
		return cfg, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// Resolve picks the vault path: an explicit argument wins, then the
// LOOM_VAULT environment variable, then the config file. Nothing
// resolvable is ErrNoVault.
func Resolve(explicit string, cfg Config) (string, error) {
	if explicit != "" {
		return explicit, nil
	}
	if env := os.Getenv("LOOM_VAULT"); env != "" {
		return env, nil
	}
	if cfg.VaultPath != "" {
		return cfg.VaultPath, nil
	}
	return "", ErrNoVault
}
