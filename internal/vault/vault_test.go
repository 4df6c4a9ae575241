package vault

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigJSONC(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.json")
	require.NoError(t, os.WriteFile(path, []byte(`{
		// where the vault lives
		"vault_path": "/tmp/vault",
		"backup_keep": 5, // trailing comma ahead
	}`), 0o644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "/tmp/vault", cfg.VaultPath)
	assert.Equal(t, 5, cfg.BackupKeep)
}

func TestLoadConfigMissingFile(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "nope.json"))
	require.NoError(t, err)
	assert.Equal(t, Config{}, cfg)
}

func TestResolvePrecedence(t *testing.T) {
	t.Setenv("LOOM_VAULT", "/from/env")

	got, err := Resolve("/explicit", Config{VaultPath: "/from/config"})
	require.NoError(t, err)
	assert.Equal(t, "/explicit", got)

	got, err = Resolve("", Config{VaultPath: "/from/config"})
	require.NoError(t, err)
	assert.Equal(t, "/from/env", got)

	t.Setenv("LOOM_VAULT", "")
	got, err = Resolve("", Config{VaultPath: "/from/config"})
	require.NoError(t, err)
	assert.Equal(t, "/from/config", got)

	_, err = Resolve("", Config{})
	assert.ErrorIs(t, err, ErrNoVault)
}

func TestBackupAndPrune(t *testing.T) {
	dir := t.TempDir()
	dbPath := filepath.Join(dir, "loom.db")
	require.NoError(t, os.WriteFile(dbPath, []byte("data"), 0o644))

	for i := 0; i < 5; i++ {
		require.NoError(t, Backup(dbPath, 3))
	}

	backups, err := ListBackups(dbPath)
	require.NoError(t, err)
	assert.LessOrEqual(t, len(backups), 3)
	assert.NotEmpty(t, backups)

	content, err := os.ReadFile(backups[len(backups)-1])
	require.NoError(t, err)
	assert.Equal(t, "data", string(content))
}

func TestBackupMissingStoreFile(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "loom.db")
	require.NoError(t, Backup(dbPath, 3))

	backups, err := ListBackups(dbPath)
	require.NoError(t, err)
	assert.Empty(t, backups)
}

func TestOpenCreatesRootAndStore(t *testing.T) {
	root := filepath.Join(t.TempDir(), "vault")

	v, err := Open(root, Config{}, nil)
	require.NoError(t, err)
	defer v.Close()

	_, err = os.Stat(filepath.Join(root, "loom.db"))
	require.NoError(t, err)

	p, err := v.Store.CreatePage("Hello")
	require.NoError(t, err)
	assert.Equal(t, "hello", p.UID)

	assert.Equal(t, filepath.Join(root, "shadow"), v.ShadowDir(Config{}))
	assert.Equal(t, "/elsewhere", v.ShadowDir(Config{ShadowDir: "/elsewhere"}))
}
