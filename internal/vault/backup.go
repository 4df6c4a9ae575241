package vault

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/natefinch/atomic"
)

const backupTimeFormat = "20060102T150405.000"

// Backup snapshot-copies the store file to a timestamped sibling and
// prunes to the newest keep copies. A store file that does not exist yet
// has nothing to snapshot and succeeds. The copy is atomic, so a crash
// never leaves a truncated backup.
func Backup(dbPath string, keep int) error {
	if keep <= 0 {
		keep = DefaultBackupKeep
	}

	src, err := os.Open(dbPath)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("backup %s: %w", dbPath, err)
	}
	defer src.Close()

	dst := fmt.Sprintf("%s.bak.%s", dbPath, time.Now().UTC().Format(backupTimeFormat))
	if err := atomic.WriteFile(dst, src); err != nil {
		return fmt.Errorf("backup %s: %w", dbPath, err)
	}
	return pruneBackups(dbPath, keep)
}

// pruneBackups removes all but the newest keep snapshots. The timestamp
// format sorts lexicographically, so name order is age order.
func pruneBackups(dbPath string, keep int) error {
	matches, err := filepath.Glob(dbPath + ".bak.*")
	if err != nil {
		return fmt.Errorf("prune backups: %w", err)
	}
	if len(matches) <= keep {
		return nil
	}
	sort.Strings(matches)
	for _, old := range matches[:len(matches)-keep] {
		if err := os.Remove(old); err != nil {
			return fmt.Errorf("prune backup %s: %w", old, err)
		}
	}
	return nil
}

// ListBackups returns the existing snapshots for a store file, oldest
// first.
func ListBackups(dbPath string) ([]string, error) {
	matches, err := filepath.Glob(dbPath + ".bak.*")
	if err != nil {
		return nil, fmt.Errorf("list backups: %w", err)
	}
	sort.Strings(matches)
	return matches, nil
}
