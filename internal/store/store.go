package store

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	_ "github.com/ncruces/go-sqlite3/driver"
	_ "github.com/ncruces/go-sqlite3/embed"
)

// DefaultWriteTimeout bounds how long a mutating call waits for the
// single writer slot before failing with ErrBusy.
const DefaultWriteTimeout = 5 * time.Second

// BackupFunc snapshots the store file before pending migrations apply.
// A non-nil error aborts opening; migrations do not proceed.
type BackupFunc func() error

// Options tune Open. The zero value is usable.
type Options struct {
	// WriteTimeout overrides DefaultWriteTimeout when positive.
	WriteTimeout time.Duration

	// Backup, when set, runs once before the first pending migration.
	Backup BackupFunc

	// Now overrides the clock (unix milliseconds). Tests inject this.
	Now func() int64
}

// Store is the SQLite-backed document store: one logical writer, many
// concurrent readers against the last committed state.
type Store struct {
	db           *sql.DB
	writer       chan struct{}
	writeTimeout time.Duration
	now          func() int64
}

// Open opens (or creates) the store at path and applies pending schema
// migrations. Use ":memory:" for an in-memory store.
func Open(path string, opts Options) (*Store, error) {
	dsn := "file:" + path +
		"?_pragma=busy_timeout(10000)" +
		"&_pragma=journal_mode(wal)" +
		"&_pragma=foreign_keys(1)"
	if path == ":memory:" {
		dsn = "file::memory:?_pragma=foreign_keys(1)"
	}

	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if path == ":memory:" {
		// A pooled second connection would see a different memory db.
		db.SetMaxOpenConns(1)
	}

	s := &Store{
		db:           db,
		writer:       make(chan struct{}, 1),
		writeTimeout: DefaultWriteTimeout,
		now:          func() int64 { return time.Now().UnixMilli() },
	}
	if opts.WriteTimeout > 0 {
		s.writeTimeout = opts.WriteTimeout
	}
	if opts.Now != nil {
		s.now = opts.Now
	}

	if err := s.migrate(opts.Backup); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// acquireWriter takes the single writer slot, waiting up to the write
// timeout. Concurrent writers block here instead of deadlocking inside
// sqlite.
func (s *Store) acquireWriter() error {
	select {
	case s.writer <- struct{}{}:
		return nil
	case <-time.After(s.writeTimeout):
		return ErrBusy
	}
}

func (s *Store) releaseWriter() {
	<-s.writer
}

// withTx runs fn inside the writer slot and a transaction. fn's error
// rolls the transaction back; the returned error carries op context.
func (s *Store) withTx(op string, fn func(tx *sql.Tx) error) error {
	if err := s.acquireWriter(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	defer s.releaseWriter()

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("%s: begin: %w", op, err)
	}
	if err := fn(tx); err != nil {
		tx.Rollback()
		return fmt.Errorf("%s: %w", op, classify(err))
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("%s: commit: %w", op, classify(err))
	}
	return nil
}

// placeholders returns "?,?,..." for n parameters.
func placeholders(n int) string {
	return strings.TrimRight(strings.Repeat("?,", n), ",")
}
