package store

import (
	"database/sql"
	"fmt"

	"github.com/google/uuid"
)

// AppendOp appends one operation to the sync log. OpID defaults to a
// fresh uuid; supplying an op id that was already logged fails with
// ErrConflict, which is how replayed batches detect duplicates. The log
// is append-only and rows carry no page foreign key, so history outlives
// the pages it describes.
func (s *Store) AppendOp(op *SyncOp) error {
	if op.OpID == "" {
		op.OpID = uuid.NewString()
	}
	return s.withTx("append op", func(tx *sql.Tx) error {
		var one int
		err := tx.QueryRow(`SELECT 1 FROM sync_ops WHERE op_id = ?`, op.OpID).Scan(&one)
		if err == nil {
			return fmt.Errorf("op %q: %w", op.OpID, ErrConflict)
		}
		if err != sql.ErrNoRows {
			return err
		}

		op.CreatedAt = s.now()
		res, err := tx.Exec(`
			INSERT INTO sync_ops (op_id, page_id, device_id, op_type, payload, created_at)
			VALUES (?, ?, ?, ?, ?, ?)
		`, op.OpID, op.PageID, op.DeviceID, op.OpType, op.Payload, op.CreatedAt)
		if err != nil {
			return err
		}
		op.ID, err = res.LastInsertId()
		return err
	})
}

// ListOpsForPage returns a page's operations in append order. Ops for
// deleted pages are still returned.
func (s *Store) ListOpsForPage(pageID int64) ([]*SyncOp, error) {
	rows, err := s.db.Query(`
		SELECT id, op_id, page_id, device_id, op_type, payload, created_at
		FROM sync_ops WHERE page_id = ? ORDER BY created_at, id
	`, pageID)
	if err != nil {
		return nil, fmt.Errorf("list ops: %w", err)
	}
	defer rows.Close()
	return collectOps(rows)
}

// ListOpsSince returns every operation logged at or after the given unix
// millisecond timestamp, in append order across all pages.
func (s *Store) ListOpsSince(since int64) ([]*SyncOp, error) {
	rows, err := s.db.Query(`
		SELECT id, op_id, page_id, device_id, op_type, payload, created_at
		FROM sync_ops WHERE created_at >= ? ORDER BY created_at, id
	`, since)
	if err != nil {
		return nil, fmt.Errorf("list ops since: %w", err)
	}
	defer rows.Close()
	return collectOps(rows)
}

func collectOps(rows *sql.Rows) ([]*SyncOp, error) {
	var ops []*SyncOp
	for rows.Next() {
		var op SyncOp
		if err := rows.Scan(&op.ID, &op.OpID, &op.PageID, &op.DeviceID,
			&op.OpType, &op.Payload, &op.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan op: %w", err)
		}
		ops = append(ops, &op)
	}
	return ops, rows.Err()
}
