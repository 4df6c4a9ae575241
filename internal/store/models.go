// Package store provides SQLite-backed persistence for Loom.
// Uses ncruces/go-sqlite3/driver which provides a database/sql interface.
// The store owns schema migrations, cascade-delete and uniqueness
// invariants, the full-text index, the link-edge table and the sync log;
// every mutation is atomic and keeps the index consistent with stored
// text.
package store

// Page is a top-level document: a titled, uniquely slugged container of
// ordered blocks.
type Page struct {
	ID        int64  `json:"id"`
	UID       string `json:"uid"` // stable human-readable slug, unique
	Title     string `json:"title"`
	CreatedAt int64  `json:"createdAt"`
	UpdatedAt int64  `json:"updatedAt"`
}

// BlockType is the closed tag set for block content variants.
type BlockType string

const (
	TypeText         BlockType = "text"
	TypeHeading1     BlockType = "heading1"
	TypeHeading2     BlockType = "heading2"
	TypeHeading3     BlockType = "heading3"
	TypeQuote        BlockType = "quote"
	TypeCallout      BlockType = "callout"
	TypeCode         BlockType = "code"
	TypeDivider      BlockType = "divider"
	TypeToggle       BlockType = "toggle"
	TypeTodo         BlockType = "todo"
	TypeImage        BlockType = "image"
	TypeColumnLayout BlockType = "column_layout"
	TypeColumn       BlockType = "column"
	TypeDatabaseView BlockType = "database_view"
)

// Block is one node of a page's outline tree. Siblings under the same
// parent are totally ordered by SortKey (opaque, lexicographically
// comparable). Indent is derived from the parent chain when listing; it
// is not persisted.
type Block struct {
	ID        int64     `json:"id"`
	UID       string    `json:"uid"`
	PageID    int64     `json:"pageId"`
	ParentID  *int64    `json:"parentId,omitempty"`
	SortKey   string    `json:"sortKey"`
	Text      string    `json:"text"`
	Type      BlockType `json:"blockType"`
	Props     string    `json:"props,omitempty"` // opaque JSON payload
	Indent    int       `json:"indent"`          // derived, see ListBlocks
	CreatedAt int64     `json:"createdAt"`
	UpdatedAt int64     `json:"updatedAt"`
}

// Tag is a label attachable to blocks. Memberships cascade with block
// deletion.
type Tag struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// Asset is a content-addressed binary reference. Byte storage lives
// outside the store; only the hash, path and metadata are kept.
type Asset struct {
	ID        int64  `json:"id"`
	Hash      string `json:"hash"` // unique; insertion is idempotent on it
	Path      string `json:"path"`
	MimeType  string `json:"mimeType"`
	Size      int64  `json:"size"`
	CreatedAt int64  `json:"createdAt"`
}

// SyncOp is one immutable record of the append-only multi-device log.
// OpID is client-generated and globally unique; a duplicate append fails
// with ErrConflict rather than overwriting.
type SyncOp struct {
	ID        int64  `json:"id"`
	OpID      string `json:"opId"`
	PageID    int64  `json:"pageId"`
	DeviceID  string `json:"deviceId"`
	OpType    string `json:"opType"`
	Payload   []byte `json:"payload,omitempty"`
	CreatedAt int64  `json:"createdAt"`
}

// PageLink is one persisted link edge: a block on a source page pointing
// at a target page uid (normalized slug, heading dropped). Edges are
// recomputed from block text on every write and cascade-deleted with
// their block.
type PageLink struct {
	SourcePageUID string
	SourceTitle   string
	TargetUID     string
}
