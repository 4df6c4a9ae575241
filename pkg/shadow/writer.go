package shadow

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/natefinch/atomic"

	"github.com/kittclouds/loom/internal/store"
)

// Source is the slice of the store the exporter reads.
type Source interface {
	ListPages() ([]*store.Page, error)
	ListBlocks(pageID int64) ([]*store.Block, error)
}

// Writer persists shadow exports under a root directory, one file per
// page keyed by the page uid. Writes are atomic overwrite-in-place, so a
// crashed export never leaves a half-written file and re-exporting the
// same page is idempotent.
type Writer struct {
	root string
}

func NewWriter(root string) *Writer {
	return &Writer{root: root}
}

// PagePath returns where a page's export lives.
func (w *Writer) PagePath(pageUID string) string {
	return filepath.Join(w.root, pageUID+".md")
}

// WritePage exports one page and writes it in place.
func (w *Writer) WritePage(page *store.Page, blocks []*store.Block) error {
	content := Export(page, blocks)
	if err := atomic.WriteFile(w.PagePath(page.UID), strings.NewReader(content)); err != nil {
		return fmt.Errorf("write shadow %s: %w", page.UID, err)
	}
	return nil
}

// ExportAll walks every page in the source and writes each export.
func (w *Writer) ExportAll(src Source) error {
	pages, err := src.ListPages()
	if err != nil {
		return fmt.Errorf("export all: %w", err)
	}
	for _, page := range pages {
		blocks, err := src.ListBlocks(page.ID)
		if err != nil {
			return fmt.Errorf("export %s: %w", page.UID, err)
		}
		if err := w.WritePage(page, blocks); err != nil {
			return err
		}
	}
	return nil
}
