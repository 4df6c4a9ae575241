package refresh

import (
	"sync"

	"go.uber.org/zap"
)

// Flusher tracks pages whose shadow export is stale and drives flush
// passes over them. Passes are single-flight: a flush already running
// suppresses new attempts entirely. A page edited while a pass is in
// progress is left dirty and picked up by the next pass instead of being
// exported mid-edit.
type Flusher struct {
	mu    sync.Mutex
	busy  bool
	dirty map[string]bool
	log   *zap.Logger
}

func NewFlusher(log *zap.Logger) *Flusher {
	if log == nil {
		log = zap.NewNop()
	}
	return &Flusher{dirty: make(map[string]bool), log: log}
}

// MarkDirty flags a page for the next flush pass.
func (f *Flusher) MarkDirty(pageUID string) {
	f.mu.Lock()
	f.dirty[pageUID] = true
	f.mu.Unlock()
}

// Dirty reports the pages currently awaiting export.
func (f *Flusher) Dirty() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	uids := make([]string, 0, len(f.dirty))
	for uid := range f.dirty {
		uids = append(uids, uid)
	}
	return uids
}

// Flush runs export for every dirty page. Returns the number of pages
// flushed and false when a pass was already in flight and nothing ran.
// An export error re-marks the page dirty and continues with the rest;
// the first error is returned.
func (f *Flusher) Flush(export func(pageUID string) error) (int, bool, error) {
	f.mu.Lock()
	if f.busy {
		f.mu.Unlock()
		return 0, false, nil
	}
	f.busy = true
	batch := make([]string, 0, len(f.dirty))
	for uid := range f.dirty {
		batch = append(batch, uid)
		delete(f.dirty, uid)
	}
	f.mu.Unlock()

	defer func() {
		f.mu.Lock()
		f.busy = false
		f.mu.Unlock()
	}()

	var firstErr error
	flushed := 0
	for _, uid := range batch {
		f.mu.Lock()
		redirtied := f.dirty[uid]
		f.mu.Unlock()
		if redirtied {
			// edited during this pass, export would race the edit
			continue
		}
		if err := export(uid); err != nil {
			f.log.Warn("shadow flush failed", zap.String("page", uid), zap.Error(err))
			f.MarkDirty(uid)
			if firstErr == nil {
				firstErr = err
			}
			continue
		}
		flushed++
	}
	return flushed, true, firstErr
}
