package refresh

import (
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestDebouncerSupersedesStale(t *testing.T) {
	d := NewDebouncer(20*time.Millisecond, nil)

	var runs atomic.Int32
	for i := 0; i < 5; i++ {
		d.Trigger("connections", func() { runs.Add(1) })
		time.Sleep(2 * time.Millisecond)
	}

	time.Sleep(100 * time.Millisecond)
	require.Equal(t, int32(1), runs.Load(), "only the last trigger should fire")
}

func TestDebouncerViewsAreIndependent(t *testing.T) {
	d := NewDebouncer(10*time.Millisecond, nil)

	var a, b atomic.Int32
	d.Trigger("outline", func() { a.Add(1) })
	d.Trigger("connections", func() { b.Add(1) })

	time.Sleep(60 * time.Millisecond)
	require.Equal(t, int32(1), a.Load())
	require.Equal(t, int32(1), b.Load())
}

func TestDebouncerDefaultDelay(t *testing.T) {
	d := NewDebouncer(0, nil)
	require.Equal(t, DefaultDelay, d.delay)
}

func TestFlusherFlushesDirtyPages(t *testing.T) {
	f := NewFlusher(nil)
	f.MarkDirty("inbox")
	f.MarkDirty("weekly-review")
	f.MarkDirty("inbox") // duplicate marks collapse

	var mu sync.Mutex
	exported := map[string]int{}
	n, ran, err := f.Flush(func(uid string) error {
		mu.Lock()
		exported[uid]++
		mu.Unlock()
		return nil
	})
	require.NoError(t, err)
	require.True(t, ran)
	require.Equal(t, 2, n)
	require.Equal(t, map[string]int{"inbox": 1, "weekly-review": 1}, exported)
	require.Empty(t, f.Dirty())
}

func TestFlusherSingleFlight(t *testing.T) {
	f := NewFlusher(nil)
	f.MarkDirty("inbox")

	started := make(chan struct{})
	release := make(chan struct{})
	done := make(chan struct{})
	go func() {
		f.Flush(func(uid string) error {
			close(started)
			<-release
			return nil
		})
		close(done)
	}()

	<-started
	n, ran, err := f.Flush(func(string) error { return nil })
	require.NoError(t, err)
	require.False(t, ran, "second pass should be suppressed while first runs")
	require.Zero(t, n)

	close(release)
	<-done
}

func TestFlusherSkipsPagesDirtiedMidPass(t *testing.T) {
	f := NewFlusher(nil)
	f.MarkDirty("inbox")
	f.MarkDirty("archive")

	var exported []string
	n, ran, err := f.Flush(func(uid string) error {
		// simulate an edit landing on the other page during the pass
		if uid == "inbox" {
			f.MarkDirty("archive")
		} else {
			f.MarkDirty("inbox")
		}
		exported = append(exported, uid)
		return nil
	})
	require.NoError(t, err)
	require.True(t, ran)
	require.Equal(t, 1, n, "the page dirtied mid-pass waits for the next cycle")
	require.Len(t, exported, 1)
	require.Len(t, f.Dirty(), 1)
}

func TestFlusherRequeuesOnError(t *testing.T) {
	f := NewFlusher(nil)
	f.MarkDirty("inbox")

	boom := errors.New("disk full")
	n, ran, err := f.Flush(func(string) error { return boom })
	require.ErrorIs(t, err, boom)
	require.True(t, ran)
	require.Zero(t, n)
	require.Equal(t, []string{"inbox"}, f.Dirty())
}
