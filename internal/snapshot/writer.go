// Package snapshot persists the store's JSON snapshot to disk. Writes are
// fire-and-forget relative to the request: the response is produced from the
// in-memory state and a persistence failure never rolls back or blocks an
// already-applied mutation.
package snapshot

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"

	"github.com/tripmate-app/tripmate-backend/internal/store"
	"github.com/tripmate-app/tripmate-backend/pkg/logger"
)

// Writer serializes snapshot writes to a single file. A nil Writer is a
// valid no-op, which is how persistence is disabled.
type Writer struct {
	path string
	logg *logger.Logger

	gen atomic.Uint64

	mu      sync.Mutex
	written uint64 // generation of the last snapshot on disk, guarded by mu
	wg      sync.WaitGroup
}

func NewWriter(path string, logg *logger.Logger) *Writer {
	return &Writer{path: path, logg: logg}
}

// Persist schedules an asynchronous write of the snapshot. Failures are
// logged, never returned: callers have already committed the mutation.
// Snapshots are generation-stamped at call time, so a write that lands after
// a younger sibling is dropped rather than clobbering the newer state.
func (w *Writer) Persist(ctx context.Context, snap store.Snapshot) {
	if w == nil {
		return
	}

	gen := w.gen.Add(1)

	// Detach from the request: the write must survive response completion.
	ctx = context.WithoutCancel(ctx)

	w.wg.Add(1)
	go func() {
		defer w.wg.Done()
		if err := w.write(snap, gen); err != nil && w.logg != nil {
			w.logg.Error(w.logg.WithField(ctx, "snapshot_path", w.path), "snapshot.persist_failed", err)
		}
	}()
}

// Flush blocks until all scheduled writes have completed. Used on shutdown
// and in tests.
func (w *Writer) Flush() {
	if w == nil {
		return
	}
	w.wg.Wait()
}

func (w *Writer) write(snap store.Snapshot, gen uint64) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if gen <= w.written {
		// A younger snapshot already reached the file.
		return nil
	}

	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding snapshot: %w", err)
	}

	dir := filepath.Dir(w.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating snapshot dir: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".tripmate-snapshot-*")
	if err != nil {
		return fmt.Errorf("creating temp snapshot: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("writing snapshot: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("closing snapshot: %w", err)
	}
	if err := os.Rename(tmpName, w.path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("replacing snapshot: %w", err)
	}
	w.written = gen
	return nil
}

// Load reads a snapshot document from disk. A missing file is not an error;
// the second return value reports whether anything was loaded.
func Load(path string) (store.Snapshot, bool, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return store.Snapshot{}, false, nil
	}
	if err != nil {
		return store.Snapshot{}, false, fmt.Errorf("reading snapshot: %w", err)
	}

	var snap store.Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return store.Snapshot{}, false, fmt.Errorf("decoding snapshot: %w", err)
	}
	return snap, true, nil
}
