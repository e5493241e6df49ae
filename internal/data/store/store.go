package store

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"github.com/bytedance/sonic"
	"golang.org/x/sync/errgroup"

	"github.com/penwyp/go-time-tracker/internal/core/constants"
	"github.com/penwyp/go-time-tracker/internal/core/segment"
	"github.com/penwyp/go-time-tracker/internal/core/timeline"
	"github.com/penwyp/go-time-tracker/internal/util"
)

// Snapshot is the on-disk representation: a flat segment list. The index
// is not serialized; managers are rebuilt from scratch on load.
type Snapshot struct {
	Version  int               `json:"version"`
	Segments []segment.Segment `json:"segments"`
}

const snapshotVersion = 1

// Store reads and writes segment snapshots as JSON files
type Store struct {
	path string
}

// NewStore creates a store bound to a snapshot file path
func NewStore(path string) *Store {
	return &Store{path: path}
}

// Path returns the snapshot file path
func (st *Store) Path() string {
	return st.path
}

// Load reads the snapshot and returns its segments. A missing file is not
// an error: tracking starts empty.
func (st *Store) Load() ([]segment.Segment, error) {
	data, err := os.ReadFile(st.path)
	if err != nil {
		if os.IsNotExist(err) {
			util.LogDebugf("store: no snapshot at %s, starting empty", st.path)
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read snapshot %s: %w", st.path, err)
	}

	var snap Snapshot
	if err := sonic.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("failed to decode snapshot %s: %w", st.path, err)
	}
	util.LogDebugf("store: loaded %d segments from %s", len(snap.Segments), st.path)
	return snap.Segments, nil
}

// LoadManager loads the snapshot and rebuilds a timeline manager from it
func (st *Store) LoadManager() (*timeline.Manager, error) {
	segments, err := st.Load()
	if err != nil {
		return nil, err
	}
	return timeline.NewManagerWithSegments(segments), nil
}

// Save writes the flat segment list, replacing the snapshot atomically
// via a temp file rename.
func (st *Store) Save(segments []segment.Segment) error {
	snap := Snapshot{Version: snapshotVersion, Segments: segments}
	data, err := sonic.MarshalIndent(snap, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode snapshot: %w", err)
	}

	dir := filepath.Dir(st.path)
	if err := os.MkdirAll(dir, constants.SnapshotDirMode); err != nil {
		return fmt.Errorf("failed to create snapshot directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".snapshot-*.json")
	if err != nil {
		return fmt.Errorf("failed to create temp snapshot: %w", err)
	}
	tmpPath := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("failed to write snapshot: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to close snapshot: %w", err)
	}
	if err := os.Chmod(tmpPath, constants.SnapshotFileMode); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to chmod snapshot: %w", err)
	}
	if err := os.Rename(tmpPath, st.path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to replace snapshot: %w", err)
	}

	util.LogDebugf("store: saved %d segments to %s", len(segments), st.path)
	return nil
}

// SaveManager writes the manager's current segments
func (st *Store) SaveManager(m *timeline.Manager) error {
	return st.Save(m.AllSegments())
}

// LoadDir loads every *.json snapshot under dir concurrently and returns
// the combined segment list, ordered by file name then by position within
// each file. Used when segments are sharded into per-task snapshot files.
func LoadDir(dir string) ([]segment.Segment, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read snapshot directory %s: %w", dir, err)
	}

	var paths []string
	for _, e := range entries {
		if !e.IsDir() && filepath.Ext(e.Name()) == ".json" {
			paths = append(paths, filepath.Join(dir, e.Name()))
		}
	}
	sort.Strings(paths)

	perFile := make([][]segment.Segment, len(paths))
	var g errgroup.Group
	g.SetLimit(8)
	var mu sync.Mutex

	for i, path := range paths {
		i, path := i, path
		g.Go(func() error {
			segs, err := NewStore(path).Load()
			if err != nil {
				return err
			}
			mu.Lock()
			perFile[i] = segs
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var combined []segment.Segment
	for _, segs := range perFile {
		combined = append(combined, segs...)
	}
	util.LogDebugf("store: loaded %d segments from %d files under %s", len(combined), len(paths), dir)
	return combined, nil
}
