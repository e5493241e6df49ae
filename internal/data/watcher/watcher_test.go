package watcher

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func waitForEvent(t *testing.T, sw *SnapshotWatcher) ReloadEvent {
	t.Helper()
	select {
	case event := <-sw.Events():
		return event
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for reload event")
		return ReloadEvent{}
	}
}

func TestWatcherEmitsEventOnWrite(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "segments.json")
	require.NoError(t, os.WriteFile(path, []byte("{}"), 0644))

	sw, err := NewSnapshotWatcher([]string{path})
	require.NoError(t, err)
	defer sw.Close()

	require.NoError(t, os.WriteFile(path, []byte(`{"segments":[]}`), 0644))

	event := waitForEvent(t, sw)
	abs, _ := filepath.Abs(path)
	assert.Equal(t, abs, event.Path)
}

func TestWatcherEmitsEventOnRenameReplace(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "segments.json")
	require.NoError(t, os.WriteFile(path, []byte("{}"), 0644))

	sw, err := NewSnapshotWatcher([]string{path})
	require.NoError(t, err)
	defer sw.Close()

	// Atomic-save style replacement: write a temp file and rename it over
	tmp := filepath.Join(dir, ".tmp-segments")
	require.NoError(t, os.WriteFile(tmp, []byte(`{"segments":[]}`), 0644))
	require.NoError(t, os.Rename(tmp, path))

	waitForEvent(t, sw)
}

func TestWatcherIgnoresOtherFiles(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "segments.json")
	require.NoError(t, os.WriteFile(path, []byte("{}"), 0644))

	sw, err := NewSnapshotWatcher([]string{path})
	require.NoError(t, err)
	defer sw.Close()

	require.NoError(t, os.WriteFile(filepath.Join(dir, "other.json"), []byte("{}"), 0644))

	select {
	case event := <-sw.Events():
		t.Fatalf("unexpected event for unrelated file: %+v", event)
	case <-time.After(600 * time.Millisecond):
	}
}

func TestWatcherDebouncesBursts(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "segments.json")
	require.NoError(t, os.WriteFile(path, []byte("{}"), 0644))

	sw, err := NewSnapshotWatcher([]string{path})
	require.NoError(t, err)
	defer sw.Close()

	// A burst of writes within the debounce window collapses to one event
	for i := 0; i < 5; i++ {
		require.NoError(t, os.WriteFile(path, []byte(`{"segments":[]}`), 0644))
		time.Sleep(10 * time.Millisecond)
	}

	waitForEvent(t, sw)

	select {
	case event := <-sw.Events():
		t.Fatalf("burst produced a second event: %+v", event)
	case <-time.After(600 * time.Millisecond):
	}
}

func TestWatcherCloseStopsEvents(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "segments.json")
	require.NoError(t, os.WriteFile(path, []byte("{}"), 0644))

	sw, err := NewSnapshotWatcher([]string{path})
	require.NoError(t, err)
	require.NoError(t, sw.Close())
}
