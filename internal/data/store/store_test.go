package store

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/penwyp/go-time-tracker/internal/core/interval"
	"github.com/penwyp/go-time-tracker/internal/core/segment"
)

func TestSaveAndLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "segments.json")
	st := NewStore(path)

	segments := []segment.Segment{
		segment.New(1, "backend", interval.New(1000, 2000)),
		segment.New(2, "frontend", interval.New(1500, 2500)),
		segment.New(3, "backend", interval.New(3000, 3000)),
	}
	require.NoError(t, st.Save(segments))

	loaded, err := st.Load()
	require.NoError(t, err)
	assert.Equal(t, segments, loaded)
}

func TestLoadMissingFileStartsEmpty(t *testing.T) {
	st := NewStore(filepath.Join(t.TempDir(), "absent.json"))

	loaded, err := st.Load()
	require.NoError(t, err)
	assert.Empty(t, loaded)
}

func TestLoadCorruptFileFails(t *testing.T) {
	path := filepath.Join(t.TempDir(), "segments.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0644))

	_, err := NewStore(path).Load()
	assert.Error(t, err)
}

func TestSaveCreatesParentDirectories(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "deeper", "segments.json")
	st := NewStore(path)

	require.NoError(t, st.Save(nil))

	_, err := os.Stat(path)
	assert.NoError(t, err)
}

func TestSaveReplacesAtomically(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "segments.json")
	st := NewStore(path)

	require.NoError(t, st.Save([]segment.Segment{segment.New(1, "a", interval.New(0, 10))}))
	require.NoError(t, st.Save([]segment.Segment{segment.New(2, "b", interval.New(20, 30))}))

	loaded, err := st.Load()
	require.NoError(t, err)
	require.Len(t, loaded, 1)
	assert.Equal(t, segment.ID(2), loaded[0].ID)

	// No temp files left behind
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestLoadManagerRebuildsIndex(t *testing.T) {
	path := filepath.Join(t.TempDir(), "segments.json")
	st := NewStore(path)

	require.NoError(t, st.Save([]segment.Segment{
		segment.New(5, "a", interval.New(100, 200)),
		segment.New(9, "a", interval.New(150, 300)),
	}))

	m, err := st.LoadManager()
	require.NoError(t, err)
	assert.Equal(t, 2, m.SegmentCount())
	assert.Equal(t, int64(200), m.TotalTimeForTask("a", false))

	// The id counter resumes past the loaded ids
	s := m.CreateSegment("a", interval.New(400, 500))
	assert.Greater(t, s.ID, segment.ID(9))
}

func TestSaveManagerRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "segments.json")
	st := NewStore(path)

	m, err := st.LoadManager()
	require.NoError(t, err)
	m.CreateSegment("a", interval.New(0, 100))
	m.CreateSegment("b", interval.New(200, 300))
	require.NoError(t, st.SaveManager(m))

	reloaded, err := st.LoadManager()
	require.NoError(t, err)
	assert.Equal(t, 2, reloaded.SegmentCount())
	assert.ElementsMatch(t, m.AllSegments(), reloaded.AllSegments())
}

func TestLoadDir(t *testing.T) {
	dir := t.TempDir()

	require.NoError(t, NewStore(filepath.Join(dir, "backend.json")).Save([]segment.Segment{
		segment.New(1, "backend", interval.New(0, 100)),
		segment.New(2, "backend", interval.New(200, 300)),
	}))
	require.NoError(t, NewStore(filepath.Join(dir, "frontend.json")).Save([]segment.Segment{
		segment.New(3, "frontend", interval.New(50, 150)),
	}))
	// Non-JSON files are skipped
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0644))

	combined, err := LoadDir(dir)
	require.NoError(t, err)
	require.Len(t, combined, 3)

	// Files contribute in name order
	assert.Equal(t, segment.ID(1), combined[0].ID)
	assert.Equal(t, segment.ID(2), combined[1].ID)
	assert.Equal(t, segment.ID(3), combined[2].ID)
}

func TestLoadDirMissingDirectoryFails(t *testing.T) {
	_, err := LoadDir(filepath.Join(t.TempDir(), "absent"))
	assert.Error(t, err)
}
