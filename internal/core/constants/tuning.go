package constants

import "time"

const (
	// Segment index shape
	MaxCountBeforeSplit = 8
	MaxDepth            = 16

	// Snapshot watcher debounce
	WatchDebounce = 250 * time.Millisecond

	// Snapshot file permissions
	SnapshotFileMode = 0644
	SnapshotDirMode  = 0755
)
