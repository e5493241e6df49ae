package watcher

import (
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/penwyp/go-time-tracker/internal/core/constants"
	"github.com/penwyp/go-time-tracker/internal/util"
)

// ReloadEvent signals that a snapshot file changed and should be reloaded
type ReloadEvent struct {
	Path      string
	Operation string
}

// SnapshotWatcher watches snapshot files and emits debounced reload
// events. Editors and atomic-rename saves produce bursts of fs events for
// one logical change; the debounce window collapses each burst into a
// single event.
type SnapshotWatcher struct {
	watcher  *fsnotify.Watcher
	paths    map[string]bool
	events   chan ReloadEvent
	debounce time.Duration
	done     chan struct{}
}

// NewSnapshotWatcher creates a watcher over the given snapshot file paths
func NewSnapshotWatcher(paths []string) (*SnapshotWatcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	sw := &SnapshotWatcher{
		watcher:  fsw,
		paths:    make(map[string]bool, len(paths)),
		events:   make(chan ReloadEvent, 16),
		debounce: constants.WatchDebounce,
		done:     make(chan struct{}),
	}

	// Watch the parent directories: rename-based saves replace the file
	// inode, and a watch on the old inode would go stale
	dirs := make(map[string]bool)
	for _, path := range paths {
		abs, err := filepath.Abs(path)
		if err != nil {
			fsw.Close()
			return nil, err
		}
		sw.paths[abs] = true
		dirs[filepath.Dir(abs)] = true
	}
	for dir := range dirs {
		if err := fsw.Add(dir); err != nil {
			fsw.Close()
			return nil, err
		}
	}

	go sw.processEvents()
	return sw, nil
}

// Events returns the debounced reload event channel
func (sw *SnapshotWatcher) Events() <-chan ReloadEvent {
	return sw.events
}

// Close stops watching and closes the event channel
func (sw *SnapshotWatcher) Close() error {
	close(sw.done)
	return sw.watcher.Close()
}

func (sw *SnapshotWatcher) processEvents() {
	var pending *ReloadEvent
	var timer *time.Timer
	var timerC <-chan time.Time

	for {
		select {
		case event, ok := <-sw.watcher.Events:
			if !ok {
				return
			}
			abs, err := filepath.Abs(event.Name)
			if err != nil || !sw.paths[abs] {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			pending = &ReloadEvent{Path: abs, Operation: event.Op.String()}
			if timer == nil {
				timer = time.NewTimer(sw.debounce)
			} else {
				if !timer.Stop() {
					select {
					case <-timer.C:
					default:
					}
				}
				timer.Reset(sw.debounce)
			}
			timerC = timer.C

		case <-timerC:
			if pending != nil {
				util.LogDebugf("watcher: snapshot changed: %s (%s)", pending.Path, pending.Operation)
				select {
				case sw.events <- *pending:
				case <-sw.done:
					return
				}
				pending = nil
			}
			timerC = nil

		case err, ok := <-sw.watcher.Errors:
			if !ok {
				return
			}
			util.LogError("watcher: " + err.Error())

		case <-sw.done:
			return
		}
	}
}
