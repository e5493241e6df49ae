package timeline

import (
	"fmt"
	"sort"
	"sync"

	"github.com/penwyp/go-time-tracker/internal/core/index"
	"github.com/penwyp/go-time-tracker/internal/core/interval"
	"github.com/penwyp/go-time-tracker/internal/core/segment"
	"github.com/penwyp/go-time-tracker/internal/util"
)

// Manager is the task-facing facade over one segment index. It owns id
// allocation, routes every mutation through the index's growth-aware entry
// point, and notifies registered observers after each successful mutation.
//
// All state is guarded by a single writer-style mutex: the index itself is
// single-threaded, and one coarse lock per manager is the intended
// exclusive-access discipline. Observers are called outside the lock so
// they may query the manager re-entrantly.
type Manager struct {
	mu        sync.Mutex
	index     *index.Index
	lastID    segment.ID
	observers []Observer
}

// NewManager creates an empty manager
func NewManager() *Manager {
	return &Manager{index: index.New()}
}

// NewManagerWithSegments rebuilds a manager from a persisted flat segment
// list. The index is reconstructed from scratch and the id counter is
// re-seeded past the largest loaded id, keeping future allocations unique.
func NewManagerWithSegments(segments []segment.Segment) *Manager {
	m := NewManager()
	for _, s := range segments {
		m.index.InsertGrowing(s)
		if s.ID > m.lastID {
			m.lastID = s.ID
		}
	}
	util.LogDebugf("timeline: rebuilt manager from %d segments, last id %d", len(segments), m.lastID)
	return m
}

// AddObserver registers an observer for change notifications
func (m *Manager) AddObserver(o Observer) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.observers = append(m.observers, o)
}

// CreateSegment allocates a fresh id, stores a new segment for the task
// and notifies observers.
//
// Ids come from a strictly monotonic in-process counter seeded from the
// largest loaded id. Monotonicity makes them unique for the lifetime of
// the data set as long as every load path re-seeds the counter.
func (m *Manager) CreateSegment(taskID segment.TaskID, rng interval.Interval) segment.Segment {
	m.mu.Lock()
	m.lastID++
	s := segment.New(m.lastID, taskID, rng)
	m.index.InsertGrowing(s)
	observers := m.snapshotObservers()
	m.mu.Unlock()

	util.LogDebugf("timeline: created %s", s)
	notifyAdded(observers, []segment.Segment{s})
	return s
}

// Segment returns the stored segment for an id; absence is a valid outcome
func (m *Manager) Segment(id segment.ID) (segment.Segment, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.index.FindByID(id)
}

// SegmentCount returns the number of stored segments
func (m *Manager) SegmentCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.index.Count()
}

// AllSegments returns every stored segment
func (m *Manager) AllSegments() []segment.Segment {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.index.Segments()
}

// SegmentsForTask returns the task's segments sorted by start time, id
// breaking ties
func (m *Manager) SegmentsForTask(taskID segment.TaskID) []segment.Segment {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.segmentsForTask(taskID)
}

// TaskIDs returns the distinct task ids with at least one segment, sorted
func (m *Manager) TaskIDs() []segment.TaskID {
	m.mu.Lock()
	defer m.mu.Unlock()

	seen := make(map[segment.TaskID]bool)
	m.index.IterateAll(func(s segment.Segment) bool {
		seen[s.TaskID] = true
		return true
	})
	out := make([]segment.TaskID, 0, len(seen))
	for id := range seen {
		out = append(out, id)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// SetSegmentDates replaces one or both endpoints of a segment's range.
// No-op when both endpoints are nil, the id is unknown, or the effective
// range is unchanged; otherwise the segment is removed and reinserted
// (the spatial bound may change) and observers see exactly one update.
func (m *Manager) SetSegmentDates(id segment.ID, start, end *int64) (segment.Segment, bool) {
	m.mu.Lock()
	if start == nil && end == nil {
		m.mu.Unlock()
		return segment.Segment{}, false
	}
	s, ok := m.index.FindByID(id)
	if !ok {
		m.mu.Unlock()
		return segment.Segment{}, false
	}

	newRange := s.Range
	if start != nil {
		newRange.Start = *start
	}
	if end != nil {
		newRange.End = *end
	}
	if newRange.Equal(s.Range) {
		m.mu.Unlock()
		return s, false
	}

	m.index.RemoveByID(id)
	s.Range = newRange
	m.index.InsertGrowing(s)
	observers := m.snapshotObservers()
	m.mu.Unlock()

	notifyUpdated(observers, s)
	return s, true
}

// ChangeTask reassigns a segment to another task. No-op when the id is
// unknown or the task is unchanged.
func (m *Manager) ChangeTask(id segment.ID, newTaskID segment.TaskID) (segment.Segment, bool) {
	m.mu.Lock()
	s, ok := m.index.FindByID(id)
	if !ok || s.TaskID == newTaskID {
		m.mu.Unlock()
		return s, false
	}

	m.index.RemoveByID(id)
	s.TaskID = newTaskID
	m.index.InsertGrowing(s)
	observers := m.snapshotObservers()
	m.mu.Unlock()

	notifyUpdated(observers, s)
	return s, true
}

// RemoveSegment removes one segment by id. An unknown id is a silent
// no-op: nothing changes and no notification fires.
func (m *Manager) RemoveSegment(id segment.ID) (segment.Segment, bool) {
	m.mu.Lock()
	s, ok := m.index.RemoveByID(id)
	observers := m.snapshotObservers()
	m.mu.Unlock()

	if !ok {
		return segment.Segment{}, false
	}
	util.LogDebugf("timeline: removed %s", s)
	notifyRemoved(observers, []segment.Segment{s})
	return s, true
}

// RemoveSegmentsForTask removes every segment of the task, notifying with
// the exact removed set
func (m *Manager) RemoveSegmentsForTask(taskID segment.TaskID) []segment.Segment {
	m.mu.Lock()
	removed := m.index.RemoveByTaskID(taskID)
	observers := m.snapshotObservers()
	m.mu.Unlock()

	if len(removed) > 0 {
		notifyRemoved(observers, removed)
	}
	return removed
}

// RemoveAll clears the manager, notifying with the exact removed set
func (m *Manager) RemoveAll() []segment.Segment {
	m.mu.Lock()
	removed := m.index.Segments()
	m.index.Reset()
	observers := m.snapshotObservers()
	m.mu.Unlock()

	if len(removed) > 0 {
		notifyRemoved(observers, removed)
	}
	return removed
}

// CompactBound shrinks the index bound to the tightest fit after heavy
// removal
func (m *Manager) CompactBound() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.index.CompactBound()
}

// TotalTime sums stored segment durations across all tasks. With
// withOverlap true the sum is naive and double-counts overlapping time;
// with false, overlapped time is counted exactly once via the coverage
// sweep over a scratch index. The overlap-free total never exceeds the
// naive one, with equality exactly when no two segments overlap.
func (m *Manager) TotalTime(withOverlap bool) int64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.totalTime(func(segment.Segment) bool { return true }, withOverlap)
}

// TotalTimeForTask is TotalTime restricted to one task's segments
func (m *Manager) TotalTimeForTask(taskID segment.TaskID, withOverlap bool) int64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.totalTime(func(s segment.Segment) bool { return s.TaskID == taskID }, withOverlap)
}

// MergedCoverageRanges exposes the index coverage sweep over all segments
func (m *Manager) MergedCoverageRanges() []interval.Interval {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.index.MergedCoverageRanges()
}

// GapsBetweenCoverage exposes the free intervals between coverage ranges
func (m *Manager) GapsBetweenCoverage() []interval.Interval {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.index.GapsBetweenCoverage()
}

// SegmentAt returns a segment covering the instant; see Index.SegmentAt
// for the forward/reverse ordering contract
func (m *Manager) SegmentAt(date int64, reverse bool) (segment.Segment, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.index.SegmentAt(date, reverse)
}

// AllIntersecting returns the segments intersecting the range
func (m *Manager) AllIntersecting(r interval.Interval) []segment.Segment {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.index.AllIntersecting(r)
}

// CountIntersecting returns how many segments intersect the range
func (m *Manager) CountIntersecting(r interval.Interval) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.index.CountIntersecting(r)
}

// ClosestStartingAfter returns the first segment starting at or after the
// instant
func (m *Manager) ClosestStartingAfter(date int64, nonEmptyOnly bool) (segment.Segment, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.index.ClosestStartingAfter(date, nonEmptyOnly)
}

// ClosestEndingBefore returns the last segment ending at or before the
// instant
func (m *Manager) ClosestEndingBefore(date int64, nonEmptyOnly bool) (segment.Segment, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.index.ClosestEndingBefore(date, nonEmptyOnly)
}

// JoinConnectedSegments physically merges every chain of overlapping or
// touching segments of the task into one segment spanning the chain.
// Touching counts as connected: [11:00,12:00] and [12:00,13:00] merge.
// The surviving segment keeps the first id of each chain (sorted by start
// time); the subsumed segments are removed and reported in a single batch
// notification. When nothing merges, nothing is mutated and no
// notification fires, so the operation is idempotent.
func (m *Manager) JoinConnectedSegments(taskID segment.TaskID) []segment.Segment {
	m.mu.Lock()
	segs := m.segmentsForTask(taskID)

	var subsumed []segment.Segment
	for i := 0; i < len(segs); {
		survivor := segs[i]
		merged := survivor.Range

		j := i + 1
		for j < len(segs) && merged.Intersects(segs[j].Range) {
			merged = merged.Union(segs[j].Range)
			subsumedHere := segs[j]
			m.index.RemoveByID(subsumedHere.ID)
			subsumed = append(subsumed, subsumedHere)
			j++
		}

		if j > i+1 {
			m.index.RemoveByID(survivor.ID)
			survivor.Range = merged
			m.index.InsertGrowing(survivor)
		}
		i = j
	}
	observers := m.snapshotObservers()
	m.mu.Unlock()

	if len(subsumed) > 0 {
		util.LogDebugf("timeline: join for task %s subsumed %d segments", taskID, len(subsumed))
		notifyRemoved(observers, subsumed)
	}
	return subsumed
}

func (m *Manager) segmentsForTask(taskID segment.TaskID) []segment.Segment {
	var segs []segment.Segment
	m.index.IterateAll(func(s segment.Segment) bool {
		if s.TaskID == taskID {
			segs = append(segs, s)
		}
		return true
	})
	sort.Slice(segs, func(i, j int) bool {
		if segs[i].Range.Start != segs[j].Range.Start {
			return segs[i].Range.Start < segs[j].Range.Start
		}
		return segs[i].ID < segs[j].ID
	})
	return segs
}

func (m *Manager) totalTime(match func(segment.Segment) bool, withOverlap bool) int64 {
	if withOverlap {
		var total int64
		m.index.IterateAll(func(s segment.Segment) bool {
			if match(s) {
				total += s.Duration()
			}
			return true
		})
		return total
	}

	// Deduplicate overlapped time through a scratch index over just the
	// matching segments
	scratch := index.New()
	m.index.IterateAll(func(s segment.Segment) bool {
		if match(s) {
			scratch.InsertGrowing(s)
		}
		return true
	})
	return scratch.CoverageDuration()
}

func (m *Manager) snapshotObservers() []Observer {
	if len(m.observers) == 0 {
		return nil
	}
	out := make([]Observer, len(m.observers))
	copy(out, m.observers)
	return out
}

func notifyAdded(observers []Observer, segs []segment.Segment) {
	for _, o := range observers {
		o.SegmentsAdded(segs)
	}
}

func notifyRemoved(observers []Observer, segs []segment.Segment) {
	for _, o := range observers {
		o.SegmentsRemoved(segs)
	}
}

func notifyUpdated(observers []Observer, s segment.Segment) {
	for _, o := range observers {
		o.SegmentUpdated(s)
	}
}

// String summarizes the manager state for debug logs
func (m *Manager) String() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	bound, ok := m.index.Bound()
	if !ok {
		return "timeline manager: empty"
	}
	return fmt.Sprintf("timeline manager: %d segments within %s", m.index.Count(), bound)
}
