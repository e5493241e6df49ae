package index

import (
	"fmt"

	"github.com/penwyp/go-time-tracker/internal/core/constants"
	"github.com/penwyp/go-time-tracker/internal/core/interval"
	"github.com/penwyp/go-time-tracker/internal/core/segment"
	"github.com/penwyp/go-time-tracker/internal/util"
)

// Index is a recursively subdividing spatial container for segments over
// the time axis. Each node owns a bounding interval, a small local buffer,
// and either zero or exactly four quarter-width children. A segment lives
// in the deepest node along its containment path whose children do not
// fully contain it; straddlers stay in the local buffer.
//
// The index is single-threaded: no internal locking, counters and rebuilds
// are not safe under concurrent mutation. Callers that need concurrency
// wrap it behind one writer lock (the timeline manager does).
type Index struct {
	root     *node
	maxCount int
	maxDepth int
}

type node struct {
	bound    interval.Interval
	depth    int
	count    int // segments stored at or below this node, maintained incrementally
	segments []segment.Segment
	children []*node // nil for a leaf, exactly four otherwise
}

// New creates an empty index with the default shape limits
func New() *Index {
	return NewWithLimits(constants.MaxCountBeforeSplit, constants.MaxDepth)
}

// NewWithLimits creates an empty index with explicit shape limits
func NewWithLimits(maxCount, maxDepth int) *Index {
	return &Index{maxCount: maxCount, maxDepth: maxDepth}
}

// Count returns the number of stored segments
func (x *Index) Count() int {
	if x.root == nil {
		return 0
	}
	return x.root.count
}

// Bound returns the current root bound; ok is false for an empty index
func (x *Index) Bound() (interval.Interval, bool) {
	if x.root == nil {
		return interval.Interval{}, false
	}
	return x.root.bound, true
}

// Insert stores a segment that must fit the current bound. A non-fit is a
// programming error, not a runtime condition: callers that may be handing
// over an out-of-bound segment go through InsertGrowing instead.
func (x *Index) Insert(s segment.Segment) {
	if x.root == nil {
		x.root = &node{bound: s.Range}
	}
	if !x.root.bound.Contains(s.Range) {
		panic(fmt.Sprintf("index: segment %d range %s outside bound %s, caller must use InsertGrowing", s.ID, s.Range, x.root.bound))
	}
	x.root.insert(s, x.maxCount, x.maxDepth)
}

// InsertGrowing stores a segment, growing the root bound first when the
// segment does not fit. Growth rebuilds the whole tree over the spanned
// bound, so its cost is amortized: a single out-of-bound insert is linear
// in the stored segment count, but the bound only ever grows, so repeated
// inserts into an established range stay cheap.
func (x *Index) InsertGrowing(s segment.Segment) {
	if x.root == nil || x.root.bound.Contains(s.Range) {
		x.Insert(s)
		return
	}

	newBound := x.root.bound.Union(s.Range)
	util.LogDebugf("index: growing bound %s -> %s for segment %d", x.root.bound, newBound, s.ID)
	x.rebuild(newBound, append(x.Segments(), s))
}

// RemoveByID removes the segment with the given id, returning it. An
// unknown id is a silent no-op with ok=false; absence is an expected
// outcome, never an error.
func (x *Index) RemoveByID(id segment.ID) (segment.Segment, bool) {
	if x.root == nil {
		return segment.Segment{}, false
	}
	return x.root.removeByID(id)
}

// RemoveWhere removes every segment matching the predicate and returns the
// removed set for notification purposes.
func (x *Index) RemoveWhere(pred func(segment.Segment) bool) []segment.Segment {
	if x.root == nil {
		return nil
	}
	var removed []segment.Segment
	x.root.removeWhere(pred, &removed)
	return removed
}

// RemoveByTaskID removes all segments owned by the task
func (x *Index) RemoveByTaskID(taskID segment.TaskID) []segment.Segment {
	return x.RemoveWhere(func(s segment.Segment) bool {
		return s.TaskID == taskID
	})
}

// CompactBound recomputes the tightest bound covering the stored segments
// and rebuilds the tree over it. Used after heavy removal to shrink an
// over-grown bound; an emptied index collapses entirely.
func (x *Index) CompactBound() {
	if x.root == nil {
		return
	}
	all := x.Segments()
	if len(all) == 0 {
		x.root = nil
		return
	}

	bound := all[0].Range
	for _, s := range all[1:] {
		bound = bound.Union(s.Range)
	}
	util.LogDebugf("index: compacting bound %s -> %s over %d segments", x.root.bound, bound, len(all))
	x.rebuild(bound, all)
}

// Reset discards all stored segments
func (x *Index) Reset() {
	x.root = nil
}

// Segments returns every stored segment in traversal order
func (x *Index) Segments() []segment.Segment {
	if x.root == nil {
		return nil
	}
	out := make([]segment.Segment, 0, x.root.count)
	x.IterateAll(func(s segment.Segment) bool {
		out = append(out, s)
		return true
	})
	return out
}

func (x *Index) rebuild(bound interval.Interval, all []segment.Segment) {
	x.root = &node{bound: bound}
	for _, s := range all {
		x.root.insert(s, x.maxCount, x.maxDepth)
	}
}

func (n *node) insert(s segment.Segment, maxCount, maxDepth int) {
	if !n.bound.Contains(s.Range) {
		panic(fmt.Sprintf("index: node bound %s does not contain segment %d range %s", n.bound, s.ID, s.Range))
	}
	n.count++

	if n.children != nil {
		for _, c := range n.children {
			if c.bound.Contains(s.Range) {
				c.insert(s, maxCount, maxDepth)
				return
			}
		}
		// Straddles a child boundary, stays local
		n.segments = append(n.segments, s)
		return
	}

	n.segments = append(n.segments, s)
	if len(n.segments) > maxCount && n.depth < maxDepth {
		n.subdivide(maxCount, maxDepth)
	}
}

// subdivide bisects the node's interval twice, producing four
// quarter-width children, and pushes down every local segment that fits
// entirely inside one of them.
func (n *node) subdivide(maxCount, maxDepth int) {
	quarters := n.bound.Quarters()
	n.children = make([]*node, 4)
	for i := range n.children {
		n.children[i] = &node{bound: quarters[i], depth: n.depth + 1}
	}

	kept := n.segments[:0]
	for _, s := range n.segments {
		moved := false
		for _, c := range n.children {
			if c.bound.Contains(s.Range) {
				c.insert(s, maxCount, maxDepth)
				moved = true
				break
			}
		}
		if !moved {
			kept = append(kept, s)
		}
	}
	n.segments = kept
}

func (n *node) removeByID(id segment.ID) (segment.Segment, bool) {
	for i, s := range n.segments {
		if s.ID == id {
			n.segments = append(n.segments[:i], n.segments[i+1:]...)
			n.count--
			return s, true
		}
	}
	for _, c := range n.children {
		if s, ok := c.removeByID(id); ok {
			n.count--
			n.squashCheck()
			return s, true
		}
	}
	return segment.Segment{}, false
}

func (n *node) removeWhere(pred func(segment.Segment) bool, removed *[]segment.Segment) {
	kept := n.segments[:0]
	for _, s := range n.segments {
		if pred(s) {
			*removed = append(*removed, s)
			n.count--
		} else {
			kept = append(kept, s)
		}
	}
	n.segments = kept

	for _, c := range n.children {
		before := c.count
		c.removeWhere(pred, removed)
		n.count -= before - c.count
	}
	n.squashCheck()
}

// squashCheck collapses a subdivided node back to leaf form once all of
// its children are (recursively) empty.
func (n *node) squashCheck() {
	if n.children == nil {
		return
	}
	for _, c := range n.children {
		if c.count > 0 {
			return
		}
	}
	n.children = nil
}
