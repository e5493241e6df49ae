package index

import (
	"github.com/penwyp/go-time-tracker/internal/core/interval"
	"github.com/penwyp/go-time-tracker/internal/core/segment"
)

// SegmentAt returns a segment whose range contains the timestamp. The
// forward search checks the local buffer first, then children left to
// right, so it yields the earliest-stored match at that node level; the
// reverse search walks children right to left and the local buffer in
// reverse append order, yielding the most recently stored match instead.
// The distinction matters when several segments overlap the same instant.
func (x *Index) SegmentAt(date int64, reverse bool) (segment.Segment, bool) {
	if x.root == nil {
		return segment.Segment{}, false
	}
	return x.root.segmentAt(date, reverse)
}

// FindByID returns the stored segment with the given id
func (x *Index) FindByID(id segment.ID) (segment.Segment, bool) {
	var found segment.Segment
	ok := false
	x.IterateAll(func(s segment.Segment) bool {
		if s.ID == id {
			found = s
			ok = true
			return false
		}
		return true
	})
	return found, ok
}

// CountIntersecting returns how many stored segments intersect the range
func (x *Index) CountIntersecting(r interval.Interval) int {
	if x.root == nil {
		return 0
	}
	return x.root.countIntersecting(r)
}

// AllIntersecting returns every stored segment intersecting the range
func (x *Index) AllIntersecting(r interval.Interval) []segment.Segment {
	var out []segment.Segment
	x.Query(r, func(s segment.Segment) bool {
		out = append(out, s)
		return true
	})
	return out
}

// Query visits every segment intersecting the range in depth-first order.
// The visitor returns a continue flag: returning false stops traversal
// immediately, propagating the stop through every recursive frame.
func (x *Index) Query(r interval.Interval, visit func(segment.Segment) bool) {
	if x.root == nil {
		return
	}
	x.root.query(r, visit)
}

// IterateAll visits every stored segment in depth-first order with the
// same continue-flag contract as Query.
func (x *Index) IterateAll(visit func(segment.Segment) bool) {
	if x.root == nil {
		return
	}
	x.root.iterate(visit)
}

// ClosestStartingAfter returns the segment with the smallest start among
// those starting at or after the timestamp. Children are searched strictly
// left to right and the scan stops at the first subtree yielding a
// candidate: segments in a later child cannot start before an earlier
// child's bound ends, so the first hit already dominates them. Straddling
// segments in local buffers are always considered before that cut.
func (x *Index) ClosestStartingAfter(date int64, nonEmptyOnly bool) (segment.Segment, bool) {
	if x.root == nil {
		return segment.Segment{}, false
	}
	return x.root.closestStartingAfter(date, nonEmptyOnly)
}

// ClosestEndingBefore is the mirror query: the segment with the largest
// end among those ending at or before the timestamp, searched right to
// left.
func (x *Index) ClosestEndingBefore(date int64, nonEmptyOnly bool) (segment.Segment, bool) {
	if x.root == nil {
		return segment.Segment{}, false
	}
	return x.root.closestEndingBefore(date, nonEmptyOnly)
}

// LongestSegmentCovering returns, among segments whose range contains the
// timestamp and ends strictly after it, the one reaching farthest. The
// coverage sweep leans on this greedy choice.
func (x *Index) LongestSegmentCovering(date int64) (segment.Segment, bool) {
	if x.root == nil {
		return segment.Segment{}, false
	}
	return x.root.longestSegmentCovering(date)
}

func (n *node) segmentAt(date int64, reverse bool) (segment.Segment, bool) {
	if !n.bound.ContainsDate(date) {
		return segment.Segment{}, false
	}

	if !reverse {
		for _, s := range n.segments {
			if s.Range.ContainsDate(date) {
				return s, true
			}
		}
		for _, c := range n.children {
			if s, ok := c.segmentAt(date, false); ok {
				return s, true
			}
		}
		return segment.Segment{}, false
	}

	for i := len(n.children) - 1; i >= 0; i-- {
		if s, ok := n.children[i].segmentAt(date, true); ok {
			return s, true
		}
	}
	for i := len(n.segments) - 1; i >= 0; i-- {
		if n.segments[i].Range.ContainsDate(date) {
			return n.segments[i], true
		}
	}
	return segment.Segment{}, false
}

func (n *node) countIntersecting(r interval.Interval) int {
	if !n.bound.Intersects(r) {
		return 0
	}
	r = n.bound.Clamp(r)

	total := 0
	for _, s := range n.segments {
		if s.Range.Intersects(r) {
			total++
		}
	}
	for _, c := range n.children {
		total += c.countIntersecting(r)
	}
	return total
}

func (n *node) query(r interval.Interval, visit func(segment.Segment) bool) bool {
	if !n.bound.Intersects(r) {
		return true
	}
	r = n.bound.Clamp(r)

	for _, s := range n.segments {
		if s.Range.Intersects(r) && !visit(s) {
			return false
		}
	}
	for _, c := range n.children {
		if !c.query(r, visit) {
			return false
		}
	}
	return true
}

func (n *node) iterate(visit func(segment.Segment) bool) bool {
	for _, s := range n.segments {
		if !visit(s) {
			return false
		}
	}
	for _, c := range n.children {
		if !c.iterate(visit) {
			return false
		}
	}
	return true
}

func (n *node) closestStartingAfter(date int64, nonEmptyOnly bool) (segment.Segment, bool) {
	// Every start in this subtree is <= bound end
	if n.bound.End < date {
		return segment.Segment{}, false
	}

	var best segment.Segment
	found := false
	for _, s := range n.segments {
		if s.Range.Start < date || (nonEmptyOnly && s.IsEmpty()) {
			continue
		}
		if !found || s.Range.Start < best.Range.Start {
			best, found = s, true
		}
	}

	for _, c := range n.children {
		if c.count == 0 {
			continue
		}
		if s, ok := c.closestStartingAfter(date, nonEmptyOnly); ok {
			if !found || s.Range.Start < best.Range.Start {
				best, found = s, true
			}
			// No segment in a later child starts before this child's
			// bound ends, so the scan stops here
			break
		}
	}
	return best, found
}

func (n *node) closestEndingBefore(date int64, nonEmptyOnly bool) (segment.Segment, bool) {
	// Every end in this subtree is >= bound start
	if n.bound.Start > date {
		return segment.Segment{}, false
	}

	var best segment.Segment
	found := false
	for _, s := range n.segments {
		if s.Range.End > date || (nonEmptyOnly && s.IsEmpty()) {
			continue
		}
		if !found || s.Range.End > best.Range.End {
			best, found = s, true
		}
	}

	for i := len(n.children) - 1; i >= 0; i-- {
		c := n.children[i]
		if c.count == 0 {
			continue
		}
		if s, ok := c.closestEndingBefore(date, nonEmptyOnly); ok {
			if !found || s.Range.End > best.Range.End {
				best, found = s, true
			}
			break
		}
	}
	return best, found
}

func (n *node) longestSegmentCovering(date int64) (segment.Segment, bool) {
	if !n.bound.ContainsDate(date) {
		return segment.Segment{}, false
	}

	var best segment.Segment
	found := false
	for _, s := range n.segments {
		if !s.Range.ContainsDate(date) || s.Range.End <= date {
			continue
		}
		if !found || s.Range.End > best.Range.End {
			best, found = s, true
		}
	}
	for _, c := range n.children {
		if s, ok := c.longestSegmentCovering(date); ok {
			if !found || s.Range.End > best.Range.End {
				best, found = s, true
			}
		}
	}
	return best, found
}
