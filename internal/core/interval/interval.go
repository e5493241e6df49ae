package interval

import (
	"fmt"
	"time"
)

// Interval represents a closed time range [Start, End] in Unix seconds.
// Zero-length intervals are legal and are used as marker ranges; every
// operation tolerates them. Start <= End is a soft invariant: nothing
// enforces it, but all callers construct intervals that satisfy it.
type Interval struct {
	Start int64 `json:"start"`
	End   int64 `json:"end"`
}

// New creates an interval from Unix-second endpoints
func New(start, end int64) Interval {
	return Interval{Start: start, End: end}
}

// Duration returns the interval length in seconds
func (iv Interval) Duration() int64 {
	return iv.End - iv.Start
}

// IsEmpty reports whether the interval has zero length
func (iv Interval) IsEmpty() bool {
	return iv.Start == iv.End
}

// ContainsDate reports whether the timestamp lies within the closed range
func (iv Interval) ContainsDate(d int64) bool {
	return iv.Start <= d && d <= iv.End
}

// Contains reports whether other lies entirely within the closed range
func (iv Interval) Contains(other Interval) bool {
	return iv.Start <= other.Start && other.End <= iv.End
}

// Intersects reports whether the closed ranges touch or overlap. A shared
// boundary point counts: [0,10] and [10,20] intersect.
func (iv Interval) Intersects(other Interval) bool {
	return max64(iv.Start, other.Start) <= min64(iv.End, other.End)
}

// Intersection returns the overlapping sub-range. Ranges that are disjoint
// or touch only at a single boundary point yield ok=false, even though
// Intersects is true for the touching pair. That asymmetry is deliberate:
// Intersects drives connectivity decisions (touching segments are joined)
// while Intersection measures shared time, and a single point has none.
func (iv Interval) Intersection(other Interval) (Interval, bool) {
	lo := max64(iv.Start, other.Start)
	hi := min64(iv.End, other.End)
	if lo >= hi {
		return Interval{}, false
	}
	return Interval{Start: lo, End: hi}, true
}

// Union returns the convex span [min(starts), max(ends)], bridging any gap
// between disjoint inputs. It grows bounding ranges; it does not compute
// set union (coverage merging is a sweep over the index, not an interval op).
func (iv Interval) Union(other Interval) Interval {
	return Interval{
		Start: min64(iv.Start, other.Start),
		End:   max64(iv.End, other.End),
	}
}

// SplitAtMiddle returns the two halves of the interval, touching at the
// integer midpoint. Halves are equal for even durations, off by one
// second otherwise.
func (iv Interval) SplitAtMiddle() (Interval, Interval) {
	mid := iv.Start + (iv.End-iv.Start)/2
	return Interval{Start: iv.Start, End: mid}, Interval{Start: mid, End: iv.End}
}

// Quarters returns the four quarter-width sub-ranges produced by bisecting
// the interval twice on the time axis.
func (iv Interval) Quarters() [4]Interval {
	left, right := iv.SplitAtMiddle()
	q0, q1 := left.SplitAtMiddle()
	q2, q3 := right.SplitAtMiddle()
	return [4]Interval{q0, q1, q2, q3}
}

// Clamp limits a query range to this interval. The caller is expected to
// have established overlap first; a disjoint input collapses to a
// zero-length range at the nearer edge.
func (iv Interval) Clamp(other Interval) Interval {
	lo := max64(iv.Start, other.Start)
	hi := min64(iv.End, other.End)
	if hi < lo {
		hi = lo
	}
	return Interval{Start: lo, End: hi}
}

// Equal reports whether both endpoints match
func (iv Interval) Equal(other Interval) bool {
	return iv.Start == other.Start && iv.End == other.End
}

func (iv Interval) String() string {
	return fmt.Sprintf("[%s, %s]",
		time.Unix(iv.Start, 0).UTC().Format(time.RFC3339),
		time.Unix(iv.End, 0).UTC().Format(time.RFC3339))
}

func min64(a, b int64) int64 {
	if a < b {
		return a
	}
	return b
}

func max64(a, b int64) int64 {
	if a > b {
		return a
	}
	return b
}
