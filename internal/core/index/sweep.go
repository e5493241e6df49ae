package index

import (
	"github.com/penwyp/go-time-tracker/internal/core/interval"
)

// MergedCoverageRanges computes the minimal set of disjoint, sorted ranges
// covering every stored non-empty segment. Instead of sorting all segments
// globally, the sweep is tree-guided: starting from the leftmost segment
// it repeatedly extends the current window by hopping to the longest
// segment still covering the window's end, records the window once no
// segment extends it, then jumps to the next segment via
// ClosestStartingAfter. Cost is O(segments x tree depth).
//
// Zero-length marker segments contribute no coverage and are skipped.
func (x *Index) MergedCoverageRanges() []interval.Interval {
	if x.root == nil || x.root.count == 0 {
		return nil
	}

	cur, ok := x.ClosestStartingAfter(x.root.bound.Start, true)
	if !ok {
		return nil
	}

	var out []interval.Interval
	for {
		win := cur.Range
		for {
			next, ok := x.LongestSegmentCovering(win.End)
			if !ok {
				break
			}
			win.End = next.Range.End
		}
		out = append(out, win)

		// A non-empty segment starting exactly at win.End would have
		// extended the window above, so this hop strictly advances
		cur, ok = x.ClosestStartingAfter(win.End, true)
		if !ok {
			return out
		}
	}
}

// GapsBetweenCoverage returns the disjoint ranges separating consecutive
// merged coverage ranges: the stored timeline's free intervals.
func (x *Index) GapsBetweenCoverage() []interval.Interval {
	ranges := x.MergedCoverageRanges()
	if len(ranges) < 2 {
		return nil
	}
	gaps := make([]interval.Interval, 0, len(ranges)-1)
	for i := 1; i < len(ranges); i++ {
		gaps = append(gaps, interval.New(ranges[i-1].End, ranges[i].Start))
	}
	return gaps
}

// CoverageDuration returns the summed length of the merged coverage
// ranges, counting overlapped time exactly once.
func (x *Index) CoverageDuration() int64 {
	var total int64
	for _, r := range x.MergedCoverageRanges() {
		total += r.Duration()
	}
	return total
}
