package timeline

import (
	"github.com/penwyp/go-time-tracker/internal/core/segment"
)

// Observer receives change notifications from a Manager. Every callback is
// invoked synchronously, exactly once per logical mutation, before the
// mutating call returns; callers must not assume anything beyond that.
// Single-segment mutations arrive as one-element slices.
type Observer interface {
	SegmentsAdded(segments []segment.Segment)
	SegmentsRemoved(segments []segment.Segment)
	SegmentUpdated(s segment.Segment)
}

// ObserverFuncs adapts plain functions to the Observer interface; nil
// functions are skipped.
type ObserverFuncs struct {
	Added   func(segments []segment.Segment)
	Removed func(segments []segment.Segment)
	Updated func(s segment.Segment)
}

func (o ObserverFuncs) SegmentsAdded(segments []segment.Segment) {
	if o.Added != nil {
		o.Added(segments)
	}
}

func (o ObserverFuncs) SegmentsRemoved(segments []segment.Segment) {
	if o.Removed != nil {
		o.Removed(segments)
	}
}

func (o ObserverFuncs) SegmentUpdated(s segment.Segment) {
	if o.Updated != nil {
		o.Updated(s)
	}
}
