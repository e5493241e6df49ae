package segment

import (
	"fmt"

	"github.com/penwyp/go-time-tracker/internal/core/interval"
)

// ID uniquely identifies a segment within one timeline manager instance
type ID int64

// TaskID identifies the task a segment is booked against; several segments
// may share one task
type TaskID string

// Segment represents one tracked slice of time: an identified interval
// tagged with its owning task. Segments are value objects; all mutation
// happens by replacing the stored segment for an id, never in place.
type Segment struct {
	ID     ID                `json:"id"`
	TaskID TaskID            `json:"task_id"`
	Range  interval.Interval `json:"range"`
}

// New creates a segment value
func New(id ID, taskID TaskID, rng interval.Interval) Segment {
	return Segment{ID: id, TaskID: taskID, Range: rng}
}

// Duration returns the segment length in seconds
func (s Segment) Duration() int64 {
	return s.Range.Duration()
}

// IsEmpty reports whether the segment is a zero-length marker
func (s Segment) IsEmpty() bool {
	return s.Range.IsEmpty()
}

func (s Segment) String() string {
	return fmt.Sprintf("segment %d task=%s range=%s", s.ID, s.TaskID, s.Range)
}
