package commands

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/penwyp/go-time-tracker/internal/core/interval"
	"github.com/penwyp/go-time-tracker/internal/core/timeline"
)

func at(hour, min int) int64 {
	return time.Date(2024, 1, 15, hour, min, 0, 0, time.UTC).Unix()
}

func TestBuildReport(t *testing.T) {
	m := timeline.NewManager()
	m.CreateSegment("backend", interval.New(at(9, 0), at(10, 30)))
	m.CreateSegment("backend", interval.New(at(10, 0), at(11, 0)))
	m.CreateSegment("frontend", interval.New(at(13, 0), at(14, 0)))

	report := buildReport(m, "")

	require.Len(t, report.Tasks, 2)
	// Tasks come out sorted
	assert.Equal(t, "backend", report.Tasks[0].Task)
	assert.Equal(t, "frontend", report.Tasks[1].Task)

	backend := report.Tasks[0]
	assert.Equal(t, 2, backend.Segments)
	assert.Equal(t, at(9, 0), backend.FirstStart)
	assert.Equal(t, at(11, 0), backend.LastEnd)
	assert.Equal(t, int64(2*3600+1800), backend.IntervalSum) // 2.5h naive
	assert.Equal(t, int64(2*3600), backend.ActualTime)       // 2h deduplicated

	assert.Equal(t, report.Tasks[0].IntervalSum+report.Tasks[1].IntervalSum, report.TotalIntervalSum)
	assert.Equal(t, int64(3*3600), report.TotalActualTime)

	// One covered block per activity cluster, one gap between them
	require.Len(t, report.Coverage, 2)
	require.Len(t, report.Gaps, 1)
	assert.Equal(t, at(11, 0), report.Gaps[0].Start)
	assert.Equal(t, at(13, 0), report.Gaps[0].End)
}

func TestBuildReportTaskFilter(t *testing.T) {
	m := timeline.NewManager()
	m.CreateSegment("backend", interval.New(at(9, 0), at(10, 0)))
	m.CreateSegment("frontend", interval.New(at(13, 0), at(14, 0)))

	report := buildReport(m, "backend")

	require.Len(t, report.Tasks, 1)
	assert.Equal(t, "backend", report.Tasks[0].Task)
	assert.Equal(t, int64(3600), report.TotalIntervalSum)
	assert.Equal(t, int64(3600), report.TotalActualTime)
}

func TestBuildReportUnknownTask(t *testing.T) {
	m := timeline.NewManager()
	m.CreateSegment("backend", interval.New(at(9, 0), at(10, 0)))

	report := buildReport(m, "nope")

	require.Len(t, report.Tasks, 1)
	assert.Equal(t, 0, report.Tasks[0].Segments)
	assert.Zero(t, report.Tasks[0].IntervalSum)
}

func TestBuildReportEmptyManager(t *testing.T) {
	report := buildReport(timeline.NewManager(), "")
	assert.Empty(t, report.Tasks)
	assert.Empty(t, report.Coverage)
	assert.Empty(t, report.Gaps)
	assert.Zero(t, report.TotalIntervalSum)
}

func TestExpandPath(t *testing.T) {
	assert.NotContains(t, expandPath("~/foo/bar"), "~")
	abs := expandPath("/tmp/segments.json")
	assert.Equal(t, "/tmp/segments.json", abs)
}
