package formatter

import "fmt"

// Range is a presentation copy of a coverage or gap interval
type Range struct {
	Start int64 `json:"start"`
	End   int64 `json:"end"`
}

// TaskReport aggregates one task's stored segments
type TaskReport struct {
	Task        string `json:"task"`
	Segments    int    `json:"segments"`
	FirstStart  int64  `json:"first_start"`
	LastEnd     int64  `json:"last_end"`
	IntervalSum int64  `json:"interval_sum_seconds"` // naive sum, overlaps double-counted
	ActualTime  int64  `json:"actual_time_seconds"`  // overlapped time counted once
}

// Report is the full duration report handed to a formatter
type Report struct {
	GeneratedAt      int64        `json:"generated_at"`
	Tasks            []TaskReport `json:"tasks"`
	TotalIntervalSum int64        `json:"total_interval_sum_seconds"`
	TotalActualTime  int64        `json:"total_actual_time_seconds"`
	Coverage         []Range      `json:"coverage,omitempty"`
	Gaps             []Range      `json:"gaps,omitempty"`
}

// Formatter renders a report to stdout
type Formatter interface {
	Format(report Report) error
}

// NewFormatter returns the formatter for an output format name
func NewFormatter(format string) (Formatter, error) {
	switch format {
	case "table":
		return NewTableFormatter(), nil
	case "csv":
		return NewCSVFormatter(), nil
	case "json":
		return NewJSONFormatter(), nil
	case "summary":
		return NewSummaryFormatter(), nil
	default:
		return nil, fmt.Errorf("unknown output format: %s (expected table, csv, json or summary)", format)
	}
}
