package formatter

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewFormatter(t *testing.T) {
	tests := []struct {
		name    string
		format  string
		wantErr bool
	}{
		{name: "table", format: "table"},
		{name: "csv", format: "csv"},
		{name: "json", format: "json"},
		{name: "summary", format: "summary"},
		{name: "unknown", format: "xml", wantErr: true},
		{name: "empty", format: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f, err := NewFormatter(tt.format)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.NotNil(t, f)
		})
	}
}

func sampleReport() Report {
	return Report{
		GeneratedAt: 1705312800,
		Tasks: []TaskReport{
			{
				Task:        "backend",
				Segments:    3,
				FirstStart:  1705305600,
				LastEnd:     1705316400,
				IntervalSum: 10800,
				ActualTime:  9000,
			},
			{
				Task:        "frontend",
				Segments:    1,
				FirstStart:  1705308000,
				LastEnd:     1705311600,
				IntervalSum: 3600,
				ActualTime:  3600,
			},
		},
		TotalIntervalSum: 14400,
		TotalActualTime:  12600,
		Coverage: []Range{
			{Start: 1705305600, End: 1705316400},
		},
	}
}

// Formatters write to stdout; these are smoke tests asserting the render
// path doesn't fail on a representative report
func TestFormattersRenderWithoutError(t *testing.T) {
	report := sampleReport()

	for _, format := range []string{"table", "csv", "json", "summary"} {
		t.Run(format, func(t *testing.T) {
			f, err := NewFormatter(format)
			require.NoError(t, err)
			assert.NoError(t, f.Format(report))
		})
	}
}

func TestFormattersRenderEmptyReport(t *testing.T) {
	for _, format := range []string{"table", "csv", "json", "summary"} {
		t.Run(format, func(t *testing.T) {
			f, err := NewFormatter(format)
			require.NoError(t, err)
			assert.NoError(t, f.Format(Report{}))
		})
	}
}

func TestPadding(t *testing.T) {
	assert.Equal(t, "ab   ", padRight("ab", 5))
	assert.Equal(t, "   ab", padLeft("ab", 5))
	assert.Equal(t, "abcde", padRight("abcde", 5))
	assert.Equal(t, "abcde", padLeft("abcde", 3))
}

func TestTotalSegments(t *testing.T) {
	assert.Equal(t, 4, totalSegments(sampleReport().Tasks))
	assert.Equal(t, 0, totalSegments(nil))
}
