package formatter

import (
	"fmt"
	"strings"
	"time"

	"github.com/penwyp/go-time-tracker/internal/util"
)

// SummaryFormatter renders a human-readable overview of the report.
type SummaryFormatter struct{}

// NewSummaryFormatter creates a new instance of SummaryFormatter.
func NewSummaryFormatter() *SummaryFormatter {
	return &SummaryFormatter{}
}

// Format outputs the report totals, per-task breakdown and timeline coverage.
func (f *SummaryFormatter) Format(report Report) error {
	tp := util.GetTimeProvider()

	fmt.Println(strings.Repeat("=", 60))
	fmt.Println("Tracked Time Summary Report")
	fmt.Println(strings.Repeat("=", 60))
	fmt.Println()

	if len(report.Tasks) == 0 {
		fmt.Println("No segments tracked")
		fmt.Println()
		fmt.Println(strings.Repeat("=", 60))
		return nil
	}

	fmt.Printf("Generated: %s\n", tp.FormatUnix(report.GeneratedAt, "2006-01-02 15:04:05"))
	fmt.Println()

	fmt.Println("Totals:")
	fmt.Printf("  Segments:      %d\n", totalSegments(report.Tasks))
	fmt.Printf("  Interval Sum:  %s\n", util.FormatSeconds(report.TotalIntervalSum))
	fmt.Printf("  Actual Time:   %s\n", util.FormatSeconds(report.TotalActualTime))
	if overlap := report.TotalIntervalSum - report.TotalActualTime; overlap > 0 {
		fmt.Printf("  Overlapped:    %s (counted once in Actual Time)\n", util.FormatSeconds(overlap))
	}
	fmt.Println()

	fmt.Println("Per Task:")
	fmt.Println(strings.Repeat("-", 60))
	for _, t := range report.Tasks {
		fmt.Printf("\n%s:\n", t.Task)
		fmt.Printf("  Segments:      %d\n", t.Segments)
		if t.Segments > 0 {
			fmt.Printf("  First Start:   %s\n", tp.FormatUnix(t.FirstStart, dateLayout))
			fmt.Printf("  Last End:      %s\n", tp.FormatUnix(t.LastEnd, dateLayout))
		}
		fmt.Printf("  Interval Sum:  %s\n", util.FormatSeconds(t.IntervalSum))
		fmt.Printf("  Actual Time:   %s\n", util.FormatSeconds(t.ActualTime))
	}

	if len(report.Coverage) > 0 {
		fmt.Println()
		fmt.Println("Timeline Coverage:")
		var covered int64
		for _, r := range report.Coverage {
			fmt.Printf("  %s\n", formatRange(r))
			covered += r.End - r.Start
		}
		fmt.Printf("  Covered total: %s\n", util.FormatDuration(time.Duration(covered)*time.Second))
	}

	if len(report.Gaps) > 0 {
		fmt.Println()
		fmt.Println("Free Intervals:")
		for _, r := range report.Gaps {
			fmt.Printf("  %s\n", formatRange(r))
		}
	}

	fmt.Println()
	fmt.Println(strings.Repeat("=", 60))

	return nil
}
