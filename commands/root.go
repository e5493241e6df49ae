package commands

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/penwyp/go-time-tracker/internal/core/segment"
	"github.com/penwyp/go-time-tracker/internal/core/timeline"
	"github.com/penwyp/go-time-tracker/internal/data/store"
	"github.com/penwyp/go-time-tracker/internal/presentation/formatter"
	"github.com/penwyp/go-time-tracker/internal/util"
)

var (
	// Logging related
	debug bool

	// Data path
	snapshotFile string

	// Output related
	outputFormat string
	timezone     string

	// Filtering
	taskFilter string

	rootCmd = &cobra.Command{
		Use:   "go-time-tracker [flags]",
		Short: "Task time tracking and reporting tool",
		Long: `go-time-tracker keeps an overlap-aware index of tracked time segments and
reports per-task durations from it.

Each segment is a time range booked against a task. Segments may overlap;
reports show both the naive interval sum (overlaps double-counted) and the
actual time (overlapped time counted once).

Examples:
  go-time-tracker                                  # Report over the default snapshot
  go-time-tracker --file work.json --task backend  # Report one task
  go-time-tracker --output json                    # Machine-readable report
  go-time-tracker gaps                             # Show free intervals
  go-time-tracker compact                          # Join connected segments
  go-time-tracker watch                            # Re-report on snapshot changes`,
		RunE: runReport,
	}
)

const (
	defaultLogFile      = "~/.go-time-tracker/logs/app.log"
	defaultSnapshotFile = "~/.go-time-tracker/segments.json"
)

func init() {
	rootCmd.PersistentFlags().StringVarP(&snapshotFile, "file", "f", defaultSnapshotFile,
		"Segment snapshot file path")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false,
		"Enable debug mode")
	rootCmd.PersistentFlags().StringVar(&timezone, "timezone", "Local",
		"Timezone setting (e.g., Asia/Shanghai, UTC)")

	rootCmd.Flags().StringVarP(&outputFormat, "output", "o", "table",
		"Output format (table, json, csv, summary)")
	rootCmd.Flags().StringVarP(&taskFilter, "task", "t", "",
		"Limit the report to one task")
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

func runReport(cmd *cobra.Command, args []string) error {
	if err := setup(); err != nil {
		return err
	}

	manager, err := store.NewStore(expandPath(snapshotFile)).LoadManager()
	if err != nil {
		return err
	}

	f, err := formatter.NewFormatter(outputFormat)
	if err != nil {
		return err
	}
	return f.Format(buildReport(manager, taskFilter))
}

// setup initializes logging and the time provider from the shared flags
func setup() error {
	logLevel := "info"
	if debug {
		logLevel = "debug"
	}
	logFile := expandPath(defaultLogFile)
	if err := util.InitLogger(logLevel, logFile, debug); err != nil {
		return err
	}
	return util.InitializeTimeProvider(timezone)
}

// buildReport aggregates the manager state into presentation rows
func buildReport(m *timeline.Manager, taskFilter string) formatter.Report {
	report := formatter.Report{
		GeneratedAt: util.GetTimeProvider().Now().Unix(),
	}

	taskIDs := m.TaskIDs()
	if taskFilter != "" {
		taskIDs = []segment.TaskID{segment.TaskID(taskFilter)}
	}

	for _, taskID := range taskIDs {
		segs := m.SegmentsForTask(taskID)
		row := formatter.TaskReport{
			Task:        string(taskID),
			Segments:    len(segs),
			IntervalSum: m.TotalTimeForTask(taskID, true),
			ActualTime:  m.TotalTimeForTask(taskID, false),
		}
		if len(segs) > 0 {
			row.FirstStart = segs[0].Range.Start
			row.LastEnd = segs[0].Range.End
			for _, s := range segs {
				if s.Range.End > row.LastEnd {
					row.LastEnd = s.Range.End
				}
			}
		}
		report.Tasks = append(report.Tasks, row)
		report.TotalIntervalSum += row.IntervalSum
	}

	if taskFilter == "" {
		report.TotalActualTime = m.TotalTime(false)
	} else {
		report.TotalActualTime = m.TotalTimeForTask(segment.TaskID(taskFilter), false)
	}

	for _, r := range m.MergedCoverageRanges() {
		report.Coverage = append(report.Coverage, formatter.Range{Start: r.Start, End: r.End})
	}
	for _, r := range m.GapsBetweenCoverage() {
		report.Gaps = append(report.Gaps, formatter.Range{Start: r.Start, End: r.End})
	}
	return report
}

// Helper functions

func expandPath(path string) string {
	if strings.HasPrefix(path, "~/") {
		home, _ := os.UserHomeDir()
		path = filepath.Join(home, path[2:])
	}
	absPath, err := filepath.Abs(path)
	if err != nil {
		return path
	}
	return absPath
}
