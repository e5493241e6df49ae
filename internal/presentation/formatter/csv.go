package formatter

import (
	"encoding/csv"
	"fmt"
	"os"

	"github.com/penwyp/go-time-tracker/internal/util"
)

type CSVFormatter struct{}

func NewCSVFormatter() *CSVFormatter {
	return &CSVFormatter{}
}

func (f *CSVFormatter) Format(report Report) error {
	w := csv.NewWriter(os.Stdout)
	defer w.Flush()

	headers := []string{
		"Task", "Segments", "First Start", "Last End",
		"Interval Sum (s)", "Actual Time (s)",
	}
	if err := w.Write(headers); err != nil {
		return err
	}

	tp := util.GetTimeProvider()
	for _, t := range report.Tasks {
		first, last := "", ""
		if t.Segments > 0 {
			first = tp.FormatUnix(t.FirstStart, dateLayout)
			last = tp.FormatUnix(t.LastEnd, dateLayout)
		}
		record := []string{
			t.Task,
			fmt.Sprintf("%d", t.Segments),
			first,
			last,
			fmt.Sprintf("%d", t.IntervalSum),
			fmt.Sprintf("%d", t.ActualTime),
		}
		if err := w.Write(record); err != nil {
			return err
		}
	}

	totals := []string{
		"Total",
		fmt.Sprintf("%d", totalSegments(report.Tasks)),
		"", "",
		fmt.Sprintf("%d", report.TotalIntervalSum),
		fmt.Sprintf("%d", report.TotalActualTime),
	}
	return w.Write(totals)
}
