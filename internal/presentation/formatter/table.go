package formatter

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/mattn/go-runewidth"
	"golang.org/x/term"

	"github.com/penwyp/go-time-tracker/internal/util"
)

const dateLayout = "2006-01-02 15:04"

// TableFormatter renders the report as a bordered terminal table
type TableFormatter struct {
	headers []string
}

// NewTableFormatter creates a new TableFormatter
func NewTableFormatter() *TableFormatter {
	return &TableFormatter{
		headers: []string{
			"Task", "Segments", "First Start", "Last End",
			"Interval Sum", "Actual Time",
		},
	}
}

// Format renders the report table followed by a totals row
func (f *TableFormatter) Format(report Report) error {
	rows := make([][]string, 0, len(report.Tasks))
	for _, t := range report.Tasks {
		rows = append(rows, f.taskRow(t))
	}
	totals := []string{
		"Total",
		formatCount(totalSegments(report.Tasks)),
		"", "",
		util.FormatSeconds(report.TotalIntervalSum),
		util.FormatSeconds(report.TotalActualTime),
	}

	widths := f.calculateColumnWidths(rows, totals)

	f.printBorder(widths, "top")
	f.printRow(f.headers, widths)
	f.printBorder(widths, "middle")
	for _, row := range rows {
		f.printRow(row, widths)
	}
	f.printBorder(widths, "middle")
	f.printRow(totals, widths)
	f.printBorder(widths, "bottom")

	return nil
}

func (f *TableFormatter) taskRow(t TaskReport) []string {
	tp := util.GetTimeProvider()
	first, last := "", ""
	if t.Segments > 0 {
		first = tp.FormatUnix(t.FirstStart, dateLayout)
		last = tp.FormatUnix(t.LastEnd, dateLayout)
	}
	return []string{
		t.Task,
		formatCount(t.Segments),
		first,
		last,
		util.FormatSeconds(t.IntervalSum),
		util.FormatSeconds(t.ActualTime),
	}
}

// calculateColumnWidths sizes each column to its widest cell, capping the
// task column so the table stays within the terminal
func (f *TableFormatter) calculateColumnWidths(rows [][]string, totals []string) []int {
	widths := make([]int, len(f.headers))
	for i, header := range f.headers {
		widths[i] = runewidth.StringWidth(header)
	}

	measure := func(values []string) {
		for i, value := range values {
			if w := runewidth.StringWidth(value); w > widths[i] {
				widths[i] = w
			}
		}
	}
	for _, row := range rows {
		measure(row)
	}
	measure(totals)

	// Task names can be arbitrarily long; keep the table inside the
	// terminal by capping that column
	if maxTask := f.maxTaskWidth(widths); widths[0] > maxTask {
		widths[0] = maxTask
	}
	return widths
}

func (f *TableFormatter) maxTaskWidth(widths []int) int {
	termWidth, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || termWidth < 60 {
		termWidth = 120
	}
	others := 0
	for _, w := range widths[1:] {
		others += w + 3 // cell padding and separator
	}
	maxTask := termWidth - others - 4
	if maxTask < 12 {
		maxTask = 12
	}
	return maxTask
}

func (f *TableFormatter) printBorder(widths []int, borderType string) {
	var left, middle, right string

	switch borderType {
	case "top":
		left, middle, right = "┌", "┬", "┐"
	case "middle":
		left, middle, right = "├", "┼", "┤"
	case "bottom":
		left, middle, right = "└", "┴", "┘"
	}

	fmt.Print(left)
	for i, width := range widths {
		fmt.Print(strings.Repeat("─", width+2))
		if i < len(widths)-1 {
			fmt.Print(middle)
		}
	}
	fmt.Println(right)
}

func (f *TableFormatter) printRow(values []string, widths []int) {
	fmt.Print("│")
	for i, value := range values {
		value = runewidth.Truncate(value, widths[i], "…")
		if i == 0 {
			// Task column is left-aligned, the rest right-aligned
			fmt.Printf(" %s │", padRight(value, widths[i]))
		} else {
			fmt.Printf(" %s │", padLeft(value, widths[i]))
		}
	}
	fmt.Println()
}

func padRight(s string, width int) string {
	if gap := width - runewidth.StringWidth(s); gap > 0 {
		return s + strings.Repeat(" ", gap)
	}
	return s
}

func padLeft(s string, width int) string {
	if gap := width - runewidth.StringWidth(s); gap > 0 {
		return strings.Repeat(" ", gap) + s
	}
	return s
}

func formatCount(n int) string {
	return fmt.Sprintf("%d", n)
}

func totalSegments(tasks []TaskReport) int {
	total := 0
	for _, t := range tasks {
		total += t.Segments
	}
	return total
}

func formatRange(r Range) string {
	tp := util.GetTimeProvider()
	return fmt.Sprintf("%s → %s (%s)",
		tp.FormatUnix(r.Start, dateLayout),
		tp.FormatUnix(r.End, dateLayout),
		util.FormatDuration(time.Duration(r.End-r.Start)*time.Second))
}
