package commands

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/penwyp/go-time-tracker/internal/data/store"
	"github.com/penwyp/go-time-tracker/internal/util"
)

var gapsAfter string

var gapsCmd = &cobra.Command{
	Use:   "gaps",
	Short: "Show free intervals between tracked time",
	Long: `Lists the disjoint ranges separating the merged coverage of all stored
segments: the timeline's free intervals. With --after, only gaps starting
on or after the given time (RFC 3339) are shown.`,
	RunE: runGaps,
}

func init() {
	rootCmd.AddCommand(gapsCmd)

	gapsCmd.Flags().StringVar(&gapsAfter, "after", "",
		"Only show gaps starting on or after this time (RFC 3339)")
}

func runGaps(cmd *cobra.Command, args []string) error {
	if err := setup(); err != nil {
		return err
	}

	manager, err := store.NewStore(expandPath(snapshotFile)).LoadManager()
	if err != nil {
		return err
	}

	var after int64
	if gapsAfter != "" {
		t, err := time.Parse(time.RFC3339, gapsAfter)
		if err != nil {
			return fmt.Errorf("invalid --after value %q: %w", gapsAfter, err)
		}
		after = t.Unix()
	}

	tp := util.GetTimeProvider()
	count := 0
	for _, gap := range manager.GapsBetweenCoverage() {
		if gap.Start < after {
			continue
		}
		fmt.Printf("%s .. %s  (%s)\n",
			tp.FormatUnix(gap.Start, "2006-01-02 15:04"),
			tp.FormatUnix(gap.End, "2006-01-02 15:04"),
			util.FormatDuration(time.Duration(gap.Duration())*time.Second))
		count++
	}
	if count == 0 {
		fmt.Println("No free intervals")
	}
	return nil
}
