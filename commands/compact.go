package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/penwyp/go-time-tracker/internal/core/segment"
	"github.com/penwyp/go-time-tracker/internal/data/store"
	"github.com/penwyp/go-time-tracker/internal/util"
)

var compactDryRun bool

var compactCmd = &cobra.Command{
	Use:   "compact",
	Short: "Join connected segments and rewrite the snapshot",
	Long: `Merges every chain of overlapping or exactly-touching segments of the
same task into one segment spanning the chain, then rewrites the snapshot.
Reported durations are unchanged by this operation; it only reduces the
segment count.`,
	RunE: runCompact,
}

func init() {
	rootCmd.AddCommand(compactCmd)

	compactCmd.Flags().StringVarP(&taskFilter, "task", "t", "",
		"Only compact segments of this task")
	compactCmd.Flags().BoolVarP(&compactDryRun, "dry-run", "n", false,
		"Report what would be merged without writing")
}

func runCompact(cmd *cobra.Command, args []string) error {
	if err := setup(); err != nil {
		return err
	}

	st := store.NewStore(expandPath(snapshotFile))
	manager, err := st.LoadManager()
	if err != nil {
		return err
	}

	tasks := manager.TaskIDs()
	if taskFilter != "" {
		tasks = []segment.TaskID{segment.TaskID(taskFilter)}
	}

	totalSubsumed := 0
	for _, taskID := range tasks {
		subsumed := manager.JoinConnectedSegments(taskID)
		if len(subsumed) > 0 {
			fmt.Printf("%s: merged away %d segment(s)\n", taskID, len(subsumed))
			totalSubsumed += len(subsumed)
		}
	}

	if totalSubsumed == 0 {
		fmt.Println("Nothing to compact")
		return nil
	}
	if compactDryRun {
		util.LogInfof("compact dry run: %d segments would be removed", totalSubsumed)
		fmt.Printf("Dry run: snapshot left untouched, %d segment(s) would be removed\n", totalSubsumed)
		return nil
	}

	manager.CompactBound()
	if err := st.SaveManager(manager); err != nil {
		return err
	}
	fmt.Printf("Compacted: %d segment(s) removed, %d remaining\n", totalSubsumed, manager.SegmentCount())
	return nil
}
