package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/penwyp/go-time-tracker/internal/data/store"
	"github.com/penwyp/go-time-tracker/internal/data/watcher"
	"github.com/penwyp/go-time-tracker/internal/presentation/formatter"
	"github.com/penwyp/go-time-tracker/internal/util"
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Re-render the report whenever the snapshot changes",
	Long: `Watches the snapshot file and re-renders the duration report after every
change. Useful next to an editor or another process writing segments.
Stop with Ctrl-C.`,
	RunE: runWatch,
}

func init() {
	rootCmd.AddCommand(watchCmd)

	watchCmd.Flags().StringVarP(&outputFormat, "output", "o", "summary",
		"Output format (table, json, csv, summary)")
	watchCmd.Flags().StringVarP(&taskFilter, "task", "t", "",
		"Limit the report to one task")
}

func runWatch(cmd *cobra.Command, args []string) error {
	if err := setup(); err != nil {
		return err
	}

	path := expandPath(snapshotFile)
	f, err := formatter.NewFormatter(outputFormat)
	if err != nil {
		return err
	}

	render := func() error {
		manager, err := store.NewStore(path).LoadManager()
		if err != nil {
			return err
		}
		return f.Format(buildReport(manager, taskFilter))
	}

	if err := render(); err != nil {
		return err
	}

	sw, err := watcher.NewSnapshotWatcher([]string{path})
	if err != nil {
		return err
	}
	defer sw.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	util.LogInfof("watching %s", path)
	for {
		select {
		case event := <-sw.Events():
			util.LogDebugf("snapshot %s changed (%s), re-rendering", event.Path, event.Operation)
			fmt.Println()
			if err := render(); err != nil {
				// Half-written snapshots show up as decode errors; keep
				// watching, the next write usually repairs them
				util.LogWarnf("reload failed: %v", err)
			}
		case <-ctx.Done():
			return nil
		}
	}
}
