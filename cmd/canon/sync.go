package main

import (
	"fmt"

	"github.com/canonbase/canon"
	"github.com/canonbase/canon/syncer"
)

// Run executes the sync command.
func (c *SyncCmd) Run(deps *Dependencies) error {
	progress := func(event syncer.ProgressEvent) {
		switch event.Type {
		case syncer.ProgressStarted:
			fmt.Fprintf(deps.Stdout, "Syncing %d documents from %s\n", event.Total, c.Source)
		case syncer.ProgressSkipped:
			fmt.Fprintf(deps.Stderr, "  keep %s: locally modified\n", event.Path)
		case syncer.ProgressFailed:
			fmt.Fprintf(deps.Stderr, "  skip %s: %v\n", event.Path, event.Error)
		}
	}

	result, err := deps.Engine.Sync(deps.Ctx, c.Force, progress)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", canon.ErrorMessage(err))
		return err
	}

	fmt.Fprintf(deps.Stdout, "Synced %d documents (%s)\n", result.Synced, syncer.FormatBytes(result.Bytes))
	if result.Skipped > 0 {
		fmt.Fprintf(deps.Stdout, "  kept %d locally modified files (use --force to overwrite)\n", result.Skipped)
	}
	if result.Pruned > 0 {
		fmt.Fprintf(deps.Stdout, "  pruned %d stale files\n", result.Pruned)
	}
	if result.Failed > 0 {
		fmt.Fprintf(deps.Stdout, "  failed %d documents\n", result.Failed)
	}

	return nil
}
