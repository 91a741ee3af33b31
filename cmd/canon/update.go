package main

import (
	"fmt"

	"github.com/canonbase/canon"
	"github.com/canonbase/canon/syncer"
)

// Run executes the update command.
func (c *UpdateCmd) Run(deps *Dependencies) error {
	progress := func(event syncer.ProgressEvent) {
		switch event.Type {
		case syncer.ProgressCompleted:
			fmt.Fprintf(deps.Stdout, "  updated %s\n", event.Path)
		case syncer.ProgressFailed:
			fmt.Fprintf(deps.Stderr, "  skip %s: %v\n", event.Path, event.Error)
		}
	}

	result, err := deps.Engine.Update(deps.Ctx, c.Force, progress)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", canon.ErrorMessage(err))
		return err
	}

	if result.Updated == 0 && result.Failed == 0 {
		fmt.Fprintf(deps.Stdout, "Everything up to date (%d files checked)\n", result.Skipped)
		return nil
	}

	fmt.Fprintf(deps.Stdout, "Updated %d documents (%d skipped)\n", result.Updated, result.Skipped)
	if result.Failed > 0 {
		fmt.Fprintf(deps.Stdout, "  failed %d documents\n", result.Failed)
	}

	return nil
}
