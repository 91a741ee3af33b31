package main

import (
	"fmt"

	"github.com/canonbase/canon"
)

// Run executes the status command.
func (c *StatusCmd) Run(deps *Dependencies) error {
	report, err := deps.Engine.Status(deps.Ctx)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", canon.ErrorMessage(err))
		return err
	}

	synced := report.Unchanged + report.Modified + report.Missing
	if synced == 0 && report.Untracked == 0 {
		fmt.Fprintln(deps.Stdout, "Nothing synced yet. Use 'canon sync <source>' to distribute standards first.")
		return nil
	}

	if report.Modified == 0 && report.Missing == 0 && report.Untracked == 0 {
		fmt.Fprintf(deps.Stdout, "All %d synced files match their baselines.\n", synced)
		return nil
	}

	fmt.Fprintf(deps.Stdout, "%d synced files: %d unchanged, %d modified, %d missing; %d untracked\n",
		synced, report.Unchanged, report.Modified, report.Missing, report.Untracked)
	for _, drift := range report.Drifts {
		if drift.State == canon.DriftUnchanged {
			continue
		}
		fmt.Fprintf(deps.Stdout, "  %-9s  %s\n", drift.State, drift.RelPath)
	}

	return nil
}
