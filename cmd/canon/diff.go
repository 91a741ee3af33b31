package main

import (
	"fmt"

	"github.com/canonbase/canon"
)

// Run executes the diff command.
func (c *DiffCmd) Run(deps *Dependencies) error {
	diff, err := deps.Engine.Diff(deps.Ctx, c.Path)
	if err != nil {
		if canon.ErrorCode(err) == canon.ENOTFOUND {
			fmt.Fprintf(deps.Stderr, "error: %q is not a synced file. Use 'canon status' to see tracked files.\n", c.Path)
			return err
		}
		fmt.Fprintf(deps.Stderr, "error: %s\n", canon.ErrorMessage(err))
		return err
	}

	if diff == "" {
		fmt.Fprintf(deps.Stdout, "No changes in %s\n", c.Path)
		return nil
	}

	fmt.Fprint(deps.Stdout, diff)
	return nil
}
