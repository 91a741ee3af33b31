package main

import "fmt"

// Run executes the categories command.
func (c *CategoriesCmd) Run(deps *Dependencies) error {
	names := deps.Cache.Categories(deps.Ctx)

	if len(names) == 0 {
		fmt.Fprintln(deps.Stdout, "No categories found. Use 'canon sync <source>' to distribute standards first.")
		return nil
	}

	for _, name := range names {
		fmt.Fprintln(deps.Stdout, name)
	}

	return nil
}
