package main

import (
	"fmt"

	"github.com/fwojciec/servicedoc"
)

// Run executes the roster set command.
func (c *RosterSetCmd) Run(deps *Dependencies) error {
	if err := deps.Personnel.ReplaceRoster(deps.Ctx, c.Names); err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", servicedoc.ErrorMessage(err))
		return err
	}

	fmt.Fprintf(deps.Stdout, "Saved %d names\n", len(servicedoc.NormalizeRoster(c.Names)))
	return nil
}

// Run executes the roster show command.
func (c *RosterShowCmd) Run(deps *Dependencies) error {
	names, err := deps.Personnel.Roster(deps.Ctx)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", servicedoc.ErrorMessage(err))
		return err
	}

	if len(names) == 0 {
		fmt.Fprintln(deps.Stdout, "Roster is empty. Use 'servicedoc roster set' to add names.")
		return nil
	}

	for i, name := range names {
		fmt.Fprintf(deps.Stdout, "%d. %s\n", i+1, name)
	}
	return nil
}
