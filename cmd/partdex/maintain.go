package main

import (
	"fmt"

	"github.com/fwojciec/partdex"
)

// Run executes the maintain command.
func (c *MaintainCmd) Run(deps *Dependencies) error {
	stale, err := deps.Components.MarkStaleOutOfStock(deps.Ctx, c.StaleAge)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", partdex.ErrorMessage(err))
		return err
	}
	fmt.Fprintf(deps.Stdout, "Marked %d stale components out of stock\n", stale)

	compacted, err := deps.Components.CompactAncient(deps.Ctx, c.CompactAge)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", partdex.ErrorMessage(err))
		return err
	}
	fmt.Fprintf(deps.Stdout, "Compacted %d ancient components\n", compacted)

	if c.Repair {
		repaired, err := deps.Components.RepairDescriptions(deps.Ctx)
		if err != nil {
			fmt.Fprintf(deps.Stderr, "error: %s\n", partdex.ErrorMessage(err))
			return err
		}
		fmt.Fprintf(deps.Stdout, "Repaired %d descriptions\n", repaired)
	}

	return nil
}
