package main

import (
	"fmt"

	"github.com/fwojciec/partdex"
	"github.com/fwojciec/partdex/ingest"
)

// Run executes the ingest command.
func (c *IngestCmd) Run(deps *Dependencies) error {
	ing := &ingest.Ingester{
		Client:        deps.Client,
		Components:    deps.Components,
		CollapseLimit: c.CollapseLimit,
		InStockOnly:   !c.All,
		Progress:      deps.Progress,
	}

	result, err := ing.Run(deps.Ctx)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", partdex.ErrorMessage(err))
		return err
	}

	fmt.Fprintf(deps.Stdout, "Ingested %d components across %d categories\n",
		result.Components, result.Categories)
	return nil
}
