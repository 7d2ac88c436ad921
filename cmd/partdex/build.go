package main

import (
	"fmt"

	"github.com/fwojciec/partdex"
	"github.com/fwojciec/partdex/build"
	"github.com/fwojciec/partdex/sqlite"
)

// Run executes the build command.
func (c *BuildCmd) Run(deps *Dependencies) error {
	store := sqlite.NewCatalogStore(c.Output)
	if err := store.Open(); err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", partdex.ErrorMessage(err))
		return err
	}

	builder := &build.Builder{
		Components:       deps.Components,
		Store:            store,
		BatchSize:        c.BatchSize,
		KeepIntermediate: c.KeepIntermediate,
		Progress:         deps.Progress,
		OnRecordError: func(id int64, err error) {
			deps.Logger.Warn("malformed price data",
				"part", partdex.FormatLCSC(id),
				"err", err,
			)
		},
	}
	if !c.NoArchive {
		builder.Archiver = deps.Archiver
	}

	result, err := builder.Run(deps.Ctx)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", partdex.ErrorMessage(err))
		return err
	}

	fmt.Fprintf(deps.Stdout, "Built catalog with %d parts\n", result.Parts)
	fmt.Fprintf(deps.Stdout, "Price tiers: %d total, %d deleted, %d duplicates merged\n",
		result.Stats.Total, result.Stats.Deleted, result.Stats.Duplicates)
	if result.Chunks > 0 {
		fmt.Fprintf(deps.Stdout, "Wrote %d chunks\n", result.Chunks)
	}
	if result.ArtifactPath != "" {
		fmt.Fprintf(deps.Stdout, "Artifact: %s\n", result.ArtifactPath)
	}
	return nil
}
