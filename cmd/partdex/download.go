package main

import (
	"fmt"
	"path/filepath"

	"github.com/fwojciec/partdex"
	pdxhttp "github.com/fwojciec/partdex/http"
)

// Run executes the download command.
func (c *DownloadCmd) Run(deps *Dependencies) error {
	if fetcher, ok := deps.Fetcher.(*pdxhttp.ChunkDownloader); ok {
		fetcher.Concurrency = c.Concurrency
	}

	count, err := deps.Fetcher.Download(deps.Ctx, c.URL, c.Dir)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", partdex.ErrorMessage(err))
		return err
	}
	fmt.Fprintf(deps.Stdout, "Downloaded %d chunks\n", count)

	archiveBase := filepath.Base(c.Output) + ".zip"
	if err := deps.Archiver.Reassemble(c.Dir, archiveBase, c.Output, c.KeepChunks); err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", partdex.ErrorMessage(err))
		return err
	}

	fmt.Fprintf(deps.Stdout, "Reassembled %s\n", c.Output)
	return nil
}
