package main

import (
	"context"
	"io"
	"log/slog"
	"time"

	"github.com/fwojciec/partdex"
	"github.com/fwojciec/partdex/sqlite"
	"github.com/fwojciec/partdex/zip"
)

// Dependencies holds all services and configuration for command execution.
type Dependencies struct {
	Ctx        context.Context
	Stdout     io.Writer
	Stderr     io.Writer
	Logger     *slog.Logger
	DB         *sqlite.DB
	Components partdex.ComponentService
	Client     partdex.CatalogClient
	Progress   partdex.ProgressReporter
	Archiver   *zip.Archiver
	Fetcher    partdex.ChunkFetcher
}

// CLI defines the command-line interface structure for Kong.
type CLI struct {
	Ingest   IngestCmd   `cmd:"" help:"Refresh the component cache from the vendor catalog"`
	Build    BuildCmd    `cmd:"" help:"Build the searchable catalog artifact from the cache"`
	Download DownloadCmd `cmd:"" help:"Download and reassemble a published catalog artifact"`
	Maintain MaintainCmd `cmd:"" help:"Run cache maintenance sweeps"`
}

// IngestCmd is the "ingest" subcommand.
type IngestCmd struct {
	All           bool `help:"Include out-of-stock parts"`
	CollapseLimit int  `default:"100000" help:"Merge a primary category's subcategories below this combined count"`
}

// BuildCmd is the "build" subcommand.
type BuildCmd struct {
	Output           string `short:"o" default:"parts-fts5.db" help:"Artifact output path"`
	BatchSize        int    `default:"100000" help:"Components streamed per batch"`
	NoArchive        bool   `help:"Skip compressing and chunking the artifact"`
	KeepIntermediate bool   `short:"k" help:"Keep the uncompressed artifact after archiving"`
}

// DownloadCmd is the "download" subcommand.
type DownloadCmd struct {
	URL         string `arg:"" help:"Base URL of the published chunk set"`
	Output      string `short:"o" default:"parts-fts5.db" help:"Reassembled artifact path"`
	Dir         string `short:"d" default:"." help:"Directory for the downloaded chunks"`
	KeepChunks  bool   `short:"k" help:"Keep chunk files after reassembly"`
	Concurrency int    `short:"c" default:"4" help:"Concurrent chunk download limit"`
}

// MaintainCmd is the "maintain" subcommand.
type MaintainCmd struct {
	StaleAge   time.Duration `default:"168h" help:"Zero stock of parts not refreshed within this age"`
	CompactAge time.Duration `default:"8760h" help:"Clear bulk fields of parts out of stock for this long"`
	Repair     bool          `help:"Backfill empty descriptions from the extra attribute bag"`
}
