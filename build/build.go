// Package build implements the catalog build pipeline: stream the component
// cache in ordered batches, translate each component into its searchable
// row, finalize the full-text artifact and hand it to the archiver.
package build

import (
	"context"
	"os"
	"path/filepath"
	"time"

	"github.com/fwojciec/partdex"
)

// DefaultBatchSize is the number of components streamed per batch.
const DefaultBatchSize = 100_000

// Result summarizes one catalog build.
type Result struct {
	// Parts is the number of rows written to the artifact.
	Parts int

	// Stats aggregates the price tier reduction counters.
	Stats partdex.PriceStats

	// ArtifactPath is the finished artifact's on-disk location. Empty when
	// the intermediate was deleted after archiving.
	ArtifactPath string

	// Chunks is the number of distribution chunks written, zero when no
	// archiver is configured.
	Chunks int
}

// Builder produces the searchable catalog artifact from the component cache.
type Builder struct {
	// Components is the cache the catalog is derived from.
	Components partdex.ComponentService

	// Store receives the translated rows.
	Store partdex.CatalogStore

	// Archiver, when set, compresses and splits the finished artifact into
	// distribution chunks next to it.
	Archiver partdex.ArchiveWriter

	// Filter restricts which cached components are included.
	Filter partdex.ComponentFilter

	// BatchSize is the streaming batch size. Defaults to DefaultBatchSize.
	BatchSize int

	// KeepIntermediate suppresses deletion of the uncompressed artifact
	// after archiving.
	KeepIntermediate bool

	// Progress reports per-batch completion. Defaults to
	// partdex.NopProgress.
	Progress partdex.ProgressReporter

	// OnRecordError, if set, receives the identifier of every component
	// whose price data could not be parsed. Such rows are written with an
	// empty price rather than aborting the build.
	OnRecordError func(id int64, err error)

	// Now returns the current time for the metadata row. Defaults to
	// time.Now.
	Now func() time.Time
}

func (b *Builder) batchSize() int {
	if b.BatchSize > 0 {
		return b.BatchSize
	}
	return DefaultBatchSize
}

func (b *Builder) progress() partdex.ProgressReporter {
	if b.Progress != nil {
		return b.Progress
	}
	return partdex.NopProgress{}
}

func (b *Builder) now() time.Time {
	if b.Now != nil {
		return b.Now()
	}
	return time.Now()
}

// Run executes the full build: count, stream, translate, insert, finalize,
// archive. Row order follows the cache's ascending identifier order, so two
// builds over the same cache state produce identical artifacts.
func (b *Builder) Run(ctx context.Context) (*Result, error) {
	count, err := b.Components.CountComponents(ctx, b.Filter)
	if err != nil {
		return nil, err
	}

	task := b.progress().Outer(int64(count), "building catalog")
	defer task.Done()

	translator := &partdex.Translator{OnError: b.OnRecordError}
	result := &Result{}

	err = b.Components.StreamComponents(ctx, b.Filter, b.batchSize(), func(batch []*partdex.Component) error {
		rows := make([]*partdex.CatalogRow, len(batch))
		for i, comp := range batch {
			rows[i] = translator.Translate(comp)
		}
		if err := b.Store.InsertRows(ctx, rows); err != nil {
			return err
		}
		result.Parts += len(batch)
		task.Advance(int64(len(batch)))
		return nil
	})
	if err != nil {
		return nil, err
	}
	result.Stats = translator.Stats

	if err := b.finalize(ctx, result); err != nil {
		return nil, err
	}
	return result, nil
}

// finalize populates the side tables, optimizes the search index, records
// the metadata row, closes the artifact and archives it.
func (b *Builder) finalize(ctx context.Context, result *Result) error {
	if err := b.Store.PopulateCategories(ctx); err != nil {
		return err
	}
	if err := b.Store.Optimize(ctx); err != nil {
		return err
	}

	path := b.Store.Path()
	info, err := os.Stat(path)
	if err != nil {
		return err
	}
	now := b.now()
	meta := partdex.CatalogMeta{
		Filename:   filepath.Base(path),
		Size:       info.Size(),
		PartCount:  result.Parts,
		Date:       now.Format("2006-01-02"),
		LastUpdate: now.Format(time.RFC3339),
	}
	if err := b.Store.WriteMeta(ctx, meta); err != nil {
		return err
	}
	if err := b.Store.Close(); err != nil {
		return err
	}
	result.ArtifactPath = path

	if b.Archiver == nil {
		return nil
	}
	chunks, err := b.Archiver.CompressAndSplit(path, filepath.Dir(path))
	if err != nil {
		return err
	}
	result.Chunks = chunks

	if !b.KeepIntermediate {
		if err := os.Remove(path); err != nil {
			return err
		}
		result.ArtifactPath = ""
	}
	return nil
}
