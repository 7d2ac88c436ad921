// Package ingest implements the catalog ingestion pipeline: fetch the
// category listing, collapse small subcategories, page through each
// category and upsert every page into the component cache.
package ingest

import (
	"context"

	"github.com/fwojciec/partdex"
)

// Result summarizes one ingestion run.
type Result struct {
	// Categories is the number of (collapsed) categories fetched.
	Categories int

	// Components is the number of component records upserted.
	Components int
}

// Ingester refreshes the component cache from the vendor catalog.
type Ingester struct {
	// Client retrieves categories and component pages.
	Client partdex.CatalogClient

	// Components is the durable cache the pages are upserted into.
	Components partdex.ComponentService

	// CategoryRetry is the backoff applied to the category listing fetch.
	// Defaults to partdex.CategoryRetryPolicy.
	CategoryRetry partdex.RetryPolicy

	// CollapseLimit is the threshold for merging a primary category's
	// subcategories into one query. Defaults to
	// partdex.DefaultCollapseLimit.
	CollapseLimit int

	// InStockOnly restricts the run to in-stock parts.
	InStockOnly bool

	// Progress reports per-category and per-page completion. Defaults to
	// partdex.NopProgress.
	Progress partdex.ProgressReporter
}

func (ing *Ingester) categoryRetry() partdex.RetryPolicy {
	if ing.CategoryRetry.MaxAttempts > 0 {
		return ing.CategoryRetry
	}
	return partdex.CategoryRetryPolicy()
}

func (ing *Ingester) collapseLimit() int {
	if ing.CollapseLimit > 0 {
		return ing.CollapseLimit
	}
	return partdex.DefaultCollapseLimit
}

func (ing *Ingester) progress() partdex.ProgressReporter {
	if ing.Progress != nil {
		return ing.Progress
	}
	return partdex.NopProgress{}
}

// Run performs one full ingestion pass. A failure on any category aborts
// the run; pages already upserted stay in the cache, and the idempotent
// upsert makes a rerun safe.
func (ing *Ingester) Run(ctx context.Context) (*Result, error) {
	var categories []partdex.Category
	err := ing.categoryRetry().Do(ctx, func(ctx context.Context) error {
		var err error
		categories, err = ing.Client.FetchCategories(ctx, ing.InStockOnly)
		return err
	})
	if err != nil {
		return nil, err
	}
	categories = partdex.CollapseCategories(categories, ing.collapseLimit())

	result := &Result{Categories: len(categories)}
	outer := ing.progress().Outer(int64(len(categories)), "fetching categories")
	defer outer.Done()

	for _, cat := range categories {
		if err := ing.fetchCategory(ctx, cat, result); err != nil {
			return nil, err
		}
		outer.Advance(1)
	}
	return result, nil
}

func (ing *Ingester) fetchCategory(ctx context.Context, cat partdex.Category, result *Result) error {
	description := cat.Primary
	if cat.Secondary != "" {
		description += " / " + cat.Secondary
	}
	inner := ing.progress().Inner(int64(cat.Count), description)
	defer inner.Done()

	return ing.Client.FetchComponents(ctx, cat, func(batch []*partdex.Component) error {
		if err := ing.Components.UpsertComponents(ctx, batch); err != nil {
			return err
		}
		result.Components += len(batch)
		inner.Advance(int64(len(batch)))
		return nil
	})
}
