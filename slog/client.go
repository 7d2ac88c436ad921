// Package slog provides log/slog decorators around the domain interfaces
// and a progress reporter that emits periodic log lines.
package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/partdex"
)

// Ensure LoggingCatalogClient implements partdex.CatalogClient.
var _ partdex.CatalogClient = (*LoggingCatalogClient)(nil)

// LoggingCatalogClient wraps a CatalogClient with structured logging.
type LoggingCatalogClient struct {
	next   partdex.CatalogClient
	logger *slog.Logger
}

// NewLoggingCatalogClient creates a new LoggingCatalogClient.
func NewLoggingCatalogClient(next partdex.CatalogClient, logger *slog.Logger) *LoggingCatalogClient {
	return &LoggingCatalogClient{next: next, logger: logger}
}

// FetchCategories delegates to the wrapped client and logs the outcome.
func (c *LoggingCatalogClient) FetchCategories(ctx context.Context, inStockOnly bool) ([]partdex.Category, error) {
	begin := time.Now()
	categories, err := c.next.FetchCategories(ctx, inStockOnly)
	if err != nil {
		c.logger.Error("fetch categories",
			"err", err,
			"duration", time.Since(begin),
		)
		return nil, err
	}
	c.logger.Info("fetch categories",
		"categories", len(categories),
		"duration", time.Since(begin),
	)
	return categories, nil
}

// FetchComponents delegates to the wrapped client, logging page counts and
// the total fetched for the category.
func (c *LoggingCatalogClient) FetchComponents(ctx context.Context, cat partdex.Category, fn func(batch []*partdex.Component) error) error {
	begin := time.Now()
	pages, components := 0, 0
	err := c.next.FetchComponents(ctx, cat, func(batch []*partdex.Component) error {
		pages++
		components += len(batch)
		return fn(batch)
	})
	if err != nil {
		c.logger.Error("fetch components",
			"category", cat.Primary,
			"subcategory", cat.Secondary,
			"err", err,
			"duration", time.Since(begin),
		)
		return err
	}
	c.logger.Info("fetch components",
		"category", cat.Primary,
		"subcategory", cat.Secondary,
		"pages", pages,
		"components", components,
		"duration", time.Since(begin),
	)
	return nil
}
