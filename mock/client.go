// Package mock provides function-field mock implementations of the domain
// interfaces for tests.
package mock

import (
	"context"

	"github.com/fwojciec/partdex"
)

var _ partdex.CatalogClient = (*CatalogClient)(nil)

// CatalogClient is a mock implementation of partdex.CatalogClient.
type CatalogClient struct {
	FetchCategoriesFn func(ctx context.Context, inStockOnly bool) ([]partdex.Category, error)
	FetchComponentsFn func(ctx context.Context, cat partdex.Category, fn func(batch []*partdex.Component) error) error
}

func (c *CatalogClient) FetchCategories(ctx context.Context, inStockOnly bool) ([]partdex.Category, error) {
	return c.FetchCategoriesFn(ctx, inStockOnly)
}

func (c *CatalogClient) FetchComponents(ctx context.Context, cat partdex.Category, fn func(batch []*partdex.Component) error) error {
	return c.FetchComponentsFn(ctx, cat, fn)
}
