package mock

import (
	"context"

	"github.com/fwojciec/partdex"
)

var _ partdex.CatalogStore = (*CatalogStore)(nil)

// CatalogStore is a mock implementation of partdex.CatalogStore.
type CatalogStore struct {
	InsertRowsFn         func(ctx context.Context, rows []*partdex.CatalogRow) error
	InsertMappingsFn     func(ctx context.Context, mappings []*partdex.FootprintMapping) error
	PopulateCategoriesFn func(ctx context.Context) error
	OptimizeFn           func(ctx context.Context) error
	WriteMetaFn          func(ctx context.Context, meta partdex.CatalogMeta) error
	PathFn               func() string
	CloseFn              func() error
}

func (s *CatalogStore) InsertRows(ctx context.Context, rows []*partdex.CatalogRow) error {
	return s.InsertRowsFn(ctx, rows)
}

func (s *CatalogStore) InsertMappings(ctx context.Context, mappings []*partdex.FootprintMapping) error {
	return s.InsertMappingsFn(ctx, mappings)
}

func (s *CatalogStore) PopulateCategories(ctx context.Context) error {
	return s.PopulateCategoriesFn(ctx)
}

func (s *CatalogStore) Optimize(ctx context.Context) error {
	return s.OptimizeFn(ctx)
}

func (s *CatalogStore) WriteMeta(ctx context.Context, meta partdex.CatalogMeta) error {
	return s.WriteMetaFn(ctx, meta)
}

func (s *CatalogStore) Path() string {
	return s.PathFn()
}

func (s *CatalogStore) Close() error {
	return s.CloseFn()
}
