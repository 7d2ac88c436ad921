package mock

import (
	"context"
	"time"

	"github.com/fwojciec/partdex"
)

var _ partdex.ComponentService = (*ComponentService)(nil)

// ComponentService is a mock implementation of partdex.ComponentService.
type ComponentService struct {
	UpsertComponentsFn    func(ctx context.Context, comps []*partdex.Component) error
	CountComponentsFn     func(ctx context.Context, filter partdex.ComponentFilter) (int, error)
	StreamComponentsFn    func(ctx context.Context, filter partdex.ComponentFilter, batchSize int, fn func(batch []*partdex.Component) error) error
	MarkStaleOutOfStockFn func(ctx context.Context, maxAge time.Duration) (int64, error)
	CompactAncientFn      func(ctx context.Context, maxAge time.Duration) (int64, error)
	RepairDescriptionsFn  func(ctx context.Context) (int64, error)
}

func (s *ComponentService) UpsertComponents(ctx context.Context, comps []*partdex.Component) error {
	return s.UpsertComponentsFn(ctx, comps)
}

func (s *ComponentService) CountComponents(ctx context.Context, filter partdex.ComponentFilter) (int, error) {
	return s.CountComponentsFn(ctx, filter)
}

func (s *ComponentService) StreamComponents(ctx context.Context, filter partdex.ComponentFilter, batchSize int, fn func(batch []*partdex.Component) error) error {
	return s.StreamComponentsFn(ctx, filter, batchSize, fn)
}

func (s *ComponentService) MarkStaleOutOfStock(ctx context.Context, maxAge time.Duration) (int64, error) {
	return s.MarkStaleOutOfStockFn(ctx, maxAge)
}

func (s *ComponentService) CompactAncient(ctx context.Context, maxAge time.Duration) (int64, error) {
	return s.CompactAncientFn(ctx, maxAge)
}

func (s *ComponentService) RepairDescriptions(ctx context.Context) (int64, error) {
	return s.RepairDescriptionsFn(ctx)
}
