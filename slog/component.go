package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/partdex"
)

// Ensure LoggingComponentService implements partdex.ComponentService.
var _ partdex.ComponentService = (*LoggingComponentService)(nil)

// LoggingComponentService wraps a ComponentService with structured logging
// for the batch and maintenance operations. The high-frequency read path
// (count, stream) delegates silently.
type LoggingComponentService struct {
	next   partdex.ComponentService
	logger *slog.Logger
}

// NewLoggingComponentService creates a new LoggingComponentService.
func NewLoggingComponentService(next partdex.ComponentService, logger *slog.Logger) *LoggingComponentService {
	return &LoggingComponentService{next: next, logger: logger}
}

// UpsertComponents delegates to the wrapped service and logs the batch.
func (s *LoggingComponentService) UpsertComponents(ctx context.Context, comps []*partdex.Component) error {
	begin := time.Now()
	err := s.next.UpsertComponents(ctx, comps)
	if err != nil {
		s.logger.Error("upsert components",
			"batch", len(comps),
			"err", err,
			"duration", time.Since(begin),
		)
		return err
	}
	s.logger.Debug("upsert components",
		"batch", len(comps),
		"duration", time.Since(begin),
	)
	return nil
}

// CountComponents delegates to the wrapped service.
func (s *LoggingComponentService) CountComponents(ctx context.Context, filter partdex.ComponentFilter) (int, error) {
	return s.next.CountComponents(ctx, filter)
}

// StreamComponents delegates to the wrapped service.
func (s *LoggingComponentService) StreamComponents(ctx context.Context, filter partdex.ComponentFilter, batchSize int, fn func(batch []*partdex.Component) error) error {
	return s.next.StreamComponents(ctx, filter, batchSize, fn)
}

// MarkStaleOutOfStock delegates to the wrapped service and logs the sweep.
func (s *LoggingComponentService) MarkStaleOutOfStock(ctx context.Context, maxAge time.Duration) (int64, error) {
	begin := time.Now()
	n, err := s.next.MarkStaleOutOfStock(ctx, maxAge)
	if err != nil {
		s.logger.Error("mark stale out of stock", "err", err, "duration", time.Since(begin))
		return n, err
	}
	s.logger.Info("mark stale out of stock",
		"rows", n,
		"max_age", maxAge,
		"duration", time.Since(begin),
	)
	return n, nil
}

// CompactAncient delegates to the wrapped service and logs the sweep.
func (s *LoggingComponentService) CompactAncient(ctx context.Context, maxAge time.Duration) (int64, error) {
	begin := time.Now()
	n, err := s.next.CompactAncient(ctx, maxAge)
	if err != nil {
		s.logger.Error("compact ancient", "err", err, "duration", time.Since(begin))
		return n, err
	}
	s.logger.Info("compact ancient",
		"rows", n,
		"max_age", maxAge,
		"duration", time.Since(begin),
	)
	return n, nil
}

// RepairDescriptions delegates to the wrapped service and logs the sweep.
func (s *LoggingComponentService) RepairDescriptions(ctx context.Context) (int64, error) {
	begin := time.Now()
	n, err := s.next.RepairDescriptions(ctx)
	if err != nil {
		s.logger.Error("repair descriptions", "err", err, "duration", time.Since(begin))
		return n, err
	}
	s.logger.Info("repair descriptions",
		"rows", n,
		"duration", time.Since(begin),
	)
	return n, nil
}
