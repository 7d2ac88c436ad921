package slog_test

import (
	"bytes"
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/fwojciec/partdex"
	"github.com/fwojciec/partdex/mock"
	pdxslog "github.com/fwojciec/partdex/slog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoggingComponentService_UpsertComponents(t *testing.T) {
	t.Parallel()

	t.Run("logs batch size at debug level", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
		inner := &mock.ComponentService{
			UpsertComponentsFn: func(ctx context.Context, comps []*partdex.Component) error {
				return nil
			},
		}

		service := pdxslog.NewLoggingComponentService(inner, logger)
		err := service.UpsertComponents(context.Background(), []*partdex.Component{{ID: 1}, {ID: 2}})

		require.NoError(t, err)
		output := buf.String()
		assert.Contains(t, output, "level=DEBUG")
		assert.Contains(t, output, "upsert components")
		assert.Contains(t, output, "batch=2")
	})

	t.Run("logs error on failure", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		logger := slog.New(slog.NewTextHandler(&buf, nil))
		inner := &mock.ComponentService{
			UpsertComponentsFn: func(ctx context.Context, comps []*partdex.Component) error {
				return partdex.Errorf(partdex.EINTERNAL, "db locked")
			},
		}

		service := pdxslog.NewLoggingComponentService(inner, logger)
		err := service.UpsertComponents(context.Background(), []*partdex.Component{{ID: 1}})

		require.Error(t, err)
		output := buf.String()
		assert.Contains(t, output, "level=ERROR")
		assert.Contains(t, output, "db locked")
	})
}

func TestLoggingComponentService_Maintenance(t *testing.T) {
	t.Parallel()

	t.Run("logs stale sweep with row count and age", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		logger := slog.New(slog.NewTextHandler(&buf, nil))
		inner := &mock.ComponentService{
			MarkStaleOutOfStockFn: func(ctx context.Context, maxAge time.Duration) (int64, error) {
				return 42, nil
			},
		}

		service := pdxslog.NewLoggingComponentService(inner, logger)
		n, err := service.MarkStaleOutOfStock(context.Background(), 168*time.Hour)

		require.NoError(t, err)
		assert.Equal(t, int64(42), n)
		output := buf.String()
		assert.Contains(t, output, "mark stale out of stock")
		assert.Contains(t, output, "rows=42")
		assert.Contains(t, output, "max_age=168h")
	})

	t.Run("logs compaction sweep", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		logger := slog.New(slog.NewTextHandler(&buf, nil))
		inner := &mock.ComponentService{
			CompactAncientFn: func(ctx context.Context, maxAge time.Duration) (int64, error) {
				return 7, nil
			},
		}

		service := pdxslog.NewLoggingComponentService(inner, logger)
		n, err := service.CompactAncient(context.Background(), 8760*time.Hour)

		require.NoError(t, err)
		assert.Equal(t, int64(7), n)
		output := buf.String()
		assert.Contains(t, output, "compact ancient")
		assert.Contains(t, output, "rows=7")
	})

	t.Run("logs description repair", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		logger := slog.New(slog.NewTextHandler(&buf, nil))
		inner := &mock.ComponentService{
			RepairDescriptionsFn: func(ctx context.Context) (int64, error) {
				return 3, nil
			},
		}

		service := pdxslog.NewLoggingComponentService(inner, logger)
		n, err := service.RepairDescriptions(context.Background())

		require.NoError(t, err)
		assert.Equal(t, int64(3), n)
		output := buf.String()
		assert.Contains(t, output, "repair descriptions")
		assert.Contains(t, output, "rows=3")
	})

	t.Run("read path delegates without logging", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		logger := slog.New(slog.NewTextHandler(&buf, nil))
		inner := &mock.ComponentService{
			CountComponentsFn: func(ctx context.Context, filter partdex.ComponentFilter) (int, error) {
				return 100, nil
			},
		}

		service := pdxslog.NewLoggingComponentService(inner, logger)
		count, err := service.CountComponents(context.Background(), partdex.ComponentFilter{})

		require.NoError(t, err)
		assert.Equal(t, 100, count)
		assert.Empty(t, buf.String())
	})
}
