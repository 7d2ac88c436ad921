package slog_test

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/fwojciec/partdex"
	"github.com/fwojciec/partdex/mock"
	pdxslog "github.com/fwojciec/partdex/slog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoggingCatalogClient_FetchCategories(t *testing.T) {
	t.Parallel()

	t.Run("logs category count and duration", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		logger := slog.New(slog.NewTextHandler(&buf, nil))
		inner := &mock.CatalogClient{
			FetchCategoriesFn: func(ctx context.Context, inStockOnly bool) ([]partdex.Category, error) {
				return []partdex.Category{{Primary: "Resistors", Count: 10}}, nil
			},
		}

		client := pdxslog.NewLoggingCatalogClient(inner, logger)
		categories, err := client.FetchCategories(context.Background(), true)

		require.NoError(t, err)
		assert.Len(t, categories, 1)
		output := buf.String()
		assert.Contains(t, output, "fetch categories")
		assert.Contains(t, output, "categories=1")
		assert.Contains(t, output, "duration=")
	})

	t.Run("logs error on failure", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		logger := slog.New(slog.NewTextHandler(&buf, nil))
		inner := &mock.CatalogClient{
			FetchCategoriesFn: func(ctx context.Context, inStockOnly bool) ([]partdex.Category, error) {
				return nil, partdex.Errorf(partdex.ETRANSIENT, "listing unavailable")
			},
		}

		client := pdxslog.NewLoggingCatalogClient(inner, logger)
		_, err := client.FetchCategories(context.Background(), true)

		require.Error(t, err)
		output := buf.String()
		assert.Contains(t, output, "level=ERROR")
		assert.Contains(t, output, "fetch categories")
		assert.Contains(t, output, "listing unavailable")
	})
}

func TestLoggingCatalogClient_FetchComponents(t *testing.T) {
	t.Parallel()

	t.Run("logs pages and component totals", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		logger := slog.New(slog.NewTextHandler(&buf, nil))
		inner := &mock.CatalogClient{
			FetchComponentsFn: func(ctx context.Context, cat partdex.Category, fn func([]*partdex.Component) error) error {
				if err := fn([]*partdex.Component{{ID: 1}, {ID: 2}}); err != nil {
					return err
				}
				return fn([]*partdex.Component{{ID: 3}})
			},
		}

		client := pdxslog.NewLoggingCatalogClient(inner, logger)
		cat := partdex.Category{Primary: "Resistors", Secondary: "Potentiometers"}

		seen := 0
		err := client.FetchComponents(context.Background(), cat, func(batch []*partdex.Component) error {
			seen += len(batch)
			return nil
		})

		require.NoError(t, err)
		assert.Equal(t, 3, seen)
		output := buf.String()
		assert.Contains(t, output, "fetch components")
		assert.Contains(t, output, "category=Resistors")
		assert.Contains(t, output, "subcategory=Potentiometers")
		assert.Contains(t, output, "pages=2")
		assert.Contains(t, output, "components=3")
	})

	t.Run("logs error on failure", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		logger := slog.New(slog.NewTextHandler(&buf, nil))
		inner := &mock.CatalogClient{
			FetchComponentsFn: func(ctx context.Context, cat partdex.Category, fn func([]*partdex.Component) error) error {
				return partdex.Errorf(partdex.ETRANSIENT, "page fetch failed")
			},
		}

		client := pdxslog.NewLoggingCatalogClient(inner, logger)
		err := client.FetchComponents(context.Background(), partdex.Category{Primary: "Resistors"},
			func([]*partdex.Component) error { return nil })

		require.Error(t, err)
		output := buf.String()
		assert.Contains(t, output, "level=ERROR")
		assert.Contains(t, output, "page fetch failed")
	})
}
