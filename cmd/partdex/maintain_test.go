package main_test

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/fwojciec/partdex"
	main "github.com/fwojciec/partdex/cmd/partdex"
	"github.com/fwojciec/partdex/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMaintainCmd_Run(t *testing.T) {
	t.Parallel()

	t.Run("runs the stale and compaction sweeps", func(t *testing.T) {
		t.Parallel()

		var staleAge, compactAge time.Duration
		repaired := false
		components := &mock.ComponentService{
			MarkStaleOutOfStockFn: func(ctx context.Context, maxAge time.Duration) (int64, error) {
				staleAge = maxAge
				return 12, nil
			},
			CompactAncientFn: func(ctx context.Context, maxAge time.Duration) (int64, error) {
				compactAge = maxAge
				return 5, nil
			},
			RepairDescriptionsFn: func(ctx context.Context) (int64, error) {
				repaired = true
				return 0, nil
			},
		}

		stdout := &bytes.Buffer{}
		deps := &main.Dependencies{
			Ctx:        context.Background(),
			Stdout:     stdout,
			Stderr:     &bytes.Buffer{},
			Components: components,
		}

		cmd := &main.MaintainCmd{StaleAge: 168 * time.Hour, CompactAge: 8760 * time.Hour}
		err := cmd.Run(deps)

		require.NoError(t, err)
		assert.Equal(t, 168*time.Hour, staleAge)
		assert.Equal(t, 8760*time.Hour, compactAge)
		assert.False(t, repaired)

		output := stdout.String()
		assert.Contains(t, output, "Marked 12 stale components out of stock")
		assert.Contains(t, output, "Compacted 5 ancient components")
	})

	t.Run("repair flag backfills descriptions", func(t *testing.T) {
		t.Parallel()

		components := &mock.ComponentService{
			MarkStaleOutOfStockFn: func(ctx context.Context, maxAge time.Duration) (int64, error) {
				return 0, nil
			},
			CompactAncientFn: func(ctx context.Context, maxAge time.Duration) (int64, error) {
				return 0, nil
			},
			RepairDescriptionsFn: func(ctx context.Context) (int64, error) {
				return 9, nil
			},
		}

		stdout := &bytes.Buffer{}
		deps := &main.Dependencies{
			Ctx:        context.Background(),
			Stdout:     stdout,
			Stderr:     &bytes.Buffer{},
			Components: components,
		}

		cmd := &main.MaintainCmd{Repair: true}
		err := cmd.Run(deps)

		require.NoError(t, err)
		assert.Contains(t, stdout.String(), "Repaired 9 descriptions")
	})

	t.Run("writes the error to stderr", func(t *testing.T) {
		t.Parallel()

		components := &mock.ComponentService{
			MarkStaleOutOfStockFn: func(ctx context.Context, maxAge time.Duration) (int64, error) {
				return 0, partdex.Errorf(partdex.EINTERNAL, "cache unavailable")
			},
		}

		stderr := &bytes.Buffer{}
		deps := &main.Dependencies{
			Ctx:        context.Background(),
			Stdout:     &bytes.Buffer{},
			Stderr:     stderr,
			Components: components,
		}

		cmd := &main.MaintainCmd{}
		err := cmd.Run(deps)

		require.Error(t, err)
		assert.Contains(t, stderr.String(), "error:")
	})
}
