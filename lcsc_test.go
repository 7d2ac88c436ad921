package partdex_test

import (
	"testing"

	"github.com/fwojciec/partdex"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatLCSC(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "C25804", partdex.FormatLCSC(25804))
}

func TestParseLCSC(t *testing.T) {
	t.Parallel()

	t.Run("parses prefixed identifier", func(t *testing.T) {
		t.Parallel()

		id, err := partdex.ParseLCSC("C25804")

		require.NoError(t, err)
		assert.Equal(t, int64(25804), id)
	})

	t.Run("parses bare numeric form", func(t *testing.T) {
		t.Parallel()

		id, err := partdex.ParseLCSC("25804")

		require.NoError(t, err)
		assert.Equal(t, int64(25804), id)
	})

	t.Run("rejects non-numeric suffix", func(t *testing.T) {
		t.Parallel()

		_, err := partdex.ParseLCSC("Cabc")

		assert.Equal(t, partdex.EINVALID, partdex.ErrorCode(err))
	})
}

func TestComponent_Validate(t *testing.T) {
	t.Parallel()

	t.Run("valid component", func(t *testing.T) {
		t.Parallel()

		comp := &partdex.Component{ID: 1, Manufacturer: "ACME"}

		assert.NoError(t, comp.Validate())
	})

	t.Run("missing identifier", func(t *testing.T) {
		t.Parallel()

		comp := &partdex.Component{Manufacturer: "ACME"}

		assert.Equal(t, partdex.EINVALID, partdex.ErrorCode(comp.Validate()))
	})
}
