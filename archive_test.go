package partdex_test

import (
	"testing"

	"github.com/fwojciec/partdex"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChunkName(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "parts-fts5.db.zip.001", partdex.ChunkName("parts-fts5.db.zip", 1))
	assert.Equal(t, "parts-fts5.db.zip.042", partdex.ChunkName("parts-fts5.db.zip", 42))
	assert.Equal(t, "parts-fts5.db.zip.100", partdex.ChunkName("parts-fts5.db.zip", 100))
}

func TestParseChunkIndex(t *testing.T) {
	t.Parallel()

	t.Run("parses the numeric suffix", func(t *testing.T) {
		t.Parallel()

		n, err := partdex.ParseChunkIndex("parts-fts5.db.zip.007")

		require.NoError(t, err)
		assert.Equal(t, 7, n)
	})

	t.Run("rejects a missing suffix", func(t *testing.T) {
		t.Parallel()

		_, err := partdex.ParseChunkIndex("parts-fts5")

		assert.Equal(t, partdex.EINVALID, partdex.ErrorCode(err))
	})

	t.Run("rejects a non-numeric suffix", func(t *testing.T) {
		t.Parallel()

		_, err := partdex.ParseChunkIndex("parts-fts5.db.zip")

		assert.Equal(t, partdex.EINVALID, partdex.ErrorCode(err))
	})
}
