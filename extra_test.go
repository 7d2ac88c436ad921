package partdex_test

import (
	"encoding/json"
	"testing"

	"github.com/fwojciec/partdex"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtraBag(t *testing.T) {
	t.Parallel()

	t.Run("preserves key order through a round trip", func(t *testing.T) {
		t.Parallel()

		input := `{"zeta":1,"alpha":"two","mid":null}`

		var bag partdex.ExtraBag
		require.NoError(t, json.Unmarshal([]byte(input), &bag))
		out, err := json.Marshal(bag)

		require.NoError(t, err)
		assert.Equal(t, input, string(out))
	})

	t.Run("get returns raw value", func(t *testing.T) {
		t.Parallel()

		var bag partdex.ExtraBag
		require.NoError(t, json.Unmarshal([]byte(`{"a":{"nested":true}}`), &bag))

		assert.JSONEq(t, `{"nested":true}`, string(bag.Get("a")))
		assert.Nil(t, bag.Get("missing"))
	})

	t.Run("get string ignores non-strings", func(t *testing.T) {
		t.Parallel()

		var bag partdex.ExtraBag
		require.NoError(t, json.Unmarshal([]byte(`{"s":"text","n":42}`), &bag))

		assert.Equal(t, "text", bag.GetString("s"))
		assert.Empty(t, bag.GetString("n"))
		assert.Empty(t, bag.GetString("missing"))
	})

	t.Run("delete removes a key", func(t *testing.T) {
		t.Parallel()

		var bag partdex.ExtraBag
		require.NoError(t, json.Unmarshal([]byte(`{"a":1,"b":2,"c":3}`), &bag))

		assert.True(t, bag.Delete("b"))
		assert.False(t, bag.Delete("b"))

		out, err := json.Marshal(bag)
		require.NoError(t, err)
		assert.Equal(t, `{"a":1,"c":3}`, string(out))
	})

	t.Run("rejects non-object input", func(t *testing.T) {
		t.Parallel()

		var bag partdex.ExtraBag
		err := json.Unmarshal([]byte(`[1,2]`), &bag)

		assert.Equal(t, partdex.EINVALID, partdex.ErrorCode(err))
	})

	t.Run("empty bag marshals to empty object", func(t *testing.T) {
		t.Parallel()

		out, err := json.Marshal(partdex.ExtraBag{})

		require.NoError(t, err)
		assert.Equal(t, "{}", string(out))
	})
}
