package partdex_test

import (
	"testing"

	"github.com/fwojciec/partdex"
	"github.com/stretchr/testify/assert"
)

func TestLibraryType(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "Basic", partdex.LibraryType(true, false))
	assert.Equal(t, "Basic", partdex.LibraryType(true, true))
	assert.Equal(t, "Preferred", partdex.LibraryType(false, true))
	assert.Equal(t, "Extended", partdex.LibraryType(false, false))
}

func TestCleanDescription(t *testing.T) {
	t.Parallel()

	t.Run("strips ROHS marker", func(t *testing.T) {
		t.Parallel()

		got := partdex.CleanDescription("100nF 50V Capacitor ROHS", "", "", "")

		assert.Equal(t, "100nF 50V Capacitor", got)
	})

	t.Run("flags missing ROHS marker", func(t *testing.T) {
		t.Parallel()

		got := partdex.CleanDescription("100nF 50V Capacitor", "", "", "")

		assert.Equal(t, "100nF 50V Capacitor not ROHS", got)
	})

	t.Run("prefers description from the extra bag", func(t *testing.T) {
		t.Parallel()

		got := partdex.CleanDescription("", `{"description":"10K Resistor ROHS"}`, "", "")

		assert.Equal(t, "10K Resistor", got)
	})

	t.Run("removes duplicated category and package", func(t *testing.T) {
		t.Parallel()

		got := partdex.CleanDescription(
			"Chip Resistor 10K 0402 ROHS", "", "Chip Resistor", "0402")

		assert.Equal(t, "10K", got)
	})

	t.Run("malformed extra bag falls back to the description", func(t *testing.T) {
		t.Parallel()

		got := partdex.CleanDescription("10K Resistor ROHS", "not json", "", "")

		assert.Equal(t, "10K Resistor", got)
	})
}

func TestTranslator_Translate(t *testing.T) {
	t.Parallel()

	t.Run("produces a full catalog row", func(t *testing.T) {
		t.Parallel()

		translator := &partdex.Translator{}
		comp := &partdex.Component{
			ID:           25804,
			Category:     "Resistors",
			Subcategory:  "Chip Resistor - Surface Mount",
			MFRPart:      "0402WGF1001TCE",
			Package:      "0402",
			Joints:       2,
			Manufacturer: "UNI-ROYAL",
			Basic:        true,
			Description:  "1KΩ ±1% Resistor ROHS",
			Datasheet:    "https://example.com/ds.pdf",
			Stock:        591276,
			Price:        `[{"qFrom":1,"qTo":null,"price":0.0007}]`,
		}

		row := translator.Translate(comp)

		assert.Equal(t, "C25804", row.LCSCPart)
		assert.Equal(t, "Resistors", row.FirstCategory)
		assert.Equal(t, "Chip Resistor - Surface Mount", row.SecondCategory)
		assert.Equal(t, "Basic", row.LibraryType)
		assert.Equal(t, 2, row.SolderJoint)
		assert.Equal(t, "1KΩ ±1% Resistor", row.Description)
		assert.Equal(t, "1-:0.001", row.Price)
		assert.Equal(t, "591276", row.Stock)
		assert.Equal(t, 1, translator.Stats.Total)
	})

	t.Run("malformed price degrades to empty string", func(t *testing.T) {
		t.Parallel()

		var reportedID int64
		translator := &partdex.Translator{
			OnError: func(id int64, err error) { reportedID = id },
		}
		comp := &partdex.Component{
			ID:           42,
			Manufacturer: "ACME",
			Description:  "Widget ROHS",
			Price:        "garbage",
		}

		row := translator.Translate(comp)

		assert.Empty(t, row.Price)
		assert.Equal(t, int64(42), reportedID)
	})

	t.Run("accumulates stats across calls", func(t *testing.T) {
		t.Parallel()

		translator := &partdex.Translator{}
		comp := &partdex.Component{
			ID:           1,
			Manufacturer: "ACME",
			Price:        `[{"qFrom":1,"qTo":99,"price":0.5},{"qFrom":100,"qTo":null,"price":0.5}]`,
		}

		translator.Translate(comp)
		translator.Translate(comp)

		assert.Equal(t, 4, translator.Stats.Total)
		assert.Equal(t, 2, translator.Stats.Duplicates)
	})
}
