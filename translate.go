package partdex

import (
	"encoding/json"
	"strconv"
	"strings"
)

// LibraryType derives the sourcing tier classification from the two stored
// flags. Basic wins when both are set.
func LibraryType(basic, preferred bool) string {
	if basic {
		return "Basic"
	}
	if preferred {
		return "Preferred"
	}
	return "Extended"
}

// CleanDescription normalizes a component description for the catalog.
//
// The extra attribute bag's "description" field is preferred when present
// (the vendor started shipping empty descriptions while keeping the text in
// the unmodeled fields). ROHS wording is canonicalized: nearly every part is
// compliant now, so compliance is stripped and only the exception is called
// out with a "not ROHS" suffix. Category and package substrings duplicated
// inside the free text are removed, double spaces collapsed.
func CleanDescription(description, extraJSON, category, pkg string) string {
	if extraJSON != "" {
		var bag ExtraBag
		if err := json.Unmarshal([]byte(extraJSON), &bag); err == nil {
			if desc := bag.GetString("description"); desc != "" {
				description = desc
			}
		}
	}

	if !strings.Contains(strings.ToLower(description), " rohs") {
		description += " not ROHS"
	} else {
		description = strings.ReplaceAll(description, " ROHS", "")
	}

	if category != "" {
		description = strings.ReplaceAll(description, category, "")
	}
	if pkg != "" {
		description = strings.ReplaceAll(description, pkg, "")
	}

	description = strings.ReplaceAll(description, "  ", " ")
	return strings.TrimSpace(description)
}

// Translator converts cached components into catalog rows while tracking
// aggregate tier reduction statistics for the reporting pass. It is not safe
// for concurrent use.
type Translator struct {
	Stats PriceStats

	// OnError, if set, is invoked with the component identifier for
	// per-record malformed data. Such records degrade gracefully (empty
	// price string) instead of aborting the batch.
	OnError func(id int64, err error)
}

// Translate converts one cached component into its catalog row.
func (t *Translator) Translate(comp *Component) *CatalogRow {
	price, stats, err := ReducePrice(comp.Price)
	if err != nil {
		price = ""
		if t.OnError != nil {
			t.OnError(comp.ID, err)
		}
	}
	t.Stats.Add(stats)

	return &CatalogRow{
		LCSCPart:       comp.LCSCPart(),
		FirstCategory:  comp.Category,
		SecondCategory: comp.Subcategory,
		MFRPart:        comp.MFRPart,
		Package:        comp.Package,
		SolderJoint:    comp.Joints,
		Manufacturer:   comp.Manufacturer,
		LibraryType:    LibraryType(comp.Basic, comp.Preferred),
		Description:    CleanDescription(comp.Description, comp.Extra, comp.Subcategory, comp.Package),
		Datasheet:      comp.Datasheet,
		Price:          price,
		Stock:          strconv.Itoa(comp.Stock),
	}
}
