package partdex

import (
	"encoding/json"
	"strconv"
	"strings"
)

// PriceCutoff is the floor below which tiers are dropped during reduction.
// Finer prices are not actionable at ordinary order volumes.
const PriceCutoff = 0.01

// PriceTier is a price bracket: a quantity range mapped to a unit price.
// MaxQty == 0 denotes an unbounded upper end ("and above"). The price is
// kept as both the exact formatted string and the parsed numeric value to
// avoid float round-trip error in the serialized output.
type PriceTier struct {
	MinQty   int
	MaxQty   int
	PriceStr string
	Price    float64
}

// String renders the tier in the catalog's compact form, with an empty
// upper bound denoting "and above".
func (t PriceTier) String() string {
	max := ""
	if t.MaxQty != 0 {
		max = strconv.Itoa(t.MaxQty)
	}
	return strconv.Itoa(t.MinQty) + "-" + max + ":" + t.PriceStr
}

// PriceStats accumulates tier reduction statistics across translate calls.
type PriceStats struct {
	Total      int
	Deleted    int
	Duplicates int
}

// Add merges other into s.
func (s *PriceStats) Add(other PriceStats) {
	s.Total += other.Total
	s.Deleted += other.Deleted
	s.Duplicates += other.Duplicates
}

// ParsePriceTiers parses the cached JSON tier list. The vendor always
// supplies entries from highest-quantity-cheapest to lowest-quantity-most-
// expensive; a null qTo marks the unbounded tier.
func ParsePriceTiers(priceJSON string) ([]PriceTier, error) {
	if strings.TrimSpace(priceJSON) == "" {
		return nil, nil
	}
	var raw []struct {
		QFrom int         `json:"qFrom"`
		QTo   *int        `json:"qTo"`
		Price json.Number `json:"price"`
	}
	if err := json.Unmarshal([]byte(priceJSON), &raw); err != nil {
		return nil, Errorf(EINVALID, "malformed price tier list: %v", err)
	}

	tiers := make([]PriceTier, 0, len(raw))
	for _, entry := range raw {
		price, err := entry.Price.Float64()
		if err != nil {
			return nil, Errorf(EINVALID, "malformed tier price %q: %v", entry.Price, err)
		}
		tier := PriceTier{
			MinQty:   entry.QFrom,
			PriceStr: entry.Price.String(),
			Price:    price,
		}
		if entry.QTo != nil {
			tier.MaxQty = *entry.QTo
		}
		tiers = append(tiers, tier)
	}
	return tiers, nil
}

// ReducePrecision rounds every tier's price to 3 decimal places, updating
// both the display string and the numeric value.
func ReducePrecision(tiers []PriceTier) []PriceTier {
	for i := range tiers {
		tiers[i].PriceStr = strconv.FormatFloat(tiers[i].Price, 'f', 3, 64)
		tiers[i].Price, _ = strconv.ParseFloat(tiers[i].PriceStr, 64)
	}
	return tiers
}

// FilterBelowCutoff drops every tier priced below cutoff except the first,
// which anchors the maximum discount bracket and is always retained. The
// last surviving tier's upper bound is forced unbounded: the lowest retained
// price continues indefinitely.
func FilterBelowCutoff(tiers []PriceTier, cutoff float64) []PriceTier {
	var filtered []PriceTier
	if len(tiers) >= 1 {
		filtered = append(filtered, tiers[0])
		for _, tier := range tiers[1:] {
			if tier.Price >= cutoff {
				filtered = append(filtered, tier)
			}
		}
	}
	if len(filtered) > 0 {
		filtered[len(filtered)-1].MaxQty = 0
	}
	return filtered
}

// MergeDuplicatePrices merges consecutive tiers with identical rounded price
// strings into one tier spanning both quantity ranges, keeping the first
// tier's lower bound and the later tier's upper bound. The result has
// strictly distinct consecutive prices.
func MergeDuplicatePrices(tiers []PriceTier) []PriceTier {
	if len(tiers) <= 1 {
		return tiers
	}
	var unique []PriceTier
	current := tiers[0]
	for _, tier := range tiers[1:] {
		if current.PriceStr == tier.PriceStr {
			current.MaxQty = tier.MaxQty
			continue
		}
		unique = append(unique, current)
		current = tier
	}
	unique = append(unique, current)
	return unique
}

// ReducePrice applies the full tier reduction pipeline to a cached JSON tier
// list: precision reduction, cutoff filtering, duplicate merging, and
// serialization into the compact comma-joined form. An empty tier list
// produces an empty string.
func ReducePrice(priceJSON string) (string, PriceStats, error) {
	tiers, err := ParsePriceTiers(priceJSON)
	if err != nil {
		return "", PriceStats{}, err
	}

	tiers = ReducePrecision(tiers)
	stats := PriceStats{Total: len(tiers)}

	cut := FilterBelowCutoff(tiers, PriceCutoff)
	stats.Deleted = len(tiers) - len(cut)

	merged := MergeDuplicatePrices(cut)
	stats.Duplicates = len(cut) - len(merged)
	stats.Deleted += stats.Duplicates

	parts := make([]string, len(merged))
	for i, tier := range merged {
		parts[i] = tier.String()
	}
	return strings.Join(parts, ","), stats, nil
}
