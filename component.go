package partdex

import (
	"context"
	"time"
)

// Staleness thresholds for cache maintenance. A full refresh touches every
// still-stocked component, so anything untouched for longer than
// StaleStockAge can be assumed out of stock. Components out of stock for
// longer than CompactionAge have their large unindexed fields reclaimed.
const (
	StaleStockAge = 7 * 24 * time.Hour
	CompactionAge = 365 * 24 * time.Hour
)

// Component represents a normalized vendor component record in the cache.
// The numeric LCSC identifier is globally unique and stable across refresh
// cycles.
type Component struct {
	ID           int64  `json:"id"`
	Category     string `json:"category"`
	Subcategory  string `json:"subcategory"`
	MFRPart      string `json:"mfrPart"`
	Package      string `json:"package"`
	Joints       int    `json:"joints"`
	Manufacturer string `json:"manufacturer"`
	Basic        bool   `json:"basic"`
	Preferred    bool   `json:"preferred"`
	Description  string `json:"description"`
	Datasheet    string `json:"datasheet"`
	Stock        int    `json:"stock"`

	// Price holds the serialized tier list as JSON:
	// [{"qFrom":1,"qTo":199,"price":0.0122}, ...] with a null qTo for an
	// unbounded upper end.
	Price string `json:"price"`

	// Extra holds unmodeled vendor fields as a JSON object, preserved as
	// opaque pass-through data.
	Extra string `json:"extra"`

	// LastUpdate is the unix timestamp of the most recent refresh that
	// touched this record.
	LastUpdate int64 `json:"lastUpdate"`

	// LastOnStock is a monotonic watermark: the unix timestamp of the most
	// recent refresh that observed stock > 0. It never regresses across
	// upserts.
	LastOnStock int64 `json:"lastOnStock"`
}

// Validate returns an error if the component contains invalid fields.
func (c *Component) Validate() error {
	if c.ID <= 0 {
		return Errorf(EINVALID, "component identifier required")
	}
	if c.Manufacturer == "" {
		return Errorf(EINVALID, "component manufacturer required")
	}
	return nil
}

// LCSCPart returns the user-facing "C"-prefixed identifier.
func (c *Component) LCSCPart() string {
	return FormatLCSC(c.ID)
}

// ComponentFilter represents a filter for counting and streaming components.
type ComponentFilter struct {
	InStock     *bool   `json:"inStock"`
	Category    *string `json:"category"`
	LibraryType *string `json:"libraryType"`
}

// ComponentService represents the durable component cache.
//
// UpsertComponents resolves manufacturer and category surrogate ids as
// standalone committed operations before the batch upsert transaction, so it
// must not be called while another write transaction is open on the same
// store.
type ComponentService interface {
	// UpsertComponents inserts or updates a batch of components. The merge
	// is idempotent: re-applying a batch yields the same row state, except
	// that LastOnStock never regresses.
	UpsertComponents(ctx context.Context, comps []*Component) error

	// CountComponents returns the number of components matching the filter.
	CountComponents(ctx context.Context, filter ComponentFilter) (int, error)

	// StreamComponents invokes fn with batches of at most batchSize
	// components matching the filter, ordered by ascending identifier so
	// downstream artifacts are deterministic across runs.
	StreamComponents(ctx context.Context, filter ComponentFilter, batchSize int, fn func(batch []*Component) error) error

	// MarkStaleOutOfStock zeroes stock for components not refreshed within
	// maxAge and advances their update timestamp. Returns the number of
	// rows changed.
	MarkStaleOutOfStock(ctx context.Context, maxAge time.Duration) (int64, error)

	// CompactAncient clears the price and extra fields of components out of
	// stock for longer than maxAge, then compacts the store to reclaim the
	// freed space. Returns the number of rows cleared.
	CompactAncient(ctx context.Context, maxAge time.Duration) (int64, error)

	// RepairDescriptions backfills empty descriptions from the extra
	// attribute bag. Returns the number of rows repaired.
	RepairDescriptions(ctx context.Context) (int64, error)
}
