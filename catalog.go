package partdex

import "context"

// CatalogRow is the flattened, human-searchable projection of a component
// joined with its manufacturer and category names: display-ready strings
// only, no surrogate ids.
type CatalogRow struct {
	LCSCPart       string
	FirstCategory  string
	SecondCategory string
	MFRPart        string
	Package        string
	SolderJoint    int
	Manufacturer   string
	LibraryType    string
	Description    string
	Datasheet      string
	Price          string
	Stock          string
}

// CatalogMeta describes a finished catalog build.
type CatalogMeta struct {
	Filename   string
	Size       int64
	PartCount  int
	Date       string // build date, YYYY-MM-DD
	LastUpdate string // build timestamp, RFC 3339
}

// FootprintMapping associates a board footprint/value pair with an LCSC
// identifier in the artifact's side table.
type FootprintMapping struct {
	Footprint string
	Value     string
	LCSC      string
}

// CatalogStore writes the full-text-searchable output artifact. Rows are
// derived, disposable build products regenerated from scratch each run.
type CatalogStore interface {
	// InsertRows appends a batch of catalog rows to the parts table.
	InsertRows(ctx context.Context, rows []*CatalogRow) error

	// InsertMappings appends footprint/value/identifier associations.
	InsertMappings(ctx context.Context, mappings []*FootprintMapping) error

	// PopulateCategories fills the categories side table with the distinct
	// category pairs present in the parts table.
	PopulateCategories(ctx context.Context) error

	// Optimize runs the one-time index optimization pass that amortizes
	// future query latency.
	Optimize(ctx context.Context) error

	// WriteMeta records the build metadata.
	WriteMeta(ctx context.Context, meta CatalogMeta) error

	// Path returns the on-disk location of the artifact.
	Path() string

	// Close flushes and closes the artifact file.
	Close() error
}
