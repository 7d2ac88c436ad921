package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"os"

	"github.com/fwojciec/partdex"
)

// Compile-time interface verification.
var _ partdex.CatalogStore = (*CatalogStore)(nil)

// CatalogStore writes the FTS5 catalog artifact. The artifact is a derived,
// disposable build product: Open removes any previous file and starts from
// scratch.
type CatalogStore struct {
	db   *sql.DB
	path string
}

// NewCatalogStore creates a CatalogStore writing to the given path.
func NewCatalogStore(path string) *CatalogStore {
	return &CatalogStore{path: path}
}

// Open removes any previous artifact at the path, opens a fresh database
// and creates the artifact schema.
func (s *CatalogStore) Open() error {
	if err := os.Remove(s.path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove previous artifact: %w", err)
	}

	db, err := sql.Open("sqlite3", s.path)
	if err != nil {
		return fmt.Errorf("failed to open artifact: %w", err)
	}
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return fmt.Errorf("failed to connect to artifact: %w", err)
	}

	if err := createArtifactSchema(db); err != nil {
		db.Close()
		return fmt.Errorf("failed to create artifact schema: %w", err)
	}

	s.db = db
	return nil
}

// createArtifactSchema creates the parts FTS5 table and its side tables.
//
// Solder Joint, Datasheet, Price and Stock are unindexed: they hold counts,
// URLs and price strings that aren't useful for token searching, and
// unindexed columns keep the FTS5 index (and the shipped artifact) smaller.
func createArtifactSchema(db *sql.DB) error {
	statements := []string{
		`CREATE VIRTUAL TABLE IF NOT EXISTS parts USING fts5 (
			'LCSC Part',
			'First Category',
			'Second Category',
			'MFR.Part',
			'Package',
			'Solder Joint' unindexed,
			'Manufacturer',
			'Library Type',
			'Description',
			'Datasheet' unindexed,
			'Price' unindexed,
			'Stock' unindexed,
			tokenize="trigram"
		)`,
		`CREATE TABLE IF NOT EXISTS mapping (
			'footprint',
			'value',
			'LCSC'
		)`,
		`CREATE TABLE IF NOT EXISTS meta (
			'filename',
			'size',
			'partcount',
			'date',
			'last_update'
		)`,
		`CREATE TABLE IF NOT EXISTS categories (
			'First Category',
			'Second Category'
		)`,
	}
	for _, stmt := range statements {
		if _, err := db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}

// InsertRows appends a batch of catalog rows inside one transaction.
func (s *CatalogStore) InsertRows(ctx context.Context, rows []*partdex.CatalogRow) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx,
		"INSERT INTO parts VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)")
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, row := range rows {
		if _, err := stmt.ExecContext(ctx,
			row.LCSCPart, row.FirstCategory, row.SecondCategory, row.MFRPart,
			row.Package, row.SolderJoint, row.Manufacturer, row.LibraryType,
			row.Description, row.Datasheet, row.Price, row.Stock); err != nil {
			return err
		}
	}

	return tx.Commit()
}

// InsertMappings appends footprint/value/identifier associations.
func (s *CatalogStore) InsertMappings(ctx context.Context, mappings []*partdex.FootprintMapping) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, "INSERT INTO mapping VALUES (?, ?, ?)")
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, m := range mappings {
		if _, err := stmt.ExecContext(ctx, m.Footprint, m.Value, m.LCSC); err != nil {
			return err
		}
	}
	return tx.Commit()
}

// PopulateCategories fills the categories side table from the distinct
// category pairs present in the parts table.
func (s *CatalogStore) PopulateCategories(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO categories
		SELECT DISTINCT "First Category", "Second Category" FROM parts
		ORDER BY UPPER("First Category"), UPPER("Second Category")
	`)
	return err
}

// Optimize merges the FTS5 index structures into their minimal form, a
// one-time cost that amortizes future query latency.
func (s *CatalogStore) Optimize(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, "INSERT INTO parts(parts) VALUES('optimize')")
	return err
}

// WriteMeta records the build metadata.
func (s *CatalogStore) WriteMeta(ctx context.Context, meta partdex.CatalogMeta) error {
	_, err := s.db.ExecContext(ctx, "INSERT INTO meta VALUES (?, ?, ?, ?, ?)",
		meta.Filename, meta.Size, meta.PartCount, meta.Date, meta.LastUpdate)
	return err
}

// Search runs an FTS5 match query against the parts table. Primarily useful
// for verifying a finished artifact.
func (s *CatalogStore) Search(ctx context.Context, match string, limit int) ([]*partdex.CatalogRow, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := s.db.QueryContext(ctx,
		"SELECT * FROM parts WHERE parts MATCH ? ORDER BY rank LIMIT ?", match, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []*partdex.CatalogRow
	for rows.Next() {
		var row partdex.CatalogRow
		if err := rows.Scan(&row.LCSCPart, &row.FirstCategory, &row.SecondCategory,
			&row.MFRPart, &row.Package, &row.SolderJoint, &row.Manufacturer,
			&row.LibraryType, &row.Description, &row.Datasheet,
			&row.Price, &row.Stock); err != nil {
			return nil, err
		}
		results = append(results, &row)
	}
	return results, rows.Err()
}

// Categories returns the contents of the categories side table in insert
// order.
func (s *CatalogStore) Categories(ctx context.Context) ([]partdex.Category, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT "First Category", "Second Category" FROM categories`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var categories []partdex.Category
	for rows.Next() {
		var cat partdex.Category
		if err := rows.Scan(&cat.Primary, &cat.Secondary); err != nil {
			return nil, err
		}
		categories = append(categories, cat)
	}
	return categories, rows.Err()
}

// Meta reads the build metadata row.
func (s *CatalogStore) Meta(ctx context.Context) (*partdex.CatalogMeta, error) {
	var meta partdex.CatalogMeta
	err := s.db.QueryRowContext(ctx,
		"SELECT filename, size, partcount, date, last_update FROM meta").Scan(
		&meta.Filename, &meta.Size, &meta.PartCount, &meta.Date, &meta.LastUpdate)
	if err == sql.ErrNoRows {
		return nil, partdex.Errorf(partdex.ENOTFOUND, "artifact has no metadata row")
	} else if err != nil {
		return nil, err
	}
	return &meta, nil
}

// Path returns the on-disk location of the artifact.
func (s *CatalogStore) Path() string {
	return s.path
}

// Close closes the artifact database.
func (s *CatalogStore) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}
