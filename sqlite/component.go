package sqlite

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/fwojciec/partdex"
)

// Compile-time interface verification.
var _ partdex.ComponentService = (*ComponentService)(nil)

// ComponentService implements partdex.ComponentService using SQLite.
//
// Surrogate-id lookups for manufacturers and categories are shadowed by
// in-memory caches owned by this instance. The caches are valid for one
// process run; concurrent processes inserting unseen names or categories
// into the same store are unsupported.
type ComponentService struct {
	db *DB

	manufacturerIDs map[string]int64
	categoryIDs     map[categoryKey]int64
}

type categoryKey struct {
	category    string
	subcategory string
}

// NewComponentService creates a new ComponentService.
func NewComponentService(db *DB) *ComponentService {
	return &ComponentService{
		db:              db,
		manufacturerIDs: make(map[string]int64),
		categoryIDs:     make(map[categoryKey]int64),
	}
}

// manufacturerID resolves (and creates if absent) the surrogate id for a
// manufacturer name. The insert commits immediately, so this must not run
// inside another open write transaction on the same store.
func (s *ComponentService) manufacturerID(ctx context.Context, name string) (int64, error) {
	if id, ok := s.manufacturerIDs[name]; ok {
		return id, nil
	}

	var id int64
	err := s.db.QueryRowContext(ctx, "SELECT id FROM manufacturers WHERE name = ?", name).Scan(&id)
	if err == sql.ErrNoRows {
		res, err := s.db.ExecContext(ctx, "INSERT INTO manufacturers (name) VALUES (?)", name)
		if err != nil {
			return 0, err
		}
		id, err = res.LastInsertId()
		if err != nil {
			return 0, err
		}
	} else if err != nil {
		return 0, err
	}

	s.manufacturerIDs[name] = id
	return id, nil
}

// categoryID resolves (and creates if absent) the surrogate id for a
// (category, subcategory) pair. Same transaction caveat as manufacturerID.
func (s *ComponentService) categoryID(ctx context.Context, category, subcategory string) (int64, error) {
	key := categoryKey{category, subcategory}
	if id, ok := s.categoryIDs[key]; ok {
		return id, nil
	}

	var id int64
	err := s.db.QueryRowContext(ctx,
		"SELECT id FROM categories WHERE category = ? AND subcategory = ?",
		category, subcategory).Scan(&id)
	if err == sql.ErrNoRows {
		res, err := s.db.ExecContext(ctx,
			"INSERT INTO categories (category, subcategory) VALUES (?, ?)",
			category, subcategory)
		if err != nil {
			return 0, err
		}
		id, err = res.LastInsertId()
		if err != nil {
			return 0, err
		}
	} else if err != nil {
		return 0, err
	}

	s.categoryIDs[key] = id
	return id, nil
}

// UpsertComponents inserts or updates a batch of components.
//
// Surrogate ids are resolved first as standalone committed operations, then
// the component rows are merged inside one transaction. The merge preserves
// the last_on_stock watermark: it only advances when the incoming record
// reports stock > 0.
func (s *ComponentService) UpsertComponents(ctx context.Context, comps []*partdex.Component) error {
	now := time.Now().Unix()

	type resolved struct {
		comp           *partdex.Component
		categoryID     int64
		manufacturerID int64
	}

	rows := make([]resolved, 0, len(comps))
	for _, comp := range comps {
		if err := comp.Validate(); err != nil {
			return err
		}
		if comp.LastUpdate == 0 {
			comp.LastUpdate = now
		}

		categoryID, err := s.categoryID(ctx, comp.Category, comp.Subcategory)
		if err != nil {
			return err
		}
		manufacturerID, err := s.manufacturerID(ctx, comp.Manufacturer)
		if err != nil {
			return err
		}
		rows = append(rows, resolved{comp, categoryID, manufacturerID})
	}

	tx, err := s.db.BeginTx(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO components (
			lcsc, category_id, mfr, package, joints, manufacturer_id,
			basic, preferred, description, datasheet, stock, price,
			last_update, extra, last_on_stock
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?,
			CASE WHEN ? > 0 THEN ? ELSE 0 END)
		ON CONFLICT(lcsc) DO UPDATE SET
			category_id = excluded.category_id,
			mfr = excluded.mfr,
			package = excluded.package,
			joints = excluded.joints,
			manufacturer_id = excluded.manufacturer_id,
			basic = excluded.basic,
			preferred = excluded.preferred,
			description = excluded.description,
			datasheet = excluded.datasheet,
			stock = excluded.stock,
			price = excluded.price,
			last_update = excluded.last_update,
			extra = excluded.extra,
			last_on_stock = CASE
				WHEN excluded.stock > 0 THEN excluded.last_update
				ELSE components.last_on_stock END
	`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, r := range rows {
		c := r.comp
		_, err := stmt.ExecContext(ctx,
			c.ID, r.categoryID, c.MFRPart, c.Package, c.Joints, r.manufacturerID,
			boolToInt(c.Basic), boolToInt(c.Preferred), c.Description, c.Datasheet,
			c.Stock, c.Price, c.LastUpdate, c.Extra,
			c.Stock, c.LastUpdate)
		if err != nil {
			return err
		}
	}

	return tx.Commit()
}

// CountComponents returns the number of components matching the filter.
func (s *ComponentService) CountComponents(ctx context.Context, filter partdex.ComponentFilter) (int, error) {
	query, args := buildFilter("SELECT COUNT(*) FROM components c", filter)
	var count int
	if err := s.db.QueryRowContext(ctx, query, args...).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}

// StreamComponents streams matching components joined with their
// manufacturer and category names, ordered by ascending identifier so two
// runs over the same snapshot produce identical batches.
func (s *ComponentService) StreamComponents(ctx context.Context, filter partdex.ComponentFilter, batchSize int, fn func(batch []*partdex.Component) error) error {
	if batchSize <= 0 {
		batchSize = 100_000
	}

	query, args := buildFilter(`
		SELECT c.lcsc, cat.category, cat.subcategory, c.mfr, c.package,
			c.joints, m.name, c.basic, c.preferred, c.description,
			c.datasheet, c.stock, c.price, IFNULL(c.extra, ''),
			c.last_update, c.last_on_stock
		FROM components c
		JOIN manufacturers m ON m.id = c.manufacturer_id
		JOIN categories cat ON cat.id = c.category_id`, filter)
	query += " ORDER BY c.lcsc ASC"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return err
	}
	defer rows.Close()

	batch := make([]*partdex.Component, 0, batchSize)
	for rows.Next() {
		var comp partdex.Component
		var basic, preferred int
		if err := rows.Scan(&comp.ID, &comp.Category, &comp.Subcategory,
			&comp.MFRPart, &comp.Package, &comp.Joints, &comp.Manufacturer,
			&basic, &preferred, &comp.Description, &comp.Datasheet,
			&comp.Stock, &comp.Price, &comp.Extra,
			&comp.LastUpdate, &comp.LastOnStock); err != nil {
			return err
		}
		comp.Basic = basic != 0
		comp.Preferred = preferred != 0

		batch = append(batch, &comp)
		if len(batch) == batchSize {
			if err := fn(batch); err != nil {
				return err
			}
			batch = make([]*partdex.Component, 0, batchSize)
		}
	}
	if err := rows.Err(); err != nil {
		return err
	}
	if len(batch) > 0 {
		return fn(batch)
	}
	return nil
}

// MarkStaleOutOfStock zeroes stock for components not refreshed within
// maxAge. A full refresh touches every still-stocked component, so
// untouched-and-old implies gone.
func (s *ComponentService) MarkStaleOutOfStock(ctx context.Context, maxAge time.Duration) (int64, error) {
	now := time.Now().Unix()
	cutoff := now - int64(maxAge.Seconds())
	res, err := s.db.ExecContext(ctx, `
		UPDATE components
		SET stock = 0, last_update = ?
		WHERE stock > 0 AND last_update < ?
	`, now, cutoff)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// CompactAncient clears the price and extra fields of components out of
// stock longer than maxAge. Neither field is indexed, so the rows stay
// searchable while the space is reclaimed by the VACUUM that follows.
//
// Both the update and the VACUUM can temporarily nearly double the size of
// the database while the changes are journaled.
func (s *ComponentService) CompactAncient(ctx context.Context, maxAge time.Duration) (int64, error) {
	cutoff := time.Now().Unix() - int64(maxAge.Seconds())
	res, err := s.db.ExecContext(ctx, `
		UPDATE components
		SET price = '[]', extra = '{}'
		WHERE stock = 0 AND last_on_stock < ?
	`, cutoff)
	if err != nil {
		return 0, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, err
	}
	if _, err := s.db.ExecContext(ctx, "VACUUM"); err != nil {
		return 0, err
	}
	return n, nil
}

// RepairDescriptions backfills empty descriptions from the extra attribute
// bag, where the vendor kept shipping the text after the modeled field went
// empty. Harmless on an already-repaired store.
func (s *ComponentService) RepairDescriptions(ctx context.Context) (int64, error) {
	res, err := s.db.ExecContext(ctx, `
		UPDATE components
		SET description = COALESCE(
			NULLIF(json_extract(extra, '$.description'), ''),
			NULLIF(json_extract(extra, '$.describe'), ''),
			description)
		WHERE (description IS NULL OR description = '')
			AND extra IS NOT NULL AND json_valid(extra)
			AND (NULLIF(json_extract(extra, '$.description'), '') IS NOT NULL
				OR NULLIF(json_extract(extra, '$.describe'), '') IS NOT NULL)
	`)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// buildFilter appends WHERE clauses for the filter to a base query.
func buildFilter(base string, filter partdex.ComponentFilter) (string, []any) {
	var query strings.Builder
	query.WriteString(base)
	query.WriteString(" WHERE 1=1")

	var args []any
	if filter.InStock != nil {
		if *filter.InStock {
			query.WriteString(" AND c.stock > 0")
		} else {
			query.WriteString(" AND c.stock = 0")
		}
	}
	if filter.Category != nil {
		query.WriteString(" AND c.category_id IN (SELECT id FROM categories WHERE category = ?)")
		args = append(args, *filter.Category)
	}
	if filter.LibraryType != nil {
		switch *filter.LibraryType {
		case "Basic":
			query.WriteString(" AND c.basic = 1")
		case "Preferred":
			query.WriteString(" AND c.basic = 0 AND c.preferred = 1")
		case "Extended":
			query.WriteString(" AND c.basic = 0 AND c.preferred = 0")
		}
	}
	return query.String(), args
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
