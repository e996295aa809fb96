package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// Compound is one row of the registry. StandardConcentration is always in
// millimolar, StandardVolume in milliliters; both are optional calculator
// defaults.
type Compound struct {
	ID                    int64    `json:"id"`
	Shortname             string   `json:"shortname"`
	Longname              string   `json:"longname,omitempty"`
	MolecularWeight       float64  `json:"molecularWeight"`
	StandardConcentration *float64 `json:"standardConcentration,omitempty"`
	StandardVolume        *float64 `json:"standardVolume,omitempty"`
}

// UpsertRecord is one normalized row of a bulk import: insert the shortname
// if it is new, otherwise overwrite molecular weight and the standard
// defaults. Longname is never touched on conflict.
type UpsertRecord struct {
	Shortname             string
	MolecularWeight       float64
	StandardConcentration *float64
	StandardVolume        *float64
}

// CompoundStore defines the interface for compound persistence.
type CompoundStore interface {
	Add(ctx context.Context, c *Compound) (int64, error)
	Update(ctx context.Context, c *Compound) error
	Delete(ctx context.Context, id int64) (bool, error)
	GetByShortname(ctx context.Context, shortname string) (*Compound, error)
	ListAll(ctx context.Context) ([]*Compound, error)
	UpsertMany(ctx context.Context, recs []UpsertRecord) (int64, error)
}

// SQLiteCompoundStore implements CompoundStore backed by SQLite.
type SQLiteCompoundStore struct {
	db *sql.DB
}

// NewSQLiteCompoundStore creates a new SQLiteCompoundStore.
func NewSQLiteCompoundStore(db *sql.DB) *SQLiteCompoundStore {
	return &SQLiteCompoundStore{db: db}
}

func validate(shortname string, mw float64) error {
	if shortname == "" {
		return fmt.Errorf("%w: shortname must not be empty", ErrInvalid)
	}
	if mw <= 0 {
		return fmt.Errorf("%w: molecular weight must be positive, got %g", ErrInvalid, mw)
	}
	return nil
}

// Add inserts a new compound and returns its assigned id. A shortname
// collision returns ErrDuplicate.
func (s *SQLiteCompoundStore) Add(ctx context.Context, c *Compound) (int64, error) {
	if err := validate(c.Shortname, c.MolecularWeight); err != nil {
		return 0, err
	}

	res, err := s.db.ExecContext(ctx,
		`INSERT INTO compounds (shortname, longname, molecular_weight, standard_concentration, standard_volume)
		 VALUES (?, ?, ?, ?, ?)`,
		c.Shortname, c.Longname, c.MolecularWeight, nullFloat(c.StandardConcentration), nullFloat(c.StandardVolume),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return 0, fmt.Errorf("shortname %q: %w", c.Shortname, ErrDuplicate)
		}
		return 0, fmt.Errorf("insert compound: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("last insert id: %w", err)
	}
	return id, nil
}

// Update replaces all mutable fields of the row identified by c.ID. A missing
// id returns ErrNotFound; renaming onto another row's shortname returns
// ErrDuplicate.
func (s *SQLiteCompoundStore) Update(ctx context.Context, c *Compound) error {
	if err := validate(c.Shortname, c.MolecularWeight); err != nil {
		return err
	}

	res, err := s.db.ExecContext(ctx,
		`UPDATE compounds SET shortname = ?, longname = ?, molecular_weight = ?,
		 standard_concentration = ?, standard_volume = ? WHERE id = ?`,
		c.Shortname, c.Longname, c.MolecularWeight, nullFloat(c.StandardConcentration), nullFloat(c.StandardVolume), c.ID,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("shortname %q: %w", c.Shortname, ErrDuplicate)
		}
		return fmt.Errorf("update compound: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete removes the row with the given id. A missing id is reported as
// deleted=false, not an error.
func (s *SQLiteCompoundStore) Delete(ctx context.Context, id int64) (bool, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM compounds WHERE id = ?`, id)
	if err != nil {
		return false, fmt.Errorf("delete compound: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("rows affected: %w", err)
	}
	return n > 0, nil
}

// GetByShortname retrieves a single compound by its exact shortname.
func (s *SQLiteCompoundStore) GetByShortname(ctx context.Context, shortname string) (*Compound, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, shortname, longname, molecular_weight, standard_concentration, standard_volume
		 FROM compounds WHERE shortname = ?`, shortname)

	c, err := scanCompound(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get compound: %w", err)
	}
	return c, nil
}

// ListAll returns every compound ordered by shortname ascending.
func (s *SQLiteCompoundStore) ListAll(ctx context.Context) ([]*Compound, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, shortname, longname, molecular_weight, standard_concentration, standard_volume
		 FROM compounds ORDER BY shortname ASC`)
	if err != nil {
		return nil, fmt.Errorf("list compounds: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var compounds []*Compound
	for rows.Next() {
		c, err := scanCompound(rows)
		if err != nil {
			return nil, fmt.Errorf("scan compound: %w", err)
		}
		compounds = append(compounds, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration: %w", err)
	}
	return compounds, nil
}

// UpsertMany applies a batch of import records in one transaction: new
// shortnames are inserted (longname initialized to the shortname), existing
// ones get molecular weight and standard defaults overwritten. Duplicate
// shortnames within the batch resolve last-one-wins. Any invalid record rolls
// the whole batch back. Returns the number of rows affected.
func (s *SQLiteCompoundStore) UpsertMany(ctx context.Context, recs []UpsertRecord) (int64, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin upsert: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	var affected int64
	for i, rec := range recs {
		if err := validate(rec.Shortname, rec.MolecularWeight); err != nil {
			return 0, fmt.Errorf("record %d: %w", i+1, err)
		}

		res, err := tx.ExecContext(ctx,
			`INSERT INTO compounds (shortname, longname, molecular_weight, standard_concentration, standard_volume)
			 VALUES (?, ?, ?, ?, ?)
			 ON CONFLICT(shortname) DO UPDATE SET
				molecular_weight = excluded.molecular_weight,
				standard_concentration = excluded.standard_concentration,
				standard_volume = excluded.standard_volume`,
			rec.Shortname, rec.Shortname, rec.MolecularWeight,
			nullFloat(rec.StandardConcentration), nullFloat(rec.StandardVolume),
		)
		if err != nil {
			return 0, fmt.Errorf("upsert %q: %w", rec.Shortname, err)
		}

		n, err := res.RowsAffected()
		if err != nil {
			return 0, fmt.Errorf("rows affected: %w", err)
		}
		affected += n
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit upsert: %w", err)
	}
	return affected, nil
}

// scanner covers both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanCompound(row scanner) (*Compound, error) {
	var (
		c        Compound
		longname sql.NullString
		conc     sql.NullFloat64
		vol      sql.NullFloat64
	)
	if err := row.Scan(&c.ID, &c.Shortname, &longname, &c.MolecularWeight, &conc, &vol); err != nil {
		return nil, err
	}
	if longname.Valid {
		c.Longname = longname.String
	}
	if conc.Valid {
		v := conc.Float64
		c.StandardConcentration = &v
	}
	if vol.Valid {
		v := vol.Float64
		c.StandardVolume = &v
	}
	return &c, nil
}

func nullFloat(f *float64) any {
	if f == nil {
		return nil
	}
	return *f
}
