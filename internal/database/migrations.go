package database

import (
	"context"
	"database/sql"
)

// migration is one step of the schema's history. pending probes the live
// schema to decide whether the step still has to run; apply performs it.
// Probes look at table and column presence only, so every step is safe to
// re-evaluate on each startup.
type migration struct {
	name    string
	pending func(ctx context.Context, db *sql.DB) (bool, error)
	apply   func(ctx context.Context, tx *sql.Tx) error
}

// migrations is the ordered schema state machine. Order matters: the legacy
// name split must run before the millimolar conversion so the conversion
// operates on the current table layout, and a fresh create includes the
// conc_in_mmol marker so later steps see an already-converted store.
var migrations = []migration{
	{
		name: "create-compounds",
		pending: func(ctx context.Context, db *sql.DB) (bool, error) {
			exists, err := tableExists(ctx, db, "compounds")
			return !exists, err
		},
		apply: func(ctx context.Context, tx *sql.Tx) error {
			_, err := tx.ExecContext(ctx, `CREATE TABLE compounds (
				id INTEGER PRIMARY KEY AUTOINCREMENT,
				shortname TEXT NOT NULL UNIQUE,
				longname TEXT,
				molecular_weight REAL NOT NULL,
				standard_concentration REAL,
				standard_volume REAL,
				conc_in_mmol INTEGER NOT NULL DEFAULT 1
			)`)
			return err
		},
	},
	{
		// Registries written before standard defaults existed lack these
		// columns entirely.
		name: "add-standard-concentration",
		pending: func(ctx context.Context, db *sql.DB) (bool, error) {
			exists, err := columnExists(ctx, db, "compounds", "standard_concentration")
			return !exists, err
		},
		apply: func(ctx context.Context, tx *sql.Tx) error {
			_, err := tx.ExecContext(ctx, `ALTER TABLE compounds ADD COLUMN standard_concentration REAL`)
			return err
		},
	},
	{
		name: "add-standard-volume",
		pending: func(ctx context.Context, db *sql.DB) (bool, error) {
			exists, err := columnExists(ctx, db, "compounds", "standard_volume")
			return !exists, err
		},
		apply: func(ctx context.Context, tx *sql.Tx) error {
			_, err := tx.ExecContext(ctx, `ALTER TABLE compounds ADD COLUMN standard_volume REAL`)
			return err
		},
	},
	{
		// The original schema had a single name column. Split it into
		// shortname/longname, initializing both to the old value. Rebuilds
		// the table because SQLite cannot add a UNIQUE column in place.
		name: "split-name",
		pending: func(ctx context.Context, db *sql.DB) (bool, error) {
			return columnExists(ctx, db, "compounds", "name")
		},
		apply: func(ctx context.Context, tx *sql.Tx) error {
			stmts := []string{
				`CREATE TABLE compounds_new (
					id INTEGER PRIMARY KEY AUTOINCREMENT,
					shortname TEXT NOT NULL UNIQUE,
					longname TEXT,
					molecular_weight REAL NOT NULL,
					standard_concentration REAL,
					standard_volume REAL
				)`,
				`INSERT INTO compounds_new (id, shortname, longname, molecular_weight, standard_concentration, standard_volume)
				 SELECT id, name, name, molecular_weight, standard_concentration, standard_volume FROM compounds`,
				`DROP TABLE compounds`,
				`ALTER TABLE compounds_new RENAME TO compounds`,
			}
			for _, stmt := range stmts {
				if _, err := tx.ExecContext(ctx, stmt); err != nil {
					return err
				}
			}
			return nil
		},
	},
	{
		// Stored concentrations used to be molar. Convert to millimolar and
		// stamp the table with a marker column so the multiplication can
		// never run twice. A store that already holds millimolar values but
		// lacks the marker (say, restored from an old backup) would be
		// converted again; the probe has no way to tell the units apart.
		name: "concentration-to-millimolar",
		pending: func(ctx context.Context, db *sql.DB) (bool, error) {
			exists, err := columnExists(ctx, db, "compounds", "conc_in_mmol")
			return !exists, err
		},
		apply: func(ctx context.Context, tx *sql.Tx) error {
			stmts := []string{
				`UPDATE compounds SET standard_concentration = standard_concentration * 1000
				 WHERE standard_concentration IS NOT NULL`,
				`ALTER TABLE compounds ADD COLUMN conc_in_mmol INTEGER NOT NULL DEFAULT 1`,
			}
			for _, stmt := range stmts {
				if _, err := tx.ExecContext(ctx, stmt); err != nil {
					return err
				}
			}
			return nil
		},
	},
	{
		name: "create-import-log",
		pending: func(ctx context.Context, db *sql.DB) (bool, error) {
			exists, err := tableExists(ctx, db, "import_log")
			return !exists, err
		},
		apply: func(ctx context.Context, tx *sql.Tx) error {
			_, err := tx.ExecContext(ctx, `CREATE TABLE import_log (
				id INTEGER PRIMARY KEY AUTOINCREMENT,
				batch_id TEXT NOT NULL UNIQUE,
				source TEXT NOT NULL DEFAULT '',
				rows_affected INTEGER NOT NULL,
				created_at TEXT NOT NULL
			)`)
			return err
		},
	},
}
