package database_test

import (
	"context"
	"database/sql"
	"testing"

	"github.com/benchlab/dilute/internal/database"
	"github.com/benchlab/dilute/internal/testhelpers"
)

func columnNames(t *testing.T, db *sql.DB, table string) map[string]bool {
	t.Helper()

	rows, err := db.Query("PRAGMA table_info(" + table + ")")
	if err != nil {
		t.Fatalf("table_info %s: %v", table, err)
	}
	defer func() { _ = rows.Close() }()

	cols := map[string]bool{}
	for rows.Next() {
		var (
			cid     int
			name    string
			typ     string
			notnull int
			dflt    sql.NullString
			pk      int
		)
		if err := rows.Scan(&cid, &name, &typ, &notnull, &dflt, &pk); err != nil {
			t.Fatalf("scan table_info: %v", err)
		}
		cols[name] = true
	}
	return cols
}

func TestMigrationsFreshSchema(t *testing.T) {
	db := testhelpers.NewTestDB(t)
	ctx := context.Background()

	if err := database.Migrate(ctx, db); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	for _, table := range []string{"compounds", "import_log"} {
		var name string
		err := db.QueryRow("SELECT name FROM sqlite_master WHERE type='table' AND name=?", table).Scan(&name)
		if err != nil {
			t.Errorf("table %q not found: %v", table, err)
		}
	}

	cols := columnNames(t, db, "compounds")
	for _, col := range []string{"id", "shortname", "longname", "molecular_weight", "standard_concentration", "standard_volume", "conc_in_mmol"} {
		if !cols[col] {
			t.Errorf("column %q not found", col)
		}
	}
	if cols["name"] {
		t.Error("legacy name column present on fresh schema")
	}
}

func TestMigrationsLegacyNameSplit(t *testing.T) {
	db := testhelpers.NewTestDB(t)
	ctx := context.Background()

	// Oldest known layout: single name column, no standard defaults.
	_, err := db.Exec(`CREATE TABLE compounds (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		name TEXT NOT NULL UNIQUE,
		molecular_weight REAL NOT NULL
	)`)
	if err != nil {
		t.Fatalf("create legacy table: %v", err)
	}
	if _, err := db.Exec(`INSERT INTO compounds (name, molecular_weight) VALUES ('NaCl', 58.44)`); err != nil {
		t.Fatalf("insert legacy row: %v", err)
	}

	if err := database.Migrate(ctx, db); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	var shortname, longname string
	var mw float64
	err = db.QueryRow(`SELECT shortname, longname, molecular_weight FROM compounds WHERE shortname = 'NaCl'`).
		Scan(&shortname, &longname, &mw)
	if err != nil {
		t.Fatalf("query migrated row: %v", err)
	}
	if shortname != "NaCl" || longname != "NaCl" {
		t.Errorf("split = (%q, %q), want both NaCl", shortname, longname)
	}
	if mw != 58.44 {
		t.Errorf("molecular_weight = %v, want 58.44", mw)
	}

	cols := columnNames(t, db, "compounds")
	if cols["name"] {
		t.Error("legacy name column still present after migration")
	}
	if !cols["conc_in_mmol"] {
		t.Error("unit marker column missing after migration")
	}

	// A second run must not touch the data again.
	if err := database.Migrate(ctx, db); err != nil {
		t.Fatalf("second migrate: %v", err)
	}
	var count int
	if err := db.QueryRow(`SELECT COUNT(*) FROM compounds`).Scan(&count); err != nil {
		t.Fatalf("count: %v", err)
	}
	if count != 1 {
		t.Errorf("count = %d, want 1", count)
	}
}

func TestMigrationsConcentrationToMillimolar(t *testing.T) {
	db := testhelpers.NewTestDB(t)
	ctx := context.Background()

	// Pre-marker layout: concentrations stored in molar.
	_, err := db.Exec(`CREATE TABLE compounds (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		shortname TEXT NOT NULL UNIQUE,
		longname TEXT,
		molecular_weight REAL NOT NULL,
		standard_concentration REAL,
		standard_volume REAL
	)`)
	if err != nil {
		t.Fatalf("create pre-marker table: %v", err)
	}
	_, err = db.Exec(`INSERT INTO compounds (shortname, longname, molecular_weight, standard_concentration)
		VALUES ('Tris', 'Tris base', 121.14, 5), ('KCl', 'Potassium chloride', 74.55, NULL)`)
	if err != nil {
		t.Fatalf("insert rows: %v", err)
	}

	if err := database.Migrate(ctx, db); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	var conc float64
	if err := db.QueryRow(`SELECT standard_concentration FROM compounds WHERE shortname = 'Tris'`).Scan(&conc); err != nil {
		t.Fatalf("query converted row: %v", err)
	}
	if conc != 5000 {
		t.Errorf("standard_concentration = %v, want 5000 after molar->millimolar", conc)
	}

	var nullConc sql.NullFloat64
	if err := db.QueryRow(`SELECT standard_concentration FROM compounds WHERE shortname = 'KCl'`).Scan(&nullConc); err != nil {
		t.Fatalf("query null row: %v", err)
	}
	if nullConc.Valid {
		t.Errorf("NULL concentration became %v, want NULL", nullConc.Float64)
	}

	// The conversion must run exactly once.
	if err := database.Migrate(ctx, db); err != nil {
		t.Fatalf("second migrate: %v", err)
	}
	if err := db.QueryRow(`SELECT standard_concentration FROM compounds WHERE shortname = 'Tris'`).Scan(&conc); err != nil {
		t.Fatalf("query after second migrate: %v", err)
	}
	if conc != 5000 {
		t.Errorf("standard_concentration = %v after second migrate, want 5000", conc)
	}
}

func TestMigrationsFreshStoreNeverConverts(t *testing.T) {
	db := testhelpers.NewTestDB(t)
	ctx := context.Background()

	if err := database.Migrate(ctx, db); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	_, err := db.Exec(`INSERT INTO compounds (shortname, molecular_weight, standard_concentration)
		VALUES ('NaCl', 58.44, 150)`)
	if err != nil {
		t.Fatalf("insert: %v", err)
	}

	if err := database.Migrate(ctx, db); err != nil {
		t.Fatalf("second migrate: %v", err)
	}

	var conc float64
	if err := db.QueryRow(`SELECT standard_concentration FROM compounds WHERE shortname = 'NaCl'`).Scan(&conc); err != nil {
		t.Fatalf("query: %v", err)
	}
	if conc != 150 {
		t.Errorf("standard_concentration = %v, want 150 (no re-conversion)", conc)
	}
}
