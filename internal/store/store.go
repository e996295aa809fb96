package store

import "database/sql"

// Store holds all sub-stores used by the application.
type Store struct {
	DB        *sql.DB
	Compounds CompoundStore
	ImportLog ImportLogStore
}

// New creates a Store with all sub-stores initialized.
func New(db *sql.DB) *Store {
	return &Store{
		DB:        db,
		Compounds: NewSQLiteCompoundStore(db),
		ImportLog: NewSQLiteImportLogStore(db),
	}
}
