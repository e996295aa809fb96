package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

// ImportBatch is the audit record for one bulk import.
type ImportBatch struct {
	ID           int64  `json:"id"`
	BatchID      string `json:"batchId"`
	Source       string `json:"source,omitempty"`
	RowsAffected int64  `json:"rowsAffected"`
	CreatedAt    string `json:"createdAt"`
}

// ImportLogStore defines the interface for import batch auditing.
type ImportLogStore interface {
	Record(ctx context.Context, batchID, source string, rowsAffected int64) error
	List(ctx context.Context) ([]*ImportBatch, error)
}

// SQLiteImportLogStore implements ImportLogStore backed by SQLite.
type SQLiteImportLogStore struct {
	db *sql.DB
}

// NewSQLiteImportLogStore creates a new SQLiteImportLogStore.
func NewSQLiteImportLogStore(db *sql.DB) *SQLiteImportLogStore {
	return &SQLiteImportLogStore{db: db}
}

// Record writes one audit row for a completed import batch.
func (s *SQLiteImportLogStore) Record(ctx context.Context, batchID, source string, rowsAffected int64) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO import_log (batch_id, source, rows_affected, created_at) VALUES (?, ?, ?, ?)`,
		batchID, source, rowsAffected, now(),
	)
	if err != nil {
		return fmt.Errorf("record import batch: %w", err)
	}
	return nil
}

// List returns all import batches, newest first.
func (s *SQLiteImportLogStore) List(ctx context.Context) ([]*ImportBatch, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, batch_id, source, rows_affected, created_at FROM import_log ORDER BY id DESC`)
	if err != nil {
		return nil, fmt.Errorf("list import batches: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var batches []*ImportBatch
	for rows.Next() {
		var b ImportBatch
		if err := rows.Scan(&b.ID, &b.BatchID, &b.Source, &b.RowsAffected, &b.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan import batch: %w", err)
		}
		batches = append(batches, &b)
	}
	return batches, rows.Err()
}

// now returns the current UTC time as an RFC 3339 timestamp.
func now() string {
	return time.Now().UTC().Format(time.RFC3339)
}
