package store

import (
	"errors"
	"strings"
)

// ErrNotFound is returned when an operation targets a row that does not exist.
var ErrNotFound = errors.New("not found")

// ErrDuplicate is returned when an insert or rename collides with an existing
// shortname.
var ErrDuplicate = errors.New("duplicate shortname")

// ErrInvalid is returned when a compound fails validation before it reaches
// the database.
var ErrInvalid = errors.New("invalid compound")

// isUniqueViolation reports whether err is a SQLite unique-constraint failure.
func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}
