// Package importer turns pasted tabular text into normalized upsert records.
// The expected shape is what a spreadsheet puts on the clipboard: one row per
// line, fields separated by single tabs, columns name / molecular weight /
// standard concentration (mM) / standard volume (mL).
package importer

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/benchlab/dilute/internal/store"
)

// ValidationError describes the first malformed field of a failed import.
// Any row-level failure rejects the whole paste; nothing is imported.
type ValidationError struct {
	Line  int
	Field string
	Value string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("line %d: invalid %s %q", e.Line, e.Field, e.Value)
}

// Parse converts pasted text into upsert records, preserving input order.
// Rows whose name and molecular weight are both blank are dropped. A row with
// a name must carry a numeric molecular weight or the whole parse fails with
// a *ValidationError. Missing concentration/volume fields stay nil, never
// zero. Duplicate names are kept as-is; the store's upsert resolves them
// last-one-wins.
func Parse(text string) ([]store.UpsertRecord, error) {
	var recs []store.UpsertRecord

	lines := strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n")
	for i, line := range lines {
		fields := strings.Split(line, "\t")

		name := strings.TrimSpace(field(fields, 0))
		mwRaw := strings.TrimSpace(field(fields, 1))
		if name == "" && mwRaw == "" {
			continue
		}
		if name == "" {
			return nil, &ValidationError{Line: i + 1, Field: "name", Value: field(fields, 0)}
		}

		mw, err := strconv.ParseFloat(mwRaw, 64)
		if err != nil {
			return nil, &ValidationError{Line: i + 1, Field: "molecular weight", Value: mwRaw}
		}

		conc, err := optionalFloat(fields, 2)
		if err != nil {
			return nil, &ValidationError{Line: i + 1, Field: "standard concentration", Value: field(fields, 2)}
		}
		vol, err := optionalFloat(fields, 3)
		if err != nil {
			return nil, &ValidationError{Line: i + 1, Field: "standard volume", Value: field(fields, 3)}
		}

		recs = append(recs, store.UpsertRecord{
			Shortname:             name,
			MolecularWeight:       mw,
			StandardConcentration: conc,
			StandardVolume:        vol,
		})
	}

	return recs, nil
}

// field returns fields[i] or "" when the row is too short.
func field(fields []string, i int) string {
	if i >= len(fields) {
		return ""
	}
	return fields[i]
}

// optionalFloat parses an optional numeric field: absent or blank means nil.
func optionalFloat(fields []string, i int) (*float64, error) {
	raw := strings.TrimSpace(field(fields, i))
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return nil, err
	}
	return &v, nil
}
