// Package seed loads a starter library of common bench reagents into an
// empty registry.
package seed

import (
	"context"
	"database/sql"
	_ "embed"
	"errors"
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/benchlab/dilute/internal/store"
)

//go:embed compounds.yaml
var compoundsYAML []byte

// ErrNotEmpty is returned when seeding is attempted on a registry that
// already holds compounds.
var ErrNotEmpty = errors.New("registry is not empty")

type library struct {
	Compounds []entry `yaml:"compounds"`
}

type entry struct {
	Shortname             string   `yaml:"shortname"`
	Longname              string   `yaml:"longname"`
	MolecularWeight       float64  `yaml:"molecular_weight"`
	StandardConcentration *float64 `yaml:"standard_concentration"`
	StandardVolume        *float64 `yaml:"standard_volume"`
}

// Seed inserts the embedded starter library. It refuses to touch a non-empty
// registry so it can never clobber an operator's own entries. Returns the
// number of compounds inserted.
func Seed(ctx context.Context, db *sql.DB) (int, error) {
	var count int
	if err := db.QueryRowContext(ctx, `SELECT COUNT(*) FROM compounds`).Scan(&count); err != nil {
		return 0, fmt.Errorf("count compounds: %w", err)
	}
	if count > 0 {
		return 0, ErrNotEmpty
	}

	var lib library
	if err := yaml.Unmarshal(compoundsYAML, &lib); err != nil {
		return 0, fmt.Errorf("parse starter library: %w", err)
	}

	compounds := store.NewSQLiteCompoundStore(db)
	for _, e := range lib.Compounds {
		_, err := compounds.Add(ctx, &store.Compound{
			Shortname:             e.Shortname,
			Longname:              e.Longname,
			MolecularWeight:       e.MolecularWeight,
			StandardConcentration: e.StandardConcentration,
			StandardVolume:        e.StandardVolume,
		})
		if err != nil {
			return 0, fmt.Errorf("seed %s: %w", e.Shortname, err)
		}
	}

	return len(lib.Compounds), nil
}
