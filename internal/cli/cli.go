// Package cli is the compound manager: the add/update/delete/list surface,
// bulk import/export, the seed loader, and the serve command that hosts the
// web calculator.
package cli

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/alecthomas/kong"

	"github.com/benchlab/dilute/internal/config"
	"github.com/benchlab/dilute/internal/database"
	"github.com/benchlab/dilute/internal/store"
)

// CLI is the root command structure.
type CLI struct {
	ctx context.Context
	cfg *config.Config

	Serve  ServeCmd  `cmd:"" help:"Serve the web dilution calculator."`
	List   ListCmd   `cmd:"" help:"List all compounds."`
	Get    GetCmd    `cmd:"" help:"Show one compound by shortname."`
	Add    AddCmd    `cmd:"" help:"Add a compound to the registry."`
	Update UpdateCmd `cmd:"" help:"Replace a compound's fields by id."`
	Delete DeleteCmd `cmd:"" help:"Delete a compound by id."`
	Import ImportCmd `cmd:"" help:"Bulk import tab-separated compound rows."`
	Export ExportCmd `cmd:"" help:"Write the registry as tab-separated rows."`
	Calc   CalcCmd   `cmd:"" help:"Compute weigh-in mass and volume to add."`
	Seed   SeedCmd   `cmd:"" help:"Load the starter compound library into an empty registry."`
}

// Context returns the CLI's context for use by commands.
func (c *CLI) Context() context.Context {
	return c.ctx
}

// openStore opens the registry, runs pending migrations, and returns the
// store with a release function. Migrations run on every start; they are
// no-ops once applied.
func (c *CLI) openStore() (*store.Store, func(), error) {
	db, err := database.Open(c.cfg.DBPath)
	if err != nil {
		return nil, nil, fmt.Errorf("open registry: %w", err)
	}

	if err := database.Migrate(c.ctx, db); err != nil {
		_ = db.Close()
		return nil, nil, fmt.Errorf("run migrations: %w", err)
	}

	return store.New(db), func() { _ = db.Close() }, nil
}

// openDB is openStore for commands that work on the bare connection.
func (c *CLI) openDB() (*sql.DB, func(), error) {
	st, release, err := c.openStore()
	if err != nil {
		return nil, nil, err
	}
	return st.DB, release, nil
}

// ExecuteWithContext parses arguments and runs the selected command with a
// cancellable context.
func ExecuteWithContext(ctx context.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	cli := &CLI{ctx: ctx, cfg: cfg}
	kongCtx := kong.Parse(cli,
		kong.Name("dilute"),
		kong.Description("Laboratory dilution calculator and compound registry."),
		kong.UsageOnError(),
	)

	return kongCtx.Run(cli)
}
