package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/google/uuid"

	"github.com/benchlab/dilute/internal/importer"
	"github.com/benchlab/dilute/internal/seed"
	"github.com/benchlab/dilute/internal/store"
	"github.com/benchlab/dilute/internal/units"
)

// ListCmd prints the registry as an aligned table.
type ListCmd struct{}

func (c *ListCmd) Run(root *CLI) error {
	st, release, err := root.openStore()
	if err != nil {
		return err
	}
	defer release()

	compounds, err := st.Compounds.ListAll(root.Context())
	if err != nil {
		return err
	}
	if len(compounds) == 0 {
		fmt.Println("registry is empty; add compounds with \"dilute add\" or \"dilute seed\"")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 2, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tSHORTNAME\tLONGNAME\tMW (g/mol)\tSTD CONC (mM)\tSTD VOL (mL)")
	for _, cp := range compounds {
		fmt.Fprintf(w, "%d\t%s\t%s\t%g\t%s\t%s\n",
			cp.ID, cp.Shortname, cp.Longname, cp.MolecularWeight,
			formatOptional(cp.StandardConcentration), formatOptional(cp.StandardVolume))
	}
	return w.Flush()
}

// GetCmd shows one compound.
type GetCmd struct {
	Shortname string `arg:"" help:"Compound shortname."`
}

func (c *GetCmd) Run(root *CLI) error {
	st, release, err := root.openStore()
	if err != nil {
		return err
	}
	defer release()

	cp, err := st.Compounds.GetByShortname(root.Context(), c.Shortname)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return fmt.Errorf("no compound with shortname %q", c.Shortname)
		}
		return err
	}

	fmt.Printf("id:                     %d\n", cp.ID)
	fmt.Printf("shortname:              %s\n", cp.Shortname)
	fmt.Printf("longname:               %s\n", cp.Longname)
	fmt.Printf("molecular weight:       %g g/mol\n", cp.MolecularWeight)
	fmt.Printf("standard concentration: %s mM\n", formatOptional(cp.StandardConcentration))
	fmt.Printf("standard volume:        %s mL\n", formatOptional(cp.StandardVolume))
	return nil
}

// AddCmd inserts one compound.
type AddCmd struct {
	Shortname string   `arg:"" help:"Unique compound shortname."`
	MW        float64  `arg:"" help:"Molecular weight in g/mol."`
	Longname  string   `help:"Descriptive name." short:"l"`
	Conc      *float64 `help:"Standard concentration in mM."`
	Vol       *float64 `help:"Standard volume in mL."`
}

func (c *AddCmd) Run(root *CLI) error {
	st, release, err := root.openStore()
	if err != nil {
		return err
	}
	defer release()

	id, err := st.Compounds.Add(root.Context(), &store.Compound{
		Shortname:             c.Shortname,
		Longname:              c.Longname,
		MolecularWeight:       c.MW,
		StandardConcentration: c.Conc,
		StandardVolume:        c.Vol,
	})
	if err != nil {
		return err
	}

	fmt.Printf("added %s (id %d)\n", c.Shortname, id)
	return nil
}

// UpdateCmd replaces all mutable fields of a compound.
type UpdateCmd struct {
	ID        int64    `arg:"" help:"Compound id."`
	Shortname string   `arg:"" help:"New shortname."`
	MW        float64  `arg:"" help:"New molecular weight in g/mol."`
	Longname  string   `help:"New descriptive name." short:"l"`
	Conc      *float64 `help:"New standard concentration in mM."`
	Vol       *float64 `help:"New standard volume in mL."`
}

func (c *UpdateCmd) Run(root *CLI) error {
	st, release, err := root.openStore()
	if err != nil {
		return err
	}
	defer release()

	err = st.Compounds.Update(root.Context(), &store.Compound{
		ID:                    c.ID,
		Shortname:             c.Shortname,
		Longname:              c.Longname,
		MolecularWeight:       c.MW,
		StandardConcentration: c.Conc,
		StandardVolume:        c.Vol,
	})
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return fmt.Errorf("no compound with id %d", c.ID)
		}
		return err
	}

	fmt.Printf("updated %s (id %d)\n", c.Shortname, c.ID)
	return nil
}

// DeleteCmd removes a compound, asking for confirmation unless --yes.
type DeleteCmd struct {
	ID  int64 `arg:"" help:"Compound id."`
	Yes bool  `help:"Skip the confirmation prompt." short:"y"`
}

func (c *DeleteCmd) Run(root *CLI) error {
	if !c.Yes {
		fmt.Printf("delete compound %d? [y/N] ", c.ID)
		line, _ := bufio.NewReader(os.Stdin).ReadString('\n')
		if answer := strings.ToLower(strings.TrimSpace(line)); answer != "y" && answer != "yes" {
			fmt.Println("aborted")
			return nil
		}
	}

	st, release, err := root.openStore()
	if err != nil {
		return err
	}
	defer release()

	deleted, err := st.Compounds.Delete(root.Context(), c.ID)
	if err != nil {
		return err
	}
	if !deleted {
		fmt.Printf("no compound with id %d\n", c.ID)
		return nil
	}

	fmt.Printf("deleted compound %d\n", c.ID)
	return nil
}

// ImportCmd parses tab-separated rows from a file or stdin and upserts them
// in one atomic batch.
type ImportCmd struct {
	File   string `arg:"" optional:"" help:"Input file (defaults to stdin)."`
	Source string `help:"Label recorded in the import log." default:"cli"`
}

func (c *ImportCmd) Run(root *CLI) error {
	var (
		data []byte
		err  error
	)
	if c.File != "" {
		data, err = os.ReadFile(c.File)
	} else {
		data, err = io.ReadAll(os.Stdin)
	}
	if err != nil {
		return fmt.Errorf("read input: %w", err)
	}

	recs, err := importer.Parse(string(data))
	if err != nil {
		return fmt.Errorf("import rejected: %w", err)
	}
	if len(recs) == 0 {
		fmt.Println("nothing to import")
		return nil
	}

	st, release, err := root.openStore()
	if err != nil {
		return err
	}
	defer release()

	affected, err := st.Compounds.UpsertMany(root.Context(), recs)
	if err != nil {
		return fmt.Errorf("import rejected: %w", err)
	}

	batchID := uuid.NewString()
	if err := st.ImportLog.Record(root.Context(), batchID, c.Source, affected); err != nil {
		return err
	}

	fmt.Printf("imported %d rows (%d affected, batch %s)\n", len(recs), affected, batchID)
	return nil
}

// ExportCmd writes the registry in the same tab-separated shape the importer
// reads, so an export can be pasted straight back in.
type ExportCmd struct {
	File string `arg:"" optional:"" help:"Output file (defaults to stdout)."`
}

func (c *ExportCmd) Run(root *CLI) error {
	st, release, err := root.openStore()
	if err != nil {
		return err
	}
	defer release()

	compounds, err := st.Compounds.ListAll(root.Context())
	if err != nil {
		return err
	}

	var out io.Writer = os.Stdout
	if c.File != "" {
		f, err := os.Create(c.File)
		if err != nil {
			return fmt.Errorf("create output: %w", err)
		}
		defer func() { _ = f.Close() }()
		out = f
	}

	for _, cp := range compounds {
		fmt.Fprintf(out, "%s\t%g\t%s\t%s\n",
			cp.Shortname, cp.MolecularWeight,
			formatOptional(cp.StandardConcentration), formatOptional(cp.StandardVolume))
	}
	return nil
}

// CalcCmd computes the weigh-in mass for a target solution, and the volume to
// add once the actual mass has been weighed.
type CalcCmd struct {
	Shortname string   `arg:"" optional:"" help:"Compound shortname (standards fill in conc/vol)."`
	MW        *float64 `help:"Molecular weight in g/mol (instead of a registry compound)."`
	Conc      *float64 `help:"Target concentration in mM."`
	Vol       *float64 `help:"Target volume in mL."`
	MassMG    *float64 `name:"mass-mg" help:"Actual weigh-in in mg; back-computes the volume to add."`
}

func (c *CalcCmd) Run(root *CLI) error {
	var mw, conc, vol float64

	switch {
	case c.Shortname != "":
		st, release, err := root.openStore()
		if err != nil {
			return err
		}
		defer release()

		cp, err := st.Compounds.GetByShortname(root.Context(), c.Shortname)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return fmt.Errorf("no compound with shortname %q", c.Shortname)
			}
			return err
		}
		mw = cp.MolecularWeight
		if cp.StandardConcentration != nil {
			conc = *cp.StandardConcentration
		}
		if cp.StandardVolume != nil {
			vol = *cp.StandardVolume
		}
	case c.MW != nil:
		mw = *c.MW
	default:
		return errors.New("give a compound shortname or --mw")
	}

	if c.Conc != nil {
		conc = *c.Conc
	}
	if c.Vol != nil {
		vol = *c.Vol
	}
	if conc <= 0 || vol <= 0 {
		return errors.New("target concentration and volume must be positive (set --conc and --vol)")
	}

	massG := units.MassRequired(conc, vol, mw)
	fmt.Printf("target:        %g mM in %g mL (MW %g g/mol)\n", conc, vol, mw)
	fmt.Printf("required mass: %.2f mg (%.4f g)\n", massG*1000, massG)

	if c.MassMG != nil && *c.MassMG > 0 {
		volML := units.VolumeRequired(*c.MassMG/1000.0, conc, mw)
		fmt.Printf("weigh-in:      %.2f mg -> add %.2f mL (%.0f uL)\n", *c.MassMG, volML, volML*1000)
	}
	return nil
}

// SeedCmd loads the embedded starter library into an empty registry.
type SeedCmd struct{}

func (c *SeedCmd) Run(root *CLI) error {
	db, release, err := root.openDB()
	if err != nil {
		return err
	}
	defer release()

	n, err := seed.Seed(root.Context(), db)
	if err != nil {
		if errors.Is(err, seed.ErrNotEmpty) {
			return errors.New("registry already has compounds; seed only fills an empty registry")
		}
		return err
	}

	fmt.Printf("seeded %d compounds\n", n)
	return nil
}

// formatOptional renders a nullable value, blank when absent.
func formatOptional(f *float64) string {
	if f == nil {
		return ""
	}
	return fmt.Sprintf("%g", *f)
}
