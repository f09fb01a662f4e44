package commands

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/bankentry-dev/bankentry/internal/id"
	"github.com/bankentry-dev/bankentry/internal/importer"
	"github.com/bankentry-dev/bankentry/internal/ledger"
	"github.com/bankentry-dev/bankentry/internal/store"
)

func newImportCommand() *cobra.Command {
	var dir string
	var format string
	var all bool

	cmd := &cobra.Command{
		Use:   "import [file...]",
		Short: "Import transactions from CSV files, pasted lines, or the drop directory",
		Long: `Import transactions. With file arguments each file is parsed with the
selected format; with --all every CSV waiting in <workspace>/import/ is
imported and moved to import/processed/; with neither, stdin is read.

Bad rows are reported and skipped; they never abort the rest of a file.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ws, err := openWorkspace(dir)
			if err != nil {
				return err
			}
			norm, err := ws.Normalizer()
			if err != nil {
				return err
			}

			parser := importer.DefaultRegistry(norm).Get(format)
			if parser == nil {
				return fmt.Errorf("unknown format %q (want csv or lines)", format)
			}

			st, err := ws.OpenStore()
			if err != nil {
				return err
			}
			defer st.Close()

			if all {
				if len(args) > 0 {
					return fmt.Errorf("--all cannot be combined with file arguments")
				}
				return importDropDir(cmd, ws, st, parser)
			}

			if len(args) == 0 {
				return importOne(cmd, ws, st, parser, "stdin", cmd.InOrStdin())
			}

			for _, path := range args {
				f, err := os.Open(path)
				if err != nil {
					return fmt.Errorf("opening %s: %w", path, err)
				}
				err = importOne(cmd, ws, st, parser, path, f)
				f.Close()
				if err != nil {
					return err
				}
			}
			return nil
		},
	}

	addDirFlag(cmd, &dir)
	cmd.Flags().StringVar(&format, "format", "csv", "input format: csv|lines")
	cmd.Flags().BoolVar(&all, "all", false, "import every CSV in the workspace import directory")

	return cmd
}

func importDropDir(cmd *cobra.Command, ws *Workspace, st store.Store, parser importer.Parser) error {
	files, err := importer.Scan(ws.Dir)
	if err != nil {
		return err
	}
	if len(files) == 0 {
		fmt.Println("Nothing to import.")
		return nil
	}

	for _, file := range files {
		f, err := os.Open(file.Path)
		if err != nil {
			return fmt.Errorf("opening %s: %w", file.Name, err)
		}
		err = importOne(cmd, ws, st, parser, file.Name, f)
		f.Close()
		if err != nil {
			return err
		}
		if err := importer.MarkProcessed(ws.Dir, file.Name); err != nil {
			return err
		}
	}
	return nil
}

func importOne(cmd *cobra.Command, ws *Workspace, st store.Store, parser importer.Parser, name string, r io.Reader) error {
	res, err := parser.Parse(r)
	if err != nil {
		return fmt.Errorf("%s: %w", name, err)
	}

	// Plain imports never carry identity; any id column in the file is a
	// leftover from an export.
	creates := res.Records
	for i := range creates {
		creates[i].ID = 0
	}

	applied, err := st.ApplyChanges(cmd.Context(), ledger.Changes{Creates: creates})
	if err != nil {
		return fmt.Errorf("%s: %w", name, err)
	}

	ids := make([]int64, len(applied.Created))
	for i, rec := range applied.Created {
		ids[i] = rec.ID
	}

	details := fmt.Sprintf("%s: %d added, %d skipped", name, res.Added(), res.Skipped())
	if err := ws.recordActivity("import", details, id.FormatRecordList(ids)); err != nil {
		return err
	}

	fmt.Println(details)
	for _, rowErr := range res.Errors {
		fmt.Printf("  skipped %v\n", rowErr)
	}
	return nil
}
