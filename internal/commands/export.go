package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func newExportCommand() *cobra.Command {
	var dir string
	var opening string
	var output string
	var filters filterFlags

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export transactions as canonical CSV",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ws, err := openWorkspace(dir)
			if err != nil {
				return err
			}

			norm, err := ws.Normalizer()
			if err != nil {
				return err
			}
			filter, err := filters.build(norm)
			if err != nil {
				return err
			}

			open, err := openingBalance(ws, opening)
			if err != nil {
				return err
			}

			session, closeStore, err := ws.OpenSession()
			if err != nil {
				return err
			}
			defer closeStore()

			w := cmd.OutOrStdout()
			if output != "" {
				f, err := os.Create(output)
				if err != nil {
					return fmt.Errorf("creating %s: %w", output, err)
				}
				defer f.Close()
				w = f
			}

			return session.ExportCSV(cmd.Context(), w, filter, open)
		},
	}

	addDirFlag(cmd, &dir)
	cmd.Flags().StringVarP(&output, "output", "o", "", "write to a file instead of stdout")
	cmd.Flags().StringVar(&opening, "opening", "", "opening balance (defaults to the workspace config)")
	filters.register(cmd)

	return cmd
}
