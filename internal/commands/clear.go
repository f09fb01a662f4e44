package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newClearCommand() *cobra.Command {
	var dir string
	var force bool

	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Delete every transaction in the ledger",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !force {
				return fmt.Errorf("refusing to delete all rows without --force")
			}

			ws, err := openWorkspace(dir)
			if err != nil {
				return err
			}

			session, closeStore, err := ws.OpenSession()
			if err != nil {
				return err
			}
			defer closeStore()

			applied, err := session.Clear(cmd.Context())
			if err != nil {
				return err
			}

			details := fmt.Sprintf("%d rows deleted", applied.Deleted)
			if err := ws.recordActivity("clear", details, ""); err != nil {
				return err
			}

			fmt.Println(details)
			return nil
		},
	}

	addDirFlag(cmd, &dir)
	cmd.Flags().BoolVar(&force, "force", false, "confirm deleting every row")

	return cmd
}
