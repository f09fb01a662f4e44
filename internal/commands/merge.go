package commands

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/bankentry-dev/bankentry/internal/id"
	"github.com/bankentry-dev/bankentry/internal/importer"
	"github.com/bankentry-dev/bankentry/internal/ledger"
)

func newMergeCommand() *cobra.Command {
	var dir string
	var dryRun bool
	var filters filterFlags

	cmd := &cobra.Command{
		Use:   "merge <edited.csv>",
		Short: "Merge an edited export back into the ledger",
		Long: `Merge an edited CSV back into the ledger by identity. The filter flags
must describe the same view the file was exported with: only rows that
were visible in that view may be deleted by their absence. Rows keeping
their id become updates, rows without an id become creates, and edited
rows whose id has since vanished from the ledger abort the merge.`,
		Args: cobra.ExactArgs(1),
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

			f, err := os.Open(args[0])
			if err != nil {
				return fmt.Errorf("opening %s: %w", args[0], err)
			}
			defer f.Close()

			parser := &importer.Structured{Norm: norm}
			res, err := parser.Parse(f)
			if err != nil {
				return fmt.Errorf("%s: %w", args[0], err)
			}
			// A rejected row is absent from the edited set, and absence
			// reads as deletion. Nothing merges until every row parses.
			if len(res.Errors) > 0 {
				for _, rowErr := range res.Errors {
					fmt.Fprintf(cmd.ErrOrStderr(), "bad row: %v\n", rowErr)
				}
				return fmt.Errorf("%s: %d rows failed to parse; nothing merged", args[0], len(res.Errors))
			}

			session, closeStore, err := ws.OpenSession()
			if err != nil {
				return err
			}
			defer closeStore()

			view, err := session.View(cmd.Context(), filter)
			if err != nil {
				return err
			}

			if dryRun {
				ch, err := session.Preview(cmd.Context(), view, res.Records)
				if err != nil {
					return describeConflict(err)
				}
				fmt.Printf("Would apply: %d creates, %d updates, %d deletes\n",
					len(ch.Creates), len(ch.Updates), len(ch.Deletes))
				return nil
			}

			applied, err := session.Merge(cmd.Context(), view, res.Records)
			if err != nil {
				return describeConflict(err)
			}

			ids := make([]int64, len(applied.Created))
			for i, rec := range applied.Created {
				ids[i] = rec.ID
			}
			details := fmt.Sprintf("%s: %d created, %d updated, %d deleted",
				args[0], len(applied.Created), applied.Updated, applied.Deleted)
			if err := ws.recordActivity("merge", details, id.FormatRecordList(ids)); err != nil {
				return err
			}

			fmt.Println(details)
			return nil
		},
	}

	addDirFlag(cmd, &dir)
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "report the changes without applying them")
	filters.register(cmd)

	return cmd
}

func describeConflict(err error) error {
	var conflict *ledger.ConflictError
	if errors.As(err, &conflict) {
		return fmt.Errorf("merge aborted, nothing applied: edited rows reference ids missing from the ledger (%s)",
			id.FormatRecordList(conflict.IDs))
	}
	return err
}
