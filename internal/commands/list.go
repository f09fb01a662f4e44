package commands

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/bankentry-dev/bankentry/internal/ledger"
	"github.com/bankentry-dev/bankentry/internal/money"
)

func newListCommand() *cobra.Command {
	var dir string
	var opening string
	var filters filterFlags

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List transactions with running balances",
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

			view, err := session.View(cmd.Context(), filter)
			if err != nil {
				return err
			}

			tw := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "ID\tDATE\tDESCRIPTION\tCATEGORY\tAMOUNT\tRUNNING\tVERIFIED\tNOTE")
			for _, line := range ledger.WithRunning(view.Records, open) {
				verified := ""
				if line.Verified {
					verified = "yes"
				}
				fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
					line.ID, line.Date, line.Description, line.Category,
					money.Format(line.Amount), money.Format(line.Running), verified, line.ReviewNote)
			}
			if err := tw.Flush(); err != nil {
				return err
			}

			totals := ledger.Sum(view.Records, open)
			fmt.Printf("\n%d rows (%d verified)  income %s  expense %s  net %s  closing %s\n",
				totals.Rows, totals.Verified, money.Format(totals.Income),
				money.Format(totals.Expense), money.Format(totals.Net), money.Format(totals.Closing))

			if target, err := ws.Config.Balances.TargetClosingBalance(); err == nil && target != nil {
				fmt.Printf("target closing %s (delta %s)\n", money.Format(*target), money.Format(totals.Delta(*target)))
			}
			return nil
		},
	}

	addDirFlag(cmd, &dir)
	cmd.Flags().StringVar(&opening, "opening", "", "opening balance (defaults to the workspace config)")
	filters.register(cmd)

	return cmd
}

// openingBalance resolves the opening balance: flag first, config second.
func openingBalance(ws *Workspace, flag string) (decimal.Decimal, error) {
	if flag != "" {
		return money.Parse(flag)
	}
	return ws.Config.Balances.OpeningBalance()
}
