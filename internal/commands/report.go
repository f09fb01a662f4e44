package commands

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/bankentry-dev/bankentry/internal/money"
	"github.com/bankentry-dev/bankentry/internal/report"
)

func newReportCommand() *cobra.Command {
	var dir string
	var monthly bool

	cmd := &cobra.Command{
		Use:   "report",
		Short: "Print the bookkeeping and tax summary",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ws, err := openWorkspace(dir)
			if err != nil {
				return err
			}

			st, err := ws.OpenStore()
			if err != nil {
				return err
			}
			defer st.Close()

			ds, err := st.ReadAll(cmd.Context())
			if err != nil {
				return err
			}

			tw := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
			defer tw.Flush()

			if monthly {
				fmt.Fprintln(tw, "MONTH\tNET")
				for _, mn := range report.MonthlyNet(ds.Records) {
					fmt.Fprintf(tw, "%s\t%s\n", mn.Month, money.Format(mn.Net))
				}
				return nil
			}

			s := report.Tax(ds.Records)
			fmt.Fprintf(tw, "Gross income\t%s\n", money.Format(s.GrossIncome))
			fmt.Fprintf(tw, "Deductible expenses\t%s\n", money.Format(s.DeductibleExpenses))
			fmt.Fprintf(tw, "Output VAT\t%s\n", money.Format(s.OutputVAT))
			fmt.Fprintf(tw, "Input VAT\t%s\n", money.Format(s.InputVAT))
			fmt.Fprintf(tw, "Estimated VAT payable\t%s\n", money.Format(s.VATPayable))
			fmt.Fprintf(tw, "PAYE total\t%s\n", money.Format(s.PAYE))
			fmt.Fprintf(tw, "UIF total\t%s\n", money.Format(s.UIF))
			fmt.Fprintf(tw, "SDL total\t%s\n", money.Format(s.SDL))
			return nil
		},
	}

	addDirFlag(cmd, &dir)
	cmd.Flags().BoolVar(&monthly, "monthly", false, "print the monthly net trend instead")

	return cmd
}
