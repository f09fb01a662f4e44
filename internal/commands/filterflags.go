package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/bankentry-dev/bankentry/internal/dates"
	"github.com/bankentry-dev/bankentry/internal/ledger"
	"github.com/bankentry-dev/bankentry/internal/money"
)

// filterFlags collects the flag set shared by list, export, and merge.
type filterFlags struct {
	from       string
	to         string
	categories []string
	verified   string
	search     string
	query      string
	minAmount  string
	maxAmount  string
	kind       string
}

func (f *filterFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.from, "from", "", "inclusive start date")
	cmd.Flags().StringVar(&f.to, "to", "", "inclusive end date")
	cmd.Flags().StringSliceVar(&f.categories, "category", nil, "category filter (repeatable)")
	cmd.Flags().StringVar(&f.verified, "verified", "any", "verified filter: any|verified|unverified")
	cmd.Flags().StringVar(&f.search, "search", "", "substring match on description")
	cmd.Flags().StringVar(&f.query, "query", "", "substring match across all text fields")
	cmd.Flags().StringVar(&f.minAmount, "min", "", "minimum amount (inclusive)")
	cmd.Flags().StringVar(&f.maxAmount, "max", "", "maximum amount (inclusive)")
	cmd.Flags().StringVar(&f.kind, "kind", "all", "kind filter: all|income|expense")
}

// build validates the flag values and assembles the filter. Date bounds
// run through the workspace normalizer so "31-12-2025" works as a bound
// exactly as it does as a cell.
func (f *filterFlags) build(norm dates.Normalizer) (ledger.Filter, error) {
	out := ledger.Filter{
		Categories:  f.categories,
		Description: f.search,
		Query:       f.query,
	}

	var err error
	if f.from != "" {
		if out.DateFrom, err = norm.Normalize(f.from); err != nil {
			return ledger.Filter{}, fmt.Errorf("--from: %w", err)
		}
	}
	if f.to != "" {
		if out.DateTo, err = norm.Normalize(f.to); err != nil {
			return ledger.Filter{}, fmt.Errorf("--to: %w", err)
		}
	}

	switch f.verified {
	case "any":
		out.Verified = ledger.VerifiedAny
	case "verified":
		out.Verified = ledger.VerifiedOnly
	case "unverified":
		out.Verified = ledger.UnverifiedOnly
	default:
		return ledger.Filter{}, fmt.Errorf("--verified: unknown value %q", f.verified)
	}

	switch f.kind {
	case "all":
		out.Kind = ledger.KindAll
	case "income":
		out.Kind = ledger.KindIncome
	case "expense":
		out.Kind = ledger.KindExpense
	default:
		return ledger.Filter{}, fmt.Errorf("--kind: unknown value %q", f.kind)
	}

	if f.minAmount != "" {
		min, err := money.Parse(f.minAmount)
		if err != nil {
			return ledger.Filter{}, fmt.Errorf("--min: %w", err)
		}
		out.MinAmount = &min
	}
	if f.maxAmount != "" {
		max, err := money.Parse(f.maxAmount)
		if err != nil {
			return ledger.Filter{}, fmt.Errorf("--max: %w", err)
		}
		out.MaxAmount = &max
	}

	return out, nil
}
