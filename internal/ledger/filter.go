package ledger

import (
	"strings"

	"github.com/shopspring/decimal"

	"github.com/bankentry-dev/bankentry/internal/model"
)

// Verification selects records by their verified flag.
type Verification string

const (
	VerifiedAny    Verification = "any"
	VerifiedOnly   Verification = "verified"
	UnverifiedOnly Verification = "unverified"
)

// Kind selects records by the sign of their amount.
type Kind string

const (
	KindAll     Kind = "all"
	KindIncome  Kind = "income"  // amount > 0
	KindExpense Kind = "expense" // amount < 0
)

// Filter narrows a dataset to a view. The zero value matches every record.
// Date bounds are inclusive and compare on the canonical form only.
type Filter struct {
	DateFrom    string
	DateTo      string
	Categories  []string // exact match, any-of; empty = any
	Verified    Verification
	Description string // case-insensitive substring
	Query       string // case-insensitive substring across all text fields
	MinAmount   *decimal.Decimal
	MaxAmount   *decimal.Decimal
	Kind        Kind
}

// Apply returns the matching records ordered by date then id. The dataset
// is not mutated and no state is retained.
func (f Filter) Apply(ds Dataset) []model.Record {
	var out []model.Record
	for _, rec := range ds.Records {
		if f.matches(rec) {
			out = append(out, rec)
		}
	}
	Sort(out)
	return out
}

func (f Filter) matches(rec model.Record) bool {
	if f.DateFrom != "" && rec.Date < f.DateFrom {
		return false
	}
	if f.DateTo != "" && rec.Date > f.DateTo {
		return false
	}

	if len(f.Categories) > 0 {
		found := false
		for _, c := range f.Categories {
			if rec.Category == c {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}

	switch f.Verified {
	case VerifiedOnly:
		if !rec.Verified {
			return false
		}
	case UnverifiedOnly:
		if rec.Verified {
			return false
		}
	}

	if f.Description != "" && !containsFold(rec.Description, f.Description) {
		return false
	}

	if f.Query != "" {
		if !containsFold(rec.Description, f.Query) &&
			!containsFold(rec.Category, f.Query) &&
			!containsFold(rec.Date, f.Query) &&
			!containsFold(rec.ReviewNote, f.Query) {
			return false
		}
	}

	if f.MinAmount != nil && rec.Amount.LessThan(*f.MinAmount) {
		return false
	}
	if f.MaxAmount != nil && rec.Amount.GreaterThan(*f.MaxAmount) {
		return false
	}

	switch f.Kind {
	case KindIncome:
		if rec.Amount.Sign() <= 0 {
			return false
		}
	case KindExpense:
		if rec.Amount.Sign() >= 0 {
			return false
		}
	}

	return true
}

func containsFold(haystack, needle string) bool {
	return strings.Contains(strings.ToLower(haystack), strings.ToLower(needle))
}
