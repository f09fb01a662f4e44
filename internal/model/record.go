package model

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/bankentry-dev/bankentry/internal/dates"
	"github.com/bankentry-dev/bankentry/internal/money"
)

// CategoryUncategorized is assigned when a record arrives with no category.
const CategoryUncategorized = "uncategorized"

// Record is a validated ledger row. Dates are canonical YYYY/MM/DD and
// amounts are exact decimals rounded to 2 places; negative = expense,
// positive = income. The id is assigned by the store on create and is
// never reused within a dataset's lifetime.
type Record struct {
	ID          int64           `json:"id"`
	Date        string          `json:"date"`
	Description string          `json:"description"`
	Category    string          `json:"category"`
	Amount      decimal.Decimal `json:"amount"`
	Verified    bool            `json:"verified"`
	ReviewNote  string          `json:"review_note"`
}

// Equal reports whether two records match field-wise. Amounts compare by
// value, so "90" and "90.00" are the same.
func (r Record) Equal(o Record) bool {
	return r.ID == o.ID &&
		r.Date == o.Date &&
		r.Description == o.Description &&
		r.Category == o.Category &&
		r.Amount.Equal(o.Amount) &&
		r.Verified == o.Verified &&
		r.ReviewNote == o.ReviewNote
}

// Draft holds raw field values before validation: form input, CSV cells,
// JSON bodies. ID == 0 means no identity yet (a candidate create).
type Draft struct {
	ID          int64
	Date        string
	Description string
	Category    string
	Amount      string
	Verified    bool
	ReviewNote  string
}

// ValidationError describes a missing or malformed required field.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

// NewRecord validates a draft into a record. The id carries over untouched;
// date and amount errors keep their own types so callers can distinguish a
// bad format from a missing field.
func NewRecord(d Draft, norm dates.Normalizer) (Record, error) {
	if strings.TrimSpace(d.Date) == "" {
		return Record{}, &ValidationError{Field: "date", Reason: "required"}
	}
	date, err := norm.Normalize(d.Date)
	if err != nil {
		return Record{}, err
	}

	desc := normalizeSpace(d.Description)
	if desc == "" {
		return Record{}, &ValidationError{Field: "description", Reason: "required"}
	}

	if strings.TrimSpace(d.Amount) == "" {
		return Record{}, &ValidationError{Field: "amount", Reason: "required"}
	}
	amount, err := money.Parse(d.Amount)
	if err != nil {
		return Record{}, err
	}

	category := normalizeSpace(d.Category)
	if category == "" {
		category = CategoryUncategorized
	}

	return Record{
		ID:          d.ID,
		Date:        date,
		Description: desc,
		Category:    category,
		Amount:      money.Round2(amount),
		Verified:    d.Verified,
		ReviewNote:  normalizeSpace(d.ReviewNote),
	}, nil
}

// ParseVerified interprets the flag spellings that show up in CSV cells.
// Empty means false.
func ParseVerified(s string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "false", "no", "n", "0":
		return false, nil
	case "true", "yes", "y", "1":
		return true, nil
	}
	return false, &ValidationError{Field: "verified", Reason: fmt.Sprintf("unrecognized flag %q", s)}
}

// normalizeSpace collapses whitespace runs (including NBSP) to single
// spaces and trims the ends.
func normalizeSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
