package model

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bankentry-dev/bankentry/internal/dates"
	"github.com/bankentry-dev/bankentry/internal/money"
)

func dec(s string) decimal.Decimal {
	d, _ := decimal.NewFromString(s)
	return d
}

func TestNewRecord(t *testing.T) {
	norm := dates.Default()

	rec, err := NewRecord(Draft{
		Date:        "01/11/2025",
		Description: "  Monthly   salary ",
		Category:    "Salary",
		Amount:      "R 2,500.00",
		Verified:    true,
		ReviewNote:  " looks right ",
	}, norm)
	require.NoError(t, err)

	assert.Equal(t, int64(0), rec.ID)
	assert.Equal(t, "2025/11/01", rec.Date)
	assert.Equal(t, "Monthly salary", rec.Description)
	assert.Equal(t, "Salary", rec.Category)
	assert.True(t, rec.Amount.Equal(dec("2500")), "got %s", rec.Amount)
	assert.True(t, rec.Verified)
	assert.Equal(t, "looks right", rec.ReviewNote)
}

func TestNewRecord_DefaultsCategory(t *testing.T) {
	rec, err := NewRecord(Draft{Date: "2025/01/05", Description: "Coffee", Amount: "-4.50"}, dates.Default())
	require.NoError(t, err)
	assert.Equal(t, CategoryUncategorized, rec.Category)

	rec, err = NewRecord(Draft{Date: "2025/01/05", Description: "Coffee", Category: "   ", Amount: "-4.50"}, dates.Default())
	require.NoError(t, err)
	assert.Equal(t, CategoryUncategorized, rec.Category)
}

func TestNewRecord_RoundsAmount(t *testing.T) {
	rec, err := NewRecord(Draft{Date: "2025/01/05", Description: "Interest", Amount: "1.005"}, dates.Default())
	require.NoError(t, err)
	assert.Equal(t, "1.01", money.Format(rec.Amount))
}

func TestNewRecord_MissingFields(t *testing.T) {
	norm := dates.Default()
	tests := []struct {
		name  string
		draft Draft
		field string
	}{
		{"no date", Draft{Description: "x", Amount: "1"}, "date"},
		{"no description", Draft{Date: "2025/01/05", Amount: "1"}, "description"},
		{"blank description", Draft{Date: "2025/01/05", Description: "    ", Amount: "1"}, "description"},
		{"no amount", Draft{Date: "2025/01/05", Description: "x"}, "amount"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewRecord(tt.draft, norm)
			var verr *ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Equal(t, tt.field, verr.Field)
		})
	}
}

func TestNewRecord_FormatErrors(t *testing.T) {
	norm := dates.Default()

	_, err := NewRecord(Draft{Date: "not a date", Description: "x", Amount: "1"}, norm)
	var derr *dates.FormatError
	require.ErrorAs(t, err, &derr)
	assert.Equal(t, "not a date", derr.Input)

	_, err = NewRecord(Draft{Date: "2025/01/05", Description: "x", Amount: "~~"}, norm)
	var merr *money.FormatError
	require.ErrorAs(t, err, &merr)
	assert.Equal(t, "~~", merr.Input)
}

func TestRecordEqual(t *testing.T) {
	a := Record{ID: 2, Date: "2025/01/05", Description: "Coffee", Category: "Food", Amount: dec("-90")}
	b := a
	b.Amount = dec("-90.00")
	assert.True(t, a.Equal(b), "amounts compare by value")

	b.Description = "Tea"
	assert.False(t, a.Equal(b))
}

func TestParseVerified(t *testing.T) {
	for _, s := range []string{"true", "YES", "y", "1", " Y "} {
		got, err := ParseVerified(s)
		require.NoError(t, err, "input %q", s)
		assert.True(t, got, "input %q", s)
	}
	for _, s := range []string{"", "false", "No", "n", "0"} {
		got, err := ParseVerified(s)
		require.NoError(t, err, "input %q", s)
		assert.False(t, got, "input %q", s)
	}
	_, err := ParseVerified("maybe")
	assert.Error(t, err)
}
