package importer

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bankentry-dev/bankentry/internal/dates"
	"github.com/bankentry-dev/bankentry/internal/model"
)

func TestStructured_Parse(t *testing.T) {
	input := strings.Join([]string{
		"Date,Description,Category,Amount",
		"01/11/2025,Salary,Salary,2500",
		"03/11/2025,Rent,Housing,-1200.00",
	}, "\n")

	p := &Structured{Norm: dates.Default()}
	res, err := p.Parse(strings.NewReader(input))
	require.NoError(t, err)

	require.Equal(t, 2, res.Added())
	assert.Equal(t, 0, res.Skipped())

	assert.Equal(t, "2025/11/01", res.Records[0].Date, "day-first by default")
	assert.Equal(t, "Salary", res.Records[0].Description)
	assert.Equal(t, "2500.00", res.Records[0].Amount.StringFixed(2))
	assert.Equal(t, "Housing", res.Records[1].Category)
}

func TestStructured_BadRowDoesNotAbortBatch(t *testing.T) {
	input := strings.Join([]string{
		"date,description,amount",
		"13/13/2025,desc,1.00",
		"05/11/2025,Groceries,-90",
	}, "\n")

	p := &Structured{Norm: dates.Default()}
	res, err := p.Parse(strings.NewReader(input))
	require.NoError(t, err)

	require.Equal(t, 1, res.Added())
	assert.Equal(t, "Groceries", res.Records[0].Description)

	require.Len(t, res.Errors, 1)
	assert.Equal(t, 2, res.Errors[0].Line)
	var dateErr *dates.FormatError
	assert.ErrorAs(t, res.Errors[0], &dateErr)
}

func TestStructured_DetailsAliasAndExtraColumns(t *testing.T) {
	input := strings.Join([]string{
		"Date,Details,Amount,Running",
		"2025/11/01,Card payment,-45.50,954.50",
	}, "\n")

	p := &Structured{Norm: dates.Default()}
	res, err := p.Parse(strings.NewReader(input))
	require.NoError(t, err)

	require.Equal(t, 1, res.Added())
	assert.Equal(t, "Card payment", res.Records[0].Description)
	assert.Equal(t, model.CategoryUncategorized, res.Records[0].Category)
}

func TestStructured_OptionalColumns(t *testing.T) {
	input := strings.Join([]string{
		"id,date,description,category,amount,verified,review_note",
		"7,2025/11/01,Salary,Salary,2500,yes,checked against payslip",
	}, "\n")

	p := &Structured{Norm: dates.Default()}
	res, err := p.Parse(strings.NewReader(input))
	require.NoError(t, err)

	require.Equal(t, 1, res.Added())
	rec := res.Records[0]
	assert.Equal(t, int64(7), rec.ID)
	assert.True(t, rec.Verified)
	assert.Equal(t, "checked against payslip", rec.ReviewNote)
}

func TestStructured_MissingRequiredColumn(t *testing.T) {
	p := &Structured{Norm: dates.Default()}
	_, err := p.Parse(strings.NewReader("date,category\n2025/11/01,Food\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "description")
	assert.Contains(t, err.Error(), "amount")
}

func TestStructured_EmptyInput(t *testing.T) {
	p := &Structured{Norm: dates.Default()}
	res, err := p.Parse(strings.NewReader(""))
	require.NoError(t, err)
	assert.Equal(t, 0, res.Added())
}

func TestFreeform_TabSeparated(t *testing.T) {
	p := &Freeform{Norm: dates.Default()}
	res, err := p.Parse(strings.NewReader("01/11/2025\tSalary\t1200\n"))
	require.NoError(t, err)

	require.Equal(t, 1, res.Added())
	assert.Equal(t, "2025/11/01", res.Records[0].Date)
	assert.Equal(t, "Salary", res.Records[0].Description)
	assert.Equal(t, "1200.00", res.Records[0].Amount.StringFixed(2))
}

func TestFreeform_MixedShapes(t *testing.T) {
	input := strings.Join([]string{
		"2025/11/01,Coffee,-4.50",
		"03/11/2025   Weekly groceries   -90.25",
		"04/11/2025 Transfer from savings 250",
		"",
		"not a transaction at all",
	}, "\n")

	p := &Freeform{Norm: dates.Default()}
	res, err := p.Parse(strings.NewReader(input))
	require.NoError(t, err)

	require.Equal(t, 3, res.Added())
	assert.Equal(t, "Coffee", res.Records[0].Description)
	assert.Equal(t, "Weekly groceries", res.Records[1].Description)
	assert.Equal(t, "Transfer from savings", res.Records[2].Description)
	assert.Equal(t, "250.00", res.Records[2].Amount.StringFixed(2))

	require.Len(t, res.Errors, 1)
	assert.Equal(t, 5, res.Errors[0].Line)
}

func TestFreeform_TokensUseLastAsAmount(t *testing.T) {
	p := &Freeform{Norm: dates.Default()}
	res, err := p.Parse(strings.NewReader("05/11/2025 Dinner with two guests -62.80\n"))
	require.NoError(t, err)

	require.Equal(t, 1, res.Added())
	assert.Equal(t, "Dinner with two guests", res.Records[0].Description)
	assert.Equal(t, "-62.80", res.Records[0].Amount.StringFixed(2))
}

func TestRegistry(t *testing.T) {
	reg := DefaultRegistry(dates.Default())

	assert.NotNil(t, reg.Get("csv"))
	assert.NotNil(t, reg.Get("LINES"), "lookup is case-insensitive")
	assert.Nil(t, reg.Get("ofx"))

	assert.Panics(t, func() { reg.Register(&Structured{}) }, "duplicate format")
}

func TestScanAndMarkProcessed(t *testing.T) {
	workspace := t.TempDir()
	dir := filepath.Join(workspace, "import")
	require.NoError(t, os.MkdirAll(dir, 0o755))

	require.NoError(t, os.WriteFile(filepath.Join(dir, "statement.csv"), []byte("date,description,amount\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("ignored"), 0o644))

	files, err := Scan(workspace)
	require.NoError(t, err)
	require.Len(t, files, 1)
	assert.Equal(t, "statement.csv", files[0].Name)

	require.NoError(t, MarkProcessed(workspace, "statement.csv"))

	files, err = Scan(workspace)
	require.NoError(t, err)
	assert.Empty(t, files)

	_, err = os.Stat(filepath.Join(workspace, "import", "processed", "statement.csv"))
	assert.NoError(t, err)
}

func TestScan_NoImportDir(t *testing.T) {
	files, err := Scan(t.TempDir())
	require.NoError(t, err)
	assert.Nil(t, files)
}
