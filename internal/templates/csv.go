package templates

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/shopspring/decimal"

	"github.com/bankentry-dev/bankentry/internal/money"
)

const (
	numFields   = 4
	colName     = 0
	colCategory = 1
	colAmount   = 2
	colVerified = 3
)

// ReadTemplates reads recurring.csv.
func ReadTemplates(r io.Reader) ([]Template, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = numFields

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading templates CSV: %w", err)
	}

	if len(records) == 0 {
		return nil, nil
	}

	var tmpls []Template
	for i, rec := range records[1:] {
		tmpl, err := UnmarshalTemplate(rec)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}
		tmpls = append(tmpls, tmpl)
	}
	return tmpls, nil
}

// WriteTemplates writes recurring.csv.
func WriteTemplates(w io.Writer, tmpls []Template) error {
	cw := csv.NewWriter(w)
	defer cw.Flush()

	if err := cw.Write([]string{"name", "category", "amount", "verified"}); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}

	for i, tmpl := range tmpls {
		if err := cw.Write(MarshalTemplate(tmpl)); err != nil {
			return fmt.Errorf("writing row %d: %w", i+2, err)
		}
	}
	return cw.Error()
}

// MarshalTemplate converts a Template to a CSV row.
func MarshalTemplate(tmpl Template) []string {
	row := make([]string, numFields)
	row[colName] = tmpl.Name
	row[colCategory] = tmpl.Category
	row[colAmount] = money.Format(tmpl.Amount)
	row[colVerified] = strconv.FormatBool(tmpl.Verified)
	return row
}

// UnmarshalTemplate converts a CSV row to a Template.
func UnmarshalTemplate(record []string) (Template, error) {
	if len(record) != numFields {
		return Template{}, fmt.Errorf("expected %d fields, got %d", numFields, len(record))
	}

	amount, err := decimal.NewFromString(record[colAmount])
	if err != nil {
		return Template{}, fmt.Errorf("parsing amount %q: %w", record[colAmount], err)
	}

	verified := false
	if record[colVerified] != "" {
		verified, err = strconv.ParseBool(record[colVerified])
		if err != nil {
			return Template{}, fmt.Errorf("parsing verified %q: %w", record[colVerified], err)
		}
	}

	return Template{
		Name:     record[colName],
		Category: record[colCategory],
		Amount:   amount,
		Verified: verified,
	}, nil
}
