package importer

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/bankentry-dev/bankentry/internal/dates"
	"github.com/bankentry-dev/bankentry/internal/model"
)

// Structured parses header-mapped CSV exports. Column names are matched
// case-insensitively; "details" is accepted as a description alias and
// unknown columns (such as a running-balance column) are ignored. Date,
// description, and amount are required; id, category, verified, and
// review_note are honored when present.
type Structured struct {
	Norm dates.Normalizer
}

// Format returns the parser name.
func (p *Structured) Format() string { return "csv" }

type columnMap struct {
	id, date, desc, category, amount, verified, note int
}

// Parse reads the whole CSV, collecting one RowError per bad row and
// continuing. Only a missing or unusable header aborts.
func (p *Structured) Parse(r io.Reader) (Result, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return Result{}, nil
	}
	if err != nil {
		return Result{}, fmt.Errorf("reading header: %w", err)
	}

	cols, err := mapColumns(header)
	if err != nil {
		return Result{}, err
	}

	var res Result
	for line := 2; ; line++ {
		row, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			res.Errors = append(res.Errors, RowError{Line: line, Err: err})
			continue
		}

		rec, err := p.parseRow(cols, row)
		if err != nil {
			res.Errors = append(res.Errors, RowError{Line: line, Err: err})
			continue
		}
		res.Records = append(res.Records, rec)
	}
	return res, nil
}

func mapColumns(header []string) (columnMap, error) {
	cols := columnMap{id: -1, date: -1, desc: -1, category: -1, amount: -1, verified: -1, note: -1}
	for i, name := range header {
		switch strings.ToLower(strings.TrimSpace(name)) {
		case "id":
			cols.id = i
		case "date":
			cols.date = i
		case "description":
			cols.desc = i
		case "details":
			if cols.desc == -1 {
				cols.desc = i
			}
		case "category":
			cols.category = i
		case "amount":
			cols.amount = i
		case "verified":
			cols.verified = i
		case "review_note", "reviewnote":
			cols.note = i
		}
	}

	var missing []string
	if cols.date == -1 {
		missing = append(missing, "date")
	}
	if cols.desc == -1 {
		missing = append(missing, "description")
	}
	if cols.amount == -1 {
		missing = append(missing, "amount")
	}
	if len(missing) > 0 {
		return columnMap{}, fmt.Errorf("header missing required columns: %s", strings.Join(missing, ", "))
	}
	return cols, nil
}

func (p *Structured) parseRow(cols columnMap, row []string) (model.Record, error) {
	d := model.Draft{
		Date:        cell(row, cols.date),
		Description: cell(row, cols.desc),
		Category:    cell(row, cols.category),
		Amount:      cell(row, cols.amount),
		ReviewNote:  cell(row, cols.note),
	}

	if v := cell(row, cols.verified); v != "" {
		verified, err := model.ParseVerified(v)
		if err != nil {
			return model.Record{}, err
		}
		d.Verified = verified
	}

	if raw := cell(row, cols.id); raw != "" {
		id, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
		if err != nil || id < 1 {
			return model.Record{}, fmt.Errorf("invalid id %q", raw)
		}
		d.ID = id
	}

	return model.NewRecord(d, p.Norm)
}

// cell returns row[i], tolerating short rows and absent columns.
func cell(row []string, i int) string {
	if i < 0 || i >= len(row) {
		return ""
	}
	return row[i]
}
