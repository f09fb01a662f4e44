package ledger

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/bankentry-dev/bankentry/internal/money"
)

// Header is the canonical CSV header for ledger exports. The running
// column is derived on export and ignored on import.
const Header = "id,date,description,category,amount,running,verified,review_note"

const (
	numFields     = 8
	colID         = 0
	colDate       = 1
	colDesc       = 2
	colCategory   = 3
	colAmount     = 4
	colRunning    = 5
	colVerified   = 6
	colReviewNote = 7
)

// WriteRecords writes balance lines as the canonical export, header
// included, in the order given.
func WriteRecords(w io.Writer, records []Line) error {
	cw := csv.NewWriter(w)
	defer cw.Flush()

	if err := cw.Write(strings.Split(Header, ",")); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}

	for i, line := range records {
		if err := cw.Write(MarshalLine(line)); err != nil {
			return fmt.Errorf("writing row %d: %w", i+2, err)
		}
	}
	return cw.Error()
}

// Export sorts, derives running balances, and writes the canonical CSV.
func Export(w io.Writer, ds Dataset, f Filter, opening decimal.Decimal) error {
	return WriteRecords(w, WithRunning(f.Apply(ds), opening))
}

// MarshalLine converts a balance line to a CSV row.
func MarshalLine(line Line) []string {
	row := make([]string, numFields)
	row[colID] = strconv.FormatInt(line.ID, 10)
	row[colDate] = line.Date
	row[colDesc] = line.Description
	row[colCategory] = line.Category
	row[colAmount] = money.Format(line.Amount)
	row[colRunning] = money.Format(line.Running)
	row[colVerified] = strconv.FormatBool(line.Verified)
	row[colReviewNote] = line.ReviewNote
	return row
}
