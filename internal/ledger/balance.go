package ledger

import (
	"github.com/shopspring/decimal"

	"github.com/bankentry-dev/bankentry/internal/model"
)

// Line pairs a record with its running balance.
type Line struct {
	model.Record
	Running decimal.Decimal
}

// WithRunning derives each row's balance from the opening balance, in the
// order given. Callers sort first; each row's Running includes its own
// amount.
func WithRunning(records []model.Record, opening decimal.Decimal) []Line {
	lines := make([]Line, len(records))
	running := opening
	for i, rec := range records {
		running = running.Add(rec.Amount)
		lines[i] = Line{Record: rec, Running: running}
	}
	return lines
}

// Totals summarizes a record set against an opening balance.
type Totals struct {
	Rows     int
	Verified int
	Income   decimal.Decimal
	Expense  decimal.Decimal // sum of negative amounts, itself <= 0
	Net      decimal.Decimal
	Opening  decimal.Decimal
	Closing  decimal.Decimal
}

// Sum computes totals for records. Zero amounts count in Rows only.
func Sum(records []model.Record, opening decimal.Decimal) Totals {
	t := Totals{
		Rows:    len(records),
		Income:  decimal.Zero,
		Expense: decimal.Zero,
		Opening: opening,
	}
	for _, rec := range records {
		switch {
		case rec.Amount.Sign() > 0:
			t.Income = t.Income.Add(rec.Amount)
		case rec.Amount.Sign() < 0:
			t.Expense = t.Expense.Add(rec.Amount)
		}
		if rec.Verified {
			t.Verified++
		}
	}
	t.Net = t.Income.Add(t.Expense)
	t.Closing = opening.Add(t.Net)
	return t
}

// Delta returns how far the closing balance sits from a target balance.
func (t Totals) Delta(target decimal.Decimal) decimal.Decimal {
	return target.Sub(t.Closing)
}
