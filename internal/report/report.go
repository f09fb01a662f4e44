// Package report derives bookkeeping summaries from ledger records.
// Category names drive the tax figures: rows categorized with names like
// "VAT Output", "VAT Input", "PAYE", "UIF", or "SDL" feed the matching
// totals.
package report

import (
	"sort"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/bankentry-dev/bankentry/internal/model"
)

// Category substrings recognized per figure, matched case-insensitively.
var (
	outputVATPatterns = []string{"vat output", "output vat", "vat sale"}
	inputVATPatterns  = []string{"vat input", "input vat", "vat expense"}
	payePatterns      = []string{"paye"}
	uifPatterns       = []string{"uif"}
	sdlPatterns       = []string{"sdl"}
)

// TaxSummary aggregates the tax-relevant figures over a record set.
type TaxSummary struct {
	GrossIncome        decimal.Decimal
	DeductibleExpenses decimal.Decimal // sum of negative amounts, itself <= 0
	OutputVAT          decimal.Decimal
	InputVAT           decimal.Decimal
	VATPayable         decimal.Decimal // OutputVAT + InputVAT
	PAYE               decimal.Decimal
	UIF                decimal.Decimal
	SDL                decimal.Decimal
}

// Tax summarizes records by amount sign and category pattern.
func Tax(records []model.Record) TaxSummary {
	s := TaxSummary{
		GrossIncome:        decimal.Zero,
		DeductibleExpenses: decimal.Zero,
		OutputVAT:          decimal.Zero,
		InputVAT:           decimal.Zero,
		PAYE:               decimal.Zero,
		UIF:                decimal.Zero,
		SDL:                decimal.Zero,
	}

	for _, rec := range records {
		switch {
		case rec.Amount.Sign() > 0:
			s.GrossIncome = s.GrossIncome.Add(rec.Amount)
		case rec.Amount.Sign() < 0:
			s.DeductibleExpenses = s.DeductibleExpenses.Add(rec.Amount)
		}

		category := strings.ToLower(rec.Category)
		if matchesAny(category, outputVATPatterns) {
			s.OutputVAT = s.OutputVAT.Add(rec.Amount)
		}
		if matchesAny(category, inputVATPatterns) {
			s.InputVAT = s.InputVAT.Add(rec.Amount)
		}
		if matchesAny(category, payePatterns) {
			s.PAYE = s.PAYE.Add(rec.Amount)
		}
		if matchesAny(category, uifPatterns) {
			s.UIF = s.UIF.Add(rec.Amount)
		}
		if matchesAny(category, sdlPatterns) {
			s.SDL = s.SDL.Add(rec.Amount)
		}
	}

	s.VATPayable = s.OutputVAT.Add(s.InputVAT)
	return s
}

func matchesAny(category string, patterns []string) bool {
	for _, p := range patterns {
		if strings.Contains(category, p) {
			return true
		}
	}
	return false
}

// MonthNet is the net amount for one calendar month.
type MonthNet struct {
	Month string // "2025-01"
	Net   decimal.Decimal
}

// MonthlyNet sums record amounts per month, sorted chronologically.
// Records carry canonical YYYY/MM/DD dates, so the month is a prefix.
func MonthlyNet(records []model.Record) []MonthNet {
	byMonth := make(map[string]decimal.Decimal)
	for _, rec := range records {
		if len(rec.Date) < 7 {
			continue
		}
		month := strings.ReplaceAll(rec.Date[:7], "/", "-")
		byMonth[month] = byMonth[month].Add(rec.Amount)
	}

	out := make([]MonthNet, 0, len(byMonth))
	for month, net := range byMonth {
		out = append(out, MonthNet{Month: month, Net: net})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Month < out[j].Month })
	return out
}
