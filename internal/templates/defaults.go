package templates

import "github.com/shopspring/decimal"

// DefaultTemplates returns the starter template set written by init.
func DefaultTemplates() []Template {
	return []Template{
		{Name: "Salary", Category: "Salary", Amount: decimal.NewFromInt(2500)},
		{Name: "Rent", Category: "Rent", Amount: decimal.NewFromInt(-1200)},
		{Name: "Utilities", Category: "Utilities", Amount: decimal.NewFromInt(-180)},
		{Name: "Groceries", Category: "Groceries", Amount: decimal.NewFromInt(-90)},
		{Name: "Transfer", Category: "Transfer", Amount: decimal.Zero},
		{Name: "PAYE", Category: "PAYE", Amount: decimal.NewFromInt(-650)},
		{Name: "UIF", Category: "UIF", Amount: decimal.NewFromInt(-120)},
		{Name: "VAT Output", Category: "VAT Output", Amount: decimal.NewFromInt(300)},
		{Name: "VAT Input", Category: "VAT Input", Amount: decimal.NewFromInt(-180)},
	}
}
