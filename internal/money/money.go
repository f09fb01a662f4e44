package money

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// FormatError reports an amount string that could not be parsed as a decimal.
type FormatError struct {
	Input string
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("unparseable amount %q", e.Input)
}

// Parse converts a raw amount string into an exact decimal. It tolerates
// currency symbols, spaces, and both US ("1,234.56") and European
// ("1.234,56") separator conventions: when both separators appear, the
// rightmost one is the decimal point and the other is stripped as a
// thousands separator. A comma with no dot is treated as a decimal comma.
func Parse(s string) (decimal.Decimal, error) {
	cleaned := clean(s)
	if cleaned == "" {
		return decimal.Decimal{}, &FormatError{Input: s}
	}

	hasDot := strings.Contains(cleaned, ".")
	hasComma := strings.Contains(cleaned, ",")

	switch {
	case hasDot && hasComma:
		if strings.LastIndex(cleaned, ".") > strings.LastIndex(cleaned, ",") {
			cleaned = strings.ReplaceAll(cleaned, ",", "")
		} else {
			cleaned = strings.ReplaceAll(cleaned, ".", "")
			cleaned = strings.ReplaceAll(cleaned, ",", ".")
		}
	case hasComma:
		cleaned = strings.ReplaceAll(cleaned, ",", ".")
	}

	d, err := decimal.NewFromString(cleaned)
	if err != nil {
		return decimal.Decimal{}, &FormatError{Input: s}
	}
	return d, nil
}

// Round2 rounds to 2 decimal places, halves away from zero.
func Round2(d decimal.Decimal) decimal.Decimal {
	return d.Round(2)
}

// Format renders a fixed 2-place plain decimal string ("1200.00", "-90.50").
func Format(d decimal.Decimal) string {
	return d.StringFixed(2)
}

// clean keeps only digits, separators, and the sign.
func clean(s string) string {
	var b strings.Builder
	for _, r := range s {
		if (r >= '0' && r <= '9') || r == '.' || r == ',' || r == '-' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
