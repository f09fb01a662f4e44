package dates

import (
	"fmt"
	"strings"
	"time"
)

// Canonical is the layout every normalized date is rendered in.
// Zero-padded, so lexicographic order equals chronological order.
const Canonical = "2006/01/02"

// Mode controls how ambiguous day/month inputs are resolved.
type Mode string

const (
	// ModeDual tries the preferred order first, then the other order.
	ModeDual Mode = "dual"
	// ModeStrict only tries the preferred order's layouts.
	ModeStrict Mode = "strict"
)

// Order is the preferred day/month position in separator-delimited dates.
type Order string

const (
	DayFirst   Order = "day_first"
	MonthFirst Order = "month_first"
)

// FormatError reports a date string no candidate layout accepted.
type FormatError struct {
	Input string
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("unrecognized date %q", e.Input)
}

// Year-first layouts are unambiguous and accepted in every mode.
// Non-padded layout elements accept both "01/11/2025" and "1/11/2025".
var isoLayouts = []string{
	"2006/1/2",
	"2006-1-2",
	"2006.1.2",
	"20060102",
}

var dayFirstLayouts = []string{
	"2/1/2006",
	"2-1-2006",
	"2.1.2006",
	"2/1/06",
	"2-1-06",
	"2.1.06",
}

var monthFirstLayouts = []string{
	"1/2/2006",
	"1-2-2006",
}

// Normalizer converts assorted bank-export date forms to Canonical.
type Normalizer struct {
	Mode      Mode
	Preferred Order
}

// Default matches the historical behavior: try day-first, fall back to
// month-first when the day slot is out of range.
func Default() Normalizer {
	return Normalizer{Mode: ModeDual, Preferred: DayFirst}
}

// Normalize parses s against the candidate layouts in order and returns the
// canonical YYYY/MM/DD form of the first valid calendar date.
func (n Normalizer) Normalize(s string) (string, error) {
	trimmed := strings.TrimSpace(s)
	if trimmed == "" {
		return "", &FormatError{Input: s}
	}

	for _, layout := range n.layouts() {
		t, err := time.Parse(layout, trimmed)
		if err != nil {
			continue
		}
		return t.Format(Canonical), nil
	}
	return "", &FormatError{Input: s}
}

func (n Normalizer) layouts() []string {
	preferred, other := dayFirstLayouts, monthFirstLayouts
	if n.Preferred == MonthFirst {
		preferred, other = monthFirstLayouts, dayFirstLayouts
	}

	candidates := make([]string, 0, len(isoLayouts)+len(preferred)+len(other))
	candidates = append(candidates, isoLayouts...)
	candidates = append(candidates, preferred...)
	if n.Mode != ModeStrict {
		candidates = append(candidates, other...)
	}
	return candidates
}
