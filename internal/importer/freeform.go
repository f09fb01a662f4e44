package importer

import (
	"bufio"
	"encoding/csv"
	"fmt"
	"io"
	"regexp"
	"strings"

	"github.com/bankentry-dev/bankentry/internal/dates"
	"github.com/bankentry-dev/bankentry/internal/model"
)

// Freeform parses pasted statement lines with no fixed layout. Each line
// is tried as a CSV row, then tab-separated fields, then fields split on
// runs of two or more spaces, and finally as whitespace tokens with the
// last token as the amount. Blank lines are skipped; a line that fails
// every shape becomes a RowError.
type Freeform struct {
	Norm dates.Normalizer
}

// Format returns the parser name.
func (p *Freeform) Format() string { return "lines" }

var multiSpace = regexp.MustCompile(`\s{2,}`)

func (p *Freeform) Parse(r io.Reader) (Result, error) {
	var res Result

	sc := bufio.NewScanner(r)
	for line := 1; sc.Scan(); line++ {
		raw := strings.TrimSpace(sc.Text())
		if raw == "" {
			continue
		}

		rec, err := p.parseLine(raw)
		if err != nil {
			res.Errors = append(res.Errors, RowError{Line: line, Err: err})
			continue
		}
		res.Records = append(res.Records, rec)
	}
	if err := sc.Err(); err != nil {
		return Result{}, fmt.Errorf("reading lines: %w", err)
	}
	return res, nil
}

func (p *Freeform) parseLine(raw string) (model.Record, error) {
	if row, err := csv.NewReader(strings.NewReader(raw)).Read(); err == nil && len(row) >= 3 {
		if rec, err := p.build(row[0], row[1], row[2]); err == nil {
			return rec, nil
		}
	}

	if strings.Contains(raw, "\t") {
		parts := splitNonEmpty(raw, "\t")
		if len(parts) >= 3 {
			if rec, err := p.build(parts[0], parts[1], parts[2]); err == nil {
				return rec, nil
			}
		}
	}

	if parts := multiSpace.Split(raw, -1); len(parts) >= 3 {
		if rec, err := p.build(parts[0], parts[1], parts[2]); err == nil {
			return rec, nil
		}
	}

	// Last resort: single-space tokens, amount at the end, everything in
	// between is the description.
	if toks := strings.Fields(raw); len(toks) >= 3 {
		if rec, err := p.build(toks[0], strings.Join(toks[1:len(toks)-1], " "), toks[len(toks)-1]); err == nil {
			return rec, nil
		}
	}

	return model.Record{}, fmt.Errorf("unrecognized line %q", raw)
}

func (p *Freeform) build(date, desc, amount string) (model.Record, error) {
	return model.NewRecord(model.Draft{
		Date:        date,
		Description: desc,
		Amount:      amount,
	}, p.Norm)
}

func splitNonEmpty(s, sep string) []string {
	var out []string
	for _, part := range strings.Split(s, sep) {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
