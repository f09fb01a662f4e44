package id

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/google/uuid"
)

// NewBatch returns a random identifier used to group the audit-log rows of
// one operation (an import, a merge, a batch edit).
func NewBatch() string {
	return uuid.NewString()
}

// ParseRecord parses a record id from user input, such as an HTTP path
// segment or a CLI argument. Record ids are positive integers.
func ParseRecord(s string) (int64, error) {
	n, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid record id %q", s)
	}
	if n < 1 {
		return 0, fmt.Errorf("invalid record id %q: must be positive", s)
	}
	return n, nil
}

// ParseRecordList parses a comma-separated id list like "3,7,12".
func ParseRecordList(s string) ([]int64, error) {
	var out []int64
	for _, part := range strings.Split(s, ",") {
		if strings.TrimSpace(part) == "" {
			continue
		}
		n, err := ParseRecord(part)
		if err != nil {
			return nil, err
		}
		out = append(out, n)
	}
	return out, nil
}

// FormatRecordList renders ids as a comma-separated list.
func FormatRecordList(ids []int64) string {
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = strconv.FormatInt(id, 10)
	}
	return strings.Join(parts, ",")
}
