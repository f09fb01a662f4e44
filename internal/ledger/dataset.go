package ledger

import (
	"sort"

	"github.com/bankentry-dev/bankentry/internal/model"
)

// Dataset is the full record set plus the next id to assign. Stores own the
// canonical copy; everything else works on snapshots.
type Dataset struct {
	Records []model.Record
	NextID  int64
}

// Clone returns an independent copy of the dataset.
func (ds Dataset) Clone() Dataset {
	out := Dataset{NextID: ds.NextID}
	if ds.Records != nil {
		out.Records = make([]model.Record, len(ds.Records))
		copy(out.Records, ds.Records)
	}
	return out
}

// Find returns the record with the given id.
func (ds Dataset) Find(id int64) (model.Record, bool) {
	for _, rec := range ds.Records {
		if rec.ID == id {
			return rec, true
		}
	}
	return model.Record{}, false
}

// Sort orders records by date then id, ascending. Canonical dates compare
// lexicographically, so no time parsing is involved.
func Sort(records []model.Record) {
	sort.Slice(records, func(i, j int) bool {
		if records[i].Date != records[j].Date {
			return records[i].Date < records[j].Date
		}
		return records[i].ID < records[j].ID
	})
}
