package ledger

import (
	"fmt"
	"sort"
	"strings"

	"github.com/bankentry-dev/bankentry/internal/model"
)

// Changes is the outcome of diffing an edited view against the dataset.
// Stores apply deletes first, then updates, then creates.
type Changes struct {
	Creates []model.Record // id 0; fresh ids are assigned at apply time
	Updates []model.Record
	Deletes []int64
}

// Empty reports whether the changes would touch nothing.
func (c Changes) Empty() bool {
	return len(c.Creates) == 0 && len(c.Updates) == 0 && len(c.Deletes) == 0
}

// Applied reports what a store committed for one Changes batch.
type Applied struct {
	Created []model.Record // with their assigned ids
	Updated int
	Deleted int
}

// ConflictError means edited rows referenced ids no longer in the dataset.
// Nothing is applied when this happens; IDs lists every offender.
type ConflictError struct {
	IDs []int64
}

func (e *ConflictError) Error() string {
	ids := make([]string, len(e.IDs))
	for i, id := range e.IDs {
		ids[i] = fmt.Sprintf("%d", id)
	}
	return fmt.Sprintf("edited rows reference missing ids: %s", strings.Join(ids, ", "))
}

// Diff reconciles an edited copy of a filtered view back against the
// dataset. Identity drives everything: rows with ids are matched to their
// records no matter how the edited rows are ordered, rows without ids are
// creates, and visible ids missing from the edited rows are deletes.
// Records outside the visible subset are never touched.
func Diff(ds Dataset, visible []int64, edited []model.Record) (Changes, error) {
	byID := make(map[int64]model.Record, len(ds.Records))
	for _, rec := range ds.Records {
		byID[rec.ID] = rec
	}

	var ch Changes
	var conflicts []int64
	editedIDs := make(map[int64]bool, len(edited))

	for _, rec := range edited {
		if rec.ID == 0 {
			ch.Creates = append(ch.Creates, rec)
			continue
		}
		editedIDs[rec.ID] = true

		current, ok := byID[rec.ID]
		if !ok {
			conflicts = append(conflicts, rec.ID)
			continue
		}
		if !current.Equal(rec) {
			ch.Updates = append(ch.Updates, rec)
		}
	}

	if len(conflicts) > 0 {
		sort.Slice(conflicts, func(i, j int) bool { return conflicts[i] < conflicts[j] })
		return Changes{}, &ConflictError{IDs: conflicts}
	}

	for _, id := range visible {
		if editedIDs[id] {
			continue
		}
		// A visible id already gone from the dataset is not a conflict:
		// the intended end state (row absent) holds.
		if _, ok := byID[id]; !ok {
			continue
		}
		ch.Deletes = append(ch.Deletes, id)
	}

	return ch, nil
}
