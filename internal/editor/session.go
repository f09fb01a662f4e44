// Package editor drives the embedded-editor mode: a session wraps a store
// and exposes add, view, edit-merge, and export operations over it.
package editor

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/shopspring/decimal"

	"github.com/bankentry-dev/bankentry/internal/dates"
	"github.com/bankentry-dev/bankentry/internal/ledger"
	"github.com/bankentry-dev/bankentry/internal/model"
	"github.com/bankentry-dev/bankentry/internal/store"
)

// View is a filtered snapshot opened for editing. Records are the rows the
// user can see; only their ids may be treated as deletable when the edited
// rows come back.
type View struct {
	Filter  ledger.Filter
	Records []model.Record
}

// VisibleIDs returns the ids the view exposed for editing.
func (v View) VisibleIDs() []int64 {
	ids := make([]int64, len(v.Records))
	for i, rec := range v.Records {
		ids[i] = rec.ID
	}
	return ids
}

// Session binds a store to a date normalizer.
type Session struct {
	store store.Store
	norm  dates.Normalizer
}

// NewSession creates a Session over st.
func NewSession(st store.Store, norm dates.Normalizer) *Session {
	return &Session{store: st, norm: norm}
}

// Add validates a draft and persists it, returning the stored record.
func (s *Session) Add(ctx context.Context, d model.Draft) (model.Record, error) {
	rec, err := model.NewRecord(d, s.norm)
	if err != nil {
		return model.Record{}, err
	}

	id, err := s.store.Create(ctx, rec)
	if err != nil {
		return model.Record{}, err
	}
	rec.ID = id
	return rec, nil
}

// View opens a filtered view of the current dataset.
func (s *Session) View(ctx context.Context, f ledger.Filter) (View, error) {
	ds, err := s.store.ReadAll(ctx)
	if err != nil {
		return View{}, err
	}
	return View{Filter: f, Records: f.Apply(ds)}, nil
}

// SaveEdits validates the edited drafts and merges them back. Every draft
// must validate before anything is diffed: a rejected row that silently
// vanished from the edited set would otherwise read as a delete.
func (s *Session) SaveEdits(ctx context.Context, v View, drafts []model.Draft) (ledger.Applied, error) {
	var errs []error
	edited := make([]model.Record, 0, len(drafts))
	for i, d := range drafts {
		rec, err := model.NewRecord(d, s.norm)
		if err != nil {
			errs = append(errs, fmt.Errorf("row %d: %w", i+1, err))
			continue
		}
		edited = append(edited, rec)
	}
	if len(errs) > 0 {
		return ledger.Applied{}, errors.Join(errs...)
	}

	return s.Merge(ctx, v, edited)
}

// Merge diffs already-validated edited rows against the current dataset
// and applies the result atomically.
func (s *Session) Merge(ctx context.Context, v View, edited []model.Record) (ledger.Applied, error) {
	ch, err := s.Preview(ctx, v, edited)
	if err != nil {
		return ledger.Applied{}, err
	}
	return s.store.ApplyChanges(ctx, ch)
}

// Preview computes the changes a merge would apply, without applying them.
func (s *Session) Preview(ctx context.Context, v View, edited []model.Record) (ledger.Changes, error) {
	ds, err := s.store.ReadAll(ctx)
	if err != nil {
		return ledger.Changes{}, err
	}
	return ledger.Diff(ds, v.VisibleIDs(), edited)
}

// BatchEdit sets the category and/or verified flag on every listed id.
// Nil leaves a field alone. Unknown ids fail the whole batch.
func (s *Session) BatchEdit(ctx context.Context, ids []int64, category *string, verified *bool) (ledger.Applied, error) {
	if category == nil && verified == nil {
		return ledger.Applied{}, nil
	}

	ds, err := s.store.ReadAll(ctx)
	if err != nil {
		return ledger.Applied{}, err
	}

	var ch ledger.Changes
	var missing []int64
	for _, id := range ids {
		rec, ok := ds.Find(id)
		if !ok {
			missing = append(missing, id)
			continue
		}
		if category != nil {
			rec.Category = *category
			if rec.Category == "" {
				rec.Category = model.CategoryUncategorized
			}
		}
		if verified != nil {
			rec.Verified = *verified
		}
		ch.Updates = append(ch.Updates, rec)
	}
	if len(missing) > 0 {
		return ledger.Applied{}, &ledger.ConflictError{IDs: missing}
	}

	return s.store.ApplyChanges(ctx, ch)
}

// DeleteIDs removes the listed records. Already-absent ids are skipped.
func (s *Session) DeleteIDs(ctx context.Context, ids []int64) (ledger.Applied, error) {
	return s.store.ApplyChanges(ctx, ledger.Changes{Deletes: ids})
}

// Clear removes every record. The id counter keeps advancing.
func (s *Session) Clear(ctx context.Context) (ledger.Applied, error) {
	ds, err := s.store.ReadAll(ctx)
	if err != nil {
		return ledger.Applied{}, err
	}
	var ch ledger.Changes
	for _, rec := range ds.Records {
		ch.Deletes = append(ch.Deletes, rec.ID)
	}
	return s.store.ApplyChanges(ctx, ch)
}

// ExportCSV writes the filtered dataset as canonical CSV with running
// balances from opening.
func (s *Session) ExportCSV(ctx context.Context, w io.Writer, f ledger.Filter, opening decimal.Decimal) error {
	ds, err := s.store.ReadAll(ctx)
	if err != nil {
		return err
	}
	return ledger.Export(w, ds, f, opening)
}

// Totals summarizes the filtered dataset against an opening balance.
func (s *Session) Totals(ctx context.Context, f ledger.Filter, opening decimal.Decimal) (ledger.Totals, error) {
	ds, err := s.store.ReadAll(ctx)
	if err != nil {
		return ledger.Totals{}, err
	}
	return ledger.Sum(f.Apply(ds), opening), nil
}
