package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/bankentry-dev/bankentry/internal/ledger"
	"github.com/bankentry-dev/bankentry/internal/model"
)

// ErrNotFound is returned when an id does not exist in the store.
var ErrNotFound = errors.New("record not found")

// Error wraps a storage failure with the operation that hit it.
type Error struct {
	Op  string
	Err error
}

func (e *Error) Error() string { return fmt.Sprintf("store %s: %v", e.Op, e.Err) }
func (e *Error) Unwrap() error { return e.Err }

// Store persists the dataset. Implementations serialize mutations; readers
// may see a stale snapshot but never a half-applied batch.
type Store interface {
	// Create assigns a fresh id and persists the record. Any id already on
	// the record is ignored, and ids are never reused within the dataset's
	// lifetime.
	Create(ctx context.Context, rec model.Record) (int64, error)

	// ReadAll returns a snapshot ordered by date then id.
	ReadAll(ctx context.Context) (ledger.Dataset, error)

	// Update replaces the record with the given id. ErrNotFound if absent.
	Update(ctx context.Context, id int64, rec model.Record) error

	// Delete removes the record. ErrNotFound if absent.
	Delete(ctx context.Context, id int64) error

	// ApplyChanges lands a reconciliation batch atomically, in delete,
	// update, create order. Deleting an id that is already gone is a
	// no-op; updating one fails the whole batch with ErrNotFound.
	ApplyChanges(ctx context.Context, ch ledger.Changes) (ledger.Applied, error)

	Close() error
}

// applyToDataset lands a change batch on a dataset in place. Callers stage
// a clone and swap it in only on success.
func applyToDataset(ds *ledger.Dataset, ch ledger.Changes) (ledger.Applied, error) {
	var applied ledger.Applied

	for _, id := range ch.Deletes {
		if deleteRecord(ds, id) {
			applied.Deleted++
		}
	}

	for _, rec := range ch.Updates {
		if !updateRecord(ds, rec.ID, rec) {
			return ledger.Applied{}, fmt.Errorf("updating id %d: %w", rec.ID, ErrNotFound)
		}
		applied.Updated++
	}

	for _, rec := range ch.Creates {
		rec.ID = ds.NextID
		ds.NextID++
		ds.Records = append(ds.Records, rec)
		applied.Created = append(applied.Created, rec)
	}

	return applied, nil
}

func updateRecord(ds *ledger.Dataset, id int64, rec model.Record) bool {
	for i := range ds.Records {
		if ds.Records[i].ID == id {
			rec.ID = id
			ds.Records[i] = rec
			return true
		}
	}
	return false
}

func deleteRecord(ds *ledger.Dataset, id int64) bool {
	for i := range ds.Records {
		if ds.Records[i].ID == id {
			ds.Records = append(ds.Records[:i], ds.Records[i+1:]...)
			return true
		}
	}
	return false
}
