package store

import (
	"context"
	"sync"

	"github.com/bankentry-dev/bankentry/internal/ledger"
	"github.com/bankentry-dev/bankentry/internal/model"
)

// Memory keeps the dataset in process memory. Data is lost on exit; it
// backs tests and the default serve mode.
type Memory struct {
	mu sync.RWMutex
	ds ledger.Dataset
}

// NewMemory returns an empty in-memory store. Ids start at 1.
func NewMemory() *Memory {
	return &Memory{ds: ledger.Dataset{NextID: 1}}
}

func (m *Memory) Create(_ context.Context, rec model.Record) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	rec.ID = m.ds.NextID
	m.ds.NextID++
	m.ds.Records = append(m.ds.Records, rec)
	return rec.ID, nil
}

func (m *Memory) ReadAll(_ context.Context) (ledger.Dataset, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := m.ds.Clone()
	ledger.Sort(out.Records)
	return out, nil
}

func (m *Memory) Update(_ context.Context, id int64, rec model.Record) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !updateRecord(&m.ds, id, rec) {
		return ErrNotFound
	}
	return nil
}

func (m *Memory) Delete(_ context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !deleteRecord(&m.ds, id) {
		return ErrNotFound
	}
	return nil
}

func (m *Memory) ApplyChanges(_ context.Context, ch ledger.Changes) (ledger.Applied, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	// Stage on a clone so a failed batch leaves the dataset untouched.
	staged := m.ds.Clone()
	applied, err := applyToDataset(&staged, ch)
	if err != nil {
		return ledger.Applied{}, err
	}
	m.ds = staged
	return applied, nil
}

func (m *Memory) Close() error { return nil }

var _ Store = (*Memory)(nil)
