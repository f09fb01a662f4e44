package store

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"sync"
	"time"

	"github.com/bankentry-dev/bankentry/internal/ledger"
	"github.com/bankentry-dev/bankentry/internal/model"
)

// snapshot is the on-disk JSON shape of a JSONFile store.
type snapshot struct {
	Meta    snapshotMeta   `json:"meta"`
	NextID  int64          `json:"next_id"`
	Records []model.Record `json:"records"`
}

type snapshotMeta struct {
	Storage string    `json:"storage"`
	SavedAt time.Time `json:"saved_at"`
}

// JSONFile persists the dataset as a single JSON snapshot, rewritten
// atomically (tmp + rename) on every mutation. Durable before any mutating
// call returns.
type JSONFile struct {
	mu   sync.RWMutex
	path string
	ds   ledger.Dataset
}

// OpenJSONFile loads the snapshot at path, or starts an empty dataset when
// the file does not exist yet.
func OpenJSONFile(path string) (*JSONFile, error) {
	s := &JSONFile{path: path, ds: ledger.Dataset{NextID: 1}}

	f, err := os.Open(path)
	if errors.Is(err, os.ErrNotExist) {
		return s, nil
	}
	if err != nil {
		return nil, &Error{Op: "open snapshot", Err: err}
	}
	defer f.Close()

	var snap snapshot
	if err := json.NewDecoder(f).Decode(&snap); err != nil {
		return nil, &Error{Op: "decode snapshot", Err: err}
	}

	s.ds = ledger.Dataset{Records: snap.Records, NextID: snap.NextID}
	if s.ds.NextID < 1 {
		s.ds.NextID = 1
	}
	// Hand-edited snapshots must never make us assign a taken id.
	for _, rec := range s.ds.Records {
		if rec.ID >= s.ds.NextID {
			s.ds.NextID = rec.ID + 1
		}
	}
	return s, nil
}

func (s *JSONFile) Create(_ context.Context, rec model.Record) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	staged := s.ds.Clone()
	rec.ID = staged.NextID
	staged.NextID++
	staged.Records = append(staged.Records, rec)

	if err := s.commit(staged); err != nil {
		return 0, err
	}
	return rec.ID, nil
}

func (s *JSONFile) ReadAll(_ context.Context) (ledger.Dataset, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := s.ds.Clone()
	ledger.Sort(out.Records)
	return out, nil
}

func (s *JSONFile) Update(_ context.Context, id int64, rec model.Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	staged := s.ds.Clone()
	if !updateRecord(&staged, id, rec) {
		return ErrNotFound
	}
	return s.commit(staged)
}

func (s *JSONFile) Delete(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	staged := s.ds.Clone()
	if !deleteRecord(&staged, id) {
		return ErrNotFound
	}
	return s.commit(staged)
}

func (s *JSONFile) ApplyChanges(_ context.Context, ch ledger.Changes) (ledger.Applied, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	staged := s.ds.Clone()
	applied, err := applyToDataset(&staged, ch)
	if err != nil {
		return ledger.Applied{}, err
	}
	if err := s.commit(staged); err != nil {
		return ledger.Applied{}, err
	}
	return applied, nil
}

func (s *JSONFile) Close() error { return nil }

// commit writes staged to disk atomically and only then swaps it in, so a
// failed write leaves both the file and the in-memory dataset untouched.
func (s *JSONFile) commit(staged ledger.Dataset) error {
	snap := snapshot{
		Meta:    snapshotMeta{Storage: "json_snapshot", SavedAt: time.Now().UTC()},
		NextID:  staged.NextID,
		Records: staged.Records,
	}
	if snap.Records == nil {
		snap.Records = []model.Record{}
	}

	tmp := s.path + ".tmp"
	f, err := os.Create(tmp)
	if err != nil {
		return &Error{Op: "write snapshot", Err: err}
	}

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	if err := enc.Encode(snap); err != nil {
		f.Close()
		return &Error{Op: "write snapshot", Err: err}
	}
	if err := f.Sync(); err != nil {
		f.Close()
		return &Error{Op: "sync snapshot", Err: err}
	}
	if err := f.Close(); err != nil {
		return &Error{Op: "close snapshot", Err: err}
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return &Error{Op: "replace snapshot", Err: err}
	}

	s.ds = staged
	return nil
}

var _ Store = (*JSONFile)(nil)
