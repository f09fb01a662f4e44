package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	_ "modernc.org/sqlite"

	"github.com/bankentry-dev/bankentry/internal/ledger"
	"github.com/bankentry-dev/bankentry/internal/model"
)

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS transactions (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	date TEXT NOT NULL,
	description TEXT NOT NULL,
	category TEXT NOT NULL,
	amount TEXT NOT NULL,
	verified INTEGER NOT NULL DEFAULT 0,
	review_note TEXT NOT NULL DEFAULT '',
	created_at TEXT NOT NULL
)`

// SQLite persists the dataset in a local SQLite database. AUTOINCREMENT
// keeps ids monotonic across deletes, and a single open connection
// serializes writes.
type SQLite struct {
	db *sql.DB
}

// OpenSQLite opens (or creates) the database at path and ensures the
// schema exists.
func OpenSQLite(path string) (*SQLite, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, &Error{Op: "open database", Err: err}
	}
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(sqliteSchema); err != nil {
		_ = db.Close()
		return nil, &Error{Op: "create schema", Err: err}
	}
	return &SQLite{db: db}, nil
}

func (s *SQLite) Create(ctx context.Context, rec model.Record) (int64, error) {
	res, err := s.db.ExecContext(ctx, `
		INSERT INTO transactions (date, description, category, amount, verified, review_note, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		rec.Date, rec.Description, rec.Category, rec.Amount.String(),
		boolToInt(rec.Verified), rec.ReviewNote, time.Now().UTC().Format(time.RFC3339))
	if err != nil {
		return 0, &Error{Op: "create", Err: err}
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, &Error{Op: "create", Err: err}
	}
	return id, nil
}

func (s *SQLite) ReadAll(ctx context.Context) (ledger.Dataset, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, date, description, category, amount, verified, review_note
		FROM transactions
		ORDER BY date, id`)
	if err != nil {
		return ledger.Dataset{}, &Error{Op: "read all", Err: err}
	}
	defer rows.Close()

	ds := ledger.Dataset{NextID: 1}
	for rows.Next() {
		var rec model.Record
		var amount string
		var verified int
		if err := rows.Scan(&rec.ID, &rec.Date, &rec.Description, &rec.Category, &amount, &verified, &rec.ReviewNote); err != nil {
			return ledger.Dataset{}, &Error{Op: "read all", Err: err}
		}
		rec.Amount, err = decimal.NewFromString(amount)
		if err != nil {
			return ledger.Dataset{}, &Error{Op: "read all", Err: fmt.Errorf("amount for id %d: %w", rec.ID, err)}
		}
		rec.Verified = verified != 0
		ds.Records = append(ds.Records, rec)
	}
	if err := rows.Err(); err != nil {
		return ledger.Dataset{}, &Error{Op: "read all", Err: err}
	}

	next, err := s.nextID(ctx)
	if err != nil {
		return ledger.Dataset{}, err
	}
	ds.NextID = next
	return ds, nil
}

// nextID reads the AUTOINCREMENT sequence so NextID reflects deleted ids
// too, not just the current maximum.
func (s *SQLite) nextID(ctx context.Context) (int64, error) {
	var seq int64
	err := s.db.QueryRowContext(ctx,
		`SELECT seq FROM sqlite_sequence WHERE name = 'transactions'`).Scan(&seq)
	if errors.Is(err, sql.ErrNoRows) {
		return 1, nil
	}
	if err != nil {
		return 0, &Error{Op: "read sequence", Err: err}
	}
	return seq + 1, nil
}

func (s *SQLite) Update(ctx context.Context, id int64, rec model.Record) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE transactions
		SET date = ?, description = ?, category = ?, amount = ?, verified = ?, review_note = ?
		WHERE id = ?`,
		rec.Date, rec.Description, rec.Category, rec.Amount.String(),
		boolToInt(rec.Verified), rec.ReviewNote, id)
	if err != nil {
		return &Error{Op: "update", Err: err}
	}
	return checkAffected(res, "update")
}

func (s *SQLite) Delete(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM transactions WHERE id = ?`, id)
	if err != nil {
		return &Error{Op: "delete", Err: err}
	}
	return checkAffected(res, "delete")
}

func (s *SQLite) ApplyChanges(ctx context.Context, ch ledger.Changes) (ledger.Applied, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return ledger.Applied{}, &Error{Op: "begin batch", Err: err}
	}
	defer tx.Rollback()

	var applied ledger.Applied

	for _, id := range ch.Deletes {
		res, err := tx.ExecContext(ctx, `DELETE FROM transactions WHERE id = ?`, id)
		if err != nil {
			return ledger.Applied{}, &Error{Op: "batch delete", Err: err}
		}
		if n, _ := res.RowsAffected(); n > 0 {
			applied.Deleted++
		}
	}

	for _, rec := range ch.Updates {
		res, err := tx.ExecContext(ctx, `
			UPDATE transactions
			SET date = ?, description = ?, category = ?, amount = ?, verified = ?, review_note = ?
			WHERE id = ?`,
			rec.Date, rec.Description, rec.Category, rec.Amount.String(),
			boolToInt(rec.Verified), rec.ReviewNote, rec.ID)
		if err != nil {
			return ledger.Applied{}, &Error{Op: "batch update", Err: err}
		}
		n, err := res.RowsAffected()
		if err != nil {
			return ledger.Applied{}, &Error{Op: "batch update", Err: err}
		}
		if n == 0 {
			return ledger.Applied{}, fmt.Errorf("updating id %d: %w", rec.ID, ErrNotFound)
		}
		applied.Updated++
	}

	for _, rec := range ch.Creates {
		res, err := tx.ExecContext(ctx, `
			INSERT INTO transactions (date, description, category, amount, verified, review_note, created_at)
			VALUES (?, ?, ?, ?, ?, ?, ?)`,
			rec.Date, rec.Description, rec.Category, rec.Amount.String(),
			boolToInt(rec.Verified), rec.ReviewNote, time.Now().UTC().Format(time.RFC3339))
		if err != nil {
			return ledger.Applied{}, &Error{Op: "batch create", Err: err}
		}
		id, err := res.LastInsertId()
		if err != nil {
			return ledger.Applied{}, &Error{Op: "batch create", Err: err}
		}
		rec.ID = id
		applied.Created = append(applied.Created, rec)
	}

	if err := tx.Commit(); err != nil {
		return ledger.Applied{}, &Error{Op: "commit batch", Err: err}
	}
	return applied, nil
}

func (s *SQLite) Close() error {
	return s.db.Close()
}

func checkAffected(res sql.Result, op string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return &Error{Op: op, Err: err}
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

var _ Store = (*SQLite)(nil)
