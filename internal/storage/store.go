// Package storage persists the expense collection as a single JSON array
// under a fixed key in a SQLite-backed key-value table. Save replaces the
// whole collection; there is no locking, so two racing writers resolve to
// whichever save lands last.
package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"orbit/internal/core"

	_ "modernc.org/sqlite"
)

// collectionKey is the one entry the store reads and writes.
const collectionKey = "orbit_expenses"

// ErrCorruptData reports a persisted value that is not well-formed JSON.
// Callers are expected to reset the store and continue with an empty
// collection rather than abort the session.
var ErrCorruptData = errors.New("stored collection is not valid JSON")

type SQLiteStore struct {
	db *sql.DB
}

// expenseRecord is the persisted shape: amount travels as a plain number,
// the date as its YYYY-MM-DD encoding. No version field.
type expenseRecord struct {
	ID          string  `json:"id"`
	Description string  `json:"description"`
	Amount      float64 `json:"amount"`
	Category    string  `json:"category"`
	Date        string  `json:"date"`
}

func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

func (s *SQLiteStore) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// Load returns the full persisted collection in insertion order. An
// absent key is an empty collection, not an error.
func (s *SQLiteStore) Load(ctx context.Context) ([]core.Expense, error) {
	var value string
	err := s.db.QueryRowContext(ctx,
		`SELECT value FROM collections WHERE key = ?`, collectionKey).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return []core.Expense{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read collection: %w", err)
	}

	var records []expenseRecord
	if err := json.Unmarshal([]byte(value), &records); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorruptData, err)
	}

	expenses := make([]core.Expense, len(records))
	for i, rec := range records {
		date, err := core.ParseDate(rec.Date)
		if err != nil {
			// A malformed date is carried through as the zero date; the
			// pipeline tolerates it the same way it tolerates any other
			// value it never validates.
			slog.WarnContext(ctx, "Stored expense has unparseable date",
				"id", rec.ID, "date", rec.Date)
		}
		expenses[i] = core.Expense{
			ID:          rec.ID,
			Description: rec.Description,
			Amount:      core.FromRupees(rec.Amount),
			Category:    rec.Category,
			Date:        date,
		}
	}
	return expenses, nil
}

// Save replaces the entire persisted collection with the given one.
// Callers must pass the complete desired state, not a delta.
func (s *SQLiteStore) Save(ctx context.Context, expenses []core.Expense) error {
	records := make([]expenseRecord, len(expenses))
	for i, e := range expenses {
		records[i] = expenseRecord{
			ID:          e.ID,
			Description: e.Description,
			Amount:      e.Amount.Rupees(),
			Category:    e.Category,
			Date:        e.Date.String(),
		}
	}
	value, err := json.Marshal(records)
	if err != nil {
		return fmt.Errorf("encode collection: %w", err)
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO collections (key, value, updated_at) VALUES (?, ?, CURRENT_TIMESTAMP)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = CURRENT_TIMESTAMP`,
		collectionKey, string(value))
	if err != nil {
		return fmt.Errorf("write collection: %w", err)
	}

	slog.DebugContext(ctx, "Collection saved", "count", len(expenses))
	return nil
}

// Reset discards whatever is persisted and writes an empty collection.
// Used to recover from corrupt data.
func (s *SQLiteStore) Reset(ctx context.Context) error {
	return s.Save(ctx, nil)
}
