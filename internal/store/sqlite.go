package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"go.uber.org/zap"

	"github.com/frankfika/thanksgiving/internal/ratelimit"
	"github.com/frankfika/thanksgiving/internal/star"
)

// SQLite stores stars and the submission counter in one database file.
type SQLite struct {
	db  *sql.DB
	log *zap.Logger
}

// NewSQLite opens (creating if needed) the database at path. Use
// ":memory:" for a throwaway database.
func NewSQLite(path string, log *zap.Logger) (*SQLite, error) {
	if log == nil {
		log = zap.NewNop()
	}
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	// One connection keeps ":memory:" databases shared and writes serialized.
	db.SetMaxOpenConns(1)

	s := &SQLite{db: db, log: log}
	if err := s.createTables(); err != nil {
		db.Close()
		return nil, fmt.Errorf("create tables: %w", err)
	}
	return s, nil
}

func (s *SQLite) createTables() error {
	schema := `
	CREATE TABLE IF NOT EXISTS stars (
		seq INTEGER PRIMARY KEY AUTOINCREMENT,
		id TEXT NOT NULL UNIQUE,
		category TEXT NOT NULL DEFAULT '',
		payload TEXT NOT NULL,
		created_at INTEGER NOT NULL
	);

	CREATE TABLE IF NOT EXISTS rate_limit (
		id INTEGER PRIMARY KEY CHECK (id = 1),
		day TEXT NOT NULL,
		count INTEGER NOT NULL DEFAULT 0
	);

	CREATE INDEX IF NOT EXISTS idx_stars_category ON stars(category);
	`
	_, err := s.db.Exec(schema)
	return err
}

// List implements Backend. Records come back in insertion order.
func (s *SQLite) List(ctx context.Context) ([]star.Record, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT payload FROM stars ORDER BY seq`)
	if err != nil {
		return nil, fmt.Errorf("query stars: %w", err)
	}
	defer rows.Close()

	var out []star.Record
	for rows.Next() {
		var payload string
		if err := rows.Scan(&payload); err != nil {
			return nil, fmt.Errorf("scan star: %w", err)
		}
		var rec star.Record
		if err := json.Unmarshal([]byte(payload), &rec); err != nil {
			s.log.Warn("skipping unreadable star", zap.Error(err))
			continue
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

// Save implements Backend. Saving an id that already exists is a no-op.
func (s *SQLite) Save(ctx context.Context, rec star.Record) error {
	if err := rec.Validate(); err != nil {
		return err
	}
	payload, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("encode star: %w", err)
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT OR IGNORE INTO stars (id, category, payload, created_at) VALUES (?, ?, ?, ?)`,
		rec.ID, rec.Category(), string(payload), time.Now().Unix(),
	)
	if err != nil {
		return fmt.Errorf("insert star %s: %w", rec.ID, err)
	}
	return nil
}

// Count returns the number of stored stars.
func (s *SQLite) Count(ctx context.Context) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM stars`).Scan(&n)
	return n, err
}

// LoadLimit implements ratelimit.StateStore.
func (s *SQLite) LoadLimit(ctx context.Context) (ratelimit.State, error) {
	var st ratelimit.State
	err := s.db.QueryRowContext(ctx, `SELECT day, count FROM rate_limit WHERE id = 1`).Scan(&st.Date, &st.Count)
	if errors.Is(err, sql.ErrNoRows) {
		return ratelimit.State{}, nil
	}
	if err != nil {
		return ratelimit.State{}, fmt.Errorf("query rate limit: %w", err)
	}
	return st, nil
}

// SaveLimit implements ratelimit.StateStore.
func (s *SQLite) SaveLimit(ctx context.Context, st ratelimit.State) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO rate_limit (id, day, count) VALUES (1, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET day = excluded.day, count = excluded.count`,
		st.Date, st.Count,
	)
	if err != nil {
		return fmt.Errorf("save rate limit: %w", err)
	}
	return nil
}

// Close closes the database.
func (s *SQLite) Close() error {
	return s.db.Close()
}
