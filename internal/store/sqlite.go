package store

import (
	"database/sql"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/raulfermoselle/ai-shopping-copilot-sub007/internal/review"
	"github.com/raulfermoselle/ai-shopping-copilot-sub007/internal/runstate"
)

//go:embed schema.sql
var schemaSQL string

const (
	keyRunState   = "run_state"
	keyReviewPack = "review_pack"
)

// SQLiteStore persists state snapshots in a SQLite database. It survives
// process restarts, which is what Recover leans on.
type SQLiteStore struct {
	db *sql.DB
}

// OpenSQLite creates or opens the database at path, applying pragmas and the
// schema. Safe to call repeatedly.
func OpenSQLite(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("connect database: %w", err)
	}

	// SQLite allows one writer at a time; a single connection avoids
	// SQLITE_BUSY under the store's write-per-transition pattern.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = NORMAL",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, err)
		}
	}

	if _, err := db.Exec(schemaSQL); err != nil {
		db.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

func (s *SQLiteStore) SaveState(state runstate.RunState) error {
	return s.put(keyRunState, state)
}

func (s *SQLiteStore) LoadState() (runstate.RunState, bool, error) {
	var state runstate.RunState
	found, err := s.get(keyRunState, &state)
	return state, found, err
}

func (s *SQLiteStore) SaveReviewPack(p *review.Pack) error {
	return s.put(keyReviewPack, p)
}

func (s *SQLiteStore) LoadReviewPack() (*review.Pack, bool, error) {
	var p review.Pack
	found, err := s.get(keyReviewPack, &p)
	if !found || err != nil {
		return nil, found, err
	}
	return &p, true, nil
}

func (s *SQLiteStore) Clear() error {
	if _, err := s.db.Exec(`DELETE FROM snapshots WHERE key IN (?, ?)`, keyRunState, keyReviewPack); err != nil {
		return fmt.Errorf("clear snapshots: %w", err)
	}
	return nil
}

func (s *SQLiteStore) put(key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("marshal %s: %w", key, err)
	}
	_, err = s.db.Exec(
		`INSERT INTO snapshots (key, value, updated_at) VALUES (?, ?, ?)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		key, string(data), time.Now().UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("upsert %s: %w", key, err)
	}
	return nil
}

func (s *SQLiteStore) get(key string, v any) (bool, error) {
	var data string
	err := s.db.QueryRow(`SELECT value FROM snapshots WHERE key = ?`, key).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("query %s: %w", key, err)
	}
	if err := json.Unmarshal([]byte(data), v); err != nil {
		return false, fmt.Errorf("unmarshal %s: %w", key, err)
	}
	return true, nil
}
