package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/ashureev/carbon-ledger/internal/domain"
	"github.com/ashureev/carbon-ledger/internal/shared"
	_ "modernc.org/sqlite"
)

const (
	sqliteMaxRetries = 3
	sqliteRetryDelay = 50 * time.Millisecond
)

// SQLiteStore implements Repository using SQLite. Rows are session scoped:
// the sweeper deletes them once the session TTL has passed.
type SQLiteStore struct {
	db             *sql.DB
	mu             sync.Mutex // serializes writers to prevent SQLITE_BUSY
	initialCredits float64
}

// NewSQLite creates a new SQLite-backed repository.
func NewSQLite(dbPath string, initialCredits float64) (*SQLiteStore, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create database directory: %w", err)
	}

	dsn := "file:" + dbPath + "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)&_pragma=synchronous(NORMAL)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	store := &SQLiteStore{db: db, initialCredits: initialCredits}
	if err := store.initSchema(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("initialize schema: %w", err)
	}

	return store, nil
}

func (s *SQLiteStore) initSchema() error {
	query := `
	CREATE TABLE IF NOT EXISTS sessions (
		session_key TEXT PRIMARY KEY,
		state_json TEXT NOT NULL,
		created_at INTEGER NOT NULL,
		updated_at INTEGER NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_sessions_updated ON sessions(updated_at);
	`
	if _, err := s.db.Exec(query); err != nil {
		return fmt.Errorf("create schema: %w", err)
	}
	return nil
}

// Ping verifies database connectivity.
func (s *SQLiteStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// GetOrInit returns the session state, inserting defaults on first access.
func (s *SQLiteStore) GetOrInit(ctx context.Context, key string) (*domain.SessionState, error) {
	return s.Update(ctx, key, func(*domain.SessionState) error { return nil })
}

// Update applies fn inside a transaction and commits the result on success.
func (s *SQLiteStore) Update(ctx context.Context, key string, fn UpdateFunc) (*domain.SessionState, error) {
	if key == "" {
		return nil, ErrEmptyKey
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	var committed *domain.SessionState
	err := shared.RetryOnConflict(ctx, sqliteMaxRetries, sqliteRetryDelay, func() error {
		state, err := s.updateOnce(ctx, key, fn)
		if err != nil {
			return err
		}
		committed = state
		return nil
	})
	if err != nil {
		return nil, err
	}
	return committed, nil
}

func (s *SQLiteStore) updateOnce(ctx context.Context, key string, fn UpdateFunc) (*domain.SessionState, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin session tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	state, err := loadState(ctx, tx, key, s.initialCredits)
	if err != nil {
		return nil, err
	}
	if err := fn(state); err != nil {
		return nil, err
	}

	data, err := json.Marshal(state)
	if err != nil {
		return nil, fmt.Errorf("encode session state: %w", err)
	}

	query := `
	INSERT INTO sessions (session_key, state_json, created_at, updated_at)
	VALUES (?, ?, ?, ?)
	ON CONFLICT(session_key) DO UPDATE SET
		state_json = excluded.state_json,
		updated_at = excluded.updated_at`
	if _, err := tx.ExecContext(ctx, query, key, string(data), state.CreatedAt.Unix(), time.Now().Unix()); err != nil {
		return nil, fmt.Errorf("upsert session: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit session tx: %w", err)
	}
	return state, nil
}

func loadState(ctx context.Context, tx *sql.Tx, key string, initialCredits float64) (*domain.SessionState, error) {
	var raw string
	err := tx.QueryRowContext(ctx, `SELECT state_json FROM sessions WHERE session_key = ?`, key).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.NewSessionState(initialCredits), nil
	}
	if err != nil {
		return nil, fmt.Errorf("scan session row: %w", err)
	}

	var state domain.SessionState
	if err := json.Unmarshal([]byte(raw), &state); err != nil {
		return nil, fmt.Errorf("decode session state: %w", err)
	}
	state.Normalize()
	return &state, nil
}

// Delete removes the session row.
func (s *SQLiteStore) Delete(ctx context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return shared.RetryOnConflict(ctx, sqliteMaxRetries, sqliteRetryDelay, func() error {
		if _, err := s.db.ExecContext(ctx, `DELETE FROM sessions WHERE session_key = ?`, key); err != nil {
			return fmt.Errorf("delete session: %w", err)
		}
		return nil
	})
}

// CleanupExpired removes sessions idle for longer than ttl.
func (s *SQLiteStore) CleanupExpired(ctx context.Context, ttl time.Duration) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	threshold := time.Now().Add(-ttl).Unix()
	result, err := s.db.ExecContext(ctx, `DELETE FROM sessions WHERE updated_at < ?`, threshold)
	if err != nil {
		return 0, fmt.Errorf("cleanup expired sessions: %w", err)
	}
	return result.RowsAffected()
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	if err := s.db.Close(); err != nil {
		return fmt.Errorf("close database: %w", err)
	}
	return nil
}
