package sqlite

import (
	"alcyxob/fitness-tracker/internal/repository"
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	_ "modernc.org/sqlite"
)

// DefaultFileName is the database file used when no path is configured.
const DefaultFileName = "workouts.db"

// Store owns the single connection to the on-device database file.
// The connection is opened lazily on first use and shared by every caller;
// the engine's own transactions are the only serialization point.
type Store struct {
	path string

	mu          sync.Mutex
	db          *sql.DB
	schemaReady bool
}

// NewStore returns a Store for the database file at path. Nothing is opened
// until the first call that needs the connection.
func NewStore(path string) *Store {
	if path == "" {
		path = DefaultFileName
	}
	return &Store{path: path}
}

// Path returns the database file location.
func (s *Store) Path() string {
	return s.path
}

// Open returns the shared connection, opening the file on the first call.
func (s *Store) Open(ctx context.Context) (*sql.DB, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.openLocked(ctx)
}

func (s *Store) openLocked(ctx context.Context) (*sql.DB, error) {
	if s.db != nil {
		return s.db, nil
	}

	if dir := filepath.Dir(s.path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create database directory: %w: %w", repository.ErrStorageUnavailable, err)
		}
	}

	// Pragmas go in the DSN so they survive a pooled connection being recycled.
	dsn := fmt.Sprintf("file:%s?_pragma=foreign_keys(1)&_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)", s.path)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w: %w", repository.ErrStorageUnavailable, err)
	}
	db.SetMaxOpenConns(1)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w: %w", repository.ErrStorageUnavailable, err)
	}

	s.db = db
	return db, nil
}

// EnsureSchema creates the tables if they do not exist. Only the first
// successful call touches the database.
func (s *Store) EnsureSchema(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.schemaReady {
		return nil
	}
	db, err := s.openLocked(ctx)
	if err != nil {
		return err
	}
	for _, stmt := range schema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return queryFailed("create schema", err)
		}
	}
	s.schemaReady = true
	return nil
}

// Exec runs a statement on the shared connection.
func (s *Store) Exec(ctx context.Context, query string, args ...any) (sql.Result, error) {
	db, err := s.Open(ctx)
	if err != nil {
		return nil, err
	}
	res, err := db.ExecContext(ctx, query, args...)
	if err != nil {
		return nil, queryFailed("exec", err)
	}
	return res, nil
}

// Query runs a query on the shared connection. The caller closes the rows.
func (s *Store) Query(ctx context.Context, query string, args ...any) (*sql.Rows, error) {
	db, err := s.Open(ctx)
	if err != nil {
		return nil, err
	}
	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, queryFailed("query", err)
	}
	return rows, nil
}

// WithTx runs fn inside one transaction. Any error from fn rolls the whole
// transaction back.
func (s *Store) WithTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	db, err := s.Open(ctx)
	if err != nil {
		return err
	}
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return queryFailed("begin tx", err)
	}
	defer tx.Rollback()

	if err := fn(tx); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return queryFailed("commit", err)
	}
	return nil
}

// Close releases the connection. A later call reopens it lazily.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.db == nil {
		return nil
	}
	err := s.db.Close()
	s.db = nil
	s.schemaReady = false
	return err
}

func queryFailed(op string, err error) error {
	return fmt.Errorf("%s: %w: %w", op, repository.ErrQueryFailed, err)
}
