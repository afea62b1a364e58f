// Package sqlite provides a SQLite-backed implementation of the
// storage.Store interface.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	_ "modernc.org/sqlite" // Pure Go SQLite driver (no CGO)

	"github.com/waterworks-ph/waterworks/internal/storage"
)

// Ensure SQLiteStore implements storage.Store
var _ storage.Store = (*SQLiteStore)(nil)

// SQLiteStore implements storage.Store using SQLite.
type SQLiteStore struct {
	db *sql.DB

	mu       sync.Mutex
	watchers map[string]map[chan struct{}]struct{}
}

// New creates a new SQLiteStore with the given database path.
// It creates the parent directories and runs migrations automatically.
func New(dbPath string) (*SQLiteStore, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	if err := runMigrations(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return &SQLiteStore{
		db:       db,
		watchers: make(map[string]map[chan struct{}]struct{}),
	}, nil
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// Watch returns a coalescing change signal for the named collection.
// The channel is closed and forgotten when ctx ends.
func (s *SQLiteStore) Watch(ctx context.Context, collection string) <-chan struct{} {
	ch := make(chan struct{}, 1)

	s.mu.Lock()
	subs, ok := s.watchers[collection]
	if !ok {
		subs = make(map[chan struct{}]struct{})
		s.watchers[collection] = subs
	}
	subs[ch] = struct{}{}
	s.mu.Unlock()

	go func() {
		<-ctx.Done()
		s.mu.Lock()
		delete(s.watchers[collection], ch)
		s.mu.Unlock()
		close(ch)
	}()

	return ch
}

// notify signals every watcher of the collection. A watcher that already has
// a pending signal is skipped: snapshots are re-read, not counted.
func (s *SQLiteStore) notify(collection string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for ch := range s.watchers[collection] {
		select {
		case ch <- struct{}{}:
		default:
		}
	}
}
