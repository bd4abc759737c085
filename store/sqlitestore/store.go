// Package sqlitestore persists per-chat bot state in a SQLite database.
// The schema ships with the package and is migrated on Open.
package sqlitestore

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"path/filepath"
	"strconv"
	"time"

	migrate "github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	_ "modernc.org/sqlite"

	"github.com/telegrask/telegrask"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// Options tune the SQLite connection.
type Options struct {
	// BusyTimeout bounds waiting on a locked database (default 5s).
	BusyTimeout time.Duration
	// WAL enables write-ahead logging (default on).
	WAL bool
}

// DefaultOptions returns settings suited to a single bot process.
func DefaultOptions() Options {
	return Options{BusyTimeout: 5 * time.Second, WAL: true}
}

// Store implements telegrask.Store on SQLite.
type Store struct {
	db *sql.DB
}

var _ telegrask.Store = (*Store)(nil)

// Open opens (creating if needed) the database at path, applies pending
// migrations and returns the store.
func Open(path string, opts Options) (*Store, error) {
	if opts.BusyTimeout <= 0 {
		opts.BusyTimeout = 5 * time.Second
	}

	if err := applyMigrations(path); err != nil {
		return nil, err
	}

	dsn := "file:" + path + "?_pragma=busy_timeout(" +
		strconv.Itoa(int(opts.BusyTimeout/time.Millisecond)) + ")&_pragma=foreign_keys(1)"
	if opts.WAL {
		dsn += "&_pragma=journal_mode(WAL)"
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}
	// modernc sqlite serializes writes; one connection avoids SQLITE_BUSY.
	db.SetMaxOpenConns(1)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, err
	}
	return &Store{db: db}, nil
}

func applyMigrations(path string) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return err
	}
	src, err := iofs.New(migrationsFS, "migrations")
	if err != nil {
		return err
	}
	m, err := migrate.NewWithSourceInstance("iofs", src, "sqlite://"+filepath.ToSlash(abs))
	if err != nil {
		return err
	}
	defer func() { _, _ = m.Close() }()
	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return err
	}
	return nil
}

// Get returns the value for key in chatID, or telegrask.ErrNotFound.
func (s *Store) Get(ctx context.Context, chatID int64, key string) (string, error) {
	var value string
	err := s.db.QueryRowContext(ctx,
		`SELECT value FROM chat_state WHERE chat_id = ? AND key = ?`,
		chatID, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", telegrask.Wrapf(telegrask.ErrNotFound, "key %q", key)
	}
	if err != nil {
		return "", err
	}
	return value, nil
}

// Set writes the value for key in chatID.
func (s *Store) Set(ctx context.Context, chatID int64, key, value string) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO chat_state (chat_id, key, value, updated_at)
		 VALUES (?, ?, ?, CURRENT_TIMESTAMP)
		 ON CONFLICT (chat_id, key)
		 DO UPDATE SET value = excluded.value, updated_at = CURRENT_TIMESTAMP`,
		chatID, key, value)
	return err
}

// Delete removes key from chatID.
func (s *Store) Delete(ctx context.Context, chatID int64, key string) error {
	_, err := s.db.ExecContext(ctx,
		`DELETE FROM chat_state WHERE chat_id = ? AND key = ?`, chatID, key)
	return err
}

// Keys lists the keys stored for chatID, sorted.
func (s *Store) Keys(ctx context.Context, chatID int64) ([]string, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT key FROM chat_state WHERE chat_id = ? ORDER BY key`, chatID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var keys []string
	for rows.Next() {
		var k string
		if err := rows.Scan(&k); err != nil {
			return nil, err
		}
		keys = append(keys, k)
	}
	return keys, rows.Err()
}

// Close closes the underlying database.
func (s *Store) Close() error { return s.db.Close() }
