// Package pgstore persists per-chat bot state in PostgreSQL over a pgx
// connection pool. The schema ships with the package and is migrated on
// Open.
package pgstore

import (
	"context"
	"embed"
	"errors"
	"time"

	migrate "github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/telegrask/telegrask"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// PoolOptions tune the pgx pool. Defaults fit a single bot process.
type PoolOptions struct {
	MaxConns        int32
	MinConns        int32
	MaxConnLifetime time.Duration
	MaxConnIdleTime time.Duration
	PingTimeout     time.Duration
}

// DefaultPoolOptions returns pool settings suited to typical bot load.
func DefaultPoolOptions() PoolOptions {
	return PoolOptions{
		MaxConns:        10,
		MinConns:        1,
		MaxConnLifetime: time.Hour,
		MaxConnIdleTime: 10 * time.Minute,
		PingTimeout:     5 * time.Second,
	}
}

// Store implements telegrask.Store on PostgreSQL.
type Store struct {
	pool *pgxpool.Pool
}

var _ telegrask.Store = (*Store)(nil)

// Open connects to the database, applies pending migrations and returns the
// store.
func Open(ctx context.Context, dsn string) (*Store, error) {
	return OpenWithOptions(ctx, dsn, DefaultPoolOptions())
}

// OpenWithOptions is Open with explicit pool settings.
func OpenWithOptions(ctx context.Context, dsn string, opts PoolOptions) (*Store, error) {
	if err := applyMigrations(dsn); err != nil {
		return nil, err
	}

	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, err
	}
	cfg.MaxConns = opts.MaxConns
	cfg.MinConns = opts.MinConns
	cfg.MaxConnLifetime = opts.MaxConnLifetime
	cfg.MaxConnIdleTime = opts.MaxConnIdleTime

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, err
	}

	pingCtx, cancel := context.WithTimeout(ctx, opts.PingTimeout)
	defer cancel()
	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		return nil, err
	}
	return &Store{pool: pool}, nil
}

func applyMigrations(dsn string) error {
	src, err := iofs.New(migrationsFS, "migrations")
	if err != nil {
		return err
	}
	m, err := migrate.NewWithSourceInstance("iofs", src, dsn)
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
	err := s.pool.QueryRow(ctx,
		`SELECT value FROM chat_state WHERE chat_id = $1 AND key = $2`,
		chatID, key).Scan(&value)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", telegrask.Wrapf(telegrask.ErrNotFound, "key %q", key)
	}
	if err != nil {
		return "", err
	}
	return value, nil
}

// Set writes the value for key in chatID.
func (s *Store) Set(ctx context.Context, chatID int64, key, value string) error {
	_, err := s.pool.Exec(ctx,
		`INSERT INTO chat_state (chat_id, key, value, updated_at)
		 VALUES ($1, $2, $3, now())
		 ON CONFLICT (chat_id, key)
		 DO UPDATE SET value = EXCLUDED.value, updated_at = now()`,
		chatID, key, value)
	return err
}

// Delete removes key from chatID.
func (s *Store) Delete(ctx context.Context, chatID int64, key string) error {
	_, err := s.pool.Exec(ctx,
		`DELETE FROM chat_state WHERE chat_id = $1 AND key = $2`, chatID, key)
	return err
}

// Keys lists the keys stored for chatID, sorted.
func (s *Store) Keys(ctx context.Context, chatID int64) ([]string, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT key FROM chat_state WHERE chat_id = $1 ORDER BY key`, chatID)
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

// Close releases the pool.
func (s *Store) Close() error {
	s.pool.Close()
	return nil
}
