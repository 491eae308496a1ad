// Package store provides the Postgres seam repositories are written against
package store

import (
	"context"
	"errors"

	"agenda/internal/platform/logger"
	"agenda/internal/platform/store/pg"
)

// Store is the facade over the database
// zero value is safe but does nothing
type Store struct {
	// Log is the logger used by the sql adapter (slow query warnings)
	Log logger.Logger

	// PG is the postgres sql seam, nil when not opened
	PG TxRunner

	pgClient *pg.PG
}

// Row exposes the minimal scan contract a single row needs
type Row interface {
	Scan(dest ...any) error
}

// Rows exposes the minimal iteration and scan for a result set
type Rows interface {
	Next() bool
	Scan(dest ...any) error
	Err() error
	Close()
}

// CommandTag is a tiny interface to inspect command results
type CommandTag interface {
	String() string
	RowsAffected() int64
}

// RowQuerier is the read and write surface repos use for sql
type RowQuerier interface {
	Exec(ctx context.Context, sql string, args ...any) (CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) Row
}

// TxRunner wraps transaction execution around a function
type TxRunner interface {
	RowQuerier
	Tx(ctx context.Context, fn func(q RowQuerier) error) error
}

// Config configures the store
type Config struct {
	URL         string
	MaxConns    int32
	SlowQueryMs int
}

// Option mutates the Store during Open
type Option func(*Store) error

// WithLogger sets the logger used for slow query warnings
func WithLogger(l logger.Logger) Option {
	return func(s *Store) error {
		s.Log = l
		return nil
	}
}

// Open constructs a Store connected to Postgres
func Open(ctx context.Context, cfg Config, opts ...Option) (*Store, error) {
	s := &Store{}
	for _, o := range opts {
		if err := o(s); err != nil {
			return nil, err
		}
	}

	client, err := pg.Open(ctx, pg.Config{
		URL:      cfg.URL,
		MaxConns: cfg.MaxConns,
		SlowMs:   cfg.SlowQueryMs,
	})
	if err != nil {
		return nil, err
	}
	s.pgClient = client
	s.PG = &pgAdapter{p: client, log: s.Log, slowMs: cfg.SlowQueryMs}
	return s, nil
}

// Guard verifies the database is reachable
func (s *Store) Guard(ctx context.Context) error {
	if s == nil || s.PG == nil {
		return errors.New("nil store")
	}
	var one int
	return s.PG.QueryRow(ctx, "SELECT 1").Scan(&one)
}

// Pool exposes the raw pgx pool for callers that need it (migrations)
func (s *Store) Pool() *pg.PG { return s.pgClient }

// Close releases the underlying pool
func (s *Store) Close(_ context.Context) error {
	if s != nil && s.pgClient != nil {
		s.pgClient.Close()
	}
	return nil
}
