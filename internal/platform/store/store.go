// Package store is the one SQL seam repos talk to. Postgres (pgx) and the
// embedded sqlite file (modernc) sit behind the same small interfaces.
package store

import (
	"context"
	"fmt"

	"ladderbot/internal/platform/logger"
)

// Row is a single-row result
type Row interface {
	Scan(dest ...any) error
}

// Rows is a result set; callers must Close it
type Rows interface {
	Next() bool
	Scan(dest ...any) error
	Err() error
	Close()
}

// CommandTag reports what a write did
type CommandTag interface {
	String() string
	RowsAffected() int64
}

// RowQuerier is what repos read and write through, inside or outside a tx
type RowQuerier interface {
	Exec(ctx context.Context, sql string, args ...any) (CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) Row
}

// TxRunner runs fn in a transaction, committing when fn returns nil
type TxRunner interface {
	RowQuerier
	Tx(ctx context.Context, fn func(q RowQuerier) error) error
}

// Store holds the opened backend. An empty Driver opens nothing and leaves
// SQL nil.
type Store struct {
	Log     logger.Logger
	SQL     TxRunner
	Dialect Dialect
}

// Option adjusts a Store before it connects
type Option func(*Store)

// WithLogger routes connect retries and the query trace to log
func WithLogger(log logger.Logger) Option {
	return func(s *Store) { s.Log = log }
}

type opener func(context.Context, Config, *Store) (TxRunner, error)

var drivers = map[string]struct {
	open    opener
	dialect Dialect
}{
	DriverPostgres: {openPG, DialectPostgres},
	DriverSQLite:   {openSQLite, DialectSQLite},
}

// Open connects the configured driver, retrying the first ping with backoff
func Open(ctx context.Context, cfg Config, opts ...Option) (*Store, error) {
	s := &Store{Log: *logger.Named("store")}
	for _, o := range opts {
		o(s)
	}
	if cfg.Driver == "" {
		return s, nil
	}
	d, ok := drivers[cfg.Driver]
	if !ok {
		return nil, fmt.Errorf("store: unknown driver %q", cfg.Driver)
	}
	q, err := d.open(ctx, cfg, s)
	if err != nil {
		return nil, err
	}
	s.SQL, s.Dialect = q, d.dialect
	s.Log.Info().Str("driver", cfg.Driver).Msg("store: connected")
	return s, nil
}

// Close releases the backend; safe on nil and on an inert store
func (s *Store) Close(context.Context) error {
	if s == nil {
		return nil
	}
	if c, ok := s.SQL.(interface{ Close() error }); ok {
		return c.Close()
	}
	return nil
}
