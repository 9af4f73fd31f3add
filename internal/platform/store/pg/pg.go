// Package pg opens the pgx pool behind the Postgres store driver
package pg

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Config is the subset of pool settings the bot exposes
type Config struct {
	URL      string
	MaxConns int32  // zero keeps the URL or pgx default
	AppName  string // reported as application_name in pg_stat_activity

	// MaxConnIdle closes connections idle this long. The bot is quiet between
	// sweeps, so the default is short.
	MaxConnIdle time.Duration
}

// PG owns the pool
type PG struct {
	Pool *pgxpool.Pool
}

var newPool = pgxpool.NewWithConfig

func (c Config) pool() (*pgxpool.Config, error) {
	pc, err := pgxpool.ParseConfig(c.URL)
	if err != nil {
		return nil, err
	}
	if c.MaxConns > 0 {
		pc.MaxConns = c.MaxConns
	}
	pc.MaxConnIdleTime = 5 * time.Minute
	if c.MaxConnIdle > 0 {
		pc.MaxConnIdleTime = c.MaxConnIdle
	}
	if c.AppName != "" {
		pc.ConnConfig.RuntimeParams["application_name"] = c.AppName
	}
	return pc, nil
}

// Open parses cfg and builds the pool. Nothing is dialed until first use,
// so callers ping before trusting it.
func Open(ctx context.Context, cfg Config) (*PG, error) {
	pc, err := cfg.pool()
	if err != nil {
		return nil, err
	}
	pool, err := newPool(ctx, pc)
	if err != nil {
		return nil, err
	}
	return &PG{Pool: pool}, nil
}

// Close is safe on a nil or unopened PG
func (p *PG) Close() {
	if p == nil || p.Pool == nil {
		return
	}
	p.Pool.Close()
}
