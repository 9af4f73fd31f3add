package store

import (
	"context"
	"fmt"
	"time"

	perr "ladderbot/internal/platform/errors"
	"ladderbot/internal/platform/store/pg"
	"ladderbot/internal/platform/store/sqlite"

	"github.com/cenkalti/backoff/v4"
)

// retryConnect pings until healthy, the budget runs out, or the error is
// known to be permanent
func retryConnect(ctx context.Context, cfg Config, s *Store, what string, ping func(context.Context) error) error {
	exp := backoff.NewExponentialBackOff()
	exp.InitialInterval = 150 * time.Millisecond
	exp.MaxInterval = 2 * time.Second
	exp.MaxElapsedTime = cfg.connectTimeout()

	attempt := 0
	op := func() error {
		attempt++
		toCtx, cancel := context.WithTimeout(ctx, cfg.pingTimeout())
		err := ping(toCtx)
		cancel()
		if err == nil {
			return nil
		}
		if ctx.Err() != nil {
			return backoff.Permanent(ctx.Err())
		}
		if !perr.IsRetryable(err) {
			return backoff.Permanent(err)
		}
		s.Log.Warn().Err(err).Int("attempt", attempt).Str("backend", what).Msg("store not ready, retrying")
		return err
	}
	if err := backoff.Retry(op, backoff.WithContext(exp, ctx)); err != nil {
		return fmt.Errorf("%s ping failed after %d attempts: %w", what, attempt, err)
	}
	return nil
}

// openPG opens pg and wraps it with our sql adapter
func openPG(ctx context.Context, cfg Config, s *Store) (TxRunner, error) {
	var tracer QueryTracer
	if cfg.LogSQL {
		tracer = Tracer(s.Log)
	}

	p, err := pg.Open(ctx, pg.Config{
		URL:      cfg.PG.URL,
		MaxConns: cfg.PG.MaxConns,
		AppName:  cfg.AppName,
	})
	if err != nil {
		return nil, perr.Wrap(err, perr.ErrorCodeValidation, "parse postgres url")
	}

	// ping the pool directly so boot attempts stay out of the query trace
	if err := retryConnect(ctx, cfg, s, "postgres", p.Pool.Ping); err != nil {
		p.Close()
		return nil, perr.FromPostgres(err, "connect postgres")
	}
	return newPGAdapter(p, tracer, cfg.SlowQueryMs), nil
}

// openSQLite opens the sqlite file and wraps it with the database/sql adapter
func openSQLite(ctx context.Context, cfg Config, s *Store) (TxRunner, error) {
	var tracer QueryTracer
	if cfg.LogSQL {
		tracer = Tracer(s.Log)
	}

	db, err := sqlite.Open(sqlite.Config{Path: cfg.SQLite.Path, BusyTimeout: cfg.SQLite.BusyTimeout})
	if err != nil {
		return nil, perr.Wrap(err, perr.ErrorCodeDB, "open sqlite")
	}
	if err := retryConnect(ctx, cfg, s, "sqlite", db.PingContext); err != nil {
		_ = db.Close()
		return nil, perr.Wrap(err, perr.ErrorCodeUnavailable, "connect sqlite")
	}
	return newSQLAdapter(db, tracer, cfg.SlowQueryMs), nil
}
