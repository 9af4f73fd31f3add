package store

import (
	"context"
	"database/sql"
	"errors"
	"strconv"
	"time"
)

// sqlConn is the shared surface of *sql.DB and *sql.Tx
type sqlConn interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// sqlQuerier is pgQuerier for database/sql handles
type sqlQuerier struct {
	c     sqlConn
	probe probe
}

func (q sqlQuerier) Exec(ctx context.Context, query string, args ...any) (CommandTag, error) {
	start := time.Now()
	res, err := q.c.ExecContext(ctx, query, args...)
	q.probe.emit(ctx, query, args, start, err)
	if err != nil {
		return sqlTag(0), err
	}
	n, err := res.RowsAffected()
	return sqlTag(n), err
}

func (q sqlQuerier) Query(ctx context.Context, query string, args ...any) (Rows, error) {
	start := time.Now()
	rs, err := q.c.QueryContext(ctx, query, args...)
	q.probe.emit(ctx, query, args, start, err)
	if err != nil {
		return nil, err
	}
	return sqlRows{rs}, nil
}

// QueryRow maps sql.ErrNoRows onto ErrNoRows so repos check one sentinel
func (q sqlQuerier) QueryRow(ctx context.Context, query string, args ...any) Row {
	start := time.Now()
	r := q.c.QueryRowContext(ctx, query, args...)
	return tracedRow{
		scan: func(dest ...any) error {
			err := r.Scan(dest...)
			if errors.Is(err, sql.ErrNoRows) {
				return ErrNoRows
			}
			return err
		},
		done: func(err error) { q.probe.emit(ctx, query, args, start, err) },
	}
}

type sqlRows struct{ *sql.Rows }

func (r sqlRows) Close() { _ = r.Rows.Close() }

type sqlTag int64

func (t sqlTag) String() string      { return "OK " + strconv.FormatInt(int64(t), 10) }
func (t sqlTag) RowsAffected() int64 { return int64(t) }

type sqlAdapter struct {
	sqlQuerier
	db *sql.DB
}

func newSQLAdapter(db *sql.DB, tracer QueryTracer, slowMs int) *sqlAdapter {
	return &sqlAdapter{
		sqlQuerier: sqlQuerier{c: db, probe: newProbe(DialectSQLite, tracer, slowMs)},
		db:         db,
	}
}

func (a *sqlAdapter) Ping(ctx context.Context) error { return a.db.PingContext(ctx) }

func (a *sqlAdapter) Close() error { return a.db.Close() }

func (a *sqlAdapter) Tx(ctx context.Context, fn func(RowQuerier) error) error {
	tx, err := a.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	if err := fn(sqlQuerier{c: tx, probe: a.probe}); err != nil {
		_ = tx.Rollback()
		return err
	}
	return tx.Commit()
}
