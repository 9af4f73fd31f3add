package store

import (
	"context"
	"strings"
	"time"

	"ladderbot/internal/platform/logger"

	"github.com/rs/zerolog"
)

// QueryEvent is one statement round trip
type QueryEvent struct {
	Driver  Dialect
	SQL     string
	Args    []any
	Elapsed time.Duration
	Err     error
	Slow    bool
}

// QueryTracer receives an event per statement from either backend
type QueryTracer interface {
	OnQuery(ctx context.Context, ev QueryEvent)
}

// Tracer logs every statement at info, slow ones at warn. STORE_LOG_SQL is
// an explicit request, so it ignores the root level.
func Tracer(base logger.Logger) QueryTracer {
	return zlTracer{log: base.Level(zerolog.DebugLevel).With().Str("component", "sql").Logger()}
}

type zlTracer struct{ log logger.Logger }

func (z zlTracer) OnQuery(_ context.Context, ev QueryEvent) {
	e := z.log.Info()
	if ev.Slow {
		e = z.log.Warn()
	}
	e.Str("driver", string(ev.Driver)).
		Dur("elapsed", ev.Elapsed).
		Bool("slow", ev.Slow).
		Str("sql", strings.Join(strings.Fields(ev.SQL), " ")).
		Interface("args", ev.Args).
		Err(ev.Err).
		Msg("sql: query")
}

// probe times statements for a tracer; a nil tracer makes it a no-op
type probe struct {
	driver Dialect
	tracer QueryTracer
	slow   time.Duration // zero or less marks nothing slow
}

func newProbe(d Dialect, t QueryTracer, slowMs int) probe {
	return probe{driver: d, tracer: t, slow: time.Duration(slowMs) * time.Millisecond}
}

func (p probe) emit(ctx context.Context, sql string, args []any, start time.Time, err error) {
	if p.tracer == nil {
		return
	}
	took := time.Since(start)
	p.tracer.OnQuery(ctx, QueryEvent{
		Driver:  p.driver,
		SQL:     sql,
		Args:    args,
		Elapsed: took,
		Err:     err,
		Slow:    p.slow > 0 && took >= p.slow,
	})
}

// tracedRow reports to the probe once Scan has surfaced the row's error
type tracedRow struct {
	scan func(dest ...any) error
	done func(error)
}

func (r tracedRow) Scan(dest ...any) error {
	err := r.scan(dest...)
	r.done(err)
	return err
}
