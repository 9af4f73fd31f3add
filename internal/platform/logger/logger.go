// Package logger owns the process zerolog root and the context fields that
// tie log lines to an ops request, a verification flow or a sweep run
package logger

import (
	"cmp"
	"context"
	"io"
	"os"
	"runtime/debug"
	"strings"
	"sync"
	"time"

	"ladderbot/internal/platform/config/raw"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/pkgerrors"
)

// Logger is the project-wide logging type
type Logger = zerolog.Logger

// Options configures the root logger
type Options struct {
	Level   string // zerolog level name; unknown names mean info
	Format  string // "console" or "json"
	Service string
	Caller  bool
	Writer  io.Writer // stdout when nil
}

// FromEnv reads LOG_LEVEL, LOG_FORMAT, LOG_SERVICE and LOG_CALLER. It uses
// the raw view because the config package logs through here.
func FromEnv() Options {
	env := raw.New().Prefix("LOG_")
	return Options{
		Level:   strings.ToLower(env.Get("LEVEL", "info")),
		Format:  strings.ToLower(env.Get("FORMAT", "console")),
		Service: env.Get("SERVICE", "ladderbot"),
		Caller:  env.GetBool("CALLER", false),
	}
}

var (
	initOnce sync.Once
	root     zerolog.Logger
)

// Init builds the root logger. Only the first call has any effect.
func Init(opt Options) {
	initOnce.Do(func() { root = build(opt) })
}

// Get returns the root logger, building it from the environment on first use
func Get() *Logger {
	Init(FromEnv())
	return &root
}

func build(opt Options) zerolog.Logger {
	zerolog.ErrorStackMarshaler = pkgerrors.MarshalStack
	zerolog.TimeFieldFormat = time.RFC3339Nano

	out := opt.Writer
	if out == nil {
		out = os.Stdout
	}
	if opt.Format == "console" {
		out = zerolog.ConsoleWriter{Out: out, TimeFormat: time.RFC3339}
	}

	lvl, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(opt.Level)))
	if err != nil || lvl == zerolog.NoLevel {
		lvl = zerolog.InfoLevel
	}

	b := zerolog.New(out).Level(lvl).With().Timestamp()
	if opt.Service != "" {
		b = b.Str("service", opt.Service)
	}
	if bi, ok := debug.ReadBuildInfo(); ok {
		b = b.Str("go_version", bi.GoVersion)
	}
	if opt.Caller {
		b = b.Caller()
	}
	return b.Logger()
}

// fields is what C copies onto a child logger. Empty values are skipped.
type fields struct {
	requestID, runID, flowID, guildID, memberID string
}

type fieldsKey struct{}

func fieldsOf(ctx context.Context) fields {
	f, _ := ctx.Value(fieldsKey{}).(fields)
	return f
}

func withFields(ctx context.Context, edit func(*fields)) context.Context {
	f := fieldsOf(ctx)
	edit(&f)
	return context.WithValue(ctx, fieldsKey{}, f)
}

// WithRequest tags ctx with an ops API request id
func WithRequest(ctx context.Context, reqID string) context.Context {
	if reqID == "" {
		return ctx
	}
	return withFields(ctx, func(f *fields) { f.requestID = reqID })
}

// WithFlow tags ctx with one verification conversation
func WithFlow(ctx context.Context, flowID, guildID, memberID string) context.Context {
	return withFields(ctx, func(f *fields) {
		f.flowID = cmp.Or(flowID, f.flowID)
		f.guildID = cmp.Or(guildID, f.guildID)
		f.memberID = cmp.Or(memberID, f.memberID)
	})
}

// WithRun tags ctx with a sweep run id
func WithRun(ctx context.Context, runID string) context.Context {
	if runID == "" {
		return ctx
	}
	return withFields(ctx, func(f *fields) { f.runID = runID })
}

// FlowID returns the verification flow id on ctx, if any
func FlowID(ctx context.Context) string { return fieldsOf(ctx).flowID }

// C returns a child of the root carrying the ctx fields
func C(ctx context.Context) *Logger {
	f := fieldsOf(ctx)
	b := Get().With()
	for _, kv := range [...][2]string{
		{"request_id", f.requestID},
		{"run_id", f.runID},
		{"flow_id", f.flowID},
		{"guild_id", f.guildID},
		{"member_id", f.memberID},
	} {
		if kv[1] != "" {
			b = b.Str(kv[0], kv[1])
		}
	}
	l := b.Logger()
	return &l
}

// Named returns a child of the root with a component field
func Named(component string) *Logger { return withComponent(Get(), component) }

// NamedC is C plus a component field
func NamedC(ctx context.Context, component string) *Logger { return withComponent(C(ctx), component) }

func withComponent(l *Logger, name string) *Logger {
	if name == "" {
		return l
	}
	child := l.With().Str("component", name).Logger()
	return &child
}
