package store

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
)

func fastConnect() Config {
	return Config{PingTimeout: 50 * time.Millisecond, ConnectTimeout: 2 * time.Second}
}

func TestRetryConnectRetriesTransientErrors(t *testing.T) {
	calls := 0
	ping := func(context.Context) error {
		calls++
		if calls < 3 {
			return &pgconn.PgError{Code: "57P03"}
		}
		return nil
	}
	if err := retryConnect(context.Background(), fastConnect(), &Store{}, "postgres", ping); err != nil {
		t.Fatalf("retryConnect: %v", err)
	}
	if calls != 3 {
		t.Fatalf("calls = %d, want 3", calls)
	}
}

func TestRetryConnectStopsOnPermanentError(t *testing.T) {
	calls := 0
	ping := func(context.Context) error {
		calls++
		return &pgconn.PgError{Code: "28P01", Message: "password authentication failed"}
	}
	err := retryConnect(context.Background(), fastConnect(), &Store{}, "postgres", ping)
	if err == nil || !strings.Contains(err.Error(), "after 1 attempts") {
		t.Fatalf("err = %v, want a single attempt", err)
	}
	if calls != 1 {
		t.Fatalf("calls = %d, want 1", calls)
	}
}

func TestRetryConnectHonorsCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	ping := func(context.Context) error {
		cancel()
		return errors.New("connection refused")
	}
	err := retryConnect(ctx, fastConnect(), &Store{}, "sqlite", ping)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v, want context.Canceled", err)
	}
}
