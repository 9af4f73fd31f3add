//go:build integration_pg

package pg

import (
	"context"
	"testing"
	"time"

	"ladderbot/internal/platform/store/pg/pgtest"
)

func TestOpen_Ping_Integration(t *testing.T) {
	dsn := pgtest.Start(t)

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	p, err := Open(ctx, Config{URL: dsn, AppName: "ladderbot-pg-integration"})
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(p.Close)

	if err := p.Pool.Ping(ctx); err != nil {
		t.Fatalf("Ping: %v", err)
	}
	var app string
	if err := p.Pool.QueryRow(ctx, `select current_setting('application_name')`).Scan(&app); err != nil {
		t.Fatalf("app name: %v", err)
	}
	if app != "ladderbot-pg-integration" {
		t.Fatalf("application_name = %q", app)
	}
}
