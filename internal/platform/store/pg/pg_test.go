package pg

import (
	"context"
	"errors"
	"testing"
	"time"

	"ladderbot/internal/platform/testkit"

	"github.com/jackc/pgx/v5/pgxpool"
)

func TestConfigPool(t *testing.T) {
	t.Parallel()

	pc, err := Config{
		URL:      "postgres://bot:secret@db:5432/ladder?sslmode=disable",
		MaxConns: 6,
		AppName:  "ladderbot",
	}.pool()
	if err != nil {
		t.Fatalf("pool: %v", err)
	}
	testkit.MustEqual(t, int32(6), pc.MaxConns)
	testkit.MustEqual(t, 5*time.Minute, pc.MaxConnIdleTime)
	testkit.MustEqual(t, "ladderbot", pc.ConnConfig.RuntimeParams["application_name"])

	pc, err = Config{URL: "postgres://bot@db/ladder?pool_max_conns=3", MaxConnIdle: time.Minute}.pool()
	if err != nil {
		t.Fatalf("pool: %v", err)
	}
	testkit.MustEqual(t, int32(3), pc.MaxConns)
	testkit.MustEqual(t, time.Minute, pc.MaxConnIdleTime)
}

func TestOpenErrors(t *testing.T) {
	testkit.Serial(t)

	if _, err := Open(context.Background(), Config{URL: "://bad"}); err == nil {
		t.Fatalf("expected parse error")
	}

	testkit.Swap(t, &newPool, func(context.Context, *pgxpool.Config) (*pgxpool.Pool, error) {
		return nil, errors.New("boom")
	})
	if _, err := Open(context.Background(), Config{URL: "postgres://bot@db/ladder"}); err == nil {
		t.Fatalf("expected pool error")
	}
}

func TestCloseNilSafe(t *testing.T) {
	t.Parallel()

	var p *PG
	p.Close()
	(&PG{}).Close()
}
