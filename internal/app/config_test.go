package app

import (
	"testing"
	"time"

	"ladderbot/internal/adapters/dupr"
	"ladderbot/internal/platform/config"
	perr "ladderbot/internal/platform/errors"
	"ladderbot/internal/platform/store"
	"ladderbot/internal/platform/testkit"
)

func baseEnv(t *testing.T) {
	t.Helper()
	t.Setenv("DISCORD_BOT_TOKEN", "bot-token")
	t.Setenv("DUPR_TOKEN", "dupr-token")
	t.Setenv("ROLES_UNVERIFIED", "r-unv")
	t.Setenv("ROLES_VERIFIED", "r-ver")
	t.Setenv("TEST_MODE", "")
	t.Setenv("STORE_DRIVER", "")
	t.Setenv("STORE_PG_URL", "")
	t.Setenv("DUPR_BASE_URL", "")
	t.Setenv("LEADERBOARD_HIGH", "")
}

func TestLoadDefaults(t *testing.T) {
	baseEnv(t)
	c, err := Load(config.New())
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	testkit.MustEqual(t, "https://api.dupr.gg", c.DUPR.BaseURL)
	testkit.MustEqual(t, dupr.DefaultGeo, c.DUPR.Geo)
	testkit.MustEqual(t, store.DriverSQLite, c.Store.Driver)
	testkit.MustEqual(t, "127.0.0.1:8080", c.Ops.Addr)
	testkit.MustEqual(t, 5*time.Minute, c.Verify.ReplyTimeout)
	testkit.MustEqual(t, "dupr-local-leaderboard", c.Leaderboard.LeaderboardChannel)

	so := c.StoreOptions()
	testkit.MustEqual(t, "ladderbot.db", so.SQLite.Path)
	testkit.MustEqual(t, int32(4), so.PG.MaxConns)
	testkit.MustEqual(t, "dupr-token", c.DUPROptions().Token)
}

func TestLoadReportsMissingSecrets(t *testing.T) {
	baseEnv(t)
	t.Setenv("DISCORD_BOT_TOKEN", "")
	t.Setenv("DUPR_TOKEN", "")

	_, err := Load(config.New())
	testkit.MustEqual(t, true, perr.IsCode(err, perr.ErrorCodeValidation))
	testkit.MustContain(t, err.Error(), "DISCORD_BOT_TOKEN is a required field")
	testkit.MustContain(t, err.Error(), "DUPR_TOKEN is a required field")
}

func TestLoadPostgresNeedsURL(t *testing.T) {
	baseEnv(t)
	t.Setenv("STORE_DRIVER", "Postgres")

	_, err := Load(config.New())
	testkit.MustEqual(t, true, perr.IsCode(err, perr.ErrorCodeValidation))
	e, _ := perr.As(err)
	testkit.MustEqual(t, "STORE_PG_URL", e.Field())

	t.Setenv("STORE_PG_URL", "postgres://bot@localhost/ladder")
	c, err := Load(config.New())
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	testkit.MustEqual(t, store.DriverPostgres, c.StoreOptions().Driver)
}

func TestLoadRejectsUnknownDriver(t *testing.T) {
	baseEnv(t)
	t.Setenv("STORE_DRIVER", "mysql")
	_, err := Load(config.New())
	testkit.MustContain(t, err.Error(), "STORE_DRIVER must be one of [postgres sqlite]")
}

func TestLoadValidatesNestedModules(t *testing.T) {
	baseEnv(t)
	t.Setenv("ROLES_VERIFIED", "")
	t.Setenv("LEADERBOARD_HIGH", "3.5")

	_, err := Load(config.New())
	testkit.MustContain(t, err.Error(), "Verified is a required field")
	testkit.MustContain(t, err.Error(), "High must be greater than Mid")
}

func TestLoadTestModeRoles(t *testing.T) {
	baseEnv(t)
	t.Setenv("TEST_MODE", "true")
	t.Setenv("TEST_ROLES_UNVERIFIED", "t-unv")
	t.Setenv("TEST_ROLES_VERIFIED", "t-ver")

	c, err := Load(config.New())
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	testkit.MustEqual(t, "t-ver", c.Verify.Roles.Verified)
	testkit.MustEqual(t, 30*time.Second, c.Verify.ReplyTimeout)
}
