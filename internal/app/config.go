// Package app assembles the process configuration and wires the bot
package app

import (
	"strings"
	"time"

	"ladderbot/internal/adapters/dupr"
	"ladderbot/internal/platform/config"
	"ladderbot/internal/platform/store"
	"ladderbot/internal/platform/validate"
	lbmod "ladderbot/internal/services/leaderboard/module"
	profmod "ladderbot/internal/services/profiles/module"
	verifymod "ladderbot/internal/services/verify/module"
)

// Config is the validated process configuration
type Config struct {
	DiscordToken string `env:"DISCORD_BOT_TOKEN" validate:"required"`

	DUPR        DUPRConfig
	Store       StoreConfig
	Ops         OpsConfig
	Profiles    profmod.Options
	Verify      verifymod.Options
	Leaderboard lbmod.Options
}

// DUPRConfig configures the rating service client
type DUPRConfig struct {
	BaseURL string        `env:"DUPR_BASE_URL" validate:"required,url"`
	Token   string        `env:"DUPR_TOKEN" validate:"required"`
	APIKey  string        `env:"DUPR_API_KEY"`
	Timeout time.Duration `env:"DUPR_TIMEOUT" validate:"gt=0"`
	Geo     dupr.GeoFilter
}

// StoreConfig selects and configures the profile store backend
type StoreConfig struct {
	Driver      string `env:"STORE_DRIVER" validate:"oneof=postgres sqlite"`
	PGURL       string `env:"STORE_PG_URL" validate:"required_if=Driver postgres"`
	MaxConns    int    `env:"STORE_PG_MAX_CONNS" validate:"gte=1"`
	SQLitePath  string `env:"STORE_SQLITE_PATH" validate:"required_if=Driver sqlite"`
	LogSQL      bool   `env:"STORE_LOG_SQL"`
	SlowQueryMs int    `env:"STORE_SLOW_MS" validate:"gte=0"`
}

// OpsConfig configures the ops HTTP listener
type OpsConfig struct {
	Addr        string   `env:"OPS_ADDR" validate:"required"`
	CORSOrigins []string `env:"OPS_CORS_ORIGINS"`
	Profiler    bool     `env:"OPS_PPROF"`
	// Grace bounds the HTTP drain on shutdown
	Grace time.Duration `env:"OPS_GRACE" validate:"gt=0"`
}

// Load reads the environment view into a Config and validates it
func Load(cfg config.Conf) (Config, error) {
	c := FromConfig(cfg)
	if err := validate.Struct(c); err != nil {
		return Config{}, err
	}
	return c, nil
}

// FromConfig reads every setting without validating
func FromConfig(cfg config.Conf) Config {
	d := cfg.Prefix("DUPR_")
	s := cfg.Prefix("STORE_")
	o := cfg.Prefix("OPS_")
	return Config{
		DiscordToken: cfg.Prefix("DISCORD_").MayString("BOT_TOKEN", ""),
		DUPR: DUPRConfig{
			BaseURL: d.MayString("BASE_URL", "https://api.dupr.gg"),
			Token:   d.MayString("TOKEN", ""),
			APIKey:  d.MayString("API_KEY", ""),
			Timeout: d.MayDuration("TIMEOUT", 10*time.Second),
			Geo: dupr.GeoFilter{
				Lat:          d.MayFloat64("SEARCH_LAT", dupr.DefaultGeo.Lat),
				Lng:          d.MayFloat64("SEARCH_LNG", dupr.DefaultGeo.Lng),
				RadiusMeters: d.MayFloat64("SEARCH_RADIUS_M", dupr.DefaultGeo.RadiusMeters),
			},
		},
		Store: StoreConfig{
			Driver:      strings.ToLower(s.MayString("DRIVER", store.DriverSQLite)),
			PGURL:       s.MayString("PG_URL", ""),
			MaxConns:    s.MayInt("PG_MAX_CONNS", 4),
			SQLitePath:  s.MayString("SQLITE_PATH", "ladderbot.db"),
			LogSQL:      s.MayBool("LOG_SQL", false),
			SlowQueryMs: s.MayInt("SLOW_MS", 500),
		},
		Ops: OpsConfig{
			Addr:        o.MayString("ADDR", "127.0.0.1:8080"),
			CORSOrigins: o.MayCSV("CORS_ORIGINS", nil),
			Profiler:    o.MayBool("PPROF", false),
			Grace:       o.MayDuration("GRACE", 10*time.Second),
		},
		Profiles:    profmod.FromConfig(cfg),
		Verify:      verifymod.FromConfig(cfg),
		Leaderboard: lbmod.FromConfig(cfg),
	}
}

// StoreOptions maps the store settings onto store.Config
func (c Config) StoreOptions() store.Config {
	return store.Config{
		AppName: "ladderbot",
		Driver:  c.Store.Driver,
		PG: store.PGConfig{
			URL:      c.Store.PGURL,
			MaxConns: int32(c.Store.MaxConns),
		},
		SQLite:      store.SQLiteConfig{Path: c.Store.SQLitePath},
		LogSQL:      c.Store.LogSQL,
		SlowQueryMs: c.Store.SlowQueryMs,
	}
}

// DUPROptions maps the rating service settings onto dupr.Options
func (c Config) DUPROptions() dupr.Options {
	return dupr.Options{
		BaseURL: c.DUPR.BaseURL,
		Token:   c.DUPR.Token,
		APIKey:  c.DUPR.APIKey,
		Timeout: c.DUPR.Timeout,
		Geo:     c.DUPR.Geo,
	}
}
