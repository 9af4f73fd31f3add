package store

import "time"

// Driver names accepted by STORE_DRIVER
const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// Config aggregates per backend configuration
type Config struct {
	AppName string

	// Driver selects the backend: "postgres" or "sqlite"
	Driver string

	PG     PGConfig
	SQLite SQLiteConfig

	// LogSQL enables the query tracer for either backend
	LogSQL      bool
	SlowQueryMs int

	// Boot knobs for the connect retry loop
	PingTimeout    time.Duration // default 3s
	ConnectTimeout time.Duration // total budget, default 60s
}

// PGConfig configures postgres connectivity
type PGConfig struct {
	URL      string
	MaxConns int32
}

// SQLiteConfig configures the embedded sqlite file
type SQLiteConfig struct {
	Path        string
	BusyTimeout time.Duration // default 5s
}

func (c Config) pingTimeout() time.Duration {
	if c.PingTimeout > 0 {
		return c.PingTimeout
	}
	return 3 * time.Second
}

func (c Config) connectTimeout() time.Duration {
	if c.ConnectTimeout > 0 {
		return c.ConnectTimeout
	}
	return 60 * time.Second
}
