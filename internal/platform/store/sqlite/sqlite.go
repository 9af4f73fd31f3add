// Package sqlite opens the embedded single-node database through modernc.org/sqlite
package sqlite

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

// Config configures the sqlite file
type Config struct {
	Path        string
	BusyTimeout time.Duration
}

// DSN builds the modernc connection string: WAL for concurrent readers and a
// busy timeout so concurrent writers wait instead of failing
func DSN(cfg Config) string {
	busy := cfg.BusyTimeout
	if busy <= 0 {
		busy = 5 * time.Second
	}
	return fmt.Sprintf("file:%s?_pragma=journal_mode(WAL)&_pragma=busy_timeout(%d)&_pragma=synchronous(NORMAL)",
		cfg.Path, busy.Milliseconds())
}

// Open opens (or creates) the database at cfg.Path. The parent directory is
// created when missing to avoid SQLITE_CANTOPEN.
func Open(cfg Config) (*sql.DB, error) {
	if cfg.Path == "" {
		return nil, fmt.Errorf("sqlite: empty path")
	}
	if dir := filepath.Dir(cfg.Path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, err
		}
	}
	db, err := sql.Open("sqlite", DSN(cfg))
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(4)
	return db, nil
}
