package errors

import (
	"context"
	stderrs "errors"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
)

// SQLSTATE classes that clear up on their own. The server-side ones also
// mean the database is not taking work right now.
var (
	transientStates = map[string]bool{
		"40001": true, // serialization_failure
		"40P01": true, // deadlock_detected
		"55P03": true, // lock_not_available
		"57P03": true, // cannot_connect_now
		"53300": true, // too_many_connections
	}
	unavailableStates = map[string]bool{"57P03": true, "53300": true}

	// drivers that don't return a PgError (sqlite, dial failures)
	transientText = []string{
		"connection refused",
		"the database system is starting up",
		"terminating connection due to administrator command",
		"database is locked",
		"sqlite_busy",
	}
)

// ExtractPgError finds a *pgconn.PgError at the root of err
func ExtractPgError(err error) (*pgconn.PgError, bool) {
	var pe *pgconn.PgError
	ok := stderrs.As(Root(err), &pe)
	return pe, ok
}

// IsSQLState reports whether err is a PgError with the given SQLSTATE
func IsSQLState(err error, code string) bool {
	pe, ok := ExtractPgError(err)
	return ok && pe.Code == code
}

// FromPostgres wraps a storage error as DB, or as Unavailable when the
// server turned the connection away
func FromPostgres(err error, msg string) error {
	if err == nil {
		return nil
	}
	if pe, ok := ExtractPgError(err); ok && unavailableStates[pe.Code] {
		return Wrap(err, ErrorCodeUnavailable, msg)
	}
	return Wrap(err, ErrorCodeDB, msg)
}

// IsRetryable reports whether err is worth another attempt. Local
// cancellation never is.
func IsRetryable(err error) bool {
	if err == nil || stderrs.Is(err, context.Canceled) || stderrs.Is(err, context.DeadlineExceeded) {
		return false
	}
	if pe, ok := ExtractPgError(err); ok {
		return transientStates[pe.Code]
	}
	text := strings.ToLower(Root(err).Error())
	for _, s := range transientText {
		if strings.Contains(text, s) {
			return true
		}
	}
	return false
}
