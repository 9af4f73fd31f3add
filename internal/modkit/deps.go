// Package modkit wires feature modules: the shared deps they are built from,
// the options they accept and how they mount onto the ops router
package modkit

import (
	"ladderbot/internal/modkit/repokit"
	"ladderbot/internal/platform/chat"
	"ladderbot/internal/platform/config"
	"ladderbot/internal/platform/store"
)

// Deps is everything a module constructor may draw on. Modules read their
// own settings from Cfg and log through the logger package.
type Deps struct {
	Cfg config.Conf

	// SQL and Dialect come from the opened store; both are zero for modules
	// that never touch storage
	SQL     repokit.TxRunner
	Dialect store.Dialect

	// Chat is the one gateway session the app owns
	Chat chat.Session
}

// FromStore copies the store seams onto d. A nil store leaves d as is.
func (d Deps) FromStore(s *store.Store) Deps {
	if s == nil {
		return d
	}
	d.SQL = s.SQL
	d.Dialect = s.Dialect
	return d
}
