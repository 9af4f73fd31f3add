// Package repokit binds repos to a query surface, inside or outside a transaction
package repokit

import (
	"context"

	"ladderbot/internal/platform/store"
)

// Queryer is what a bound repo runs its SQL against
type Queryer = store.RowQuerier

// TxRunner runs a function inside one transaction
type TxRunner = store.TxRunner

// Binder builds a repo T bound to a Queryer
type Binder[T any] interface {
	Bind(Queryer) T
}

// BindFunc adapts a function to Binder
type BindFunc[T any] func(Queryer) T

// Bind implements Binder
func (f BindFunc[T]) Bind(q Queryer) T { return f(q) }

// MustBind binds outside a transaction; a nil q is a wiring bug
func MustBind[T any](b Binder[T], q Queryer) T {
	if q == nil {
		panic("repokit: nil Queryer")
	}
	return b.Bind(q)
}

// BindTx runs fn with a repo bound to a fresh transaction. fn's error rolls it back.
func BindTx[T any](ctx context.Context, tx TxRunner, b Binder[T], fn func(T) error) error {
	return tx.Tx(ctx, func(q Queryer) error { return fn(b.Bind(q)) })
}
