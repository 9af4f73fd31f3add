package repokit

import (
	"context"
	"errors"
	"testing"

	"ladderbot/internal/platform/store"
	"ladderbot/internal/platform/testkit"
)

// snapshotRepo stands in for a profile repo bound to a querier
type snapshotRepo struct{ q Queryer }

type fakeQ struct{ name string }

func (fakeQ) Exec(context.Context, string, ...any) (store.CommandTag, error) { return nil, nil }
func (fakeQ) Query(context.Context, string, ...any) (store.Rows, error)      { return nil, nil }
func (fakeQ) QueryRow(context.Context, string, ...any) store.Row             { return nil }

type fakeTx struct {
	fakeQ
	txQ   fakeQ
	calls int
}

func (f *fakeTx) Tx(_ context.Context, fn func(Queryer) error) error {
	f.calls++
	return fn(f.txQ)
}

var bind = BindFunc[snapshotRepo](func(q Queryer) snapshotRepo { return snapshotRepo{q: q} })

func TestMustBind(t *testing.T) {
	r := MustBind[snapshotRepo](bind, fakeQ{name: "pool"})
	testkit.MustEqual(t, "pool", r.q.(fakeQ).name)
	testkit.MustPanic(t, func() { MustBind[snapshotRepo](bind, nil) })
}

func TestBindTxUsesTransactionQuerier(t *testing.T) {
	tx := &fakeTx{fakeQ: fakeQ{name: "pool"}, txQ: fakeQ{name: "tx"}}
	var seen string
	err := BindTx(context.Background(), tx, Binder[snapshotRepo](bind), func(r snapshotRepo) error {
		seen = r.q.(fakeQ).name
		return nil
	})
	if err != nil {
		t.Fatal(err)
	}
	testkit.MustEqual(t, "tx", seen)
	testkit.MustEqual(t, 1, tx.calls)
}

func TestBindTxReturnsFnError(t *testing.T) {
	boom := errors.New("conflict")
	err := BindTx(context.Background(), &fakeTx{}, Binder[snapshotRepo](bind), func(snapshotRepo) error { return boom })
	if !errors.Is(err, boom) {
		t.Fatalf("err = %v", err)
	}
}
