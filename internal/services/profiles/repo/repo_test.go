package repo

import (
	"strings"
	"testing"
	"time"

	"ladderbot/internal/platform/store"
)

func TestSnapshotSK_SortsChronologically(t *testing.T) {
	t.Parallel()

	base := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	times := []time.Time{
		base,
		base.Add(time.Nanosecond),
		base.Add(100 * time.Millisecond),
		base.Add(time.Second),
		base.Add(24 * time.Hour),
	}
	for i := 1; i < len(times); i++ {
		a, b := SnapshotSK(times[i-1]), SnapshotSK(times[i])
		if len(a) != len(b) {
			t.Fatalf("keys not fixed width: %q %q", a, b)
		}
		if a >= b {
			t.Fatalf("%q should sort before %q", a, b)
		}
	}
	if !strings.HasPrefix(SnapshotSK(base), snapPrefix) || SnapshotSK(base) >= snapEnd {
		t.Fatalf("key %q outside the snapshot range", SnapshotSK(base))
	}
	local := base.In(time.FixedZone("x", 3600))
	if SnapshotSK(local) != SnapshotSK(base) {
		t.Fatalf("keys must be UTC")
	}
}

func TestSQL_ExpandsTableAndRebinds(t *testing.T) {
	t.Parallel()

	r := New(store.DialectSQLite, "items").Bind(nil).(*queries)
	if got := r.sql(`SELECT doc FROM {{table}} WHERE pk = $1`); got != `SELECT doc FROM items WHERE pk = ?1` {
		t.Fatalf("sqlite sql = %q", got)
	}
	r = New(store.DialectPostgres, "").Bind(nil).(*queries)
	if got := r.sql(`SELECT doc FROM {{table}} WHERE pk = $1`); got != `SELECT doc FROM tvp WHERE pk = $1` {
		t.Fatalf("postgres sql = %q", got)
	}
	if PK("42") != "profile#42" {
		t.Fatalf("pk = %q", PK("42"))
	}
}
