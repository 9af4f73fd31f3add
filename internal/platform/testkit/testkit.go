// Package testkit holds the assertions and seam helpers shared by tests
package testkit

import (
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

// MustEqual fails with a cmp diff when want and got differ
func MustEqual[T any](t *testing.T, want, got T, opts ...cmp.Option) {
	t.Helper()
	if d := cmp.Diff(want, got, opts...); d != "" {
		t.Fatalf("mismatch (-want +got):\n%s", d)
	}
}

// MustContain fails unless needle occurs in haystack. Long haystacks are
// cut to their tail, where the latest log lines are.
func MustContain(t *testing.T, haystack, needle string) {
	t.Helper()
	if strings.Contains(haystack, needle) {
		return
	}
	const keep = 2000
	shown := haystack
	if len(shown) > keep {
		shown = "..." + shown[len(shown)-keep:]
	}
	t.Fatalf("missing %q in:\n%s", needle, shown)
}

// MustPanic fails unless fn panics
func MustPanic(t *testing.T, fn func()) {
	t.Helper()
	defer func() {
		if recover() == nil {
			t.Fatalf("expected a panic")
		}
	}()
	fn()
}

// Eventually polls cond every few milliseconds until it holds or within runs out
func Eventually(t *testing.T, within time.Duration, cond func() bool) {
	t.Helper()
	tick := time.NewTicker(5 * time.Millisecond)
	defer tick.Stop()
	deadline := time.After(within)
	for !cond() {
		select {
		case <-tick.C:
		case <-deadline:
			t.Fatalf("condition not met within %s", within)
		}
	}
}

// Swap sets *target to v until the test ends. Pair it with Serial when
// other tests read the same seam.
func Swap[T any](t *testing.T, target *T, v T) {
	t.Helper()
	prev := *target
	*target = v
	t.Cleanup(func() { *target = prev })
}

var serial sync.Mutex

// Serial holds a process-wide lock for the rest of the test
func Serial(t *testing.T) {
	t.Helper()
	serial.Lock()
	t.Cleanup(serial.Unlock)
}
