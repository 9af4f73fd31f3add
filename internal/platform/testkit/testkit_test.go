package testkit

import (
	"sync/atomic"
	"testing"
	"time"
)

func TestMustPanic(t *testing.T) {
	t.Parallel()

	MustPanic(t, func() {
		panic("boom")
	})
}

func TestMustContain(t *testing.T) {
	t.Parallel()

	MustContain(t, "sweep: start\nsweep: done", "sweep: done")
}

func TestMustEqual(t *testing.T) {
	t.Parallel()

	type pair struct {
		A string
		B []int
	}
	MustEqual(t, pair{A: "x", B: []int{1, 2}}, pair{A: "x", B: []int{1, 2}})
}

func TestEventually(t *testing.T) {
	t.Parallel()

	var n atomic.Int32
	go func() {
		time.Sleep(20 * time.Millisecond)
		n.Store(1)
	}()
	Eventually(t, 2*time.Second, func() bool { return n.Load() == 1 })
}

var clock = func() string { return "real" }

func TestSwapRestores(t *testing.T) {
	t.Run("swapped", func(t *testing.T) {
		Swap(t, &clock, func() string { return "fake" })
		MustEqual(t, "fake", clock())
	})
	MustEqual(t, "real", clock())
}

func TestSerialReleasesOnCleanup(t *testing.T) {
	for range 3 {
		t.Run("locked", func(t *testing.T) { Serial(t) })
	}
}
