// Package leaktest provides a goroutine leak check for tests that start
// background workers.
package leaktest

import (
	"runtime"
	"testing"
	"time"
)

// GoroutineChecker snapshots the goroutine count so a test can verify its
// workers actually exited after Stop.
type GoroutineChecker struct {
	before int
	t      testing.TB
}

// NewGoroutineChecker records the current goroutine count. Call it before
// starting the component under test.
func NewGoroutineChecker(t testing.TB) *GoroutineChecker {
	t.Helper()

	runtime.Gosched()
	time.Sleep(10 * time.Millisecond)

	return &GoroutineChecker{before: runtime.NumGoroutine(), t: t}
}

// Check fails the test when more than tolerance goroutines outlive the
// snapshot. Runtime goroutines come and go, so a small tolerance avoids
// flakes.
func (g *GoroutineChecker) Check(tolerance int) {
	g.t.Helper()

	// Give exiting goroutines a moment to be reaped
	deadline := time.Now().Add(time.Second)
	for {
		runtime.Gosched()
		runtime.GC()
		time.Sleep(25 * time.Millisecond)

		leaked := runtime.NumGoroutine() - g.before
		if leaked <= tolerance {
			return
		}
		if time.Now().After(deadline) {
			g.t.Errorf("goroutine leak: %d before, %d after (tolerance %d)",
				g.before, g.before+leaked, tolerance)
			return
		}
	}
}
