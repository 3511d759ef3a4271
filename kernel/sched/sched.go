// Package sched exposes the cooperative scheduling primitive that blocking
// code in this layer depends on. The actual scheduler implementation lives
// outside the device/event core and registers itself during early boot.
package sched

var yieldFn func()

// SetYieldFn registers the scheduler's yield primitive. It must be called
// before any code path that can block enters its wait loop.
func SetYieldFn(fn func()) {
	yieldFn = fn
}

// Yield surrenders the current execution context so another one can make
// progress. Calling Yield before a yield function has been registered is a
// no-op.
func Yield() {
	if yieldFn != nil {
		yieldFn()
	}
}
