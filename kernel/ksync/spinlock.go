// Package ksync provides the mutual exclusion primitive used by the device
// and console layers.
package ksync

import (
	"sync/atomic"

	"github.com/eternalcomet/arceos/kernel/sched"
)

// Spinlock implements a lock where a task that fails to acquire it yields to
// the scheduler between attempts.
type Spinlock struct {
	state uint32
}

// Acquire blocks until the lock is acquired by the currently active task. Any
// attempt to re-acquire a lock already held by the current task will cause a
// deadlock.
func (l *Spinlock) Acquire() {
	for !l.TryToAcquire() {
		sched.Yield()
	}
}

// TryToAcquire attempts to acquire the lock and returns true if the lock
// could be acquired or false otherwise.
func (l *Spinlock) TryToAcquire() bool {
	return atomic.SwapUint32(&l.state, 1) == 0
}

// Release relinquishes a held lock allowing other tasks to acquire it.
// Calling Release while the lock is free has no effect.
func (l *Spinlock) Release() {
	atomic.StoreUint32(&l.state, 0)
}
