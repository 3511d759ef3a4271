package console

import (
	"github.com/eternalcomet/arceos/fdops"
	"github.com/eternalcomet/arceos/kernel/ksync"
	"github.com/eternalcomet/arceos/kernel/sched"
)

// lookahead is the single-byte cache that keeps poll and read consistent
// about already-observed input: while available is set, the cached byte has
// been observed by Poll but not yet delivered by Read, and Read must consume
// it before issuing further hardware reads.
type lookahead struct {
	buf       byte
	available bool
}

// Stdin adapts console input to the descriptor I/O layer. The lock guards
// both the raw hardware reader and the lookahead cache; it is held only for
// the duration of a single hardware transfer attempt or cache inspection and
// is never shared outside the adapter.
type Stdin struct {
	lock        ksync.Spinlock
	pending     lookahead
	nonblocking bool
}

// Stdout adapts console output to the descriptor I/O layer.
type Stdout struct {
	lock        ksync.Spinlock
	nonblocking bool
}

// The stdio adapters are process-wide state with an init-once lifecycle:
// they exist before descriptors 0-2 are first accessed and are never torn
// down while the process lives.
var (
	stdinDev  Stdin
	stdoutDev Stdout
)

// ActiveStdin returns the console input adapter serving descriptor 0.
func ActiveStdin() *Stdin {
	return &stdinDev
}

// ActiveStdout returns the console output adapter serving descriptors 1-2.
func ActiveStdout() *Stdout {
	return &stdoutDev
}

// Read blocks until at least one byte has been transferred into dst. There
// is no timeout and no cancellation: if no input ever arrives and nothing
// else runs, this loop spins forever under cooperative scheduling.
func (s *Stdin) Read(dst []byte) (int, fdops.Errno) {
	if len(dst) == 0 {
		return 0, fdops.OK
	}

	for {
		var n int

		s.lock.Acquire()
		if s.pending.available {
			// Deliver the byte poll has already observed before
			// touching the hardware again.
			dst[0] = s.pending.buf
			s.pending.available = false
			n = 1
		}
		n += ReadBytes(dst[n:])
		s.lock.Release()

		if n > 0 {
			return n, fdops.OK
		}

		// The lock is dropped while waiting so that concurrent poll
		// and write callers are never blocked by an idle reader.
		sched.Yield()
	}
}

// Write always fails: descriptor 0 is an input-only device.
func (s *Stdin) Write([]byte) (int, fdops.Errno) {
	return 0, fdops.EPERM
}

// Stat reports a character device readable by owner and group.
func (s *Stdin) Stat() (fdops.Stat, fdops.Errno) {
	return fdops.Stat{Ino: 1, Nlink: 1, Mode: fdops.ModeCharDevice | 0o440}, fdops.OK
}

// Poll probes the hardware for a single byte without blocking. A byte
// obtained by the probe is parked in the lookahead cache, never discarded,
// so the next Read delivers it first.
//
// Writable is reported as true even though this is an input-only device.
// Downstream logic may depend on that value, so it is preserved as part of
// the existing contract.
func (s *Stdin) Poll() (fdops.PollState, fdops.Errno) {
	s.lock.Acquire()

	readable := s.pending.available
	if !readable {
		var probe [1]byte
		if ReadBytes(probe[:]) > 0 {
			s.pending.buf = probe[0]
			s.pending.available = true
			readable = true
		}
	}

	s.lock.Release()

	return fdops.PollState{Readable: readable, Writable: true}, fdops.OK
}

// SetNonblocking records the nonblocking flag. The flag is recorded only;
// reads through this adapter always block.
func (s *Stdin) SetNonblocking(enable bool) fdops.Errno {
	s.lock.Acquire()
	s.nonblocking = enable
	s.lock.Release()
	return fdops.OK
}

// Self returns the concrete adapter for downcasting.
func (s *Stdin) Self() interface{} {
	return s
}

// Read always fails: descriptors 1-2 are output-only devices.
func (s *Stdout) Read([]byte) (int, fdops.Errno) {
	return 0, fdops.EPERM
}

// Write forwards src to the console hardware and returns the count written.
func (s *Stdout) Write(src []byte) (int, fdops.Errno) {
	if len(src) == 0 {
		return 0, fdops.OK
	}

	s.lock.Acquire()
	n := WriteBytes(src)
	s.lock.Release()

	return n, fdops.OK
}

// Stat reports a character device writable by owner and group.
func (s *Stdout) Stat() (fdops.Stat, fdops.Errno) {
	return fdops.Stat{Ino: 1, Nlink: 1, Mode: fdops.ModeCharDevice | 0o220}, fdops.OK
}

// Poll reports the console sink as always ready for output.
func (s *Stdout) Poll() (fdops.PollState, fdops.Errno) {
	return fdops.PollState{Readable: false, Writable: true}, fdops.OK
}

// SetNonblocking records the nonblocking flag; console writes never block.
func (s *Stdout) SetNonblocking(enable bool) fdops.Errno {
	s.lock.Acquire()
	s.nonblocking = enable
	s.lock.Release()
	return fdops.OK
}

// Self returns the concrete adapter for downcasting.
func (s *Stdout) Self() interface{} {
	return s
}
