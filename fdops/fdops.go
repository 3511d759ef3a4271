// Package fdops defines the capability interface implemented by everything
// that can be addressed by a descriptor number, together with the error
// taxonomy the syscall dispatcher translates to POSIX error codes.
package fdops

// Errno is the error taxonomy surfaced to descriptor-based callers. The zero
// value means success.
type Errno int

const (
	OK     Errno = 0
	EPERM  Errno = 1  // operation not permitted
	EBADF  Errno = 9  // bad descriptor
	EFAULT Errno = 14 // invalid address
	EINVAL Errno = 22 // invalid argument
)

// Error implements the error interface.
func (e Errno) Error() string {
	switch e {
	case OK:
		return "no error"
	case EPERM:
		return "operation not permitted"
	case EBADF:
		return "bad descriptor"
	case EFAULT:
		return "invalid address"
	case EINVAL:
		return "invalid argument"
	}
	return "unknown error"
}

// Mode bits reported by Stat. The high bits encode the device class and the
// low 9 bits encode Unix-style permission bits.
const (
	// ModeCharDevice flags the descriptor as a character device.
	ModeCharDevice uint32 = 0o20000
)

// Stat describes the metadata of a file-like object.
type Stat struct {
	Ino   uint64
	Nlink uint64
	Mode  uint32
}

// PollState reports the current readiness of a file-like object.
type PollState struct {
	Readable bool
	Writable bool
}

// FileLike is the capability set consumed by the syscall dispatcher for
// descriptors 0-2 and for arbitrary driver-backed descriptors. Which
// operations succeed doubles as the object's capability flags: an input-only
// device fails Write with EPERM and vice versa.
type FileLike interface {
	// Read transfers up to len(dst) bytes from the object into dst and
	// returns the number of bytes transferred.
	Read(dst []byte) (int, Errno)

	// Write transfers up to len(src) bytes from src into the object and
	// returns the number of bytes transferred.
	Write(src []byte) (int, Errno)

	// Stat returns the object's metadata.
	Stat() (Stat, Errno)

	// Poll reports the object's current readiness without blocking.
	Poll() (PollState, Errno)

	// SetNonblocking toggles the object's nonblocking flag.
	SetNonblocking(enable bool) Errno

	// Self returns the concrete object behind the interface so callers
	// holding a descriptor can downcast to a specific adapter type.
	Self() interface{}
}
