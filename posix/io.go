// Package posix implements the descriptor-based syscall surface on top of
// the fdops capability interfaces. It owns the descriptor table and the
// scatter/gather transfer loops.
package posix

import (
	"github.com/eternalcomet/arceos/device/console"
	"github.com/eternalcomet/arceos/fdops"
	"github.com/eternalcomet/arceos/kernel/ksync"
)

// maxIOVCount is the upper bound on the number of elements a single
// scatter/gather request may carry, matching the POSIX IOV_MAX floor.
const maxIOVCount = 1024

// The descriptor table is append-only after boot; the lock serializes
// concurrent RegisterFD callers against table growth.
var (
	fdTableLock ksync.Spinlock
	fdTable     []fdops.FileLike
)

// Init seeds the descriptor table with the standard streams: descriptor 0 is
// the console input adapter and descriptors 1-2 share the console output
// adapter.
func Init() {
	fdTableLock.Acquire()
	fdTable = []fdops.FileLike{
		console.ActiveStdin(),
		console.ActiveStdout(),
		console.ActiveStdout(),
	}
	fdTableLock.Release()
}

// RegisterFD appends f to the descriptor table and returns its descriptor
// number.
func RegisterFD(f fdops.FileLike) int {
	fdTableLock.Acquire()
	fd := len(fdTable)
	fdTable = append(fdTable, f)
	fdTableLock.Release()
	return fd
}

// getFileLike resolves a descriptor number to its backing object.
func getFileLike(fd int) (fdops.FileLike, fdops.Errno) {
	fdTableLock.Acquire()
	defer fdTableLock.Release()

	if fd < 0 || fd >= len(fdTable) || fdTable[fd] == nil {
		return nil, fdops.EBADF
	}
	return fdTable[fd], fdops.OK
}

// Read transfers up to len(dst) bytes from the descriptor into dst. Buffer
// validation precedes descriptor resolution: a nil buffer is EFAULT even when
// the descriptor is also bad.
func Read(fd int, dst []byte) (int, fdops.Errno) {
	if dst == nil {
		return 0, fdops.EFAULT
	}

	f, errno := getFileLike(fd)
	if errno != fdops.OK {
		return 0, errno
	}

	return f.Read(dst)
}

// Write transfers up to len(src) bytes from src into the descriptor. Buffer
// validation precedes descriptor resolution, as for Read.
func Write(fd int, src []byte) (int, fdops.Errno) {
	if src == nil {
		return 0, fdops.EFAULT
	}

	f, errno := getFileLike(fd)
	if errno != fdops.OK {
		return 0, errno
	}

	return f.Write(src)
}

// Stat returns the metadata of the object behind the descriptor.
func Stat(fd int) (fdops.Stat, fdops.Errno) {
	f, errno := getFileLike(fd)
	if errno != fdops.OK {
		return fdops.Stat{}, errno
	}
	return f.Stat()
}

// Poll reports the readiness of the object behind the descriptor.
func Poll(fd int) (fdops.PollState, fdops.Errno) {
	f, errno := getFileLike(fd)
	if errno != fdops.OK {
		return fdops.PollState{}, errno
	}
	return f.Poll()
}

// SetNonblocking toggles the nonblocking flag of the object behind the
// descriptor.
func SetNonblocking(fd int, enable bool) fdops.Errno {
	f, errno := getFileLike(fd)
	if errno != fdops.OK {
		return errno
	}
	return f.SetNonblocking(enable)
}

// checkIOVCount validates the element count of a scatter/gather request.
// The count is validated against iovcnt, not len(iovs): a negative or
// oversized count is rejected with EINVAL before any element is touched,
// while a count the provided vector cannot back is an address fault.
func checkIOVCount(iovs [][]byte, iovcnt int) fdops.Errno {
	if iovcnt < 0 || iovcnt > maxIOVCount {
		return fdops.EINVAL
	}
	if iovcnt > len(iovs) {
		return fdops.EFAULT
	}
	return fdops.OK
}

// Readv fills the first iovcnt elements of iovs from the descriptor in order
// and returns the total number of bytes transferred. A transfer that fills an
// element only partially ends the request; the remaining elements are left
// untouched.
func Readv(fd int, iovs [][]byte, iovcnt int) (int, fdops.Errno) {
	if errno := checkIOVCount(iovs, iovcnt); errno != fdops.OK {
		return 0, errno
	}

	f, errno := getFileLike(fd)
	if errno != fdops.OK {
		return 0, errno
	}

	var total int
	for _, iov := range iovs[:iovcnt] {
		if len(iov) == 0 {
			continue
		}

		n, errno := f.Read(iov)
		if errno != fdops.OK {
			return 0, errno
		}

		total += n
		if n < len(iov) {
			break
		}
	}

	return total, fdops.OK
}

// Writev drains the first iovcnt elements of iovs into the descriptor in
// order and returns the total number of bytes transferred. A transfer the
// object accepts only partially ends the request.
func Writev(fd int, iovs [][]byte, iovcnt int) (int, fdops.Errno) {
	if errno := checkIOVCount(iovs, iovcnt); errno != fdops.OK {
		return 0, errno
	}

	f, errno := getFileLike(fd)
	if errno != fdops.OK {
		return 0, errno
	}

	var total int
	for _, iov := range iovs[:iovcnt] {
		if len(iov) == 0 {
			continue
		}

		n, errno := f.Write(iov)
		if errno != fdops.OK {
			return 0, errno
		}

		total += n
		if n < len(iov) {
			break
		}
	}

	return total, fdops.OK
}
