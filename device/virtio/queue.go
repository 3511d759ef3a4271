package virtio

import (
	"github.com/eternalcomet/arceos/kernel"
	"github.com/eternalcomet/arceos/kernel/mem"
	"github.com/eternalcomet/arceos/kernel/mm"
)

var errQueueSize = &kernel.Error{Module: "virtio", Message: "virtqueue size must be a power of 2"}

// Split virtqueue layout constants (virtio 1.x): each descriptor occupies 16
// bytes; the available and used rings carry a 2-byte flags field, a 2-byte
// index, their ring entries and a trailing 2-byte event index.
const (
	descEntryBytes  = 16
	availEntryBytes = 2
	usedEntryBytes  = 8
	ringHeaderBytes = 4
	ringEventBytes  = 2
)

// Queue owns the DMA memory backing one split virtqueue: the descriptor
// table, the driver (available) ring and the device (used) ring, laid out
// contiguously in a single page-aligned buffer.
type Queue struct {
	size uint16
	buf  *mm.DMABuffer

	descPhys  uintptr
	availPhys uintptr
	usedPhys  uintptr
}

// NewQueue allocates the rings for a virtqueue of the given size through the
// DMA bridge.
func NewQueue(size uint16) (*Queue, *kernel.Error) {
	if size == 0 || size&(size-1) != 0 {
		return nil, errQueueSize
	}

	var (
		descBytes  = descEntryBytes * int(size)
		availBytes = ringHeaderBytes + availEntryBytes*int(size) + ringEventBytes
		usedBytes  = ringHeaderBytes + usedEntryBytes*int(size) + ringEventBytes

		// The used ring requires 4-byte alignment.
		usedOffset = (descBytes + availBytes + 3) &^ 3
		totalBytes = usedOffset + usedBytes
		pageCount  = (totalBytes + int(mem.PageSize) - 1) >> mem.PageShift
	)

	buf, err := mm.NewDMABuffer(pageCount, mm.DirBidirectional)
	if err != nil {
		return nil, err
	}

	base := buf.Phys()
	return &Queue{
		size:      size,
		buf:       buf,
		descPhys:  base,
		availPhys: base + uintptr(descBytes),
		usedPhys:  base + uintptr(usedOffset),
	}, nil
}

// Size returns the number of descriptors in the queue.
func (q *Queue) Size() uint16 {
	return q.size
}

// Release returns the queue's ring memory to the DMA bridge. The device must
// no longer reference the rings when Release is called.
func (q *Queue) Release() {
	if q.buf != nil {
		q.buf.Release()
		q.buf = nil
	}
}
