package mm

import (
	"unsafe"

	"github.com/eternalcomet/arceos/kernel"
	"github.com/eternalcomet/arceos/kernel/mem"
)

// Direction describes which of the two sides of a DMA transfer is allowed to
// write to a shared buffer.
type Direction uint8

const (
	// DirToDevice marks a buffer the driver fills and the device reads.
	DirToDevice Direction = iota

	// DirFromDevice marks a buffer the device fills and the driver reads.
	DirFromDevice

	// DirBidirectional marks a buffer both sides read and write.
	DirBidirectional
)

// DMAAlloc reserves pageCount page-aligned pages from the global page
// allocator for use as a device-visible buffer and returns the physical
// address of the block together with a pointer to its virtual mapping.
//
// Allocation failure is reported through the documented sentinel value
// (physical address 0, nil pointer) instead of an error; callers must check
// for the sentinel before touching the buffer.
func DMAAlloc(pageCount int, _ Direction) (uintptr, unsafe.Pointer) {
	virtAddr, err := AllocPages(pageCount)
	if err != nil {
		return 0, nil
	}

	return VirtToPhys(virtAddr), unsafe.Pointer(virtAddr)
}

// DMADealloc releases the pages backing a buffer previously obtained from
// DMAAlloc and always reports success (0).
//
// The supplied physical address is accepted but not used for the release:
// the pages are identified by the virtual pointer alone, which silently
// assumes the single fixed linear physical/virtual offset holds for the
// lifetime of the system. This is a documented assumption of the design.
func DMADealloc(_ uintptr, virtPtr unsafe.Pointer, pageCount int) int {
	FreePages(uintptr(virtPtr), pageCount)
	return 0
}

// TranslateMMIO maps a physical device register window to a virtual pointer.
// This is a pure address translation under the fixed linear mapping; no
// memory is allocated and no page tables are modified.
func TranslateMMIO(physAddr uintptr, _ mem.Size) unsafe.Pointer {
	return unsafe.Pointer(PhysToVirt(physAddr))
}

// Share exposes a buffer's physical address to a device for DMA. No copy and
// no cache synchronization take place because the design assumes a single
// coherent address space.
func Share(buf []byte, _ Direction) uintptr {
	if len(buf) == 0 {
		return 0
	}
	return VirtToPhys(uintptr(unsafe.Pointer(&buf[0])))
}

// Unshare revokes a device's access to a previously shared buffer. It is a
// deliberate no-op: there is no IOMMU boundary on the supported targets and
// devices are assumed to be non-adversarial. This trust simplification is
// part of the documented contract and must not be replaced with a real
// revocation mechanism without revisiting the whole DMA model.
func Unshare(_ uintptr, _ []byte, _ Direction) {
}

// DMABuffer is an owning handle for a DMA-capable region. The only way to
// obtain one is NewDMABuffer and the only way to dispose of it is Release,
// so no code path can leak or double-free the underlying pages. The owning
// driver must not let the buffer outlive its device.
type DMABuffer struct {
	phys      uintptr
	ptr       unsafe.Pointer
	pageCount int
	dir       Direction
	released  bool
}

// NewDMABuffer allocates pageCount pages for DMA and wraps them in an owning
// handle.
func NewDMABuffer(pageCount int, dir Direction) (*DMABuffer, *kernel.Error) {
	phys, ptr := DMAAlloc(pageCount, dir)
	if ptr == nil {
		return nil, errOutOfMemory
	}

	return &DMABuffer{phys: phys, ptr: ptr, pageCount: pageCount, dir: dir}, nil
}

// Phys returns the physical address of the first page in the buffer.
func (b *DMABuffer) Phys() uintptr {
	return b.phys
}

// Ptr returns the virtual mapping of the buffer.
func (b *DMABuffer) Ptr() unsafe.Pointer {
	return b.ptr
}

// PageCount returns the number of pages backing the buffer.
func (b *DMABuffer) PageCount() int {
	return b.pageCount
}

// Bytes returns the buffer contents as a byte slice.
func (b *DMABuffer) Bytes() []byte {
	return unsafe.Slice((*byte)(b.ptr), b.pageCount<<mem.PageShift)
}

// Release returns the buffer's pages to the allocator. The buffer contents
// must not be accessed after Release; releasing an already released buffer
// has no effect.
func (b *DMABuffer) Release() {
	if b.released {
		return
	}

	b.released = true
	DMADealloc(b.phys, b.ptr, b.pageCount)
}
