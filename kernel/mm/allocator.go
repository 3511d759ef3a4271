package mm

import (
	"unsafe"

	"github.com/eternalcomet/arceos/kernel"
	"github.com/eternalcomet/arceos/kernel/ksync"
	"github.com/eternalcomet/arceos/kernel/mem"
)

var (
	errOutOfMemory   = &kernel.Error{Module: "mm", Message: "out of memory"}
	errInvalidPages  = &kernel.Error{Module: "mm", Message: "page count must be a positive number"}
	errArenaTooSmall = &kernel.Error{Module: "mm", Message: "allocator arena does not contain a full page"}

	// kernelPages is the global page allocator. It is initialized exactly
	// once during early boot via InitAllocator and serves every
	// page-granular allocation in the system, DMA buffers included.
	kernelPages PageAllocator
)

// PageAllocator hands out page-aligned blocks carved out of a fixed arena
// supplied at initialization time. Free pages are tracked with a bitmap, one
// bit per page, where a set bit marks a reserved page.
type PageAllocator struct {
	lock ksync.Spinlock

	// basePage is the index of the first managed page.
	basePage Page

	pageCount int
	freeCount int

	bitmap []uint64
}

// Init sets up the allocator to manage the page-aligned portion of arena.
func (a *PageAllocator) Init(arena []byte) *kernel.Error {
	if len(arena) < int(mem.PageSize) {
		return errArenaTooSmall
	}

	var (
		pageSizeMinus1 = uintptr(mem.PageSize - 1)
		start          = uintptr(unsafe.Pointer(&arena[0]))
		alignedStart   = (start + pageSizeMinus1) & ^pageSizeMinus1
		alignedEnd     = (start + uintptr(len(arena))) & ^pageSizeMinus1
	)

	if alignedStart >= alignedEnd {
		return errArenaTooSmall
	}

	a.basePage = PageFromAddress(alignedStart)
	a.pageCount = int((alignedEnd - alignedStart) >> mem.PageShift)
	a.freeCount = a.pageCount
	a.bitmap = make([]uint64, (a.pageCount+63)/64)

	return nil
}

// AllocPages reserves a block of count contiguous pages and returns the
// virtual address of the first page.
func (a *PageAllocator) AllocPages(count int) (uintptr, *kernel.Error) {
	if count <= 0 {
		return 0, errInvalidPages
	}

	a.lock.Acquire()
	defer a.lock.Release()

	if count > a.freeCount {
		return 0, errOutOfMemory
	}

	// First-fit scan for a run of count consecutive free pages. The number
	// of managed pages is small enough that a linear scan is fine.
	for first := 0; first <= a.pageCount-count; first++ {
		if a.isReserved(first) {
			continue
		}

		run := 1
		for ; run < count && !a.isReserved(first+run); run++ {
		}

		if run == count {
			for page := first; page < first+count; page++ {
				a.bitmap[page>>6] |= 1 << uint(page&63)
			}
			a.freeCount -= count
			return (a.basePage + Page(first)).Address(), nil
		}

		first += run
	}

	return 0, errOutOfMemory
}

// FreePages releases the block of count pages starting at the given virtual
// address back to the allocator. Addresses outside the managed arena are
// ignored.
func (a *PageAllocator) FreePages(virtAddr uintptr, count int) {
	a.lock.Acquire()
	defer a.lock.Release()

	first := int(PageFromAddress(virtAddr) - a.basePage)
	for page := first; page < first+count; page++ {
		if page < 0 || page >= a.pageCount {
			continue
		}

		if a.isReserved(page) {
			a.bitmap[page>>6] &^= 1 << uint(page&63)
			a.freeCount++
		}
	}
}

// FreePageCount returns the number of pages that are currently available for
// allocation.
func (a *PageAllocator) FreePageCount() int {
	a.lock.Acquire()
	defer a.lock.Release()
	return a.freeCount
}

func (a *PageAllocator) isReserved(page int) bool {
	return a.bitmap[page>>6]&(1<<uint(page&63)) != 0
}

// InitAllocator sets up the global page allocator over the supplied arena.
// It follows an init-once lifecycle: it is called exactly once during early
// boot, before any device is probed, and the allocator is never torn down.
func InitAllocator(arena []byte) *kernel.Error {
	return kernelPages.Init(arena)
}

// AllocPages reserves count contiguous pages from the global page allocator.
func AllocPages(count int) (uintptr, *kernel.Error) {
	return kernelPages.AllocPages(count)
}

// FreePages returns count pages starting at virtAddr to the global page
// allocator.
func FreePages(virtAddr uintptr, count int) {
	kernelPages.FreePages(virtAddr, count)
}
