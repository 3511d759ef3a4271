package mm

import (
	"testing"

	"github.com/eternalcomet/arceos/kernel/mem"
)

func TestAllocatorInitErrors(t *testing.T) {
	var alloc PageAllocator

	if err := alloc.Init(nil); err != errArenaTooSmall {
		t.Fatalf("expected Init with an empty arena to return errArenaTooSmall; got %v", err)
	}

	if err := alloc.Init(make([]byte, 64)); err != errArenaTooSmall {
		t.Fatalf("expected Init with a sub-page arena to return errArenaTooSmall; got %v", err)
	}
}

func TestAllocPagesReturnsAlignedBlocks(t *testing.T) {
	var (
		alloc PageAllocator
		arena = make([]byte, 16*mem.PageSize)
	)

	if err := alloc.Init(arena); err != nil {
		t.Fatal(err)
	}

	addr, err := alloc.AllocPages(4)
	if err != nil {
		t.Fatal(err)
	}

	if addr&uintptr(mem.PageSize-1) != 0 {
		t.Fatalf("expected allocated block to be page-aligned; got 0x%x", addr)
	}

	if got := PageFromAddress(addr); got != alloc.basePage {
		t.Fatalf("expected the first allocation to start at page %d; got %d", alloc.basePage, got)
	}

	if got := alloc.FreePageCount(); got != alloc.pageCount-4 {
		t.Fatalf("expected %d free pages after the allocation; got %d", alloc.pageCount-4, got)
	}
}

func TestAllocFreeRoundTrip(t *testing.T) {
	var (
		alloc PageAllocator
		arena = make([]byte, 9*mem.PageSize)
	)

	if err := alloc.Init(arena); err != nil {
		t.Fatal(err)
	}

	// Drain the allocator completely.
	total := alloc.pageCount
	addr, err := alloc.AllocPages(total)
	if err != nil {
		t.Fatal(err)
	}

	if _, err = alloc.AllocPages(1); err != errOutOfMemory {
		t.Fatalf("expected allocating from a drained allocator to return errOutOfMemory; got %v", err)
	}

	// Releasing the block must allow a smaller allocation to be satisfied
	// from the freed range.
	alloc.FreePages(addr, total)

	reAddr, err := alloc.AllocPages(total / 2)
	if err != nil {
		t.Fatal(err)
	}

	if reAddr != addr {
		t.Fatalf("expected the freed range to satisfy the next allocation; got 0x%x, want 0x%x", reAddr, addr)
	}
}

func TestAllocPagesSkipsFragmentedRuns(t *testing.T) {
	var (
		alloc PageAllocator
		arena = make([]byte, 9*mem.PageSize)
	)

	if err := alloc.Init(arena); err != nil {
		t.Fatal(err)
	}

	first, err := alloc.AllocPages(2)
	if err != nil {
		t.Fatal(err)
	}

	second, err := alloc.AllocPages(2)
	if err != nil {
		t.Fatal(err)
	}

	// Free the first block only; a 4-page request must not be satisfied by
	// the 2-page hole preceding the second block.
	alloc.FreePages(first, 2)

	third, err := alloc.AllocPages(4)
	if err != nil {
		t.Fatal(err)
	}

	if third < second+2<<mem.PageShift {
		t.Fatalf("expected the 4-page block at 0x%x to be placed after the reserved block at 0x%x", third, second)
	}
}

func TestFreePagesIgnoresForeignAddresses(t *testing.T) {
	var (
		alloc PageAllocator
		arena = make([]byte, 4*mem.PageSize)
	)

	if err := alloc.Init(arena); err != nil {
		t.Fatal(err)
	}

	free := alloc.FreePageCount()

	// Freeing a range the allocator does not manage always "succeeds" but
	// must not corrupt the free page accounting.
	alloc.FreePages(0xdeadbeef000, 2)

	if got := alloc.FreePageCount(); got != free {
		t.Fatalf("expected free page count to remain %d; got %d", free, got)
	}
}

func TestAllocPagesParamValidation(t *testing.T) {
	var (
		alloc PageAllocator
		arena = make([]byte, 4*mem.PageSize)
	)

	if err := alloc.Init(arena); err != nil {
		t.Fatal(err)
	}

	for _, count := range []int{0, -1} {
		if _, err := alloc.AllocPages(count); err != errInvalidPages {
			t.Errorf("expected AllocPages(%d) to return errInvalidPages; got %v", count, err)
		}
	}
}

func TestPageHelpers(t *testing.T) {
	if PageFromAddress(0x2000).Address() != 0x2000 {
		t.Error("expected PageFromAddress to preserve page-aligned addresses")
	}

	if PageFromAddress(0x2fff).Address() != 0x2000 {
		t.Error("expected PageFromAddress to round down to the containing page")
	}
}
