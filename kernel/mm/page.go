package mm

import "github.com/eternalcomet/arceos/kernel/mem"

// Page describes a virtual memory page index.
type Page uintptr

// Address returns the virtual memory address pointed to by this Page.
func (p Page) Address() uintptr {
	return uintptr(p << mem.PageShift)
}

// PageFromAddress returns the Page that contains the given virtual address.
// Addresses that are not page-aligned are rounded down to the page that
// contains them.
func PageFromAddress(virtAddr uintptr) Page {
	return Page((virtAddr & ^(uintptr(mem.PageSize - 1))) >> mem.PageShift)
}

// physOffset holds the fixed offset between the physical address space and
// the region of the virtual address space where all physical memory (RAM and
// MMIO register windows alike) is linearly mapped. The mapping is established
// once during early boot and never changes for the lifetime of the system.
var physOffset uintptr

// SetPhysOffset registers the linear physical-to-virtual mapping offset. It
// must be called exactly once, before any address translation is attempted.
func SetPhysOffset(offset uintptr) {
	physOffset = offset
}

// PhysToVirt returns the virtual address that maps the given physical
// address under the fixed linear mapping.
func PhysToVirt(physAddr uintptr) uintptr {
	return physAddr + physOffset
}

// VirtToPhys returns the physical address backing the given virtual address
// under the fixed linear mapping.
func VirtToPhys(virtAddr uintptr) uintptr {
	return virtAddr - physOffset
}
