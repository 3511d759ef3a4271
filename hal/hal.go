// Package hal wires the hardware abstraction layer together at boot: the
// physical memory mapping, the page allocator, the device probe and the trap
// fan-out that routes interrupts to the devices the probe constructed.
package hal

import (
	"github.com/eternalcomet/arceos/device"
	"github.com/eternalcomet/arceos/device/virtio"
	"github.com/eternalcomet/arceos/kernel"
	"github.com/eternalcomet/arceos/kernel/mm"
	"github.com/eternalcomet/arceos/kernel/trap"
	"github.com/eternalcomet/arceos/posix"
)

// Config carries the platform facts the layer cannot discover on its own.
type Config struct {
	// PhysOffset is the fixed offset of the linear physical-to-virtual
	// mapping established by early boot code.
	PhysOffset uintptr

	// HeapArena is the memory region handed to the page allocator.
	HeapArena []byte

	// MMIORegions is the platform's ordered table of candidate device
	// register windows.
	MMIORegions []device.MMIORegion
}

// Init brings up the hardware abstraction layer. It must be called exactly
// once, before any other package in this module is used.
func Init(cfg Config) *kernel.Error {
	mm.SetPhysOffset(cfg.PhysOffset)

	if err := mm.InitAllocator(cfg.HeapArena); err != nil {
		return err
	}

	device.DetectHardware(cfg.MMIORegions, virtio.Descriptors())
	trap.RegisterIRQHandler(handleDeviceIRQ)

	posix.Init()
	return nil
}

// handleDeviceIRQ offers a pending interrupt to every constructed device that
// can service one. The vector is not decoded further; each device checks and
// acknowledges its own interrupt status.
func handleDeviceIRQ(_ int) bool {
	handled := false
	for _, dev := range device.List() {
		if h, ok := dev.(device.IRQHandler); ok && h.HandleIRQ() {
			handled = true
		}
	}
	return handled
}
