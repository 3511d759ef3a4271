// Package device implements the boot-time probing framework that discovers
// the hardware described by the platform's MMIO region table and constructs
// driver instances for it.
package device

import (
	"github.com/eternalcomet/arceos/kernel"
	"github.com/eternalcomet/arceos/kernel/mem"
)

// Type identifies the class of a device.
type Type uint8

const (
	// TypeNet identifies network devices.
	TypeNet Type = iota

	// TypeBlock identifies block storage devices.
	TypeBlock

	// TypeDisplay identifies display devices.
	TypeDisplay
)

// String returns a human-readable name for the device class.
func (t Type) String() string {
	switch t {
	case TypeNet:
		return "net"
	case TypeBlock:
		return "block"
	case TypeDisplay:
		return "display"
	}
	return "unknown"
}

// Device is the type-erased handle implemented by all constructed device
// instances.
type Device interface {
	// DeviceName returns the name of the underlying device.
	DeviceName() string

	// DeviceType returns the class of the underlying device.
	DeviceType() Type
}

// IRQHandler is implemented by devices that can service interrupts raised by
// their hardware.
type IRQHandler interface {
	// HandleIRQ acknowledges a pending interrupt and returns true if the
	// device had raised one.
	HandleIRQ() bool
}

// ProbeFn checks a single MMIO region for a device of a particular kind. The
// (nil, nil) return value means no compatible device was detected at the
// region; this is an expected outcome, not an error. A non-nil error means a
// device of the right kind was detected but could not be constructed.
type ProbeFn func(base uintptr, size mem.Size) (Device, *kernel.Error)

// Descriptor describes one of the statically known device kinds the boot
// probe matches regions against. The set of descriptors is fixed at build
// time; no descriptor instances exist beyond invoking their probe function.
type Descriptor struct {
	Type  Type
	Probe ProbeFn
}

// MMIORegion is an immutable (base physical address, size) pair describing a
// candidate device register window. The ordered region table is supplied by
// platform configuration and consumed once during boot probing.
type MMIORegion struct {
	Base uintptr
	Size mem.Size
}

// registeredDevices tracks the devices constructed by the boot probe. The
// table is only mutated during single-threaded boot, so no lock guards it.
var registeredDevices []Device

// Add appends a constructed device to the global device table.
func Add(dev Device) {
	registeredDevices = append(registeredDevices, dev)
}

// List returns the devices constructed by the boot probe.
func List() []Device {
	return registeredDevices
}
