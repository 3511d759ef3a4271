// Package virtio implements the virtio-mmio transport handshake and the
// minimal virtio device drivers constructed by the boot probe.
package virtio

import (
	"sync/atomic"
	"unsafe"

	"github.com/eternalcomet/arceos/device"
	"github.com/eternalcomet/arceos/kernel"
	"github.com/eternalcomet/arceos/kernel/mem"
)

// virtio-mmio register offsets.
const (
	regMagicValue        = 0x000 // always 0x74726976 (R; "virt")
	regVersion           = 0x004 // device interface version (R)
	regDeviceID          = 0x008 // virtio subsystem device id (R)
	regVendorID          = 0x00c // virtio subsystem vendor id (R)
	regDeviceFeatures    = 0x010 // feature flags, depends on regDeviceFeaturesSel (R)
	regDeviceFeaturesSel = 0x014 // word selection for regDeviceFeatures (W)
	regDriverFeatures    = 0x020 // feature flags activated by the driver (W)
	regDriverFeaturesSel = 0x024 // word selection for regDriverFeatures (W)
	regQueueSel          = 0x030 // virtual queue index (W)
	regQueueNumMax       = 0x034 // maximum virtual queue size (R)
	regQueueNum          = 0x038 // virtual queue size (W)
	regQueueReady        = 0x044 // virtual queue ready bit (RW)
	regQueueNotify       = 0x050 // queue notifier (W)
	regInterruptStatus   = 0x060 // interrupt status (R)
	regInterruptAck      = 0x064 // interrupt acknowledge (W)
	regStatus            = 0x070 // device status (RW)
	regQueueDescLow      = 0x080 // descriptor area physical address, low word (W)
	regQueueDescHigh     = 0x084 // descriptor area physical address, high word (W)
	regQueueDriverLow    = 0x090 // driver area physical address, low word (W)
	regQueueDriverHigh   = 0x094 // driver area physical address, high word (W)
	regQueueDeviceLow    = 0x0a0 // device area physical address, low word (W)
	regQueueDeviceHigh   = 0x0a4 // device area physical address, high word (W)
	regConfigGeneration  = 0x0fc // configuration atomicity value (R)
	regDeviceConfigStart = 0x100 // device specific configuration space (RW)
)

const (
	magicValue       = 0x74726976 // "virt", little-endian
	transportVersion = 0x2
)

// Device status bits, in the order the initialization sequence sets them.
const (
	statusAcknowledge = 1 << 0
	statusDriver      = 1 << 1
	statusDriverOK    = 1 << 2
	statusFeaturesOK  = 1 << 3
	statusFailed      = 1 << 7
)

// virtio subsystem device IDs for the device kinds this kernel knows about.
const (
	deviceIDNet   = 1
	deviceIDBlock = 2
	deviceIDGPU   = 16
)

// featureVersion1 (VIRTIO_F_VERSION_1) indicates compliance with the modern
// virtio specification.
const featureVersion1 = uint64(1) << 32

var (
	errFeaturesRejected = &kernel.Error{Module: "virtio", Message: "device rejected the negotiated feature set"}
	errQueueUnavailable = &kernel.Error{Module: "virtio", Message: "virtqueue not available"}
	errQueueTooLarge    = &kernel.Error{Module: "virtio", Message: "device cannot satisfy the requested virtqueue size"}
)

// Transport provides register-level access to a virtio device behind a
// memory-mapped register window that has already been translated into the
// virtual address space.
type Transport struct {
	base     unsafe.Pointer
	size     mem.Size
	features uint64
}

// ProbeMMIO performs the virtio-mmio capability handshake at the given
// virtual base address. It returns the device kind reported by the hardware
// and a transport for driving it. A false return value means no compatible
// device is present at the window; that is an expected outcome of boot
// probing, not an error.
func ProbeMMIO(base unsafe.Pointer, size mem.Size) (device.Type, *Transport, bool) {
	if base == nil || size < regDeviceConfigStart {
		return 0, nil, false
	}

	tr := &Transport{base: base, size: size}
	if tr.readReg(regMagicValue) != magicValue {
		return 0, nil, false
	}

	if tr.readReg(regVersion) != transportVersion {
		return 0, nil, false
	}

	devType, ok := deviceTypeForID(tr.readReg(regDeviceID))
	if !ok {
		return 0, nil, false
	}

	return devType, tr, true
}

func deviceTypeForID(id uint32) (device.Type, bool) {
	switch id {
	case deviceIDNet:
		return device.TypeNet, true
	case deviceIDBlock:
		return device.TypeBlock, true
	case deviceIDGPU:
		return device.TypeDisplay, true
	}
	return 0, false
}

// Register accesses go through atomics to get volatile semantics: every read
// and write must reach the device, in program order.
func (t *Transport) readReg(offset uintptr) uint32 {
	return atomic.LoadUint32((*uint32)(unsafe.Pointer(uintptr(t.base) + offset)))
}

func (t *Transport) writeReg(offset uintptr, val uint32) {
	atomic.StoreUint32((*uint32)(unsafe.Pointer(uintptr(t.base)+offset)), val)
}

func (t *Transport) setStatusBits(bits uint32) {
	t.writeReg(regStatus, t.readReg(regStatus)|bits)
}

// Begin resets the device and announces the driver, the first steps of the
// virtio initialization sequence.
func (t *Transport) Begin() {
	t.writeReg(regStatus, 0)
	t.setStatusBits(statusAcknowledge)
	t.setStatusBits(statusDriver)
}

// NegotiateFeatures offers the intersection of the device's feature set and
// the driver-supported features in driverFeatures and confirms the result
// with the device.
func (t *Transport) NegotiateFeatures(driverFeatures uint64) *kernel.Error {
	t.writeReg(regDeviceFeaturesSel, 0)
	deviceFeatures := uint64(t.readReg(regDeviceFeatures))
	t.writeReg(regDeviceFeaturesSel, 1)
	deviceFeatures |= uint64(t.readReg(regDeviceFeatures)) << 32

	accepted := deviceFeatures & driverFeatures
	t.writeReg(regDriverFeaturesSel, 0)
	t.writeReg(regDriverFeatures, uint32(accepted))
	t.writeReg(regDriverFeaturesSel, 1)
	t.writeReg(regDriverFeatures, uint32(accepted>>32))

	t.setStatusBits(statusFeaturesOK)
	if t.readReg(regStatus)&statusFeaturesOK == 0 {
		return errFeaturesRejected
	}

	t.features = accepted
	return nil
}

// Features returns the feature set accepted during negotiation.
func (t *Transport) Features() uint64 {
	return t.features
}

// SetupQueue publishes the ring addresses of q as virtqueue index and marks
// the queue ready.
func (t *Transport) SetupQueue(index uint16, q *Queue) *kernel.Error {
	t.writeReg(regQueueSel, uint32(index))

	maxSize := t.readReg(regQueueNumMax)
	if maxSize == 0 {
		return errQueueUnavailable
	}
	if uint32(q.size) > maxSize {
		return errQueueTooLarge
	}

	t.writeReg(regQueueNum, uint32(q.size))
	t.writeReg(regQueueDescLow, uint32(uint64(q.descPhys)))
	t.writeReg(regQueueDescHigh, uint32(uint64(q.descPhys)>>32))
	t.writeReg(regQueueDriverLow, uint32(uint64(q.availPhys)))
	t.writeReg(regQueueDriverHigh, uint32(uint64(q.availPhys)>>32))
	t.writeReg(regQueueDeviceLow, uint32(uint64(q.usedPhys)))
	t.writeReg(regQueueDeviceHigh, uint32(uint64(q.usedPhys)>>32))
	t.writeReg(regQueueReady, 1)

	return nil
}

// NotifyQueue signals the device that new buffers are available on virtqueue
// index.
func (t *Transport) NotifyQueue(index uint16) {
	t.writeReg(regQueueNotify, uint32(index))
}

// Complete marks the device initialization sequence as finished; the device
// is live from this point on.
func (t *Transport) Complete() {
	t.setStatusBits(statusDriverOK)
}

// Fail tells the device that initialization was aborted.
func (t *Transport) Fail() {
	t.setStatusBits(statusFailed)
}

// AckInterrupt acknowledges any pending interrupt and returns the raw
// interrupt status that was acknowledged (0 if none was pending).
func (t *Transport) AckInterrupt() uint32 {
	status := t.readReg(regInterruptStatus)
	if status != 0 {
		t.writeReg(regInterruptAck, status)
	}
	return status
}

// ReadConfig32 reads a 32-bit word from the device-specific configuration
// space.
func (t *Transport) ReadConfig32(offset uintptr) uint32 {
	return t.readReg(regDeviceConfigStart + offset)
}

// ReadConfig8 reads a single byte from the device-specific configuration
// space. Device configuration is little-endian on all supported targets.
func (t *Transport) ReadConfig8(offset uintptr) byte {
	word := t.readReg(regDeviceConfigStart + (offset &^ 3))
	return byte(word >> (8 * (offset & 3)))
}
