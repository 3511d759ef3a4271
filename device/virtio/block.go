package virtio

import (
	"github.com/eternalcomet/arceos/device"
	"github.com/eternalcomet/arceos/kernel"
)

const (
	blkQueueSize = 64

	// blkConfigCapacity is the offset of the 64-bit capacity field (in
	// 512-byte sectors) inside the device configuration space.
	blkConfigCapacity = 0
)

// BlockDev drives a virtio block device with a single request virtqueue.
type BlockDev struct {
	transport *Transport
	requestq  *Queue

	// capacity of the device in 512-byte sectors.
	capacity uint64
}

// NewBlock constructs a block device over a transport whose handshake has
// already confirmed the virtio-blk device kind.
func NewBlock(transport *Transport) (*BlockDev, *kernel.Error) {
	transport.Begin()

	if err := transport.NegotiateFeatures(featureVersion1); err != nil {
		transport.Fail()
		return nil, err
	}

	requestq, err := NewQueue(blkQueueSize)
	if err != nil {
		transport.Fail()
		return nil, err
	}

	if err = transport.SetupQueue(0, requestq); err != nil {
		requestq.Release()
		transport.Fail()
		return nil, err
	}

	capacity := uint64(transport.ReadConfig32(blkConfigCapacity)) |
		uint64(transport.ReadConfig32(blkConfigCapacity+4))<<32

	transport.Complete()
	return &BlockDev{transport: transport, requestq: requestq, capacity: capacity}, nil
}

// DeviceName returns the name of the device.
func (d *BlockDev) DeviceName() string { return "virtio-blk" }

// DeviceType returns the class of the device.
func (d *BlockDev) DeviceType() device.Type { return device.TypeBlock }

// CapacitySectors returns the device capacity in 512-byte sectors.
func (d *BlockDev) CapacitySectors() uint64 { return d.capacity }

// HandleIRQ acknowledges a pending device interrupt.
func (d *BlockDev) HandleIRQ() bool {
	return d.transport.AckInterrupt() != 0
}
