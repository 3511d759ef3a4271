package virtio

import (
	"github.com/eternalcomet/arceos/device"
	"github.com/eternalcomet/arceos/kernel"
)

const (
	gpuControlQueueSize = 64
	gpuCursorQueueSize  = 16

	gpuQueueControl = 0
	gpuQueueCursor  = 1
)

// GPUDev drives a virtio display device with a control and a cursor
// virtqueue.
type GPUDev struct {
	transport *Transport
	controlq  *Queue
	cursorq   *Queue
}

// NewGPU constructs a display device over a transport whose handshake has
// already confirmed the virtio-gpu device kind.
func NewGPU(transport *Transport) (*GPUDev, *kernel.Error) {
	transport.Begin()

	if err := transport.NegotiateFeatures(featureVersion1); err != nil {
		transport.Fail()
		return nil, err
	}

	controlq, err := NewQueue(gpuControlQueueSize)
	if err != nil {
		transport.Fail()
		return nil, err
	}

	if err = transport.SetupQueue(gpuQueueControl, controlq); err != nil {
		controlq.Release()
		transport.Fail()
		return nil, err
	}

	cursorq, err := NewQueue(gpuCursorQueueSize)
	if err != nil {
		controlq.Release()
		transport.Fail()
		return nil, err
	}

	if err = transport.SetupQueue(gpuQueueCursor, cursorq); err != nil {
		cursorq.Release()
		controlq.Release()
		transport.Fail()
		return nil, err
	}

	transport.Complete()
	return &GPUDev{transport: transport, controlq: controlq, cursorq: cursorq}, nil
}

// DeviceName returns the name of the device.
func (d *GPUDev) DeviceName() string { return "virtio-gpu" }

// DeviceType returns the class of the device.
func (d *GPUDev) DeviceType() device.Type { return device.TypeDisplay }

// HandleIRQ acknowledges a pending device interrupt.
func (d *GPUDev) HandleIRQ() bool {
	return d.transport.AckInterrupt() != 0
}
