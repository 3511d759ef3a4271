package virtio

import (
	"github.com/eternalcomet/arceos/device"
	"github.com/eternalcomet/arceos/kernel"
)

// virtio-net feature bits negotiated by this driver.
const netFeatureMAC = uint64(1) << 5

const (
	netQueueSize = 64

	netQueueRx = 0
	netQueueTx = 1
)

// NetDev drives a virtio network device with one receive and one transmit
// virtqueue.
type NetDev struct {
	transport *Transport
	rxq       *Queue
	txq       *Queue
	mac       [6]byte
}

// NewNet constructs a network device over a transport whose handshake has
// already confirmed the virtio-net device kind.
func NewNet(transport *Transport) (*NetDev, *kernel.Error) {
	transport.Begin()

	if err := transport.NegotiateFeatures(featureVersion1 | netFeatureMAC); err != nil {
		transport.Fail()
		return nil, err
	}

	rxq, err := NewQueue(netQueueSize)
	if err != nil {
		transport.Fail()
		return nil, err
	}

	if err = transport.SetupQueue(netQueueRx, rxq); err != nil {
		rxq.Release()
		transport.Fail()
		return nil, err
	}

	txq, err := NewQueue(netQueueSize)
	if err != nil {
		rxq.Release()
		transport.Fail()
		return nil, err
	}

	if err = transport.SetupQueue(netQueueTx, txq); err != nil {
		txq.Release()
		rxq.Release()
		transport.Fail()
		return nil, err
	}

	dev := &NetDev{transport: transport, rxq: rxq, txq: txq}
	for i := range dev.mac {
		dev.mac[i] = transport.ReadConfig8(uintptr(i))
	}

	transport.Complete()
	return dev, nil
}

// DeviceName returns the name of the device.
func (d *NetDev) DeviceName() string { return "virtio-net" }

// DeviceType returns the class of the device.
func (d *NetDev) DeviceType() device.Type { return device.TypeNet }

// MACAddress returns the hardware address reported by the device.
func (d *NetDev) MACAddress() [6]byte { return d.mac }

// HandleIRQ acknowledges a pending device interrupt.
func (d *NetDev) HandleIRQ() bool {
	return d.transport.AckInterrupt() != 0
}
