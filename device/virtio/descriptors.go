package virtio

import (
	"github.com/eternalcomet/arceos/device"
	"github.com/eternalcomet/arceos/kernel"
	"github.com/eternalcomet/arceos/kernel/mem"
	"github.com/eternalcomet/arceos/kernel/mm"
)

// Descriptors returns the closed set of statically known virtio device kinds
// in probe order. Which kinds are present is a build-time choice; no state is
// attached to a descriptor beyond its constructor.
func Descriptors() []device.Descriptor {
	return []device.Descriptor{
		{Type: device.TypeNet, Probe: probeFor(device.TypeNet, func(tr *Transport) (device.Device, *kernel.Error) {
			dev, err := NewNet(tr)
			if err != nil {
				return nil, err
			}
			return dev, nil
		})},
		{Type: device.TypeBlock, Probe: probeFor(device.TypeBlock, func(tr *Transport) (device.Device, *kernel.Error) {
			dev, err := NewBlock(tr)
			if err != nil {
				return nil, err
			}
			return dev, nil
		})},
		{Type: device.TypeDisplay, Probe: probeFor(device.TypeDisplay, func(tr *Transport) (device.Device, *kernel.Error) {
			dev, err := NewGPU(tr)
			if err != nil {
				return nil, err
			}
			return dev, nil
		})},
	}
}

// probeFor builds the generic virtio-mmio probe shared by every device kind:
// translate the region's physical base through the memory bridge, run the
// transport handshake and hand the negotiated transport to the constructor
// if the reported kind matches.
func probeFor(devType device.Type, tryNew func(*Transport) (device.Device, *kernel.Error)) device.ProbeFn {
	return func(base uintptr, size mem.Size) (device.Device, *kernel.Error) {
		virtBase := mm.TranslateMMIO(base, size)

		foundType, transport, ok := ProbeMMIO(virtBase, size)
		if !ok || foundType != devType {
			return nil, nil
		}

		return tryNew(transport)
	}
}
