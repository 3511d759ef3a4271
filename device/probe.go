package device

import "github.com/eternalcomet/arceos/kernel/kfmt"

// probeLog tags the boot probe's log lines with their origin.
var probeLog = &kfmt.PrefixWriter{Prefix: []byte("[device] ")}

// DetectHardware probes every configured MMIO region against the statically
// known device descriptors and registers each constructed device with the
// global device table.
//
// For each region the descriptors are tried in order. A descriptor that does
// not match the region is silently skipped. The first descriptor that
// matches either constructs a device, which claims the region, or fails
// construction, which abandons the region permanently: a confirmed kind
// match that fails to construct indicates a broken device, not a wrong
// guess, so no other descriptor is tried. Regions no descriptor matches are
// left unprobed. The scan is O(regions x descriptors); both counts are small
// and this runs only at boot.
func DetectHardware(regions []MMIORegion, descriptors []Descriptor) {
	for _, region := range regions {
		probeRegion(region, descriptors)
	}
}

func probeRegion(region MMIORegion, descriptors []Descriptor) {
	regionEnd := region.Base + uintptr(region.Size)

	for _, desc := range descriptors {
		dev, err := desc.Probe(region.Base, region.Size)
		if err != nil {
			kfmt.Fprintf(probeLog, "failed to initialize %s device at [mem 0x%x-0x%x]: %s\n",
				desc.Type.String(), region.Base, regionEnd, err.Message)
			return
		}

		if dev == nil {
			continue
		}

		Add(dev)
		kfmt.Fprintf(probeLog, "registered %s device %s at [mem 0x%x-0x%x]\n",
			dev.DeviceType().String(), dev.DeviceName(), region.Base, regionEnd)
		return
	}
}
