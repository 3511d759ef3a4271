package device

// QemuVirtMMIORegions lists the virtio-mmio register windows exposed by the
// qemu virt machine. Platforms with a different layout supply their own
// table through the boot configuration.
var QemuVirtMMIORegions = []MMIORegion{
	{Base: 0x0a000000, Size: 0x200},
	{Base: 0x0a000200, Size: 0x200},
	{Base: 0x0a000400, Size: 0x200},
	{Base: 0x0a000600, Size: 0x200},
	{Base: 0x0a000800, Size: 0x200},
	{Base: 0x0a000a00, Size: 0x200},
	{Base: 0x0a000c00, Size: 0x200},
	{Base: 0x0a000e00, Size: 0x200},
}
