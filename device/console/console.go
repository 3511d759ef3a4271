// Package console adapts the platform's raw console hardware to the
// descriptor-based I/O layer. The hardware driver itself lives outside this
// core and registers its byte transfer primitives during early boot.
package console

// Raw byte transfer primitives supplied by the console hardware driver.
var (
	readByteFn  func() (byte, bool)
	writeByteFn func(byte)
)

// SetReadByteFn registers the hardware receive primitive. The function must
// not block: a false return value means no byte is pending.
func SetReadByteFn(fn func() (byte, bool)) {
	readByteFn = fn
}

// SetWriteByteFn registers the hardware transmit primitive.
func SetWriteByteFn(fn func(byte)) {
	writeByteFn = fn
}

// ReadBytes drains up to len(dst) pending bytes from the console hardware
// without blocking and returns the number of bytes obtained.
//
// Carriage-return bytes are rewritten to line-feeds here, at the single
// point where bytes leave the hardware buffer, so every reader above this
// layer observes the line-ending convention it expects.
func ReadBytes(dst []byte) int {
	if readByteFn == nil {
		return 0
	}

	var n int
	for n < len(dst) {
		b, ok := readByteFn()
		if !ok {
			break
		}

		if b == '\r' {
			b = '\n'
		}
		dst[n] = b
		n++
	}

	return n
}

// WriteBytes pushes src to the console hardware unmodified and returns the
// number of bytes written. The console is a character sink that accepts
// every byte, so the count always equals len(src); bytes emitted before a
// transmit primitive has been registered are dropped.
func WriteBytes(src []byte) int {
	if writeByteFn == nil {
		return len(src)
	}

	for _, b := range src {
		writeByteFn(b)
	}

	return len(src)
}
