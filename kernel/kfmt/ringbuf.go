package kfmt

import "io"

// ringBufferSize defines the size of the ring buffer that buffers early
// Printf output. Its must be a power of 2.
const ringBufferSize = 2048

// ringBuffer provides a fixed-size io.ReadWriter ring buffer. Writes that
// exceed the buffer capacity overwrite its oldest contents.
type ringBuffer struct {
	data [ringBufferSize]byte

	rIndex int
	wIndex int
	used   int
}

// Write implements io.Writer.
func (rb *ringBuffer) Write(p []byte) (int, error) {
	for _, b := range p {
		rb.data[rb.wIndex] = b
		rb.wIndex = (rb.wIndex + 1) & (ringBufferSize - 1)
		if rb.used < ringBufferSize {
			rb.used++
		} else {
			// The oldest unread byte was just overwritten.
			rb.rIndex = rb.wIndex
		}
	}

	return len(p), nil
}

// Read implements io.Reader.
func (rb *ringBuffer) Read(p []byte) (int, error) {
	var n int
	for ; n < len(p) && rb.used > 0; n++ {
		p[n] = rb.data[rb.rIndex]
		rb.rIndex = (rb.rIndex + 1) & (ringBufferSize - 1)
		rb.used--
	}

	if n == 0 {
		return 0, io.EOF
	}

	return n, nil
}
