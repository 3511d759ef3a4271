package kfmt

import (
	"io"
	"testing"
)

func TestRingBufferReadWrite(t *testing.T) {
	var rb ringBuffer

	if _, err := rb.Read(make([]byte, 1)); err != io.EOF {
		t.Fatalf("expected reading an empty ring buffer to return io.EOF; got %v", err)
	}

	payload := []byte("the quick brown fox")
	if n, err := rb.Write(payload); n != len(payload) || err != nil {
		t.Fatalf("expected write to return (%d, nil); got (%d, %v)", len(payload), n, err)
	}

	got := make([]byte, len(payload))
	if n, err := rb.Read(got); n != len(payload) || err != nil {
		t.Fatalf("expected read to return (%d, nil); got (%d, %v)", len(payload), n, err)
	}

	if string(got) != string(payload) {
		t.Fatalf("expected to read back %q; got %q", payload, got)
	}
}

func TestRingBufferOverwritesOldestData(t *testing.T) {
	var rb ringBuffer

	for i := 0; i < ringBufferSize; i++ {
		rb.Write([]byte{'x'})
	}

	// The following write overwrites the oldest buffered byte.
	rb.Write([]byte{'y'})

	drained := make([]byte, ringBufferSize+1)
	n, err := rb.Read(drained)
	if err != nil {
		t.Fatal(err)
	}

	if exp := ringBufferSize; n != exp {
		t.Fatalf("expected to drain %d bytes; got %d", exp, n)
	}

	if got := drained[n-1]; got != 'y' {
		t.Fatalf("expected the newest byte to be retained; got %q", got)
	}
}
