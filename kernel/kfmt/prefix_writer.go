package kfmt

import "io"

// PrefixWriter is an io.Writer that inserts Prefix at the beginning of each
// line it emits to Sink.
type PrefixWriter struct {
	// Sink specifies the writer where output is sent. A nil Sink routes
	// output to the currently active output sink, so a PrefixWriter
	// created at package init time follows later SetOutputSink calls.
	Sink io.Writer

	// Prefix is emitted before the first byte of each output line.
	Prefix []byte

	// midLine tracks whether the writer is in the middle of a line and
	// should not emit the prefix before the next byte.
	midLine bool
}

// Write implements io.Writer.
func (w *PrefixWriter) Write(p []byte) (int, error) {
	sink := w.Sink
	if sink == nil {
		sink = GetOutputSink()
	}

	for _, b := range p {
		if !w.midLine {
			if _, err := sink.Write(w.Prefix); err != nil {
				return 0, err
			}
			w.midLine = true
		}

		singleByte[0] = b
		if _, err := sink.Write(singleByte); err != nil {
			return 0, err
		}

		if b == '\n' {
			w.midLine = false
		}
	}

	return len(p), nil
}
