package kfmt

import (
	"bytes"
	"testing"
)

func TestFprintf(t *testing.T) {
	specs := []struct {
		format string
		args   []interface{}
		exp    string
	}{
		{"no verbs", nil, "no verbs"},
		{"literal %%", nil, "literal %"},
		{"%s and %s", []interface{}{"foo", []byte("bar")}, "foo and bar"},
		{"%5s", []interface{}{"abc"}, "  abc"},
		{"%d", []interface{}{42}, "42"},
		{"%d", []interface{}{-42}, "-42"},
		{"%5d", []interface{}{123}, "  123"},
		{"%o", []interface{}{uint8(8)}, "10"},
		{"%x", []interface{}{uint32(0xbadf00d)}, "badf00d"},
		{"%16x", []interface{}{uint64(1)}, "0000000000000001"},
		{"%x", []interface{}{uintptr(0xa000)}, "a000"},
		{"%t and %t", []interface{}{true, false}, "true and false"},
		{"%d", nil, "(MISSING)"},
		{"%d", []interface{}{"not-a-number"}, "%!(WRONGTYPE)"},
		{"%t", []interface{}{123}, "%!(WRONGTYPE)"},
		{"%q", []interface{}{"verb"}, "%!(NOVERB)"},
	}

	var buf bytes.Buffer
	for specIndex, spec := range specs {
		buf.Reset()
		Fprintf(&buf, spec.format, spec.args...)

		if got := buf.String(); got != spec.exp {
			t.Errorf("[spec %d] expected to get %q; got %q", specIndex, spec.exp, got)
		}
	}
}

func TestPrintfBuffersEarlyOutput(t *testing.T) {
	defer func() {
		outputSink = nil
		earlyPrintBuffer = ringBuffer{}
	}()

	outputSink = nil
	earlyPrintBuffer = ringBuffer{}

	Printf("booting cpu %d\n", 0)

	// Registering a sink must replay the buffered early output into it.
	var buf bytes.Buffer
	SetOutputSink(&buf)

	if exp, got := "booting cpu 0\n", buf.String(); got != exp {
		t.Fatalf("expected sink to receive the buffered early output %q; got %q", exp, got)
	}

	Printf("cpu %d online\n", 0)
	if exp, got := "booting cpu 0\ncpu 0 online\n", buf.String(); got != exp {
		t.Fatalf("expected sink to contain %q; got %q", exp, got)
	}
}
