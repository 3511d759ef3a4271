package trap

import (
	"bytes"
	"strings"
	"testing"

	"github.com/eternalcomet/arceos/kernel/kfmt"
)

func captureOutput() *bytes.Buffer {
	var buf bytes.Buffer
	kfmt.SetOutputSink(&buf)
	// Drop anything replayed from the early print buffer.
	buf.Reset()
	return &buf
}

func TestDispatchIRQWithoutHandlers(t *testing.T) {
	defer func() {
		irqHandlers = nil
		kfmt.SetOutputSink(nil)
	}()
	irqHandlers = nil
	buf := captureOutput()

	if DispatchIRQ(33) {
		t.Fatal("expected dispatching with no registered handler to report the trap as unhandled")
	}

	if got := buf.String(); !strings.Contains(got, "[trap] unhandled IRQ 33") {
		t.Fatalf("expected an unhandled-trap log entry; got %q", got)
	}
}

func TestDispatchIRQSingleHandler(t *testing.T) {
	defer func() {
		irqHandlers = nil
	}()
	irqHandlers = nil

	var gotVector int
	RegisterIRQHandler(func(vector int) bool {
		gotVector = vector
		return true
	})

	if !DispatchIRQ(48) {
		t.Fatal("expected dispatch to return the handler's result")
	}

	if gotVector != 48 {
		t.Fatalf("expected the handler to receive vector 48; got %d", gotVector)
	}
}

func TestDispatchIRQMultipleHandlers(t *testing.T) {
	defer func() {
		irqHandlers = nil
		kfmt.SetOutputSink(nil)
	}()
	irqHandlers = nil
	buf := captureOutput()

	var invoked []int
	for i := 0; i < 3; i++ {
		handlerIndex := i
		RegisterIRQHandler(func(int) bool {
			invoked = append(invoked, handlerIndex)
			return false
		})
	}

	if DispatchIRQ(1) {
		t.Fatal("expected dispatch to return the first handler's result")
	}

	if len(invoked) != 1 || invoked[0] != 0 {
		t.Fatalf("expected only the first registered handler to run; got invocations %v", invoked)
	}

	if got := buf.String(); !strings.Contains(got, "[trap] multiple handlers registered for IRQ traps") {
		t.Fatalf("expected a configuration warning naming the trap kind; got %q", got)
	}
}

func TestDispatchPageFault(t *testing.T) {
	defer func() {
		pageFaultHandlers = nil
		kfmt.SetOutputSink(nil)
	}()
	pageFaultHandlers = nil
	buf := captureOutput()

	if DispatchPageFault(0xdead0000, AccessPresent|AccessWrite, true) {
		t.Fatal("expected dispatching with no registered handler to report the fault as unhandled")
	}

	if got := buf.String(); !strings.Contains(got, "[trap] unhandled page fault") {
		t.Fatalf("expected an unhandled-fault log entry; got %q", got)
	}

	var (
		gotAddr  uintptr
		gotFlags AccessFlags
		gotWrite bool
	)
	RegisterPageFaultHandler(func(virtAddr uintptr, flags AccessFlags, isWrite bool) bool {
		gotAddr, gotFlags, gotWrite = virtAddr, flags, isWrite
		return true
	})

	if !DispatchPageFault(0xbeef000, AccessWrite, true) {
		t.Fatal("expected dispatch to return the handler's result")
	}

	if gotAddr != 0xbeef000 || gotFlags != AccessWrite || !gotWrite {
		t.Fatalf("expected handler args (0xbeef000, AccessWrite, true); got (0x%x, %d, %t)", gotAddr, gotFlags, gotWrite)
	}
}
