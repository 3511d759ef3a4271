// Package trap implements the process-wide registries for interrupt and
// page-fault handlers. Independently initialized modules contribute handlers
// by calling one of the Register functions during early boot, before traps
// are enabled; the registries are append-only and handlers are never removed.
//
// Dispatch runs synchronously on whatever execution context received the
// trap. Handlers are expected to be short and must not block or allocate;
// this is a contract the handlers must honor, it is not enforced here.
package trap

import "github.com/eternalcomet/arceos/kernel/kfmt"

// AccessFlags describe the attempted access that raised a page fault.
type AccessFlags uint8

const (
	// AccessPresent is set when the faulting page was mapped.
	AccessPresent AccessFlags = 1 << iota

	// AccessRead is set for data read accesses.
	AccessRead

	// AccessWrite is set for data write accesses.
	AccessWrite

	// AccessExecute is set for instruction fetches.
	AccessExecute

	// AccessUser is set when the fault was raised from user mode.
	AccessUser
)

// IRQHandlerFn handles an interrupt identified by its vector number and
// returns true if the interrupt was handled.
type IRQHandlerFn func(vector int) bool

// PageFaultHandlerFn handles a page fault at virtAddr and returns true if
// the fault was resolved and the faulting instruction can be retried.
type PageFaultHandlerFn func(virtAddr uintptr, flags AccessFlags, isWrite bool) bool

var (
	irqHandlers       []IRQHandlerFn
	pageFaultHandlers []PageFaultHandlerFn

	// trapLog tags this package's log lines with their origin.
	trapLog = &kfmt.PrefixWriter{Prefix: []byte("[trap] ")}
)

// RegisterIRQHandler appends a handler to the IRQ registry.
//
// The registration order across independently compiled modules is not
// guaranteed to be stable; only a single IRQ handler should be registered
// per build. This is a known limitation, not a contract.
func RegisterIRQHandler(handler IRQHandlerFn) {
	irqHandlers = append(irqHandlers, handler)
}

// RegisterPageFaultHandler appends a handler to the page-fault registry. The
// same single-handler caveat as RegisterIRQHandler applies.
func RegisterPageFaultHandler(handler PageFaultHandlerFn) {
	pageFaultHandlers = append(pageFaultHandlers, handler)
}

// DispatchIRQ invokes the registered IRQ handler for the given vector and
// returns whether the interrupt was handled. Having no registered handler is
// not fatal; the caller decides whether an unhandled interrupt is.
func DispatchIRQ(vector int) bool {
	if len(irqHandlers) == 0 {
		kfmt.Fprintf(trapLog, "unhandled IRQ %d: no registered handler\n", vector)
		return false
	}

	if len(irqHandlers) > 1 {
		kfmt.Fprintf(trapLog, "multiple handlers registered for IRQ traps; invoking only the first one\n")
	}

	return irqHandlers[0](vector)
}

// DispatchPageFault invokes the registered page-fault handler and returns
// whether the fault was resolved.
func DispatchPageFault(virtAddr uintptr, flags AccessFlags, isWrite bool) bool {
	if len(pageFaultHandlers) == 0 {
		kfmt.Fprintf(trapLog, "unhandled page fault at 0x%16x: no registered handler\n", virtAddr)
		return false
	}

	if len(pageFaultHandlers) > 1 {
		kfmt.Fprintf(trapLog, "multiple handlers registered for page-fault traps; invoking only the first one\n")
	}

	return pageFaultHandlers[0](virtAddr, flags, isWrite)
}
