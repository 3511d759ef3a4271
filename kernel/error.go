package kernel

// Error describes a kernel error. Kernel errors are declared as global
// variables pointing to an Error instance so that raising an error does not
// require a memory allocation.
type Error struct {
	// The module where the error occurred.
	Module string

	// The error message.
	Message string
}

// Error implements the error interface.
func (e *Error) Error() string {
	return e.Message
}
