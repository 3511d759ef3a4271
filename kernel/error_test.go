package kernel

import "testing"

func TestErrorInterface(t *testing.T) {
	err := &Error{Module: "test", Message: "something went wrong"}

	if exp, got := "something went wrong", err.Error(); got != exp {
		t.Fatalf("expected Error() to return %q; got %q", exp, got)
	}
}
