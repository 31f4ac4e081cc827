package ptr

import "testing"

func TestInt(t *testing.T) {
	p := Int(7)
	if p == nil || *p != 7 {
		t.Fatalf("Int(7) = %v", p)
	}

	// Each call returns a distinct pointer.
	if Int(7) == p {
		t.Fatal("expected a fresh pointer per call")
	}
}
