package ftserrors

import (
	"errors"
	"testing"
	"time"
)

func TestCircuitOpensAfterMaxFailures(t *testing.T) {
	cb := NewCircuitBreaker("adapter", 2, time.Minute)
	boom := errors.New("boom")

	cb.Execute(func() error { return boom })
	cb.Execute(func() error { return boom })

	if cb.State() != CircuitOpen {
		t.Fatalf("expected circuit open after 2 failures")
	}

	err := cb.Execute(func() error { return nil })
	if !errors.Is(err, ErrCircuitOpen) {
		t.Fatalf("expected ErrCircuitOpen, got %v", err)
	}
}

func TestCircuitClosesOnSuccess(t *testing.T) {
	cb := NewCircuitBreaker("adapter", 2, time.Minute)
	cb.Execute(func() error { return errors.New("boom") })

	if err := cb.Execute(func() error { return nil }); err != nil {
		t.Fatalf("expected success, got %v", err)
	}
	if cb.State() != CircuitClosed {
		t.Fatalf("expected closed after success")
	}
}
