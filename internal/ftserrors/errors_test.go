package ftserrors

import (
	"errors"
	"testing"
)

func TestIsMatchesByCode(t *testing.T) {
	err := New(CodeTruncatedInput, "buffer ended early", nil)
	target := New(CodeTruncatedInput, "different message", nil)
	if !errors.Is(err, target) {
		t.Fatalf("expected errors.Is to match by code")
	}
}

func TestUnwrapExposesCause(t *testing.T) {
	cause := errors.New("boom")
	err := Wrap(CodeTransactionFailed, cause)
	if !errors.Is(err, cause) {
		t.Fatalf("expected Unwrap chain to reach cause")
	}
	if !IsRetryable(err) {
		t.Fatalf("expected transaction failures to be retryable")
	}
}

func TestWithDetail(t *testing.T) {
	err := New(CodeInputRejected, "bad capacity", nil).WithDetail("capacity", "-1")
	if err.Details["capacity"] != "-1" {
		t.Fatalf("expected detail to be recorded")
	}
}
