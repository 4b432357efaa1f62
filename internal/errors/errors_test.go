package apperrors

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"
)

func TestNewConfigError(t *testing.T) {
	t.Parallel()
	err := NewConfigError("fib-n must be at most %d, got %d", 93, 94)
	var configErr ConfigError
	if !errors.As(err, &configErr) {
		t.Fatalf("expected ConfigError, got %T", err)
	}
	if configErr.Message != "fib-n must be at most 93, got 94" {
		t.Errorf("Message = %q", configErr.Message)
	}
}

func TestCalculationError(t *testing.T) {
	t.Parallel()
	cause := errors.New("division by zero")
	tests := []struct {
		name    string
		err     CalculationError
		wantJob string
	}{
		{"case and backend", CalculationError{Case: "short", Backend: "goconst", Cause: cause}, "short on goconst"},
		{"case only", CalculationError{Case: "fib", Cause: cause}, "fib"},
		{"backend only", CalculationError{Backend: "govaluate", Cause: cause}, "govaluate"},
		{"anonymous", CalculationError{Cause: cause}, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := tt.err.Job(); got != tt.wantJob {
				t.Errorf("Job() = %q, want %q", got, tt.wantJob)
			}
			// The message stays the cause's so tables that already show
			// the case and backend do not repeat them.
			if tt.err.Error() != "division by zero" {
				t.Errorf("Error() = %q", tt.err.Error())
			}
			if !errors.Is(tt.err, cause) {
				t.Error("cause not reachable through errors.Is")
			}
		})
	}
}

func TestNewCalculationError(t *testing.T) {
	t.Parallel()
	if err := NewCalculationError("short", "goconst", nil); err != nil {
		t.Errorf("nil cause should give nil, got %v", err)
	}

	wrapped := fmt.Errorf("bench: %w", NewCalculationError("fib", "goconst", context.DeadlineExceeded))
	var calcErr CalculationError
	if !errors.As(wrapped, &calcErr) || calcErr.Job() != "fib on goconst" {
		t.Fatalf("CalculationError not found through wrapping: %v", wrapped)
	}
	if !IsContextError(wrapped) {
		t.Error("a timed-out job must still read as a context error")
	}
}

func TestTimeoutError(t *testing.T) {
	t.Parallel()
	err := TimeoutError{Operation: "factsum(5000)", Limit: 2 * time.Second}
	if got := err.Error(); got != "factsum(5000) timed out after 2s" {
		t.Errorf("Error() = %q", got)
	}
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Error("TimeoutError should match context.DeadlineExceeded")
	}
	if errors.Is(err, context.Canceled) {
		t.Error("TimeoutError should not match context.Canceled")
	}
}

func TestValidationError(t *testing.T) {
	t.Parallel()
	err := ValidationError{Field: "fib_n", Message: `"abc" is not a non-negative integer`}
	if got := err.Error(); got != `invalid fib_n: "abc" is not a non-negative integer` {
		t.Errorf("Error() = %q", got)
	}
}

func TestWrapError(t *testing.T) {
	t.Parallel()
	if WrapError(nil, "create report file %s", "out.json") != nil {
		t.Error("WrapError(nil) should be nil")
	}

	base := errors.New("permission denied")
	err := WrapError(base, "create report file %s", "out.json")
	if err.Error() != "create report file out.json: permission denied" {
		t.Errorf("Error() = %q", err.Error())
	}
	if !errors.Is(err, base) {
		t.Error("wrapped error lost its cause")
	}
}

func TestIsContextError(t *testing.T) {
	t.Parallel()
	tests := []struct {
		err  error
		want bool
	}{
		{nil, false},
		{context.Canceled, true},
		{context.DeadlineExceeded, true},
		{TimeoutError{Operation: "fib(35)", Limit: time.Second}, true},
		{WrapError(context.Canceled, "bench"), true},
		{errors.New("syntax error"), false},
		{NewConfigError("bad"), false},
	}
	for _, tt := range tests {
		if got := IsContextError(tt.err); got != tt.want {
			t.Errorf("IsContextError(%v) = %v, want %v", tt.err, got, tt.want)
		}
	}
}

func TestExitCodesDistinct(t *testing.T) {
	t.Parallel()
	codes := map[int]string{}
	for name, code := range map[string]int{
		"success":  ExitSuccess,
		"generic":  ExitErrorGeneric,
		"timeout":  ExitErrorTimeout,
		"mismatch": ExitErrorMismatch,
		"config":   ExitErrorConfig,
		"canceled": ExitErrorCanceled,
	} {
		if other, dup := codes[code]; dup {
			t.Errorf("exit code %d shared by %s and %s", code, name, other)
		}
		codes[code] = name
	}
	if ExitSuccess != 0 || ExitErrorCanceled != 130 {
		t.Error("success must be 0 and SIGINT cancellation 130")
	}
}
