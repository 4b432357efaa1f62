package apperrors

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// Process exit statuses. A benchmark run that finishes with every backend
// agreeing exits 0; disagreement is reported separately from failure so
// scripts can tell a wrong evaluator from a broken one.
const (
	ExitSuccess       = 0
	ExitErrorGeneric  = 1
	ExitErrorTimeout  = 2
	ExitErrorMismatch = 3
	ExitErrorConfig   = 4
	ExitErrorCanceled = 130 // SIGINT
)

// ConfigError reports an invalid flag, environment override or query
// parameter. Callers exit with ExitErrorConfig (or answer 400 over HTTP).
type ConfigError struct {
	Message string
}

func (e ConfigError) Error() string { return e.Message }

// NewConfigError formats a ConfigError.
func NewConfigError(format string, a ...any) error {
	return ConfigError{Message: fmt.Sprintf(format, a...)}
}

// CalculationError ties a failed benchmark job to the case and backend that
// produced it. The message is the cause alone, since tables and panels
// already show the case and backend next to it; Job gives the full context
// for logs and the terminal summary.
type CalculationError struct {
	Case    string
	Backend string
	Cause   error
}

func (e CalculationError) Error() string { return e.Cause.Error() }

func (e CalculationError) Unwrap() error { return e.Cause }

// Job returns "case on backend", or whichever part is known.
func (e CalculationError) Job() string {
	switch {
	case e.Case != "" && e.Backend != "":
		return e.Case + " on " + e.Backend
	case e.Case != "":
		return e.Case
	default:
		return e.Backend
	}
}

// NewCalculationError wraps cause, or returns nil when cause is nil.
func NewCalculationError(caseName, backend string, cause error) error {
	if cause == nil {
		return nil
	}
	return CalculationError{Case: caseName, Backend: backend, Cause: cause}
}

// TimeoutError is a workload that ran past its limit. It matches
// context.DeadlineExceeded with errors.Is.
type TimeoutError struct {
	Operation string
	Limit     time.Duration
}

func (e TimeoutError) Error() string {
	return fmt.Sprintf("%s timed out after %s", e.Operation, e.Limit)
}

func (e TimeoutError) Unwrap() error { return context.DeadlineExceeded }

// ValidationError is a malformed value for a named input, such as a
// non-numeric fib_n query parameter.
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Message)
}

// WrapError prefixes err with a formatted context message. A nil err stays
// nil.
func WrapError(err error, format string, args ...any) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), err)
}

// IsContextError reports whether err comes from a canceled or expired
// context.
func IsContextError(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}
