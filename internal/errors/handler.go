package apperrors

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"
)

// ColorProvider supplies the ANSI sequences used when printing errors.
// A nil ColorProvider prints without color.
type ColorProvider interface {
	Red() string
	Yellow() string
	Reset() string
}

type noColors struct{}

func (noColors) Red() string    { return "" }
func (noColors) Yellow() string { return "" }
func (noColors) Reset() string  { return "" }

// HandleCalculationError reports err on out and maps it to an exit code.
//
// Parameters:
//   - err: The error returned by the calculation, or nil.
//   - duration: How long the calculation ran before failing. Zero omits it.
//   - out: Destination for the message.
//   - colors: ANSI color source; nil disables color.
//
// Returns:
//   - int: ExitSuccess for a nil error, ExitErrorTimeout for deadlines
//     (TimeoutError included), ExitErrorCanceled for cancellation,
//     ExitErrorConfig for configuration and validation errors,
//     ExitErrorGeneric otherwise. A CalculationError names its job in the
//     message.
func HandleCalculationError(err error, duration time.Duration, out io.Writer, colors ColorProvider) int {
	if err == nil {
		return ExitSuccess
	}
	if colors == nil {
		colors = noColors{}
	}
	suffix := ""
	var calcErr CalculationError
	if errors.As(err, &calcErr) && calcErr.Job() != "" {
		suffix = " (" + calcErr.Job() + ")"
	}
	if duration > 0 {
		suffix += fmt.Sprintf(" after %s", duration)
	}

	var configErr ConfigError
	var validationErr ValidationError
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		fmt.Fprintf(out, "%sCalculation timed out%s.%s\n", colors.Yellow(), suffix, colors.Reset())
		return ExitErrorTimeout
	case errors.Is(err, context.Canceled):
		fmt.Fprintf(out, "%sCalculation canceled%s.%s\n", colors.Yellow(), suffix, colors.Reset())
		return ExitErrorCanceled
	case errors.As(err, &configErr), errors.As(err, &validationErr):
		fmt.Fprintf(out, "%sConfiguration error: %v%s\n", colors.Red(), err, colors.Reset())
		return ExitErrorConfig
	default:
		fmt.Fprintf(out, "%sCalculation failed%s: %v%s\n", colors.Red(), suffix, err, colors.Reset())
		return ExitErrorGeneric
	}
}
