package apperrors

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// Application exit codes define the standard exit statuses for the application.
// These codes are used to signal the outcome of the program execution to the OS.
const (
	ExitSuccess         = 0   // Indicates successful execution.
	ExitErrorGeneric    = 1   // Indicates a generic error.
	ExitErrorTimeout    = 2   // Indicates the operation timed out.
	ExitErrorMismatch   = 3   // Indicates a result mismatch between variants.
	ExitErrorConfig     = 4   // Indicates a configuration error.
	ExitErrorInvalidArg = 5   // Indicates a rejected input value (n < 0).
	ExitErrorOverflow   = 6   // Indicates the result does not fit the integer width.
	ExitErrorCanceled   = 130 // Indicates the operation was canceled (e.g., SIGINT).
)

// Sentinel errors identifying the two failure kinds of a reduction.
// Typed errors below match them through errors.Is.
var (
	// ErrInvalidArgument is matched by every input validation failure.
	ErrInvalidArgument = errors.New("invalid argument")
	// ErrArithmeticOverflow is matched by every overflow failure.
	ErrArithmeticOverflow = errors.New("arithmetic overflow")
)

// MsgNegativeN is the message carried by the validation error for n < 0.
const MsgNegativeN = "n must be a non-negative integer"

// ConfigError represents a user configuration error, such as invalid flags or
// values. It indicates that the application cannot proceed due to incorrect user input.
type ConfigError struct {
	// Message explains the specific configuration error.
	Message string
}

// Error returns the error message for a ConfigError.
func (e ConfigError) Error() string { return e.Message }

// NewConfigError creates a new ConfigError with a formatted message.
//
// Parameters:
//   - format: A format string (see fmt.Sprintf).
//   - a: Arguments to be formatted into the string.
//
// Returns:
//   - error: A new ConfigError instance containing the formatted message.
func NewConfigError(format string, a ...any) error {
	return ConfigError{Message: fmt.Sprintf(format, a...)}
}

// CalculationError encapsulates a failure raised inside a worker while
// preserving the original cause, so callers can still inspect it with
// errors.Is and errors.As.
type CalculationError struct {
	// Cause is the underlying error that triggered this calculation error.
	Cause error
}

// Error returns the error message from the underlying cause.
func (e CalculationError) Error() string { return e.Cause.Error() }

// Unwrap returns the original wrapped error.
func (e CalculationError) Unwrap() error { return e.Cause }

// TimeoutError represents a calculation timeout. It captures the operation
// name and the duration limit that was exceeded.
type TimeoutError struct {
	// Operation is the name of the operation that timed out.
	Operation string
	// Limit is the duration after which the operation was considered timed out.
	Limit time.Duration
}

// Error returns a formatted message describing the timeout.
func (e TimeoutError) Error() string {
	return fmt.Sprintf("operation %q timed out after %s", e.Operation, e.Limit)
}

// Unwrap lets a TimeoutError match context.DeadlineExceeded.
func (e TimeoutError) Unwrap() error { return context.DeadlineExceeded }

// ValidationError represents an input validation failure. It identifies which
// field failed validation and provides a human-readable explanation.
//
// Every ValidationError matches ErrInvalidArgument.
type ValidationError struct {
	// Field is the name of the field that failed validation.
	Field string
	// Message explains the validation failure.
	Message string
}

// Error returns a formatted message describing the validation failure.
func (e ValidationError) Error() string {
	return fmt.Sprintf("validation error for %q: %s", e.Field, e.Message)
}

// Is reports whether target is ErrInvalidArgument.
func (e ValidationError) Is(target error) bool { return target == ErrInvalidArgument }

// NewNegativeArgumentError returns the validation error for a negative n.
func NewNegativeArgumentError() error {
	return ValidationError{Field: "n", Message: MsgNegativeN}
}

// OverflowError reports that a reduction result does not fit the chosen
// integer width. It matches ErrArithmeticOverflow.
type OverflowError struct {
	// Operation is the reduction that overflowed ("sum" or "product").
	Operation string
	// N is the upper bound of the range being reduced.
	N uint64
}

// Error returns a formatted message describing the overflow.
func (e OverflowError) Error() string {
	return fmt.Sprintf("arithmetic overflow: %s of [1, %d] exceeds 64 bits", e.Operation, e.N)
}

// Is reports whether target is ErrArithmeticOverflow.
func (e OverflowError) Is(target error) bool { return target == ErrArithmeticOverflow }

// WrapError wraps an error with additional context using fmt.Errorf and %w.
// It returns nil if err is nil.
func WrapError(err error, format string, args ...any) error {
	if err == nil {
		return nil
	}
	message := fmt.Sprintf(format, args...)
	return fmt.Errorf("%s: %w", message, err)
}

// IsContextError checks if the error is a context cancellation or deadline exceeded error.
func IsContextError(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}

// ExitCodeFor maps an error to the exit code the application reports for it.
func ExitCodeFor(err error) int {
	var cfgErr ConfigError
	switch {
	case err == nil:
		return ExitSuccess
	case errors.Is(err, ErrInvalidArgument):
		return ExitErrorInvalidArg
	case errors.Is(err, ErrArithmeticOverflow):
		return ExitErrorOverflow
	case errors.Is(err, context.DeadlineExceeded):
		return ExitErrorTimeout
	case errors.Is(err, context.Canceled):
		return ExitErrorCanceled
	case errors.As(err, &cfgErr):
		return ExitErrorConfig
	default:
		return ExitErrorGeneric
	}
}
