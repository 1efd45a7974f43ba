package apperrors

import (
	"errors"
	"fmt"
	"io"
	"time"
)

// ColorProvider supplies the ANSI sequences used when printing errors.
// A nil provider prints plain text.
type ColorProvider interface {
	Red() string
	Yellow() string
	Reset() string
}

type noColor struct{}

func (noColor) Red() string    { return "" }
func (noColor) Yellow() string { return "" }
func (noColor) Reset() string  { return "" }

// HandleCalculationError prints a user-facing description of err and returns
// the matching exit code. A nil error prints nothing and returns ExitSuccess.
//
// Parameters:
//   - err: The error returned by a reduction.
//   - duration: How long the failed call ran (0 if unknown).
//   - out: The writer for the message.
//   - colors: Color sequences, or nil for plain output.
//
// Returns:
//   - int: The exit code for err.
func HandleCalculationError(err error, duration time.Duration, out io.Writer, colors ColorProvider) int {
	if err == nil {
		return ExitSuccess
	}
	if colors == nil {
		colors = noColor{}
	}

	var (
		validationErr ValidationError
		overflowErr   OverflowError
	)
	after := ""
	if duration > 0 {
		after = fmt.Sprintf(" after %s", duration)
	}

	switch {
	case errors.As(err, &validationErr):
		fmt.Fprintf(out, "%sInvalid argument:%s %s\n", colors.Red(), colors.Reset(), validationErr.Message)
	case errors.As(err, &overflowErr):
		fmt.Fprintf(out, "%sOverflow:%s %s of [1, %d] does not fit in 64 bits%s (use -wide for exact values).\n",
			colors.Red(), colors.Reset(), overflowErr.Operation, overflowErr.N, after)
	case IsContextError(err):
		fmt.Fprintf(out, "%sStatus: Canceled%s%s (%v).\n", colors.Yellow(), colors.Reset(), after, err)
	default:
		fmt.Fprintf(out, "%sStatus: Failure%s%s. Error: %v\n", colors.Red(), colors.Reset(), after, err)
	}
	return ExitCodeFor(err)
}
