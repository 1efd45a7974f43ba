package apperrors

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"
)

// workerOverflow builds the chain a parallel product returns when one chunk
// overflows: the worker wraps the chunk and the engine wraps the worker.
func workerOverflow(n uint64) error {
	return CalculationError{Cause: WrapError(OverflowError{Operation: "product", N: n}, "chunk [%d, %d)", 11, n+1)}
}

// TestReductionErrorChains checks every failure a reduction can return
// against both sentinels, the exit code and the printed message.
func TestReductionErrorChains(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name        string
		err         error
		invalid     bool
		overflow    bool
		cancel      bool
		wantCode    int
		wantMessage string
	}{
		{
			name:        "negative n",
			err:         NewNegativeArgumentError(),
			invalid:     true,
			wantCode:    ExitErrorInvalidArg,
			wantMessage: "Invalid argument: n must be a non-negative integer",
		},
		{
			name:        "bad worker count",
			err:         WrapError(ValidationError{Field: "workers", Message: "must be at least 1"}, "building reducer"),
			invalid:     true,
			wantCode:    ExitErrorInvalidArg,
			wantMessage: "Invalid argument: must be at least 1",
		},
		{
			name:        "sequential sum overflow",
			err:         OverflowError{Operation: "sum", N: 6074001000},
			overflow:    true,
			wantCode:    ExitErrorOverflow,
			wantMessage: "sum of [1, 6074001000] does not fit in 64 bits",
		},
		{
			name:        "overflow inside a worker",
			err:         workerOverflow(21),
			overflow:    true,
			wantCode:    ExitErrorOverflow,
			wantMessage: "product of [1, 21] does not fit in 64 bits",
		},
		{
			name:        "run canceled by signal",
			err:         CalculationError{Cause: context.Canceled},
			cancel:      true,
			wantCode:    ExitErrorCanceled,
			wantMessage: "Status: Canceled",
		},
		{
			name:        "run timed out",
			err:         TimeoutError{Operation: "sum-threaded", Limit: time.Minute},
			cancel:      true,
			wantCode:    ExitErrorTimeout,
			wantMessage: `operation "sum-threaded" timed out after 1m0s`,
		},
		{
			name:        "repeated runs disagree",
			err:         errors.New("repeated runs returned different values"),
			wantCode:    ExitErrorGeneric,
			wantMessage: "Status: Failure. Error: repeated runs returned different values",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := errors.Is(tt.err, ErrInvalidArgument); got != tt.invalid {
				t.Errorf("errors.Is(ErrInvalidArgument) = %v, want %v", got, tt.invalid)
			}
			if got := errors.Is(tt.err, ErrArithmeticOverflow); got != tt.overflow {
				t.Errorf("errors.Is(ErrArithmeticOverflow) = %v, want %v", got, tt.overflow)
			}
			if got := IsContextError(tt.err); got != tt.cancel {
				t.Errorf("IsContextError = %v, want %v", got, tt.cancel)
			}
			if got := ExitCodeFor(tt.err); got != tt.wantCode {
				t.Errorf("ExitCodeFor = %d, want %d", got, tt.wantCode)
			}

			var buf bytes.Buffer
			if code := HandleCalculationError(tt.err, 0, &buf, nil); code != tt.wantCode {
				t.Errorf("HandleCalculationError code = %d, want %d", code, tt.wantCode)
			}
			if !strings.Contains(buf.String(), tt.wantMessage) {
				t.Errorf("output %q should contain %q", buf.String(), tt.wantMessage)
			}
		})
	}
}

func TestWorkerOverflowKeepsDetails(t *testing.T) {
	t.Parallel()
	err := workerOverflow(25)
	if got, want := err.Error(), "chunk [11, 26): arithmetic overflow: product of [1, 25] exceeds 64 bits"; got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
	var overflowErr OverflowError
	if !errors.As(err, &overflowErr) || overflowErr.N != 25 || overflowErr.Operation != "product" {
		t.Errorf("errors.As recovered %+v", overflowErr)
	}
}

func TestHandleCalculationError_Details(t *testing.T) {
	t.Parallel()

	t.Run("nil", func(t *testing.T) {
		t.Parallel()
		var buf bytes.Buffer
		if code := HandleCalculationError(nil, time.Second, &buf, nil); code != ExitSuccess || buf.Len() != 0 {
			t.Errorf("code = %d, output = %q", code, buf.String())
		}
	})

	t.Run("duration and hint", func(t *testing.T) {
		t.Parallel()
		var buf bytes.Buffer
		HandleCalculationError(OverflowError{Operation: "product", N: 30}, 2*time.Millisecond, &buf, nil)
		out := buf.String()
		if !strings.Contains(out, "after 2ms") || !strings.Contains(out, "-wide") {
			t.Errorf("output %q should carry the duration and the -wide hint", out)
		}
	})

	t.Run("colors", func(t *testing.T) {
		t.Parallel()
		var buf bytes.Buffer
		HandleCalculationError(NewNegativeArgumentError(), 0, &buf, bracketColors{})
		if got, want := buf.String(), "<red>Invalid argument:</> n must be a non-negative integer\n"; got != want {
			t.Errorf("output = %q, want %q", got, want)
		}
	})
}

type bracketColors struct{}

func (bracketColors) Red() string    { return "<red>" }
func (bracketColors) Yellow() string { return "<yellow>" }
func (bracketColors) Reset() string  { return "</>" }

func TestConfigErrorExitCode(t *testing.T) {
	t.Parallel()
	err := WrapError(NewConfigError("unknown -variant %q", "divide"), "parsing flags")
	if got, want := err.Error(), `parsing flags: unknown -variant "divide"`; got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
	var cfgErr ConfigError
	if !errors.As(err, &cfgErr) {
		t.Fatal("errors.As should find the ConfigError")
	}
	if ExitCodeFor(err) != ExitErrorConfig {
		t.Errorf("ExitCodeFor = %d, want %d", ExitCodeFor(err), ExitErrorConfig)
	}
	if errors.Is(err, ErrInvalidArgument) {
		t.Error("a configuration error is not an invalid reduction argument")
	}
}

func TestWrapErrorNil(t *testing.T) {
	t.Parallel()
	if err := WrapError(nil, "chunk %d", 1); err != nil {
		t.Errorf("WrapError(nil) = %v, want nil", err)
	}
}

// TestExitCodesAreDistinct guards the values scripts rely on.
func TestExitCodesAreDistinct(t *testing.T) {
	t.Parallel()
	codes := []int{
		ExitSuccess, ExitErrorGeneric, ExitErrorTimeout, ExitErrorMismatch,
		ExitErrorConfig, ExitErrorInvalidArg, ExitErrorOverflow, ExitErrorCanceled,
	}
	seen := map[int]bool{}
	for _, c := range codes {
		if seen[c] {
			t.Errorf("exit code %d used twice", c)
		}
		seen[c] = true
	}
	if ExitSuccess != 0 || ExitErrorCanceled != 130 {
		t.Errorf("ExitSuccess = %d, ExitErrorCanceled = %d; want 0 and 130", ExitSuccess, ExitErrorCanceled)
	}
}
