package orchestration

import (
	"io"
	"math/big"
	"sync"
	"time"
)

// VariantResult is the outcome of running one variant.
type VariantResult struct {
	// Name is the variant identifier, e.g. "sum-threaded".
	Name string
	// Op is the reduction kind ("sum" or "product").
	Op string
	// Wide reports an arbitrary-precision variant.
	Wide bool
	// Value is the computed result. It is nil if an error occurred.
	Value *big.Int
	// Duration is the fastest of the timed runs.
	Duration time.Duration
	// Runs is the number of runs that completed.
	Runs int
	// Err contains the error of the first failed run.
	Err error
}

// ProgressUpdate reports the completion fraction of one variant.
type ProgressUpdate struct {
	// VariantIndex is the position of the variant in the run order.
	VariantIndex int
	// Value is the completion fraction, 0.0 to 1.0.
	Value float64
}

// PresentationOptions configures how results are presented to the user.
type PresentationOptions struct {
	N       int64
	Verbose bool
}

// ProgressReporter displays progress while variants run.
type ProgressReporter interface {
	// DisplayProgress consumes progressChan until it is closed, then calls
	// wg.Done.
	DisplayProgress(wg *sync.WaitGroup, progressChan <-chan ProgressUpdate, numVariants int, out io.Writer)
}

// ProgressReporterFunc adapts a function to ProgressReporter.
type ProgressReporterFunc func(wg *sync.WaitGroup, progressChan <-chan ProgressUpdate, numVariants int, out io.Writer)

// DisplayProgress calls f.
func (f ProgressReporterFunc) DisplayProgress(wg *sync.WaitGroup, progressChan <-chan ProgressUpdate, numVariants int, out io.Writer) {
	f(wg, progressChan, numVariants, out)
}

// NullProgressReporter drains the progress channel without output.
type NullProgressReporter struct{}

// DisplayProgress drains the channel.
func (NullProgressReporter) DisplayProgress(wg *sync.WaitGroup, progressChan <-chan ProgressUpdate, _ int, _ io.Writer) {
	defer wg.Done()
	DrainChannel(progressChan)
}

// ResultPresenter renders results and maps failures to exit codes.
type ResultPresenter interface {
	// PresentComparisonTable displays every variant with its duration and status.
	PresentComparisonTable(results []VariantResult, out io.Writer)
	// PresentResult displays the agreed value of one reduction.
	PresentResult(result VariantResult, opts PresentationOptions, out io.Writer)
	// HandleError reports err and returns the exit code for it.
	HandleError(err error, duration time.Duration, out io.Writer) int
}

// OperationRecorder receives one observation per finished variant.
type OperationRecorder interface {
	ObserveOperation(variant, status string, d time.Duration)
}
