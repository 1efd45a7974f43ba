// Package calibration measures the parallel sum for a range of worker
// counts and reports the fastest one for the current machine.
package calibration

import (
	"context"
	"fmt"
	"io"
	"time"

	apperrors "github.com/agbru/rangecalc/internal/errors"
	"github.com/agbru/rangecalc/internal/logging"
	"github.com/agbru/rangecalc/internal/reducer"
	"github.com/agbru/rangecalc/internal/ui"
)

// Result is the measurement of one worker count.
type Result struct {
	Workers  int
	Duration time.Duration
	Err      error
}

// Options configures Run.
type Options struct {
	// N is the upper bound of the summed range.
	N int64
	// Counts are the worker counts to measure, in order.
	Counts []int
	// Repeat is the number of timed runs per count; the fastest is kept.
	Repeat int
	// Logger receives one debug entry per measurement. Nil disables it.
	Logger logging.Logger
}

// Run times SumParallel on iterative chunks for every worker count in
// opts.Counts. It returns the measurements in order and the fastest worker
// count, or 0 when no measurement succeeded. Cancellation stops the sweep
// and is reported on the current and remaining counts.
func Run(ctx context.Context, opts Options) ([]Result, int) {
	if opts.Repeat < 1 {
		opts.Repeat = 1
	}
	logger := opts.Logger
	if logger == nil {
		logger = logging.NewNopLogger()
	}

	results := make([]Result, len(opts.Counts))
	best := 0
	var bestDuration time.Duration
	for i, w := range opts.Counts {
		results[i] = measure(ctx, w, opts.N, opts.Repeat)
		res := results[i]
		if res.Err != nil {
			logger.Error("calibration run failed", res.Err, logging.Int("workers", w))
			continue
		}
		logger.Debug("calibration run", logging.Int("workers", w), logging.Duration("duration", res.Duration))
		if best == 0 || res.Duration < bestDuration {
			best, bestDuration = w, res.Duration
		}
	}
	return results, best
}

func measure(ctx context.Context, workers int, n int64, repeat int) Result {
	res := Result{Workers: workers}
	r, err := reducer.New(reducer.WithWorkers(workers), reducer.WithClosedFormChunks(false))
	if err != nil {
		res.Err = err
		return res
	}
	for run := 0; run < repeat; run++ {
		start := time.Now()
		if _, err := r.SumParallel(ctx, n); err != nil {
			res.Err = err
			return res
		}
		if elapsed := time.Since(start); run == 0 || elapsed < res.Duration {
			res.Duration = elapsed
		}
	}
	return res
}

// RunCalibration runs the full sweep for n and prints the summary. It
// returns the exit code of the sweep.
func RunCalibration(ctx context.Context, out io.Writer, n int64, maxWorkers int, logger logging.Logger) int {
	counts := GenerateWorkerCounts(maxWorkers)
	fmt.Fprintf(out, "--- Calibration Mode: sweeping %d worker count(s) on [1, %d] ---\n", len(counts), n)

	results, best := Run(ctx, Options{N: n, Counts: counts, Repeat: 3, Logger: logger})
	printCalibrationResults(out, results, best)

	if best == 0 {
		var err error
		for _, res := range results {
			if res.Err != nil {
				err = res.Err
				break
			}
		}
		return apperrors.HandleCalculationError(err, 0, out, colors{})
	}
	printCalibrationOutput(out, best)
	return apperrors.ExitSuccess
}

// colors adapts the active theme to apperrors.ColorProvider.
type colors struct{}

func (colors) Red() string    { return ui.ColorRed() }
func (colors) Yellow() string { return ui.ColorYellow() }
func (colors) Reset() string  { return ui.ColorReset() }
