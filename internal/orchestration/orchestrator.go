package orchestration

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sort"
	"sync"
	"time"

	apperrors "github.com/agbru/rangecalc/internal/errors"
	"github.com/agbru/rangecalc/internal/logging"
	"github.com/agbru/rangecalc/internal/metrics"
	"github.com/agbru/rangecalc/internal/reducer"
)

// ProgressBufferMultiplier sizes the progress channel per variant so that
// workers rarely wait on a slow display.
const ProgressBufferMultiplier = 16

// ErrNonDeterministic is reported when repeated runs of one variant disagree.
var ErrNonDeterministic = errors.New("repeated runs returned different values")

// ExecOptions configures ExecuteVariants.
type ExecOptions struct {
	// Repeat is the number of timed runs per variant (at least 1).
	Repeat int
	// Logger receives one entry per finished variant. Nil disables logging.
	Logger logging.Logger
	// Recorder receives one observation per finished variant. Nil disables it.
	Recorder OperationRecorder
	// Observer additionally receives every chunk completion.
	Observer reducer.Observer
}

// ExecuteVariants runs the variants one after another on r for the same n.
//
// Variants run sequentially so their timings are comparable; each parallel
// variant still uses all of r's workers. Every variant runs opts.Repeat
// times and keeps its fastest duration. A failed run stops the repetitions
// of that variant but not the remaining variants, except on cancellation.
func ExecuteVariants(ctx context.Context, r *reducer.Reducer, variants []reducer.Variant, n int64,
	opts ExecOptions, progressReporter ProgressReporter, out io.Writer) []VariantResult {
	if opts.Repeat < 1 {
		opts.Repeat = 1
	}
	logger := opts.Logger
	if logger == nil {
		logger = logging.NewNopLogger()
	}

	results := make([]VariantResult, len(variants))
	progressChan := make(chan ProgressUpdate, len(variants)*ProgressBufferMultiplier)

	var displayWg sync.WaitGroup
	displayWg.Add(1)
	go progressReporter.DisplayProgress(&displayWg, progressChan, len(variants), out)

	for i, v := range variants {
		results[i] = runVariant(ctx, r, v, i, n, opts, progressChan)
		res := results[i]
		if opts.Recorder != nil {
			opts.Recorder.ObserveOperation(res.Name, StatusFor(res.Err), res.Duration)
		}
		if res.Err != nil {
			logger.Error("variant failed", res.Err,
				logging.String("variant", res.Name), logging.Int64("n", n))
		} else {
			logger.Info("variant finished",
				logging.String("variant", res.Name), logging.Int64("n", n),
				logging.Duration("duration", res.Duration), logging.Int("runs", res.Runs))
		}
		progressChan <- ProgressUpdate{VariantIndex: i, Value: 1}
	}

	close(progressChan)
	displayWg.Wait()
	return results
}

func runVariant(ctx context.Context, base *reducer.Reducer, v reducer.Variant, index int, n int64,
	opts ExecOptions, progressChan chan<- ProgressUpdate) VariantResult {
	res := VariantResult{Name: v.Name, Op: v.Op, Wide: v.Wide}

	progress := reducer.ObserverFunc(func(_ string, done, total int) {
		// Dropping an intermediate update is harmless; the final one is
		// sent by ExecuteVariants.
		select {
		case progressChan <- ProgressUpdate{VariantIndex: index, Value: float64(done) / float64(total)}:
		default:
		}
	})
	r, err := base.With(reducer.WithObserver(reducer.MultiObserver(progress, opts.Observer)))
	if err != nil {
		res.Err = err
		return res
	}

	for run := 0; run < opts.Repeat; run++ {
		if err := ctx.Err(); err != nil {
			res.Err = err
			break
		}
		start := time.Now()
		value, err := v.Run(ctx, r, n)
		elapsed := time.Since(start)
		if err != nil {
			res.Value = nil
			res.Err = err
			res.Duration = elapsed
			break
		}
		if res.Value != nil && res.Value.Cmp(value) != 0 {
			res.Value = nil
			res.Err = ErrNonDeterministic
			break
		}
		res.Value = value
		if res.Runs == 0 || elapsed < res.Duration {
			res.Duration = elapsed
		}
		res.Runs++
	}
	return res
}

// StatusFor maps a variant error to its metrics status label.
func StatusFor(err error) string {
	switch {
	case err == nil:
		return metrics.StatusSuccess
	case errors.Is(err, apperrors.ErrArithmeticOverflow):
		return metrics.StatusOverflow
	case errors.Is(err, apperrors.ErrInvalidArgument):
		return metrics.StatusInvalid
	case apperrors.IsContextError(err):
		return metrics.StatusCanceled
	default:
		return metrics.StatusFailure
	}
}

// group collects the results of one reduction kind.
type group struct {
	op       string
	best     *VariantResult
	firstErr error
	results  []*VariantResult
}

func groupByOp(results []VariantResult) []*group {
	var groups []*group
	index := map[string]*group{}
	for i := range results {
		res := &results[i]
		g, ok := index[res.Op]
		if !ok {
			g = &group{op: res.Op}
			index[res.Op] = g
			groups = append(groups, g)
		}
		g.results = append(g.results, res)
		if res.Err != nil {
			if g.firstErr == nil {
				g.firstErr = res.Err
			}
			continue
		}
		if g.best == nil || res.Duration < g.best.Duration {
			g.best = res
		}
	}
	return groups
}

// mismatch reports why the results of g disagree, or "" when they agree.
// Values of successful variants must be equal. Fixed-width variants must
// also agree on whether the reduction fits in 64 bits; wide variants and
// canceled runs are left out of that check.
func (g *group) mismatch() string {
	var succeeded, failed []string
	for _, res := range g.results {
		if res.Err == nil {
			if res.Value.Cmp(g.best.Value) != 0 {
				return fmt.Sprintf("%s returned %s, %s returned %s", g.best.Name, g.best.Value, res.Name, res.Value)
			}
			if !res.Wide {
				succeeded = append(succeeded, res.Name)
			}
			continue
		}
		if !res.Wide && !apperrors.IsContextError(res.Err) {
			failed = append(failed, res.Name)
		}
	}
	if len(succeeded) > 0 && len(failed) > 0 {
		return fmt.Sprintf("%s succeeded but %s failed", succeeded[0], failed[0])
	}
	return ""
}

// AnalyzeComparisonResults presents the results and returns the exit code.
//
// Results are sorted with successes first, fastest first, then compared
// within each reduction kind. A disagreement is a mismatch. When every
// variant of a kind failed, its first error decides the exit code.
func AnalyzeComparisonResults(results []VariantResult, opts PresentationOptions, presenter ResultPresenter, out io.Writer) int {
	sort.SliceStable(results, func(i, j int) bool {
		if (results[i].Err == nil) != (results[j].Err == nil) {
			return results[i].Err == nil
		}
		return results[i].Duration < results[j].Duration
	})

	presenter.PresentComparisonTable(results, out)
	if len(results) == 0 {
		fmt.Fprintf(out, "\nGlobal Status: Failure. No variant was selected.\n")
		return apperrors.ExitErrorConfig
	}

	groups := groupByOp(results)
	sort.Slice(groups, func(i, j int) bool { return groups[i].op > groups[j].op })

	for _, g := range groups {
		if g.best == nil {
			continue
		}
		if why := g.mismatch(); why != "" {
			fmt.Fprintf(out, "\nGlobal Status: CRITICAL ERROR! Inconsistent %s results: %s.\n", g.op, why)
			return apperrors.ExitErrorMismatch
		}
	}

	exitCode := apperrors.ExitSuccess
	anySuccess := false
	for _, g := range groups {
		if g.best != nil {
			anySuccess = true
		}
	}
	if anySuccess {
		fmt.Fprintf(out, "\nGlobal Status: Success. All valid results are consistent.\n")
	} else {
		fmt.Fprintf(out, "\nGlobal Status: Failure. No variant could complete the reduction.\n")
	}

	for _, g := range groups {
		if g.best != nil {
			presenter.PresentResult(*g.best, opts, out)
			continue
		}
		code := presenter.HandleError(g.firstErr, 0, out)
		if exitCode == apperrors.ExitSuccess {
			exitCode = code
		}
	}
	return exitCode
}

// GetVariantsToRun selects the variants for op (and wide) or, when name is
// set, the single variant of that name.
func GetVariantsToRun(op, name string, wide bool) ([]reducer.Variant, error) {
	if name != "" {
		v, ok := reducer.LookupVariant(name)
		if !ok {
			return nil, apperrors.NewConfigError("unknown variant %q", name)
		}
		return []reducer.Variant{v}, nil
	}
	vs, err := reducer.SelectVariants(op, wide)
	if err != nil {
		return nil, apperrors.ConfigError{Message: err.Error()}
	}
	return vs, nil
}
