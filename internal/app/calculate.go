package app

import (
	"context"
	"fmt"
	"io"

	"github.com/agbru/rangecalc/internal/cli"
	apperrors "github.com/agbru/rangecalc/internal/errors"
	"github.com/agbru/rangecalc/internal/metrics"
	"github.com/agbru/rangecalc/internal/orchestration"
	"github.com/agbru/rangecalc/internal/reducer"
	"github.com/agbru/rangecalc/internal/sysmon"
)

// runCalculate runs the selected variants once per configured repetition,
// presents the comparison and returns the exit code.
func (a *Application) runCalculate(ctx context.Context, out io.Writer) int {
	variants, r, code := a.prepare()
	if code != apperrors.ExitSuccess {
		return code
	}

	if !a.Config.Quiet {
		cli.PrintExecutionConfig(a.Config, sysmon.Describe(), out)
		cli.PrintExecutionMode(variants, out)
		if a.Config.Verbose {
			a.printChunkPlan(r, out)
		}
	}

	var (
		progressReporter orchestration.ProgressReporter = cli.CLIProgressReporter{}
		presenter        orchestration.ResultPresenter  = cli.CLIResultPresenter{}
		progressOut                                     = out
		analysisOut                                     = out
	)
	if a.Config.Quiet {
		progressReporter = orchestration.NullProgressReporter{}
		presenter = cli.QuietResultPresenter{Out: out, ErrOut: a.ErrWriter, Labeled: countOps(variants) > 1}
		progressOut, analysisOut = io.Discard, io.Discard
	}

	collector := metrics.NewMemoryCollector()
	before := collector.Snapshot()
	results := orchestration.ExecuteVariants(ctx, r, variants, a.Config.N, a.execOptions(), progressReporter, progressOut)
	delta := collector.Snapshot().Since(before)

	exitCode := orchestration.AnalyzeComparisonResults(results,
		orchestration.PresentationOptions{N: a.Config.N, Verbose: a.Config.Verbose}, presenter, analysisOut)

	if a.Config.Verbose && !a.Config.Quiet {
		cli.DisplayMemoryStats(delta, out)
	}
	return exitCode
}

// printChunkPlan shows how a parallel call splits the range. Nothing is
// printed for a range the reducer rejects.
func (a *Application) printChunkPlan(r *reducer.Reducer, out io.Writer) {
	chunks, err := r.Plan(a.Config.N)
	if err != nil || len(chunks) == 0 {
		return
	}
	fmt.Fprintf(out, "\n%s", cli.FormatChunkPlan(a.Config.N, r.Workers(), chunks))
}

// countOps returns the number of distinct reduction kinds among variants.
func countOps(variants []reducer.Variant) int {
	seen := map[string]bool{}
	for _, v := range variants {
		seen[v.Op] = true
	}
	return len(seen)
}
