package cli

import (
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	apperrors "github.com/agbru/rangecalc/internal/errors"
	"github.com/agbru/rangecalc/internal/format"
	"github.com/agbru/rangecalc/internal/orchestration"
	"github.com/agbru/rangecalc/internal/ui"
)

// CLIProgressReporter shows a spinner and progress bar while variants run.
type CLIProgressReporter struct{}

var _ orchestration.ProgressReporter = CLIProgressReporter{}

// DisplayProgress calls the package-level DisplayProgress.
func (CLIProgressReporter) DisplayProgress(wg *sync.WaitGroup, progressChan <-chan orchestration.ProgressUpdate, numVariants int, out io.Writer) {
	DisplayProgress(wg, progressChan, numVariants, out)
}

// CLIColorProvider supplies the active theme's colors to the error handler.
type CLIColorProvider struct{}

var _ apperrors.ColorProvider = CLIColorProvider{}

func (CLIColorProvider) Red() string    { return ui.ColorRed() }
func (CLIColorProvider) Yellow() string { return ui.ColorYellow() }
func (CLIColorProvider) Reset() string  { return ui.ColorReset() }

// CLIResultPresenter renders results for the terminal.
type CLIResultPresenter struct{}

var _ orchestration.ResultPresenter = CLIResultPresenter{}

// PresentComparisonTable renders one row per variant.
func (CLIResultPresenter) PresentComparisonTable(results []orchestration.VariantResult, out io.Writer) {
	fmt.Fprintf(out, "\n--- Comparison Summary ---\n")
	fmt.Fprintln(out, RenderComparisonTable(results, ui.CurrentPalette()))
}

// PresentResult displays the agreed value of one reduction.
func (CLIResultPresenter) PresentResult(result orchestration.VariantResult, opts orchestration.PresentationOptions, out io.Writer) {
	DisplayResult(result, opts, out)
}

// HandleError prints err and returns its exit code.
func (CLIResultPresenter) HandleError(err error, duration time.Duration, out io.Writer) int {
	return apperrors.HandleCalculationError(err, duration, out, CLIColorProvider{})
}

// durationCell formats a duration, showing sub-microsecond runs explicitly.
func durationCell(d time.Duration) string {
	if d < time.Microsecond {
		return "< 1µs"
	}
	return format.FormatExecutionDuration(d)
}

// statusCell describes the outcome of one variant without colors, so the
// table can measure cell widths.
func statusCell(res orchestration.VariantResult) string {
	if res.Err != nil {
		return "Failure: " + res.Err.Error()
	}
	return fmt.Sprintf("Success (%d runs)", res.Runs)
}

// RenderComparisonTable renders the results as a bordered lipgloss table
// with the given palette.
func RenderComparisonTable(results []orchestration.VariantResult, p ui.Palette) string {
	headerStyle := lipgloss.NewStyle().Bold(true).Foreground(p.Accent).Padding(0, 1)
	cellStyle := lipgloss.NewStyle().Foreground(p.Text).Padding(0, 1)
	okStyle := cellStyle.Foreground(p.Success)
	failStyle := cellStyle.Foreground(p.Error)

	rows := make([][]string, 0, len(results))
	for _, res := range results {
		rows = append(rows, []string{res.Name, res.Op, durationCell(res.Duration), statusCell(res)})
	}

	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(p.Border)).
		Headers("Variant", "Op", "Best", "Status").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			if col == 3 && row >= 0 && row < len(results) {
				if results[row].Err != nil {
					return failStyle
				}
				return okStyle
			}
			return cellStyle
		})
	return t.String()
}

// QuietResultPresenter prints bare values for scripting. Errors go to
// ErrOut without colors; the comparison table is skipped.
type QuietResultPresenter struct {
	Out    io.Writer
	ErrOut io.Writer
	// Labeled prefixes each value with its reduction kind.
	Labeled bool
}

var _ orchestration.ResultPresenter = QuietResultPresenter{}

// PresentComparisonTable does nothing.
func (QuietResultPresenter) PresentComparisonTable([]orchestration.VariantResult, io.Writer) {}

// PresentResult prints the value on its own line.
func (q QuietResultPresenter) PresentResult(result orchestration.VariantResult, _ orchestration.PresentationOptions, _ io.Writer) {
	fmt.Fprintln(q.Out, FormatQuietResult(result.Op, result.Value, q.Labeled))
}

// HandleError prints err to ErrOut and returns its exit code.
func (q QuietResultPresenter) HandleError(err error, duration time.Duration, _ io.Writer) int {
	return apperrors.HandleCalculationError(err, duration, q.ErrOut, nil)
}
