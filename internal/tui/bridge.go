package tui

import (
	"io"
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	apperrors "github.com/agbru/rangecalc/internal/errors"
	"github.com/agbru/rangecalc/internal/orchestration"
)

// sender is the part of *tea.Program the bridge uses.
type sender interface {
	Send(msg tea.Msg)
}

// programRef is a shared reference to the running program. bubbletea
// copies the model on every Update, so the bridge holds a pointer that
// survives the copies.
type programRef struct {
	mu      sync.RWMutex
	program sender
}

// SetProgram sets the program reference (thread-safe).
func (r *programRef) SetProgram(p sender) {
	r.mu.Lock()
	r.program = p
	r.mu.Unlock()
}

// Send forwards msg to the program. It is a no-op before SetProgram.
func (r *programRef) Send(msg tea.Msg) {
	r.mu.RLock()
	p := r.program
	r.mu.RUnlock()
	if p != nil {
		p.Send(msg)
	}
}

// TUIProgressReporter forwards progress updates as ProgressMsg.
type TUIProgressReporter struct {
	ref        *programRef
	generation uint64
}

var _ orchestration.ProgressReporter = (*TUIProgressReporter)(nil)

// DisplayProgress drains the progress channel and sends ProgressMsg to the
// dashboard.
func (t *TUIProgressReporter) DisplayProgress(wg *sync.WaitGroup, progressChan <-chan orchestration.ProgressUpdate, numVariants int, _ io.Writer) {
	defer wg.Done()

	agg := orchestration.NewProgressAggregator(numVariants)
	if agg == nil {
		orchestration.DrainChannel(progressChan)
		return
	}
	for update := range progressChan {
		ap := agg.Update(update)
		t.ref.Send(ProgressMsg{Generation: t.generation, AverageProgress: ap.AverageProgress, ETA: ap.ETA})
	}
}

// TUIResultPresenter sends results to the dashboard instead of writing
// them.
type TUIResultPresenter struct {
	ref        *programRef
	generation uint64
}

var _ orchestration.ResultPresenter = (*TUIResultPresenter)(nil)

// PresentComparisonTable sends every result.
func (t *TUIResultPresenter) PresentComparisonTable(results []orchestration.VariantResult, _ io.Writer) {
	copied := append([]orchestration.VariantResult(nil), results...)
	t.ref.Send(ResultsMsg{Generation: t.generation, Results: copied})
}

// PresentResult sends the fastest result of one reduction.
func (t *TUIResultPresenter) PresentResult(result orchestration.VariantResult, opts orchestration.PresentationOptions, _ io.Writer) {
	t.ref.Send(FinalResultMsg{Generation: t.generation, Result: result, N: opts.N})
}

// HandleError sends the error and returns its exit code.
func (t *TUIResultPresenter) HandleError(err error, duration time.Duration, _ io.Writer) int {
	if err != nil {
		t.ref.Send(ErrorMsg{Generation: t.generation, Err: err})
	}
	return apperrors.HandleCalculationError(err, duration, io.Discard, nil)
}
