package tui

import (
	"time"

	"github.com/agbru/rangecalc/internal/orchestration"
)

// Messages sent by a run carry its generation so the model can drop those
// of a run that was replaced by a rerun.

// ProgressMsg reports the aggregated progress of the running variants.
type ProgressMsg struct {
	Generation      uint64
	AverageProgress float64
	ETA             time.Duration
}

// ResultsMsg carries every variant result of a finished run.
type ResultsMsg struct {
	Generation uint64
	Results    []orchestration.VariantResult
}

// FinalResultMsg carries the fastest successful result of one reduction.
type FinalResultMsg struct {
	Generation uint64
	Result     orchestration.VariantResult
	N          int64
}

// ErrorMsg reports a reduction in which no variant succeeded.
type ErrorMsg struct {
	Generation uint64
	Err        error
}

// RunCompleteMsg ends a run with its exit code.
type RunCompleteMsg struct {
	Generation uint64
	ExitCode   int
}

// ContextCancelledMsg is sent when the context of a run is done.
type ContextCancelledMsg struct {
	Generation uint64
	Err        error
}

// SysStatsMsg carries one CPU and memory sample.
type SysStatsMsg struct {
	CPUPercent float64
	MemPercent float64
}

// TickMsg drives periodic sampling.
type TickMsg time.Time
