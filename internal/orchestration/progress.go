package orchestration

import (
	"time"

	"github.com/agbru/rangecalc/internal/format"
)

// ProgressAggregator folds per-variant progress updates into an average
// and an ETA. The CLI and the dashboard share it.
type ProgressAggregator struct {
	state       *format.ProgressWithETA
	numVariants int
}

// NewProgressAggregator returns nil when numVariants <= 0.
func NewProgressAggregator(numVariants int) *ProgressAggregator {
	if numVariants <= 0 {
		return nil
	}
	return &ProgressAggregator{
		state:       format.NewProgressWithETA(numVariants),
		numVariants: numVariants,
	}
}

// AggregatedProgress is the state after one update.
type AggregatedProgress struct {
	VariantIndex    int
	Value           float64
	AverageProgress float64
	ETA             time.Duration
}

// Update applies one progress update.
func (a *ProgressAggregator) Update(update ProgressUpdate) AggregatedProgress {
	avg, eta := a.state.UpdateWithETA(update.VariantIndex, update.Value)
	return AggregatedProgress{
		VariantIndex:    update.VariantIndex,
		Value:           update.Value,
		AverageProgress: avg,
		ETA:             eta,
	}
}

// CalculateAverage returns the current average without updating.
func (a *ProgressAggregator) CalculateAverage() float64 {
	return a.state.CalculateAverage()
}

// GetETA returns the current ETA without updating.
func (a *ProgressAggregator) GetETA() time.Duration {
	return a.state.GetETA()
}

// NumVariants returns the number of tracked variants.
func (a *ProgressAggregator) NumVariants() int {
	return a.numVariants
}

// IsMultiVariant reports whether more than one variant is tracked.
func (a *ProgressAggregator) IsMultiVariant() bool {
	return a.numVariants > 1
}

// DrainChannel discards every update until the channel is closed.
func DrainChannel(progressChan <-chan ProgressUpdate) {
	for range progressChan {
	}
}
