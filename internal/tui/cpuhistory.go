package tui

import (
	"math"
	"strings"
)

// cpuLevels are the sparkline glyphs from idle to saturated.
var cpuLevels = []rune("▁▂▃▄▅▆▇█")

// CPUHistory holds the CPU percentages sampled during one run, one per
// refresh tick, oldest first. Only the newest limit samples are kept.
type CPUHistory struct {
	samples []float64
	limit   int
}

// NewCPUHistory returns an empty history keeping at most limit samples.
func NewCPUHistory(limit int) *CPUHistory {
	return &CPUHistory{limit: max(limit, 1)}
}

// Record appends one sample clamped to [0, 100].
func (h *CPUHistory) Record(percent float64) {
	percent = math.Min(math.Max(percent, 0), 100)
	if len(h.samples) == h.limit {
		copy(h.samples, h.samples[1:])
		h.samples = h.samples[:h.limit-1]
	}
	h.samples = append(h.samples, percent)
}

// Samples returns a copy of the recorded samples.
func (h *CPUHistory) Samples() []float64 {
	return append([]float64(nil), h.samples...)
}

// Latest returns the newest sample, or 0 before the first tick.
func (h *CPUHistory) Latest() float64 {
	if len(h.samples) == 0 {
		return 0
	}
	return h.samples[len(h.samples)-1]
}

// Peak returns the highest sample of the run.
func (h *CPUHistory) Peak() float64 {
	var peak float64
	for _, v := range h.samples {
		peak = math.Max(peak, v)
	}
	return peak
}

// Clear drops every sample; a rerun starts a new history.
func (h *CPUHistory) Clear() {
	h.samples = h.samples[:0]
}

// Render draws the samples as a sparkline right-aligned in limit columns,
// so the line keeps its width while the run fills it.
func (h *CPUHistory) Render() string {
	var b strings.Builder
	b.WriteString(strings.Repeat(" ", h.limit-len(h.samples)))
	top := float64(len(cpuLevels) - 1)
	for _, v := range h.samples {
		b.WriteRune(cpuLevels[int(math.Round(v/100*top))])
	}
	return b.String()
}
