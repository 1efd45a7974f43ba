package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/agbru/rangecalc/internal/format"
)

// HeaderModel renders the top bar: title, version, run parameters and
// elapsed time.
type HeaderModel struct {
	startTime time.Time
	endTime   time.Time
	version   string
	info      string
	width     int
}

// NewHeaderModel creates a new header. info describes the run.
func NewHeaderModel(version, info string) HeaderModel {
	return HeaderModel{
		startTime: time.Now(),
		version:   version,
		info:      info,
	}
}

// SetDone freezes the elapsed timer at the current time.
func (h *HeaderModel) SetDone() {
	h.endTime = time.Now()
}

// Reset restarts the elapsed timer.
func (h *HeaderModel) Reset() {
	h.startTime = time.Now()
	h.endTime = time.Time{}
}

// SetWidth updates the available width.
func (h *HeaderModel) SetWidth(w int) {
	h.width = w
}

// Elapsed returns the time since the start, frozen once done.
func (h HeaderModel) Elapsed() time.Duration {
	if !h.endTime.IsZero() {
		return h.endTime.Sub(h.startTime)
	}
	return time.Since(h.startTime)
}

// View renders the header.
func (h HeaderModel) View() string {
	titleText := "rangecalc"
	if h.version != "" && h.version != "dev" {
		titleText += " " + h.version
	}
	pipe := infoStyle.Render(" | ")
	row := titleStyle.Render(titleText) + pipe + infoStyle.Render(h.info) + pipe +
		elapsedStyle.Render(fmt.Sprintf("Elapsed: %s", format.FormatExecutionDuration(h.Elapsed())))

	if gap := h.width - lipgloss.Width(row); gap > 0 {
		row += strings.Repeat(" ", gap)
	}
	return row
}
