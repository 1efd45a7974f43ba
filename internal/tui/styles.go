package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/agbru/rangecalc/internal/ui"
)

// Style variables for the dashboard, rebuilt from the ui palette by
// initTUIStyles.
var (
	panelStyle         lipgloss.Style
	titleStyle         lipgloss.Style
	infoStyle          lipgloss.Style
	elapsedStyle       lipgloss.Style
	valueStyle         lipgloss.Style
	errorStyle         lipgloss.Style
	statusRunningStyle lipgloss.Style
	statusDoneStyle    lipgloss.Style
	statusErrorStyle   lipgloss.Style
	cpuSparklineStyle  lipgloss.Style
)

func init() {
	initTUIStyles()
}

// initTUIStyles rebuilds all styles from the current ui palette.
// Run calls it again after the app has selected a theme.
func initTUIStyles() {
	p := ui.CurrentPalette()

	panelStyle = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(p.Border).
		Foreground(p.Text).
		Padding(0, 1)

	titleStyle = lipgloss.NewStyle().
		Bold(true).
		Foreground(p.Accent)

	infoStyle = lipgloss.NewStyle().
		Foreground(p.Dim)

	elapsedStyle = lipgloss.NewStyle().
		Foreground(p.Accent)

	valueStyle = lipgloss.NewStyle().
		Foreground(p.Success)

	errorStyle = lipgloss.NewStyle().
		Foreground(p.Error)

	statusRunningStyle = lipgloss.NewStyle().
		Foreground(p.Success).
		Bold(true)

	statusDoneStyle = lipgloss.NewStyle().
		Foreground(p.Accent).
		Bold(true)

	statusErrorStyle = lipgloss.NewStyle().
		Foreground(p.Error).
		Bold(true)

	cpuSparklineStyle = lipgloss.NewStyle().
		Foreground(p.Accent)
}
