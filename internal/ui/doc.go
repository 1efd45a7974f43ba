// Package ui holds the color themes shared by the CLI presenter, the
// comparison table and the dashboard. Plain output uses ANSI escape
// sequences from Theme; lipgloss rendering uses Palette.
package ui
