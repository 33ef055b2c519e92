package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/probegate/probegate/internal/models"
)

// Severity colors
var (
	colorCritical = lipgloss.Color("#FF0000")
	colorHigh     = lipgloss.Color("#FF8800")
	colorMedium   = lipgloss.Color("#FFFF00")
	colorLow      = lipgloss.Color("#00FF00")
	colorInfo     = lipgloss.Color("#00BFFF")
	colorMuted    = lipgloss.Color("#888888")
	colorBorder   = lipgloss.Color("#444444")
)

// Panel styles
var (
	styleHeader = lipgloss.NewStyle().
			Bold(true).
			Padding(0, 1).
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(colorBorder)

	styleFooter = lipgloss.NewStyle().
			Foreground(colorMuted).
			Padding(0, 1)
)

// severityStyle returns the lipgloss style for a severity level.
func severityStyle(severity models.Severity) lipgloss.Style {
	switch severity {
	case models.SeverityCritical:
		return lipgloss.NewStyle().Foreground(colorCritical).Bold(true)
	case models.SeverityHigh:
		return lipgloss.NewStyle().Foreground(colorHigh).Bold(true)
	case models.SeverityMedium:
		return lipgloss.NewStyle().Foreground(colorMedium)
	case models.SeverityLow:
		return lipgloss.NewStyle().Foreground(colorLow)
	case models.SeverityInfo:
		return lipgloss.NewStyle().Foreground(colorInfo)
	default:
		return lipgloss.NewStyle()
	}
}

// statusStyle returns the lipgloss style for a scan lifecycle state.
func statusStyle(status models.Status) lipgloss.Style {
	switch status {
	case models.StatusCompleted:
		return lipgloss.NewStyle().Foreground(colorLow).Bold(true)
	case models.StatusFailed:
		return lipgloss.NewStyle().Foreground(colorCritical).Bold(true)
	case models.StatusPaused:
		return lipgloss.NewStyle().Foreground(colorHigh).Bold(true)
	case models.StatusRunning:
		return lipgloss.NewStyle().Foreground(colorInfo)
	default:
		return lipgloss.NewStyle().Foreground(colorMuted)
	}
}
