package ui

import "github.com/charmbracelet/lipgloss"

// --- UI Styles ---
var (
	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#8942E1"))
	subtleStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	errorStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#EF4444"))
	dividerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
)
