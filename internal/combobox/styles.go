package combobox

import (
	"github.com/charmbracelet/lipgloss"
)

// --- UI Styles ---
var (
	triggerStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("240"))
	triggerFocusStyle = triggerStyle.
				BorderForeground(lipgloss.Color("#8942E1"))
	popoverStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#8942E1"))
	placeholderStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	titleStyle       = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#8942E1"))
	subtleStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	dividerStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	activeRowStyle   = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color("#FFFFFF")).
				Background(lipgloss.Color("#2A2B3D"))
	rowStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	checkStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#10B981")).Bold(true)
)
