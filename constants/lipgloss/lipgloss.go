package lipgloss

import "github.com/charmbracelet/lipgloss"

var (
	Red     = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF6B6B"))
	Green   = lipgloss.NewStyle().Foreground(lipgloss.Color("#69DB7C"))
	Yellow  = lipgloss.NewStyle().Foreground(lipgloss.Color("#FFD43B"))
	BlueSky = lipgloss.NewStyle().Foreground(lipgloss.Color("#74C0FC"))
	Gray    = lipgloss.NewStyle().Foreground(lipgloss.Color("#868E96"))
	Info    = lipgloss.NewStyle().Foreground(lipgloss.Color("#4DABF7")).Bold(true)
	Title   = lipgloss.NewStyle().Foreground(lipgloss.Color("#B197FC")).Bold(true)

	// BoxStyle frames short informational blocks such as the menu and token usage.
	BoxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#4DABF7")).
			Padding(0, 1)
)
