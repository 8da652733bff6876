package ui

import "github.com/charmbracelet/lipgloss"

// ANSI colors read well on both light and dark terminals.
var (
	// TitleStyle is cyan for headings and the assistant label
	TitleStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("6")).Bold(true).MarginBottom(1)

	// UsageStyle is green for commands and the user label
	UsageStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))

	// DescStyle is gray for descriptions and status lines
	DescStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))

	// FlagStyle is yellow for flags and system notes
	FlagStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("3"))

	// RiskStyles color the DealSense risk column
	RiskStyles = map[string]lipgloss.Style{
		"Low":    lipgloss.NewStyle().Foreground(lipgloss.Color("2")),
		"Medium": lipgloss.NewStyle().Foreground(lipgloss.Color("3")),
		"High":   lipgloss.NewStyle().Foreground(lipgloss.Color("1")).Bold(true),
	}
)
