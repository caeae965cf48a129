package ui

import "github.com/charmbracelet/lipgloss"

// Color palette
var (
	colorCyan    = lipgloss.Color("#00E5FF") // primary highlight
	colorYellow  = lipgloss.Color("#FFB500") // warnings / RISKY
	colorGreen   = lipgloss.Color("#2AFFAA") // positive PnL / SAFE
	colorRed     = lipgloss.Color("#FF5555") // negative PnL / UNSAFE
	colorMuted   = lipgloss.Color("#6C7280") // muted text
	colorText    = lipgloss.Color("#ECEFF4") // primary text
	colorSubtext = lipgloss.Color("#B4BCC8") // secondary text
)

var (
	headerStyle = lipgloss.NewStyle().
			Foreground(colorCyan).
			Bold(true)

	balanceStyle = lipgloss.NewStyle().
			Foreground(colorText)

	mutedStyle = lipgloss.NewStyle().
			Foreground(colorMuted)

	subtextStyle = lipgloss.NewStyle().
			Foreground(colorSubtext)

	positiveStyle = lipgloss.NewStyle().
			Foreground(colorGreen)

	negativeStyle = lipgloss.NewStyle().
			Foreground(colorRed)

	statusStyle = lipgloss.NewStyle().
			Foreground(colorYellow)

	paneStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorMuted).
			Padding(0, 1)

	promptStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorCyan).
			Padding(0, 1)
)

// pnlStyle picks the color for a signed USD amount.
func pnlStyle(v float64) lipgloss.Style {
	if v < 0 {
		return negativeStyle
	}
	return positiveStyle
}

// verdictStyle picks the color for a health verdict label.
func verdictStyle(label string) lipgloss.Style {
	switch label {
	case "SAFE":
		return positiveStyle
	case "UNSAFE":
		return negativeStyle
	default:
		return statusStyle
	}
}
