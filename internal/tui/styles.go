package tui

import "github.com/charmbracelet/lipgloss"

// Sauna Suites palette
var (
	ColorBgPrimary   = lipgloss.Color("#121212")
	ColorBgSecondary = lipgloss.Color("#1A1A1A")
	ColorBgHighlight = lipgloss.Color("#252525")

	ColorFgPrimary   = lipgloss.Color("#FFFFFF")
	ColorFgSecondary = lipgloss.Color("#D1D5DB")
	ColorFgMuted     = lipgloss.Color("#9CA3AF")

	ColorGold  = lipgloss.Color("#C19A6B")
	ColorGreen = lipgloss.Color("#98C379")
	ColorRed   = lipgloss.Color("#E06C75")

	ColorBorder = lipgloss.Color("#4A3D2E")
)

var (
	// Frame around every screen
	FrameStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ColorBorder).
			Padding(1, 4)

	TitleStyle = lipgloss.NewStyle().
			Foreground(ColorFgPrimary).
			Bold(true).
			MarginBottom(1)

	SubtitleStyle = lipgloss.NewStyle().
			Foreground(ColorFgSecondary)

	AccentStyle = lipgloss.NewStyle().
			Foreground(ColorGold).
			Bold(true)

	MutedStyle = lipgloss.NewStyle().
			Foreground(ColorFgMuted)

	// Selectable options
	OptionStyle = lipgloss.NewStyle().
			Foreground(ColorFgSecondary).
			PaddingLeft(2)

	OptionSelectedStyle = lipgloss.NewStyle().
				Foreground(ColorGold).
				Bold(true).
				PaddingLeft(0)

	// Circuit card on door access and confirmation screens
	CircuitCardStyle = lipgloss.NewStyle().
				Border(lipgloss.NormalBorder(), false, false, false, true).
				BorderForeground(ColorGold).
				PaddingLeft(1).
				MarginTop(1).
				MarginBottom(1)

	// Progress indicator
	ProgressDoneStyle = lipgloss.NewStyle().
				Foreground(ColorGold)

	ProgressCurrentStyle = lipgloss.NewStyle().
				Foreground(ColorFgPrimary).
				Bold(true)

	ProgressTodoStyle = lipgloss.NewStyle().
				Foreground(ColorFgMuted)

	// Room display
	ClockStyle = lipgloss.NewStyle().
			Foreground(ColorFgPrimary).
			Bold(true).
			MarginTop(1).
			MarginBottom(1)

	StatusRunningStyle = lipgloss.NewStyle().
				Foreground(ColorGreen).
				Bold(true)

	StatusIdleStyle = lipgloss.NewStyle().
			Foreground(ColorFgMuted)

	StatusBarStyle = lipgloss.NewStyle().
			Foreground(ColorFgMuted).
			PaddingLeft(1).
			PaddingRight(1)

	HelpKeyStyle = lipgloss.NewStyle().
			Foreground(ColorFgPrimary)

	HelpDescStyle = lipgloss.NewStyle().
			Foreground(ColorFgMuted)
)
