package display

import "github.com/charmbracelet/lipgloss"

// ── Styles ───────────────────────────────────────────────────────

var (
	// BannerStyle is the muted slate of the startup banner.
	BannerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#94a3b8"))

	headingStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#bbf7d0")).
			Bold(true)

	primaryStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#d4d4d8"))

	secondaryStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#71717a"))

	// Soft coral, struck through.
	removedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#fca5a5")).
			Strikethrough(true)

	// Soft mint.
	addedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#86efac"))

	decreaseStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#fca5a5"))

	// Amber.
	modifiedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#fde68a"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#fca5a5")).
			Bold(true)

	cursorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#0f172a")).
			Background(lipgloss.Color("#94a3b8"))

	promptStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#94a3b8"))
)
