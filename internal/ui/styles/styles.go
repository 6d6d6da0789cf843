// Package styles contains Lip Gloss style definitions.
package styles

import "github.com/charmbracelet/lipgloss"

var (
	// Semantic color names - Text hierarchy
	TextPrimaryColor   = lipgloss.AdaptiveColor{Light: "#1A1A1A", Dark: "#CCCCCC"} // Main/primary text
	TextSecondaryColor = lipgloss.AdaptiveColor{Light: "#555555", Dark: "#BBBBBB"} // File paths, secondary info
	TextMutedColor     = lipgloss.AdaptiveColor{Light: "#999999", Dark: "#696969"} // Hints, help text, gutters

	// Semantic color names - Border
	BorderDefaultColor = lipgloss.AdaptiveColor{Light: "#D9DCCF", Dark: "#696969"} // Card borders
	BorderFocusColor   = lipgloss.AdaptiveColor{Light: "#54A0FF", Dark: "#54A0FF"} // Selected card border

	// Semantic color names - Status
	StatusSuccessColor = lipgloss.AdaptiveColor{Light: "#43BF6D", Dark: "#73F59F"} // Viewed checkmarks
	StatusWarningColor = lipgloss.AdaptiveColor{Light: "#FECA57", Dark: "#FECA57"} // Untracked, stale
	StatusErrorColor   = lipgloss.AdaptiveColor{Light: "#FF6B6B", Dark: "#FF8787"} // Errors, degraded cards

	// Diff line colors
	DiffAdditionColor = lipgloss.AdaptiveColor{Light: "#22863A", Dark: "#85E89D"} // + lines
	DiffDeletionColor = lipgloss.AdaptiveColor{Light: "#B31D28", Dark: "#F97583"} // - lines
	DiffContextColor  = lipgloss.AdaptiveColor{Light: "#444444", Dark: "#A0A0A0"} // unchanged lines
	DiffHunkColor     = lipgloss.AdaptiveColor{Light: "#6F42C1", Dark: "#B392F0"} // @@ headers, modified markers

	// Word-level highlight backgrounds for changed segments within a line
	DiffAdditionBgColor = lipgloss.AdaptiveColor{Light: "#ACF2BD", Dark: "#1C4428"}
	DiffDeletionBgColor = lipgloss.AdaptiveColor{Light: "#FDB8C0", Dark: "#542426"}

	// Selection background for the focused file header
	SelectionBackgroundColor = lipgloss.AdaptiveColor{Light: "#E8E8E8", Dark: "#2D3436"}

	// Status bar
	StatusBarStyle = lipgloss.NewStyle().
			Foreground(TextSecondaryColor).
			Padding(0, 1)

	// Error display
	ErrorStyle = lipgloss.NewStyle().
			Foreground(StatusErrorColor).
			Bold(true).
			Padding(1, 2)

	// Loading spinner color
	SpinnerColor = lipgloss.AdaptiveColor{Light: "#874BFD", Dark: "#FFF"}
)

// ForceMode pins all adaptive colors to one side of their palette.
// mode is "light" or "dark"; anything else leaves terminal detection
// in charge.
func ForceMode(mode string) {
	var pick func(c *lipgloss.AdaptiveColor)
	switch mode {
	case "light":
		pick = func(c *lipgloss.AdaptiveColor) { c.Dark = c.Light }
	case "dark":
		pick = func(c *lipgloss.AdaptiveColor) { c.Light = c.Dark }
	default:
		return
	}

	for _, c := range []*lipgloss.AdaptiveColor{
		&TextPrimaryColor, &TextSecondaryColor, &TextMutedColor,
		&BorderDefaultColor, &BorderFocusColor,
		&StatusSuccessColor, &StatusWarningColor, &StatusErrorColor,
		&DiffAdditionColor, &DiffDeletionColor, &DiffContextColor, &DiffHunkColor,
		&DiffAdditionBgColor, &DiffDeletionBgColor,
		&SelectionBackgroundColor, &SpinnerColor,
	} {
		pick(c)
	}

	// Styles captured colors by value; rebuild the ones that embed them.
	StatusBarStyle = lipgloss.NewStyle().Foreground(TextSecondaryColor).Padding(0, 1)
	ErrorStyle = lipgloss.NewStyle().Foreground(StatusErrorColor).Bold(true).Padding(1, 2)
}
