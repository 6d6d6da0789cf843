package reviewer

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/zjrosen/diffscope/internal/ui/styles"
)

// Log-tail overlay styles.
var (
	logTailBoxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(styles.BorderDefaultColor).
			Padding(0, 1)

	logTailTitleStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(styles.TextPrimaryColor)

	logTailLineStyle = lipgloss.NewStyle().
				Foreground(styles.TextSecondaryColor)

	logTailFooterStyle = lipgloss.NewStyle().
				Foreground(styles.TextMutedColor)
)

// renderLogTail renders the debug log overlay with the most recent
// entries at the bottom.
func (m Model) renderLogTail() string {
	width := m.width * 3 / 4
	if width < 40 {
		width = min(40, m.width-4)
	}
	maxLines := m.height - 6
	if maxLines < 1 {
		maxLines = 1
	}

	tail := m.logTail
	if len(tail) > maxLines {
		tail = tail[len(tail)-maxLines:]
	}

	var b strings.Builder
	b.WriteString(logTailTitleStyle.Render("Log"))
	if len(tail) == 0 {
		b.WriteString("\n")
		b.WriteString(logTailFooterStyle.Render("No log entries yet"))
	}
	for _, line := range tail {
		b.WriteString("\n")
		b.WriteString(logTailLineStyle.Render(ansi.Truncate(line, width, "…")))
	}
	b.WriteString("\n")
	b.WriteString(logTailFooterStyle.Render("Press ctrl+l or Esc to close"))

	return logTailBoxStyle.Width(width).Render(b.String())
}
