package reviewer

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/zjrosen/diffscope/internal/ui/styles"
)

// Full-file overlay styles (package-level to avoid recreating each render).
var (
	fileViewBoxStyle = lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(styles.BorderDefaultColor).
				Padding(0, 1)

	fileViewTitleStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(styles.TextPrimaryColor)

	fileViewNumStyle = lipgloss.NewStyle().
				Foreground(styles.TextMutedColor)

	fileViewFooterStyle = lipgloss.NewStyle().
				Foreground(styles.TextMutedColor)
)

// renderFileView renders the working-tree content of the file shown in
// the full-file overlay, clipped to the viewport.
func (m Model) renderFileView() string {
	content := m.contents[m.fileView]

	width := m.width * 3 / 4
	if width < 40 {
		width = min(40, m.width-4)
	}
	maxLines := m.height - 6
	if maxLines < 1 {
		maxLines = 1
	}

	lines := strings.Split(strings.TrimRight(content, "\n"), "\n")
	total := len(lines)
	if len(lines) > maxLines {
		lines = lines[:maxLines]
	}

	numWidth := len(fmt.Sprintf("%d", total))
	var b strings.Builder
	b.WriteString(fileViewTitleStyle.Render(m.fileView))
	for i, line := range lines {
		b.WriteString("\n")
		num := fileViewNumStyle.Render(fmt.Sprintf("%*d ", numWidth, i+1))
		b.WriteString(ansi.Truncate(num+line, width, "…"))
	}
	if len(lines) < total {
		b.WriteString("\n")
		b.WriteString(fileViewFooterStyle.Render(fmt.Sprintf("… %d more lines", total-len(lines))))
	}
	b.WriteString("\n")
	b.WriteString(fileViewFooterStyle.Render("Press f or Esc to close"))

	return fileViewBoxStyle.Width(width).Render(b.String())
}
