package reviewer

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/wordwrap"

	"github.com/zjrosen/diffscope/internal/ui/overlay"
	"github.com/zjrosen/diffscope/internal/ui/styles"
)

// View renders the review screen.
func (m Model) View() string {
	if m.width <= 0 || m.height <= 0 {
		return ""
	}

	var main string
	switch {
	case m.err != nil && len(m.records) == 0:
		main = m.renderError()
	case m.loading && len(m.records) == 0:
		main = m.renderPlaceholder("Loading diff…")
	case len(m.records) == 0:
		main = m.renderPlaceholder("No changes")
	default:
		main = m.renderCards()
	}

	if m.cfg.UI.ShowStatusBar {
		main += "\n" + m.statusBar()
	}

	if m.showHelp {
		return overlay.Place(m.width, m.height, renderHelp(m.keys), main)
	}
	if m.showSummary {
		return overlay.Place(m.width, m.height, m.renderSummary(), main)
	}
	if m.fileView != "" {
		return overlay.Place(m.width, m.height, m.renderFileView(), main)
	}
	if m.showLogs {
		return overlay.Place(m.width, m.height, m.renderLogTail(), main)
	}
	return main
}

// renderCards stitches the visible window of file cards into the
// viewport. Only cards the plan reports visible are rendered; their
// actual heights feed back into the plan for the next frame.
func (m Model) renderCards() string {
	viewport := m.contentHeight()
	cardWidth := m.cardWidth()
	top := m.plan.ScrollOffset()

	rows := make([]string, viewport)
	type measured struct {
		key    string
		height int
	}
	var measurements []measured

	for _, vc := range m.plan.Visible() {
		rec := m.records[vc.Index]
		lines := m.renderCardSafe(rec, cardContext{
			width:    cardWidth,
			expanded: m.plan.IsExpanded(rec.Key),
			selected: vc.Index == m.selected,
			viewed:   m.tracker.IsViewed(rec.Key, rec.DiffText),
			wordDiff: m.wordDiff,
		})

		if m.plan.IsExpanded(rec.Key) && len(lines) != vc.Height {
			measurements = append(measurements, measured{key: rec.Key, height: len(lines)})
		}

		for i, line := range lines {
			row := vc.Offset + i - top
			if row < 0 || row >= viewport {
				continue
			}
			rows[row] = line
		}
	}

	// Feed real heights back after the pass so offsets stay stable
	// within a single frame.
	for _, mm := range measurements {
		m.plan.SetMeasuredHeight(mm.key, mm.height)
	}

	content := strings.Join(rows, "\n")
	if !m.cfg.UI.ShowScrollbar {
		return content
	}
	return m.joinWithScrollbar(content, viewport)
}

// joinWithScrollbar attaches the scrollbar column to the card content.
func (m Model) joinWithScrollbar(content string, viewport int) string {
	bar := renderScrollbar(m.plan.TotalHeight(), viewport, m.plan.ScrollOffset())
	if bar == "" {
		return content
	}

	contentLines := strings.Split(content, "\n")
	barLines := strings.Split(bar, "\n")
	width := m.width - 1

	var b strings.Builder
	for i := range contentLines {
		line := contentLines[i]
		pad := width - lipgloss.Width(line)
		if pad > 0 {
			line += strings.Repeat(" ", pad)
		}
		b.WriteString(line)
		if i < len(barLines) {
			b.WriteString(barLines[i])
		}
		if i < len(contentLines)-1 {
			b.WriteString("\n")
		}
	}
	return b.String()
}

func (m Model) statusBar() string {
	selected := -1
	if len(m.records) > 0 {
		selected = m.selected
	}
	return renderStatusBar(m.width, statusState{
		FileCount:   len(m.records),
		ViewedCount: m.ViewedCount(),
		Selected:    selected,
		Ref:         m.cfg.Ref,
		Loading:     m.loading,
		WordDiff:    m.wordDiff,
		Err:         m.err,
	})
}

func (m Model) renderError() string {
	msg := wordwrap.String("Could not load diff: "+m.err.Error(), max(20, m.width*2/3))
	return lipgloss.Place(
		m.width, m.contentHeight(),
		lipgloss.Center, lipgloss.Center,
		styles.ErrorStyle.Render(msg+"\n\nPress r to retry"),
	)
}

func (m Model) renderPlaceholder(msg string) string {
	style := lipgloss.NewStyle().
		Foreground(styles.TextMutedColor).
		Width(m.width).
		Height(m.contentHeight()).
		Align(lipgloss.Center, lipgloss.Center)
	return style.Render(msg)
}

// cardWidth is the full width of one card, leaving the scrollbar
// column free when enabled.
func (m Model) cardWidth() int {
	w := m.width
	if m.cfg.UI.ShowScrollbar {
		w--
	}
	if w < 20 {
		w = 20
	}
	return w
}
