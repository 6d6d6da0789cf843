package reviewer

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/zjrosen/diffscope/internal/ui/styles"
)

const (
	scrollbarThumbChar = "█"
	scrollbarTrackChar = "░"
)

var (
	scrollbarTrackStyle = lipgloss.NewStyle().Foreground(styles.TextMutedColor)
	scrollbarThumbStyle = lipgloss.NewStyle().Foreground(styles.TextSecondaryColor)
)

// scrollThumbBounds returns the start row and height of the thumb for
// a viewport over totalRows of content.
// thumbHeight = max(1, viewport²/total); position scales linearly over
// the scrollable track.
func scrollThumbBounds(totalRows, viewportRows, offset int) (start, height int) {
	if totalRows <= 0 || viewportRows <= 0 {
		return 0, 0
	}
	if totalRows <= viewportRows {
		return 0, viewportRows
	}

	height = max(1, viewportRows*viewportRows/totalRows)

	maxOffset := totalRows - viewportRows
	track := viewportRows - height
	if maxOffset <= 0 || track <= 0 {
		return 0, height
	}

	start = track * offset / maxOffset
	start = max(0, min(start, viewportRows-height))
	return start, height
}

// renderScrollbar renders a one-column scrollbar as viewportRows lines
// joined by newlines. Content that fits produces a blank column so the
// layout doesn't shift.
func renderScrollbar(totalRows, viewportRows, offset int) string {
	if viewportRows <= 0 || totalRows <= 0 {
		return ""
	}

	lines := make([]string, viewportRows)
	if totalRows <= viewportRows {
		for i := range lines {
			lines[i] = " "
		}
		return strings.Join(lines, "\n")
	}

	thumbStart, thumbHeight := scrollThumbBounds(totalRows, viewportRows, offset)
	for row := range lines {
		if row >= thumbStart && row < thumbStart+thumbHeight {
			lines[row] = scrollbarThumbStyle.Render(scrollbarThumbChar)
		} else {
			lines[row] = scrollbarTrackStyle.Render(scrollbarTrackChar)
		}
	}
	return strings.Join(lines, "\n")
}
