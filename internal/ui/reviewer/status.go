package reviewer

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/zjrosen/diffscope/internal/diff"
	"github.com/zjrosen/diffscope/internal/ui/styles"
)

var (
	statusErrStyle    = lipgloss.NewStyle().Foreground(styles.StatusErrorColor)
	statusViewedStyle = lipgloss.NewStyle().Foreground(styles.StatusSuccessColor)
	statusHintStyle   = lipgloss.NewStyle().Foreground(styles.TextMutedColor)

	indicatorAddedStyle    = lipgloss.NewStyle().Foreground(styles.DiffAdditionColor)
	indicatorDeletedStyle  = lipgloss.NewStyle().Foreground(styles.DiffDeletionColor)
	indicatorModifiedStyle = lipgloss.NewStyle().Foreground(styles.DiffHunkColor)
	indicatorBinaryStyle   = lipgloss.NewStyle().Foreground(styles.TextMutedColor)
	indicatorInvalidStyle  = lipgloss.NewStyle().Foreground(styles.StatusErrorColor)
)

// statusIndicator returns the single-character change marker for a
// record and its style.
func statusIndicator(rec diff.FileDiffRecord) (string, lipgloss.Style) {
	switch {
	case !rec.IsValid:
		return "!", indicatorInvalidStyle
	case rec.IsBinary:
		return "B", indicatorBinaryStyle
	case rec.IsNew():
		return "A", indicatorAddedStyle
	case rec.IsDeleted():
		return "D", indicatorDeletedStyle
	default:
		return "M", indicatorModifiedStyle
	}
}

// statusState carries everything the status bar shows.
type statusState struct {
	FileCount   int
	ViewedCount int
	Selected    int // 0-based; -1 when nothing selected
	Ref         string
	Loading     bool
	WordDiff    bool
	Err         error
}

// renderStatusBar renders the single-row footer.
func renderStatusBar(width int, st statusState) string {
	var left strings.Builder

	switch {
	case st.Loading:
		left.WriteString("loading…")
	case st.FileCount == 0:
		left.WriteString("no changes")
	default:
		left.WriteString(fmt.Sprintf("%d/%d files", st.Selected+1, st.FileCount))
		left.WriteString("  ")
		left.WriteString(statusViewedStyle.Render(fmt.Sprintf("%d viewed", st.ViewedCount)))
	}

	if st.Ref != "" {
		left.WriteString("  vs ")
		left.WriteString(st.Ref)
	}
	if st.WordDiff {
		left.WriteString(statusHintStyle.Render("  [w]ord-diff"))
	}
	if st.Err != nil {
		left.WriteString("  ")
		left.WriteString(statusErrStyle.Render(truncateErr(st.Err, width/2)))
	}

	right := statusHintStyle.Render("? help")

	bar := left.String()
	gap := width - lipgloss.Width(bar) - lipgloss.Width(right) - 2
	if gap < 1 {
		gap = 1
	}
	return styles.StatusBarStyle.Render(bar + strings.Repeat(" ", gap) + right)
}

func truncateErr(err error, width int) string {
	if width < 10 {
		width = 10
	}
	msg := strings.ReplaceAll(err.Error(), "\n", " ")
	return runewidth.Truncate(msg, width, "…")
}
