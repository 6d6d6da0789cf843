package reviewer

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/zjrosen/diffscope/internal/diff"
	"github.com/zjrosen/diffscope/internal/log"
	"github.com/zjrosen/diffscope/internal/review"
	"github.com/zjrosen/diffscope/internal/ui/markdown"
	"github.com/zjrosen/diffscope/internal/ui/styles"
)

var summaryBoxStyle = lipgloss.NewStyle().
	Border(lipgloss.RoundedBorder()).
	BorderForeground(styles.BorderDefaultColor).
	Padding(0, 2)

// buildSummaryMarkdown composes the review progress report.
func buildSummaryMarkdown(records []diff.FileDiffRecord, tracker *review.Tracker) string {
	var viewed, unviewed []diff.FileDiffRecord
	additions, deletions := 0, 0
	for _, rec := range records {
		additions += rec.Additions
		deletions += rec.Deletions
		if tracker.IsViewed(rec.Key, rec.DiffText) {
			viewed = append(viewed, rec)
		} else {
			unviewed = append(unviewed, rec)
		}
	}

	var b strings.Builder
	b.WriteString("# Review Summary\n\n")
	fmt.Fprintf(&b, "**%d of %d** files viewed · +%d −%d\n\n",
		len(viewed), len(records), additions, deletions)

	if len(unviewed) > 0 {
		b.WriteString("## Remaining\n\n")
		for _, rec := range unviewed {
			fmt.Fprintf(&b, "- %s (+%d −%d)\n", rec.DisplayPath(), rec.Additions, rec.Deletions)
		}
	} else if len(records) > 0 {
		b.WriteString("All files viewed.\n")
	}
	return b.String()
}

// renderSummary renders the summary overlay box. Markdown render
// failures fall back to the plain text.
func (m Model) renderSummary() string {
	text := buildSummaryMarkdown(m.records, m.tracker)

	width := m.width * 2 / 3
	if width < 40 {
		width = min(40, m.width-4)
	}

	body := text
	if r, err := markdown.New(width, m.cfg.UI.MarkdownStyle); err == nil {
		if rendered, rerr := r.Render(text); rerr == nil {
			body = rendered
		} else {
			log.ErrorErr(log.CatUI, "Summary markdown render failed", rerr)
		}
	}

	return summaryBoxStyle.Width(width).Render(strings.TrimRight(body, "\n"))
}
