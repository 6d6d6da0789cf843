package reviewer

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	"github.com/mattn/go-runewidth"

	"github.com/zjrosen/diffscope/internal/diff"
	"github.com/zjrosen/diffscope/internal/log"
	"github.com/zjrosen/diffscope/internal/ui/styles"
)

// Package-level styles for hot path rendering to avoid allocations per frame.
var (
	lineAddStyle     = lipgloss.NewStyle().Foreground(styles.DiffAdditionColor)
	lineDelStyle     = lipgloss.NewStyle().Foreground(styles.DiffDeletionColor)
	lineContextStyle = lipgloss.NewStyle().Foreground(styles.DiffContextColor)
	lineHunkStyle    = lipgloss.NewStyle().Foreground(styles.DiffHunkColor)
	lineGutterStyle  = lipgloss.NewStyle().Foreground(styles.TextMutedColor)

	// Word-diff segment styles layer a background under the line color.
	wordAddStyle = lipgloss.NewStyle().
			Foreground(styles.DiffAdditionColor).
			Background(styles.DiffAdditionBgColor)
	wordDelStyle = lipgloss.NewStyle().
			Foreground(styles.DiffDeletionColor).
			Background(styles.DiffDeletionBgColor)

	cardPathStyle = lipgloss.NewStyle().
			Foreground(styles.TextPrimaryColor).
			Bold(true)
	cardCountsAddStyle = lipgloss.NewStyle().Foreground(styles.DiffAdditionColor)
	cardCountsDelStyle = lipgloss.NewStyle().Foreground(styles.DiffDeletionColor)
	cardViewedStyle    = lipgloss.NewStyle().Foreground(styles.StatusSuccessColor)
	cardMutedStyle     = lipgloss.NewStyle().Foreground(styles.TextMutedColor)
	cardDegradedStyle  = lipgloss.NewStyle().Foreground(styles.StatusErrorColor)

	cardBorderStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(styles.BorderDefaultColor).
			Padding(0, 1)
	cardBorderSelectedStyle = lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(styles.BorderFocusColor).
				Padding(0, 1)
)

const viewedMark = "✓"

// cardContext carries the per-card render inputs.
type cardContext struct {
	width    int // total card width including border
	expanded bool
	selected bool
	viewed   bool
	wordDiff bool
}

// renderCardSafe renders one file card, catching panics so a single
// pathological file degrades to raw text instead of crashing the
// whole screen.
func (m *Model) renderCardSafe(rec diff.FileDiffRecord, cc cardContext) (lines []string) {
	defer func() {
		if r := recover(); r != nil {
			log.Error(log.CatUI, "Card render panicked, falling back to raw diff",
				"key", rec.Key, "panic", fmt.Sprint(r))
			lines = m.renderRawFallback(rec, cc)
		}
	}()
	return m.renderCard(rec, cc)
}

func (m *Model) renderCard(rec diff.FileDiffRecord, cc cardContext) []string {
	body := []string{m.renderCardHeader(rec, cc)}

	if cc.expanded {
		body = append(body, m.renderCardBody(rec, cc)...)
	}

	return boxCard(body, cc)
}

// renderCardBody renders the expanded content under the header.
func (m *Model) renderCardBody(rec diff.FileDiffRecord, cc cardContext) []string {
	inner := innerWidth(cc.width)

	switch {
	case rec.IsBinary:
		return []string{cardMutedStyle.Render("Binary file not shown")}

	case !rec.IsValid:
		// Malformed block: show it raw rather than hide it. The
		// notice keeps the degradation visible and scoped to this
		// file.
		lines := []string{cardDegradedStyle.Render("Malformed diff block, showing raw text")}
		return append(lines, renderRawLines(rec.DiffText, inner)...)
	}

	p := m.parsedFor(rec)
	if p.file == nil {
		lines := []string{cardDegradedStyle.Render("Could not parse diff, showing raw text")}
		return append(lines, renderRawLines(rec.DiffText, inner)...)
	}

	wd := p.wd
	if !cc.wordDiff {
		wd = nil
	}
	return renderHunks(p.file, wd, inner)
}

// renderCardHeader builds the one-line summary: status, path, counts,
// viewed mark.
func (m *Model) renderCardHeader(rec diff.FileDiffRecord, cc cardContext) string {
	inner := innerWidth(cc.width)

	indicator, indicatorStyle := statusIndicator(rec)
	counts := ""
	if !rec.IsBinary {
		counts = cardCountsAddStyle.Render(fmt.Sprintf("+%d", rec.Additions)) +
			" " + cardCountsDelStyle.Render(fmt.Sprintf("-%d", rec.Deletions))
	}

	viewed := " "
	if cc.viewed {
		viewed = cardViewedStyle.Render(viewedMark)
	}

	// Reserve room for indicator, counts, and the viewed mark.
	reserved := 2 + lipgloss.Width(counts) + 2
	pathWidth := inner - reserved
	if pathWidth < 8 {
		pathWidth = 8
	}
	path := runewidth.Truncate(rec.DisplayPath(), pathWidth, "…")

	header := indicatorStyle.Render(indicator) + " " +
		cardPathStyle.Render(path)
	gap := inner - lipgloss.Width(header) - lipgloss.Width(counts) - 2
	if gap < 1 {
		gap = 1
	}
	return header + strings.Repeat(" ", gap) + counts + " " + viewed
}

// renderHunks renders the parsed hunks with gutters and optional
// intraline highlighting.
func renderHunks(f *diff.File, wd *diff.WordDiff, width int) []string {
	var out []string
	for hi, hunk := range f.Hunks {
		for li, line := range hunk.Lines {
			if line.Type == diff.LineHunkHeader {
				out = append(out, ansi.Truncate(lineHunkStyle.Render(hunk.Header), width, "…"))
				continue
			}
			out = append(out, renderDiffLine(line, wd.SegmentsFor(hi, li, line.Type), width))
		}
	}
	return out
}

// renderDiffLine renders gutter + prefix + content for one line.
func renderDiffLine(line diff.Line, segments []diff.Segment, width int) string {
	var gutter string
	switch line.Type {
	case diff.LineAddition:
		gutter = fmt.Sprintf("     %4d ", line.NewLineNum)
	case diff.LineDeletion:
		gutter = fmt.Sprintf("%4d      ", line.OldLineNum)
	default:
		gutter = fmt.Sprintf("%4d %4d ", line.OldLineNum, line.NewLineNum)
	}

	var body string
	switch {
	case len(segments) > 0:
		body = renderSegments(line.Type, segments)
	case line.Type == diff.LineAddition:
		body = lineAddStyle.Render("+" + line.Content)
	case line.Type == diff.LineDeletion:
		body = lineDelStyle.Render("-" + line.Content)
	default:
		body = lineContextStyle.Render(" " + line.Content)
	}

	return ansi.Truncate(lineGutterStyle.Render(gutter)+body, width, "…")
}

// renderSegments renders a changed line with its word-diff segments,
// highlighting only the parts that differ.
func renderSegments(t diff.LineType, segments []diff.Segment) string {
	var base, highlight lipgloss.Style
	prefix := "+"
	if t == diff.LineDeletion {
		base, highlight = lineDelStyle, wordDelStyle
		prefix = "-"
	} else {
		base, highlight = lineAddStyle, wordAddStyle
	}

	var b strings.Builder
	b.WriteString(base.Render(prefix))
	for _, seg := range segments {
		if seg.Kind == diff.SegmentUnchanged {
			b.WriteString(base.Render(seg.Text))
		} else {
			b.WriteString(highlight.Render(seg.Text))
		}
	}
	return b.String()
}

// renderRawLines colorizes raw diff text by prefix only. Used for
// malformed blocks and as the panic fallback.
func renderRawLines(diffText string, width int) []string {
	rawLines := strings.Split(strings.TrimRight(diffText, "\n"), "\n")
	out := make([]string, 0, len(rawLines))
	for _, line := range rawLines {
		var styled string
		switch {
		case strings.HasPrefix(line, "@@"):
			styled = lineHunkStyle.Render(line)
		case strings.HasPrefix(line, "+"):
			styled = lineAddStyle.Render(line)
		case strings.HasPrefix(line, "-"):
			styled = lineDelStyle.Render(line)
		default:
			styled = cardMutedStyle.Render(line)
		}
		out = append(out, ansi.Truncate(styled, width, "…"))
	}
	return out
}

// renderRawFallback is the last-resort card body after a render panic.
func (m *Model) renderRawFallback(rec diff.FileDiffRecord, cc cardContext) []string {
	body := []string{
		m.renderCardHeader(rec, cc),
		cardDegradedStyle.Render("Render failed, showing raw diff"),
	}
	if cc.expanded {
		body = append(body, renderRawLines(rec.DiffText, innerWidth(cc.width))...)
	}
	return boxCard(body, cc)
}

// boxCard wraps content lines in the card border and returns the
// rendered lines.
func boxCard(body []string, cc cardContext) []string {
	style := cardBorderStyle
	if cc.selected {
		style = cardBorderSelectedStyle
	}
	contentWidth := cc.width - 2 // border columns
	if contentWidth < 4 {
		contentWidth = 4
	}
	rendered := style.Width(contentWidth).Render(strings.Join(body, "\n"))
	return strings.Split(rendered, "\n")
}

// innerWidth is the text width inside the card border and padding.
func innerWidth(cardWidth int) int {
	w := cardWidth - 4
	if w < 4 {
		w = 4
	}
	return w
}
