// Package overlay composites modal content over a rendered view without
// clearing the screen underneath.
package overlay

import (
	"strings"

	"github.com/charmbracelet/x/ansi"
)

// Place centers fg over bg inside a width x height viewport. Both strings
// may contain ANSI escape sequences; the background is sliced around the
// foreground with ANSI-aware truncation so styling on both sides survives.
func Place(width, height int, fg, bg string) string {
	fgLines := strings.Split(fg, "\n")
	bgLines := strings.Split(bg, "\n")
	for len(bgLines) < height {
		bgLines = append(bgLines, strings.Repeat(" ", width))
	}

	fgWidth := 0
	for _, line := range fgLines {
		if w := ansi.StringWidth(line); w > fgWidth {
			fgWidth = w
		}
	}
	left := max(0, (width-fgWidth)/2)
	top := max(0, (height-len(fgLines))/2)

	for i, fgLine := range fgLines {
		row := top + i
		if row >= len(bgLines) {
			break
		}
		bgLines[row] = spliceLine(bgLines[row], fgLine, left)
	}
	return strings.Join(bgLines, "\n")
}

// spliceLine overwrites one background line with fgLine starting at column x,
// keeping whatever background extends past the foreground's right edge.
func spliceLine(bgLine, fgLine string, x int) string {
	prefix := ansi.Truncate(bgLine, x, "")
	if pad := x - ansi.StringWidth(prefix); pad > 0 {
		prefix += strings.Repeat(" ", pad)
	}

	end := x + ansi.StringWidth(fgLine)
	var suffix string
	if end < ansi.StringWidth(bgLine) {
		suffix = ansi.TruncateLeft(bgLine, end, "")
	}
	return prefix + fgLine + suffix
}
