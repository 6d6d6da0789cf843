// Package markdown provides styled markdown rendering for the TUI.
package markdown

import (
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
)

// noMarginStyle is a JSON style that removes document margins.
const noMarginStyle = `{
	"document": {
		"margin": 0,
		"block_prefix": "",
		"block_suffix": ""
	}
}`

// Renderer wraps glamour with diffscope-specific configuration.
type Renderer struct {
	renderer *glamour.TermRenderer
	width    int
}

// New creates a markdown renderer with the given width and style.
// style should be "dark", "light", or "auto". Defaults to "dark" if
// empty. "auto" is resolved here through lipgloss's cached background
// detection rather than glamour's WithAutoStyle(): WithAutoStyle()
// creates a new lipgloss renderer that queries the terminal with an
// OSC sequence, and the response leaks into the Bubble Tea input
// stream.
func New(width int, style string) (*Renderer, error) {
	switch style {
	case "":
		style = "dark"
	case "auto":
		if lipgloss.HasDarkBackground() {
			style = "dark"
		} else {
			style = "light"
		}
	}

	r, err := glamour.NewTermRenderer(
		glamour.WithStylePath(style),
		glamour.WithStylesFromJSONBytes([]byte(noMarginStyle)),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return nil, err
	}
	return &Renderer{renderer: r, width: width}, nil
}

// Width returns the configured word wrap width.
func (r *Renderer) Width() int {
	return r.width
}

// Render transforms markdown to styled terminal output.
func (r *Renderer) Render(markdown string) (string, error) {
	return r.renderer.Render(markdown)
}
