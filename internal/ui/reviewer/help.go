package reviewer

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/lipgloss"

	"github.com/zjrosen/diffscope/internal/keys"
	"github.com/zjrosen/diffscope/internal/ui/styles"
)

// Help styles (package-level to avoid recreating each render).
var (
	helpTitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(styles.TextPrimaryColor).
			PaddingLeft(2)

	helpDividerStyle = lipgloss.NewStyle().
				Foreground(styles.BorderDefaultColor)

	helpSectionStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(styles.TextPrimaryColor).
				MarginTop(1)

	helpKeyStyle = lipgloss.NewStyle().
			Foreground(styles.TextSecondaryColor).
			Width(11)

	helpDescStyle = lipgloss.NewStyle().
			Foreground(styles.TextMutedColor)

	helpBoxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(styles.BorderDefaultColor)

	helpContentStyle = lipgloss.NewStyle().
				Padding(0, 2)

	helpFooterStyle = lipgloss.NewStyle().
			Foreground(styles.TextMutedColor).
			MarginTop(1)
)

var helpSectionTitles = []string{"Navigation", "Review", "Cards", "External", "General"}

// renderHelp builds the help box from the keymap's full help groups.
func renderHelp(k keys.KeyMap) string {
	columnStyle := lipgloss.NewStyle().MarginRight(4)

	groups := k.FullHelp()
	columns := make([]string, 0, len(groups))
	for i, group := range groups {
		var col strings.Builder
		title := "Keys"
		if i < len(helpSectionTitles) {
			title = helpSectionTitles[i]
		}
		col.WriteString(helpSectionStyle.Render(title))
		col.WriteString("\n")
		for _, b := range group {
			col.WriteString(renderHelpBinding(b))
		}
		rendered := col.String()
		if i < len(groups)-1 {
			rendered = columnStyle.Render(rendered)
		}
		columns = append(columns, rendered)
	}

	joined := lipgloss.JoinHorizontal(lipgloss.Top, columns...)
	boxWidth := lipgloss.Width(joined) + 4

	var body strings.Builder
	body.WriteString(joined)
	body.WriteString("\n")
	body.WriteString(helpFooterStyle.Render("Press ? or Esc to close"))

	var content strings.Builder
	content.WriteString(helpTitleStyle.Render("Diffscope Help"))
	content.WriteString("\n")
	content.WriteString(helpDividerStyle.Render(strings.Repeat("─", boxWidth)))
	content.WriteString("\n")
	content.WriteString(helpContentStyle.Render(body.String()))

	return helpBoxStyle.Width(boxWidth).Render(content.String())
}

// renderHelpBinding renders a key.Binding as "key  description\n".
func renderHelpBinding(b key.Binding) string {
	help := b.Help()
	return helpKeyStyle.Render(help.Key) + helpDescStyle.Render(help.Desc) + "\n"
}
