package reviewer

import tea "github.com/charmbracelet/bubbletea"

// App adapts Model to the tea.Model interface for program entry.
type App struct {
	Model
}

// NewApp wraps a review model for tea.NewProgram.
func NewApp(opts Options) App {
	return App{Model: New(opts)}
}

func (a App) Init() tea.Cmd {
	return a.Model.Init()
}

func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	m, cmd := a.Model.Update(msg)
	return App{Model: m}, cmd
}

func (a App) View() string {
	return a.Model.View()
}
