// Package tui is an interactive terminal console for querying a running
// lumina server.
package tui

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
)

func NewApp(opts Options) *Model {
	client := NewQueryClient(opts.Endpoint, opts.UserID)

	return &Model{
		state:   StateWelcome,
		mode:    opts.Mode,
		client:  client,
		welcome: NewWelcome(opts.Mode, client),
		console: NewConsole(client),
	}
}

func (m *Model) Init() tea.Cmd {
	return m.client.HealthCmd
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			// the console returns to the welcome screen, the welcome screen quits
			if m.state == StateConsole {
				m.state = StateWelcome
				return m, nil
			}

			return m, tea.Quit
		}

		if m.err != nil {
			m.err = nil
			return m, nil
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

		var cmd tea.Cmd
		m.console, cmd = m.console.Update(msg)

		return m, cmd

	case ErrorMsg:
		m.err = msg.err
		return m, nil

	case EnterConsoleMsg:
		if m.client.UserID() == "" {
			m.err = fmt.Errorf("no user id set; start with --user or LUMINA_USER_ID")
			return m, nil
		}

		m.state = StateConsole
		return m, m.console.Init()
	}

	switch m.state {
	case StateWelcome:
		var cmd tea.Cmd
		m.welcome, cmd = m.welcome.Update(msg)

		return m, cmd

	case StateConsole:
		var cmd tea.Cmd
		m.console, cmd = m.console.Update(msg)

		return m, cmd

	default:
		return m, nil
	}
}

func (m *Model) View() string {
	if m.err != nil {
		return errorView(m.err)
	}

	switch m.state {
	case StateWelcome:
		return m.welcome.View()

	case StateConsole:
		return m.console.View()

	default:
		return "Unknown state"
	}
}

func errorView(err error) string {
	return fmt.Sprintf("\n  %s %v\n\n  %s\n",
		errorStyle.Render("Error:"), err,
		helpStyle.Render("press any key to continue, ctrl+c to exit"))
}
