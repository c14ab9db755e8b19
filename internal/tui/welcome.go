package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// returns a new welcome screen
func NewWelcome(mode string, client *QueryClient) *Welcome {
	return &Welcome{
		mode:   mode,
		client: client,
		status: "checking server...",
		commands: []Command{
			{Name: "query", Description: "ask questions about your documents"},
			{Name: "health", Description: "check server, store and queue consumer"},
			{Name: "quit", Description: "exit lumina"},
		},
	}
}

func (m *Welcome) Update(msg tea.Msg) (*Welcome, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyEnter:
			cmd := m.executeCommand()
			m.input = ""

			return m, cmd

		case tea.KeyBackspace:
			if len(m.input) > 0 {
				m.input = m.input[:len(m.input)-1]
			}

		case tea.KeyRunes:
			m.input += string(msg.Runes)
		}

	case HealthMsg:
		m.status = fmt.Sprintf("server %s (%s)", msg.status, msg.detail)
	}

	return m, nil
}

func (m *Welcome) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render(logo))
	b.WriteString("\n")
	b.WriteString(subtitleStyle.Render("ask your documents"))
	b.WriteString("\n")

	b.WriteString(infoStyle.Render(fmt.Sprintf("mode: %s | user: %s", strings.ToUpper(m.mode), m.client.UserID())))
	b.WriteString("\n")
	b.WriteString(infoStyle.Render(m.status))
	b.WriteString("\n\n")

	b.WriteString(lipgloss.NewStyle().Bold(true).Foreground(colorWhite).Render("commands:"))
	b.WriteString("\n\n")

	for _, cmd := range m.commands {
		b.WriteString(fmt.Sprintf("  %s %s\n",
			commandStyle.Render(cmd.Name),
			commandDescStyle.Render("- "+cmd.Description),
		))
	}

	b.WriteString("\n")
	b.WriteString(promptStyle.Render("> ") + inputStyle.Render(m.input+"_"))
	b.WriteString("\n\n")
	b.WriteString(helpStyle.Render("type a command and press enter. press ctrl+c to quit."))

	return b.String()
}

func (m *Welcome) executeCommand() tea.Cmd {
	cmd := strings.TrimSpace(m.input)

	switch cmd {
	case "quit", "exit":
		return tea.Quit

	case "query", "console":
		return func() tea.Msg {
			return EnterConsoleMsg{}
		}

	case "health":
		m.status = "checking server..."
		return m.client.HealthCmd

	case "":
		return nil

	default:
		return func() tea.Msg {
			return ErrorMsg{err: fmt.Errorf("unknown command: %s", cmd)}
		}
	}
}
