package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
)

// rows used by the header, input box and status line
const consoleChrome = 7

// returns a new query console
func NewConsole(client *QueryClient) *ConsoleModel {
	ti := textinput.New()
	ti.Placeholder = "ask something about your documents..."
	ti.Focus()
	ti.CharLimit = 2000
	ti.Width = 80
	ti.Prompt = "> "
	ti.PromptStyle = lipgloss.NewStyle().Foreground(colorLightGray)
	ti.TextStyle = lipgloss.NewStyle().Foreground(colorWhite)

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(colorAmber)

	return &ConsoleModel{
		input:   ti,
		spinner: sp,
		client:  client,
	}
}

func (m *ConsoleModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m *ConsoleModel) Update(msg tea.Msg) (*ConsoleModel, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)

	case tea.KeyMsg:
		switch msg.String() {
		case "enter":
			query := strings.TrimSpace(m.input.Value())
			if query == "" || m.isFetching {
				return m, nil
			}

			m.input.SetValue("")
			m.isFetching = true
			m.pendingQuery = query
			m.refresh()

			return m, tea.Batch(m.client.QueryCmd(query), m.spinner.Tick)

		case "ctrl+l":
			m.exchanges = nil
			m.refresh()

			return m, nil

		case "pgup", "pgdown", "up", "down":
			var cmd tea.Cmd
			m.viewport, cmd = m.viewport.Update(msg)

			return m, cmd
		}

	case QueryResponseMsg:
		m.isFetching = false
		m.pendingQuery = ""
		m.exchanges = append(m.exchanges, Exchange{Query: msg.query, Answer: msg.answer, Sources: msg.sources})
		m.refresh()

		return m, nil

	case QueryErrorMsg:
		m.isFetching = false
		m.pendingQuery = ""
		m.exchanges = append(m.exchanges, Exchange{Query: msg.query, Err: msg.err})
		m.refresh()

		return m, nil

	case spinner.TickMsg:
		if !m.isFetching {
			return m, nil
		}

		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)

		return m, cmd
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	cmds = append(cmds, cmd)

	return m, tea.Batch(cmds...)
}

func (m *ConsoleModel) resize(width, height int) {
	m.width = width
	m.height = height
	m.input.Width = max(10, width-10)

	vpHeight := max(3, height-consoleChrome)

	if !m.ready {
		m.viewport = viewport.New(max(10, width-4), vpHeight)
		m.ready = true
	} else {
		m.viewport.Width = max(10, width-4)
		m.viewport.Height = vpHeight
	}

	renderer, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle("dark"),
		glamour.WithWordWrap(max(20, width-8)),
	)
	if err == nil {
		m.renderer = renderer
	}

	m.refresh()
}

// re-renders the transcript into the viewport and scrolls to the newest answer
func (m *ConsoleModel) refresh() {
	if !m.ready {
		return
	}

	m.viewport.SetContent(m.transcript())
	m.viewport.GotoBottom()
}

func (m *ConsoleModel) transcript() string {
	if len(m.exchanges) == 0 && m.pendingQuery == "" {
		return infoStyle.Render("ready! type a question and press enter.")
	}

	var b strings.Builder

	for _, ex := range m.exchanges {
		b.WriteString(queryStyle.Render("> " + ex.Query))
		b.WriteString("\n")

		if ex.Err != nil {
			b.WriteString(errorStyle.Render(fmt.Sprintf("error: %v", ex.Err)))
			b.WriteString("\n\n")

			continue
		}

		b.WriteString(m.renderMarkdown(ex.Answer))

		if len(ex.Sources) > 0 {
			b.WriteString(sourcesStyle.Render("sources: " + strings.Join(ex.Sources, ", ")))
			b.WriteString("\n")
		}

		b.WriteString("\n")
	}

	if m.pendingQuery != "" {
		b.WriteString(queryStyle.Render("> " + m.pendingQuery))
		b.WriteString("\n")
	}

	return b.String()
}

func (m *ConsoleModel) renderMarkdown(text string) string {
	if m.renderer == nil {
		return text + "\n"
	}

	out, err := m.renderer.Render(text)
	if err != nil {
		return text + "\n"
	}

	return out
}

func (m *ConsoleModel) View() string {
	var b strings.Builder

	header := lipgloss.NewStyle().Bold(true).Foreground(colorWhite).Render("QUERY CONSOLE")
	help := lipgloss.NewStyle().Foreground(colorGray).Render("[Enter: Ask] [Ctrl+L: Clear] [PgUp/PgDn: Scroll] [Ctrl+C: Back]")

	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Left,
		header,
		strings.Repeat(" ", max(0, m.width-lipgloss.Width(header)-lipgloss.Width(help)-2)),
		help,
	))
	b.WriteString("\n")

	if m.ready {
		b.WriteString(boxStyle.Width(max(10, m.width-2)).Render(m.viewport.View()))
	} else {
		b.WriteString(m.transcript())
	}

	b.WriteString("\n")
	b.WriteString(boxStyle.Width(max(10, m.width-2)).Padding(0, 1).Render(m.input.View()))
	b.WriteString("\n")

	if m.isFetching {
		b.WriteString(infoStyle.Render(m.spinner.View() + " searching as " + m.client.UserID() + "..."))
	}

	return b.String()
}
