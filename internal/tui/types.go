package tui

import (
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	"github.com/charmbracelet/glamour"
)

// represents the current screen of the TUI
type AppState int

const (
	StateWelcome AppState = iota
	StateConsole
)

type Options struct {
	Mode     string
	Endpoint string
	UserID   string
}

// main TUI application model
type Model struct {
	state   AppState
	mode    string
	width   int
	height  int
	err     error
	client  *QueryClient
	welcome *Welcome
	console *ConsoleModel
}

// sent when an error occurs
type ErrorMsg struct {
	err error
}

// sent to transition to the query console
type EnterConsoleMsg struct{}

// one question and what came back for it
type Exchange struct {
	Query   string
	Answer  string
	Sources []string
	Err     error
}

// interactive query console
type ConsoleModel struct {
	input        textinput.Model
	viewport     viewport.Model
	spinner      spinner.Model
	renderer     *glamour.TermRenderer
	client       *QueryClient
	exchanges    []Exchange
	width        int
	height       int
	ready        bool
	isFetching   bool
	pendingQuery string
}

// sent when the server answers a query
type QueryResponseMsg struct {
	query   string
	answer  string
	sources []string
}

// sent when a query could not be answered
type QueryErrorMsg struct {
	query string
	err   error
}

// sent with the result of a health probe
type HealthMsg struct {
	status string
	detail string
}

// welcome screen model
type Welcome struct {
	mode     string
	input    string
	status   string
	client   *QueryClient
	commands []Command
}

// represents an available TUI command
type Command struct {
	Name        string
	Description string
}
