package main

import (
	"flag"
	"fmt"
	"os"

	"codeberg.org/lumina/server/internal/tui"
	tea "github.com/charmbracelet/bubbletea"
)

func main() {
	env := os.Getenv("ENVIRONMENT")
	if env == "" {
		env = "development"
	}

	endpoint := flag.String("endpoint", os.Getenv("LUMINA_API_ENDPOINT"), "lumina server base URL")
	user := flag.String("user", os.Getenv("LUMINA_USER_ID"), "user id to query as")
	flag.Parse()

	app := tui.NewApp(tui.Options{
		Mode:     env,
		Endpoint: *endpoint,
		UserID:   *user,
	})

	p := tea.NewProgram(app, tea.WithAltScreen())

	if _, err := p.Run(); err != nil {
		fmt.Printf("error running lumina: %v\n", err)
		os.Exit(1)
	}
}
