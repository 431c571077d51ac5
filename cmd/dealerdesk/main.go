package main

import (
	"flag"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/voxline/dealerdesk/internal/game"
	"github.com/voxline/dealerdesk/internal/logging"
	"github.com/voxline/dealerdesk/tui"
)

func main() {
	settingsPath := flag.String("settings", "", "path to a settings YAML file")
	flag.Parse()

	cfg := game.DefaultConfig()
	logLevel, logDir := "", ""
	if *settingsPath != "" {
		settings, err := game.LoadSettings(*settingsPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error loading settings: %v\n", err)
			os.Exit(1)
		}
		cfg = settings.ToConfig()
		logLevel = settings.Logging.Level
		logDir = settings.Logging.Dir
	}

	log := logging.NewLogger(logLevel, logDir)

	g := game.New(cfg, log)
	g.Start()
	defer g.Close()

	model := tui.NewModel(g, *settingsPath)
	p := tea.NewProgram(model, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error running TUI: %v\n", err)
		os.Exit(1)
	}
}
