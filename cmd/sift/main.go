package main

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/sokinpui/sift/cli"
	"github.com/sokinpui/sift/internal/tui"
	"github.com/sokinpui/sift/internal/ui"
	"github.com/sokinpui/sift/sift"
)

func main() {
	cfg, err := cli.ParseFlags()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	app, err := sift.New(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize application: %v\n", err)
		os.Exit(1)
	}
	defer app.Close()

	// Modes without interactive review run outside the TUI.
	if cfg.All || cfg.Print || cfg.Undo || cfg.Redo {
		summary, err := app.Execute()
		if err != nil {
			if e, ok := err.(*sift.DetailedError); ok {
				fmt.Fprintf(os.Stderr, "\n--- Stack Trace ---\n%s\n", e.Stack)
			}
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		if !cfg.Print {
			ui.PrintSummary(summary)
		}
		return
	}

	p := tea.NewProgram(tui.New(app, cfg))
	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error running program: %v\n", err)
		os.Exit(1)
	}
}
