package main

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/rgehrsitz/cppbridge/internal/calculation"
	"github.com/rgehrsitz/cppbridge/internal/config"
	"github.com/rgehrsitz/cppbridge/internal/mortality"
	"github.com/rgehrsitz/cppbridge/internal/tui"
)

func main() {
	// The scenario file is optional; without one the default scenario opens
	scenarioPath := ""
	if len(os.Args) > 2 {
		fmt.Println("Usage: cppbridge-tui [scenario-file]")
		os.Exit(1)
	}
	if len(os.Args) == 2 {
		scenarioPath = os.Args[1]
		if _, err := os.Stat(scenarioPath); os.IsNotExist(err) {
			fmt.Printf("Error: scenario file not found: %s\n", scenarioPath)
			os.Exit(1)
		}
	}

	engine, err := newEngine()
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}

	p := tea.NewProgram(
		tui.NewModel(engine, scenarioPath),
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
	)

	if _, err := p.Run(); err != nil {
		fmt.Printf("Error running TUI: %v\n", err)
		os.Exit(1)
	}
}

// newEngine honours the mortality and policy settings shared with the CLI.
// Logging stays off since the terminal belongs to the TUI.
func newEngine() (*calculation.CalculationEngine, error) {
	settings, err := config.LoadSettings()
	if err != nil {
		return nil, err
	}
	table, err := mortality.Open(settings.Mortality.Source, settings.Mortality.File)
	if err != nil {
		return nil, fmt.Errorf("failed to load mortality table: %w", err)
	}
	policy, err := calculation.PolicyByName(settings.Recommendation.Policy)
	if err != nil {
		return nil, err
	}
	return calculation.NewCalculationEngineWithModel(mortality.NewModel(table), policy), nil
}
