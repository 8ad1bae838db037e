package tui

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/rgehrsitz/cppbridge/internal/calculation"
	"github.com/rgehrsitz/cppbridge/internal/config"
	"github.com/rgehrsitz/cppbridge/internal/domain"
	"github.com/rgehrsitz/cppbridge/internal/tui/scenes"
	"github.com/rgehrsitz/cppbridge/internal/tui/tuimsg"
)

// Model represents the entire application state
type Model struct {
	currentScene  Scene
	previousScene Scene

	width  int
	height int

	scenarioPath string
	scenarioName string

	calcEngine *calculation.CalculationEngine

	parametersModel *scenes.ParametersModel
	resultsModel    *scenes.ResultsModel

	// seq numbers evaluations so a stale result never overwrites a newer one
	seq int

	err error

	loading        bool
	loadingMessage string
}

// NewModel creates the application model. An empty scenarioPath starts from
// domain.DefaultScenarioInput; a nil engine selects the default engine.
func NewModel(engine *calculation.CalculationEngine, scenarioPath string) Model {
	if engine == nil {
		engine = calculation.NewCalculationEngine()
	}
	name := "default scenario"
	if scenarioPath != "" {
		name = scenarioPath
	}
	return Model{
		currentScene:    SceneParameters,
		previousScene:   SceneParameters,
		scenarioPath:    scenarioPath,
		scenarioName:    name,
		calcEngine:      engine,
		parametersModel: scenes.NewParametersModel(domain.DefaultScenarioInput()),
		resultsModel:    scenes.NewResultsModel(),
		loading:         scenarioPath != "",
		loadingMessage:  "Loading scenario...",
	}
}

// Init loads the scenario file, or evaluates the default input when there is
// none
func (m Model) Init() tea.Cmd {
	if m.scenarioPath != "" {
		return loadScenarioCmd(m.scenarioPath)
	}
	return calculateCmd(m.calcEngine, m.seq, m.parametersModel.Input())
}

// loadScenarioCmd reads a scenario file and opens its first scenario
func loadScenarioCmd(path string) tea.Cmd {
	return func() tea.Msg {
		scenarios, err := config.NewInputParser().LoadFromFile(path)
		if err != nil {
			return tuimsg.ErrorMsg{Err: err}
		}
		return tuimsg.ScenarioLoadedMsg{Name: scenarios[0].Name, Input: scenarios[0].Input}
	}
}

// calculateCmd evaluates the input and the survival curve from 65 to the
// breakeven ceiling
func calculateCmd(engine *calculation.CalculationEngine, seq int, in domain.ScenarioInput) tea.Cmd {
	return func() tea.Msg {
		msg := tuimsg.CalculationCompleteMsg{Seq: seq, Input: in}
		out, err := engine.Evaluate(context.Background(), in)
		if err != nil {
			msg.Err = err
			return msg
		}
		msg.Output = out

		curve, err := engine.Model.SurvivalCurve(in.ProbabilityStartAge(), domain.EarlyClaimAge,
			domain.BreakevenCeilingAge, in.Sex, in.Health)
		if err != nil {
			msg.Err = fmt.Errorf("survival curve: %w", err)
			return msg
		}
		msg.Survival = curve
		return msg
	}
}
