package tui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/rgehrsitz/cppbridge/internal/tui/tuimsg"
)

// Update handles all messages and updates the model state
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {

	case tea.KeyMsg:
		return m.handleKeyPress(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.parametersModel.SetSize(msg.Width, msg.Height)
		m.resultsModel.SetSize(msg.Width, msg.Height)
		return m, nil

	case NavigateMsg:
		if msg.Scene != m.currentScene {
			m.previousScene = m.currentScene
			m.currentScene = msg.Scene
		}
		return m, nil

	case tuimsg.ErrorMsg:
		m.loading = false
		m.err = msg.Err
		return m, nil

	case tuimsg.ScenarioLoadedMsg:
		m.loading = false
		m.scenarioName = msg.Name
		m.parametersModel.SetInput(msg.Input)
		m.seq++
		return m, calculateCmd(m.calcEngine, m.seq, msg.Input)

	case tuimsg.ParameterChangedMsg:
		m.seq++
		return m, calculateCmd(m.calcEngine, m.seq, msg.Input)

	case tuimsg.CalculationCompleteMsg:
		if msg.Seq != m.seq {
			return m, nil
		}
		if msg.Err != nil {
			m.err = msg.Err
			return m, nil
		}
		m.err = nil
		m.resultsModel.SetResults(msg.Input, msg.Output, msg.Survival)
		return m, nil
	}

	return m.updateCurrentScene(msg)
}

// handleKeyPress processes keyboard input
func (m Model) handleKeyPress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// An error screen is dismissed by any key.
	if m.err != nil {
		m.err = nil
		return m, nil
	}

	switch msg.String() {
	case "ctrl+c", "q":
		return m, tea.Quit

	case "?":
		return m, navigate(SceneHelp)

	case "esc":
		if m.currentScene != SceneParameters {
			return m, navigate(m.previousScene)
		}

	case "p", "1":
		return m, navigate(SceneParameters)

	case "r", "2":
		return m, navigate(SceneResults)
	}

	return m.updateCurrentScene(msg)
}

func navigate(scene Scene) tea.Cmd {
	return func() tea.Msg {
		return NavigateMsg{Scene: scene}
	}
}

// updateCurrentScene delegates to the current scene's model
func (m Model) updateCurrentScene(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch m.currentScene {
	case SceneParameters:
		m.parametersModel, cmd = m.parametersModel.Update(msg)
	case SceneResults:
		m.resultsModel, cmd = m.resultsModel.Update(msg)
	}
	return m, cmd
}
