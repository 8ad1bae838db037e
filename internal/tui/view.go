package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/lipgloss"
)

// sideBySideWidth is the narrowest terminal that shows inputs and results
// together
const sideBySideWidth = 120

// View renders the current state of the application
func (m Model) View() string {
	if m.loading {
		return m.renderLoading()
	}
	if m.err != nil {
		return m.renderError()
	}

	var content string
	switch m.currentScene {
	case SceneParameters:
		content = m.renderParameters()
	case SceneResults:
		m.resultsModel.SetCompact(false)
		content = m.resultsModel.View()
	case SceneHelp:
		content = m.renderHelp()
	default:
		content = "Unknown scene"
	}
	return m.renderApp(content)
}

// renderApp wraps content with title bar and status bar
func (m Model) renderApp(content string) string {
	body := content
	if m.height > 4 {
		body = lipgloss.NewStyle().Height(m.height - 4).Render(content)
	}
	return AppStyle.Render(lipgloss.JoinVertical(lipgloss.Left,
		m.renderTitleBar(),
		body,
		m.renderStatusBar(),
	))
}

// renderTitleBar renders the application title and breadcrumb
func (m Model) renderTitleBar() string {
	title := TitleStyle.Render("CPP Bridge - Take at 65 or Bridge to 70")
	crumb := SubtitleStyle.Render(fmt.Sprintf("%s / %s", m.currentScene.String(), m.scenarioName))
	return lipgloss.JoinVertical(lipgloss.Left, title, crumb)
}

// renderStatusBar renders the bottom status bar with keyboard shortcuts
func (m Model) renderStatusBar() string {
	shortcuts := []string{
		formatShortcut("p", "parameters"),
		formatShortcut("r", "results"),
		formatShortcut("?", "help"),
		formatShortcut("q", "quit"),
	}
	if m.currentScene == SceneParameters {
		for _, b := range m.parametersModel.ShortHelp() {
			shortcuts = append(shortcuts, formatBinding(b))
		}
	}

	text := strings.Join(shortcuts, " • ")
	if m.parametersModel.Modified() {
		text += "  " + InfoStyle.Render("(modified)")
	}
	if m.width > 0 {
		return StatusBarStyle.Width(m.width).Render(text)
	}
	return StatusBarStyle.Render(text)
}

// formatShortcut formats a keyboard shortcut with key and description
func formatShortcut(key, desc string) string {
	return StatusKeyStyle.Render(key) + " " + desc
}

func formatBinding(b key.Binding) string {
	h := b.Help()
	return formatShortcut(h.Key, h.Desc)
}

func (m Model) renderParameters() string {
	params := m.parametersModel.View()
	if m.width < sideBySideWidth {
		return params
	}
	m.resultsModel.SetCompact(true)
	results := ActiveBorderStyle.Render(m.resultsModel.View())
	return lipgloss.JoinHorizontal(lipgloss.Top, params, "  ", results)
}

func (m Model) renderLoading() string {
	message := m.loadingMessage
	if message == "" {
		message = "Loading..."
	}
	return m.renderApp(BorderStyle.Render("⠋ " + message))
}

func (m Model) renderError() string {
	return m.renderApp(ErrorStyle.Render(
		fmt.Sprintf("Error: %s\n\nPress any key to continue...", m.err.Error()),
	))
}

func (m Model) renderHelp() string {
	helpText := `CPP Bridge - Take at 65 or Bridge to 70

Spend RRSP savings from 65 to 70 as a "bridge" and claim a CPP
pension 42% larger at 70, or claim at 65 and keep the savings.

KEYBOARD SHORTCUTS:
  p / 1    Parameters
  r / 2    Results
  ?        Show this help
  ESC      Go back
  q/Ctrl+C Quit

PARAMETERS:
  ↑↓ / j k    Select a slider
  ← → / - +   Adjust the selected value
  g           Toggle gender
  tab         Cycle health rating
  d           Toggle discounting mortality before 65
  x           Restore the loaded scenario

Every change re-evaluates the scenario immediately.`
	return BorderStyle.Render(helpText)
}
