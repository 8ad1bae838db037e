package tui

// Scene represents different screens in the TUI
type Scene int

const (
	SceneParameters Scene = iota
	SceneResults
	SceneHelp
)

// String returns the scene name shown in the title bar
func (s Scene) String() string {
	switch s {
	case SceneParameters:
		return "Parameters"
	case SceneResults:
		return "Results"
	case SceneHelp:
		return "Help"
	default:
		return "Unknown"
	}
}

// NavigateMsg switches to a different scene
type NavigateMsg struct {
	Scene Scene
}
