package tui

import "github.com/rgehrsitz/cppbridge/internal/tui/tuistyles"

// Re-export styles from tuistyles to avoid import cycles
var (
	AppStyle          = tuistyles.AppStyle
	TitleStyle        = tuistyles.TitleStyle
	SubtitleStyle     = tuistyles.SubtitleStyle
	StatusBarStyle    = tuistyles.StatusBarStyle
	StatusKeyStyle    = tuistyles.StatusKeyStyle
	BorderStyle       = tuistyles.BorderStyle
	ActiveBorderStyle = tuistyles.ActiveBorderStyle
	ErrorStyle        = tuistyles.ErrorStyle
	InfoStyle         = tuistyles.InfoStyle
)
