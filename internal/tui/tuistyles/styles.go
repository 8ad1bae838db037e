package tuistyles

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/shopspring/decimal"

	"github.com/rgehrsitz/cppbridge/internal/calculation"
)

// Color palette
var (
	ColorPrimary   = lipgloss.Color("#7D56F4")
	ColorSecondary = lipgloss.Color("#5A4FCF")
	ColorAccent    = lipgloss.Color("#F2A541")
	ColorSuccess   = lipgloss.Color("#43BF6D")
	ColorDanger    = lipgloss.Color("#E5534B")
	ColorInfo      = lipgloss.Color("#4FA3E0")

	ColorBackground = lipgloss.Color("#1A1B26")
	ColorForeground = lipgloss.Color("#E6E6E6")
	ColorMuted      = lipgloss.Color("#7A7F8C")
	ColorBorder     = lipgloss.Color("#3B3F51")

	ColorChartEarly   = lipgloss.Color("#4FA3E0")
	ColorChartDelayed = lipgloss.Color("#F2A541")
)

// Base styles
var (
	AppStyle = lipgloss.NewStyle().Padding(0, 1)

	TitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorForeground).
			Background(ColorPrimary).
			Padding(0, 1)

	SubtitleStyle = lipgloss.NewStyle().
			Foreground(ColorMuted).
			Italic(true)

	StatusBarStyle = lipgloss.NewStyle().
			Foreground(ColorForeground).
			Background(ColorBorder).
			Padding(0, 1)

	StatusKeyStyle = lipgloss.NewStyle().
			Foreground(ColorAccent).
			Bold(true)

	BorderStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ColorBorder).
			Padding(1, 2)

	ActiveBorderStyle = BorderStyle.BorderForeground(ColorPrimary)

	MetricLabelStyle = lipgloss.NewStyle().Foreground(ColorMuted)

	MetricValueStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(ColorForeground)

	MetricPositiveStyle = lipgloss.NewStyle().Foreground(ColorSuccess)
	MetricNegativeStyle = lipgloss.NewStyle().Foreground(ColorDanger)

	ParameterLabelStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(ColorForeground)

	ParameterValueStyle = lipgloss.NewStyle().Foreground(ColorInfo)

	SliderTrackStyle = lipgloss.NewStyle().Foreground(ColorBorder)
	SliderThumbStyle = lipgloss.NewStyle().Foreground(ColorPrimary)

	HelpKeyStyle  = lipgloss.NewStyle().Foreground(ColorAccent)
	HelpDescStyle = lipgloss.NewStyle().Foreground(ColorMuted)

	ErrorStyle = lipgloss.NewStyle().
			Foreground(ColorDanger).
			Bold(true)

	InfoStyle = lipgloss.NewStyle().Foreground(ColorInfo)

	RecommendationStyle = lipgloss.NewStyle().
				Bold(true).
				Padding(0, 2).
				Border(lipgloss.DoubleBorder())
)

// MetricTrendStyle colors a trend by direction
func MetricTrendStyle(isPositive bool) lipgloss.Style {
	if isPositive {
		return MetricPositiveStyle
	}
	return MetricNegativeStyle
}

// TrendIndicator returns the arrow for a trend direction
func TrendIndicator(isPositive bool) string {
	if isPositive {
		return "▲"
	}
	return "▼"
}

// RecommendationColor maps a recommendation label to its banner color
func RecommendationColor(label string) lipgloss.Color {
	switch label {
	case calculation.LabelDelay:
		return ColorSuccess
	case calculation.LabelConsiderDelay:
		return ColorAccent
	default:
		return ColorInfo
	}
}

// FormatCurrency renders an amount as $1,234.56
func FormatCurrency(amount decimal.Decimal) string {
	sign := ""
	if amount.IsNegative() {
		sign = "-"
		amount = amount.Abs()
	}
	fixed := amount.StringFixed(2)
	whole, cents := fixed[:len(fixed)-3], fixed[len(fixed)-3:]

	var out []byte
	for i := 0; i < len(whole); i++ {
		if i > 0 && (len(whole)-i)%3 == 0 {
			out = append(out, ',')
		}
		out = append(out, whole[i])
	}
	return fmt.Sprintf("%s$%s%s", sign, out, cents)
}
