package components

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"

	"github.com/rgehrsitz/cppbridge/internal/tui/tuistyles"
)

// MetricCard displays one headline number with an optional verdict line
type MetricCard struct {
	Label       string
	Value       string
	Trend       *Trend
	Description string
	Width       int
}

// Trend marks a metric as favourable or not
type Trend struct {
	IsPositive bool
	Change     string
}

// NewMetricCard creates a new metric card
func NewMetricCard(label, value string) *MetricCard {
	return &MetricCard{
		Label: label,
		Value: value,
		Width: 26,
	}
}

// WithTrend adds a colored verdict under the value
func (m *MetricCard) WithTrend(isPositive bool, change string) *MetricCard {
	m.Trend = &Trend{IsPositive: isPositive, Change: change}
	return m
}

// WithDescription adds a subtitle
func (m *MetricCard) WithDescription(desc string) *MetricCard {
	m.Description = desc
	return m
}

// WithWidth sets the card width
func (m *MetricCard) WithWidth(width int) *MetricCard {
	m.Width = width
	return m
}

func (m *MetricCard) trendLine() string {
	if m.Trend == nil {
		return ""
	}
	return tuistyles.MetricTrendStyle(m.Trend.IsPositive).
		Render(fmt.Sprintf("%s %s", tuistyles.TrendIndicator(m.Trend.IsPositive), m.Trend.Change))
}

// Render returns the bordered card
func (m *MetricCard) Render() string {
	content := tuistyles.MetricLabelStyle.Render(m.Label) + "\n" + tuistyles.MetricValueStyle.Render(m.Value)
	if t := m.trendLine(); t != "" {
		content += "\n" + t
	}
	if m.Description != "" {
		content += "\n" + tuistyles.SubtitleStyle.Render(m.Description)
	}

	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(tuistyles.ColorBorder).
		Padding(0, 1).
		Width(m.Width).
		Render(content)
}

// RenderCompact returns the card as one unbordered line
func (m *MetricCard) RenderCompact() string {
	line := tuistyles.MetricLabelStyle.Render(m.Label+":") + " " + tuistyles.MetricValueStyle.Render(m.Value)
	if t := m.trendLine(); t != "" {
		line += " " + t
	}
	return line
}

// MetricGrid lays cards out in rows of the given width
func MetricGrid(cards []*MetricCard, columns int) string {
	if len(cards) == 0 {
		return ""
	}
	if columns < 1 {
		columns = 1
	}

	var rows, row []string
	for i, card := range cards {
		row = append(row, card.Render())
		if (i+1)%columns == 0 || i == len(cards)-1 {
			rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, row...))
			row = nil
		}
	}
	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}
