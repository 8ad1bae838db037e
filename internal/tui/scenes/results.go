package scenes

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/shopspring/decimal"

	"github.com/rgehrsitz/cppbridge/internal/domain"
	"github.com/rgehrsitz/cppbridge/internal/output"
	"github.com/rgehrsitz/cppbridge/internal/tui/components"
	"github.com/rgehrsitz/cppbridge/internal/tui/tuistyles"
)

var half = decimal.NewFromFloat(0.5)

// ResultsModel shows the latest evaluation of the edited input
type ResultsModel struct {
	input    domain.ScenarioInput
	output   *domain.ScenarioOutput
	survival []float64
	compact  bool
	width    int
	height   int
}

// NewResultsModel creates a new results scene model
func NewResultsModel() *ResultsModel {
	return &ResultsModel{}
}

// SetResults updates the evaluation to display. survival starts at age 65.
func (m *ResultsModel) SetResults(in domain.ScenarioInput, out *domain.ScenarioOutput, survival []float64) {
	m.input = in
	m.output = out
	m.survival = survival
}

// Output returns the evaluation on display, nil before the first one
func (m *ResultsModel) Output() *domain.ScenarioOutput {
	return m.output
}

// SetCompact selects the side-panel layout without the chart
func (m *ResultsModel) SetCompact(compact bool) {
	m.compact = compact
}

// SetSize updates the scene dimensions
func (m *ResultsModel) SetSize(width, height int) {
	m.width = width
	m.height = height
}

// Update handles messages for the results scene. The scene is read-only.
func (m *ResultsModel) Update(msg tea.Msg) (*ResultsModel, tea.Cmd) {
	return m, nil
}

// View renders the results scene
func (m *ResultsModel) View() string {
	if m.output == nil {
		return tuistyles.SubtitleStyle.Render("No results yet. Adjust a parameter to evaluate the scenario.")
	}
	out := m.output

	banner := tuistyles.RecommendationStyle.
		BorderForeground(tuistyles.RecommendationColor(out.Recommendation)).
		Foreground(tuistyles.RecommendationColor(out.Recommendation)).
		Render(out.Recommendation)
	reasoning := lipgloss.NewStyle().Width(max(40, min(m.width-4, 90))).Render(out.RecommendationReasoning)

	cards := m.metricCards()
	if m.compact {
		lines := make([]string, 0, len(cards))
		for _, c := range cards {
			lines = append(lines, c.RenderCompact())
		}
		return lipgloss.JoinVertical(lipgloss.Left, append([]string{banner, ""}, lines...)...)
	}

	parts := []string{banner, reasoning, "", components.MetricGrid(cards, m.columns())}
	if len(m.survival) > 1 {
		chart := components.NewSurvivalChart(domain.EarlyClaimAge, m.survival).
			WithSize(max(40, min(m.width-4, 80)), 10)
		if out.BreakevenFound {
			chart.WithMarker(out.BreakevenAgeEconomic, "breakeven")
		}
		parts = append(parts, "", chart.Render())
	}
	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

func (m *ResultsModel) columns() int {
	if m.width <= 0 {
		return 3
	}
	return max(1, min(4, m.width/28))
}

func (m *ResultsModel) metricCards() []*components.MetricCard {
	out := m.output

	cost := components.NewMetricCard("Bridge cost today", tuistyles.FormatCurrency(out.BridgeCostLumpSum)).
		WithDescription(fmt.Sprintf("pays %s/mo from 65 to 70", tuistyles.FormatCurrency(out.TargetMonthlyIncomeAt70)))
	if out.IsAffordable {
		cost.WithTrend(true, "surplus "+tuistyles.FormatCurrency(out.SurplusAmount))
	} else {
		cost.WithTrend(false, "short "+tuistyles.FormatCurrency(out.ShortfallAmount))
	}

	estate := components.NewMetricCard("Bonus estate at 85", tuistyles.FormatCurrency(out.BonusEstateValueAt85))

	breakeven := components.NewMetricCard("Breakeven age", output.FormatBreakeven(out.BreakevenAgeEconomic, out.BreakevenFound))

	odds := components.NewMetricCard("Chance of winning", output.FormatProbability(out.ProbabilityOfWinning)).
		WithTrend(out.ProbabilityOfWinning.GreaterThan(half), "vs even odds")

	life := components.NewMetricCard("Life expectancy", out.LifeExpectancy.StringFixed(1)).
		WithDescription(string(m.input.Health) + " health")

	gain := components.NewMetricCard("Expected lifetime gain", tuistyles.FormatCurrency(out.ExpectedLifetimeGain)).
		WithTrend(out.ExpectedLifetimeGain.IsPositive(), "delaying vs early")

	return []*components.MetricCard{cost, estate, breakeven, odds, life, gain}
}
