package scenes

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/shopspring/decimal"

	"github.com/rgehrsitz/cppbridge/internal/domain"
	"github.com/rgehrsitz/cppbridge/internal/tui/components"
	"github.com/rgehrsitz/cppbridge/internal/tui/tuimsg"
	"github.com/rgehrsitz/cppbridge/internal/tui/tuistyles"
)

// Slider keys
const (
	SliderAge        = "current_age"
	SliderBenefit    = "cpp_estimate_at_65"
	SliderSavings    = "rrsp_savings"
	SliderRealRate   = "real_rate_of_return"
	SliderWageGrowth = "wage_growth"
)

type parameterKeys struct {
	Up, Down, Left, Right key.Binding
	Sex, Health, Discount key.Binding
	Reset                 key.Binding
}

var paramKeys = parameterKeys{
	Up:       key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "previous")),
	Down:     key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "next")),
	Left:     key.NewBinding(key.WithKeys("left", "-"), key.WithHelp("←/-", "decrease")),
	Right:    key.NewBinding(key.WithKeys("right", "+", "="), key.WithHelp("→/+", "increase")),
	Sex:      key.NewBinding(key.WithKeys("g"), key.WithHelp("g", "gender")),
	Health:   key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "health")),
	Discount: key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "pre-65 mortality")),
	Reset:    key.NewBinding(key.WithKeys("x"), key.WithHelp("x", "reset")),
}

// ParametersModel edits one scenario input with sliders and toggles
type ParametersModel struct {
	original      domain.ScenarioInput
	input         domain.ScenarioInput
	sliders       []*components.ParameterSlider
	focusedSlider int
	width         int
	height        int
	modified      bool
}

// NewParametersModel creates the scene around a starting input
func NewParametersModel(in domain.ScenarioInput) *ParametersModel {
	m := &ParametersModel{}
	m.SetInput(in)
	return m
}

// SetInput replaces both the edited and the reset input
func (m *ParametersModel) SetInput(in domain.ScenarioInput) {
	m.original = in
	m.input = in
	m.modified = false
	m.buildSliders()
}

// Input returns the input as currently edited
func (m *ParametersModel) Input() domain.ScenarioInput {
	return m.input
}

// Modified reports whether the input differs from the loaded one
func (m *ParametersModel) Modified() bool {
	return m.modified
}

// FocusedKey returns the key of the focused slider
func (m *ParametersModel) FocusedKey() string {
	return m.sliders[m.focusedSlider].Key
}

// SetSize updates the scene dimensions
func (m *ParametersModel) SetSize(width, height int) {
	m.width = width
	m.height = height
}

func (m *ParametersModel) buildSliders() {
	in := m.input
	m.sliders = []*components.ParameterSlider{
		components.NewParameterSlider(SliderAge, "Current age", float64(in.CurrentAge),
			domain.MinCurrentAge, domain.MaxCurrentAge, 1).
			WithFormat("%.0f").WithUnit(" yrs").
			WithDescription("Your age today"),
		components.NewParameterSlider(SliderBenefit, "CPP estimate at 65", in.BenefitAt65.InexactFloat64(), 100, 2500, 25).
			WithFormat("%.0f").WithPrefix("$").WithUnit("/mo").
			WithDescription("Monthly benefit from your Statement of Contributions"),
		components.NewParameterSlider(SliderSavings, "RRSP savings", in.Savings.InexactFloat64(), 0, 500000, 5000).
			WithFormat("%.0f").WithPrefix("$").
			WithDescription("Savings available to fund the bridge"),
		components.NewParameterSlider(SliderRealRate, "Real rate of return", in.RealRateOfReturn.InexactFloat64()*100,
			0, domain.MaxRealRateOfReturn*100, 0.25).
			WithUnit("%").
			WithDescription("Annual return above inflation"),
		components.NewParameterSlider(SliderWageGrowth, "Wage growth", in.WageGrowth.InexactFloat64()*100,
			0, 5, 0.1).
			WithFormat("%.1f").WithUnit("%").
			WithDescription("Real wage growth indexing the benefit from 65 to 70"),
	}
	for _, s := range m.sliders {
		s.Width = 32
	}
	m.focusedSlider = min(m.focusedSlider, len(m.sliders)-1)
	m.sliders[m.focusedSlider].SetFocused(true)
}

// Update handles messages for the parameters scene
func (m *ParametersModel) Update(msg tea.Msg) (*ParametersModel, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch {
	case key.Matches(keyMsg, paramKeys.Up):
		m.moveFocus(-1)
		return m, nil
	case key.Matches(keyMsg, paramKeys.Down):
		m.moveFocus(1)
		return m, nil
	case key.Matches(keyMsg, paramKeys.Left):
		if m.sliders[m.focusedSlider].Decrement() {
			return m, m.applyChanges(m.FocusedKey())
		}
	case key.Matches(keyMsg, paramKeys.Right):
		if m.sliders[m.focusedSlider].Increment() {
			return m, m.applyChanges(m.FocusedKey())
		}
	case key.Matches(keyMsg, paramKeys.Sex):
		if m.input.Sex == domain.Male {
			m.input.Sex = domain.Female
		} else {
			m.input.Sex = domain.Male
		}
		return m, m.changed("gender")
	case key.Matches(keyMsg, paramKeys.Health):
		m.input.Health = nextHealth(m.input.Health)
		return m, m.changed("health_status")
	case key.Matches(keyMsg, paramKeys.Discount):
		m.input.DiscountPreRetirementMortality = !m.input.DiscountPreRetirementMortality
		return m, m.changed("discount_pre_retirement_mortality")
	case key.Matches(keyMsg, paramKeys.Reset):
		m.input = m.original
		m.buildSliders()
		cmd := m.changed("reset")
		m.modified = false
		return m, cmd
	}
	return m, nil
}

func (m *ParametersModel) moveFocus(delta int) {
	next := m.focusedSlider + delta
	if next < 0 || next >= len(m.sliders) {
		return
	}
	m.sliders[m.focusedSlider].SetFocused(false)
	m.focusedSlider = next
	m.sliders[m.focusedSlider].SetFocused(true)
}

func nextHealth(h domain.HealthRating) domain.HealthRating {
	for i, r := range domain.AllHealthRatings {
		if r == h {
			return domain.AllHealthRatings[(i+1)%len(domain.AllHealthRatings)]
		}
	}
	return domain.HealthAverage
}

// applyChanges copies every slider back into the input
func (m *ParametersModel) applyChanges(param string) tea.Cmd {
	for _, s := range m.sliders {
		switch s.Key {
		case SliderAge:
			m.input.CurrentAge = int(s.Value)
		case SliderBenefit:
			m.input.BenefitAt65 = decimal.NewFromFloat(s.Value).Round(2)
		case SliderSavings:
			m.input.Savings = decimal.NewFromFloat(s.Value).Round(2)
		case SliderRealRate:
			m.input.RealRateOfReturn = decimal.NewFromFloat(s.Value).Div(decimal.NewFromInt(100)).Round(6)
		case SliderWageGrowth:
			m.input.WageGrowth = decimal.NewFromFloat(s.Value).Div(decimal.NewFromInt(100)).Round(6)
		}
	}
	return m.changed(param)
}

func (m *ParametersModel) changed(param string) tea.Cmd {
	m.modified = true
	in := m.input
	return func() tea.Msg {
		return tuimsg.ParameterChangedMsg{Parameter: param, Input: in}
	}
}

// View renders the parameters scene
func (m *ParametersModel) View() string {
	title := lipgloss.NewStyle().Bold(true).Foreground(tuistyles.ColorPrimary).Render("Scenario inputs")

	rendered := make([]string, 0, len(m.sliders))
	for _, s := range m.sliders {
		rendered = append(rendered, s.Render())
	}
	sliders := tuistyles.BorderStyle.Width(60).Render(strings.Join(rendered, "\n\n"))

	toggles := lipgloss.JoinVertical(lipgloss.Left,
		renderToggle("g", "Gender", string(m.input.Sex)),
		renderToggle("tab", "Health", string(m.input.Health)),
		renderToggle("d", "Discount pre-65 mortality", yesNo(m.input.DiscountPreRetirementMortality)),
	)

	parts := []string{title, sliders, toggles}
	if m.modified {
		parts = append(parts, tuistyles.InfoStyle.Render("Modified. Press x to restore the loaded scenario."))
	}
	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

func renderToggle(k, label, value string) string {
	return tuistyles.HelpKeyStyle.Render("["+k+"]") + " " +
		tuistyles.MetricLabelStyle.Render(label+":") + " " +
		tuistyles.ParameterValueStyle.Render(value)
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}

// ShortHelp lists the scene's key bindings for the status bar
func (m *ParametersModel) ShortHelp() []key.Binding {
	return []key.Binding{paramKeys.Up, paramKeys.Down, paramKeys.Left, paramKeys.Right,
		paramKeys.Sex, paramKeys.Health, paramKeys.Discount, paramKeys.Reset}
}
