package components

import (
	"fmt"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/rgehrsitz/cppbridge/internal/tui/tuistyles"
)

// ParameterSlider is one adjustable numeric input of the bridge scenario
type ParameterSlider struct {
	Key         string // Input field the slider drives, e.g. "real_rate"
	Label       string
	Value       float64
	Min         float64
	Max         float64
	Step        float64
	Unit        string // Suffix such as "%" or " yrs"
	Prefix      string // Prefix such as "$"
	Format      string
	Width       int
	IsFocused   bool
	Description string
}

// NewParameterSlider creates a slider clamped to [min, max]
func NewParameterSlider(key, label string, value, min, max, step float64) *ParameterSlider {
	p := &ParameterSlider{
		Key:    key,
		Label:  label,
		Min:    min,
		Max:    max,
		Step:   step,
		Format: "%.2f",
		Width:  30,
	}
	p.SetValue(value)
	return p
}

// WithUnit sets the unit suffix
func (p *ParameterSlider) WithUnit(unit string) *ParameterSlider {
	p.Unit = unit
	return p
}

// WithPrefix sets the value prefix
func (p *ParameterSlider) WithPrefix(prefix string) *ParameterSlider {
	p.Prefix = prefix
	return p
}

// WithFormat sets the value format string
func (p *ParameterSlider) WithFormat(format string) *ParameterSlider {
	p.Format = format
	return p
}

// WithWidth sets the bar width
func (p *ParameterSlider) WithWidth(width int) *ParameterSlider {
	p.Width = width
	return p
}

// WithDescription adds help text shown under the bar
func (p *ParameterSlider) WithDescription(desc string) *ParameterSlider {
	p.Description = desc
	return p
}

// SetFocused sets the focus state
func (p *ParameterSlider) SetFocused(focused bool) *ParameterSlider {
	p.IsFocused = focused
	return p
}

// Increment moves one step up and reports whether the value changed
func (p *ParameterSlider) Increment() bool {
	return p.move(p.Step)
}

// Decrement moves one step down and reports whether the value changed
func (p *ParameterSlider) Decrement() bool {
	return p.move(-p.Step)
}

func (p *ParameterSlider) move(delta float64) bool {
	before := p.Value
	p.SetValue(p.Value + delta)
	return p.Value != before
}

// SetValue sets the value, snapping to the step grid and clamping to the range
func (p *ParameterSlider) SetValue(value float64) {
	if p.Step > 0 {
		value = p.Min + math.Round((value-p.Min)/p.Step)*p.Step
	}
	p.Value = math.Max(p.Min, math.Min(p.Max, value))
}

// Percentage returns the position of the value within the range
func (p *ParameterSlider) Percentage() float64 {
	if p.Max == p.Min {
		return 0
	}
	return (p.Value - p.Min) / (p.Max - p.Min)
}

// FormatValue renders a value with the slider's prefix, format and unit
func (p *ParameterSlider) FormatValue(v float64) string {
	return p.Prefix + fmt.Sprintf(p.Format, v) + p.Unit
}

// Render returns the full slider with label, bar and range
func (p *ParameterSlider) Render() string {
	labelStyle := tuistyles.ParameterLabelStyle
	valueStyle := tuistyles.ParameterValueStyle
	if p.IsFocused {
		labelStyle = labelStyle.Foreground(tuistyles.ColorPrimary)
		valueStyle = valueStyle.Foreground(tuistyles.ColorAccent)
	}

	var b strings.Builder
	b.WriteString(labelStyle.Render(p.Label))
	b.WriteString("  ")
	b.WriteString(valueStyle.Render(p.FormatValue(p.Value)))
	b.WriteString("\n")
	b.WriteString(p.renderBar())

	rangeStyle := lipgloss.NewStyle().Foreground(tuistyles.ColorMuted)
	b.WriteString(" ")
	b.WriteString(rangeStyle.Render(fmt.Sprintf("%s ─ %s", p.FormatValue(p.Min), p.FormatValue(p.Max))))

	if p.Description != "" && p.IsFocused {
		b.WriteString("\n")
		b.WriteString(tuistyles.SubtitleStyle.Render(p.Description))
	}
	return b.String()
}

// RenderCompact returns a single line with a ten-cell bar
func (p *ParameterSlider) RenderCompact() string {
	labelStyle := tuistyles.ParameterLabelStyle
	if p.IsFocused {
		labelStyle = labelStyle.Foreground(tuistyles.ColorPrimary)
	}
	return fmt.Sprintf("%s %s %s",
		labelStyle.Render(p.Label+":"),
		tuistyles.ParameterValueStyle.Render(p.FormatValue(p.Value)),
		p.bar(10))
}

func (p *ParameterSlider) renderBar() string {
	return p.bar(p.Width)
}

// bar draws [━━━●────] with the thumb at the value's position
func (p *ParameterSlider) bar(width int) string {
	if width < 1 {
		width = 1
	}
	thumb := int(math.Round(float64(width-1) * p.Percentage()))
	thumb = max(0, min(width-1, thumb))

	thumbStyle := tuistyles.SliderThumbStyle
	if p.IsFocused {
		thumbStyle = thumbStyle.Foreground(tuistyles.ColorAccent)
	}

	var b strings.Builder
	b.WriteString("[")
	if thumb > 0 {
		b.WriteString(thumbStyle.Render(strings.Repeat("━", thumb)))
	}
	b.WriteString(thumbStyle.Render("●"))
	if rest := width - thumb - 1; rest > 0 {
		b.WriteString(tuistyles.SliderTrackStyle.Render(strings.Repeat("─", rest)))
	}
	b.WriteString("]")
	return b.String()
}
