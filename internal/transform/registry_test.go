package transform

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rgehrsitz/cppbridge/internal/domain"
)

func TestTransformRegistry_List(t *testing.T) {
	names := NewTransformRegistry().List()
	assert.Equal(t, []string{
		"adjust_real_rate", "adjust_savings", "scale_savings", "set_age", "set_health",
		"set_pre65_mortality", "set_real_rate", "set_sex", "set_wage_growth",
	}, names)
}

func TestParseTransformSpec(t *testing.T) {
	registry := NewTransformRegistry()

	tests := []struct {
		spec string
		want ScenarioTransform
	}{
		{"set_real_rate:rate=0.03", &SetRealRate{Rate: decimal.RequireFromString("0.03")}},
		{"adjust_real_rate: delta = -0.01", &AdjustRealRate{Delta: decimal.RequireFromString("-0.01")}},
		{"set_wage_growth:rate=0", &SetWageGrowth{Rate: decimal.RequireFromString("0")}},
		{"adjust_savings:delta=25000", &AdjustSavings{Delta: decimal.RequireFromString("25000")}},
		{"scale_savings:factor=2", &ScaleSavings{Factor: decimal.RequireFromString("2")}},
		{"set_health:health=Poor", &SetHealth{Health: domain.HealthPoor}},
		{"set_sex:sex=female", &SetSex{Sex: domain.Female}},
		{"set_age:age=60", &SetCurrentAge{Age: 60}},
		{"set_pre65_mortality:discount=false", &SetPreRetirementMortality{Discount: false}},
	}
	for _, tt := range tests {
		t.Run(tt.spec, func(t *testing.T) {
			got, err := registry.ParseTransformSpec(tt.spec)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseTransformSpec_Errors(t *testing.T) {
	registry := NewTransformRegistry()

	tests := []struct {
		spec string
		want string
	}{
		{"set_health", "expected 'name:params'"},
		{"set_health:poor", "expected 'key=value'"},
		{"retire_now:x=1", "unknown transform"},
		{"set_health:rating=poor", "requires 'health' parameter"},
		{"set_health:health=fragile", "fragile"},
		{"set_real_rate:rate=abc", "invalid rate value"},
		{"set_age:age=sixty", "invalid age value"},
		{"set_pre65_mortality:discount=maybe", "invalid discount value"},
	}
	for _, tt := range tests {
		t.Run(tt.spec, func(t *testing.T) {
			_, err := registry.ParseTransformSpec(tt.spec)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestBuiltInTemplates(t *testing.T) {
	registry := CreateBuiltInTemplates()
	assert.Equal(t, []string{
		"alive_at_65", "excellent_health", "half_savings", "high_return",
		"no_wage_growth", "pessimist", "poor_health", "zero_return",
	}, registry.List())

	base := domain.DefaultScenarioInput()
	for _, name := range registry.List() {
		tmpl, ok := registry.Get(name)
		require.True(t, ok, name)
		assert.NotEmpty(t, tmpl.Description, name)
		_, err := ApplyTemplate(base, tmpl)
		assert.NoError(t, err, name)
	}

	tmpl, ok := registry.Get("PESSIMIST")
	require.True(t, ok)
	out, err := ApplyTemplate(base, tmpl)
	require.NoError(t, err)
	assert.Equal(t, domain.HealthPoor, out.Health)
	assert.True(t, out.RealRateOfReturn.IsZero())

	_, ok = registry.Get("missing")
	assert.False(t, ok)
}
