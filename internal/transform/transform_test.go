package transform

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rgehrsitz/cppbridge/internal/domain"
)

func TestApplyTransforms(t *testing.T) {
	base := domain.DefaultScenarioInput()

	out, err := ApplyTransforms(base, []ScenarioTransform{
		&SetHealth{Health: domain.HealthPoor},
		&AdjustRealRate{Delta: decimal.NewFromFloat(0.02)},
		&AdjustSavings{Delta: decimal.NewFromInt(-50000)},
	})
	require.NoError(t, err)

	assert.Equal(t, domain.HealthPoor, out.Health)
	assert.True(t, out.RealRateOfReturn.Equal(decimal.NewFromFloat(0.03)), out.RealRateOfReturn.String())
	assert.True(t, out.Savings.Equal(decimal.NewFromInt(100000)))

	// base is a value and stays untouched
	assert.Equal(t, domain.HealthAverage, base.Health)
	assert.True(t, base.Savings.Equal(decimal.NewFromInt(150000)))
}

func TestApplyTransforms_Empty(t *testing.T) {
	base := domain.DefaultScenarioInput()
	out, err := ApplyTransforms(base, nil)
	require.NoError(t, err)
	assert.Equal(t, base, out)
}

func TestApplyTransforms_Errors(t *testing.T) {
	base := domain.DefaultScenarioInput()

	tests := []struct {
		name       string
		transforms []ScenarioTransform
		want       string
	}{
		{"nil transform", []ScenarioTransform{nil}, "index 0 is nil"},
		{"rate too high", []ScenarioTransform{&SetRealRate{Rate: decimal.NewFromFloat(0.2)}}, "set_real_rate validation failed"},
		{"adjusted below zero", []ScenarioTransform{&AdjustRealRate{Delta: decimal.NewFromFloat(-0.05)}}, "adjust_real_rate validation failed"},
		{"savings below zero", []ScenarioTransform{&AdjustSavings{Delta: decimal.NewFromInt(-200000)}}, "would drop below zero"},
		{"bad health", []ScenarioTransform{&SetHealth{Health: "fragile"}}, "invalid health rating"},
		{"bad sex", []ScenarioTransform{&SetSex{Sex: "x"}}, "invalid sex"},
		{"age out of range", []ScenarioTransform{&SetCurrentAge{Age: 80}}, "age must be between"},
		{"negative factor", []ScenarioTransform{&ScaleSavings{Factor: decimal.NewFromInt(-1)}}, "factor cannot be negative"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := ApplyTransforms(base, tt.transforms)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
			assert.Equal(t, base, out)
		})
	}
}

func TestTransformError(t *testing.T) {
	cause := errors.New("boom")
	err := NewTransformError("set_age", "validate", "bad age", cause)
	assert.Equal(t, "transform set_age (validate): bad age: boom", err.Error())
	assert.ErrorIs(t, err, cause)

	err = NewTransformError("set_age", "validate", "bad age", nil)
	assert.Equal(t, "transform set_age (validate): bad age", err.Error())
}

func TestDescriptions(t *testing.T) {
	assert.Equal(t, "Real rate of return of 3.00%", (&SetRealRate{Rate: decimal.NewFromFloat(0.03)}).Description())
	assert.Equal(t, "Real rate of return 1.00 points lower", (&AdjustRealRate{Delta: decimal.NewFromFloat(-0.01)}).Description())
	assert.Equal(t, "$25000 more in savings", (&AdjustSavings{Delta: decimal.NewFromInt(25000)}).Description())
	assert.Equal(t, "poor health", (&SetHealth{Health: domain.HealthPoor}).Description())
	assert.Equal(t, "Assumed alive at 65", (&SetPreRetirementMortality{}).Description())
	assert.Equal(t, "Deciding at age 60", (&SetCurrentAge{Age: 60}).Description())
}

func TestScaleSavings(t *testing.T) {
	out, err := ApplyTransforms(domain.DefaultScenarioInput(), []ScenarioTransform{&ScaleSavings{Factor: decimal.NewFromFloat(0.5)}})
	require.NoError(t, err)
	assert.True(t, out.Savings.Equal(decimal.NewFromInt(75000)))
}
