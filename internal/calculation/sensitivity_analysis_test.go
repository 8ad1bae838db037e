package calculation

import (
	"context"
	"testing"

	"github.com/rgehrsitz/cppbridge/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateParameterValues(t *testing.T) {
	sa := NewSensitivityAnalyzer(nil)

	values := sa.generateParameterValues(domain.RealRateParam)
	require.Len(t, values, 6)
	assert.True(t, values[0].IsZero())
	assert.Equal(t, "0.01", values[1].String())
	assert.Equal(t, "0.05", values[5].String())

	single := domain.SensitivityParameter{Name: domain.ParamSavings, BaseValue: decimal.NewFromInt(42), Steps: 1}
	assert.Equal(t, []decimal.Decimal{decimal.NewFromInt(42)}, sa.generateParameterValues(single))
}

func TestAnalyzeSingleParameter_RealRate(t *testing.T) {
	sa := NewSensitivityAnalyzer(NewCalculationEngine())
	analysis, err := sa.AnalyzeSingleParameter(context.Background(), scenario(65, 200000, 0.01), domain.RealRateParam)
	require.NoError(t, err)

	require.Len(t, analysis.Results, 6)
	assert.True(t, analysis.Results[0].Input.RealRateOfReturn.IsZero())

	s := analysis.Summary
	assertMoney(t, 89990.23, s.MaxBridgeCost, "zero rate is the most expensive bridge")
	assert.True(t, s.MinBridgeCost.LessThan(s.MaxBridgeCost))
	assert.Equal(t, 81, s.MinBreakevenAge)
	assert.Greater(t, s.MaxBreakevenAge, s.MinBreakevenAge, "higher rates push the breakeven out")
	assert.True(t, s.MinProbability.LessThan(s.MaxProbability))
	assert.Contains(t, []string{"LOW", "MEDIUM", "HIGH"}, s.RiskLevel)
	assert.NotEmpty(t, s.Recommendations)
}

func TestAnalyzeSingleParameter_Savings(t *testing.T) {
	sa := NewSensitivityAnalyzer(nil)
	analysis, err := sa.AnalyzeSingleParameter(context.Background(), scenario(65, 0, 0.01), domain.SavingsParam)
	require.NoError(t, err)

	require.Len(t, analysis.Results, 5)
	assert.False(t, analysis.Results[0].Output.IsAffordable)
	assert.True(t, analysis.Results[4].Output.IsAffordable)
	assert.Equal(t, 1, analysis.Summary.AffordabilityChanges)
	assert.Zero(t, analysis.Summary.RecommendationChanges, "savings never move the recommendation")
	assert.Equal(t, analysis.Summary.MinBreakevenAge, analysis.Summary.MaxBreakevenAge)
}

func TestAnalyzeSingleParameter_CurrentAge(t *testing.T) {
	sa := NewSensitivityAnalyzer(nil)
	analysis, err := sa.AnalyzeSingleParameter(context.Background(), domain.DefaultScenarioInput(), domain.CurrentAgeParam)
	require.NoError(t, err)

	ages := make([]int, 0, len(analysis.Results))
	for _, r := range analysis.Results {
		ages = append(ages, r.Input.CurrentAge)
	}
	assert.Equal(t, []int{45, 50, 55, 60, 65, 70}, ages)
}

func TestAnalyzeSingleParameter_Errors(t *testing.T) {
	sa := NewSensitivityAnalyzer(nil)
	base := domain.DefaultScenarioInput()

	_, err := sa.AnalyzeSingleParameter(context.Background(), base, domain.SensitivityParameter{Name: "colour", Steps: 2})
	assert.ErrorContains(t, err, "unknown sensitivity parameter")

	_, err = sa.AnalyzeSingleParameter(context.Background(), base, domain.SensitivityParameter{Name: domain.ParamSavings})
	assert.ErrorContains(t, err, "at least one step")

	bad := domain.RealRateParam
	bad.MaxValue = decimal.NewFromFloat(0.5)
	_, err = sa.AnalyzeSingleParameter(context.Background(), base, bad)
	assert.ErrorContains(t, err, "failed to evaluate")
}

func TestAnalyzeMultipleParameters(t *testing.T) {
	sa := NewSensitivityAnalyzer(nil)
	analyses, err := sa.AnalyzeMultipleParameters(context.Background(), domain.DefaultScenarioInput(), domain.GetCommonParameters())
	require.NoError(t, err)
	assert.Len(t, analyses, len(domain.GetCommonParameters()))
}
