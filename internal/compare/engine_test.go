package compare

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rgehrsitz/cppbridge/internal/calculation"
	"github.com/rgehrsitz/cppbridge/internal/config"
	"github.com/rgehrsitz/cppbridge/internal/domain"
)

func testScenarios() []config.NamedScenario {
	early := domain.DefaultScenarioInput()

	at65 := domain.DefaultScenarioInput()
	at65.CurrentAge = 65
	at65.Savings = decimal.NewFromInt(200000)

	poor := domain.DefaultScenarioInput()
	poor.Health = domain.HealthPoor

	return []config.NamedScenario{
		{Name: "Early saver", Input: early},
		{Name: "Reference 65", Input: at65},
		{Name: "Poor health", Input: poor},
	}
}

func TestCompareScenarios(t *testing.T) {
	ce := NewCompareEngine(calculation.NewCalculationEngine())

	set, err := ce.CompareScenarios(context.Background(), testScenarios(), "Early saver", []string{"Reference 65"})
	require.NoError(t, err)

	assert.Equal(t, "Early saver", set.BaseScenarioName)
	require.NotNil(t, set.BaseResult)
	assert.Equal(t, "79506.57", set.BaseResult.Output.BridgeCostLumpSum.StringFixed(2))
	require.Len(t, set.AlternativeResults, 1)

	alt := set.AlternativeResults[0]
	assert.Equal(t, "Reference 65", alt.ScenarioName)
	assert.Equal(t, "8318.15", alt.BridgeCostDiff.StringFixed(2))
	assert.True(t, alt.ProbabilityDiff.Equal(alt.Output.ProbabilityOfWinning.Sub(set.BaseResult.Output.ProbabilityOfWinning)))
	assert.NotEmpty(t, set.Recommendations)
}

func TestCompareScenarios_AllOthers(t *testing.T) {
	ce := NewCompareEngine(calculation.NewCalculationEngine())

	set, err := ce.CompareScenarios(context.Background(), testScenarios(), "Early saver", nil)
	require.NoError(t, err)
	require.Len(t, set.AlternativeResults, 2)
	assert.Equal(t, "Reference 65", set.AlternativeResults[0].ScenarioName)
	assert.Equal(t, "Poor health", set.AlternativeResults[1].ScenarioName)

	poor := set.AlternativeResults[1]
	assert.True(t, poor.ProbabilityDiff.IsNegative(), poor.ProbabilityDiff.String())
	assert.Zero(t, poor.BreakevenDiff, "breakeven does not depend on health")
}

func TestCompareScenarios_NotFound(t *testing.T) {
	ce := NewCompareEngine(calculation.NewCalculationEngine())

	_, err := ce.CompareScenarios(context.Background(), testScenarios(), "Nobody", nil)
	assert.ErrorContains(t, err, "base scenario Nobody not found")

	_, err = ce.CompareScenarios(context.Background(), testScenarios(), "Early saver", []string{"Nobody"})
	assert.ErrorContains(t, err, "alternative scenario Nobody not found")
}

func TestCompareTemplates(t *testing.T) {
	ce := NewCompareEngine(calculation.NewCalculationEngine())
	base := testScenarios()[0]

	set, err := ce.Compare(context.Background(), base, []string{"poor_health", "half_savings"})
	require.NoError(t, err)
	require.Len(t, set.AlternativeResults, 2)

	poor := set.AlternativeResults[0]
	assert.Equal(t, "Early saver_poor_health", poor.ScenarioName)
	assert.Equal(t, "Same person in poor health", poor.Description)
	assert.Equal(t, domain.HealthPoor, poor.Input.Health)
	assert.True(t, poor.BridgeCostDiff.IsZero())
	assert.True(t, poor.ProbabilityDiff.IsNegative())

	// 75,000 no longer covers the 79,506.57 bridge
	half := set.AlternativeResults[1]
	assert.True(t, half.AffordabilityChanged)
	assert.False(t, half.Output.IsAffordable)
	assert.Contains(t, set.Recommendations, "Bridge becomes unaffordable: Early saver_half_savings (short $4507)")

	_, err = ce.Compare(context.Background(), base, []string{"lottery_win"})
	assert.ErrorContains(t, err, "template lottery_win not found")
}

func TestCompare_Cancelled(t *testing.T) {
	ce := NewCompareEngine(calculation.NewCalculationEngine())
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := ce.Compare(ctx, testScenarios()[0], nil)
	assert.ErrorIs(t, err, context.Canceled)
}
