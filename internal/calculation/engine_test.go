package calculation

import (
	"context"
	"errors"
	"testing"

	"github.com/rgehrsitz/cppbridge/internal/domain"
	"github.com/rgehrsitz/cppbridge/internal/mortality"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func scenario(age int, savings, realRate float64) domain.ScenarioInput {
	in := domain.DefaultScenarioInput()
	in.CurrentAge = age
	in.Savings = decimal.NewFromFloat(savings)
	in.RealRateOfReturn = decimal.NewFromFloat(realRate)
	return in
}

func assertMoney(t *testing.T, expected float64, actual decimal.Decimal, msgAndArgs ...any) {
	t.Helper()
	assert.InDelta(t, expected, actual.InexactFloat64(), 0.011, msgAndArgs...)
}

func TestNewCalculationEngine(t *testing.T) {
	engine := NewCalculationEngine()

	assert.NotNil(t, engine.Model, "Should initialize mortality model")
	assert.Equal(t, "binary", engine.Policy.Name(), "Should default to binary policy")
	assert.IsType(t, NopLogger{}, engine.Logger)
}

func TestCalculationEngine_SetLogger(t *testing.T) {
	engine := NewCalculationEngine()

	custom := zap.NewNop().Sugar()
	engine.SetLogger(custom)
	assert.Equal(t, custom, engine.Logger)

	engine.SetLogger(nil)
	assert.IsType(t, NopLogger{}, engine.Logger, "nil should restore the no-op logger")
}

func TestTargetMonthlyAt70(t *testing.T) {
	assert.InDelta(t, 1499.837204, TargetMonthlyAt70(1000, 0.011), 1e-6)
	assert.InDelta(t, 1420.0, TargetMonthlyAt70(1000, 0), 1e-9, "no wage growth leaves only the delay factor")
}

func TestBridgeCostToday(t *testing.T) {
	target := TargetMonthlyAt70(1000, 0.011)

	assert.InDelta(t, 87824.719799, BridgeCostToday(target, 0.01, 65), 1e-4)
	assert.InDelta(t, target*60, BridgeCostToday(target, 0, 65), 1e-9, "zero rate is the plain sum")
	assert.InDelta(t, 79506.57, BridgeCostToday(target, 0.01, 55), 0.01)
	assert.InDelta(t, BridgeCostToday(target, 0.01, 65), BridgeCostToday(target, 0.01, 75), 1e-9,
		"no discounting once past 65")
}

func TestEvaluate_ReferenceAge65(t *testing.T) {
	engine := NewCalculationEngine()
	out, err := engine.Evaluate(context.Background(), scenario(65, 200000, 0.01))
	require.NoError(t, err)

	assertMoney(t, 1499.84, out.TargetMonthlyIncomeAt70)
	assertMoney(t, 87824.72, out.BridgeCostLumpSum)
	assert.True(t, out.IsAffordable)
	assert.True(t, out.ShortfallAmount.IsZero())
	assertMoney(t, 112175.28, out.SurplusAmount)
	assertMoney(t, 136875.16, out.BonusEstateValueAt85)
	assert.Equal(t, 81, out.BreakevenAgeEconomic)
	assert.True(t, out.BreakevenFound)
	assert.Equal(t, "0.6906", out.ProbabilityOfWinning.String())
	assert.Equal(t, "85.2", out.LifeExpectancy.String())
	assertMoney(t, 221069.08, out.EPVEarly)
	assertMoney(t, 245605.92, out.EPVDelayed)
	assertMoney(t, 24536.84, out.ExpectedLifetimeGain)
	assert.False(t, out.EPVConditional)
	assert.Equal(t, LabelDelay, out.Recommendation)
	assert.Equal(t, "binary", out.RecommendationPolicy)
	assert.Contains(t, out.RecommendationReasoning, "live past age 81")
	assert.Contains(t, out.RecommendationReasoning, "average health")
	assert.Contains(t, out.RecommendationReasoning, "69.1%")
}

func TestEvaluate_Shortfall(t *testing.T) {
	engine := NewCalculationEngine()
	out, err := engine.Evaluate(context.Background(), scenario(65, 50000, 0.03))
	require.NoError(t, err)

	assertMoney(t, 83759.15, out.BridgeCostLumpSum)
	assert.False(t, out.IsAffordable)
	assertMoney(t, 33759.15, out.ShortfallAmount)
	assert.True(t, out.SurplusAmount.IsZero())
	assert.True(t, out.BonusEstateValueAt85.IsZero(), "no surplus means no estate")
	assert.Equal(t, 83, out.BreakevenAgeEconomic)
	assert.Equal(t, "0.6221", out.ProbabilityOfWinning.String())
}

func TestEvaluate_YoungerSaver(t *testing.T) {
	engine := NewCalculationEngine()
	out, err := engine.Evaluate(context.Background(), scenario(55, 150000, 0.01))
	require.NoError(t, err)

	assertMoney(t, 79506.57, out.BridgeCostLumpSum)
	assertMoney(t, 70493.43, out.SurplusAmount)
	assertMoney(t, 95014.49, out.BonusEstateValueAt85)
	assert.Equal(t, 81, out.BreakevenAgeEconomic)
	assert.Equal(t, "0.6496", out.ProbabilityOfWinning.String())
	assert.Equal(t, "83.8", out.LifeExpectancy.String())
	assertMoney(t, 188231.23, out.EPVEarly)
	assertMoney(t, 209123.35, out.EPVDelayed)
}

func TestEvaluate_ZeroRealRate(t *testing.T) {
	engine := NewCalculationEngine()
	out, err := engine.Evaluate(context.Background(), scenario(65, 0, 0))
	require.NoError(t, err)

	assertMoney(t, 89990.23, out.BridgeCostLumpSum)
	assert.False(t, out.IsAffordable)
	assertMoney(t, 89990.23, out.ShortfallAmount)
	assert.Equal(t, 81, out.BreakevenAgeEconomic)
}

func TestEvaluate_ConditionalOnReaching65(t *testing.T) {
	engine := NewCalculationEngine()
	in := scenario(55, 150000, 0.01)
	in.Sex = domain.Female
	in.DiscountPreRetirementMortality = false

	out, err := engine.Evaluate(context.Background(), in)
	require.NoError(t, err)

	assertMoney(t, 79506.57, out.BridgeCostLumpSum)
	assert.Equal(t, 81, out.BreakevenAgeEconomic)
	assert.Equal(t, "0.7765", out.ProbabilityOfWinning.String(), "measured from 65")
	assert.Equal(t, "86.7", out.LifeExpectancy.String())
	assert.True(t, out.EPVConditional)
	assertMoney(t, 222562.65, out.EPVEarly)
	assertMoney(t, 255411.67, out.EPVDelayed)
}

func TestEvaluate_DiscountFlagIgnoredFrom65(t *testing.T) {
	engine := NewCalculationEngine()
	with := scenario(65, 200000, 0.01)
	without := with
	without.DiscountPreRetirementMortality = false

	a, err := engine.Evaluate(context.Background(), with)
	require.NoError(t, err)
	b, err := engine.Evaluate(context.Background(), without)
	require.NoError(t, err)

	assert.Equal(t, a.ProbabilityOfWinning.String(), b.ProbabilityOfWinning.String())
	assert.Equal(t, a.EPVEarly.String(), b.EPVEarly.String())
	assert.False(t, b.EPVConditional)
}

func TestEvaluate_NoBreakeven(t *testing.T) {
	engine := NewCalculationEngine()
	out, err := engine.Evaluate(context.Background(), scenario(30, 150000, 0.15))
	require.NoError(t, err)

	assertMoney(t, 489.05, out.BridgeCostLumpSum)
	assert.Equal(t, domain.BreakevenCeilingAge, out.BreakevenAgeEconomic)
	assert.False(t, out.BreakevenFound)
	assert.Equal(t, "0.0018", out.ProbabilityOfWinning.String())
	assert.Equal(t, LabelTakeEarly, out.Recommendation)
	assert.Contains(t, out.RecommendationReasoning, "never catches up")
}

func TestEvaluate_PastSixtyFive(t *testing.T) {
	engine := NewCalculationEngine()
	out, err := engine.Evaluate(context.Background(), scenario(75, 100000, 0.01))
	require.NoError(t, err)

	assertMoney(t, 87824.72, out.BridgeCostLumpSum)
	assertMoney(t, 12175.28, out.SurplusAmount)
	assertMoney(t, 13449.08, out.BonusEstateValueAt85)
	assert.Equal(t, 81, out.BreakevenAgeEconomic)
	assert.Equal(t, "0.8098", out.ProbabilityOfWinning.String())
	assert.Equal(t, "87.7", out.LifeExpectancy.String())
}

func TestEvaluate_HealthRatings(t *testing.T) {
	engine := NewCalculationEngine()
	cmp, err := engine.EvaluateAllHealth(context.Background(), scenario(60, 200000, 0.03))
	require.NoError(t, err)
	require.Len(t, cmp.Results, 3)

	tests := []struct {
		health      domain.HealthRating
		probability string
		le          string
		label       string
	}{
		{domain.HealthExcellent, "0.6851", "87", LabelDelay},
		{domain.HealthAverage, "0.5991", "84.4", LabelDelay},
		{domain.HealthPoor, "0.419", "80.2", LabelTakeEarly},
	}
	for _, tt := range tests {
		t.Run(string(tt.health), func(t *testing.T) {
			out := cmp.Results[tt.health]
			assertMoney(t, 72251.38, out.BridgeCostLumpSum)
			assert.Equal(t, 83, out.BreakevenAgeEconomic, "breakeven does not depend on health")
			assert.Equal(t, tt.probability, out.ProbabilityOfWinning.String())
			assert.Equal(t, tt.le, out.LifeExpectancy.String())
			assert.Equal(t, tt.label, out.Recommendation)
		})
	}

	poor := cmp.Results[domain.HealthPoor]
	assertMoney(t, 120103.65, poor.EPVDelayed)
	assertMoney(t, 123912.36, poor.EPVEarly)
	assert.True(t, poor.ExpectedLifetimeGain.IsNegative())
}

func TestEvaluate_TieredPolicy(t *testing.T) {
	engine := NewCalculationEngineWithModel(nil, TieredPolicy{})
	out, err := engine.Evaluate(context.Background(), scenario(60, 200000, 0.03))
	require.NoError(t, err)

	assert.Equal(t, LabelConsiderDelay, out.Recommendation, "0.599 sits in the judgement band")
	assert.Equal(t, "tiered", out.RecommendationPolicy)
}

func TestEvaluate_InvalidInput(t *testing.T) {
	engine := NewCalculationEngine()
	in := scenario(29, -1, 0.2)
	in.BenefitAt65 = decimal.Zero

	out, err := engine.Evaluate(context.Background(), in)
	require.Error(t, err)
	assert.Nil(t, out)

	var verrs domain.ValidationErrors
	require.True(t, errors.As(err, &verrs))
	assert.ElementsMatch(t,
		[]string{"current_age", "cpp_estimate_at_65", "rrsp_savings", "real_rate_of_return"},
		verrs.Fields())
}

func TestEvaluate_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewCalculationEngine().Evaluate(ctx, domain.DefaultScenarioInput())
	assert.ErrorIs(t, err, context.Canceled)
}

func TestEvaluate_GompertzModel(t *testing.T) {
	table, err := mortality.Open(mortality.SourceGompertz, "")
	require.NoError(t, err)
	engine := NewCalculationEngineWithModel(mortality.NewModel(table), nil)

	out, err := engine.Evaluate(context.Background(), scenario(65, 200000, 0.01))
	require.NoError(t, err)

	assert.Equal(t, 81, out.BreakevenAgeEconomic, "breakeven does not depend on mortality")
	p := out.ProbabilityOfWinning.InexactFloat64()
	assert.Greater(t, p, 0.0)
	assert.Less(t, p, 1.0)
}

func TestEvaluate_DebugLogging(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	engine := NewCalculationEngine()
	engine.SetLogger(zap.New(core).Sugar())
	engine.Debug = true

	_, err := engine.Evaluate(context.Background(), scenario(65, 200000, 0.01))
	require.NoError(t, err)

	assert.Equal(t, 1, logs.FilterMessageSnippet("breakeven age=81 found=true").Len())
	assert.Equal(t, 1, logs.FilterMessageSnippet("evaluated age=65").Len())

	engine.Debug = false
	logs.TakeAll()
	_, err = engine.Evaluate(context.Background(), scenario(65, 200000, 0.01))
	require.NoError(t, err)
	assert.Zero(t, logs.FilterMessageSnippet("breakeven age=").Len(), "step tracing is off without Debug")
}
