package calculation

import (
	"context"
	"testing"

	"github.com/rgehrsitz/cppbridge/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStreamValuesAt65(t *testing.T) {
	target := TargetMonthlyAt70(1000, 0.011)
	rm := MonthlyRate(0.01)

	early, delayed := StreamValuesAt65(1000, target, rm, 69)
	assert.Greater(t, early, 0.0)
	assert.Zero(t, delayed, "nothing is paid before 70")

	early, delayed = StreamValuesAt65(1000, target, rm, 70)
	assert.InDelta(t, AnnuityDuePV(1000, rm, 60), early, 1e-9)
	assert.Zero(t, delayed)

	_, before := StreamValuesAt65(1000, target, rm, 80)
	earlyAt81, after := StreamValuesAt65(1000, target, rm, 81)
	assert.Greater(t, after, before)
	assert.Greater(t, after, earlyAt81)
}

func TestFindEconomicBreakeven(t *testing.T) {
	target := TargetMonthlyAt70(1000, 0.011)

	tests := []struct {
		name     string
		rate     float64
		expected int
		found    bool
	}{
		{"zero rate", 0, 81, true},
		{"one percent", 0.01, 81, true},
		{"three percent", 0.03, 83, true},
		{"fifteen percent never crosses", 0.15, domain.BreakevenCeilingAge, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			age, found := FindEconomicBreakeven(1000, target, MonthlyRate(tt.rate))
			assert.Equal(t, tt.expected, age)
			assert.Equal(t, tt.found, found)
		})
	}
}

func TestFindEconomicBreakeven_ScaleFree(t *testing.T) {
	rm := MonthlyRate(0.02)
	a, _ := FindEconomicBreakeven(1000, TargetMonthlyAt70(1000, 0.011), rm)
	b, _ := FindEconomicBreakeven(250, TargetMonthlyAt70(250, 0.011), rm)
	assert.Equal(t, a, b, "breakeven depends on the ratio of the streams only")
}

func TestAnalyzeBreakeven(t *testing.T) {
	engine := NewCalculationEngine()
	analysis, err := engine.AnalyzeBreakeven(context.Background(), scenario(60, 200000, 0.03))
	require.NoError(t, err)

	require.Len(t, analysis.Points, domain.BreakevenCeilingAge-domain.EarlyClaimAge)
	assert.Equal(t, 66, analysis.Points[0].Age)
	assert.Equal(t, 83, analysis.EconomicBreakeven)
	assert.True(t, analysis.EconomicFound)
	assert.Equal(t, 81, analysis.NominalBreakeven)
	assert.True(t, analysis.NominalFound)
	assert.Equal(t, 60, analysis.ProbabilityStartAge)

	p81 := analysis.Points[81-66]
	assert.Equal(t, 81, p81.Age)
	assert.Equal(t, "0.6651", p81.SurvivalToAge.String())
	assert.True(t, p81.NominalDelayAhead)
	assert.False(t, p81.DelayedIsAhead)

	for i := 1; i < len(analysis.Points); i++ {
		assert.True(t, analysis.Points[i].SurvivalToAge.LessThanOrEqual(analysis.Points[i-1].SurvivalToAge),
			"survival must not increase with age")
	}
}

func TestAnalyzeBreakeven_ZeroRateMatchesNominal(t *testing.T) {
	engine := NewCalculationEngine()
	analysis, err := engine.AnalyzeBreakeven(context.Background(), scenario(65, 0, 0))
	require.NoError(t, err)

	assert.Equal(t, analysis.NominalBreakeven, analysis.EconomicBreakeven)
	for _, p := range analysis.Points {
		assert.True(t, p.PVEarly.Equal(p.NominalEarly), "age %d", p.Age)
		assert.True(t, p.PVDelayed.Equal(p.NominalDelayed), "age %d", p.Age)
	}
}

func TestAnalyzeBreakeven_InvalidInput(t *testing.T) {
	_, err := NewCalculationEngine().AnalyzeBreakeven(context.Background(), scenario(80, 0, 0.01))
	assert.Error(t, err)
}
