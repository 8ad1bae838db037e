package calculation

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProject_TotalsMatchEvaluate(t *testing.T) {
	engine := NewCalculationEngine()
	in := scenario(65, 200000, 0.01)

	proj, err := engine.Project(context.Background(), in)
	require.NoError(t, err)
	out, err := engine.Evaluate(context.Background(), in)
	require.NoError(t, err)

	require.Len(t, proj.Rows, (115-65+1)*12)
	assert.Equal(t, out.EPVEarly.String(), proj.TotalEarlyPV.String())
	assert.Equal(t, out.EPVDelayed.String(), proj.TotalDelayedPV.String())
	assert.Equal(t, out.TargetMonthlyIncomeAt70.String(), proj.TargetAt70.String())
}

func TestProject_Rows(t *testing.T) {
	engine := NewCalculationEngine()
	proj, err := engine.Project(context.Background(), scenario(60, 0, 0.03))
	require.NoError(t, err)

	first := proj.Rows[0]
	assert.Equal(t, 0, first.MonthIndex)
	assert.Equal(t, 60, first.AgeYear)
	assert.Equal(t, "1", first.SurvivalYearStart.String())
	assert.Equal(t, "1", first.DiscountFactor.String())
	assert.True(t, first.EarlyCashflow.IsZero(), "no income before 65")

	at65 := proj.Rows[60]
	assert.Equal(t, 65, at65.AgeYear)
	assert.Equal(t, 0, at65.AgeMonth)
	assert.Equal(t, "1000", at65.EarlyCashflow.String())
	assert.True(t, at65.DelayedCashflow.IsZero())

	at70 := proj.Rows[120]
	assert.Equal(t, 70, at70.AgeYear)
	assert.Equal(t, "1499.84", at70.DelayedCashflow.String())

	// Survival is stepped annually, so every month of a year shares it.
	assert.Equal(t, at65.SurvivalYearStart.String(), proj.Rows[71].SurvivalYearStart.String())

	last := proj.Rows[len(proj.Rows)-1]
	assert.Equal(t, 115, last.AgeYear)
	assert.Equal(t, 11, last.AgeMonth)
	assert.Equal(t, proj.TotalEarlyPV.String(), last.CumulativeEarlyPV.String())
}

func TestProject_InvalidInput(t *testing.T) {
	_, err := NewCalculationEngine().Project(context.Background(), scenario(20, 0, 0.01))
	assert.Error(t, err)
}
