package calculation

import (
	"context"
	"math"

	"github.com/rgehrsitz/cppbridge/internal/domain"
	"github.com/shopspring/decimal"
)

// StreamValuesAt65 values both claiming choices at 65 for someone who lives
// exactly to age. Early is the annuity-due of the age-65 benefit for
// (age-65)*12 months. Delayed is zero before 70, otherwise the annuity-due of
// the enhanced benefit for (age-70)*12 months discounted 60 months back.
// Neither side includes the bridge financing cost.
func StreamValuesAt65(benefit, target, monthlyRate float64, age int) (early, delayed float64) {
	early = AnnuityDuePV(benefit, monthlyRate, (age-domain.EarlyClaimAge)*12)
	if age < domain.DelayedClaimAge {
		return early, 0
	}
	atDelay := AnnuityDuePV(target, monthlyRate, (age-domain.DelayedClaimAge)*12)
	delayed = atDelay / math.Pow(1+monthlyRate, domain.BridgeMonths)
	return early, delayed
}

// FindEconomicBreakeven returns the first age from 71 to 105 at which the
// delayed stream is worth more than the early one. When there is none it
// returns the ceiling and false.
func FindEconomicBreakeven(benefit, target, monthlyRate float64) (int, bool) {
	for age := domain.DelayedClaimAge + 1; age <= domain.BreakevenCeilingAge; age++ {
		early, delayed := StreamValuesAt65(benefit, target, monthlyRate, age)
		if delayed > early {
			return age, true
		}
	}
	return domain.BreakevenCeilingAge, false
}

// nominalValues sums both streams without discounting over the same horizon
// as StreamValuesAt65
func nominalValues(benefit, target float64, age int) (early, delayed float64) {
	early = benefit * float64((age-domain.EarlyClaimAge)*12)
	if age > domain.DelayedClaimAge {
		delayed = target * float64((age-domain.DelayedClaimAge)*12)
	}
	return early, delayed
}

// AnalyzeBreakeven tabulates both streams for every age from 66 to 105,
// alongside the undiscounted cash totals and the survival odds of reaching
// each age.
func (ce *CalculationEngine) AnalyzeBreakeven(ctx context.Context, in domain.ScenarioInput) (*domain.BreakevenAnalysis, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := in.Validate(); err != nil {
		return nil, err
	}

	realRate := in.RealRateOfReturn.InexactFloat64()
	rm := MonthlyRate(realRate)
	benefit := in.BenefitAt65.InexactFloat64()
	target := TargetMonthlyAt70(benefit, in.WageGrowth.InexactFloat64())
	startAge := in.ProbabilityStartAge()

	analysis := &domain.BreakevenAnalysis{
		Input:               in,
		TargetMonthlyAt70:   roundMoney(target),
		EconomicBreakeven:   domain.BreakevenCeilingAge,
		NominalBreakeven:    domain.BreakevenCeilingAge,
		ProbabilityStartAge: startAge,
	}

	for age := domain.EarlyClaimAge + 1; age <= domain.BreakevenCeilingAge; age++ {
		early, delayed := StreamValuesAt65(benefit, target, rm, age)
		nomEarly, nomDelayed := nominalValues(benefit, target, age)
		survival, err := ce.Model.SurvivalProbability(startAge, age, in.Sex, in.Health)
		if err != nil {
			return nil, wrapErr("breakeven", "survival to candidate age", err)
		}

		point := domain.BreakevenPoint{
			Age:               age,
			PVEarly:           roundMoney(early),
			PVDelayed:         roundMoney(delayed),
			Difference:        roundMoney(delayed - early),
			NominalEarly:      roundMoney(nomEarly),
			NominalDelayed:    roundMoney(nomDelayed),
			SurvivalToAge:     roundProbability(survival),
			DelayedIsAhead:    delayed > early,
			NominalDelayAhead: nomDelayed > nomEarly,
		}
		analysis.Points = append(analysis.Points, point)

		if point.DelayedIsAhead && !analysis.EconomicFound {
			analysis.EconomicBreakeven = age
			analysis.EconomicFound = true
		}
		if point.NominalDelayAhead && !analysis.NominalFound {
			analysis.NominalBreakeven = age
			analysis.NominalFound = true
		}
	}

	ce.Logger.Debugf("breakeven analysis: economic=%d (found=%t) nominal=%d (found=%t)",
		analysis.EconomicBreakeven, analysis.EconomicFound, analysis.NominalBreakeven, analysis.NominalFound)
	return analysis, nil
}

func roundMoney(v float64) decimal.Decimal {
	return decimal.NewFromFloat(v).Round(2)
}

func roundProbability(v float64) decimal.Decimal {
	return decimal.NewFromFloat(v).Round(4)
}
