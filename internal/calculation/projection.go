package calculation

import (
	"context"
	"math"

	"github.com/rgehrsitz/cppbridge/internal/domain"
	"github.com/shopspring/decimal"
)

// Project lays out every month from today to 115 with the survival weight,
// discount factor and cash flow of both claiming choices. The PV columns sum
// to the unconditional EPVs reported by Evaluate.
func (ce *CalculationEngine) Project(ctx context.Context, in domain.ScenarioInput) (*domain.Projection, error) {
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

	months := (domain.MaxAge - in.CurrentAge + 1) * 12
	proj := &domain.Projection{
		Input:      in,
		TargetAt70: roundMoney(target),
		Rows:       make([]domain.ProjectionRow, 0, months),
	}

	var totalEarly, totalDelayed float64
	survival := 1.0
	for t := 0; t < months; t++ {
		ageYear := in.CurrentAge + t/12
		if t%12 == 0 {
			p, err := ce.Model.SurvivalProbability(in.CurrentAge, ageYear, in.Sex, in.Health)
			if err != nil {
				return nil, wrapErr("projection", "survival to year start", err)
			}
			survival = p
		}

		discount := math.Pow(1+rm, float64(t))
		var cfEarly, cfDelayed float64
		if ageYear >= domain.EarlyClaimAge {
			cfEarly = benefit
		}
		if ageYear >= domain.DelayedClaimAge {
			cfDelayed = target
		}
		pvEarly := cfEarly * survival / discount
		pvDelayed := cfDelayed * survival / discount
		totalEarly += pvEarly
		totalDelayed += pvDelayed

		proj.Rows = append(proj.Rows, domain.ProjectionRow{
			MonthIndex:        t,
			AgeYear:           ageYear,
			AgeMonth:          t % 12,
			SurvivalYearStart: decimal.NewFromFloat(survival).Round(6),
			DiscountFactor:    decimal.NewFromFloat(1 / discount).Round(6),
			EarlyCashflow:     roundMoney(cfEarly),
			EarlyPV:           decimal.NewFromFloat(pvEarly).Round(4),
			DelayedCashflow:   roundMoney(cfDelayed),
			DelayedPV:         decimal.NewFromFloat(pvDelayed).Round(4),
			CumulativeEarlyPV: roundMoney(totalEarly),
			CumulativeDelayPV: roundMoney(totalDelayed),
		})
	}

	proj.TotalEarlyPV = roundMoney(totalEarly)
	proj.TotalDelayedPV = roundMoney(totalDelayed)
	ce.debugf("projection: %d months, early pv=%.4f delayed pv=%.4f", len(proj.Rows), totalEarly, totalDelayed)
	return proj, nil
}
