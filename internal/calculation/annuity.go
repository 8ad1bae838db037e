package calculation

import (
	"math"

	"github.com/rgehrsitz/cppbridge/internal/domain"
	"github.com/rgehrsitz/cppbridge/internal/mortality"
)

// MonthlyRate converts an annual effective rate to its monthly equivalent
func MonthlyRate(annual float64) float64 {
	return math.Pow(1+annual, 1.0/12) - 1
}

// AnnuityDuePV values n level payments made at the start of each period.
// A zero rate is an exact undiscounted sum.
func AnnuityDuePV(pmt, rate float64, n int) float64 {
	if n <= 0 {
		return 0
	}
	if rate == 0 {
		return pmt * float64(n)
	}
	v := 1 / (1 + rate)
	return pmt * ((1 - math.Pow(v, float64(n))) / rate) * (1 + rate)
}

// ExpectedPresentValue values a monthly life annuity starting at startAge for
// someone aged currentAge. Survival is annual: every month of an age-year
// carries the probability of reaching the start of that year. Age-years
// already behind currentAge are skipped.
func ExpectedPresentValue(m *mortality.Model, pmt float64, startAge, currentAge int, realRate float64, sex domain.Sex, health domain.HealthRating) (float64, error) {
	rm := MonthlyRate(realRate)
	first := max(startAge, currentAge)

	epv := 0.0
	for age := first; age <= domain.MaxAge; age++ {
		p, err := m.SurvivalProbability(currentAge, age, sex, health)
		if err != nil {
			return 0, err
		}
		if p == 0 {
			break
		}
		for month := 0; month < 12; month++ {
			elapsed := (age-currentAge)*12 + month
			epv += pmt * p / math.Pow(1+rm, float64(elapsed))
		}
	}
	return epv, nil
}

// ConditionalEPV rescales an EPV to assume survival to some age. It refuses
// (returns the value unchanged and false) when that survival is zero.
func ConditionalEPV(epv, survival float64) (float64, bool) {
	if survival <= 0 {
		return epv, false
	}
	return epv / survival, true
}
