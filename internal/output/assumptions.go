package output

import (
	"fmt"

	"github.com/rgehrsitz/cppbridge/internal/domain"
)

// DefaultAssumptions lists the fixed modeling assumptions rendered in detailed outputs.
var DefaultAssumptions = []string{
	fmt.Sprintf("Delaying from %d to %d multiplies the age-%d benefit by %.2f",
		domain.EarlyClaimAge, domain.DelayedClaimAge, domain.EarlyClaimAge, domain.DelayFactor),
	fmt.Sprintf("The bridge pays the age-%d target monthly for %d months, starting at the beginning of each month",
		domain.DelayedClaimAge, domain.BridgeMonths),
	"Benefits and returns are in today's dollars (real terms)",
	fmt.Sprintf("Survival is measured in whole years and mortality is certain at age %d", domain.MaxAge),
	"Excellent health rates you 3 years younger, poor health 5 years older",
	fmt.Sprintf("Leftover savings compound at the real rate until age %d", domain.EstateHorizonAge),
}

// AssumptionsFor adds the scenario-specific rates to the fixed assumptions
func AssumptionsFor(in domain.ScenarioInput, mortalitySource string) []string {
	out := append([]string(nil), DefaultAssumptions...)
	out = append(out,
		fmt.Sprintf("Real rate of return: %s", FormatRate(in.RealRateOfReturn)),
		fmt.Sprintf("Wage growth indexing the benefit: %s", FormatRate(in.WageGrowth)),
	)
	if mortalitySource != "" {
		out = append(out, "Mortality: "+mortalitySource)
	}
	return out
}
