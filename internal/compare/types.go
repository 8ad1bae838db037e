package compare

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/rgehrsitz/cppbridge/internal/domain"
)

// ComparisonResult is one evaluated scenario with its deltas from the base
type ComparisonResult struct {
	ScenarioName string                 `json:"scenarioName"`
	Description  string                 `json:"description,omitempty"`
	Input        domain.ScenarioInput   `json:"input"`
	Output       *domain.ScenarioOutput `json:"output"`

	// Comparison to base
	BridgeCostDiff        decimal.Decimal `json:"bridgeCostDiff"`
	BreakevenDiff         int             `json:"breakevenDiff"`
	ProbabilityDiff       decimal.Decimal `json:"probabilityDiff"`
	GainDiff              decimal.Decimal `json:"gainDiff"`
	RecommendationChanged bool            `json:"recommendationChanged"`
	AffordabilityChanged  bool            `json:"affordabilityChanged"`
}

// ComparisonSet is a base scenario and its alternatives
type ComparisonSet struct {
	BaseScenarioName   string             `json:"baseScenarioName"`
	BaseResult         *ComparisonResult  `json:"baseResult"`
	AlternativeResults []ComparisonResult `json:"alternativeResults"`
	Recommendations    []string           `json:"recommendations"`
	MortalitySource    string             `json:"mortalitySource,omitempty"`
}

// CalculateComparison fills the deltas of scenario against base
func CalculateComparison(scenario, base ComparisonResult) ComparisonResult {
	s, b := scenario.Output, base.Output
	scenario.BridgeCostDiff = s.BridgeCostLumpSum.Sub(b.BridgeCostLumpSum)
	scenario.BreakevenDiff = s.BreakevenAgeEconomic - b.BreakevenAgeEconomic
	scenario.ProbabilityDiff = s.ProbabilityOfWinning.Sub(b.ProbabilityOfWinning)
	scenario.GainDiff = s.ExpectedLifetimeGain.Sub(b.ExpectedLifetimeGain)
	scenario.RecommendationChanged = s.Recommendation != b.Recommendation
	scenario.AffordabilityChanged = s.IsAffordable != b.IsAffordable
	return scenario
}

// GenerateRecommendations picks out what moves the decision
func GenerateRecommendations(compSet *ComparisonSet) []string {
	recommendations := []string{}

	if len(compSet.AlternativeResults) == 0 {
		return recommendations
	}
	base := compSet.BaseResult

	for _, alt := range compSet.AlternativeResults {
		if alt.RecommendationChanged {
			recommendations = append(recommendations,
				fmt.Sprintf("Decision flips: %s moves from %q to %q",
					alt.ScenarioName, base.Output.Recommendation, alt.Output.Recommendation))
		}
		if alt.AffordabilityChanged {
			if alt.Output.IsAffordable {
				recommendations = append(recommendations,
					fmt.Sprintf("Bridge becomes affordable: %s", alt.ScenarioName))
			} else {
				recommendations = append(recommendations,
					fmt.Sprintf("Bridge becomes unaffordable: %s (short $%s)",
						alt.ScenarioName, alt.Output.ShortfallAmount.StringFixed(0)))
			}
		}
	}

	bestOdds := base
	for i := range compSet.AlternativeResults {
		alt := &compSet.AlternativeResults[i]
		if alt.Output.ProbabilityOfWinning.GreaterThan(bestOdds.Output.ProbabilityOfWinning) {
			bestOdds = alt
		}
	}
	if bestOdds != base {
		recommendations = append(recommendations,
			fmt.Sprintf("Best odds: %s raises the chance of winning by %s points",
				bestOdds.ScenarioName, bestOdds.ProbabilityDiff.Mul(decimal.NewFromInt(100)).StringFixed(1)))
	}

	bestGain := base
	for i := range compSet.AlternativeResults {
		alt := &compSet.AlternativeResults[i]
		if alt.Output.ExpectedLifetimeGain.GreaterThan(bestGain.Output.ExpectedLifetimeGain) {
			bestGain = alt
		}
	}
	if bestGain != base {
		recommendations = append(recommendations,
			fmt.Sprintf("Largest expected gain: %s adds $%s from delaying",
				bestGain.ScenarioName, bestGain.GainDiff.StringFixed(0)))
	}

	if len(recommendations) == 0 {
		recommendations = append(recommendations, "No alternative improves on or changes the base decision")
	}
	return recommendations
}
