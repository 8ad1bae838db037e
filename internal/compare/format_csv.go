package compare

import (
	"encoding/csv"
	"strconv"
	"strings"
)

// CSVFormatter formats comparison results as CSV
type CSVFormatter struct{}

// Format generates CSV output for comparison results
func (cf *CSVFormatter) Format(compSet *ComparisonSet) (string, error) {
	var sb strings.Builder
	writer := csv.NewWriter(&sb)

	header := []string{
		"Scenario",
		"Type",
		"Bridge Cost",
		"Affordable",
		"Breakeven Age",
		"Chance of Winning",
		"Expected Gain",
		"Recommendation",
		"Bridge Cost Diff",
		"Breakeven Diff",
		"Probability Diff",
		"Gain Diff",
	}
	if err := writer.Write(header); err != nil {
		return "", err
	}

	if err := writer.Write(cf.formatRow(compSet.BaseResult, "base")); err != nil {
		return "", err
	}
	for i := range compSet.AlternativeResults {
		if err := writer.Write(cf.formatRow(&compSet.AlternativeResults[i], "alternative")); err != nil {
			return "", err
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return "", err
	}
	return sb.String(), nil
}

func (cf *CSVFormatter) formatRow(result *ComparisonResult, scenarioType string) []string {
	out := result.Output
	return []string{
		result.ScenarioName,
		scenarioType,
		out.BridgeCostLumpSum.StringFixed(2),
		strconv.FormatBool(out.IsAffordable),
		strconv.Itoa(out.BreakevenAgeEconomic),
		out.ProbabilityOfWinning.StringFixed(4),
		out.ExpectedLifetimeGain.StringFixed(2),
		out.Recommendation,
		result.BridgeCostDiff.StringFixed(2),
		strconv.Itoa(result.BreakevenDiff),
		result.ProbabilityDiff.StringFixed(4),
		result.GainDiff.StringFixed(2),
	}
}
