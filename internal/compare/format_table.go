package compare

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/rgehrsitz/cppbridge/internal/output"
)

// TableFormatter formats comparison results as a console table
type TableFormatter struct{}

// Format generates a formatted table comparing scenarios
func (tf *TableFormatter) Format(compSet *ComparisonSet) string {
	var sb strings.Builder

	sb.WriteString("CPP BRIDGE SCENARIO COMPARISON\n")
	sb.WriteString(strings.Repeat("=", 88) + "\n")
	sb.WriteString(fmt.Sprintf("Base Scenario: %s\n", compSet.BaseScenarioName))
	if compSet.MortalitySource != "" {
		sb.WriteString(fmt.Sprintf("Mortality:     %s\n", compSet.MortalitySource))
	}
	sb.WriteString("\n")

	nameWidth := 28
	numWidth := 11

	sb.WriteString(fmt.Sprintf("%-*s %*s %*s %*s %*s  %s\n",
		nameWidth, "Scenario",
		numWidth, "Bridge",
		numWidth, "Breakeven",
		numWidth, "P(win)",
		numWidth, "Exp. Gain",
		"Decision"))
	sb.WriteString(strings.Repeat("-", 88) + "\n")

	sb.WriteString(tf.formatRow(compSet.BaseResult, nameWidth, numWidth, true))
	if len(compSet.AlternativeResults) > 0 {
		sb.WriteString(strings.Repeat("-", 88) + "\n")
		for i := range compSet.AlternativeResults {
			sb.WriteString(tf.formatRow(&compSet.AlternativeResults[i], nameWidth, numWidth, false))
		}
	}
	sb.WriteString(strings.Repeat("=", 88) + "\n")

	if len(compSet.AlternativeResults) > 0 {
		sb.WriteString("\nCOMPARISON TO BASE\n")
		sb.WriteString(strings.Repeat("-", 88) + "\n")

		for _, alt := range compSet.AlternativeResults {
			sb.WriteString(fmt.Sprintf("\n%s:\n", alt.ScenarioName))
			if alt.Description != "" {
				sb.WriteString(fmt.Sprintf("  %s\n", alt.Description))
			}
			sb.WriteString(fmt.Sprintf("  Bridge Cost:       %s\n", tf.signedMoney(alt.BridgeCostDiff)))
			if alt.BreakevenDiff != 0 {
				sb.WriteString(fmt.Sprintf("  Breakeven Age:     %+d years\n", alt.BreakevenDiff))
			}
			sb.WriteString(fmt.Sprintf("  Chance of Winning: %s%s points\n",
				tf.deltaSymbol(alt.ProbabilityDiff), alt.ProbabilityDiff.Mul(decimal.NewFromInt(100)).StringFixed(1)))
			sb.WriteString(fmt.Sprintf("  Expected Gain:     %s\n", tf.signedMoney(alt.GainDiff)))
		}
		sb.WriteString("\n")
	}

	if len(compSet.Recommendations) > 0 {
		sb.WriteString("\nRECOMMENDATIONS\n")
		sb.WriteString(strings.Repeat("-", 88) + "\n")
		for _, rec := range compSet.Recommendations {
			sb.WriteString(fmt.Sprintf("• %s\n", rec))
		}
		sb.WriteString("\n")
	}

	return sb.String()
}

func (tf *TableFormatter) formatRow(result *ComparisonResult, nameWidth, numWidth int, isBase bool) string {
	name := result.ScenarioName
	if isBase {
		name += " (base)"
	}
	out := result.Output

	return fmt.Sprintf("%-*s %*s %*s %*s %*s  %s\n",
		nameWidth, tf.truncate(name, nameWidth),
		numWidth, "$"+tf.formatDecimal(out.BridgeCostLumpSum),
		numWidth, output.FormatBreakeven(out.BreakevenAgeEconomic, out.BreakevenFound),
		numWidth, output.FormatProbability(out.ProbabilityOfWinning),
		numWidth, "$"+tf.formatDecimal(out.ExpectedLifetimeGain),
		out.Recommendation)
}

// formatDecimal formats a decimal for display, in thousands from 1,000 up
func (tf *TableFormatter) formatDecimal(d decimal.Decimal) string {
	if d.Abs().GreaterThanOrEqual(decimal.NewFromInt(1000000)) {
		return d.Div(decimal.NewFromInt(1000000)).StringFixed(2) + "M"
	} else if d.Abs().GreaterThanOrEqual(decimal.NewFromInt(1000)) {
		return d.Div(decimal.NewFromInt(1000)).StringFixed(1) + "K"
	}
	return d.StringFixed(0)
}

// signedMoney prints a money delta as +$1.2K or -$1.2K
func (tf *TableFormatter) signedMoney(d decimal.Decimal) string {
	sign := ""
	switch {
	case d.IsPositive():
		sign = "+"
	case d.IsNegative():
		sign = "-"
	}
	return sign + "$" + tf.formatDecimal(d.Abs())
}

// deltaSymbol prefixes non-negative deltas; negative ones carry their own sign
func (tf *TableFormatter) deltaSymbol(delta decimal.Decimal) string {
	if delta.IsPositive() {
		return "+"
	} else if delta.IsNegative() {
		return ""
	}
	return " "
}

func (tf *TableFormatter) truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen-3] + "..."
}

// FormatCompact creates a single-line summary of each alternative
func (tf *TableFormatter) FormatCompact(compSet *ComparisonSet) string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("Base: %s | ", compSet.BaseScenarioName))
	for i, alt := range compSet.AlternativeResults {
		if i > 0 {
			sb.WriteString(" | ")
		}
		change := "="
		if !alt.ProbabilityDiff.IsZero() {
			change = fmt.Sprintf("%s%s pts", tf.deltaSymbol(alt.ProbabilityDiff),
				alt.ProbabilityDiff.Mul(decimal.NewFromInt(100)).StringFixed(1))
		}
		sb.WriteString(fmt.Sprintf("%s: %s", alt.ScenarioName, change))
	}
	return sb.String()
}
