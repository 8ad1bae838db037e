package breakeven

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"

	"github.com/rgehrsitz/cppbridge/internal/domain"
	"github.com/rgehrsitz/cppbridge/internal/output"
)

// FormatSummary renders a summary as console text, JSON or YAML
func FormatSummary(summary *Summary, format string) ([]byte, error) {
	switch output.NormalizeFormatName(format) {
	case "json":
		return output.MarshalJSON(summary, true)
	case "yaml":
		return yaml.Marshal(summary)
	case "console":
		return []byte(formatTable(summary)), nil
	}
	return nil, fmt.Errorf("unknown format %q (expected console, json or yaml)", format)
}

func formatTable(summary *Summary) string {
	var sb strings.Builder

	sb.WriteString("BREAK-EVEN ASSUMPTIONS\n")
	sb.WriteString(strings.Repeat("=", 72) + "\n")
	sb.WriteString(fmt.Sprintf("Goal: %s\n\n", summary.Goal))

	sb.WriteString(fmt.Sprintf("%-12s %-12s %-22s %-14s %s\n", "Target", "Now", "Range", "Goal holds", "Threshold"))
	sb.WriteString(strings.Repeat("-", 72) + "\n")
	for _, r := range summary.Results {
		holds := "no"
		if r.BaseMeetsGoal() {
			holds = "yes"
		}
		span := formatValue(r.Target, r.Min) + " to " + formatValue(r.Target, r.Max)
		sb.WriteString(fmt.Sprintf("%-12s %-12s %-22s %-14s %s\n",
			r.Target, formatValue(r.Target, r.BaseValue), span, holds, formatThreshold(r)))
	}

	if len(summary.Recommendations) > 0 {
		sb.WriteString("\nWHAT IT TAKES\n")
		sb.WriteString(strings.Repeat("-", 72) + "\n")
		for _, rec := range summary.Recommendations {
			sb.WriteString("  • " + rec + "\n")
		}
	}
	return sb.String()
}

func formatThreshold(r Result) string {
	switch {
	case !r.Success:
		return "never"
	case r.AlwaysMet:
		return "always"
	}
	return string(r.Direction) + " " + formatValue(r.Target, r.Threshold)
}

// formatValue prints a target's value in its natural unit
func formatValue(target string, v decimal.Decimal) string {
	switch target {
	case domain.ParamRealRate, domain.ParamWageGrowth:
		return output.FormatRate(v)
	case domain.ParamSavings:
		return output.FormatCurrency(v.Round(0))
	case domain.ParamCurrentAge:
		return v.Round(0).String()
	}
	return v.String()
}
