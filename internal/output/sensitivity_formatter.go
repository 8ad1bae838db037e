package output

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strconv"
	"strings"

	"github.com/rgehrsitz/cppbridge/internal/domain"
	"github.com/shopspring/decimal"
)

// SensitivityFormatter defines a formatter for sensitivity analysis
type SensitivityFormatter interface {
	FormatSensitivityAnalysis(analysis *domain.ParameterSensitivityAnalysis) (string, error)
	Name() string
}

// FormatParameterValue renders a swept value in the parameter's unit
func FormatParameterValue(param domain.SensitivityParameter, v decimal.Decimal) string {
	switch param.Unit {
	case "percent":
		return FormatRate(v)
	case "dollars":
		return FormatCurrency(v)
	case "years":
		return v.Round(0).String()
	default:
		return v.String()
	}
}

// SensitivityConsoleFormatter formats sensitivity analysis output for console
type SensitivityConsoleFormatter struct{}

func (scf SensitivityConsoleFormatter) Name() string { return "console" }

func (scf SensitivityConsoleFormatter) FormatSensitivityAnalysis(analysis *domain.ParameterSensitivityAnalysis) (string, error) {
	if analysis == nil || len(analysis.Results) == 0 {
		return "", fmt.Errorf("no results in analysis")
	}

	var buf bytes.Buffer
	param := analysis.Parameter
	base, _ := analysis.BaseInput.ParameterValue(param.Name)

	fmt.Fprintf(&buf, "SENSITIVITY ANALYSIS: %s\n", strings.ToUpper(strings.ReplaceAll(param.Name, "_", " ")))
	fmt.Fprintf(&buf, "=================================================================\n")
	fmt.Fprintf(&buf, "Base Case: %s = %s\n", param.Name, FormatParameterValue(param, base))
	fmt.Fprintf(&buf, "Range: %s to %s (%d steps)\n",
		FormatParameterValue(param, param.MinValue),
		FormatParameterValue(param, param.MaxValue),
		param.Steps)
	if param.Description != "" {
		fmt.Fprintf(&buf, "Description: %s\n", param.Description)
	}
	fmt.Fprintln(&buf)

	fmt.Fprintf(&buf, "%-18s %-14s %-10s %-10s %-10s %s\n",
		param.Name, "Bridge Cost", "Afford", "Breakeven", "P(win)", "Recommendation")
	fmt.Fprintln(&buf, strings.Repeat("-", 84))

	for _, result := range analysis.Results {
		valueStr := FormatParameterValue(param, result.ParameterValue)
		if result.ParameterValue.Equal(base) {
			valueStr += " ← BASE"
		}
		out := result.Output
		fmt.Fprintf(&buf, "%-18s %-14s %-10s %-10s %-10s %s\n",
			valueStr,
			FormatCurrency(out.BridgeCostLumpSum),
			yesNo(out.IsAffordable),
			FormatBreakeven(out.BreakevenAgeEconomic, out.BreakevenFound),
			FormatProbability(out.ProbabilityOfWinning),
			out.Recommendation)
	}
	fmt.Fprintln(&buf)

	s := analysis.Summary
	fmt.Fprintln(&buf, "SPREAD:")
	fmt.Fprintf(&buf, "  Bridge cost:     %s to %s\n", FormatCurrency(s.MinBridgeCost), FormatCurrency(s.MaxBridgeCost))
	fmt.Fprintf(&buf, "  Breakeven age:   %d to %d\n", s.MinBreakevenAge, s.MaxBreakevenAge)
	fmt.Fprintf(&buf, "  P(win):          %s to %s\n", FormatProbability(s.MinProbability), FormatProbability(s.MaxProbability))
	fmt.Fprintf(&buf, "  Recommendation changes: %d, affordability changes: %d\n", s.RecommendationChanges, s.AffordabilityChanges)
	fmt.Fprintln(&buf)

	riskEmoji := ""
	switch s.RiskLevel {
	case "LOW":
		riskEmoji = "✅"
	case "MEDIUM":
		riskEmoji = "⚠️"
	case "HIGH":
		riskEmoji = "🔴"
	}
	fmt.Fprintf(&buf, "RISK LEVEL: %s %s\n", riskEmoji, s.RiskLevel)
	fmt.Fprintln(&buf)

	fmt.Fprintln(&buf, "RECOMMENDATIONS:")
	for _, rec := range s.Recommendations {
		fmt.Fprintf(&buf, "  • %s\n", rec)
	}

	return buf.String(), nil
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}

// SensitivityCSVFormatter formats sensitivity analysis output as CSV
type SensitivityCSVFormatter struct{}

func (scf SensitivityCSVFormatter) Name() string { return "csv" }

func (scf SensitivityCSVFormatter) FormatSensitivityAnalysis(analysis *domain.ParameterSensitivityAnalysis) (string, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	header := []string{"parameter_name", "parameter_value", "bridge_cost", "is_affordable",
		"breakeven_age", "breakeven_found", "probability_of_winning", "expected_lifetime_gain", "recommendation"}
	if err := w.Write(header); err != nil {
		return "", err
	}
	for _, result := range analysis.Results {
		out := result.Output
		row := []string{
			analysis.Parameter.Name,
			result.ParameterValue.String(),
			out.BridgeCostLumpSum.StringFixed(2),
			strconv.FormatBool(out.IsAffordable),
			strconv.Itoa(out.BreakevenAgeEconomic),
			strconv.FormatBool(out.BreakevenFound),
			out.ProbabilityOfWinning.StringFixed(4),
			out.ExpectedLifetimeGain.StringFixed(2),
			out.Recommendation,
		}
		if err := w.Write(row); err != nil {
			return "", err
		}
	}
	w.Flush()
	return buf.String(), w.Error()
}

// SensitivityJSONFormatter formats sensitivity analysis output as JSON
type SensitivityJSONFormatter struct{}

func (sjf SensitivityJSONFormatter) Name() string { return "json" }

func (sjf SensitivityJSONFormatter) FormatSensitivityAnalysis(analysis *domain.ParameterSensitivityAnalysis) (string, error) {
	data, err := MarshalJSON(analysis, true)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// NewSensitivityFormatter creates a sensitivity formatter based on the format name
func NewSensitivityFormatter(format string) SensitivityFormatter {
	switch NormalizeFormatName(format) {
	case "csv":
		return SensitivityCSVFormatter{}
	case "json":
		return SensitivityJSONFormatter{}
	default:
		return SensitivityConsoleFormatter{}
	}
}
