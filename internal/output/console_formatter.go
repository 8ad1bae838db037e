package output

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/rgehrsitz/cppbridge/internal/domain"
)

// ConsoleFormatter renders the full decision for every scenario
type ConsoleFormatter struct{}

func (c ConsoleFormatter) Name() string { return "console" }

func (c ConsoleFormatter) Format(report *domain.ScenarioReport) ([]byte, error) {
	if report == nil || len(report.Results) == 0 {
		return nil, fmt.Errorf("no scenario results to format")
	}

	var buf bytes.Buffer
	fmt.Fprintln(&buf, "=================================================================================")
	fmt.Fprintln(&buf, "CPP BRIDGE ANALYSIS: TAKE AT 65 OR BRIDGE TO 70")
	fmt.Fprintln(&buf, "=================================================================================")
	fmt.Fprintln(&buf)

	for i, r := range report.Results {
		writeScenario(&buf, i+1, r)
	}

	assumptions := report.Assumptions
	if len(assumptions) == 0 {
		assumptions = DefaultAssumptions
	}
	fmt.Fprintln(&buf, "ASSUMPTIONS")
	fmt.Fprintln(&buf, "===========")
	for _, a := range assumptions {
		fmt.Fprintf(&buf, "  - %s\n", a)
	}
	if report.MortalitySource != "" {
		fmt.Fprintf(&buf, "  - Mortality table: %s\n", report.MortalitySource)
	}
	return buf.Bytes(), nil
}

func writeScenario(buf *bytes.Buffer, n int, r domain.ScenarioResult) {
	in, out := r.Input, r.Output

	fmt.Fprintf(buf, "SCENARIO %d: %s\n", n, r.Name)
	fmt.Fprintln(buf, strings.Repeat("=", 50))

	fmt.Fprintln(buf, "INPUTS:")
	fmt.Fprintf(buf, "  Current Age:            %d (%s, %s health)\n", in.CurrentAge, in.Sex, in.Health)
	fmt.Fprintf(buf, "  CPP Estimate at 65:     %s/month\n", FormatCurrency(in.BenefitAt65))
	fmt.Fprintf(buf, "  RRSP Savings:           %s\n", FormatCurrency(in.Savings))
	fmt.Fprintf(buf, "  Real Rate of Return:    %s\n", FormatRate(in.RealRateOfReturn))
	fmt.Fprintf(buf, "  Wage Growth:            %s\n", FormatRate(in.WageGrowth))
	fmt.Fprintf(buf, "  Pre-65 Mortality:       %s\n", MortalityTreatment(in))
	fmt.Fprintln(buf)

	fmt.Fprintln(buf, "THE BRIDGE:")
	fmt.Fprintf(buf, "  Target Income at 70:    %s/month\n", FormatCurrency(out.TargetMonthlyIncomeAt70))
	fmt.Fprintf(buf, "  Bridge Cost Today:      %s\n", FormatCurrency(out.BridgeCostLumpSum))
	if out.IsAffordable {
		fmt.Fprintf(buf, "  Status:                 AFFORDABLE (surplus %s)\n", FormatCurrency(out.SurplusAmount))
		fmt.Fprintf(buf, "  Surplus Value at 85:    %s\n", FormatCurrency(out.BonusEstateValueAt85))
	} else {
		fmt.Fprintf(buf, "  Status:                 SHORTFALL of %s\n", FormatCurrency(out.ShortfallAmount))
	}
	fmt.Fprintln(buf)

	fmt.Fprintln(buf, "THE GAMBLE:")
	fmt.Fprintf(buf, "  Breakeven Age:          %s\n", FormatBreakeven(out.BreakevenAgeEconomic, out.BreakevenFound))
	fmt.Fprintf(buf, "  Chance of Winning:      %s\n", FormatProbability(out.ProbabilityOfWinning))
	fmt.Fprintf(buf, "  Life Expectancy:        %s\n", out.LifeExpectancy.StringFixed(1))
	epvNote := ""
	if out.EPVConditional {
		epvNote = " (given survival to 65)"
	}
	fmt.Fprintf(buf, "  EPV Take Early:         %s%s\n", FormatCurrency(out.EPVEarly), epvNote)
	fmt.Fprintf(buf, "  EPV Delay to 70:        %s%s\n", FormatCurrency(out.EPVDelayed), epvNote)
	if out.ExpectedLifetimeGain.IsPositive() {
		fmt.Fprintf(buf, "  Expected Gain:          +%s\n", FormatCurrency(out.ExpectedLifetimeGain))
	} else {
		fmt.Fprintf(buf, "  Expected Gain:          %s\n", FormatCurrency(out.ExpectedLifetimeGain))
	}
	fmt.Fprintln(buf)

	fmt.Fprintf(buf, "RECOMMENDATION: %s\n", out.Recommendation)
	fmt.Fprintf(buf, "  %s\n", out.RecommendationReasoning)
	fmt.Fprintln(buf)
	fmt.Fprintln(buf)
}

// ConsoleLiteFormatter prints one line per scenario
type ConsoleLiteFormatter struct{}

func (c ConsoleLiteFormatter) Name() string { return "console-lite" }

func (c ConsoleLiteFormatter) Format(report *domain.ScenarioReport) ([]byte, error) {
	var buf bytes.Buffer
	fmt.Fprintln(&buf, "CPP BRIDGE SUMMARY")
	fmt.Fprintln(&buf, "================================")
	for _, r := range report.Results {
		out := r.Output
		fmt.Fprintf(&buf, "%s: Cost=%s Affordable=%t Breakeven=%s P(win)=%s -> %s\n",
			r.Name,
			FormatCurrency(out.BridgeCostLumpSum),
			out.IsAffordable,
			FormatBreakeven(out.BreakevenAgeEconomic, out.BreakevenFound),
			FormatProbability(out.ProbabilityOfWinning),
			out.Recommendation,
		)
	}
	return buf.Bytes(), nil
}
