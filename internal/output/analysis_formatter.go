package output

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strconv"
	"strings"

	"github.com/rgehrsitz/cppbridge/internal/domain"
	"gopkg.in/yaml.v3"
)

// encodeStructured handles the formats every analysis shares. ok is false for
// formats the caller must render itself.
func encodeStructured(v any, format string) (data []byte, ok bool, err error) {
	switch NormalizeFormatName(format) {
	case "json":
		data, err = MarshalJSON(v, true)
		return data, true, err
	case "yaml":
		data, err = yaml.Marshal(v)
		return data, true, err
	}
	return nil, false, nil
}

func writeCSV(rows [][]string) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.WriteAll(rows); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// FormatBreakevenAnalysis renders the age-by-age crossover table
func FormatBreakevenAnalysis(a *domain.BreakevenAnalysis, format string) ([]byte, error) {
	if data, ok, err := encodeStructured(a, format); ok {
		return data, err
	}

	if NormalizeFormatName(format) == "csv" {
		rows := [][]string{{"age", "pv_early", "pv_delayed", "difference", "nominal_early", "nominal_delayed", "survival_to_age"}}
		for _, p := range a.Points {
			rows = append(rows, []string{
				strconv.Itoa(p.Age),
				p.PVEarly.StringFixed(2),
				p.PVDelayed.StringFixed(2),
				p.Difference.StringFixed(2),
				p.NominalEarly.StringFixed(2),
				p.NominalDelayed.StringFixed(2),
				p.SurvivalToAge.StringFixed(4),
			})
		}
		return writeCSV(rows)
	}

	var buf bytes.Buffer
	fmt.Fprintln(&buf, "BREAKEVEN ANALYSIS (values at 65, income streams only)")
	fmt.Fprintln(&buf, "=================================================================")
	fmt.Fprintf(&buf, "Target income at 70:   %s/month\n", FormatCurrency(a.TargetMonthlyAt70))
	fmt.Fprintf(&buf, "Economic breakeven:    %s\n", FormatBreakeven(a.EconomicBreakeven, a.EconomicFound))
	fmt.Fprintf(&buf, "Nominal breakeven:     %s\n", FormatBreakeven(a.NominalBreakeven, a.NominalFound))
	fmt.Fprintf(&buf, "Survival measured from age %d\n", a.ProbabilityStartAge)
	fmt.Fprintln(&buf)
	fmt.Fprintf(&buf, "%-5s %-14s %-14s %-14s %-10s\n", "Age", "Take Early", "Delay to 70", "Difference", "Survival")
	fmt.Fprintln(&buf, strings.Repeat("-", 62))
	for _, p := range a.Points {
		marker := ""
		if a.EconomicFound && p.Age == a.EconomicBreakeven {
			marker = " ← BREAKEVEN"
		}
		fmt.Fprintf(&buf, "%-5d %-14s %-14s %-14s %-10s%s\n",
			p.Age,
			FormatCurrency(p.PVEarly),
			FormatCurrency(p.PVDelayed),
			FormatCurrency(p.Difference),
			FormatProbability(p.SurvivalToAge),
			marker)
	}
	return buf.Bytes(), nil
}

// FormatProjection renders the monthly projection. The console form shows
// one line per age-year.
func FormatProjection(p *domain.Projection, format string) ([]byte, error) {
	if data, ok, err := encodeStructured(p, format); ok {
		return data, err
	}

	if NormalizeFormatName(format) == "csv" {
		rows := [][]string{{"month_index", "age_year", "age_month", "survival_to_year_start", "discount_factor",
			"early_cashflow", "early_pv", "delayed_cashflow", "delayed_pv", "cumulative_early_pv", "cumulative_delayed_pv"}}
		for _, r := range p.Rows {
			rows = append(rows, []string{
				strconv.Itoa(r.MonthIndex),
				strconv.Itoa(r.AgeYear),
				strconv.Itoa(r.AgeMonth),
				r.SurvivalYearStart.StringFixed(6),
				r.DiscountFactor.StringFixed(6),
				r.EarlyCashflow.StringFixed(2),
				r.EarlyPV.StringFixed(4),
				r.DelayedCashflow.StringFixed(2),
				r.DelayedPV.StringFixed(4),
				r.CumulativeEarlyPV.StringFixed(2),
				r.CumulativeDelayPV.StringFixed(2),
			})
		}
		return writeCSV(rows)
	}

	var buf bytes.Buffer
	fmt.Fprintln(&buf, "SURVIVAL-WEIGHTED PROJECTION (present values today)")
	fmt.Fprintln(&buf, "=================================================================")
	fmt.Fprintf(&buf, "%-5s %-10s %-14s %-14s %-14s %-14s\n", "Age", "Survival", "Early/month", "Delay/month", "Cum. Early", "Cum. Delay")
	fmt.Fprintln(&buf, strings.Repeat("-", 76))
	for _, r := range p.Rows {
		if r.AgeMonth != 11 {
			continue
		}
		fmt.Fprintf(&buf, "%-5d %-10s %-14s %-14s %-14s %-14s\n",
			r.AgeYear,
			FormatProbability(r.SurvivalYearStart),
			FormatCurrency(r.EarlyCashflow),
			FormatCurrency(r.DelayedCashflow),
			FormatCurrency(r.CumulativeEarlyPV),
			FormatCurrency(r.CumulativeDelayPV))
	}
	fmt.Fprintln(&buf)
	fmt.Fprintf(&buf, "Total EPV take early:  %s\n", FormatCurrency(p.TotalEarlyPV))
	fmt.Fprintf(&buf, "Total EPV delay to 70: %s\n", FormatCurrency(p.TotalDelayedPV))
	return buf.Bytes(), nil
}

// FormatHealthComparison renders one input under every health rating
func FormatHealthComparison(c *domain.HealthComparison, format string) ([]byte, error) {
	if data, ok, err := encodeStructured(c, format); ok {
		return data, err
	}

	if NormalizeFormatName(format) == "csv" {
		rows := [][]string{{"health_status", "breakeven_age", "probability_of_winning", "life_expectancy",
			"epv_early", "epv_delayed", "expected_lifetime_gain", "recommendation"}}
		for _, h := range domain.AllHealthRatings {
			out, ok := c.Results[h]
			if !ok {
				continue
			}
			rows = append(rows, []string{
				string(h),
				strconv.Itoa(out.BreakevenAgeEconomic),
				out.ProbabilityOfWinning.StringFixed(4),
				out.LifeExpectancy.StringFixed(1),
				out.EPVEarly.StringFixed(2),
				out.EPVDelayed.StringFixed(2),
				out.ExpectedLifetimeGain.StringFixed(2),
				out.Recommendation,
			})
		}
		return writeCSV(rows)
	}

	var buf bytes.Buffer
	fmt.Fprintln(&buf, "HEALTH COMPARISON")
	fmt.Fprintln(&buf, "=================================================================")
	fmt.Fprintf(&buf, "Age %d %s, breakeven does not depend on health.\n", c.Input.CurrentAge, c.Input.Sex)
	fmt.Fprintln(&buf)
	fmt.Fprintf(&buf, "%-10s %-10s %-8s %-14s %s\n", "Health", "P(win)", "LE", "Expected Gain", "Recommendation")
	fmt.Fprintln(&buf, strings.Repeat("-", 66))
	for _, h := range domain.AllHealthRatings {
		out, ok := c.Results[h]
		if !ok {
			continue
		}
		fmt.Fprintf(&buf, "%-10s %-10s %-8s %-14s %s\n",
			h,
			FormatProbability(out.ProbabilityOfWinning),
			out.LifeExpectancy.StringFixed(1),
			FormatCurrency(out.ExpectedLifetimeGain),
			out.Recommendation)
	}
	return buf.Bytes(), nil
}

// SurvivalReport is the life-expectancy view for one person
type SurvivalReport struct {
	CurrentAge     int                    `json:"current_age" yaml:"current_age"`
	Sex            domain.Sex             `json:"gender" yaml:"gender"`
	Health         domain.HealthRating    `json:"health_status" yaml:"health_status"`
	LifeExpectancy float64                `json:"life_expectancy" yaml:"life_expectancy"`
	Curve          []domain.SurvivalPoint `json:"survival_curve" yaml:"survival_curve"`
}

// FormatSurvivalReport renders life expectancy and the survival curve
func FormatSurvivalReport(r *SurvivalReport, format string) ([]byte, error) {
	if data, ok, err := encodeStructured(r, format); ok {
		return data, err
	}

	if NormalizeFormatName(format) == "csv" {
		rows := [][]string{{"age", "survival_probability"}}
		for _, p := range r.Curve {
			rows = append(rows, []string{strconv.Itoa(p.Age), p.Probability.StringFixed(6)})
		}
		return writeCSV(rows)
	}

	var buf bytes.Buffer
	fmt.Fprintf(&buf, "LIFE EXPECTANCY: age %d, %s, %s health\n", r.CurrentAge, r.Sex, r.Health)
	fmt.Fprintln(&buf, "=================================================================")
	fmt.Fprintf(&buf, "Expected age at death: %.1f\n", r.LifeExpectancy)
	fmt.Fprintln(&buf)
	for _, p := range r.Curve {
		if p.Age%5 != 0 {
			continue
		}
		pct := p.Probability.InexactFloat64()
		bar := strings.Repeat("█", int(pct*40+0.5))
		fmt.Fprintf(&buf, "%4d %7s %s\n", p.Age, FormatProbability(p.Probability), bar)
	}
	return buf.Bytes(), nil
}
