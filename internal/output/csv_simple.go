package output

import (
	"bytes"
	"encoding/csv"
	"strconv"

	"github.com/rgehrsitz/cppbridge/internal/domain"
)

// CSVSummarizer implements the simple summary CSV output (one row per scenario).
type CSVSummarizer struct{}

func (c CSVSummarizer) Name() string { return "csv" }

func (c CSVSummarizer) Format(report *domain.ScenarioReport) ([]byte, error) {
	buf := &bytes.Buffer{}
	w := csv.NewWriter(buf)
	header := []string{
		"Scenario", "CurrentAge", "Sex", "Health", "BenefitAt65", "Savings", "RealRate", "WageGrowth",
		"TargetAt70", "BridgeCost", "Affordable", "Shortfall", "Surplus", "EstateAt85",
		"BreakevenAge", "BreakevenFound", "ProbabilityOfWinning", "LifeExpectancy",
		"EPVEarly", "EPVDelayed", "ExpectedGain", "Recommendation",
	}
	if err := w.Write(header); err != nil {
		return nil, err
	}
	for _, r := range report.Results {
		in, out := r.Input, r.Output
		row := []string{
			r.Name,
			strconv.Itoa(in.CurrentAge),
			string(in.Sex),
			string(in.Health),
			in.BenefitAt65.StringFixed(2),
			in.Savings.StringFixed(2),
			in.RealRateOfReturn.String(),
			in.WageGrowth.String(),
			out.TargetMonthlyIncomeAt70.StringFixed(2),
			out.BridgeCostLumpSum.StringFixed(2),
			strconv.FormatBool(out.IsAffordable),
			out.ShortfallAmount.StringFixed(2),
			out.SurplusAmount.StringFixed(2),
			out.BonusEstateValueAt85.StringFixed(2),
			strconv.Itoa(out.BreakevenAgeEconomic),
			strconv.FormatBool(out.BreakevenFound),
			out.ProbabilityOfWinning.StringFixed(4),
			out.LifeExpectancy.StringFixed(1),
			out.EPVEarly.StringFixed(2),
			out.EPVDelayed.StringFixed(2),
			out.ExpectedLifetimeGain.StringFixed(2),
			out.Recommendation,
		}
		if err := w.Write(row); err != nil {
			return nil, err
		}
	}
	w.Flush()
	return buf.Bytes(), w.Error()
}
