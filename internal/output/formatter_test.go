package output

import (
	"context"
	"strings"
	"testing"

	json "github.com/goccy/go-json"
	"github.com/rgehrsitz/cppbridge/internal/calculation"
	"github.com/rgehrsitz/cppbridge/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func buildTestReport(t *testing.T) *domain.ScenarioReport {
	t.Helper()
	engine := calculation.NewCalculationEngine()

	affordable := domain.DefaultScenarioInput()
	affordable.CurrentAge = 65
	affordable.Savings = decimal.NewFromInt(200000)

	short := affordable
	short.Savings = decimal.NewFromInt(50000)
	short.RealRateOfReturn = decimal.NewFromFloat(0.03)

	report := &domain.ScenarioReport{MortalitySource: "embedded"}
	for _, s := range []struct {
		name string
		in   domain.ScenarioInput
	}{{"Affordable", affordable}, {"Shortfall", short}} {
		out, err := engine.Evaluate(context.Background(), s.in)
		require.NoError(t, err)
		report.Results = append(report.Results, domain.ScenarioResult{Name: s.name, Input: s.in, Output: *out})
	}
	return report
}

func TestGetFormatterByName(t *testing.T) {
	tests := map[string]string{
		"console":     "console",
		"":            "console",
		"verbose":     "console",
		"summary":     "console-lite",
		"CSV":         "csv",
		"json-pretty": "json",
		"yml":         "yaml",
		"html":        "html",
	}
	for in, expected := range tests {
		f := GetFormatterByName(in)
		require.NotNil(t, f, in)
		assert.Equal(t, expected, f.Name(), in)
	}
	assert.Nil(t, GetFormatterByName("pdf"))
}

func TestAvailableFormatterNames(t *testing.T) {
	assert.Equal(t, []string{"console", "console-lite", "csv", "html", "json", "yaml"}, AvailableFormatterNames())
	assert.NotContains(t, AvailableFormatAliases(), "")
}

func TestFormatHelpers(t *testing.T) {
	assert.Equal(t, "$87824.72", FormatCurrency(decimal.NewFromFloat(87824.72)))
	assert.Equal(t, "1.10%", FormatRate(decimal.NewFromFloat(0.011)))
	assert.Equal(t, "69.1%", FormatProbability(decimal.NewFromFloat(0.6906)))
	assert.Equal(t, "81", FormatBreakeven(81, true))
	assert.Equal(t, "none before 105", FormatBreakeven(105, false))
}

func TestConsoleFormatter(t *testing.T) {
	out, err := ConsoleFormatter{}.Format(buildTestReport(t))
	require.NoError(t, err)
	content := string(out)

	assert.Contains(t, content, "CPP BRIDGE ANALYSIS")
	assert.Contains(t, content, "SCENARIO 1: Affordable")
	assert.Contains(t, content, "Bridge Cost Today:      $87824.72")
	assert.Contains(t, content, "AFFORDABLE (surplus $112175.28)")
	assert.Contains(t, content, "SHORTFALL of $33759.15")
	assert.Contains(t, content, "Breakeven Age:          81")
	assert.Contains(t, content, "RECOMMENDATION: Delay to 70")
	assert.Contains(t, content, "Mortality table: embedded")

	_, err = ConsoleFormatter{}.Format(&domain.ScenarioReport{})
	assert.Error(t, err)
}

func TestConsoleLiteFormatter(t *testing.T) {
	out, err := ConsoleLiteFormatter{}.Format(buildTestReport(t))
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(out)), "\n")
	require.Len(t, lines, 4)
	assert.True(t, strings.HasPrefix(lines[2], "Affordable: Cost=$87824.72 Affordable=true Breakeven=81"))
	assert.True(t, strings.HasPrefix(lines[3], "Shortfall:"))
}

func TestCSVSummarizer(t *testing.T) {
	out, err := CSVSummarizer{}.Format(buildTestReport(t))
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(out)), "\n")
	require.Len(t, lines, 3, "header plus one row per scenario in input order")
	assert.True(t, strings.HasPrefix(lines[0], "Scenario,CurrentAge"))
	assert.True(t, strings.HasPrefix(lines[1], "Affordable,65,male,average,1000.00,200000.00"))
	assert.Contains(t, lines[1], ",87824.72,true,")
	assert.True(t, strings.HasSuffix(lines[1], ",Delay to 70"))
}

func TestJSONFormatter_NumericAmounts(t *testing.T) {
	out, err := JSONFormatter{}.Format(buildTestReport(t))
	require.NoError(t, err)

	var decoded struct {
		Results []struct {
			Name   string         `json:"name"`
			Output map[string]any `json:"output"`
		} `json:"results"`
	}
	require.NoError(t, json.Unmarshal(out, &decoded))
	require.Len(t, decoded.Results, 2)

	cost, ok := decoded.Results[0].Output["bridge_cost_lump_sum"].(float64)
	require.True(t, ok, "amounts are JSON numbers")
	assert.InDelta(t, 87824.72, cost, 1e-9)
	assert.Equal(t, true, decoded.Results[0].Output["is_affordable"])
	assert.Equal(t, "Delay to 70", decoded.Results[0].Output["recommendation"])
}

func TestYAMLFormatter(t *testing.T) {
	out, err := YAMLFormatter{}.Format(buildTestReport(t))
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, yaml.Unmarshal(out, &decoded))
	assert.Equal(t, "embedded", decoded["mortality_source"])
	assert.Contains(t, string(out), "recommendation: Delay to 70")
}

func TestHTMLFormatter(t *testing.T) {
	out, err := HTMLFormatter{}.Format(buildTestReport(t))
	require.NoError(t, err)
	content := string(out)

	assert.True(t, strings.HasPrefix(content, "<!DOCTYPE html>"))
	assert.Contains(t, content, "<h2>Affordable</h2>")
	assert.Contains(t, content, "$87824.72")
	assert.Contains(t, content, "Shortfall")
	assert.Contains(t, content, "Mortality table: embedded")
}

func TestAssumptionsFor(t *testing.T) {
	in := domain.DefaultScenarioInput()
	a := AssumptionsFor(in, "gompertz")
	assert.Len(t, a, len(DefaultAssumptions)+3)
	assert.Contains(t, a, "Real rate of return: 1.00%")
	assert.Contains(t, a, "Mortality: gompertz")
	assert.Len(t, DefaultAssumptions, 6, "the shared slice is not modified")
}
