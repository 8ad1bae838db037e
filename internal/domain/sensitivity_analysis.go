package domain

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// SensitivityParameter represents a parameter to sweep in sensitivity analysis
type SensitivityParameter struct {
	Name        string          `yaml:"name" json:"name"`
	MinValue    decimal.Decimal `yaml:"min_value" json:"minValue"`
	MaxValue    decimal.Decimal `yaml:"max_value" json:"maxValue"`
	Steps       int             `yaml:"steps" json:"steps"`
	BaseValue   decimal.Decimal `yaml:"base_value" json:"baseValue"`
	Unit        string          `yaml:"unit" json:"unit"` // "percent", "dollars", "years"
	Description string          `yaml:"description" json:"description"`
}

// ParameterSensitivityAnalysis represents a complete single-parameter sweep
type ParameterSensitivityAnalysis struct {
	BaseInput ScenarioInput        `json:"baseInput"`
	Parameter SensitivityParameter `json:"parameter"`
	Results   []SensitivityResult  `json:"results"`
	Summary   SensitivitySummary   `json:"summary"`
}

// SensitivityResult is the decision at one swept parameter value
type SensitivityResult struct {
	ParameterValue decimal.Decimal `json:"parameterValue"`
	Input          ScenarioInput   `json:"input"`
	Output         ScenarioOutput  `json:"output"`
}

// SensitivitySummary describes how much the decision moved across the sweep
type SensitivitySummary struct {
	MinBridgeCost         decimal.Decimal `json:"minBridgeCost"`
	MaxBridgeCost         decimal.Decimal `json:"maxBridgeCost"`
	MinBreakevenAge       int             `json:"minBreakevenAge"`
	MaxBreakevenAge       int             `json:"maxBreakevenAge"`
	MinProbability        decimal.Decimal `json:"minProbability"`
	MaxProbability        decimal.Decimal `json:"maxProbability"`
	RecommendationChanges int             `json:"recommendationChanges"`
	AffordabilityChanges  int             `json:"affordabilityChanges"`
	RiskLevel             string          `json:"riskLevel"` // "LOW", "MEDIUM", "HIGH"
	Recommendations       []string        `json:"recommendations"`
}

// Sweepable parameter names
const (
	ParamRealRate   = "real_rate"
	ParamWageGrowth = "wage_growth"
	ParamCurrentAge = "current_age"
	ParamSavings    = "savings"
)

// Common sensitivity parameters
var (
	RealRateParam = SensitivityParameter{
		Name:        ParamRealRate,
		MinValue:    decimal.Zero,
		MaxValue:    decimal.NewFromFloat(0.05),
		Steps:       6,
		BaseValue:   decimal.NewFromFloat(DefaultRealRateOfReturn),
		Unit:        "percent",
		Description: "Real (after-inflation) annual rate of return",
	}

	WageGrowthParam = SensitivityParameter{
		Name:        ParamWageGrowth,
		MinValue:    decimal.Zero,
		MaxValue:    decimal.NewFromFloat(0.03),
		Steps:       7,
		BaseValue:   decimal.NewFromFloat(DefaultWageGrowth),
		Unit:        "percent",
		Description: "Wage index growth applied to the benefit during the delay",
	}

	CurrentAgeParam = SensitivityParameter{
		Name:        ParamCurrentAge,
		MinValue:    decimal.NewFromInt(45),
		MaxValue:    decimal.NewFromInt(70),
		Steps:       6,
		BaseValue:   decimal.NewFromInt(55),
		Unit:        "years",
		Description: "Age today",
	}

	SavingsParam = SensitivityParameter{
		Name:        ParamSavings,
		MinValue:    decimal.NewFromInt(0),
		MaxValue:    decimal.NewFromInt(200000),
		Steps:       5,
		BaseValue:   decimal.NewFromInt(150000),
		Unit:        "dollars",
		Description: "Liquid savings available to fund the bridge",
	}
)

// GetCommonParameters returns a list of common sensitivity parameters
func GetCommonParameters() []SensitivityParameter {
	return []SensitivityParameter{
		RealRateParam,
		WageGrowthParam,
		CurrentAgeParam,
		SavingsParam,
	}
}

// LookupParameter finds a common parameter by name
func LookupParameter(name string) (SensitivityParameter, bool) {
	for _, p := range GetCommonParameters() {
		if p.Name == name {
			return p, true
		}
	}
	return SensitivityParameter{}, false
}

// DetermineRiskLevel rates how fragile the decision is across the sweep
func (ss *SensitivitySummary) DetermineRiskLevel() string {
	spread := ss.MaxProbability.Sub(ss.MinProbability)
	switch {
	case ss.RecommendationChanges > 1 || spread.GreaterThan(decimal.NewFromFloat(0.25)):
		return "HIGH"
	case ss.RecommendationChanges == 1 || ss.AffordabilityChanges > 0 || spread.GreaterThan(decimal.NewFromFloat(0.10)):
		return "MEDIUM"
	default:
		return "LOW"
	}
}

// GenerateRecommendations generates recommendations based on sensitivity analysis
func (ss *SensitivitySummary) GenerateRecommendations(paramName string) []string {
	recommendations := []string{}

	switch ss.DetermineRiskLevel() {
	case "LOW":
		recommendations = append(recommendations, "Decision is stable across the tested range")
	case "MEDIUM":
		recommendations = append(recommendations, "Decision is borderline within the tested range")
		recommendations = append(recommendations, "Revisit the choice as the assumption firms up")
	case "HIGH":
		recommendations = append(recommendations, "⚠️ Decision flips within the tested range")
		recommendations = append(recommendations, "Use a conservative value for this assumption")
	}

	if ss.AffordabilityChanges > 0 {
		recommendations = append(recommendations, "Savings cover the bridge at some values but not others")
	}

	switch paramName {
	case ParamRealRate:
		recommendations = append(recommendations, "Higher real returns lower the bridge cost but push breakeven later")
	case ParamWageGrowth:
		recommendations = append(recommendations, "Wage growth raises both the delayed benefit and the bridge cost")
	case ParamCurrentAge:
		recommendations = append(recommendations, "Older starting ages leave less time to compound savings")
	case ParamSavings:
		recommendations = append(recommendations, "Savings only affect affordability, not the breakeven")
	}

	return recommendations
}

// ParameterValue reads the current value of a sweepable parameter
func (in ScenarioInput) ParameterValue(name string) (decimal.Decimal, bool) {
	switch name {
	case ParamRealRate:
		return in.RealRateOfReturn, true
	case ParamWageGrowth:
		return in.WageGrowth, true
	case ParamCurrentAge:
		return decimal.NewFromInt(int64(in.CurrentAge)), true
	case ParamSavings:
		return in.Savings, true
	}
	return decimal.Zero, false
}

// WithParameter returns a copy of the input with one swept field replaced.
// current_age is rounded to whole years.
func (in ScenarioInput) WithParameter(name string, value decimal.Decimal) (ScenarioInput, error) {
	switch name {
	case ParamRealRate:
		in.RealRateOfReturn = value
	case ParamWageGrowth:
		in.WageGrowth = value
	case ParamCurrentAge:
		in.CurrentAge = int(value.Round(0).IntPart())
	case ParamSavings:
		in.Savings = value
	default:
		return in, fmt.Errorf("unknown sensitivity parameter %q", name)
	}
	return in, nil
}
