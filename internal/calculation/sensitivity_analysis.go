package calculation

import (
	"context"
	"fmt"

	"github.com/rgehrsitz/cppbridge/internal/domain"
	"github.com/shopspring/decimal"
)

// SensitivityAnalyzer performs parameter sweep analysis
type SensitivityAnalyzer struct {
	calculationEngine *CalculationEngine
}

// NewSensitivityAnalyzer creates a sensitivity analyzer on an engine. A nil
// engine selects NewCalculationEngine.
func NewSensitivityAnalyzer(engine *CalculationEngine) *SensitivityAnalyzer {
	if engine == nil {
		engine = NewCalculationEngine()
	}
	return &SensitivityAnalyzer{calculationEngine: engine}
}

// AnalyzeSingleParameter sweeps one parameter and evaluates the decision at
// every step
func (sa *SensitivityAnalyzer) AnalyzeSingleParameter(
	ctx context.Context,
	base domain.ScenarioInput,
	parameter domain.SensitivityParameter,
) (*domain.ParameterSensitivityAnalysis, error) {

	if parameter.Steps < 1 {
		return nil, fmt.Errorf("parameter %s needs at least one step, got %d", parameter.Name, parameter.Steps)
	}
	if parameter.MaxValue.LessThan(parameter.MinValue) {
		return nil, fmt.Errorf("parameter %s has max %s below min %s",
			parameter.Name, parameter.MaxValue.String(), parameter.MinValue.String())
	}

	values := sa.generateParameterValues(parameter)
	results := make([]domain.SensitivityResult, 0, len(values))

	for _, value := range values {
		modified, err := base.WithParameter(parameter.Name, value)
		if err != nil {
			return nil, err
		}

		out, err := sa.calculationEngine.Evaluate(ctx, modified)
		if err != nil {
			return nil, fmt.Errorf("failed to evaluate %s=%s: %w", parameter.Name, value.String(), err)
		}

		results = append(results, domain.SensitivityResult{
			ParameterValue: value,
			Input:          modified,
			Output:         *out,
		})
	}

	return &domain.ParameterSensitivityAnalysis{
		BaseInput: base,
		Parameter: parameter,
		Results:   results,
		Summary:   sa.calculateSensitivitySummary(results, parameter),
	}, nil
}

// AnalyzeMultipleParameters runs one independent sweep per parameter
func (sa *SensitivityAnalyzer) AnalyzeMultipleParameters(
	ctx context.Context,
	base domain.ScenarioInput,
	parameters []domain.SensitivityParameter,
) ([]*domain.ParameterSensitivityAnalysis, error) {
	analyses := make([]*domain.ParameterSensitivityAnalysis, 0, len(parameters))
	for _, param := range parameters {
		analysis, err := sa.AnalyzeSingleParameter(ctx, base, param)
		if err != nil {
			return nil, fmt.Errorf("failed to analyze parameter %s: %w", param.Name, err)
		}
		analyses = append(analyses, analysis)
	}
	return analyses, nil
}

// generateParameterValues generates values for a parameter sweep
func (sa *SensitivityAnalyzer) generateParameterValues(param domain.SensitivityParameter) []decimal.Decimal {
	if param.Steps <= 1 {
		return []decimal.Decimal{param.BaseValue}
	}

	values := make([]decimal.Decimal, 0, param.Steps)
	stepSize := param.MaxValue.Sub(param.MinValue).Div(decimal.NewFromInt(int64(param.Steps - 1)))
	for i := 0; i < param.Steps; i++ {
		values = append(values, param.MinValue.Add(stepSize.Mul(decimal.NewFromInt(int64(i)))))
	}
	return values
}

// calculateSensitivitySummary reports the spread of the key outputs
func (sa *SensitivityAnalyzer) calculateSensitivitySummary(results []domain.SensitivityResult, parameter domain.SensitivityParameter) domain.SensitivitySummary {
	if len(results) == 0 {
		return domain.SensitivitySummary{}
	}

	first := results[0].Output
	summary := domain.SensitivitySummary{
		MinBridgeCost:   first.BridgeCostLumpSum,
		MaxBridgeCost:   first.BridgeCostLumpSum,
		MinBreakevenAge: first.BreakevenAgeEconomic,
		MaxBreakevenAge: first.BreakevenAgeEconomic,
		MinProbability:  first.ProbabilityOfWinning,
		MaxProbability:  first.ProbabilityOfWinning,
	}

	for i, result := range results[1:] {
		out := result.Output
		prev := results[i].Output

		summary.MinBridgeCost = decimal.Min(summary.MinBridgeCost, out.BridgeCostLumpSum)
		summary.MaxBridgeCost = decimal.Max(summary.MaxBridgeCost, out.BridgeCostLumpSum)
		summary.MinBreakevenAge = min(summary.MinBreakevenAge, out.BreakevenAgeEconomic)
		summary.MaxBreakevenAge = max(summary.MaxBreakevenAge, out.BreakevenAgeEconomic)
		summary.MinProbability = decimal.Min(summary.MinProbability, out.ProbabilityOfWinning)
		summary.MaxProbability = decimal.Max(summary.MaxProbability, out.ProbabilityOfWinning)

		if out.Recommendation != prev.Recommendation {
			summary.RecommendationChanges++
		}
		if out.IsAffordable != prev.IsAffordable {
			summary.AffordabilityChanges++
		}
	}

	summary.RiskLevel = summary.DetermineRiskLevel()
	summary.Recommendations = summary.GenerateRecommendations(parameter.Name)
	return summary
}
