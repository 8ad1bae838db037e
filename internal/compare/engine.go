package compare

import (
	"context"
	"fmt"

	"github.com/rgehrsitz/cppbridge/internal/calculation"
	"github.com/rgehrsitz/cppbridge/internal/config"
	"github.com/rgehrsitz/cppbridge/internal/transform"
)

// CompareEngine evaluates a base scenario against alternatives
type CompareEngine struct {
	CalcEngine       *calculation.CalculationEngine
	TemplateRegistry *transform.TemplateRegistry
}

// NewCompareEngine creates a comparison engine with the built-in templates
func NewCompareEngine(calcEngine *calculation.CalculationEngine) *CompareEngine {
	return &CompareEngine{
		CalcEngine:       calcEngine,
		TemplateRegistry: transform.CreateBuiltInTemplates(),
	}
}

// Compare evaluates base and one alternative per template
func (ce *CompareEngine) Compare(ctx context.Context, base config.NamedScenario, templates []string) (*ComparisonSet, error) {
	baseResult, err := ce.evaluate(ctx, base.Name, "", base)
	if err != nil {
		return nil, fmt.Errorf("failed to calculate base scenario: %w", err)
	}

	alternatives := []ComparisonResult{}
	for _, name := range templates {
		tmpl, ok := ce.TemplateRegistry.Get(name)
		if !ok {
			return nil, fmt.Errorf("template %s not found", name)
		}

		modified, err := transform.ApplyTemplate(base.Input, tmpl)
		if err != nil {
			return nil, fmt.Errorf("failed to apply template %s: %w", name, err)
		}

		alt, err := ce.evaluate(ctx, base.Name+"_"+tmpl.Name, tmpl.Description,
			config.NamedScenario{Name: base.Name, Input: modified})
		if err != nil {
			return nil, fmt.Errorf("failed to calculate scenario %s: %w", name, err)
		}
		alternatives = append(alternatives, CalculateComparison(*alt, *baseResult))
	}

	return newSet(base.Name, baseResult, alternatives), nil
}

// CompareScenarios evaluates named scenarios from one file against the named
// base. An empty alternative list compares against every other scenario.
func (ce *CompareEngine) CompareScenarios(
	ctx context.Context,
	scenarios []config.NamedScenario,
	baseScenarioName string,
	alternativeScenarioNames []string,
) (*ComparisonSet, error) {
	byName := make(map[string]config.NamedScenario, len(scenarios))
	for _, s := range scenarios {
		byName[s.Name] = s
	}

	base, ok := byName[baseScenarioName]
	if !ok {
		return nil, fmt.Errorf("base scenario %s not found", baseScenarioName)
	}
	baseResult, err := ce.evaluate(ctx, base.Name, "", base)
	if err != nil {
		return nil, fmt.Errorf("failed to calculate base scenario: %w", err)
	}

	if len(alternativeScenarioNames) == 0 {
		for _, s := range scenarios {
			if s.Name != baseScenarioName {
				alternativeScenarioNames = append(alternativeScenarioNames, s.Name)
			}
		}
	}

	alternatives := []ComparisonResult{}
	for _, name := range alternativeScenarioNames {
		s, ok := byName[name]
		if !ok {
			return nil, fmt.Errorf("alternative scenario %s not found", name)
		}
		alt, err := ce.evaluate(ctx, s.Name, "", s)
		if err != nil {
			return nil, fmt.Errorf("failed to calculate scenario %s: %w", name, err)
		}
		alternatives = append(alternatives, CalculateComparison(*alt, *baseResult))
	}

	return newSet(baseScenarioName, baseResult, alternatives), nil
}

func (ce *CompareEngine) evaluate(ctx context.Context, name, description string, s config.NamedScenario) (*ComparisonResult, error) {
	out, err := ce.CalcEngine.Evaluate(ctx, s.Input)
	if err != nil {
		return nil, err
	}
	return &ComparisonResult{
		ScenarioName: name,
		Description:  description,
		Input:        s.Input,
		Output:       out,
	}, nil
}

func newSet(baseName string, base *ComparisonResult, alternatives []ComparisonResult) *ComparisonSet {
	compSet := &ComparisonSet{
		BaseScenarioName:   baseName,
		BaseResult:         base,
		AlternativeResults: alternatives,
	}
	compSet.Recommendations = GenerateRecommendations(compSet)
	return compSet
}
