package transform

import (
	"sort"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/rgehrsitz/cppbridge/internal/domain"
)

// TemplateRegistry manages named what-if templates
type TemplateRegistry struct {
	templates map[string]Template
}

// Template is a named collection of transforms
type Template struct {
	Name        string
	Description string
	Transforms  []ScenarioTransform
}

// NewTemplateRegistry creates an empty template registry
func NewTemplateRegistry() *TemplateRegistry {
	return &TemplateRegistry{
		templates: make(map[string]Template),
	}
}

// Register adds a template to the registry
func (tr *TemplateRegistry) Register(t Template) {
	tr.templates[strings.ToLower(t.Name)] = t
}

// Get retrieves a template by name (case-insensitive)
func (tr *TemplateRegistry) Get(name string) (Template, bool) {
	t, ok := tr.templates[strings.ToLower(name)]
	return t, ok
}

// List returns the registered template names, sorted
func (tr *TemplateRegistry) List() []string {
	names := make([]string, 0, len(tr.templates))
	for name := range tr.templates {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ApplyTemplate applies every transform of a template to base
func ApplyTemplate(base domain.ScenarioInput, t Template) (domain.ScenarioInput, error) {
	return ApplyTransforms(base, t.Transforms)
}

// CreateBuiltInTemplates creates a registry with the common what-ifs
func CreateBuiltInTemplates() *TemplateRegistry {
	registry := NewTemplateRegistry()

	// Health
	registry.Register(Template{
		Name:        "poor_health",
		Description: "Same person in poor health",
		Transforms:  []ScenarioTransform{&SetHealth{Health: domain.HealthPoor}},
	})
	registry.Register(Template{
		Name:        "excellent_health",
		Description: "Same person in excellent health",
		Transforms:  []ScenarioTransform{&SetHealth{Health: domain.HealthExcellent}},
	})

	// Returns
	registry.Register(Template{
		Name:        "zero_return",
		Description: "Savings earn nothing after inflation",
		Transforms:  []ScenarioTransform{&SetRealRate{Rate: decimal.Zero}},
	})
	registry.Register(Template{
		Name:        "high_return",
		Description: "Real return two points higher",
		Transforms:  []ScenarioTransform{&AdjustRealRate{Delta: decimal.NewFromFloat(0.02)}},
	})

	// Benefit indexing
	registry.Register(Template{
		Name:        "no_wage_growth",
		Description: "Benefit not indexed during the delay",
		Transforms:  []ScenarioTransform{&SetWageGrowth{Rate: decimal.Zero}},
	})

	// Savings
	registry.Register(Template{
		Name:        "half_savings",
		Description: "Half the savings",
		Transforms:  []ScenarioTransform{&ScaleSavings{Factor: decimal.NewFromFloat(0.5)}},
	})

	// Mortality
	registry.Register(Template{
		Name:        "alive_at_65",
		Description: "Assume survival to 65",
		Transforms:  []ScenarioTransform{&SetPreRetirementMortality{Discount: false}},
	})
	registry.Register(Template{
		Name:        "pessimist",
		Description: "Poor health and no real return",
		Transforms: []ScenarioTransform{
			&SetHealth{Health: domain.HealthPoor},
			&SetRealRate{Rate: decimal.Zero},
		},
	})

	return registry
}
