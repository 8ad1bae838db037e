package transform

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/rgehrsitz/cppbridge/internal/domain"
)

// TransformRegistry creates transforms from string parameters for the CLI
type TransformRegistry struct {
	factories map[string]TransformFactory
}

// TransformFactory creates a transform from parameters
type TransformFactory func(params map[string]string) (ScenarioTransform, error)

// NewTransformRegistry creates a registry with every built-in transform
func NewTransformRegistry() *TransformRegistry {
	registry := &TransformRegistry{
		factories: make(map[string]TransformFactory),
	}

	registry.Register("set_real_rate", createSetRealRate)
	registry.Register("adjust_real_rate", createAdjustRealRate)
	registry.Register("set_wage_growth", createSetWageGrowth)
	registry.Register("adjust_savings", createAdjustSavings)
	registry.Register("scale_savings", createScaleSavings)
	registry.Register("set_health", createSetHealth)
	registry.Register("set_sex", createSetSex)
	registry.Register("set_age", createSetCurrentAge)
	registry.Register("set_pre65_mortality", createSetPreRetirementMortality)

	return registry
}

// Register adds a transform factory to the registry
func (r *TransformRegistry) Register(name string, factory TransformFactory) {
	r.factories[name] = factory
}

// Create creates a transform by name with the given parameters
func (r *TransformRegistry) Create(name string, params map[string]string) (ScenarioTransform, error) {
	factory, exists := r.factories[name]
	if !exists {
		return nil, fmt.Errorf("unknown transform: %s", name)
	}
	return factory(params)
}

// List returns the registered transform names, sorted
func (r *TransformRegistry) List() []string {
	names := make([]string, 0, len(r.factories))
	for name := range r.factories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ParseTransformSpec parses "name:param1=value1,param2=value2",
// e.g. "set_health:health=poor"
func (r *TransformRegistry) ParseTransformSpec(spec string) (ScenarioTransform, error) {
	parts := strings.SplitN(spec, ":", 2)
	if len(parts) != 2 {
		return nil, fmt.Errorf("invalid transform spec format, expected 'name:params', got: %s", spec)
	}

	name := strings.TrimSpace(parts[0])
	paramsStr := strings.TrimSpace(parts[1])

	params := make(map[string]string)
	if paramsStr != "" {
		for _, pair := range strings.Split(paramsStr, ",") {
			kv := strings.SplitN(pair, "=", 2)
			if len(kv) != 2 {
				return nil, fmt.Errorf("invalid parameter format, expected 'key=value', got: %s", pair)
			}
			params[strings.TrimSpace(kv[0])] = strings.TrimSpace(kv[1])
		}
	}

	return r.Create(name, params)
}

func requireParam(params map[string]string, transform, key string) (string, error) {
	v, ok := params[key]
	if !ok {
		return "", fmt.Errorf("%s requires '%s' parameter", transform, key)
	}
	return v, nil
}

func decimalParam(params map[string]string, transform, key string) (decimal.Decimal, error) {
	v, err := requireParam(params, transform, key)
	if err != nil {
		return decimal.Zero, err
	}
	d, err := decimal.NewFromString(v)
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid %s value: %w", key, err)
	}
	return d, nil
}

func createSetRealRate(params map[string]string) (ScenarioTransform, error) {
	rate, err := decimalParam(params, "set_real_rate", "rate")
	if err != nil {
		return nil, err
	}
	return &SetRealRate{Rate: rate}, nil
}

func createAdjustRealRate(params map[string]string) (ScenarioTransform, error) {
	delta, err := decimalParam(params, "adjust_real_rate", "delta")
	if err != nil {
		return nil, err
	}
	return &AdjustRealRate{Delta: delta}, nil
}

func createSetWageGrowth(params map[string]string) (ScenarioTransform, error) {
	rate, err := decimalParam(params, "set_wage_growth", "rate")
	if err != nil {
		return nil, err
	}
	return &SetWageGrowth{Rate: rate}, nil
}

func createAdjustSavings(params map[string]string) (ScenarioTransform, error) {
	delta, err := decimalParam(params, "adjust_savings", "delta")
	if err != nil {
		return nil, err
	}
	return &AdjustSavings{Delta: delta}, nil
}

func createScaleSavings(params map[string]string) (ScenarioTransform, error) {
	factor, err := decimalParam(params, "scale_savings", "factor")
	if err != nil {
		return nil, err
	}
	return &ScaleSavings{Factor: factor}, nil
}

func createSetHealth(params map[string]string) (ScenarioTransform, error) {
	v, err := requireParam(params, "set_health", "health")
	if err != nil {
		return nil, err
	}
	health, err := domain.ParseHealthRating(v)
	if err != nil {
		return nil, err
	}
	return &SetHealth{Health: health}, nil
}

func createSetSex(params map[string]string) (ScenarioTransform, error) {
	v, err := requireParam(params, "set_sex", "sex")
	if err != nil {
		return nil, err
	}
	sex, err := domain.ParseSex(v)
	if err != nil {
		return nil, err
	}
	return &SetSex{Sex: sex}, nil
}

func createSetCurrentAge(params map[string]string) (ScenarioTransform, error) {
	v, err := requireParam(params, "set_age", "age")
	if err != nil {
		return nil, err
	}
	age, err := strconv.Atoi(v)
	if err != nil {
		return nil, fmt.Errorf("invalid age value: %w", err)
	}
	return &SetCurrentAge{Age: age}, nil
}

func createSetPreRetirementMortality(params map[string]string) (ScenarioTransform, error) {
	v, err := requireParam(params, "set_pre65_mortality", "discount")
	if err != nil {
		return nil, err
	}
	discount, err := strconv.ParseBool(v)
	if err != nil {
		return nil, fmt.Errorf("invalid discount value: %w", err)
	}
	return &SetPreRetirementMortality{Discount: discount}, nil
}
