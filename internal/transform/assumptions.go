package transform

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/rgehrsitz/cppbridge/internal/domain"
)

// SetRealRate replaces the real rate of return
type SetRealRate struct {
	Rate decimal.Decimal
}

func (t *SetRealRate) Name() string { return "set_real_rate" }

func (t *SetRealRate) Description() string {
	return fmt.Sprintf("Real rate of return of %s%%", t.Rate.Mul(decimal.NewFromInt(100)).StringFixed(2))
}

func (t *SetRealRate) Validate(domain.ScenarioInput) error {
	return checkRate(t.Name(), t.Rate, domain.MaxRealRateOfReturn)
}

func (t *SetRealRate) Apply(base domain.ScenarioInput) (domain.ScenarioInput, error) {
	base.RealRateOfReturn = t.Rate
	return base, nil
}

// AdjustRealRate shifts the real rate of return by Delta
type AdjustRealRate struct {
	Delta decimal.Decimal
}

func (t *AdjustRealRate) Name() string { return "adjust_real_rate" }

func (t *AdjustRealRate) Description() string {
	pts := t.Delta.Mul(decimal.NewFromInt(100))
	if pts.IsNegative() {
		return fmt.Sprintf("Real rate of return %s points lower", pts.Abs().StringFixed(2))
	}
	return fmt.Sprintf("Real rate of return %s points higher", pts.StringFixed(2))
}

func (t *AdjustRealRate) Validate(base domain.ScenarioInput) error {
	return checkRate(t.Name(), base.RealRateOfReturn.Add(t.Delta), domain.MaxRealRateOfReturn)
}

func (t *AdjustRealRate) Apply(base domain.ScenarioInput) (domain.ScenarioInput, error) {
	base.RealRateOfReturn = base.RealRateOfReturn.Add(t.Delta)
	return base, nil
}

// SetWageGrowth replaces the wage growth applied during the delay
type SetWageGrowth struct {
	Rate decimal.Decimal
}

func (t *SetWageGrowth) Name() string { return "set_wage_growth" }

func (t *SetWageGrowth) Description() string {
	return fmt.Sprintf("Wage growth of %s%%", t.Rate.Mul(decimal.NewFromInt(100)).StringFixed(2))
}

func (t *SetWageGrowth) Validate(domain.ScenarioInput) error {
	return checkRate(t.Name(), t.Rate, domain.MaxWageGrowth)
}

func (t *SetWageGrowth) Apply(base domain.ScenarioInput) (domain.ScenarioInput, error) {
	base.WageGrowth = t.Rate
	return base, nil
}

// AdjustSavings adds Delta to the savings available for the bridge
type AdjustSavings struct {
	Delta decimal.Decimal
}

func (t *AdjustSavings) Name() string { return "adjust_savings" }

func (t *AdjustSavings) Description() string {
	if t.Delta.IsNegative() {
		return fmt.Sprintf("$%s less in savings", t.Delta.Abs().StringFixed(0))
	}
	return fmt.Sprintf("$%s more in savings", t.Delta.StringFixed(0))
}

func (t *AdjustSavings) Validate(base domain.ScenarioInput) error {
	if base.Savings.Add(t.Delta).IsNegative() {
		return NewTransformError(t.Name(), "validate",
			fmt.Sprintf("savings of %s would drop below zero", base.Savings), nil)
	}
	return nil
}

func (t *AdjustSavings) Apply(base domain.ScenarioInput) (domain.ScenarioInput, error) {
	base.Savings = base.Savings.Add(t.Delta)
	return base, nil
}

// ScaleSavings multiplies savings by Factor
type ScaleSavings struct {
	Factor decimal.Decimal
}

func (t *ScaleSavings) Name() string { return "scale_savings" }

func (t *ScaleSavings) Description() string {
	return fmt.Sprintf("Savings multiplied by %s", t.Factor.String())
}

func (t *ScaleSavings) Validate(domain.ScenarioInput) error {
	if t.Factor.IsNegative() {
		return NewTransformError(t.Name(), "validate", "factor cannot be negative", nil)
	}
	return nil
}

func (t *ScaleSavings) Apply(base domain.ScenarioInput) (domain.ScenarioInput, error) {
	base.Savings = base.Savings.Mul(t.Factor).Round(2)
	return base, nil
}

func checkRate(name string, rate decimal.Decimal, max float64) error {
	if rate.IsNegative() || rate.GreaterThan(decimal.NewFromFloat(max)) {
		return NewTransformError(name, "validate",
			fmt.Sprintf("rate must be between 0 and %g, got %s", max, rate), nil)
	}
	return nil
}
