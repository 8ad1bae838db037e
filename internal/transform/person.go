package transform

import (
	"fmt"

	"github.com/rgehrsitz/cppbridge/internal/domain"
)

// SetHealth replaces the health rating
type SetHealth struct {
	Health domain.HealthRating
}

func (t *SetHealth) Name() string { return "set_health" }

func (t *SetHealth) Description() string {
	return fmt.Sprintf("%s health", t.Health)
}

func (t *SetHealth) Validate(domain.ScenarioInput) error {
	if _, err := domain.ParseHealthRating(string(t.Health)); err != nil {
		return NewTransformError(t.Name(), "validate", "invalid health rating", err)
	}
	return nil
}

func (t *SetHealth) Apply(base domain.ScenarioInput) (domain.ScenarioInput, error) {
	base.Health = t.Health
	return base, nil
}

// SetSex selects the other mortality column
type SetSex struct {
	Sex domain.Sex
}

func (t *SetSex) Name() string { return "set_sex" }

func (t *SetSex) Description() string {
	return fmt.Sprintf("%s mortality", t.Sex)
}

func (t *SetSex) Validate(domain.ScenarioInput) error {
	if _, err := domain.ParseSex(string(t.Sex)); err != nil {
		return NewTransformError(t.Name(), "validate", "invalid sex", err)
	}
	return nil
}

func (t *SetSex) Apply(base domain.ScenarioInput) (domain.ScenarioInput, error) {
	base.Sex = t.Sex
	return base, nil
}

// SetCurrentAge evaluates the same person at another age
type SetCurrentAge struct {
	Age int
}

func (t *SetCurrentAge) Name() string { return "set_age" }

func (t *SetCurrentAge) Description() string {
	return fmt.Sprintf("Deciding at age %d", t.Age)
}

func (t *SetCurrentAge) Validate(domain.ScenarioInput) error {
	if t.Age < domain.MinCurrentAge || t.Age > domain.MaxCurrentAge {
		return NewTransformError(t.Name(), "validate",
			fmt.Sprintf("age must be between %d and %d, got %d", domain.MinCurrentAge, domain.MaxCurrentAge, t.Age), nil)
	}
	return nil
}

func (t *SetCurrentAge) Apply(base domain.ScenarioInput) (domain.ScenarioInput, error) {
	base.CurrentAge = t.Age
	return base, nil
}

// SetPreRetirementMortality toggles weighing the chance of dying before 65
type SetPreRetirementMortality struct {
	Discount bool
}

func (t *SetPreRetirementMortality) Name() string { return "set_pre65_mortality" }

func (t *SetPreRetirementMortality) Description() string {
	if t.Discount {
		return "Chance of dying before 65 counted"
	}
	return "Assumed alive at 65"
}

func (t *SetPreRetirementMortality) Validate(domain.ScenarioInput) error { return nil }

func (t *SetPreRetirementMortality) Apply(base domain.ScenarioInput) (domain.ScenarioInput, error) {
	base.DiscountPreRetirementMortality = t.Discount
	return base, nil
}
