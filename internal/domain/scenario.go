package domain

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// Sex selects the mortality column
type Sex string

const (
	Male   Sex = "male"
	Female Sex = "female"
)

// ParseSex accepts the canonical names case-insensitively
func ParseSex(s string) (Sex, error) {
	switch Sex(strings.ToLower(strings.TrimSpace(s))) {
	case Male:
		return Male, nil
	case Female:
		return Female, nil
	}
	return "", fmt.Errorf("unknown sex %q (expected male or female)", s)
}

// HealthRating is the self-reported health class used for age rating
type HealthRating string

const (
	HealthAverage   HealthRating = "average"
	HealthExcellent HealthRating = "excellent"
	HealthPoor      HealthRating = "poor"
)

// AllHealthRatings lists ratings from best to worst
var AllHealthRatings = []HealthRating{HealthExcellent, HealthAverage, HealthPoor}

// ParseHealthRating accepts the canonical names case-insensitively
func ParseHealthRating(s string) (HealthRating, error) {
	switch HealthRating(strings.ToLower(strings.TrimSpace(s))) {
	case HealthAverage:
		return HealthAverage, nil
	case HealthExcellent:
		return HealthExcellent, nil
	case HealthPoor:
		return HealthPoor, nil
	}
	return "", fmt.Errorf("unknown health rating %q (expected average, excellent or poor)", s)
}

// AgeOffset is the number of years added to the real age before a table lookup
func (h HealthRating) AgeOffset() int {
	switch h {
	case HealthExcellent:
		return -3
	case HealthPoor:
		return 5
	default:
		return 0
	}
}

// ScenarioInput is one fully-specified bridge question
type ScenarioInput struct {
	CurrentAge                     int             `yaml:"current_age" json:"current_age"`
	BenefitAt65                    decimal.Decimal `yaml:"cpp_estimate_at_65" json:"cpp_estimate_at_65"`
	Savings                        decimal.Decimal `yaml:"rrsp_savings" json:"rrsp_savings"`
	Sex                            Sex             `yaml:"gender" json:"gender"`
	Health                         HealthRating    `yaml:"health_status" json:"health_status"`
	RealRateOfReturn               decimal.Decimal `yaml:"real_rate_of_return" json:"real_rate_of_return"`
	WageGrowth                     decimal.Decimal `yaml:"wage_growth" json:"wage_growth"`
	DiscountPreRetirementMortality bool            `yaml:"discount_pre_retirement_mortality" json:"discount_pre_retirement_mortality"`
	// InflationRate is accepted and echoed but no calculation consumes it.
	InflationRate decimal.Decimal `yaml:"inflation_rate" json:"inflation_rate"`
}

// CalculationRequest is the wire and file form of ScenarioInput. Optional
// assumptions are pointers so an explicit zero can be told apart from a
// missing value.
type CalculationRequest struct {
	CurrentAge                     int              `yaml:"current_age" json:"current_age"`
	BenefitAt65                    decimal.Decimal  `yaml:"cpp_estimate_at_65" json:"cpp_estimate_at_65"`
	Savings                        decimal.Decimal  `yaml:"rrsp_savings" json:"rrsp_savings"`
	Sex                            string           `yaml:"gender,omitempty" json:"gender,omitempty"`
	Health                         string           `yaml:"health_status,omitempty" json:"health_status,omitempty"`
	RealRateOfReturn               *decimal.Decimal `yaml:"real_rate_of_return,omitempty" json:"real_rate_of_return,omitempty"`
	WageGrowth                     *decimal.Decimal `yaml:"wage_growth,omitempty" json:"wage_growth,omitempty"`
	DiscountPreRetirementMortality *bool            `yaml:"discount_pre_retirement_mortality,omitempty" json:"discount_pre_retirement_mortality,omitempty"`
	InflationRate                  *decimal.Decimal `yaml:"inflation_rate,omitempty" json:"inflation_rate,omitempty"`
}

// ToInput applies defaults and parses the enums. Range checks are left to
// ScenarioInput.Validate.
func (r CalculationRequest) ToInput() (ScenarioInput, error) {
	in := ScenarioInput{
		CurrentAge:                     r.CurrentAge,
		BenefitAt65:                    r.BenefitAt65,
		Savings:                        r.Savings,
		Sex:                            Male,
		Health:                         HealthAverage,
		RealRateOfReturn:               decimal.NewFromFloat(DefaultRealRateOfReturn),
		WageGrowth:                     decimal.NewFromFloat(DefaultWageGrowth),
		DiscountPreRetirementMortality: true,
		InflationRate:                  decimal.NewFromFloat(DefaultInflationRate),
	}

	var errs ValidationErrors
	if r.Sex != "" {
		sex, err := ParseSex(r.Sex)
		if err != nil {
			errs.add("gender", "%v", err)
		}
		in.Sex = sex
	}
	if r.Health != "" {
		health, err := ParseHealthRating(r.Health)
		if err != nil {
			errs.add("health_status", "%v", err)
		}
		in.Health = health
	}
	if r.RealRateOfReturn != nil {
		in.RealRateOfReturn = *r.RealRateOfReturn
	}
	if r.WageGrowth != nil {
		in.WageGrowth = *r.WageGrowth
	}
	if r.DiscountPreRetirementMortality != nil {
		in.DiscountPreRetirementMortality = *r.DiscountPreRetirementMortality
	}
	if r.InflationRate != nil {
		in.InflationRate = *r.InflationRate
	}

	if len(errs) > 0 {
		return in, errs
	}
	return in, nil
}

// DefaultScenarioInput returns a 55-year-old average-health male with a
// $1,000 benefit estimate and $150,000 saved.
func DefaultScenarioInput() ScenarioInput {
	return ScenarioInput{
		CurrentAge:                     55,
		BenefitAt65:                    decimal.NewFromInt(1000),
		Savings:                        decimal.NewFromInt(150000),
		Sex:                            Male,
		Health:                         HealthAverage,
		RealRateOfReturn:               decimal.NewFromFloat(DefaultRealRateOfReturn),
		WageGrowth:                     decimal.NewFromFloat(DefaultWageGrowth),
		DiscountPreRetirementMortality: true,
		InflationRate:                  decimal.NewFromFloat(DefaultInflationRate),
	}
}

// Validate checks every field against its documented bounds and reports all
// violations at once.
func (in ScenarioInput) Validate() error {
	var errs ValidationErrors

	if in.CurrentAge < MinCurrentAge || in.CurrentAge > MaxCurrentAge {
		errs.add("current_age", "must be between %d and %d, got %d", MinCurrentAge, MaxCurrentAge, in.CurrentAge)
	}
	if !in.BenefitAt65.IsPositive() {
		errs.add("cpp_estimate_at_65", "must be positive, got %s", in.BenefitAt65.String())
	}
	if in.Savings.IsNegative() {
		errs.add("rrsp_savings", "cannot be negative, got %s", in.Savings.String())
	}
	if in.Sex != Male && in.Sex != Female {
		errs.add("gender", "unknown value %q", string(in.Sex))
	}
	switch in.Health {
	case HealthAverage, HealthExcellent, HealthPoor:
	default:
		errs.add("health_status", "unknown value %q", string(in.Health))
	}
	checkRate(&errs, "real_rate_of_return", in.RealRateOfReturn, MaxRealRateOfReturn)
	checkRate(&errs, "wage_growth", in.WageGrowth, MaxWageGrowth)
	checkRate(&errs, "inflation_rate", in.InflationRate, MaxInflationRate)

	if len(errs) > 0 {
		return errs
	}
	return nil
}

func checkRate(errs *ValidationErrors, field string, v decimal.Decimal, max float64) {
	if v.IsNegative() || v.GreaterThan(decimal.NewFromFloat(max)) {
		errs.add(field, "must be between 0 and %s, got %s", decimal.NewFromFloat(max).String(), v.String())
	}
}

// ProbabilityStartAge is the age survival to breakeven is measured from.
// Callers who ignore pre-retirement mortality are assumed alive at 65.
func (in ScenarioInput) ProbabilityStartAge() int {
	if !in.DiscountPreRetirementMortality && in.CurrentAge < EarlyClaimAge {
		return EarlyClaimAge
	}
	return in.CurrentAge
}
