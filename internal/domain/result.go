package domain

import "github.com/shopspring/decimal"

// ScenarioOutput is the full decision for one ScenarioInput. Money is rounded
// to cents, probabilities to four places and life expectancy to one.
type ScenarioOutput struct {
	BridgeCostLumpSum       decimal.Decimal `json:"bridge_cost_lump_sum" yaml:"bridge_cost_lump_sum"`
	TargetMonthlyIncomeAt70 decimal.Decimal `json:"target_monthly_income_at_70" yaml:"target_monthly_income_at_70"`
	IsAffordable            bool            `json:"is_affordable" yaml:"is_affordable"`
	ShortfallAmount         decimal.Decimal `json:"shortfall_amount" yaml:"shortfall_amount"`
	SurplusAmount           decimal.Decimal `json:"surplus_amount" yaml:"surplus_amount"`
	BonusEstateValueAt85    decimal.Decimal `json:"bonus_estate_value_at_85" yaml:"bonus_estate_value_at_85"`

	BreakevenAgeEconomic int             `json:"breakeven_age_economic" yaml:"breakeven_age_economic"`
	BreakevenFound       bool            `json:"breakeven_found" yaml:"breakeven_found"`
	ProbabilityOfWinning decimal.Decimal `json:"probability_of_winning" yaml:"probability_of_winning"`
	ExpectedLifetimeGain decimal.Decimal `json:"expected_lifetime_gain" yaml:"expected_lifetime_gain"`
	LifeExpectancy       decimal.Decimal `json:"life_expectancy" yaml:"life_expectancy"`
	EPVEarly             decimal.Decimal `json:"epv_early" yaml:"epv_early"`
	EPVDelayed           decimal.Decimal `json:"epv_delayed" yaml:"epv_delayed"`
	// EPVConditional is true when both EPVs assume survival to 65.
	EPVConditional bool `json:"epv_conditional" yaml:"epv_conditional"`

	Recommendation          string `json:"recommendation" yaml:"recommendation"`
	RecommendationReasoning string `json:"recommendation_reasoning" yaml:"recommendation_reasoning"`
	RecommendationPolicy    string `json:"recommendation_policy" yaml:"recommendation_policy"`
}

// BreakevenPoint compares both income streams valued at 65 for one age
type BreakevenPoint struct {
	Age               int             `json:"age"`
	PVEarly           decimal.Decimal `json:"pv_early"`
	PVDelayed         decimal.Decimal `json:"pv_delayed"`
	Difference        decimal.Decimal `json:"difference"`
	NominalEarly      decimal.Decimal `json:"nominal_early"`
	NominalDelayed    decimal.Decimal `json:"nominal_delayed"`
	SurvivalToAge     decimal.Decimal `json:"survival_to_age"`
	DelayedIsAhead    bool            `json:"delayed_is_ahead"`
	NominalDelayAhead bool            `json:"nominal_delayed_is_ahead"`
}

// BreakevenAnalysis is the age-by-age crossover table behind the economic
// breakeven, with the undiscounted crossover for contrast.
type BreakevenAnalysis struct {
	Input               ScenarioInput    `json:"input"`
	TargetMonthlyAt70   decimal.Decimal  `json:"target_monthly_at_70"`
	EconomicBreakeven   int              `json:"economic_breakeven"`
	EconomicFound       bool             `json:"economic_found"`
	NominalBreakeven    int              `json:"nominal_breakeven"`
	NominalFound        bool             `json:"nominal_found"`
	ProbabilityStartAge int              `json:"probability_start_age"`
	Points              []BreakevenPoint `json:"points"`
}

// ProjectionRow is one month of the survival-weighted cash flow projection
type ProjectionRow struct {
	MonthIndex        int             `json:"month_index"`
	AgeYear           int             `json:"age_year"`
	AgeMonth          int             `json:"age_month"`
	SurvivalYearStart decimal.Decimal `json:"survival_to_year_start"`
	DiscountFactor    decimal.Decimal `json:"discount_factor"`
	EarlyCashflow     decimal.Decimal `json:"early_cashflow"`
	EarlyPV           decimal.Decimal `json:"early_pv"`
	DelayedCashflow   decimal.Decimal `json:"delayed_cashflow"`
	DelayedPV         decimal.Decimal `json:"delayed_pv"`
	CumulativeEarlyPV decimal.Decimal `json:"cumulative_early_pv"`
	CumulativeDelayPV decimal.Decimal `json:"cumulative_delayed_pv"`
}

// Projection is the monthly table plus its PV totals
type Projection struct {
	Input          ScenarioInput   `json:"input"`
	TargetAt70     decimal.Decimal `json:"target_monthly_at_70"`
	Rows           []ProjectionRow `json:"rows"`
	TotalEarlyPV   decimal.Decimal `json:"total_early_pv"`
	TotalDelayedPV decimal.Decimal `json:"total_delayed_pv"`
}

// SurvivalPoint is one point on a survival curve
type SurvivalPoint struct {
	Age         int             `json:"age"`
	Probability decimal.Decimal `json:"probability"`
}

// HealthComparison holds one input evaluated under every health rating
type HealthComparison struct {
	Input   ScenarioInput                   `json:"input"`
	Results map[HealthRating]ScenarioOutput `json:"results"`
}

// ScenarioResult pairs a named input with its decision
type ScenarioResult struct {
	Name   string         `json:"name" yaml:"name"`
	Input  ScenarioInput  `json:"input" yaml:"input"`
	Output ScenarioOutput `json:"output" yaml:"output"`
}

// ScenarioReport is every scenario evaluated in one run, in input order
type ScenarioReport struct {
	Results         []ScenarioResult `json:"results" yaml:"results"`
	MortalitySource string           `json:"mortality_source" yaml:"mortality_source"`
	Assumptions     []string         `json:"assumptions,omitempty" yaml:"assumptions,omitempty"`
}
