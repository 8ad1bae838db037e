package breakeven

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/rgehrsitz/cppbridge/internal/domain"
)

// Goal is the outcome whose break-even value the solver searches for
type Goal string

const (
	// GoalAffordable holds when savings cover the bridge
	GoalAffordable Goal = "affordable"
	// GoalDelayPays holds when delaying has a non-negative expected lifetime gain
	GoalDelayPays Goal = "delay_pays"
	// GoalRecommendDelay holds when the active policy says "Delay to 70"
	GoalRecommendDelay Goal = "recommend_delay"
)

// AllGoals lists every goal in display order
var AllGoals = []Goal{GoalAffordable, GoalDelayPays, GoalRecommendDelay}

// ParseGoal accepts a goal name
func ParseGoal(s string) (Goal, error) {
	for _, g := range AllGoals {
		if string(g) == s {
			return g, nil
		}
	}
	return "", fmt.Errorf("unknown goal %q (expected affordable, delay_pays or recommend_delay)", s)
}

// Request asks for the value of one assumption at which a goal starts or
// stops holding. Nil bounds fall back to the parameter's default sweep range.
type Request struct {
	Base          domain.ScenarioInput
	Target        string
	Goal          Goal
	Min           *decimal.Decimal
	Max           *decimal.Decimal
	MaxIterations int
	Tolerance     decimal.Decimal
}

// Direction says which side of the threshold meets the goal
type Direction string

const (
	AtOrAbove Direction = "at or above"
	AtOrBelow Direction = "at or below"
)

// Result is one solved threshold. Threshold meets the goal and Boundary, when
// the goal flips inside the range, is the nearest value found that does not.
type Result struct {
	Target          string                 `json:"target"`
	Goal            Goal                   `json:"goal"`
	Min             decimal.Decimal        `json:"min"`
	Max             decimal.Decimal        `json:"max"`
	Success         bool                   `json:"success"`
	AlwaysMet       bool                   `json:"always_met"`
	Iterations      int                    `json:"iterations"`
	ConvergenceInfo string                 `json:"convergence_info,omitempty"`
	Direction       Direction              `json:"direction,omitempty"`
	Threshold       decimal.Decimal        `json:"threshold"`
	Boundary        decimal.Decimal        `json:"boundary"`
	BaseValue       decimal.Decimal        `json:"base_value"`
	BaseOutput      *domain.ScenarioOutput `json:"base_output"`
	ThresholdOutput *domain.ScenarioOutput `json:"threshold_output,omitempty"`
}

// BaseMeetsGoal reports whether the scenario as given already meets the goal
func (r *Result) BaseMeetsGoal() bool {
	return r.BaseOutput != nil && r.Goal.Met(r.BaseOutput)
}

// Summary is every target solved for one goal
type Summary struct {
	Goal            Goal     `json:"goal"`
	Results         []Result `json:"results"`
	Recommendations []string `json:"recommendations"`
}

// SolverOptions configures the bisection
type SolverOptions struct {
	MaxIterations int
	// Tolerances is the bracket width at which the search stops, per target
	Tolerances map[string]decimal.Decimal
}

// DefaultSolverOptions returns tolerances of one basis point for rates, a
// dollar for savings and a year for age
func DefaultSolverOptions() SolverOptions {
	return SolverOptions{
		MaxIterations: 60,
		Tolerances: map[string]decimal.Decimal{
			domain.ParamRealRate:   decimal.NewFromFloat(0.0001),
			domain.ParamWageGrowth: decimal.NewFromFloat(0.0001),
			domain.ParamSavings:    decimal.NewFromInt(1),
			domain.ParamCurrentAge: decimal.NewFromInt(1),
		},
	}
}

// BreakEvenError represents errors from the break-even solver
type BreakEvenError struct {
	Operation string
	Message   string
	Cause     error
}

func (e *BreakEvenError) Error() string {
	if e.Cause != nil {
		return e.Operation + ": " + e.Message + ": " + e.Cause.Error()
	}
	return e.Operation + ": " + e.Message
}

func (e *BreakEvenError) Unwrap() error {
	return e.Cause
}
