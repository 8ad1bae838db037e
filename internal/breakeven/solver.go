package breakeven

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/rgehrsitz/cppbridge/internal/calculation"
	"github.com/rgehrsitz/cppbridge/internal/domain"
)

var two = decimal.NewFromInt(2)

// Met evaluates the goal against one decision
func (g Goal) Met(out *domain.ScenarioOutput) bool {
	switch g {
	case GoalAffordable:
		return out.IsAffordable
	case GoalDelayPays:
		return !out.ExpectedLifetimeGain.IsNegative()
	case GoalRecommendDelay:
		return out.Recommendation == calculation.LabelDelay
	}
	return false
}

// Solver finds the value of one assumption at which a goal flips, by
// bisection over the assumption's range
type Solver struct {
	CalcEngine *calculation.CalculationEngine
	Options    SolverOptions
}

// NewSolver creates a new break-even solver
func NewSolver(calcEngine *calculation.CalculationEngine, options SolverOptions) *Solver {
	return &Solver{
		CalcEngine: calcEngine,
		Options:    options,
	}
}

// NewDefaultSolver creates a solver with default options
func NewDefaultSolver(calcEngine *calculation.CalculationEngine) *Solver {
	return NewSolver(calcEngine, DefaultSolverOptions())
}

// Solve searches the request's range for the point where the goal flips.
// The goal is assumed to flip at most once across the range.
func (s *Solver) Solve(ctx context.Context, req Request) (*Result, error) {
	param, ok := domain.LookupParameter(req.Target)
	if !ok {
		return nil, &BreakEvenError{Operation: "solve", Message: fmt.Sprintf("unknown target %q", req.Target)}
	}
	if _, err := ParseGoal(string(req.Goal)); err != nil {
		return nil, &BreakEvenError{Operation: "solve", Message: "invalid goal", Cause: err}
	}
	if err := req.Base.Validate(); err != nil {
		return nil, &BreakEvenError{Operation: "solve", Message: "invalid base scenario", Cause: err}
	}

	lo, hi := param.MinValue, param.MaxValue
	if req.Min != nil {
		lo = *req.Min
	}
	if req.Max != nil {
		hi = *req.Max
	}
	if !lo.LessThan(hi) {
		return nil, &BreakEvenError{
			Operation: "solve",
			Message:   fmt.Sprintf("min %s must be below max %s", lo, hi),
		}
	}

	maxIter := req.MaxIterations
	if maxIter == 0 {
		maxIter = s.Options.MaxIterations
	}
	tol := req.Tolerance
	if tol.IsZero() {
		tol = s.Options.Tolerances[req.Target]
	}
	if !tol.IsPositive() {
		return nil, &BreakEvenError{Operation: "solve", Message: "tolerance must be positive"}
	}

	base, err := s.CalcEngine.Evaluate(ctx, req.Base)
	if err != nil {
		return nil, &BreakEvenError{Operation: "solve", Message: "failed to evaluate base scenario", Cause: err}
	}
	baseValue, _ := req.Base.ParameterValue(req.Target)

	result := &Result{
		Target:     req.Target,
		Goal:       req.Goal,
		Min:        lo,
		Max:        hi,
		BaseValue:  baseValue,
		BaseOutput: base,
	}

	loOut, err := s.evaluateAt(ctx, req, lo)
	if err != nil {
		return nil, err
	}
	hiOut, err := s.evaluateAt(ctx, req, hi)
	if err != nil {
		return nil, err
	}
	loMet, hiMet := req.Goal.Met(loOut), req.Goal.Met(hiOut)

	switch {
	case loMet && hiMet:
		result.Success = true
		result.AlwaysMet = true
		result.Threshold = lo
		result.ThresholdOutput = loOut
		result.ConvergenceInfo = fmt.Sprintf("goal met across the whole range %s to %s", lo, hi)
		return result, nil
	case !loMet && !hiMet:
		result.ConvergenceInfo = fmt.Sprintf("goal not reached anywhere from %s to %s", lo, hi)
		return result, nil
	}

	// met and unmet bracket the flip
	met, unmet, metOut := lo, hi, loOut
	result.Direction = AtOrBelow
	if hiMet {
		met, unmet, metOut = hi, lo, hiOut
		result.Direction = AtOrAbove
	}

	for result.Iterations < maxIter && met.Sub(unmet).Abs().GreaterThan(tol) {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		mid := met.Add(unmet).Div(two)
		if req.Target == domain.ParamCurrentAge {
			mid = mid.Round(0)
			if mid.Equal(met) || mid.Equal(unmet) {
				break
			}
		}
		result.Iterations++

		out, err := s.evaluateAt(ctx, req, mid)
		if err != nil {
			return nil, err
		}
		if req.Goal.Met(out) {
			met, metOut = mid, out
		} else {
			unmet = mid
		}
	}

	result.Success = true
	result.Threshold = met
	result.Boundary = unmet
	result.ThresholdOutput = metOut
	if met.Sub(unmet).Abs().GreaterThan(tol) {
		result.ConvergenceInfo = fmt.Sprintf("stopped after %d iterations with bracket %s to %s",
			result.Iterations, decimal.Min(met, unmet), decimal.Max(met, unmet))
	} else {
		result.ConvergenceInfo = fmt.Sprintf("converged within %s after %d iterations", tol, result.Iterations)
	}
	return result, nil
}

func (s *Solver) evaluateAt(ctx context.Context, req Request, value decimal.Decimal) (*domain.ScenarioOutput, error) {
	in, err := req.Base.WithParameter(req.Target, value)
	if err != nil {
		return nil, &BreakEvenError{Operation: "solve", Message: "invalid target", Cause: err}
	}
	out, err := s.CalcEngine.Evaluate(ctx, in)
	if err != nil {
		return nil, &BreakEvenError{
			Operation: "solve",
			Message:   fmt.Sprintf("failed to evaluate %s=%s", req.Target, value),
			Cause:     err,
		}
	}
	return out, nil
}
