package breakeven

import (
	"context"
	"fmt"

	"github.com/rgehrsitz/cppbridge/internal/domain"
)

// SolveAll solves one goal against every sweepable assumption over its
// default range. Targets whose range cannot be evaluated are skipped.
func (s *Solver) SolveAll(ctx context.Context, base domain.ScenarioInput, goal Goal) (*Summary, error) {
	if _, err := ParseGoal(string(goal)); err != nil {
		return nil, &BreakEvenError{Operation: "solve_all", Message: "invalid goal", Cause: err}
	}

	summary := &Summary{Goal: goal}
	for _, p := range domain.GetCommonParameters() {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		result, err := s.Solve(ctx, Request{Base: base, Target: p.Name, Goal: goal})
		if err != nil {
			continue
		}
		summary.Results = append(summary.Results, *result)
	}

	if len(summary.Results) == 0 {
		return nil, &BreakEvenError{
			Operation: "solve_all",
			Message:   "no target could be solved",
		}
	}

	summary.Recommendations = Recommendations(summary)
	return summary, nil
}

// Recommendations turns each solved target into one sentence
func Recommendations(summary *Summary) []string {
	var recommendations []string
	for _, r := range summary.Results {
		switch {
		case !r.Success:
			recommendations = append(recommendations,
				fmt.Sprintf("No %s between %s and %s makes the goal hold", r.Target, formatValue(r.Target, r.Min), formatValue(r.Target, r.Max)))
		case r.AlwaysMet:
			recommendations = append(recommendations,
				fmt.Sprintf("The goal holds for every %s tested", r.Target))
		case r.BaseMeetsGoal():
			recommendations = append(recommendations,
				fmt.Sprintf("Holds while %s stays %s %s (now %s)",
					r.Target, r.Direction, formatValue(r.Target, r.Threshold), formatValue(r.Target, r.BaseValue)))
		default:
			recommendations = append(recommendations,
				fmt.Sprintf("Needs %s %s %s (now %s)",
					r.Target, r.Direction, formatValue(r.Target, r.Threshold), formatValue(r.Target, r.BaseValue)))
		}
	}
	return recommendations
}
