package calculation

import (
	"fmt"
	"strings"
)

// Recommendation labels
const (
	LabelDelay         = "Delay to 70"
	LabelConsiderDelay = "Consider delaying"
	LabelTakeEarly     = "Take early (65)"
)

// RecommendationPolicy maps the probability of outliving the breakeven age
// to a label. Exactly one policy is active per engine.
type RecommendationPolicy interface {
	Name() string
	Recommend(probabilityOfWinning float64) string
}

// BinaryPolicy delays whenever the odds are better than even
type BinaryPolicy struct{}

func (BinaryPolicy) Name() string { return "binary" }

func (BinaryPolicy) Recommend(p float64) string {
	if p > 0.5 {
		return LabelDelay
	}
	return LabelTakeEarly
}

// TieredPolicy only recommends delaying outright above 60% and flags the
// 50-60% band as a judgement call.
type TieredPolicy struct{}

func (TieredPolicy) Name() string { return "tiered" }

func (TieredPolicy) Recommend(p float64) string {
	switch {
	case p > 0.6:
		return LabelDelay
	case p > 0.5:
		return LabelConsiderDelay
	default:
		return LabelTakeEarly
	}
}

// DefaultPolicy is the policy used when none is configured
func DefaultPolicy() RecommendationPolicy { return BinaryPolicy{} }

// PolicyByName resolves a configured policy name. An empty name selects the
// default.
func PolicyByName(name string) (RecommendationPolicy, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "binary":
		return BinaryPolicy{}, nil
	case "tiered", "three-tier":
		return TieredPolicy{}, nil
	}
	return nil, fmt.Errorf("unknown recommendation policy %q (expected binary or tiered)", name)
}

// Rationale explains a recommendation in one or two sentences
func Rationale(breakevenAge int, found bool, health string, probability float64) string {
	if !found {
		return fmt.Sprintf(
			"Delaying never catches up with taking the benefit early before age %d at this rate of return. "+
				"Given your %s health, you have a %.1f%% probability of reaching that age.",
			breakevenAge, health, probability*100)
	}
	return fmt.Sprintf(
		"To benefit from delaying, you must live past age %d. "+
			"Given your %s health, you have a %.1f%% probability of reaching this milestone.",
		breakevenAge, health, probability*100)
}
