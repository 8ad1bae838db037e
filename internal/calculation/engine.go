package calculation

import (
	"context"
	"math"

	"github.com/rgehrsitz/cppbridge/internal/domain"
	"github.com/rgehrsitz/cppbridge/internal/mortality"
	"github.com/shopspring/decimal"
)

// CalculationEngine evaluates bridge scenarios against one mortality model
// and one recommendation policy. It holds no per-request state and is safe
// for concurrent use.
type CalculationEngine struct {
	Model  *mortality.Model
	Policy RecommendationPolicy
	Logger Logger
	Debug  bool // Log each intermediate value
}

// NewCalculationEngine creates an engine on the embedded table with the
// default policy
func NewCalculationEngine() *CalculationEngine {
	return NewCalculationEngineWithModel(mortality.NewModel(nil), nil)
}

// NewCalculationEngineWithModel creates an engine with an explicit model and
// policy. A nil policy selects DefaultPolicy.
func NewCalculationEngineWithModel(model *mortality.Model, policy RecommendationPolicy) *CalculationEngine {
	if model == nil {
		model = mortality.NewModel(nil)
	}
	if policy == nil {
		policy = DefaultPolicy()
	}
	return &CalculationEngine{
		Model:  model,
		Policy: policy,
		Logger: NopLogger{},
	}
}

// SetLogger sets the logger. nil restores the no-op logger.
func (ce *CalculationEngine) SetLogger(l Logger) {
	if l == nil {
		ce.Logger = NopLogger{}
		return
	}
	ce.Logger = l
}

func (ce *CalculationEngine) debugf(format string, args ...any) {
	if ce.Debug {
		ce.Logger.Debugf(format, args...)
	}
}

// TargetMonthlyAt70 is the age-65 benefit enhanced for five years of delay
// and indexed by wage growth over the same five years
func TargetMonthlyAt70(benefitAt65, wageGrowth float64) float64 {
	return benefitAt65 * domain.DelayFactor * math.Pow(1+wageGrowth, domain.DelayYears)
}

// BridgeCostToday is the lump sum needed now to pay the target income from 65
// to 70, valued at 65 as an annuity-due and discounted back to today.
func BridgeCostToday(target, realRate float64, currentAge int) float64 {
	costAt65 := AnnuityDuePV(target, MonthlyRate(realRate), domain.BridgeMonths)
	yearsTo65 := max(0, domain.EarlyClaimAge-currentAge)
	return costAt65 / math.Pow(1+realRate, float64(yearsTo65))
}

// Evaluate runs the full bridge decision for one input
func (ce *CalculationEngine) Evaluate(ctx context.Context, in domain.ScenarioInput) (*domain.ScenarioOutput, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := in.Validate(); err != nil {
		return nil, err
	}

	realRate := in.RealRateOfReturn.InexactFloat64()
	benefit := in.BenefitAt65.InexactFloat64()
	savings := in.Savings.InexactFloat64()
	rm := MonthlyRate(realRate)

	// Steps 1-3: target income and the cost of bridging to it.
	target := TargetMonthlyAt70(benefit, in.WageGrowth.InexactFloat64())
	cost := BridgeCostToday(target, realRate, in.CurrentAge)
	ce.debugf("age=%d target=%.4f bridge cost=%.4f monthly rate=%.8f", in.CurrentAge, target, cost, rm)

	// Step 4: affordability.
	affordable := savings >= cost
	shortfall := math.Max(0, cost-savings)
	surplus := math.Max(0, savings-cost)

	// Step 5: leftover savings compounded to 85.
	estate := 0.0
	if surplus > 0 {
		years := max(0, domain.EstateHorizonAge-in.CurrentAge)
		estate = surplus * math.Pow(1+realRate, float64(years))
	}

	// Step 6: income streams only, never net of the bridge cost.
	breakeven, found := FindEconomicBreakeven(benefit, target, rm)
	ce.debugf("breakeven age=%d found=%t", breakeven, found)

	// Step 7: odds of outliving the breakeven.
	startAge := in.ProbabilityStartAge()
	pWin, err := ce.Model.SurvivalProbability(startAge, breakeven, in.Sex, in.Health)
	if err != nil {
		return nil, wrapErr("probability of winning", "survival to breakeven", err)
	}

	epvEarly, err := ExpectedPresentValue(ce.Model, benefit, domain.EarlyClaimAge, in.CurrentAge, realRate, in.Sex, in.Health)
	if err != nil {
		return nil, wrapErr("epv", "early stream", err)
	}
	epvDelayed, err := ExpectedPresentValue(ce.Model, target, domain.DelayedClaimAge, in.CurrentAge, realRate, in.Sex, in.Health)
	if err != nil {
		return nil, wrapErr("epv", "delayed stream", err)
	}

	conditional := false
	if !in.DiscountPreRetirementMortality && in.CurrentAge < domain.EarlyClaimAge {
		p65, err := ce.Model.SurvivalProbability(in.CurrentAge, domain.EarlyClaimAge, in.Sex, in.Health)
		if err != nil {
			return nil, wrapErr("epv", "survival to 65", err)
		}
		var okEarly, okDelayed bool
		epvEarly, okEarly = ConditionalEPV(epvEarly, p65)
		epvDelayed, okDelayed = ConditionalEPV(epvDelayed, p65)
		conditional = okEarly && okDelayed
		if !conditional {
			ce.Logger.Warnf("survival to 65 is zero for age %d, reporting unconditional EPVs", in.CurrentAge)
		}
	}
	ce.debugf("p(win)=%.6f epv early=%.4f delayed=%.4f conditional=%t", pWin, epvEarly, epvDelayed, conditional)

	lifeExpectancy, err := ce.Model.LifeExpectancy(in.CurrentAge, in.Sex, in.Health)
	if err != nil {
		return nil, wrapErr("life expectancy", "current age", err)
	}

	// Step 8: recommendation.
	label := ce.Policy.Recommend(pWin)

	out := &domain.ScenarioOutput{
		BridgeCostLumpSum:       roundMoney(cost),
		TargetMonthlyIncomeAt70: roundMoney(target),
		IsAffordable:            affordable,
		ShortfallAmount:         roundMoney(shortfall),
		SurplusAmount:           roundMoney(surplus),
		BonusEstateValueAt85:    roundMoney(estate),
		BreakevenAgeEconomic:    breakeven,
		BreakevenFound:          found,
		ProbabilityOfWinning:    roundProbability(pWin),
		ExpectedLifetimeGain:    roundMoney(epvDelayed - epvEarly),
		LifeExpectancy:          decimal.NewFromFloat(lifeExpectancy).Round(1),
		EPVEarly:                roundMoney(epvEarly),
		EPVDelayed:              roundMoney(epvDelayed),
		EPVConditional:          conditional,
		Recommendation:          label,
		RecommendationReasoning: Rationale(breakeven, found, string(in.Health), pWin),
		RecommendationPolicy:    ce.Policy.Name(),
	}

	ce.Logger.Debugf("evaluated age=%d sex=%s health=%s: cost=%s breakeven=%d p=%s -> %s",
		in.CurrentAge, in.Sex, in.Health, out.BridgeCostLumpSum.StringFixed(2), breakeven,
		out.ProbabilityOfWinning.String(), label)
	return out, nil
}

// EvaluateAllHealth evaluates the same input under every health rating
func (ce *CalculationEngine) EvaluateAllHealth(ctx context.Context, in domain.ScenarioInput) (*domain.HealthComparison, error) {
	cmp := &domain.HealthComparison{
		Input:   in,
		Results: make(map[domain.HealthRating]domain.ScenarioOutput, len(domain.AllHealthRatings)),
	}
	for _, health := range domain.AllHealthRatings {
		variant := in
		variant.Health = health
		out, err := ce.Evaluate(ctx, variant)
		if err != nil {
			return nil, wrapErr("health comparison", string(health), err)
		}
		cmp.Results[health] = *out
	}
	return cmp, nil
}
