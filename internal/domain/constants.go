package domain

// Benefit rules for the early (65) versus delayed (70) claiming decision.
const (
	EarlyClaimAge   = 65
	DelayedClaimAge = 70

	// DelayFactor is the 42% enhancement earned by deferring 60 months past 65.
	DelayFactor = 1.42
	// EarlyFactor is the reduction applied when claiming at 60. Reported only.
	EarlyFactor = 0.64

	BridgeMonths = 60
	DelayYears   = DelayedClaimAge - EarlyClaimAge

	EstateHorizonAge    = 85
	BreakevenCeilingAge = 105
	MaxAge              = 115
)

// Request bounds and defaults.
const (
	MinCurrentAge = 30
	MaxCurrentAge = 75

	DefaultRealRateOfReturn = 0.01
	DefaultWageGrowth       = 0.011
	DefaultInflationRate    = 0.021

	MaxRealRateOfReturn = 0.15
	MaxWageGrowth       = 0.10
	MaxInflationRate    = 0.10
)
