package output

import (
	"strconv"

	"github.com/rgehrsitz/cppbridge/internal/domain"
	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// FormatCurrency formats a decimal as currency with 2 decimals.
func FormatCurrency(amount decimal.Decimal) string { return "$" + amount.StringFixed(2) }

// FormatPercentage formats a decimal as a percentage with 2 decimals.
func FormatPercentage(amount decimal.Decimal) string { return amount.StringFixed(2) + "%" }

// FormatRate formats a fractional rate such as 0.011 as "1.10%".
func FormatRate(rate decimal.Decimal) string { return FormatPercentage(rate.Mul(hundred)) }

// FormatProbability formats a probability such as 0.6906 as "69.1%".
func FormatProbability(p decimal.Decimal) string { return p.Mul(hundred).StringFixed(1) + "%" }

// FormatBreakeven renders the breakeven age, or says none was found
func FormatBreakeven(age int, found bool) string {
	if !found {
		return "none before " + strconv.Itoa(age)
	}
	return strconv.Itoa(age)
}

// MortalityTreatment names how pre-retirement mortality was handled
func MortalityTreatment(in domain.ScenarioInput) string {
	if in.DiscountPreRetirementMortality {
		return "discounted"
	}
	return "ignored (assumes survival to 65)"
}
