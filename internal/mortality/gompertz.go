package mortality

import (
	"fmt"
	"math"

	"github.com/rgehrsitz/cppbridge/internal/domain"
)

// GompertzParams is the law qx = min(A * e^(B*age), 1) for one sex
type GompertzParams struct {
	A float64 `json:"a" yaml:"a"`
	B float64 `json:"b" yaml:"b"`
}

// Rate evaluates the law at an age
func (g GompertzParams) Rate(age int) float64 {
	return math.Min(g.A*math.Exp(g.B*float64(age)), 1)
}

// FitGompertz solves A and B so the law passes through the table's rates at
// two ages.
func FitGompertz(t *Table, sex domain.Sex, age1, age2 int) (GompertzParams, error) {
	if age1 == age2 {
		return GompertzParams{}, fmt.Errorf("fit ages must differ, got %d twice", age1)
	}
	q1, ok1, err := t.Rate(age1, sex)
	if err != nil {
		return GompertzParams{}, err
	}
	q2, ok2, err := t.Rate(age2, sex)
	if err != nil {
		return GompertzParams{}, err
	}
	if !ok1 || !ok2 {
		return GompertzParams{}, fmt.Errorf("%w: fit ages %d and %d must both be in the table", ErrAgeOutOfRange, age1, age2)
	}
	if q1 <= 0 || q2 <= 0 {
		return GompertzParams{}, fmt.Errorf("%w: cannot fit through a zero rate", ErrMortalityData)
	}

	b := math.Log(q2/q1) / float64(age2-age1)
	a := q1 / math.Exp(b*float64(age1))
	return GompertzParams{A: a, B: b}, nil
}

// DefaultGompertz fits each sex of the embedded table at ages 65 and 85, the
// span that drives every bridge decision.
func DefaultGompertz() (male, female GompertzParams, err error) {
	t := DefaultTable()
	if male, err = FitGompertz(t, domain.Male, domain.EarlyClaimAge, domain.EstateHorizonAge); err != nil {
		return male, female, err
	}
	female, err = FitGompertz(t, domain.Female, domain.EarlyClaimAge, domain.EstateHorizonAge)
	return male, female, err
}

// NewGompertzTable tabulates the law for ages 0 to 114
func NewGompertzTable(male, female GompertzParams) (*Table, error) {
	for _, g := range []GompertzParams{male, female} {
		if g.A <= 0 || math.IsNaN(g.A) || math.IsNaN(g.B) || math.IsInf(g.B, 0) {
			return nil, fmt.Errorf("%w: invalid gompertz parameters A=%v B=%v", ErrMortalityData, g.A, g.B)
		}
	}
	rows := make([]Row, domain.MaxAge)
	for age := range rows {
		rows[age] = Row{Age: age, Male: male.Rate(age), Female: female.Rate(age)}
	}
	return NewTable(rows, fmt.Sprintf("gompertz(male A=%.4g B=%.4f, female A=%.4g B=%.4f)", male.A, male.B, female.A, female.B))
}
