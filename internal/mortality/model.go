package mortality

import (
	"fmt"
	"math"

	"github.com/rgehrsitz/cppbridge/internal/domain"
)

// Model answers survival questions from exactly one table
type Model struct {
	table *Table
}

// NewModel wraps a table. A nil table selects DefaultTable.
func NewModel(t *Table) *Model {
	if t == nil {
		t = DefaultTable()
	}
	return &Model{table: t}
}

// Table returns the backing table
func (m *Model) Table() *Table { return m.table }

// QX is the probability of dying within one year at an (already adjusted)
// age. Ages from 115 up, and ages past a terminal last row, are certain death.
func (m *Model) QX(age int, sex domain.Sex) (float64, error) {
	if age < 0 {
		return 0, fmt.Errorf("%w: qx age %d", ErrAgeOutOfRange, age)
	}
	if age >= domain.MaxAge {
		if sex != domain.Male && sex != domain.Female {
			return 0, fmt.Errorf("%w: %q", ErrUnknownSex, string(sex))
		}
		return 1, nil
	}
	q, ok, err := m.table.Rate(age, sex)
	if err != nil {
		return 0, err
	}
	if !ok {
		// NewTable only accepts short tables that end on a terminal row.
		if age > m.table.LastAge() {
			return 1, nil
		}
		return 0, fmt.Errorf("%w: no rate for age %d in %s", ErrMortalityData, age, m.table.Source())
	}
	return q, nil
}

// EffectiveAge applies the health age rating, clamped to [0, 115]
func EffectiveAge(age int, health domain.HealthRating) int {
	eff := age + health.AgeOffset()
	if eff < 0 {
		return 0
	}
	if eff > domain.MaxAge {
		return domain.MaxAge
	}
	return eff
}

func checkAge(age int) error {
	if age < 0 || age > domain.MaxAge {
		return fmt.Errorf("%w: %d not in [0, %d]", ErrAgeOutOfRange, age, domain.MaxAge)
	}
	return nil
}

// SurvivalProbability is the chance someone aged current reaches target. The
// health rating shifts the starting age once and the rated age then advances
// one year at a time.
func (m *Model) SurvivalProbability(current, target int, sex domain.Sex, health domain.HealthRating) (float64, error) {
	if err := checkAge(current); err != nil {
		return 0, err
	}
	if err := checkAge(target); err != nil {
		return 0, err
	}
	if target <= current {
		return 1, nil
	}

	eff := EffectiveAge(current, health)
	p := 1.0
	for i := 0; i < target-current; i++ {
		q, err := m.QX(eff+i, sex)
		if err != nil {
			return 0, err
		}
		p *= 1 - q
	}
	return p, nil
}

// LifeExpectancy is the expected age at death: the curtate expectation plus
// half a year, rounded to one decimal.
func (m *Model) LifeExpectancy(current int, sex domain.Sex, health domain.HealthRating) (float64, error) {
	if err := checkAge(current); err != nil {
		return 0, err
	}
	sum := 0.0
	for age := current + 1; age <= domain.MaxAge; age++ {
		p, err := m.SurvivalProbability(current, age, sex, health)
		if err != nil {
			return 0, err
		}
		sum += p
	}
	return math.Round((float64(current)+sum+0.5)*10) / 10, nil
}

// SurvivalCurve returns P(current -> age) for every age in [from, to]
func (m *Model) SurvivalCurve(current, from, to int, sex domain.Sex, health domain.HealthRating) ([]float64, error) {
	if from > to {
		return nil, fmt.Errorf("curve range %d..%d is empty", from, to)
	}
	if err := checkAge(from); err != nil {
		return nil, err
	}
	if err := checkAge(to); err != nil {
		return nil, err
	}
	curve := make([]float64, 0, to-from+1)
	for age := from; age <= to; age++ {
		p, err := m.SurvivalProbability(current, age, sex, health)
		if err != nil {
			return nil, err
		}
		curve = append(curve, p)
	}
	return curve, nil
}
