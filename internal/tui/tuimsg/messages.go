package tuimsg

import (
	"github.com/rgehrsitz/cppbridge/internal/domain"
)

// ScenarioLoadedMsg carries a scenario read from a file
type ScenarioLoadedMsg struct {
	Name  string
	Input domain.ScenarioInput
}

// ErrorMsg displays an error to the user
type ErrorMsg struct {
	Err error
}

// ParameterChangedMsg signals the edited input changed and should be
// re-evaluated
type ParameterChangedMsg struct {
	Parameter string
	Input     domain.ScenarioInput
}

// CalculationCompleteMsg carries one evaluation. Seq lets the model drop
// results that a later edit has already superseded.
type CalculationCompleteMsg struct {
	Seq      int
	Input    domain.ScenarioInput
	Output   *domain.ScenarioOutput
	Survival []float64 // P(current -> age) for every age from 65 to 105
	Err      error
}
