package transform

import (
	"fmt"

	"github.com/rgehrsitz/cppbridge/internal/domain"
)

// ScenarioTransform is one what-if change to a scenario. Transforms compose,
// which is how comparison templates are built.
type ScenarioTransform interface {
	// Apply returns a modified copy of base
	Apply(base domain.ScenarioInput) (domain.ScenarioInput, error)

	// Name returns a short identifier, e.g. "set_health"
	Name() string

	// Description returns a human-readable summary of the change
	Description() string

	// Validate checks the transform's parameters against base without applying it
	Validate(base domain.ScenarioInput) error
}

// ApplyTransforms applies transforms in order, each receiving the output of
// the previous one. The result must still be a valid scenario.
func ApplyTransforms(base domain.ScenarioInput, transforms []ScenarioTransform) (domain.ScenarioInput, error) {
	current := base
	for i, t := range transforms {
		if t == nil {
			return base, fmt.Errorf("transform at index %d is nil", i)
		}
		if err := t.Validate(current); err != nil {
			return base, fmt.Errorf("transform %s validation failed: %w", t.Name(), err)
		}
		next, err := t.Apply(current)
		if err != nil {
			return base, fmt.Errorf("transform %s failed: %w", t.Name(), err)
		}
		current = next
	}

	if err := current.Validate(); err != nil {
		return base, fmt.Errorf("transformed scenario is invalid: %w", err)
	}
	return current, nil
}

// TransformError represents an error that occurred during transformation
type TransformError struct {
	TransformName string
	Operation     string
	Reason        string
	Err           error
}

func (e *TransformError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("transform %s (%s): %s: %v", e.TransformName, e.Operation, e.Reason, e.Err)
	}
	return fmt.Sprintf("transform %s (%s): %s", e.TransformName, e.Operation, e.Reason)
}

func (e *TransformError) Unwrap() error {
	return e.Err
}

// NewTransformError creates a new TransformError
func NewTransformError(transformName, operation, reason string, err error) error {
	return &TransformError{
		TransformName: transformName,
		Operation:     operation,
		Reason:        reason,
		Err:           err,
	}
}
