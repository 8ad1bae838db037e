package domain

import (
	"fmt"
	"strings"
)

// ValidationError describes a single rejected input field
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidationErrors collects every field problem found in one pass
type ValidationErrors []*ValidationError

func (ve ValidationErrors) Error() string {
	msgs := make([]string, len(ve))
	for i, e := range ve {
		msgs[i] = e.Error()
	}
	return "invalid input: " + strings.Join(msgs, "; ")
}

// Fields returns the names of the rejected fields in report order
func (ve ValidationErrors) Fields() []string {
	fields := make([]string, len(ve))
	for i, e := range ve {
		fields[i] = e.Field
	}
	return fields
}

func (ve *ValidationErrors) add(field, format string, args ...any) {
	*ve = append(*ve, &ValidationError{Field: field, Message: fmt.Sprintf(format, args...)})
}
