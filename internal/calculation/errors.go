package calculation

// CalculationError wraps a failure inside one engine step
type CalculationError struct {
	Operation string
	Message   string
	Cause     error
}

func (e *CalculationError) Error() string {
	if e.Cause != nil {
		return e.Operation + ": " + e.Message + ": " + e.Cause.Error()
	}
	return e.Operation + ": " + e.Message
}

func (e *CalculationError) Unwrap() error {
	return e.Cause
}

func wrapErr(op, msg string, cause error) error {
	if cause == nil {
		return nil
	}
	return &CalculationError{Operation: op, Message: msg, Cause: cause}
}
