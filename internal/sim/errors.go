package sim

import "fmt"

// ConfigError reports a SystemConfig field outside its documented range.
// The pipeline does not run when one is returned.
type ConfigError struct {
	Field string
	Value float64
	Min   float64
	Max   float64
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("config: %s = %g outside [%g, %g]", e.Field, e.Value, e.Min, e.Max)
}

// MissingDataError reports a malformed or empty forecast series. The pipeline
// does not run when one is returned.
type MissingDataError struct {
	Field  string
	Reason string
}

func (e *MissingDataError) Error() string {
	return fmt.Sprintf("forecast data: %s: %s", e.Field, e.Reason)
}

// NumericGuardError reports a broken internal invariant, like battery charge
// escaping its bounds. It should never occur with correct ledger arithmetic;
// any occurrence is a defect, not a recoverable condition.
type NumericGuardError struct {
	Day      int
	Quantity string
	Value    float64
}

func (e *NumericGuardError) Error() string {
	return fmt.Sprintf("numeric guard: day %d: %s = %g out of bounds", e.Day, e.Quantity, e.Value)
}
