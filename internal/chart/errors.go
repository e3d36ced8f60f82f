package chart

import "errors"

// Sentinel errors for chart validation.
var (
	// ErrDuplicateName indicates two charts in one file share a name.
	ErrDuplicateName = errors.New("duplicate chart name")
	// ErrInvalidField indicates a field that failed a validation rule.
	ErrInvalidField = errors.New("invalid field")
)

// ValidationError records a validation problem with chart context.
type ValidationError struct {
	Chart string
	Field string
	Err   error
}

// Error returns a human-readable string including chart and field.
func (e *ValidationError) Error() string {
	if e.Field != "" {
		return "chart " + e.Chart + ": " + e.Field + ": " + e.Err.Error()
	}
	return "chart " + e.Chart + ": " + e.Err.Error()
}

// Unwrap returns the underlying error for use with errors.Is/As.
func (e *ValidationError) Unwrap() error {
	return e.Err
}
