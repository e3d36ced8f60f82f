package period

import (
	"errors"
	"fmt"
	"time"
)

// Sentinel errors for table validation and tree construction.
var (
	// ErrConfiguration indicates a period table is internally inconsistent.
	ErrConfiguration = errors.New("invalid period table")
	// ErrConsistency indicates a constructed tree violates a structural invariant.
	ErrConsistency = errors.New("period tree inconsistent")
	// ErrUnknownLord indicates a lord that is not part of the table's order.
	ErrUnknownLord = errors.New("lord not in table")
)

// ConfigurationError reports a table whose weights do not sum to its
// declared cycle length, or whose order and weights disagree.
type ConfigurationError struct {
	System string
	Sum    float64
	Total  float64
	Reason string
}

// Error describes the offending table.
func (e *ConfigurationError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("%s: %s: %v", e.System, e.Reason, ErrConfiguration)
	}
	return fmt.Sprintf("%s: weights sum to %g years, want %g: %v", e.System, e.Sum, e.Total, ErrConfiguration)
}

// Unwrap returns ErrConfiguration.
func (e *ConfigurationError) Unwrap() error {
	return ErrConfiguration
}

// ConsistencyError reports a node that does not satisfy a tree invariant,
// most importantly a root period that does not bound the birth instant.
type ConsistencyError struct {
	System string
	Birth  time.Time
	Start  time.Time
	End    time.Time
	Reason string
}

// Error describes the failed invariant.
func (e *ConsistencyError) Error() string {
	return fmt.Sprintf("%s: %s (birth %s, period [%s, %s)): %v",
		e.System, e.Reason,
		e.Birth.UTC().Format(time.RFC3339),
		e.Start.UTC().Format(time.RFC3339),
		e.End.UTC().Format(time.RFC3339),
		ErrConsistency)
}

// Unwrap returns ErrConsistency.
func (e *ConsistencyError) Unwrap() error {
	return ErrConsistency
}

// Boundary names the side of the generated range a query fell outside of.
type Boundary int

// BeforeBirth and AfterHorizon are the two sides of the generated range.
const (
	BeforeBirth  Boundary = iota + 1 // target precedes the birth instant
	AfterHorizon                     // target is at or past the last generated end
)

// RangeWarning is the non-fatal signal that a locator query fell outside
// the generated tree and the nearest boundary node was substituted.
type RangeWarning struct {
	Target   time.Time
	Boundary Boundary
	Nearest  time.Time // start (BeforeBirth) or end (AfterHorizon) of the generated range
}

// Error implements error so callers can log the warning directly.
func (w *RangeWarning) Error() string {
	side := "after the generated horizon"
	if w.Boundary == BeforeBirth {
		side = "before birth"
	}
	return fmt.Sprintf("target %s is %s (%s); using nearest period",
		w.Target.UTC().Format(time.RFC3339), side, w.Nearest.UTC().Format(time.RFC3339))
}
