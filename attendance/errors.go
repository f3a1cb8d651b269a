/*
errors.go - Centralized error types for the attendance engine

PURPOSE:
  All engine error types in one place. The taxonomy mirrors how failures
  propagate: record-level problems are absorbable (the calculator converts
  them to summary warnings and keeps going), while structural and
  configuration problems always reach the caller.

ERROR CATEGORIES:
  1. Record errors - missing/malformed fields, implausible dates, clock
     contradictions; absorbed as warnings, never abort a batch
  2. Configuration errors - structurally invalid work rules; fail fast
     before any calculation begins
  3. Calculation errors - caller misuse (empty input, mixed employees,
     malformed period); always propagated

USAGE:
  if attendance.IsRecordError(err) {
      // skip the record, append a warning
  }

SEE ALSO:
  - record.go: raises the record-level errors
  - rules.go: raises ConfigurationError
  - calculator.go: absorbs record errors, raises CalculationError
*/
package attendance

import (
	"errors"
	"fmt"
)

// =============================================================================
// SENTINEL ERRORS - Use with errors.Is()
// =============================================================================

var (
	// ErrMissingField is returned when a required record field is blank
	// or a field value is malformed (break out of range, unknown status,
	// unparseable clock or date string).
	ErrMissingField = errors.New("missing or malformed field")

	// ErrInvalidDate is returned when a work date is in the future or
	// implausibly old (more than five years before today).
	ErrInvalidDate = errors.New("implausible work date")

	// ErrTimeLogic is returned when clock values contradict each other,
	// e.g. an inferred overnight shift shorter than one hour.
	ErrTimeLogic = errors.New("contradictory clock times")

	// ErrWorkHours is returned when a computed shift exceeds 24 hours.
	ErrWorkHours = errors.New("shift exceeds 24 hours")

	// ErrConfiguration is returned for structurally invalid work rules.
	ErrConfiguration = errors.New("invalid work rules configuration")

	// ErrCalculation is returned for structural caller misuse: empty
	// record list, mixed employee identifiers, period start after end.
	ErrCalculation = errors.New("invalid calculation input")
)

// =============================================================================
// STRUCTURED ERRORS - Carry additional context
// =============================================================================

// FieldError reports a missing or malformed record field.
type FieldError struct {
	Field  string
	Reason string
}

func (e *FieldError) Error() string {
	if e.Reason == "" {
		return fmt.Sprintf("field %s is required", e.Field)
	}
	return fmt.Sprintf("field %s: %s", e.Field, e.Reason)
}

func (e *FieldError) Unwrap() error { return ErrMissingField }

// DateError reports an implausible work date. Future dates are flagged so
// callers can present them as hard errors rather than stale-data warnings.
type DateError struct {
	Date   Date
	Future bool
	Reason string
}

func (e *DateError) Error() string {
	return fmt.Sprintf("work date %s: %s", e.Date, e.Reason)
}

func (e *DateError) Unwrap() error { return ErrInvalidDate }

// TimeLogicError reports contradictory clock-in/out values.
type TimeLogicError struct {
	ClockIn  ClockTime
	ClockOut ClockTime
	Minutes  int
	Reason   string
}

func (e *TimeLogicError) Error() string {
	return fmt.Sprintf("clock %s-%s (%d min): %s", e.ClockIn, e.ClockOut, e.Minutes, e.Reason)
}

func (e *TimeLogicError) Unwrap() error { return ErrTimeLogic }

// WorkHoursError reports a shift whose computed span exceeds 24 hours.
type WorkHoursError struct {
	ClockIn  ClockTime
	ClockOut ClockTime
	Minutes  int
}

func (e *WorkHoursError) Error() string {
	return fmt.Sprintf("clock %s-%s spans %d minutes, over the 24-hour limit", e.ClockIn, e.ClockOut, e.Minutes)
}

func (e *WorkHoursError) Unwrap() error { return ErrWorkHours }

// ConfigurationError reports a structurally invalid work-rules value.
type ConfigurationError struct {
	Setting string
	Reason  string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("work rules %s: %s", e.Setting, e.Reason)
}

func (e *ConfigurationError) Unwrap() error { return ErrConfiguration }

// CalculationError reports structural misuse of the calculator.
type CalculationError struct {
	EmployeeID EmployeeID
	Reason     string
}

func (e *CalculationError) Error() string {
	if e.EmployeeID != "" {
		return fmt.Sprintf("calculation for %s: %s", e.EmployeeID, e.Reason)
	}
	return fmt.Sprintf("calculation: %s", e.Reason)
}

func (e *CalculationError) Unwrap() error { return ErrCalculation }

// =============================================================================
// ERROR HELPERS
// =============================================================================

// IsRecordError returns true if the error concerns a single record and may
// be absorbed as a summary warning instead of aborting the run.
func IsRecordError(err error) bool {
	return errors.Is(err, ErrMissingField) ||
		errors.Is(err, ErrInvalidDate) ||
		errors.Is(err, ErrTimeLogic) ||
		errors.Is(err, ErrWorkHours)
}
