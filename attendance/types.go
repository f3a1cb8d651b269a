/*
Package attendance implements the attendance calculation engine.

PURPOSE:
  This package turns raw daily punch records (clock-in/out, breaks, leave
  markers) into per-employee period summaries: attendance and absence
  counts, tardiness and early-leave minutes, overtime/night/holiday minute
  buckets, premium-weighted minutes, and leave usage. Everything is an
  in-memory batch transformation; the caller supplies records and rules
  and receives immutable summaries.

KEY CONCEPTS IN THIS FILE (types.go):
  - EmployeeID / DepartmentCode: type-safe identifiers
  - Status: closed enumeration of punch-record status tags
  - RoundingMethod: closed enumeration of minute-rounding behaviors

DESIGN PRINCIPLES:
  1. Immutability: records, rules and summaries are built once by
     validating constructors and never mutated
  2. Precision: decimal.Decimal wherever quantities become non-integral
     (premium weights, leave fractions, rates); raw minutes stay int
  3. Closed enumerations: unknown status or rounding kinds are rejected at
     parse time, never silently skipped
  4. Explicit dependencies: rules are passed in, never read from globals

USAGE:
  rules := attendance.DefaultWorkRules()
  calc, err := attendance.NewCalculator(rules)
  summary, err := calc.Calculate(records, period)

SEE ALSO:
  - record.go: validated punch records and duration arithmetic
  - rules.go: the work-rules provider
  - calculator.go: the per-employee calculation
  - summary.go: the summary value type
*/
package attendance

import (
	"fmt"
	"strings"
)

// =============================================================================
// IDENTIFIERS
// =============================================================================

type EmployeeID string
type DepartmentCode string

// =============================================================================
// STATUS - Closed enumeration of record status tags
// =============================================================================

type Status string

const (
	StatusNone         Status = ""              // No tag; classification falls back to worked minutes
	StatusPresent      Status = "present"       // Explicit attendance
	StatusAbsent       Status = "absent"        // Explicit absence
	StatusPaidLeave    Status = "paid_leave"    // Paid leave day (may be partial)
	StatusSpecialLeave Status = "special_leave" // Special leave day (may be partial)
)

// statusAliases maps accepted input spellings to canonical statuses.
// Japanese spellings match the punch-file exports this engine ingests.
var statusAliases = map[string]Status{
	"":              StatusNone,
	"present":       StatusPresent,
	"attendance":    StatusPresent,
	"出勤":            StatusPresent,
	"absent":        StatusAbsent,
	"absence":       StatusAbsent,
	"欠勤":            StatusAbsent,
	"paid_leave":    StatusPaidLeave,
	"paid-leave":    StatusPaidLeave,
	"有給":            StatusPaidLeave,
	"有給休暇":          StatusPaidLeave,
	"special_leave": StatusSpecialLeave,
	"special-leave": StatusSpecialLeave,
	"特休":            StatusSpecialLeave,
	"特別休暇":          StatusSpecialLeave,
}

// ParseStatus maps an input tag to a Status. Unknown tags are an error,
// not a silent pass-through.
func ParseStatus(s string) (Status, error) {
	key := strings.ToLower(strings.TrimSpace(s))
	if st, ok := statusAliases[key]; ok {
		return st, nil
	}
	return StatusNone, &FieldError{Field: "status", Reason: fmt.Sprintf("unknown status tag %q", s)}
}

// IsAttendance reports whether the tag explicitly marks attendance.
func (s Status) IsAttendance() bool { return s == StatusPresent }

// IsAbsence reports whether the tag explicitly marks absence.
func (s Status) IsAbsence() bool { return s == StatusAbsent }

// IsLeave reports whether the tag marks paid or special leave.
func (s Status) IsLeave() bool { return s == StatusPaidLeave || s == StatusSpecialLeave }

// =============================================================================
// ROUNDING - Closed enumeration of minute-rounding behaviors
// =============================================================================

type RoundingMethod string

const (
	RoundUp      RoundingMethod = "up"
	RoundDown    RoundingMethod = "down"
	RoundNearest RoundingMethod = "nearest"
)

// ParseRoundingMethod maps an input string to a RoundingMethod.
func ParseRoundingMethod(s string) (RoundingMethod, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "up", "ceil":
		return RoundUp, nil
	case "down", "floor":
		return RoundDown, nil
	case "nearest", "half":
		return RoundNearest, nil
	default:
		return RoundUp, &ConfigurationError{Setting: "rounding.method", Reason: fmt.Sprintf("unknown rounding method %q", s)}
	}
}

// roundMinutes applies the method over the given unit. A unit of 1 or less
// leaves the value untouched.
func (m RoundingMethod) roundMinutes(minutes, unit int) int {
	if unit <= 1 || minutes <= 0 {
		if minutes < 0 {
			return 0
		}
		return minutes
	}
	q, r := minutes/unit, minutes%unit
	switch m {
	case RoundDown:
		return q * unit
	case RoundNearest:
		if r*2 >= unit {
			return (q + 1) * unit
		}
		return q * unit
	default: // RoundUp
		if r > 0 {
			return (q + 1) * unit
		}
		return q * unit
	}
}
