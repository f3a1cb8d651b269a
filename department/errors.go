package department

import (
	"errors"
	"fmt"
	"strings"

	"github.com/warp/attendance-engine/attendance"
)

// =============================================================================
// SENTINEL ERRORS
// =============================================================================

var (
	// ErrHierarchy flags a structurally invalid department list: blank or
	// duplicate codes, unknown parents, inconsistent levels, bad aggregation
	// arguments.
	ErrHierarchy = errors.New("invalid department hierarchy")

	// ErrCircularReference flags a parent chain that loops back on itself.
	ErrCircularReference = errors.New("circular department reference")
)

// =============================================================================
// STRUCTURED ERRORS
// =============================================================================

// ValidationError reports which department failed hierarchy validation
// and why. Code is blank for list-level problems.
type ValidationError struct {
	Code   attendance.DepartmentCode
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Code == "" {
		return fmt.Sprintf("department hierarchy: %s", e.Reason)
	}
	return fmt.Sprintf("department %s: %s", e.Code, e.Reason)
}

func (e *ValidationError) Unwrap() error { return ErrHierarchy }

// CircularReferenceError carries the offending parent chain. The first
// code of the loop is repeated at the end.
type CircularReferenceError struct {
	Path []attendance.DepartmentCode
}

func (e *CircularReferenceError) Error() string {
	parts := make([]string, len(e.Path))
	for i, code := range e.Path {
		parts[i] = string(code)
	}
	return "circular department reference: " + strings.Join(parts, " -> ")
}

func (e *CircularReferenceError) Unwrap() error { return ErrCircularReference }
