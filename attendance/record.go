package attendance

import (
	"fmt"
	"strconv"
	"strings"
)

// =============================================================================
// RECORD INPUT - Raw field values before validation
// =============================================================================

// RecordInput carries one row of raw punch data exactly as it arrives from
// the outside (CSV cell values, form fields). All fields are strings;
// NewRecord owns parsing and validation.
type RecordInput struct {
	EmployeeID     string
	EmployeeName   string
	DepartmentCode string
	WorkDate       string // "2006-01-02" or "2006/01/02"
	ClockIn        string // "HH:MM", optional
	ClockOut       string // "HH:MM", optional; hours up to 47 mean next day
	BreakMinutes   string // integer minutes, optional
	Status         string // see ParseStatus, optional
}

// =============================================================================
// RECORD - One employee, one calendar date, validated
// =============================================================================

// Record is a validated attendance entry. It is built once by NewRecord
// and never mutated; the calculator only reads it.
type Record struct {
	EmployeeID     EmployeeID
	EmployeeName   string
	DepartmentCode DepartmentCode
	WorkDate       Date
	ClockIn        *ClockTime
	ClockOut       *ClockTime
	BreakMinutes   int
	Status         Status
}

// recordHistoryYears bounds how old a work date may be.
const recordHistoryYears = 5

// inferredOvernightMinimum is the policy floor for an overnight shift that
// was inferred from clock-out < clock-in. Anything shorter is treated as a
// data-entry mistake rather than a genuine overnight shift.
const inferredOvernightMinimum = 60

// NewRecord validates raw field values and returns an immutable Record.
// Failures are classified: missing/malformed fields, implausible dates,
// clock contradictions, and over-24-hour shifts each unwrap to their own
// sentinel so callers can absorb or propagate by class.
func NewRecord(in RecordInput) (Record, error) {
	rec := Record{
		EmployeeID:     EmployeeID(strings.TrimSpace(in.EmployeeID)),
		EmployeeName:   strings.TrimSpace(in.EmployeeName),
		DepartmentCode: DepartmentCode(strings.TrimSpace(in.DepartmentCode)),
	}

	if rec.EmployeeID == "" {
		return Record{}, &FieldError{Field: "employee_id"}
	}
	if rec.EmployeeName == "" {
		return Record{}, &FieldError{Field: "employee_name"}
	}

	if strings.TrimSpace(in.WorkDate) == "" {
		return Record{}, &FieldError{Field: "work_date"}
	}
	date, err := ParseDate(strings.TrimSpace(in.WorkDate))
	if err != nil {
		return Record{}, err
	}
	today := Today()
	if date.After(today) {
		return Record{}, &DateError{Date: date, Future: true, Reason: "in the future"}
	}
	if date.Before(today.AddYears(-recordHistoryYears)) {
		return Record{}, &DateError{Date: date, Reason: fmt.Sprintf("older than %d years", recordHistoryYears)}
	}
	rec.WorkDate = date

	status, err := ParseStatus(in.Status)
	if err != nil {
		return Record{}, err
	}
	rec.Status = status

	if s := strings.TrimSpace(in.BreakMinutes); s != "" {
		b, err := strconv.Atoi(s)
		if err != nil {
			return Record{}, &FieldError{Field: "break_minutes", Reason: fmt.Sprintf("not a number: %q", s)}
		}
		if b < 0 || b >= maxBreakMinutes {
			return Record{}, &FieldError{Field: "break_minutes", Reason: fmt.Sprintf("%d outside [0, %d)", b, maxBreakMinutes)}
		}
		rec.BreakMinutes = b
	}

	hasIn := strings.TrimSpace(in.ClockIn) != ""
	hasOut := strings.TrimSpace(in.ClockOut) != ""
	switch {
	case hasIn && !hasOut:
		return Record{}, &FieldError{Field: "clock_out", Reason: "clock-in without clock-out"}
	case hasOut && !hasIn:
		return Record{}, &FieldError{Field: "clock_in", Reason: "clock-out without clock-in"}
	case hasIn && hasOut:
		clockIn, err := ParseClockTime(strings.TrimSpace(in.ClockIn))
		if err != nil {
			return Record{}, &FieldError{Field: "clock_in", Reason: err.Error()}
		}
		if clockIn.IsNextDay() {
			return Record{}, &FieldError{Field: "clock_in", Reason: "must be a same-day time"}
		}
		clockOut, err := ParseClockTime(strings.TrimSpace(in.ClockOut))
		if err != nil {
			return Record{}, &FieldError{Field: "clock_out", Reason: err.Error()}
		}
		rec.ClockIn = &clockIn
		rec.ClockOut = &clockOut
		if err := rec.validateShift(); err != nil {
			return Record{}, err
		}
	}

	return rec, nil
}

// validateShift enforces the clock-ordering rules once both punches exist.
func (r Record) validateShift() error {
	in, out := *r.ClockIn, *r.ClockOut
	switch {
	case out.Equal(in):
		// Zero-duration shift: valid, contributes zero worked minutes.
		return nil
	case out.Before(in):
		// Inferred overnight: clock-out rolls to the next day.
		gross := out.Minutes() + minutesPerDay - in.Minutes()
		if gross < inferredOvernightMinimum {
			return &TimeLogicError{ClockIn: in, ClockOut: out, Minutes: gross,
				Reason: "overnight shift shorter than one hour, likely a swapped punch"}
		}
		return nil
	default:
		gross := out.Minutes() - in.Minutes()
		if gross > minutesPerDay {
			return &WorkHoursError{ClockIn: in, ClockOut: out, Minutes: gross}
		}
		return nil
	}
}

// HasClocks reports whether both punches are present.
func (r Record) HasClocks() bool { return r.ClockIn != nil && r.ClockOut != nil }

// shiftSpan returns the shift as minutes since midnight of the work date,
// [start, end). An inferred overnight clock-out is unrolled to the next
// day. Returns (0, 0) when punches are absent.
func (r Record) shiftSpan() (start, end int) {
	if !r.HasClocks() {
		return 0, 0
	}
	start = r.ClockIn.Minutes()
	end = r.ClockOut.Minutes()
	if end < start {
		end += minutesPerDay
	}
	return start, end
}

// GrossMinutes is the clock span of the shift before break subtraction.
func (r Record) GrossMinutes() int {
	start, end := r.shiftSpan()
	return end - start
}

// WorkedMinutes is the shift span minus break minutes, floored at zero.
func (r Record) WorkedMinutes() int {
	worked := r.GrossMinutes() - r.BreakMinutes
	if worked < 0 {
		return 0
	}
	return worked
}

// Is24HourWork reports whether the shift spans a full 24 hours on the
// clock. The span is measured before break subtraction: a day-long shift
// with a one-hour break still keeps the employee on site around the clock.
func (r Record) Is24HourWork() bool { return r.GrossMinutes() >= minutesPerDay }

// CrossesMidnight reports whether any part of the shift falls on the day
// after the work date.
func (r Record) CrossesMidnight() bool {
	_, end := r.shiftSpan()
	return end > minutesPerDay
}
