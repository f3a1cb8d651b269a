package attendance

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// =============================================================================
// WARNINGS AND VIOLATIONS
// =============================================================================

// WarningCode identifies a non-fatal anomaly attached to a summary.
type WarningCode string

const (
	WarnSkippedRecord   WarningCode = "skipped_record"
	WarnDuplicateDate   WarningCode = "duplicate_date"
	Warn24HourWork      WarningCode = "24_hour_work"
	WarnConsecutiveDays WarningCode = "consecutive_days"
)

// Warning is a per-summary note about dirty or unusual data. Date is zero
// for warnings that concern the whole period.
type Warning struct {
	Code    WarningCode
	Date    Date
	Message string
}

func (w Warning) String() string {
	if w.Date.IsZero() {
		return fmt.Sprintf("[%s] %s", w.Code, w.Message)
	}
	return fmt.Sprintf("[%s] %s: %s", w.Code, w.Date, w.Message)
}

// ViolationCode identifies a rule breach.
type ViolationCode string

const (
	ViolationOvertimeCap ViolationCode = "monthly_overtime_cap"
)

// Violation is a rule breach detected over the whole period.
type Violation struct {
	Code    ViolationCode
	Message string
}

func (v Violation) String() string { return fmt.Sprintf("[%s] %s", v.Code, v.Message) }

// =============================================================================
// PREMIUM MINUTES - Weighted minutes per category
// =============================================================================

// PremiumMinutes carries the premium-weighted minutes per category. The
// cells are disjoint: every raw worked minute contributes to at most one
// cell, with combined categories (night+overtime, night+holiday) taking
// the place of stacked rates.
type PremiumMinutes struct {
	Overtime      decimal.Decimal
	LegalOvertime decimal.Decimal
	Night         decimal.Decimal
	Holiday       decimal.Decimal
	NightOvertime decimal.Decimal
	NightHoliday  decimal.Decimal
}

// ByCategory returns one cell.
func (p PremiumMinutes) ByCategory(c PremiumCategory) decimal.Decimal {
	switch c {
	case PremiumOvertime:
		return p.Overtime
	case PremiumLegalOvertime:
		return p.LegalOvertime
	case PremiumNight:
		return p.Night
	case PremiumHoliday:
		return p.Holiday
	case PremiumNightOvertime:
		return p.NightOvertime
	case PremiumNightHoliday:
		return p.NightHoliday
	default:
		return decimal.Zero
	}
}

// Total sums all cells.
func (p PremiumMinutes) Total() decimal.Decimal {
	return p.Overtime.
		Add(p.LegalOvertime).
		Add(p.Night).
		Add(p.Holiday).
		Add(p.NightOvertime).
		Add(p.NightHoliday)
}

func (p PremiumMinutes) add(c PremiumCategory, weighted decimal.Decimal) PremiumMinutes {
	switch c {
	case PremiumOvertime:
		p.Overtime = p.Overtime.Add(weighted)
	case PremiumLegalOvertime:
		p.LegalOvertime = p.LegalOvertime.Add(weighted)
	case PremiumNight:
		p.Night = p.Night.Add(weighted)
	case PremiumHoliday:
		p.Holiday = p.Holiday.Add(weighted)
	case PremiumNightOvertime:
		p.NightOvertime = p.NightOvertime.Add(weighted)
	case PremiumNightHoliday:
		p.NightHoliday = p.NightHoliday.Add(weighted)
	}
	return p
}

// =============================================================================
// SUMMARY - One employee, one period
// =============================================================================

// Summary is the calculation result for one employee over one period.
// It is produced once by the Calculator and never mutated; recalculating
// the same inputs yields an equal, independent value.
//
// The raw minute counters (scheduled/legal overtime, night, holiday) are
// descriptive and may overlap each other; the Premium cells are the
// disjoint, rate-weighted decomposition.
type Summary struct {
	EmployeeID     EmployeeID
	EmployeeName   string
	DepartmentCode DepartmentCode
	Period         Period

	BusinessDays    int
	AttendanceDays  int
	AbsenceDays     int
	HolidayWorkDays int

	TardyCount        int
	TardyMinutes      int
	EarlyLeaveCount   int
	EarlyLeaveMinutes int

	WorkedMinutes            int
	ScheduledOvertimeMinutes int
	LegalOvertimeMinutes     int
	NightMinutes             int
	HolidayMinutes           int

	Premium PremiumMinutes

	PaidLeaveDays    decimal.Decimal
	SpecialLeaveDays decimal.Decimal

	Warnings   []Warning
	Violations []Violation
}

// AttendanceRate is attended business days over total business days,
// zero when the period has no business days.
func (s Summary) AttendanceRate() decimal.Decimal {
	if s.BusinessDays == 0 {
		return decimal.Zero
	}
	return decimal.NewFromInt(int64(s.AttendanceDays)).
		Div(decimal.NewFromInt(int64(s.BusinessDays)))
}

// finalize validates the cross-field invariants before the summary is
// released to the caller. Violations here indicate a calculator bug, not
// dirty data, so they surface as errors rather than warnings.
func (s Summary) finalize() (Summary, error) {
	if s.AttendanceDays+s.AbsenceDays > s.BusinessDays {
		return Summary{}, &CalculationError{
			EmployeeID: s.EmployeeID,
			Reason: fmt.Sprintf("attendance %d + absence %d exceeds %d business days",
				s.AttendanceDays, s.AbsenceDays, s.BusinessDays),
		}
	}
	return s, nil
}
