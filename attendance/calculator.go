/*
calculator.go - Per-employee attendance calculation

PURPOSE:
  The Calculator turns one employee's validated records into one Summary
  for a period. This is the engine's central pass: classification
  (attendance, absence, leave), tardiness and early leave with rounding,
  the overtime/night/holiday minute buckets, premium weighting, and the
  period-level violation checks.

FAILURE MODEL:
  Anything about a single record is absorbed: the record is skipped and a
  warning lands in the summary. Anything about the shape of the call
  (empty input, mixed employee IDs, period start after end) is raised as
  an AttendanceCalculationError. Work-rule validity is checked once at
  construction, so a Calculator that exists can always run.

EXAMPLE:
  calc, err := attendance.NewCalculator(attendance.DefaultWorkRules())
  summary, err := calc.Calculate(records, attendance.MonthOf(2026, time.July))

SEE ALSO:
  - premium.go: the per-shift decomposition the pass relies on
  - summary.go: the result value and its invariants
  - batch.go: the parallel multi-employee wrapper
*/
package attendance

import (
	"fmt"
	"sort"

	"github.com/shopspring/decimal"
)

// =============================================================================
// CALCULATOR
// =============================================================================

// Calculator computes summaries against one immutable rule set. It is
// safe for concurrent use; nothing is mutated after construction.
type Calculator struct {
	rules WorkRules
}

// NewCalculator validates the rules up front and fails fast with a
// ConfigurationError before any record is touched.
func NewCalculator(rules WorkRules) (*Calculator, error) {
	if err := rules.Validate(); err != nil {
		return nil, err
	}
	return &Calculator{rules: rules}, nil
}

// Rules returns the rule set the calculator runs against.
func (c *Calculator) Rules() WorkRules { return c.rules }

// Calculate builds the summary for exactly one employee's records over
// the period. Records must share one employee ID.
func (c *Calculator) Calculate(records []Record, period Period) (Summary, error) {
	return c.calculate(records, period, nil)
}

// CalculateRaw is Calculate applied to unvalidated field values: rows
// that fail record validation are skipped with a warning instead of
// aborting, and the calculation completes for the remaining rows.
func (c *Calculator) CalculateRaw(inputs []RecordInput, period Period) (Summary, error) {
	if len(inputs) == 0 {
		return Summary{}, &CalculationError{Reason: "no records supplied"}
	}

	records := make([]Record, 0, len(inputs))
	var warnings []Warning
	for i, in := range inputs {
		rec, err := NewRecord(in)
		if err != nil {
			if IsRecordError(err) {
				warnings = append(warnings, Warning{
					Code:    WarnSkippedRecord,
					Message: fmt.Sprintf("row %d skipped: %v", i+1, err),
				})
				continue
			}
			return Summary{}, err
		}
		records = append(records, rec)
	}
	if len(records) == 0 {
		return Summary{}, &CalculationError{Reason: fmt.Sprintf("all %d records malformed", len(inputs))}
	}
	return c.calculate(records, period, warnings)
}

func (c *Calculator) calculate(records []Record, period Period, warnings []Warning) (Summary, error) {
	if len(records) == 0 {
		return Summary{}, &CalculationError{Reason: "no records supplied"}
	}
	if period.Start.After(period.End) {
		return Summary{}, &CalculationError{Reason: fmt.Sprintf("period start %s after end %s", period.Start, period.End)}
	}
	employee := records[0].EmployeeID
	for _, rec := range records {
		if rec.EmployeeID != employee {
			return Summary{}, &CalculationError{
				EmployeeID: employee,
				Reason:     fmt.Sprintf("records mix employees %s and %s", employee, rec.EmployeeID),
			}
		}
	}

	summary := Summary{
		EmployeeID:   employee,
		EmployeeName: records[0].EmployeeName,
		Period:       period,
		BusinessDays: period.BusinessDays(c.rules.IsHoliday),
		Warnings:     warnings,
	}

	sorted := make([]Record, len(records))
	copy(sorted, records)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].WorkDate.Before(sorted[j].WorkDate) })

	var cells premiumCells
	var workedDays []Date
	seen := make(map[Date]bool, len(sorted))

	for _, rec := range sorted {
		if summary.DepartmentCode == "" && rec.DepartmentCode != "" {
			summary.DepartmentCode = rec.DepartmentCode
		}
		if !period.Contains(rec.WorkDate) {
			summary.Warnings = append(summary.Warnings, Warning{
				Code: WarnSkippedRecord, Date: rec.WorkDate,
				Message: fmt.Sprintf("outside period %s", period),
			})
			continue
		}
		if seen[rec.WorkDate] {
			summary.Warnings = append(summary.Warnings, Warning{
				Code: WarnDuplicateDate, Date: rec.WorkDate,
				Message: "duplicate record for date, keeping the first",
			})
			continue
		}
		seen[rec.WorkDate] = true

		metrics := c.rules.decomposeShift(rec)
		summary.WorkedMinutes += metrics.worked
		summary.ScheduledOvertimeMinutes += metrics.scheduledOT
		summary.LegalOvertimeMinutes += metrics.legalOT
		summary.NightMinutes += metrics.night
		summary.HolidayMinutes += metrics.holiday
		cells = cells.add(metrics.cells)

		attended := c.classify(&summary, rec, metrics.worked)
		if attended || metrics.worked > 0 {
			workedDays = append(workedDays, rec.WorkDate)
		}

		c.checkPunctuality(&summary, rec, metrics.worked)

		if rec.Is24HourWork() {
			summary.Warnings = append(summary.Warnings, Warning{
				Code: Warn24HourWork, Date: rec.WorkDate,
				Message: fmt.Sprintf("24-hour work: shift spans %d minutes", rec.GrossMinutes()),
			})
		}
	}

	summary.Premium = cells.weight(c.rules.Rates)
	c.checkPeriodRules(&summary, workedDays)

	return summary.finalize()
}

// classify applies the attendance/absence/leave decision for one record
// and reports whether the record counted as attended.
func (c *Calculator) classify(summary *Summary, rec Record, worked int) bool {
	businessDay := !rec.WorkDate.IsWeekend() && !c.rules.IsHoliday(rec.WorkDate)

	switch {
	case rec.Status.IsLeave():
		fraction := leaveFraction(c.rules.StandardDailyMinutes, worked)
		if rec.Status == StatusPaidLeave {
			summary.PaidLeaveDays = summary.PaidLeaveDays.Add(fraction)
		} else {
			summary.SpecialLeaveDays = summary.SpecialLeaveDays.Add(fraction)
		}
		return false

	case rec.Status.IsAbsence():
		if businessDay {
			summary.AbsenceDays++
		}
		return false

	default:
		attended := rec.Status.IsAttendance() ||
			(rec.Status == StatusNone && worked >= c.rules.MinAttendedMinutes)
		if !attended {
			return false
		}
		if businessDay {
			summary.AttendanceDays++
		} else {
			summary.HolidayWorkDays++
		}
		return true
	}
}

// checkPunctuality evaluates tardiness and early leave for one record.
// Leave and absence records are exempt, as are degenerate zero-minute
// punch pairs. Weekend and holiday work is exempt too: the standard
// start and end describe the business-day schedule, and off-schedule
// work has nothing to be late against.
func (c *Calculator) checkPunctuality(summary *Summary, rec Record, worked int) {
	if worked == 0 || !rec.HasClocks() || rec.Status.IsLeave() || rec.Status.IsAbsence() {
		return
	}
	if rec.WorkDate.IsWeekend() || c.rules.IsHoliday(rec.WorkDate) {
		return
	}
	threshold := c.rules.TardyThresholdMinutes

	in := rec.ClockIn.Minutes()
	startOfDay := c.rules.StandardStart.Minutes()
	if in > startOfDay+threshold {
		summary.TardyCount++
		summary.TardyMinutes += c.rules.Round(in - startOfDay)
	}

	_, out := rec.shiftSpan()
	endOfDay := c.rules.StandardEnd.Minutes()
	if out < endOfDay-threshold {
		summary.EarlyLeaveCount++
		summary.EarlyLeaveMinutes += c.rules.Round(endOfDay - out)
	}
}

// checkPeriodRules runs the whole-period violation and warning checks.
func (c *Calculator) checkPeriodRules(summary *Summary, workedDays []Date) {
	if cap := c.rules.MonthlyOvertimeCap; cap > 0 && summary.ScheduledOvertimeMinutes > cap {
		summary.Violations = append(summary.Violations, Violation{
			Code: ViolationOvertimeCap,
			Message: fmt.Sprintf("scheduled overtime %d minutes exceeds the %d-minute cap",
				summary.ScheduledOvertimeMinutes, cap),
		})
	}

	if cap := c.rules.ConsecutiveDayCap; cap > 0 {
		if run := longestConsecutiveRun(workedDays); run > cap {
			summary.Warnings = append(summary.Warnings, Warning{
				Code:    WarnConsecutiveDays,
				Message: fmt.Sprintf("%d consecutive working days exceeds the cap of %d", run, cap),
			})
		}
	}
}

// longestConsecutiveRun expects dates sorted ascending without duplicates.
func longestConsecutiveRun(days []Date) int {
	longest, run := 0, 0
	for i, d := range days {
		if i > 0 && DaysBetween(days[i-1], d) == 1 {
			run++
		} else {
			run = 1
		}
		if run > longest {
			longest = run
		}
	}
	return longest
}

// leaveFraction is the fractional leave day for a partially worked leave
// record: (standard - worked) / standard, clamped to [0, 1].
func leaveFraction(standardMinutes, workedMinutes int) decimal.Decimal {
	if standardMinutes <= 0 || workedMinutes <= 0 {
		return decimal.NewFromInt(1)
	}
	if workedMinutes >= standardMinutes {
		return decimal.Zero
	}
	return decimal.NewFromInt(int64(standardMinutes - workedMinutes)).
		Div(decimal.NewFromInt(int64(standardMinutes)))
}
