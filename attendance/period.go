package attendance

import (
	"fmt"
	"time"
)

// =============================================================================
// PERIOD - The reporting window a summary is computed for
// =============================================================================

// Period is an inclusive date range. Summaries are ALWAYS computed for a
// period, never for a bare point in time.
type Period struct {
	Start Date
	End   Date
}

// MonthOf returns the calendar-month period containing the given month.
func MonthOf(year int, month time.Month) Period {
	start := NewDate(year, month, 1)
	return Period{Start: start, End: start.AddMonths(1).AddDays(-1)}
}

// NewPeriod validates that start does not follow end.
func NewPeriod(start, end Date) (Period, error) {
	if start.After(end) {
		return Period{}, &CalculationError{Reason: fmt.Sprintf("period start %s after end %s", start, end)}
	}
	return Period{Start: start, End: end}, nil
}

// Contains returns true if the date is within [Start, End].
func (p Period) Contains(d Date) bool {
	return d.AfterOrEqual(p.Start) && d.BeforeOrEqual(p.End)
}

// Covers returns true if the other period lies entirely within this one.
func (p Period) Covers(o Period) bool {
	return p.Contains(o.Start) && p.Contains(o.End)
}

// Days returns every day in the period in order.
func (p Period) Days() []Date {
	var days []Date
	for cur := p.Start; cur.BeforeOrEqual(p.End); cur = cur.AddDays(1) {
		days = append(days, cur)
	}
	return days
}

// BusinessDays counts days that are neither weekends nor holidays per the
// given calendar lookup.
func (p Period) BusinessDays(isHoliday func(Date) bool) int {
	count := 0
	for cur := p.Start; cur.BeforeOrEqual(p.End); cur = cur.AddDays(1) {
		if cur.IsWeekend() {
			continue
		}
		if isHoliday != nil && isHoliday(cur) {
			continue
		}
		count++
	}
	return count
}

func (p Period) IsZero() bool { return p.Start.IsZero() && p.End.IsZero() }

func (p Period) String() string {
	return "[" + p.Start.String() + ", " + p.End.String() + "]"
}
