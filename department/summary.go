package department

import (
	"github.com/shopspring/decimal"

	"github.com/warp/attendance-engine/attendance"
)

// =============================================================================
// DEPARTMENT SUMMARY - One department, one period
// =============================================================================

// Summary aggregates employee summaries for one department. Additive
// fields are exact integer sums over members; rate and average fields
// are employee-count-weighted means; the compliance score is derived
// from the aggregated fields, never averaged across children.
type Summary struct {
	Code   attendance.DepartmentCode
	Name   string
	Level  int
	Period attendance.Period

	EmployeeCount   int
	WorkedMinutes   int
	OvertimeMinutes int // scheduled overtime
	NightMinutes    int
	HolidayMinutes  int
	TardyCount      int
	ViolationCount  int
	WarningCount    int

	AttendanceRate       decimal.Decimal // mean over members, in [0, 1]
	AverageWorkedMinutes decimal.Decimal
	ComplianceScore      decimal.Decimal // 0 (worst) to 100 (clean)
}

// defaultOvertimeBaseline is the average scheduled overtime per employee
// that exhausts the compliance overtime penalty: the 45-hour monthly cap.
const defaultOvertimeBaseline = 45 * 60

const complianceCeiling = 100

// Penalty weights for the compliance score. Violations dominate, then
// average overtime against the baseline, then the attendance-rate gap.
var (
	violationWeight  = decimal.NewFromInt(50)
	overtimeWeight   = decimal.NewFromInt(30)
	attendanceWeight = decimal.NewFromInt(20)
)

// newSummary builds the summary of one department directly from member
// employee summaries. A zero period derives the bounds from the members
// (min start, max end). No members yields the documented neutral
// summary: zero counts, compliance 100.
func newSummary(dept Department, members []attendance.Summary, period attendance.Period, baseline int) Summary {
	s := Summary{
		Code:            dept.Code,
		Name:            dept.Name,
		Level:           dept.Level,
		Period:          period,
		ComplianceScore: decimal.NewFromInt(complianceCeiling),
	}
	if len(members) == 0 {
		return s
	}

	derivePeriod := period.IsZero()
	var rateSum decimal.Decimal
	for _, m := range members {
		s.EmployeeCount++
		s.WorkedMinutes += m.WorkedMinutes
		s.OvertimeMinutes += m.ScheduledOvertimeMinutes
		s.NightMinutes += m.NightMinutes
		s.HolidayMinutes += m.HolidayMinutes
		s.TardyCount += m.TardyCount
		s.ViolationCount += len(m.Violations)
		s.WarningCount += len(m.Warnings)
		rateSum = rateSum.Add(m.AttendanceRate())
		if derivePeriod {
			s.Period = stretch(s.Period, m.Period)
		}
	}

	count := decimal.NewFromInt(int64(s.EmployeeCount))
	s.AttendanceRate = rateSum.Div(count)
	s.AverageWorkedMinutes = decimal.NewFromInt(int64(s.WorkedMinutes)).Div(count)
	s.ComplianceScore = complianceScore(s, baseline)
	return s
}

// stretch widens the period to cover the other one.
func stretch(p, o attendance.Period) attendance.Period {
	if p.IsZero() {
		return o
	}
	if o.Start.Before(p.Start) {
		p.Start = o.Start
	}
	if o.End.After(p.End) {
		p.End = o.End
	}
	return p
}

// complianceScore derives the 0-100 health metric from aggregated
// fields. One violation per employee, average overtime at the baseline,
// and an attendance rate of zero each exhaust their full weight.
func complianceScore(s Summary, baselineMinutes int) decimal.Decimal {
	ceiling := decimal.NewFromInt(complianceCeiling)
	if s.EmployeeCount == 0 {
		return ceiling
	}
	count := decimal.NewFromInt(int64(s.EmployeeCount))

	violationRate := decimal.NewFromInt(int64(s.ViolationCount)).Div(count)
	penalty := decimal.Min(violationWeight, violationWeight.Mul(violationRate))

	if baselineMinutes > 0 {
		avgOvertime := decimal.NewFromInt(int64(s.OvertimeMinutes)).Div(count)
		ratio := avgOvertime.Div(decimal.NewFromInt(int64(baselineMinutes)))
		penalty = penalty.Add(decimal.Min(overtimeWeight, overtimeWeight.Mul(ratio)))
	}

	gap := decimal.NewFromInt(1).Sub(s.AttendanceRate)
	penalty = penalty.Add(decimal.Min(attendanceWeight, attendanceWeight.Mul(gap)))

	score := ceiling.Sub(penalty)
	switch {
	case score.IsNegative():
		return decimal.Zero
	case score.GreaterThan(ceiling):
		return ceiling
	default:
		return score
	}
}
