package fileio

import (
	"encoding/csv"
	"io"
	"strconv"

	"github.com/pkg/errors"

	"github.com/warp/attendance-engine/attendance"
	"github.com/warp/attendance-engine/department"
)

// =============================================================================
// CSV EXPORT
// =============================================================================

var summaryHeader = []string{
	"employee_id", "employee_name", "department_code",
	"period_start", "period_end",
	"business_days", "attendance_days", "absence_days", "holiday_work_days",
	"tardy_count", "tardy_minutes", "early_leave_count", "early_leave_minutes",
	"worked_minutes", "scheduled_overtime_minutes", "legal_overtime_minutes",
	"night_minutes", "holiday_minutes", "premium_total_minutes",
	"paid_leave_days", "special_leave_days",
	"attendance_rate", "warning_count", "violation_count",
}

// WriteSummaryCSV writes one row per employee summary.
func WriteSummaryCSV(w io.Writer, summaries []attendance.Summary) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(summaryHeader); err != nil {
		return errors.Wrap(err, "writing summary csv")
	}
	for _, s := range summaries {
		if err := cw.Write(summaryRow(s)); err != nil {
			return errors.Wrap(err, "writing summary csv")
		}
	}
	cw.Flush()
	return errors.Wrap(cw.Error(), "writing summary csv")
}

func summaryRow(s attendance.Summary) []string {
	return []string{
		string(s.EmployeeID), s.EmployeeName, string(s.DepartmentCode),
		s.Period.Start.String(), s.Period.End.String(),
		strconv.Itoa(s.BusinessDays), strconv.Itoa(s.AttendanceDays),
		strconv.Itoa(s.AbsenceDays), strconv.Itoa(s.HolidayWorkDays),
		strconv.Itoa(s.TardyCount), strconv.Itoa(s.TardyMinutes),
		strconv.Itoa(s.EarlyLeaveCount), strconv.Itoa(s.EarlyLeaveMinutes),
		strconv.Itoa(s.WorkedMinutes), strconv.Itoa(s.ScheduledOvertimeMinutes),
		strconv.Itoa(s.LegalOvertimeMinutes),
		strconv.Itoa(s.NightMinutes), strconv.Itoa(s.HolidayMinutes),
		s.Premium.Total().String(),
		s.PaidLeaveDays.String(), s.SpecialLeaveDays.String(),
		s.AttendanceRate().StringFixed(4),
		strconv.Itoa(len(s.Warnings)), strconv.Itoa(len(s.Violations)),
	}
}

var departmentHeader = []string{
	"department_code", "department_name", "level",
	"period_start", "period_end",
	"employee_count", "worked_minutes", "overtime_minutes",
	"night_minutes", "holiday_minutes", "tardy_count",
	"attendance_rate", "average_worked_minutes",
	"violation_count", "warning_count", "compliance_score",
}

// WriteDepartmentCSV writes one row per department summary.
func WriteDepartmentCSV(w io.Writer, summaries []department.Summary) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(departmentHeader); err != nil {
		return errors.Wrap(err, "writing department csv")
	}
	for _, s := range summaries {
		if err := cw.Write(departmentRow(s)); err != nil {
			return errors.Wrap(err, "writing department csv")
		}
	}
	cw.Flush()
	return errors.Wrap(cw.Error(), "writing department csv")
}

func departmentRow(s department.Summary) []string {
	return []string{
		string(s.Code), s.Name, strconv.Itoa(s.Level),
		s.Period.Start.String(), s.Period.End.String(),
		strconv.Itoa(s.EmployeeCount), strconv.Itoa(s.WorkedMinutes),
		strconv.Itoa(s.OvertimeMinutes),
		strconv.Itoa(s.NightMinutes), strconv.Itoa(s.HolidayMinutes),
		strconv.Itoa(s.TardyCount),
		s.AttendanceRate.StringFixed(4), s.AverageWorkedMinutes.StringFixed(1),
		strconv.Itoa(s.ViolationCount), strconv.Itoa(s.WarningCount),
		s.ComplianceScore.StringFixed(1),
	}
}
