package department_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/warp/attendance-engine/attendance"
	"github.com/warp/attendance-engine/department"
)

// ranked builds a department summary with just the ranking inputs set.
func ranked(code string, compliance, attendanceRate float64, overtime, employees int) department.Summary {
	return department.Summary{
		Code:            attendance.DepartmentCode(code),
		Name:            code,
		EmployeeCount:   employees,
		OvertimeMinutes: overtime,
		AttendanceRate:  decimal.NewFromFloat(attendanceRate),
		ComplianceScore: decimal.NewFromFloat(compliance),
	}
}

func TestCompare_ComplianceRanksDescending(t *testing.T) {
	summaries := []department.Summary{
		ranked("DEV", 60, 0.9, 0, 3),
		ranked("HR", 95, 0.9, 0, 2),
		ranked("SALES", 80, 0.9, 0, 4),
	}

	comparison, err := department.Compare(summaries, department.MetricCompliance)
	require.NoError(t, err)
	require.Len(t, comparison.Ranks, 3)

	assert.Equal(t, attendance.DepartmentCode("HR"), comparison.Ranks[0].Summary.Code)
	assert.Equal(t, attendance.DepartmentCode("SALES"), comparison.Ranks[1].Summary.Code)
	assert.Equal(t, attendance.DepartmentCode("DEV"), comparison.Ranks[2].Summary.Code)
	for i, r := range comparison.Ranks {
		assert.Equal(t, i+1, r.Position)
	}
}

func TestCompare_OvertimeRanksAscending(t *testing.T) {
	// Less overtime is better, so it ranks first.
	summaries := []department.Summary{
		ranked("DEV", 90, 0.9, 3000, 3),
		ranked("HR", 90, 0.9, 100, 2),
	}

	comparison, err := department.Compare(summaries, department.MetricOvertime)
	require.NoError(t, err)

	assert.Equal(t, attendance.DepartmentCode("HR"), comparison.Ranks[0].Summary.Code)
	assert.Equal(t, attendance.DepartmentCode("DEV"), comparison.Ranks[1].Summary.Code)
}

func TestCompare_TiesBreakByCode(t *testing.T) {
	summaries := []department.Summary{
		ranked("ZETA", 90, 0.9, 0, 1),
		ranked("ALPHA", 90, 0.9, 0, 1),
	}

	comparison, err := department.Compare(summaries, department.MetricCompliance)
	require.NoError(t, err)

	assert.Equal(t, attendance.DepartmentCode("ALPHA"), comparison.Ranks[0].Summary.Code)
	assert.Equal(t, attendance.DepartmentCode("ZETA"), comparison.Ranks[1].Summary.Code)
}

func TestCompare_DoesNotMutateInput(t *testing.T) {
	summaries := []department.Summary{
		ranked("DEV", 60, 0.9, 0, 3),
		ranked("HR", 95, 0.9, 0, 2),
	}

	_, err := department.Compare(summaries, department.MetricCompliance)
	require.NoError(t, err)

	assert.Equal(t, attendance.DepartmentCode("DEV"), summaries[0].Code)
	assert.Equal(t, attendance.DepartmentCode("HR"), summaries[1].Code)
}

func TestCompare_UnknownMetric_Rejected(t *testing.T) {
	_, err := department.Compare(nil, department.Metric("velocity"))
	assert.Error(t, err)
}

func TestParseMetric(t *testing.T) {
	for _, name := range []string{"compliance", "attendance_rate", "overtime", "average_worked"} {
		m, err := department.ParseMetric(name)
		require.NoError(t, err, name)
		assert.Equal(t, name, string(m))
	}

	_, err := department.ParseMetric("velocity")
	assert.Error(t, err)
}

func TestCompare_Advisories(t *testing.T) {
	// GIVEN: A department with violations, low attendance and heavy overtime,
	//        a clean department, and an empty one
	// WHEN: Comparing
	// THEN: Only the troubled department carries advisories

	troubled := ranked("DEV", 20, 0.75, 6000, 2)
	troubled.ViolationCount = 2
	clean := ranked("HR", 100, 0.95, 0, 2)
	empty := ranked("NEW", 100, 0, 0, 0)

	comparison, err := department.Compare(
		[]department.Summary{troubled, clean, empty}, department.MetricCompliance)
	require.NoError(t, err)

	byCode := map[attendance.DepartmentCode][]string{}
	for _, r := range comparison.Ranks {
		byCode[r.Summary.Code] = r.Advisories
	}

	require.Len(t, byCode["DEV"], 3)
	assert.Contains(t, byCode["DEV"][0], "2 rule violations")
	assert.Contains(t, byCode["DEV"][1], "below the 80% floor")
	assert.Contains(t, byCode["DEV"][2], "exceeds the 45-hour monthly guideline")
	assert.Empty(t, byCode["HR"])
	assert.Empty(t, byCode["NEW"])
}
