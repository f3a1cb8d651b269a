package config_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/warp/attendance-engine/attendance"
	"github.com/warp/attendance-engine/config"
	"github.com/warp/attendance-engine/department"
)

// =============================================================================
// TEST SETUP
// =============================================================================

// writeFile drops YAML content into a temp dir and returns its path.
func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func mustDate(t *testing.T, s string) attendance.Date {
	t.Helper()
	d, err := attendance.ParseDate(s)
	require.NoError(t, err)
	return d
}

// =============================================================================
// RULES FILE
// =============================================================================

func TestLoadRules_MissingFile_FallsBackToDefaults(t *testing.T) {
	rules, usedDefaults, err := config.LoadRules(filepath.Join(t.TempDir(), "rules.yaml"))

	require.NoError(t, err)
	assert.True(t, usedDefaults)
	assert.Equal(t, attendance.DefaultWorkRules(), rules)
}

func TestLoadRules_MergesOverDefaults(t *testing.T) {
	// GIVEN: A sparse rules file overriding a handful of settings
	path := writeFile(t, "rules.yaml", `
standard_daily_minutes: 450
standard_start: "08:30"
tardy_threshold_minutes: 5
rounding:
  unit_minutes: 10
  method: nearest
rates:
  night: 1.30
holidays:
  - 2026-07-20
`)

	// WHEN: Loading it
	rules, usedDefaults, err := config.LoadRules(path)

	// THEN: Named settings are overridden, everything else keeps its default
	require.NoError(t, err)
	assert.False(t, usedDefaults)

	assert.Equal(t, 450, rules.StandardDailyMinutes)
	assert.Equal(t, 8*60+30, rules.StandardStart.Minutes())
	assert.Equal(t, 18*60, rules.StandardEnd.Minutes())
	assert.Equal(t, 5, rules.TardyThresholdMinutes)
	assert.Equal(t, 10, rules.Rounding.UnitMinutes)
	assert.Equal(t, attendance.RoundNearest, rules.Rounding.Method)
	assert.True(t, rules.Rates.Night.Equal(decimal.RequireFromString("1.3")))
	assert.True(t, rules.Rates.Overtime.Equal(decimal.RequireFromString("1.25")))
	assert.Equal(t, 45*60, rules.MonthlyOvertimeCap)
	assert.True(t, rules.IsHoliday(mustDate(t, "2026-07-20")))
	assert.False(t, rules.IsHoliday(mustDate(t, "2026-07-21")))
}

func TestLoadRules_ExplicitZeroCaps_DisableTheChecks(t *testing.T) {
	// GIVEN: A rules file setting both caps to an explicit zero
	path := writeFile(t, "rules.yaml", `
monthly_overtime_cap_minutes: 0
consecutive_day_cap: 0
`)

	// WHEN: Loading it
	rules, _, err := config.LoadRules(path)

	// THEN: The zeros survive the merge (a zero cap disables the check)
	//       instead of falling back to the defaults
	require.NoError(t, err)
	assert.Equal(t, 0, rules.MonthlyOvertimeCap)
	assert.Equal(t, 0, rules.ConsecutiveDayCap)

	// Omitting the caps still yields the defaults.
	rules, _, err = config.LoadRules(writeFile(t, "sparse.yaml", "standard_daily_minutes: 450\n"))
	require.NoError(t, err)
	assert.Equal(t, 45*60, rules.MonthlyOvertimeCap)
	assert.Equal(t, 6, rules.ConsecutiveDayCap)
}

func TestLoadRules_BadClockText(t *testing.T) {
	path := writeFile(t, "rules.yaml", `standard_start: "nine"`)

	_, _, err := config.LoadRules(path)

	require.Error(t, err)
	assert.ErrorIs(t, err, attendance.ErrConfiguration)
	var cfgErr *attendance.ConfigurationError
	require.ErrorAs(t, err, &cfgErr)
	assert.Equal(t, "standard_start", cfgErr.Setting)
}

func TestLoadRules_BadRoundingMethod(t *testing.T) {
	path := writeFile(t, "rules.yaml", "rounding:\n  method: banker\n")

	_, _, err := config.LoadRules(path)

	assert.ErrorIs(t, err, attendance.ErrConfiguration)
}

func TestLoadRules_BadHolidayDate(t *testing.T) {
	path := writeFile(t, "rules.yaml", "holidays:\n  - 2026-13-45\n")

	_, _, err := config.LoadRules(path)

	require.Error(t, err)
	var cfgErr *attendance.ConfigurationError
	require.ErrorAs(t, err, &cfgErr)
	assert.Equal(t, "holidays", cfgErr.Setting)
}

func TestLoadRules_MergedValuesStillValidated(t *testing.T) {
	path := writeFile(t, "rules.yaml", "rounding:\n  unit_minutes: 90\n")

	_, _, err := config.LoadRules(path)

	require.Error(t, err)
	var cfgErr *attendance.ConfigurationError
	require.ErrorAs(t, err, &cfgErr)
	assert.Equal(t, "rounding.unit_minutes", cfgErr.Setting)
}

func TestLoadRules_MalformedYAML(t *testing.T) {
	path := writeFile(t, "rules.yaml", "standard_daily_minutes: [oops")

	_, _, err := config.LoadRules(path)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "parsing rules file")
}

// =============================================================================
// DEPARTMENTS FILE
// =============================================================================

func TestLoadDepartments_BuildsEntries(t *testing.T) {
	path := writeFile(t, "departments.yaml", `
departments:
  - code: HQ
    name: Head Office
    level: 0
  - code: DEV
    name: Engineering
    parent: HQ
    level: 1
  - code: OLD
    name: Legacy Systems
    parent: HQ
    level: 1
    active: false
`)

	departments, err := config.LoadDepartments(path)

	require.NoError(t, err)
	require.Len(t, departments, 3)
	assert.Equal(t, department.Department{
		Code: "HQ", Name: "Head Office", Level: 0, Active: true,
	}, departments[0])
	assert.Equal(t, attendance.DepartmentCode("HQ"), departments[1].Parent)
	assert.True(t, departments[1].Active, "omitted active defaults to true")
	assert.False(t, departments[2].Active)
}

func TestLoadDepartments_MissingFile(t *testing.T) {
	_, err := config.LoadDepartments(filepath.Join(t.TempDir(), "departments.yaml"))

	require.Error(t, err)
	assert.True(t, errors.Is(err, os.ErrNotExist))
}

func TestLoadDepartments_EmptyList(t *testing.T) {
	path := writeFile(t, "departments.yaml", "departments: []\n")

	_, err := config.LoadDepartments(path)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "lists no departments")
}

func TestLoadDepartments_MalformedYAML(t *testing.T) {
	path := writeFile(t, "departments.yaml", "departments: [oops")

	_, err := config.LoadDepartments(path)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "parsing departments file")
}

// =============================================================================
// TEMPLATES
// =============================================================================

func TestRulesTemplate_MatchesEngineDefaults(t *testing.T) {
	path := writeFile(t, "rules.yaml", config.RulesTemplate)

	rules, usedDefaults, err := config.LoadRules(path)

	require.NoError(t, err)
	assert.False(t, usedDefaults)
	assert.Equal(t, attendance.DefaultWorkRules(), rules)
}

func TestDepartmentsTemplate_FormsValidHierarchy(t *testing.T) {
	path := writeFile(t, "departments.yaml", config.DepartmentsTemplate)

	departments, err := config.LoadDepartments(path)
	require.NoError(t, err)
	require.Len(t, departments, 3)

	_, err = department.NewAggregator(departments)
	assert.NoError(t, err)
}
