/*
config.go - YAML configuration for rules and departments

PURPOSE:
  Loads the two run inputs the engine does not own: the work-rule file
  and the department master list. Files are plain YAML; omitted rule
  fields fall back to the engine defaults so a sparse file stays valid.
  A missing rules file is not an error - the caller gets the defaults
  and a flag to warn on.

  Semantic problems (bad clock text, negative rate) surface as the
  engine's ConfigurationError; file and parse failures are wrapped with
  enough context to name the offending file.

SEE ALSO:
  - attendance/rules.go: the validated value these files build
  - cmd/attendance: wires the loaded values into the run
*/
package config

import (
	"os"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"

	"github.com/warp/attendance-engine/attendance"
	"github.com/warp/attendance-engine/department"
)

// =============================================================================
// RULES FILE
// =============================================================================

// RulesConfig models rules.yaml. Zero values mean "use the default".
type RulesConfig struct {
	StandardDailyMinutes  int    `yaml:"standard_daily_minutes"`
	StandardStart         string `yaml:"standard_start"`
	StandardEnd           string `yaml:"standard_end"`
	TardyThresholdMinutes int    `yaml:"tardy_threshold_minutes"`
	Rounding              struct {
		UnitMinutes int    `yaml:"unit_minutes"`
		Method      string `yaml:"method"`
	} `yaml:"rounding"`
	LegalDailyMinutes int    `yaml:"legal_daily_minutes"`
	NightStart        string `yaml:"night_start"`
	NightEnd          string `yaml:"night_end"`
	Rates             struct {
		Overtime      float64 `yaml:"overtime"`
		LegalOvertime float64 `yaml:"legal_overtime"`
		Night         float64 `yaml:"night"`
		Holiday       float64 `yaml:"holiday"`
		NightOvertime float64 `yaml:"night_overtime"`
		NightHoliday  float64 `yaml:"night_holiday"`
	} `yaml:"rates"`
	MinAttendedMinutes int `yaml:"min_attended_minutes"`
	// The caps are pointers because an explicit zero is meaningful: it
	// disables the check, which plain zero-means-default merging would
	// swallow.
	MonthlyOvertimeCap *int     `yaml:"monthly_overtime_cap_minutes"`
	ConsecutiveDayCap  *int     `yaml:"consecutive_day_cap"`
	Holidays           []string `yaml:"holidays"`
}

// BuildRules merges the file values over the engine defaults and
// validates the result.
func (c RulesConfig) BuildRules() (attendance.WorkRules, error) {
	rules := attendance.DefaultWorkRules()

	if c.StandardDailyMinutes != 0 {
		rules.StandardDailyMinutes = c.StandardDailyMinutes
	}
	if err := setClock(&rules.StandardStart, c.StandardStart, "standard_start"); err != nil {
		return attendance.WorkRules{}, err
	}
	if err := setClock(&rules.StandardEnd, c.StandardEnd, "standard_end"); err != nil {
		return attendance.WorkRules{}, err
	}
	if c.TardyThresholdMinutes != 0 {
		rules.TardyThresholdMinutes = c.TardyThresholdMinutes
	}
	if c.Rounding.UnitMinutes != 0 {
		rules.Rounding.UnitMinutes = c.Rounding.UnitMinutes
	}
	if c.Rounding.Method != "" {
		method, err := attendance.ParseRoundingMethod(c.Rounding.Method)
		if err != nil {
			return attendance.WorkRules{}, err
		}
		rules.Rounding.Method = method
	}
	if c.LegalDailyMinutes != 0 {
		rules.LegalDailyMinutes = c.LegalDailyMinutes
	}
	if err := setClock(&rules.NightStart, c.NightStart, "night_start"); err != nil {
		return attendance.WorkRules{}, err
	}
	if err := setClock(&rules.NightEnd, c.NightEnd, "night_end"); err != nil {
		return attendance.WorkRules{}, err
	}

	setRate(&rules.Rates.Overtime, c.Rates.Overtime)
	setRate(&rules.Rates.LegalOvertime, c.Rates.LegalOvertime)
	setRate(&rules.Rates.Night, c.Rates.Night)
	setRate(&rules.Rates.Holiday, c.Rates.Holiday)
	setRate(&rules.Rates.NightOvertime, c.Rates.NightOvertime)
	setRate(&rules.Rates.NightHoliday, c.Rates.NightHoliday)

	if c.MinAttendedMinutes != 0 {
		rules.MinAttendedMinutes = c.MinAttendedMinutes
	}
	if c.MonthlyOvertimeCap != nil {
		rules.MonthlyOvertimeCap = *c.MonthlyOvertimeCap
	}
	if c.ConsecutiveDayCap != nil {
		rules.ConsecutiveDayCap = *c.ConsecutiveDayCap
	}

	if len(c.Holidays) > 0 {
		holidays := make([]attendance.Date, 0, len(c.Holidays))
		for _, s := range c.Holidays {
			d, err := attendance.ParseDate(s)
			if err != nil {
				return attendance.WorkRules{}, &attendance.ConfigurationError{
					Setting: "holidays", Reason: err.Error(),
				}
			}
			holidays = append(holidays, d)
		}
		rules = rules.WithHolidays(holidays)
	}

	if err := rules.Validate(); err != nil {
		return attendance.WorkRules{}, err
	}
	return rules, nil
}

func setClock(dst *attendance.ClockTime, value, setting string) error {
	if value == "" {
		return nil
	}
	clock, err := attendance.ParseClockTime(value)
	if err != nil {
		return &attendance.ConfigurationError{Setting: setting, Reason: err.Error()}
	}
	*dst = clock
	return nil
}

func setRate(dst *decimal.Decimal, value float64) {
	if value != 0 {
		*dst = decimal.NewFromFloat(value)
	}
}

// LoadRules reads a rules file into validated WorkRules. A missing file
// is not an error: the engine defaults are returned and the second
// result reports that so the caller can warn.
func LoadRules(path string) (attendance.WorkRules, bool, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return attendance.DefaultWorkRules(), true, nil
	}
	if err != nil {
		return attendance.WorkRules{}, false, errors.Wrap(err, "reading rules file")
	}
	var cfg RulesConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return attendance.WorkRules{}, false, errors.Wrap(err, "parsing rules file")
	}
	rules, err := cfg.BuildRules()
	if err != nil {
		return attendance.WorkRules{}, false, err
	}
	return rules, false, nil
}

// =============================================================================
// DEPARTMENTS FILE
// =============================================================================

// DepartmentsConfig models departments.yaml.
type DepartmentsConfig struct {
	Departments []DepartmentEntry `yaml:"departments"`
}

// DepartmentEntry is one node of the master list. Active defaults to
// true when omitted.
type DepartmentEntry struct {
	Code   string `yaml:"code"`
	Name   string `yaml:"name"`
	Parent string `yaml:"parent"`
	Level  int    `yaml:"level"`
	Active *bool  `yaml:"active"`
}

// BuildDepartments converts the entries into hierarchy nodes. Hierarchy
// validation itself belongs to department.NewAggregator.
func (c DepartmentsConfig) BuildDepartments() []department.Department {
	out := make([]department.Department, 0, len(c.Departments))
	for _, e := range c.Departments {
		active := true
		if e.Active != nil {
			active = *e.Active
		}
		out = append(out, department.Department{
			Code:   attendance.DepartmentCode(e.Code),
			Name:   e.Name,
			Parent: attendance.DepartmentCode(e.Parent),
			Level:  e.Level,
			Active: active,
		})
	}
	return out
}

// LoadDepartments reads the department master list.
func LoadDepartments(path string) ([]department.Department, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "reading departments file")
	}
	var cfg DepartmentsConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, errors.Wrap(err, "parsing departments file")
	}
	if len(cfg.Departments) == 0 {
		return nil, errors.Errorf("departments file %s lists no departments", path)
	}
	return cfg.BuildDepartments(), nil
}

// =============================================================================
// TEMPLATES
// =============================================================================

// RulesTemplate is the default rules.yaml written by the init command.
const RulesTemplate = `# Attendance calculation rules. Omitted fields use these same defaults.
standard_daily_minutes: 480
standard_start: "09:00"
standard_end: "18:00"
tardy_threshold_minutes: 0
rounding:
  unit_minutes: 15
  method: up # up | down | nearest
legal_daily_minutes: 480
night_start: "22:00"
night_end: "05:00"
rates:
  overtime: 1.25
  legal_overtime: 1.25
  night: 1.25
  holiday: 1.35
  night_overtime: 1.50
  night_holiday: 1.60
min_attended_minutes: 240
monthly_overtime_cap_minutes: 2700
consecutive_day_cap: 6
holidays: []
# holidays:
#   - 2026-01-01
#   - 2026-05-05
`

// DepartmentsTemplate is the default departments.yaml written by the
// init command.
const DepartmentsTemplate = `departments:
  - code: HQ
    name: Head Office
    level: 0
  - code: DEV
    name: Engineering
    parent: HQ
    level: 1
  - code: SALES
    name: Sales
    parent: HQ
    level: 1
`
