package attendance_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/warp/attendance-engine/attendance"
)

func TestDefaultWorkRules_Valid(t *testing.T) {
	assert.NoError(t, attendance.DefaultWorkRules().Validate())
}

func TestWorkRules_Validate_RejectsBrokenSettings(t *testing.T) {
	cases := []struct {
		name    string
		mutate  func(*attendance.WorkRules)
		setting string
	}{
		{"zero standard day", func(r *attendance.WorkRules) { r.StandardDailyMinutes = 0 }, "standard_daily_minutes"},
		{"standard day over 24h", func(r *attendance.WorkRules) { r.StandardDailyMinutes = 1441 }, "standard_daily_minutes"},
		{"end before start", func(r *attendance.WorkRules) { r.StandardEnd = r.StandardStart }, "standard_end"},
		{"negative threshold", func(r *attendance.WorkRules) { r.TardyThresholdMinutes = -1 }, "tardy_threshold_minutes"},
		{"zero rounding unit", func(r *attendance.WorkRules) { r.Rounding.UnitMinutes = 0 }, "rounding.unit_minutes"},
		{"oversized rounding unit", func(r *attendance.WorkRules) { r.Rounding.UnitMinutes = 61 }, "rounding.unit_minutes"},
		{"unknown rounding method", func(r *attendance.WorkRules) { r.Rounding.Method = "banker" }, "rounding.method"},
		{"zero legal day", func(r *attendance.WorkRules) { r.LegalDailyMinutes = 0 }, "legal_daily_minutes"},
		{"empty night window", func(r *attendance.WorkRules) { r.NightEnd = r.NightStart }, "night_window"},
		{"negative rate", func(r *attendance.WorkRules) { r.Rates.Night = r.Rates.Night.Neg() }, "premium_rates.night"},
		{"negative attendance floor", func(r *attendance.WorkRules) { r.MinAttendedMinutes = -1 }, "min_attended_minutes"},
		{"negative overtime cap", func(r *attendance.WorkRules) { r.MonthlyOvertimeCap = -1 }, "monthly_overtime_cap"},
		{"negative consecutive cap", func(r *attendance.WorkRules) { r.ConsecutiveDayCap = -1 }, "consecutive_day_cap"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rules := attendance.DefaultWorkRules()
			tc.mutate(&rules)

			err := rules.Validate()
			assert.ErrorIs(t, err, attendance.ErrConfiguration)

			var confErr *attendance.ConfigurationError
			require.ErrorAs(t, err, &confErr)
			assert.Equal(t, tc.setting, confErr.Setting)
		})
	}
}

func TestWorkRules_Round(t *testing.T) {
	rules := attendance.DefaultWorkRules() // unit 15, round up

	assert.Equal(t, 0, rules.Round(0))
	assert.Equal(t, 15, rules.Round(1))
	assert.Equal(t, 15, rules.Round(15))
	assert.Equal(t, 30, rules.Round(16))

	rules.Rounding.Method = attendance.RoundDown
	assert.Equal(t, 0, rules.Round(14))
	assert.Equal(t, 15, rules.Round(29))

	rules.Rounding.Method = attendance.RoundNearest
	assert.Equal(t, 0, rules.Round(7))
	assert.Equal(t, 15, rules.Round(8))
}

func TestWorkRules_WithHolidays_DoesNotMutateReceiver(t *testing.T) {
	base := attendance.DefaultWorkRules()
	holiday := attendance.NewDate(2026, time.July, 20)

	withCal := base.WithHolidays([]attendance.Date{holiday})

	assert.True(t, withCal.IsHoliday(holiday))
	assert.False(t, base.IsHoliday(holiday))
}

func TestParseRoundingMethod(t *testing.T) {
	for in, want := range map[string]attendance.RoundingMethod{
		"up":      attendance.RoundUp,
		"ceil":    attendance.RoundUp,
		"down":    attendance.RoundDown,
		"floor":   attendance.RoundDown,
		"nearest": attendance.RoundNearest,
		"half":    attendance.RoundNearest,
	} {
		got, err := attendance.ParseRoundingMethod(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got)
	}

	_, err := attendance.ParseRoundingMethod("banker")
	assert.Error(t, err)
}
