/*
rules.go - The work-rules provider

PURPOSE:
  WorkRules is the read-only rule set every calculation runs against:
  standard hours, tardiness threshold, rounding policy, overtime and
  premium rates, night window, caps, and the holiday calendar. It is
  loaded once per run (or defaulted), validated up front, and then shared
  across concurrent calculations without locking.

DEFAULTS:
  DefaultWorkRules supplies the safe fallback configuration: 480 standard
  minutes, 09:00-18:00, 15-minute round-up, a 45-hour monthly overtime
  cap, and the statutory premium multipliers.

SEE ALSO:
  - calculator.go: validates rules at construction (fail fast)
  - premium.go: consumes the night window and premium rates
*/
package attendance

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// =============================================================================
// PREMIUM CATEGORIES AND RATES
// =============================================================================

// PremiumCategory identifies one premium-weighted minute bucket. The set
// is closed: combined categories exist so overlapping minutes are weighted
// once with a combined rate instead of stacking two rates.
type PremiumCategory string

const (
	PremiumOvertime      PremiumCategory = "overtime"       // Beyond standard daily minutes
	PremiumLegalOvertime PremiumCategory = "legal_overtime" // Beyond legal daily minutes
	PremiumNight         PremiumCategory = "night"          // Inside the night window
	PremiumHoliday       PremiumCategory = "holiday"        // On a calendar holiday
	PremiumNightOvertime PremiumCategory = "night_overtime" // Night and overtime together
	PremiumNightHoliday  PremiumCategory = "night_holiday"  // Night work on a holiday
)

// PremiumRates holds the multiplier for each category.
type PremiumRates struct {
	Overtime      decimal.Decimal
	LegalOvertime decimal.Decimal
	Night         decimal.Decimal
	Holiday       decimal.Decimal
	NightOvertime decimal.Decimal
	NightHoliday  decimal.Decimal
}

// Rate returns the multiplier for a category.
func (p PremiumRates) Rate(c PremiumCategory) decimal.Decimal {
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

func (p PremiumRates) categories() map[PremiumCategory]decimal.Decimal {
	return map[PremiumCategory]decimal.Decimal{
		PremiumOvertime:      p.Overtime,
		PremiumLegalOvertime: p.LegalOvertime,
		PremiumNight:         p.Night,
		PremiumHoliday:       p.Holiday,
		PremiumNightOvertime: p.NightOvertime,
		PremiumNightHoliday:  p.NightHoliday,
	}
}

// =============================================================================
// ROUNDING POLICY
// =============================================================================

// RoundingPolicy rounds excess minutes (tardiness, early leave) to a unit.
type RoundingPolicy struct {
	UnitMinutes int
	Method      RoundingMethod
}

// =============================================================================
// WORK RULES
// =============================================================================

// WorkRules is a value object; treat it as immutable after construction.
// A zero cap (overtime or consecutive days) disables that check.
type WorkRules struct {
	StandardDailyMinutes  int
	StandardStart         ClockTime
	StandardEnd           ClockTime
	TardyThresholdMinutes int
	Rounding              RoundingPolicy
	LegalDailyMinutes     int
	NightStart            ClockTime // Window start, e.g. 22:00
	NightEnd              ClockTime // Window end on the next day, e.g. 05:00
	Rates                 PremiumRates
	MinAttendedMinutes    int
	MonthlyOvertimeCap    int // Minutes of scheduled overtime per period
	ConsecutiveDayCap     int
	Holidays              map[Date]bool
}

// DefaultWorkRules returns the fallback rule set used when no
// configuration is supplied. Callers that fall back to it should surface a
// warning; the engine itself stays silent.
func DefaultWorkRules() WorkRules {
	start, _ := NewClockTime(9, 0)
	end, _ := NewClockTime(18, 0)
	nightStart, _ := NewClockTime(22, 0)
	nightEnd, _ := NewClockTime(5, 0)
	return WorkRules{
		StandardDailyMinutes:  480,
		StandardStart:         start,
		StandardEnd:           end,
		TardyThresholdMinutes: 0,
		Rounding:              RoundingPolicy{UnitMinutes: 15, Method: RoundUp},
		LegalDailyMinutes:     480,
		NightStart:            nightStart,
		NightEnd:              nightEnd,
		Rates: PremiumRates{
			Overtime:      decimal.NewFromFloat(1.25),
			LegalOvertime: decimal.NewFromFloat(1.25),
			Night:         decimal.NewFromFloat(1.25),
			Holiday:       decimal.NewFromFloat(1.35),
			NightOvertime: decimal.NewFromFloat(1.50),
			NightHoliday:  decimal.NewFromFloat(1.60),
		},
		MinAttendedMinutes: 240,
		MonthlyOvertimeCap: 45 * 60,
		ConsecutiveDayCap:  6,
	}
}

// WithHolidays returns a copy of the rules carrying the given holiday
// calendar. The original value is left untouched.
func (r WorkRules) WithHolidays(dates []Date) WorkRules {
	holidays := make(map[Date]bool, len(dates))
	for _, d := range dates {
		holidays[d] = true
	}
	r.Holidays = holidays
	return r
}

// Validate checks structural soundness. It does not judge whether the
// values are sensible policy, only whether a calculation can run on them.
func (r WorkRules) Validate() error {
	if r.StandardDailyMinutes <= 0 || r.StandardDailyMinutes > minutesPerDay {
		return &ConfigurationError{Setting: "standard_daily_minutes", Reason: fmt.Sprintf("%d outside (0, %d]", r.StandardDailyMinutes, minutesPerDay)}
	}
	if !r.StandardEnd.After(r.StandardStart) {
		return &ConfigurationError{Setting: "standard_end", Reason: fmt.Sprintf("%s not after start %s", r.StandardEnd, r.StandardStart)}
	}
	if r.StandardStart.IsNextDay() || r.StandardEnd.IsNextDay() {
		return &ConfigurationError{Setting: "standard_start", Reason: "standard hours must be same-day times"}
	}
	if r.TardyThresholdMinutes < 0 {
		return &ConfigurationError{Setting: "tardy_threshold_minutes", Reason: "negative threshold"}
	}
	if r.Rounding.UnitMinutes < 1 || r.Rounding.UnitMinutes > 60 {
		return &ConfigurationError{Setting: "rounding.unit_minutes", Reason: fmt.Sprintf("%d outside [1, 60]", r.Rounding.UnitMinutes)}
	}
	switch r.Rounding.Method {
	case RoundUp, RoundDown, RoundNearest:
	default:
		return &ConfigurationError{Setting: "rounding.method", Reason: fmt.Sprintf("unknown method %q", r.Rounding.Method)}
	}
	if r.LegalDailyMinutes <= 0 || r.LegalDailyMinutes > minutesPerDay {
		return &ConfigurationError{Setting: "legal_daily_minutes", Reason: fmt.Sprintf("%d outside (0, %d]", r.LegalDailyMinutes, minutesPerDay)}
	}
	if r.NightStart.IsNextDay() || r.NightEnd.IsNextDay() {
		return &ConfigurationError{Setting: "night_window", Reason: "window bounds must be same-day times"}
	}
	if r.NightStart.Equal(r.NightEnd) {
		return &ConfigurationError{Setting: "night_window", Reason: "window is empty"}
	}
	for category, rate := range r.Rates.categories() {
		if rate.IsNegative() {
			return &ConfigurationError{Setting: "premium_rates." + string(category), Reason: "negative rate"}
		}
	}
	if r.MinAttendedMinutes < 0 {
		return &ConfigurationError{Setting: "min_attended_minutes", Reason: "negative minimum"}
	}
	if r.MonthlyOvertimeCap < 0 {
		return &ConfigurationError{Setting: "monthly_overtime_cap", Reason: "negative cap"}
	}
	if r.ConsecutiveDayCap < 0 {
		return &ConfigurationError{Setting: "consecutive_day_cap", Reason: "negative cap"}
	}
	return nil
}

// =============================================================================
// LOOKUPS
// =============================================================================

// IsHoliday reports whether the date is in the holiday calendar.
func (r WorkRules) IsHoliday(d Date) bool { return r.Holidays[d] }

// Round applies the configured rounding policy to a minute count.
func (r WorkRules) Round(minutes int) int {
	return r.Rounding.Method.roundMinutes(minutes, r.Rounding.UnitMinutes)
}

// nightWindow returns the window as minutes since midnight; end is rolled
// past midnight when the window crosses it (22:00-05:00 -> 1320, 1740).
func (r WorkRules) nightWindow() (start, end int) {
	start = r.NightStart.Minutes()
	end = r.NightEnd.Minutes()
	if end <= start {
		end += minutesPerDay
	}
	return start, end
}
