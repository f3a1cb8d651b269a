/*
premium.go - Shift decomposition into premium cells

PURPOSE:
  Splits one shift's worked minutes into the raw reporting counters
  (scheduled/legal overtime, night, holiday) and into DISJOINT premium
  cells. The raw counters describe overlapping facts about the same
  minutes; the cells partition them so each minute is weighted by exactly
  one rate, with combined categories (night+overtime, night+holiday)
  replacing stacked rates.

SEGMENTATION MODEL:
  Break placement inside a shift is unknown, so breaks are positioned in
  the pre-overtime span: the overtime segment starts at
  clock-in + break + threshold. Night overlap is computed positionally on
  the raw span and capped at net worked minutes.

  Overtime tiers split at the two thresholds (standard and legal daily
  minutes): minutes between the lower and higher threshold take the rate
  of the threshold crossed, minutes beyond both take the legal-overtime
  rate. Holiday work pays the holiday and night+holiday cells only; there
  is no combined holiday+overtime category.

SEE ALSO:
  - calculator.go: accumulates cells across records and applies the rates
  - rules.go: the night window and the rate table
*/
package attendance

import (
	"github.com/shopspring/decimal"
)

// =============================================================================
// PREMIUM CELLS - Disjoint raw minutes per category
// =============================================================================

type premiumCells struct {
	overtime      int
	legalOvertime int
	night         int
	holiday       int
	nightOvertime int
	nightHoliday  int
}

func (c premiumCells) add(o premiumCells) premiumCells {
	c.overtime += o.overtime
	c.legalOvertime += o.legalOvertime
	c.night += o.night
	c.holiday += o.holiday
	c.nightOvertime += o.nightOvertime
	c.nightHoliday += o.nightHoliday
	return c
}

// weight applies the rate table, turning raw cell minutes into
// premium-weighted minutes.
func (c premiumCells) weight(rates PremiumRates) PremiumMinutes {
	var p PremiumMinutes
	p = p.add(PremiumOvertime, rates.Overtime.Mul(decimalFromMinutes(c.overtime)))
	p = p.add(PremiumLegalOvertime, rates.LegalOvertime.Mul(decimalFromMinutes(c.legalOvertime)))
	p = p.add(PremiumNight, rates.Night.Mul(decimalFromMinutes(c.night)))
	p = p.add(PremiumHoliday, rates.Holiday.Mul(decimalFromMinutes(c.holiday)))
	p = p.add(PremiumNightOvertime, rates.NightOvertime.Mul(decimalFromMinutes(c.nightOvertime)))
	p = p.add(PremiumNightHoliday, rates.NightHoliday.Mul(decimalFromMinutes(c.nightHoliday)))
	return p
}

// =============================================================================
// SHIFT METRICS - Per-record decomposition
// =============================================================================

// shiftMetrics is everything one record contributes to the minute buckets.
type shiftMetrics struct {
	worked      int
	scheduledOT int
	legalOT     int
	night       int
	holiday     int
	cells       premiumCells
}

// nightOverlap returns how many minutes of the span [start, end) fall
// inside the night window, unfolding the window across the previous,
// current and next day so midnight-crossing shifts intersect correctly.
func nightOverlap(rules WorkRules, start, end int) int {
	ws, we := rules.nightWindow()
	total := 0
	for day := -1; day <= 1; day++ {
		total += overlapMinutes(start, end, ws+day*minutesPerDay, we+day*minutesPerDay)
	}
	return total
}

// decomposeShift computes the raw counters and premium cells for one
// record. Records without punches contribute nothing here; their leave and
// absence effects are handled by the calculator's classification pass.
func (r WorkRules) decomposeShift(rec Record) shiftMetrics {
	var m shiftMetrics
	if !rec.HasClocks() {
		return m
	}

	worked := rec.WorkedMinutes()
	m.worked = worked
	if worked == 0 {
		return m
	}

	start, end := rec.shiftSpan()
	m.scheduledOT = positive(worked - r.StandardDailyMinutes)
	m.legalOT = positive(worked - r.LegalDailyMinutes)

	nightRaw := nightOverlap(r, start, end)
	m.night = nightRaw
	if m.night > worked {
		m.night = worked
	}

	if r.IsHoliday(rec.WorkDate) {
		m.holiday = worked
		m.cells.nightHoliday = m.night
		m.cells.holiday = worked - m.night
		return m
	}

	lower, higher := r.StandardDailyMinutes, r.LegalDailyMinutes
	if lower > higher {
		lower, higher = higher, lower
	}
	if worked <= lower {
		// No overtime of either kind; all night minutes pay the night rate.
		m.cells.night = m.night
		return m
	}

	// Overtime segment positions, with the break placed before overtime.
	otStart := start + rec.BreakMinutes + lower
	tier1Len := minInt(worked, higher) - lower
	tier2Len := positive(worked - higher)

	nightTier1 := nightOverlapSegment(r, otStart, otStart+tier1Len)
	nightTier2 := nightOverlapSegment(r, otStart+tier1Len, end)

	m.cells.nightOvertime = nightTier1 + nightTier2
	m.cells.night = m.night - m.cells.nightOvertime

	tier1Cell := tier1Len - nightTier1
	tier2Cell := tier2Len - nightTier2
	if r.StandardDailyMinutes <= r.LegalDailyMinutes {
		// Crossing the standard threshold first: scheduled overtime rate,
		// then the legal rate beyond the legal threshold.
		m.cells.overtime = tier1Cell
		m.cells.legalOvertime = tier2Cell
	} else {
		// Legal threshold sits below standard: everything past it is
		// legally premium, so the legal rate covers both tiers.
		m.cells.legalOvertime = tier1Cell + tier2Cell
	}
	return m
}

// nightOverlapSegment intersects one overtime segment with the night
// window.
func nightOverlapSegment(rules WorkRules, start, end int) int {
	if end <= start {
		return 0
	}
	return nightOverlap(rules, start, end)
}

func positive(n int) int {
	if n < 0 {
		return 0
	}
	return n
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}

func decimalFromMinutes(n int) decimal.Decimal { return decimal.NewFromInt(int64(n)) }
