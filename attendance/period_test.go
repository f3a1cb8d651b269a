package attendance_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/warp/attendance-engine/attendance"
)

func TestMonthOf_CoversWholeMonth(t *testing.T) {
	p := attendance.MonthOf(2026, time.July)

	assert.True(t, p.Start.Equal(attendance.NewDate(2026, time.July, 1)))
	assert.True(t, p.End.Equal(attendance.NewDate(2026, time.July, 31)))
	assert.Len(t, p.Days(), 31)

	feb := attendance.MonthOf(2024, time.February) // leap year
	assert.Len(t, feb.Days(), 29)
}

func TestNewPeriod_RejectsInvertedBounds(t *testing.T) {
	start := attendance.NewDate(2026, time.July, 31)
	end := attendance.NewDate(2026, time.July, 1)

	_, err := attendance.NewPeriod(start, end)
	assert.ErrorIs(t, err, attendance.ErrCalculation)

	p, err := attendance.NewPeriod(end, start)
	require.NoError(t, err)
	assert.True(t, p.Contains(attendance.NewDate(2026, time.July, 15)))
}

func TestPeriod_Contains_BoundsInclusive(t *testing.T) {
	p := attendance.MonthOf(2026, time.July)

	assert.True(t, p.Contains(p.Start))
	assert.True(t, p.Contains(p.End))
	assert.False(t, p.Contains(p.Start.AddDays(-1)))
	assert.False(t, p.Contains(p.End.AddDays(1)))
}

func TestPeriod_Covers(t *testing.T) {
	july := attendance.MonthOf(2026, time.July)
	firstWeek, err := attendance.NewPeriod(
		attendance.NewDate(2026, time.July, 1),
		attendance.NewDate(2026, time.July, 7))
	require.NoError(t, err)

	assert.True(t, july.Covers(firstWeek))
	assert.True(t, july.Covers(july))
	assert.False(t, firstWeek.Covers(july))
	assert.False(t, july.Covers(attendance.MonthOf(2026, time.August)))
}

func TestPeriod_BusinessDays(t *testing.T) {
	july := attendance.MonthOf(2026, time.July)
	noHolidays := func(attendance.Date) bool { return false }

	// July 2026 has 8 weekend days.
	assert.Equal(t, 23, july.BusinessDays(noHolidays))

	// A weekday holiday removes one; a weekend holiday removes nothing.
	holidays := map[attendance.Date]bool{
		attendance.NewDate(2026, time.July, 20): true, // Monday
		attendance.NewDate(2026, time.July, 4):  true, // Saturday
	}
	assert.Equal(t, 22, july.BusinessDays(func(d attendance.Date) bool { return holidays[d] }))
}

func TestPeriod_String(t *testing.T) {
	p := attendance.MonthOf(2026, time.July)
	assert.Equal(t, "[2026-07-01, 2026-07-31]", p.String())
}
