package attendance

import (
	"fmt"
	"strings"
	"time"
)

// =============================================================================
// CLOCK TIME - Minutes since midnight, with next-day punch notation
// =============================================================================

// ClockTime is a time of day expressed in minutes since midnight. Punch
// exports use extended notation for shifts that end after midnight: a
// clock-out of "26:30" means 02:30 on the following day. Hours up to 47
// are accepted so that a full 24-hour shift remains representable.
type ClockTime struct {
	minutes int
}

const (
	minutesPerDay   = 24 * 60
	maxClockMinutes = 48*60 - 1
	maxBreakMinutes = minutesPerDay
)

// NewClockTime builds a ClockTime from an hour (0-47) and minute (0-59).
func NewClockTime(hour, minute int) (ClockTime, error) {
	if hour < 0 || minute < 0 || minute > 59 {
		return ClockTime{}, &FieldError{Field: "clock", Reason: fmt.Sprintf("invalid time %02d:%02d", hour, minute)}
	}
	total := hour*60 + minute
	if total > maxClockMinutes {
		return ClockTime{}, &FieldError{Field: "clock", Reason: fmt.Sprintf("time %02d:%02d beyond 47:59", hour, minute)}
	}
	return ClockTime{minutes: total}, nil
}

// ParseClockTime parses "H:MM" or "HH:MM" (seconds tolerated and ignored).
func ParseClockTime(s string) (ClockTime, error) {
	var hour, minute, sec int
	switch n, _ := fmt.Sscanf(s, "%d:%d:%d", &hour, &minute, &sec); n {
	case 2, 3:
		return NewClockTime(hour, minute)
	default:
		return ClockTime{}, &FieldError{Field: "clock", Reason: fmt.Sprintf("unparseable time %q", s)}
	}
}

func (c ClockTime) Minutes() int              { return c.minutes }
func (c ClockTime) Before(o ClockTime) bool   { return c.minutes < o.minutes }
func (c ClockTime) After(o ClockTime) bool    { return c.minutes > o.minutes }
func (c ClockTime) Equal(o ClockTime) bool    { return c.minutes == o.minutes }
func (c ClockTime) IsNextDay() bool           { return c.minutes >= minutesPerDay }

func (c ClockTime) String() string {
	return fmt.Sprintf("%02d:%02d", c.minutes/60, c.minutes%60)
}

// =============================================================================
// DATE - Calendar day (no time component)
// =============================================================================

type Date struct {
	t time.Time
}

func NewDate(year int, month time.Month, day int) Date {
	return Date{t: time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// ParseDate accepts "2006-01-02" and the slash form "2006/01/02" used by
// spreadsheet exports.
func ParseDate(s string) (Date, error) {
	for _, layout := range []string{"2006-01-02", "2006/01/02", "2006/1/2"} {
		if t, err := time.Parse(layout, s); err == nil {
			return Date{t: t}, nil
		}
	}
	return Date{}, &FieldError{Field: "work_date", Reason: fmt.Sprintf("unparseable date %q", s)}
}

func Today() Date {
	now := time.Now()
	return NewDate(now.Year(), now.Month(), now.Day())
}

func (d Date) Before(o Date) bool        { return d.t.Before(o.t) }
func (d Date) After(o Date) bool         { return d.t.After(o.t) }
func (d Date) Equal(o Date) bool         { return d.t.Equal(o.t) }
func (d Date) BeforeOrEqual(o Date) bool { return !d.After(o) }
func (d Date) AfterOrEqual(o Date) bool  { return !d.Before(o) }
func (d Date) IsZero() bool              { return d.t.IsZero() }

func (d Date) AddDays(n int) Date   { return Date{t: d.t.AddDate(0, 0, n)} }
func (d Date) AddMonths(n int) Date { return Date{t: d.t.AddDate(0, n, 0)} }
func (d Date) AddYears(n int) Date  { return Date{t: d.t.AddDate(n, 0, 0)} }

func (d Date) Year() int             { return d.t.Year() }
func (d Date) Month() time.Month     { return d.t.Month() }
func (d Date) Day() int              { return d.t.Day() }
func (d Date) Weekday() time.Weekday { return d.t.Weekday() }
func (d Date) IsWeekend() bool {
	wd := d.Weekday()
	return wd == time.Saturday || wd == time.Sunday
}

func (d Date) String() string { return d.t.Format("2006-01-02") }

func (d Date) MarshalJSON() ([]byte, error) {
	return []byte(`"` + d.String() + `"`), nil
}

func (d *Date) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(data), `"`)
	parsed, err := ParseDate(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// DaysBetween returns o - d in whole days.
func DaysBetween(d, o Date) int { return int(o.t.Sub(d.t).Hours() / 24) }

// =============================================================================
// MINUTE INTERVALS
// =============================================================================

// overlapMinutes returns the length of the intersection of the half-open
// minute intervals [aStart, aEnd) and [bStart, bEnd).
func overlapMinutes(aStart, aEnd, bStart, bEnd int) int {
	start := aStart
	if bStart > start {
		start = bStart
	}
	end := aEnd
	if bEnd < end {
		end = bEnd
	}
	if end <= start {
		return 0
	}
	return end - start
}
