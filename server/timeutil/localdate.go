// Package timeutil provides calendar utilities for the K-Shot analytics engine.
//
// All activity data is bucketed on calendar dates in a fixed +09:00 offset,
// regardless of the clock offset of the host or the caller. The package keeps
// "local calendar date" and "absolute instant" as distinct types so that the
// two can never be compared without an explicit conversion.
package timeutil

import (
	"fmt"
	"time"
)

// JST is the fixed +09:00 offset every calendar computation uses.
// Activity dates are recorded against this zone independent of the host clock.
var JST = time.FixedZone("JST", 9*60*60)

// DateLayout is the wire format for local calendar dates.
const DateLayout = "2006-01-02"

// LocalDate is a calendar date in the fixed +09:00 offset.
//
// It is intentionally not a time.Time: view events are keyed by local
// calendar date while material timestamps are absolute instants, and joining
// the two without ToLocalDate is the bug class this type exists to prevent.
type LocalDate struct {
	Year  int
	Month time.Month
	Day   int
}

// NewLocalDate returns the normalized local date for the given components.
// Out-of-range values are carried over the same way time.Date does.
func NewLocalDate(year int, month time.Month, day int) LocalDate {
	return fromTime(time.Date(year, month, day, 0, 0, 0, 0, JST))
}

// ToLocalDate converts an absolute instant to its +09:00 calendar date.
func ToLocalDate(t time.Time) LocalDate {
	return fromTime(t.In(JST))
}

// Today returns the current calendar date in the +09:00 offset.
func Today() LocalDate {
	return ToLocalDate(time.Now())
}

// DaysAgo returns the calendar date n days before today in the +09:00 offset.
func DaysAgo(n int) LocalDate {
	return Today().AddDays(-n)
}

// ParseLocalDate parses a "2006-01-02" date string.
func ParseLocalDate(s string) (LocalDate, error) {
	t, err := time.ParseInLocation(DateLayout, s, JST)
	if err != nil {
		return LocalDate{}, fmt.Errorf("invalid date %q: %w", s, err)
	}
	return fromTime(t), nil
}

func fromTime(t time.Time) LocalDate {
	y, m, d := t.In(JST).Date()
	return LocalDate{Year: y, Month: m, Day: d}
}

// Time returns midnight of the date in the +09:00 offset.
func (d LocalDate) Time() time.Time {
	return time.Date(d.Year, d.Month, d.Day, 0, 0, 0, 0, JST)
}

// String formats the date as "2006-01-02".
func (d LocalDate) String() string {
	return d.Time().Format(DateLayout)
}

// IsZero reports whether the date is the zero value.
func (d LocalDate) IsZero() bool {
	return d.Year == 0 && d.Month == 0 && d.Day == 0
}

// AddDays returns the date n days after d (n may be negative).
func (d LocalDate) AddDays(n int) LocalDate {
	return fromTime(d.Time().AddDate(0, 0, n))
}

// AddMonths returns the date n months after d, normalized.
func (d LocalDate) AddMonths(n int) LocalDate {
	return fromTime(d.Time().AddDate(0, n, 0))
}

// DaysUntil returns the number of calendar days from d to other.
// It is positive when other is after d, zero when equal.
func (d LocalDate) DaysUntil(other LocalDate) int {
	return int(other.Time().Sub(d.Time()).Hours() / 24)
}

// Before reports whether d is before other.
func (d LocalDate) Before(other LocalDate) bool {
	return d.Time().Before(other.Time())
}

// After reports whether d is after other.
func (d LocalDate) After(other LocalDate) bool {
	return d.Time().After(other.Time())
}

// Equal reports whether d and other are the same calendar date.
func (d LocalDate) Equal(other LocalDate) bool {
	return d == other
}

// StartOfMonth returns the first day of d's month.
func (d LocalDate) StartOfMonth() LocalDate {
	return LocalDate{Year: d.Year, Month: d.Month, Day: 1}
}

// NextMonthStart returns the first day of the month after d's month.
func (d LocalDate) NextMonthStart() LocalDate {
	return d.StartOfMonth().AddMonths(1)
}

// MarshalText implements encoding.TextMarshaler.
func (d LocalDate) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *LocalDate) UnmarshalText(text []byte) error {
	parsed, err := ParseLocalDate(string(text))
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// MonthBounds returns [start, endExclusive) for the month containing d.
func MonthBounds(d LocalDate) (LocalDate, LocalDate) {
	start := d.StartOfMonth()
	return start, start.AddMonths(1)
}

// WeekBounds returns [start, endExclusive) for the i-th 7-day window anchored
// at anchor. Windows are anchored at the given start date, not aligned to
// calendar weeks.
func WeekBounds(i int, anchor LocalDate) (LocalDate, LocalDate) {
	start := anchor.AddDays(i * 7)
	return start, start.AddDays(7)
}

// MinDate returns the earlier of a and b.
func MinDate(a, b LocalDate) LocalDate {
	if a.Before(b) {
		return a
	}
	return b
}

// MaxDate returns the later of a and b.
func MaxDate(a, b LocalDate) LocalDate {
	if a.After(b) {
		return a
	}
	return b
}
