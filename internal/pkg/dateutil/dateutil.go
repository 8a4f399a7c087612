// Package dateutil holds the date-only arithmetic used across the studio
// domain. Every date is a time.Time at UTC midnight.
package dateutil

import "time"

const (
	Layout       = "2006-01-02"
	dayMonthForm = "02.01"
)

// Clock supplies the current instant. Services take a Clock so that "today"
// is explicit in every operation.
type Clock interface {
	Now() time.Time
}

type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now().UTC() }

// FixedClock always reports the same instant.
type FixedClock time.Time

func (c FixedClock) Now() time.Time { return time.Time(c).UTC() }

// DateOnly truncates t to midnight UTC of its UTC calendar day.
func DateOnly(t time.Time) time.Time {
	u := t.UTC()
	return time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC)
}

// Today returns the current UTC date.
func Today(c Clock) time.Time {
	return DateOnly(c.Now())
}

func AddDays(t time.Time, days int) time.Time {
	return DateOnly(t).AddDate(0, 0, days)
}

// DaysBetween returns the whole days from a to b; negative when b is before a.
func DaysBetween(a, b time.Time) int {
	return int(DateOnly(b).Sub(DateOnly(a)).Hours() / 24)
}

// MonthBounds returns the first and last day of the month containing t.
func MonthBounds(t time.Time) (time.Time, time.Time) {
	d := DateOnly(t)
	first := time.Date(d.Year(), d.Month(), 1, 0, 0, 0, 0, time.UTC)
	return first, first.AddDate(0, 1, -1)
}

func Parse(s string) (time.Time, error) {
	t, err := time.Parse(Layout, s)
	if err != nil {
		return time.Time{}, err
	}
	return DateOnly(t), nil
}

func Format(t time.Time) string {
	return t.UTC().Format(Layout)
}

// FormatPtr formats an optional date; nil stays nil.
func FormatPtr(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := Format(*t)
	return &s
}

// FormatDayMonth renders t as dd.MM.
func FormatDayMonth(t time.Time) string {
	return t.UTC().Format(dayMonthForm)
}

// EachDay calls fn for every date in [from, to].
func EachDay(from, to time.Time, fn func(day time.Time)) {
	for d := DateOnly(from); !d.After(DateOnly(to)); d = d.AddDate(0, 0, 1) {
		fn(d)
	}
}
