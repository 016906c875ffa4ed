// Package calendar holds local-date helpers shared by the tracking services.
package calendar

import "time"

// Clock returns the current time.
type Clock func() time.Time

// DayStart returns local midnight of the day containing t, in t's location.
func DayStart(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// DayEnd returns the last representable instant of the day containing t.
func DayEnd(t time.Time) time.Time {
	return DayStart(t).AddDate(0, 0, 1).Add(-time.Nanosecond)
}

// SameDay reports whether a and b fall on the same calendar day in a's location.
func SameDay(a, b time.Time) bool {
	b = b.In(a.Location())
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

// LastDays returns the bounds of the n local days ending with the day of now.
func LastDays(now time.Time, n int) (time.Time, time.Time) {
	if n < 1 {
		n = 1
	}
	return DayStart(now).AddDate(0, 0, -(n - 1)), DayEnd(now)
}

// DateKey formats the local calendar date of t as YYYY-MM-DD.
func DateKey(t time.Time) string {
	return t.Format(time.DateOnly)
}
