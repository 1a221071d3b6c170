// Package clock is the single source of "now" for every request.
package clock

import "time"

type Clock interface {
	Now() time.Time
}

type realClock struct{}

func (realClock) Now() time.Time { return time.Now().UTC() }

func Real() Clock { return realClock{} }

// Fixed always returns t. Used by tests and by callers that need several
// services to agree on one instant.
type Fixed time.Time

func (f Fixed) Now() time.Time { return time.Time(f).UTC() }

// Today is the UTC calendar date of c.Now() at midnight.
func Today(c Clock) time.Time { return DateOf(c.Now()) }

// DateOf truncates t to its UTC calendar date.
func DateOf(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// DaysBetween returns the number of whole calendar days from a to b
// (negative when b is before a).
func DaysBetween(a, b time.Time) int {
	return int(DateOf(b).Sub(DateOf(a)).Hours() / 24)
}
