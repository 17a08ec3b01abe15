// Package system supplies the wall clock used by the cooldown tracker.
package system

import "time"

// Clock implements wiki.Clock.
//
// Now keeps the monotonic reading so cooldown windows are unaffected by
// wall clock adjustments. Call UTC on the result before displaying it.
type Clock struct{}

// New returns a Clock.
func New() Clock {
	return Clock{}
}

// Now returns the current time.
func (Clock) Now() time.Time {
	return time.Now()
}

// Since reports the time elapsed since t.
func (c Clock) Since(t time.Time) time.Duration {
	return c.Now().Sub(t)
}
