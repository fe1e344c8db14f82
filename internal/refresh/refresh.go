// Package refresh provides per-refresh scheduling primitives.
//
// A Refresher invokes a callback once at the next display refresh and lets the
// caller cancel a registration that has not fired yet. Frame schedulers
// re-register at the end of every tick, so at most one registration per
// scheduler is outstanding at any time.
package refresh

import "time"

// DefaultRate is the refresh rate used when none is configured (Hz).
const DefaultRate = 60

// Handle identifies one registration. The zero Handle is never issued.
type Handle uint64

// Callback receives the timestamp of the refresh it was fired for.
type Callback func(timestamp time.Time)

// Refresher is the per-refresh scheduling primitive.
type Refresher interface {
	// Request registers cb to run once at the next refresh.
	Request(cb Callback) Handle

	// Cancel prevents a pending registration from firing.
	// Cancelling a fired or unknown handle is a no-op.
	Cancel(h Handle)
}

// Interval converts a refresh rate in Hz to the time between refreshes.
// Non-positive rates fall back to DefaultRate.
func Interval(rate int) time.Duration {
	if rate <= 0 {
		rate = DefaultRate
	}
	return time.Second / time.Duration(rate)
}
