package testutil

import "time"

// FixedClock returns a now func pinned to t.
func FixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}
