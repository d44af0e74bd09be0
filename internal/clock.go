package internal

import "time"

// Clock returns the current instant. Services take one so tests can pin time.
type Clock func() time.Time

func SystemClock() time.Time {
	return time.Now()
}
