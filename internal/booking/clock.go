package booking

import "time"

// Clock supplies "now" to the engine.  Same-day-only booking and the
// pickup-in-past check both depend on the current date and time, so
// the clock is injected rather than read globally; tests pin it.
type Clock interface {
	Now() time.Time
}

// SystemClock is the production Clock.
type SystemClock struct{}

// Now returns the current UTC time.
func (SystemClock) Now() time.Time { return time.Now().UTC() }
