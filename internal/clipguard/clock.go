package clipguard

import "time"

// Clock abstracts time operations so tests can drive the guard with a
// manual clock.
type Clock interface {
	Now() time.Time
	AfterFunc(d time.Duration, f func()) Timer
}

// Timer is an owned handle to a scheduled callback. Stop reports whether
// the call prevented the callback from firing.
type Timer interface {
	Stop() bool
}

// SystemClock implements Clock using the stdlib time package.
type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now() }

func (SystemClock) AfterFunc(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, f)
}
