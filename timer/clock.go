package timer

import "time"

// Clock returns a monotonic reading. Only the difference between two
// readings is meaningful.
type Clock interface {
	Now() time.Duration
}

// ClockFunc adapts a function to the Clock interface.
type ClockFunc func() time.Duration

func (f ClockFunc) Now() time.Duration { return f() }

// MonotonicClock reads Go's monotonic clock relative to the moment it was
// created.
func MonotonicClock() Clock {
	origin := time.Now()
	return ClockFunc(func() time.Duration {
		return time.Since(origin)
	})
}

// Resolution is the unit samples are expressed in.
type Resolution int

const (
	Seconds Resolution = iota
	Nanoseconds
)

// Unit returns the label used in reports.
func (r Resolution) Unit() string {
	if r == Nanoseconds {
		return "nanoseconds"
	}
	return "seconds"
}

func (r Resolution) String() string { return r.Unit() }

// Sample converts an elapsed duration into this resolution.
func (r Resolution) Sample(d time.Duration) Sample {
	if r == Nanoseconds {
		return Sample(d.Nanoseconds())
	}
	return Sample(d.Seconds())
}

// Duration converts a sample in this resolution back to a duration.
func (r Resolution) Duration(s Sample) time.Duration {
	if r == Nanoseconds {
		return time.Duration(s)
	}
	return time.Duration(float64(s) * float64(time.Second))
}
