// Package timer measures how long functions take.
//
// A Recorder wraps functions so that every call is timed with a monotonic
// clock, optionally repeated a fixed number of times, and optionally kept
// in an in-memory store for later averaging:
//
//	rec, _ := timer.New(timer.Config{SaveMeasure: true, Iterations: 3})
//	square := timer.Wrap(rec, timer.FuncKey("square"), func(x int) (int, error) {
//		return x * x, nil
//	})
//	v, err := square(4) // runs three times, prints one report, v == 16
//	avg := rec.Average().Of(timer.FuncKey("square"))
//
// Samples are grouped by Key: a function name, or an owning type name plus a
// method name. Errors returned by a wrapped function are passed through
// unchanged and stop the remaining iterations.
//
// Invalid options never fail a program by default. They are replaced by
// their defaults and reported to a warning handler; Config.Strict turns them
// into a *ValidationError.
package timer

// Version of the library.
const Version = "0.1.2"
