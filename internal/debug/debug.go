// Package debug provides env-gated diagnostics for exectimer.
package debug

import (
	"fmt"
	"io"
	"os"
	"time"
)

var (
	enabled           = os.Getenv("EXECTIMER_DEBUG") == "1"
	out     io.Writer = os.Stderr
)

// Logf writes a debug message to stderr if EXECTIMER_DEBUG=1
func Logf(format string, args ...any) {
	if !enabled {
		return
	}
	fmt.Fprintf(out, "[DEBUG %s] %s\n", time.Now().Format("15:04:05.000"), fmt.Sprintf(format, args...))
}

// Stopwatch starts timing label and returns a func that logs the elapsed
// milliseconds. It does nothing unless debug logging is on.
func Stopwatch(label string) func() {
	if !enabled {
		return func() {}
	}
	start := time.Now()
	return func() {
		Logf("%s: %dms", label, time.Since(start).Milliseconds())
	}
}

// Enabled returns true if debug logging is enabled
func Enabled() bool {
	return enabled
}
