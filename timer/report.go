package timer

import "fmt"

// FormatReport renders the line printed after a timed call. The unit is
// taken from res, not from the magnitude of elapsed.
func FormatReport(name string, elapsed Sample, res Resolution) string {
	return fmt.Sprintf("The '%s' function was executed in %.5f %s.", name, float64(elapsed), res.Unit())
}
