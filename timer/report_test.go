package timer

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFormatReport(t *testing.T) {
	tests := []struct {
		name    string
		fn      string
		elapsed Sample
		res     Resolution
		want    string
	}{
		{
			name:    "seconds",
			fn:      "square",
			elapsed: 0.1234567,
			res:     Seconds,
			want:    "The 'square' function was executed in 0.12346 seconds.",
		},
		{
			name:    "nanoseconds",
			fn:      "square",
			elapsed: 1500,
			res:     Nanoseconds,
			want:    "The 'square' function was executed in 1500.00000 nanoseconds.",
		},
		{
			name:    "unit ignores magnitude",
			fn:      "slow",
			elapsed: 120,
			res:     Seconds,
			want:    "The 'slow' function was executed in 120.00000 seconds.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatReport(tt.fn, tt.elapsed, tt.res))
		})
	}
}

func TestResolutionConversions(t *testing.T) {
	assert.Equal(t, Sample(1.5), Seconds.Sample(1500*time.Millisecond))
	assert.Equal(t, Sample(1500), Nanoseconds.Sample(1500*time.Nanosecond))
	assert.Equal(t, 1500*time.Millisecond, Seconds.Duration(1.5))
	assert.Equal(t, 1500*time.Nanosecond, Nanoseconds.Duration(1500))
	assert.Equal(t, "seconds", Seconds.String())
	assert.Equal(t, "nanoseconds", Nanoseconds.String())
}

func TestMonotonicClockAdvances(t *testing.T) {
	c := MonotonicClock()
	a := c.Now()
	b := c.Now()
	assert.GreaterOrEqual(t, a, time.Duration(0))
	assert.GreaterOrEqual(t, b, a)
}
