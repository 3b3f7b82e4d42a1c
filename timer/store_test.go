package timer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSeriesMean(t *testing.T) {
	tests := []struct {
		name   string
		series Series
		want   Mean
	}{
		{name: "nil has no value", series: nil, want: Mean{}},
		{name: "empty has no value", series: Series{}, want: Mean{}},
		{name: "single", series: Series{2.5}, want: Mean{Value: 2.5, Valid: true}},
		{name: "three samples", series: Series{1, 2, 6}, want: Mean{Value: 3, Valid: true}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.series.Mean())
		})
	}
}

func TestStoreAverageKeepsShape(t *testing.T) {
	store := Store{
		"square": {Samples: Series{1, 2, 3}},
		"idle":   {Samples: Series{}},
		"Cache": {Methods: map[string]Series{
			"Get": {4, 8},
			"Put": {},
		}},
	}

	avg := store.Average()

	require.Len(t, avg, 3)
	assert.Equal(t, Mean{Value: 2, Valid: true}, avg["square"].Mean)
	assert.Nil(t, avg["square"].Methods)
	assert.False(t, avg["idle"].Mean.Valid)
	assert.Equal(t, Mean{Value: 6, Valid: true}, avg.Of(MethodKey("Cache", "Get")))
	assert.False(t, avg.Of(MethodKey("Cache", "Put")).Valid)
	assert.False(t, avg.Of(FuncKey("missing")).Valid)
}

func TestStoreAddSharedName(t *testing.T) {
	store := Store{}
	store.add(FuncKey("Cache"), 1, 0)
	store.add(MethodKey("Cache", "Get"), 2, 0)
	store.add(MethodKey("Cache", "Get"), 3, 0)

	assert.Equal(t, Series{1}, store.Samples(FuncKey("Cache")))
	assert.Equal(t, Series{2, 3}, store.Samples(MethodKey("Cache", "Get")))
	assert.ElementsMatch(t, []Key{FuncKey("Cache"), MethodKey("Cache", "Get")}, store.Keys())
}

func TestAppendLimited(t *testing.T) {
	tests := []struct {
		name  string
		limit int
		want  Series
	}{
		{name: "unbounded", limit: 0, want: Series{1, 2, 3, 4, 5}},
		{name: "one", limit: 1, want: Series{5}},
		{name: "three", limit: 3, want: Series{3, 4, 5}},
		{name: "larger than input", limit: 10, want: Series{1, 2, 3, 4, 5}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var s Series
			for i := 1; i <= 5; i++ {
				s = appendLimited(s, Sample(i), tt.limit)
			}
			assert.Equal(t, tt.want, s)
		})
	}
}

func TestStoreClone(t *testing.T) {
	store := Store{
		"f":     {Samples: Series{1}},
		"Cache": {Methods: map[string]Series{"Get": {2}}},
	}

	c := store.Clone()
	c["f"].Samples[0] = 10
	c["Cache"].Methods["Get"][0] = 20
	c["Cache"].Methods["Put"] = Series{30}

	assert.Equal(t, Series{1}, store.Samples(FuncKey("f")))
	assert.Equal(t, Series{2}, store.Samples(MethodKey("Cache", "Get")))
	assert.Nil(t, store.Samples(MethodKey("Cache", "Put")))
}
