// Package export renders a recorder's samples for the CLI.
package export

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/olekukonko/tablewriter"
	"github.com/tidwall/pretty"
	"github.com/tidwall/sjson"

	"github.com/alexander-akhmetov/exectimer/timer"
)

// SortedKeys returns the keys of store ordered by owner, then name.
// Free functions come before methods.
func SortedKeys(store timer.Store) []timer.Key {
	keys := store.Keys()
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].Owner != keys[j].Owner {
			return keys[i].Owner < keys[j].Owner
		}
		return keys[i].Name < keys[j].Name
	})
	return keys
}

// JSON encodes store as an indented document:
//
//	{
//	  "resolution": "seconds",
//	  "functions": {"square": {"samples": [...], "count": 3, "mean": 0.1}},
//	  "methods": {"Cache": {"Get": {"samples": [...], "count": 1, "mean": 0.2}}}
//	}
//
// The mean of an empty series is null.
func JSON(store timer.Store, res timer.Resolution) ([]byte, error) {
	doc := []byte(`{}`)
	var err error

	if doc, err = sjson.SetBytes(doc, "resolution", res.Unit()); err != nil {
		return nil, fmt.Errorf("set resolution: %w", err)
	}
	if doc, err = sjson.SetRawBytes(doc, "functions", []byte(`{}`)); err != nil {
		return nil, fmt.Errorf("set functions: %w", err)
	}
	if doc, err = sjson.SetRawBytes(doc, "methods", []byte(`{}`)); err != nil {
		return nil, fmt.Errorf("set methods: %w", err)
	}

	for _, k := range SortedKeys(store) {
		path := "functions." + escapePath(k.Name)
		if k.IsMethod() {
			path = "methods." + escapePath(k.Owner) + "." + escapePath(k.Name)
		}
		if doc, err = setSeries(doc, path, store.Samples(k)); err != nil {
			return nil, fmt.Errorf("set %s: %w", k, err)
		}
	}

	return pretty.Pretty(doc), nil
}

func setSeries(doc []byte, path string, series timer.Series) ([]byte, error) {
	samples := make([]float64, len(series))
	for i, s := range series {
		samples[i] = float64(s)
	}

	var mean any
	if m := series.Mean(); m.Valid {
		mean = float64(m.Value)
	}

	doc, err := sjson.SetBytes(doc, path+".samples", samples)
	if err != nil {
		return nil, err
	}
	if doc, err = sjson.SetBytes(doc, path+".count", len(series)); err != nil {
		return nil, err
	}
	return sjson.SetBytes(doc, path+".mean", mean)
}

// escapePath makes name a single literal path component. All-digit names
// get the ':' prefix so they stay object keys.
func escapePath(name string) string {
	var b strings.Builder
	digits := name != ""
	for _, r := range name {
		if r < '0' || r > '9' {
			digits = false
		}
		if strings.ContainsRune(`\.*?|#@!=<>%:"`, r) {
			b.WriteByte('\\')
		}
		b.WriteRune(r)
	}
	if digits {
		return ":" + b.String()
	}
	return b.String()
}

// Table writes one row per key with the sample count and summary figures.
func Table(w io.Writer, store timer.Store, res timer.Resolution) error {
	table := tablewriter.NewWriter(w)
	table.Header("Key", "Samples", "Mean", "Min", "Max", "Last")

	for _, k := range SortedKeys(store) {
		series := store.Samples(k)
		row := []string{k.String(), fmt.Sprintf("%d", len(series)), "-", "-", "-", "-"}
		if m := series.Mean(); m.Valid {
			lo, hi := bounds(series)
			row[2] = FormatSample(m.Value, res)
			row[3] = FormatSample(lo, res)
			row[4] = FormatSample(hi, res)
			row[5] = FormatSample(series[len(series)-1], res)
		}
		if err := table.Append(row); err != nil {
			return fmt.Errorf("append row %s: %w", k, err)
		}
	}

	if err := table.Render(); err != nil {
		return fmt.Errorf("render table: %w", err)
	}
	return nil
}

func bounds(series timer.Series) (lo, hi timer.Sample) {
	lo, hi = series[0], series[0]
	for _, s := range series[1:] {
		lo = min(lo, s)
		hi = max(hi, s)
	}
	return lo, hi
}

// FormatSample prints s with the precision used in reports: five decimals
// for seconds, whole numbers for nanoseconds.
func FormatSample(s timer.Sample, res timer.Resolution) string {
	if res == timer.Nanoseconds {
		return fmt.Sprintf("%.0f", float64(s))
	}
	return fmt.Sprintf("%.5f", float64(s))
}
