package timer

// Sample is one elapsed duration expressed in the recorder's resolution.
type Sample float64

// Series holds samples in the order they were recorded.
type Series []Sample

// Mean is an arithmetic mean. Valid is false for an empty series, which has
// no mean.
type Mean struct {
	Value Sample
	Valid bool
}

// Mean averages the series.
func (s Series) Mean() Mean {
	if len(s) == 0 {
		return Mean{}
	}
	var sum Sample
	for _, v := range s {
		sum += v
	}
	return Mean{Value: sum / Sample(len(s)), Valid: true}
}

// Entry is the value stored under one top-level name. Samples holds a free
// function's series; Methods holds the series of each method of the type of
// that name. A free function and a type sharing a name both fit in one Entry.
type Entry struct {
	Samples Series
	Methods map[string]Series
}

// Store maps a function name or owning type name to its recorded samples.
type Store map[string]Entry

// Samples returns the series recorded under k.
func (s Store) Samples(k Key) Series {
	if k.IsMethod() {
		return s[k.Owner].Methods[k.Name]
	}
	return s[k.Name].Samples
}

// Keys lists every series key in the store.
func (s Store) Keys() []Key {
	var keys []Key
	for name, e := range s {
		if e.Samples != nil {
			keys = append(keys, FuncKey(name))
		}
		for method := range e.Methods {
			keys = append(keys, MethodKey(name, method))
		}
	}
	return keys
}

// add appends v to the series of k. A positive limit keeps only the most
// recent limit samples.
func (s Store) add(k Key, v Sample, limit int) {
	if k.IsMethod() {
		e := s[k.Owner]
		if e.Methods == nil {
			e.Methods = make(map[string]Series)
		}
		e.Methods[k.Name] = appendLimited(e.Methods[k.Name], v, limit)
		s[k.Owner] = e
		return
	}
	e := s[k.Name]
	e.Samples = appendLimited(e.Samples, v, limit)
	s[k.Name] = e
}

func appendLimited(series Series, v Sample, limit int) Series {
	if limit > 0 && len(series) >= limit {
		n := copy(series, series[len(series)-limit+1:])
		series = series[:n]
	}
	return append(series, v)
}

// Clone returns a deep copy.
func (s Store) Clone() Store {
	out := make(Store, len(s))
	for name, e := range s {
		var c Entry
		if e.Samples != nil {
			c.Samples = append(Series{}, e.Samples...)
		}
		if e.Methods != nil {
			c.Methods = make(map[string]Series, len(e.Methods))
			for m, series := range e.Methods {
				c.Methods[m] = append(Series{}, series...)
			}
		}
		out[name] = c
	}
	return out
}

// AverageEntry mirrors Entry with each series replaced by its mean.
type AverageEntry struct {
	Mean    Mean
	Methods map[string]Mean
}

// Averages has the same key shape as Store.
type Averages map[string]AverageEntry

// Of returns the mean recorded under k.
func (a Averages) Of(k Key) Mean {
	if k.IsMethod() {
		return a[k.Owner].Methods[k.Name]
	}
	return a[k.Name].Mean
}

// Average computes the mean of every series.
func (s Store) Average() Averages {
	out := make(Averages, len(s))
	for name, e := range s {
		var avg AverageEntry
		if e.Samples != nil {
			avg.Mean = e.Samples.Mean()
		}
		if e.Methods != nil {
			avg.Methods = make(map[string]Mean, len(e.Methods))
			for m, series := range e.Methods {
				avg.Methods[m] = series.Mean()
			}
		}
		out[name] = avg
	}
	return out
}
