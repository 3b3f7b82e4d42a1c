package timer

import (
	"sort"
	"time"
)

// Timer is implemented by *Recorder and *Decorator. Passing a Recorder
// uses its default decoration settings.
type Timer interface {
	decorator() *Decorator
}

// Decorator carries per-decoration settings on top of a Recorder.
type Decorator struct {
	rec           *Recorder
	returnMeasure bool
	printMeasure  bool
}

// DecorateOption overrides a recorder default for one decoration.
type DecorateOption func(*Decorator)

// ReturnMeasure controls whether the elapsed time is handed back to the
// caller instead of being printed.
func ReturnMeasure(v bool) DecorateOption {
	return func(d *Decorator) { d.returnMeasure = v }
}

// PrintMeasure prints a report after every iteration.
func PrintMeasure(v bool) DecorateOption {
	return func(d *Decorator) { d.printMeasure = v }
}

// Decorator returns a decorator that shares r's store and configuration.
func (r *Recorder) Decorator(opts ...DecorateOption) *Decorator {
	d := &Decorator{
		rec:           r,
		returnMeasure: r.cfg.ReturnMeasure,
		printMeasure:  r.cfg.PrintMeasure,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// DecoratorFromValues is Decorator for untyped values. Only return_measure
// and print_measure are accepted; anything else is reported as unknown.
// The recorder's strict setting decides between warning and failing.
func (r *Recorder) DecoratorFromValues(values map[string]any) (*Decorator, error) {
	v := &validator{}
	d := r.Decorator()

	keys := make([]string, 0, len(values))
	for k := range values {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		switch k {
		case OptReturnMeasure:
			d.returnMeasure = v.boolOption(k, values[k], DefaultReturnMeasure)
		case OptPrintMeasure:
			d.printMeasure = v.boolOption(k, values[k], DefaultPrintMeasure)
		default:
			v.warn(k, values[k], "", nil)
		}
	}

	warnings, err := v.result(r.cfg.Strict)
	if err != nil {
		return nil, err
	}
	for _, w := range warnings {
		r.warn(w)
	}
	return d, nil
}

func (r *Recorder) decorator() *Decorator { return r.Decorator() }

func (d *Decorator) decorator() *Decorator { return d }

// Recorder returns the recorder the decorator writes to.
func (d *Decorator) Recorder() *Recorder { return d.rec }

// measured is a copy of d that always hands the measurement back.
func (d *Decorator) measured() *Decorator {
	m := *d
	m.returnMeasure = true
	return &m
}

// invoke runs call Iterations times. An error from call is returned as is
// and ends the loop; the failed iteration is not recorded.
func (d *Decorator) invoke(key Key, call func() error) (Sample, error) {
	r := d.rec
	var last time.Duration
	for i := 0; i < r.cfg.Iterations; i++ {
		start := r.clock.Now()
		if err := call(); err != nil {
			return 0, err
		}
		last = r.clock.Now() - start

		r.record(key, last)
		if d.printMeasure {
			r.report(key, last)
		}
	}

	if !d.returnMeasure && !d.printMeasure {
		r.report(key, last)
	}
	return r.res.Sample(last), nil
}

func resolveKey(key Key, fn any) Key {
	if key.IsZero() {
		return KeyOf(fn)
	}
	return key
}

// Wrap returns fn timed by t. The result is that of the last iteration.
// A zero key is derived from fn with KeyOf.
func Wrap[A, T any](t Timer, key Key, fn func(A) (T, error)) func(A) (T, error) {
	d := t.decorator()
	key = resolveKey(key, fn)
	return func(arg A) (T, error) {
		var result T
		_, err := d.invoke(key, func() error {
			var err error
			result, err = fn(arg)
			return err
		})
		return result, err
	}
}

// WrapMeasured is Wrap that also returns the elapsed time of the last
// iteration. It never prints the final report.
func WrapMeasured[A, T any](t Timer, key Key, fn func(A) (T, error)) func(A) (T, Sample, error) {
	d := t.decorator().measured()
	key = resolveKey(key, fn)
	return func(arg A) (T, Sample, error) {
		var result T
		elapsed, err := d.invoke(key, func() error {
			var err error
			result, err = fn(arg)
			return err
		})
		return result, elapsed, err
	}
}

// Run times a single call of fn.
func Run[T any](t Timer, key Key, fn func() (T, error)) (T, error) {
	d := t.decorator()
	var result T
	_, err := d.invoke(resolveKey(key, fn), func() error {
		var err error
		result, err = fn()
		return err
	})
	return result, err
}

// RunMeasured is Run that also returns the elapsed time of the last
// iteration.
func RunMeasured[T any](t Timer, key Key, fn func() (T, error)) (T, Sample, error) {
	d := t.decorator().measured()
	var result T
	elapsed, err := d.invoke(resolveKey(key, fn), func() error {
		var err error
		result, err = fn()
		return err
	})
	return result, elapsed, err
}

// Do times fn for functions without a result.
func Do(t Timer, key Key, fn func() error) error {
	d := t.decorator()
	_, err := d.invoke(resolveKey(key, fn), fn)
	return err
}
