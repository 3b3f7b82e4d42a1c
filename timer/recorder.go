package timer

import (
	"fmt"
	"io"
	"os"
	"sync"
	"time"
)

// Observer receives every measured iteration, whether or not the recorder
// keeps samples. Observers are called on the caller's goroutine and must be
// safe for concurrent use if the recorder is shared.
type Observer interface {
	Observe(key Key, elapsed time.Duration)
}

// ObserverFunc adapts a function to the Observer interface.
type ObserverFunc func(key Key, elapsed time.Duration)

func (f ObserverFunc) Observe(key Key, elapsed time.Duration) { f(key, elapsed) }

// Recorder times wrapped calls and accumulates their samples.
//
// The store grows without bound unless Config.MaxSamples is set; call Reset
// to drop what has been collected.
type Recorder struct {
	cfg       Config
	res       Resolution
	clock     Clock
	out       io.Writer
	warn      func(Warning)
	observers []Observer

	mu    sync.Mutex
	store Store
}

// Option configures the collaborators of a Recorder.
type Option func(*Recorder)

// WithClock replaces the monotonic clock, mostly for tests.
func WithClock(c Clock) Option {
	return func(r *Recorder) {
		if c != nil {
			r.clock = c
		}
	}
}

// WithOutput sets where reports are written. The default is os.Stdout.
func WithOutput(w io.Writer) Option {
	return func(r *Recorder) {
		if w != nil {
			r.out = w
		}
	}
}

// WithWarningHandler receives configuration warnings. The default writes
// them to stderr.
func WithWarningHandler(fn func(Warning)) Option {
	return func(r *Recorder) {
		if fn != nil {
			r.warn = fn
		}
	}
}

// WithObserver adds an observer notified of every iteration.
func WithObserver(o Observer) Option {
	return func(r *Recorder) {
		if o != nil {
			r.observers = append(r.observers, o)
		}
	}
}

// New builds a Recorder with an empty store. Invalid values are replaced
// by defaults and reported to the warning handler; with cfg.Strict they
// are returned as a *ValidationError instead.
func New(cfg Config, opts ...Option) (*Recorder, error) {
	v := &validator{}
	cfg = v.config(cfg)
	return build(cfg, v, opts)
}

// NewFromValues is New for untyped option values. See ConfigFromValues.
func NewFromValues(values map[string]any, opts ...Option) (*Recorder, error) {
	v := &validator{}
	cfg := v.values(values)
	return build(cfg, v, opts)
}

func build(cfg Config, v *validator, opts []Option) (*Recorder, error) {
	r := &Recorder{
		clock: MonotonicClock(),
		out:   os.Stdout,
		warn:  StderrWarnings,
		store: Store{},
	}
	for _, opt := range opts {
		opt(r)
	}

	warnings, err := v.result(cfg.Strict)
	if err != nil {
		return nil, err
	}
	for _, w := range warnings {
		r.warn(w)
	}

	r.cfg = cfg
	r.res = cfg.Resolution()
	return r, nil
}

// Config returns the validated configuration.
func (r *Recorder) Config() Config { return r.cfg }

// Resolution returns the unit of every sample this recorder produces.
func (r *Recorder) Resolution() Resolution { return r.res }

// Measured returns a copy of the recorded samples.
func (r *Recorder) Measured() Store {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.store.Clone()
}

// Reset drops all recorded samples. Configuration is untouched.
func (r *Recorder) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	clear(r.store)
}

// Average returns the mean of every recorded series.
func (r *Recorder) Average() Averages {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.store.Average()
}

func (r *Recorder) record(key Key, elapsed time.Duration) {
	for _, o := range r.observers {
		o.Observe(key, elapsed)
	}
	if !r.cfg.SaveMeasure {
		return
	}
	r.mu.Lock()
	r.store.add(key, r.res.Sample(elapsed), r.cfg.MaxSamples)
	r.mu.Unlock()
}

func (r *Recorder) report(key Key, elapsed time.Duration) {
	fmt.Fprintln(r.out, FormatReport(key.Name, r.res.Sample(elapsed), r.res))
}
