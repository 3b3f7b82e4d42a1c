package timer

import (
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"
)

// Option names accepted by ConfigFromValues and DecoratorFromValues.
const (
	OptSaveMeasure   = "save_measure"
	OptNanoseconds   = "nanoseconds"
	OptIterations    = "n_iter"
	OptReturnMeasure = "return_measure"
	OptPrintMeasure  = "print_measure"
	OptMaxSamples    = "max_samples"
	OptStrict        = "strict"
)

const (
	DefaultSaveMeasure   = true
	DefaultNanoseconds   = false
	DefaultIterations    = 1
	DefaultReturnMeasure = false
	DefaultPrintMeasure  = false
	DefaultMaxSamples    = 0 // unbounded
)

// ErrInvalidOption is matched by every *ValidationError.
var ErrInvalidOption = errors.New("invalid timer option")

// Config holds recorder options. It is fixed once a Recorder is built.
type Config struct {
	SaveMeasure   bool // keep every sample in the store
	Nanoseconds   bool // samples in nanoseconds instead of seconds
	Iterations    int  // calls of the wrapped function per timed call
	ReturnMeasure bool // default for decorations: return instead of print
	PrintMeasure  bool // print a report after every iteration
	MaxSamples    int  // per-series cap, 0 keeps everything
	Strict        bool // fail on invalid options instead of warning
}

// DefaultConfig returns the configuration used when nothing is set.
func DefaultConfig() Config {
	return Config{
		SaveMeasure:   DefaultSaveMeasure,
		Nanoseconds:   DefaultNanoseconds,
		Iterations:    DefaultIterations,
		ReturnMeasure: DefaultReturnMeasure,
		PrintMeasure:  DefaultPrintMeasure,
		MaxSamples:    DefaultMaxSamples,
	}
}

// Resolution returns the sample unit selected by Nanoseconds.
func (c Config) Resolution() Resolution {
	if c.Nanoseconds {
		return Nanoseconds
	}
	return Seconds
}

// Warning describes an option value that was rejected and replaced.
type Warning struct {
	Option   string
	Value    any
	Expected string
	Default  any
}

func (w Warning) String() string {
	if w.Expected == "" {
		return fmt.Sprintf("unknown option %q (value %v) is ignored", w.Option, w.Value)
	}
	return fmt.Sprintf("expected %s for %q, but got %s; execution continues with default value (%s=%v)",
		w.Expected, w.Option, describe(w.Value), w.Option, w.Default)
}

func describe(v any) string {
	if v == nil {
		return "nil"
	}
	if s, ok := v.(string); ok {
		return fmt.Sprintf("%q (string)", s)
	}
	return fmt.Sprintf("%v (%T)", v, v)
}

// ValidationError is returned in strict mode instead of emitting warnings.
type ValidationError struct {
	Warnings []Warning
}

func (e *ValidationError) Error() string {
	msgs := make([]string, len(e.Warnings))
	for i, w := range e.Warnings {
		msgs[i] = w.String()
	}
	return "invalid timer options: " + strings.Join(msgs, "; ")
}

func (e *ValidationError) Unwrap() error { return ErrInvalidOption }

// StderrWarnings is the default warning handler.
func StderrWarnings(w Warning) {
	fmt.Fprintf(os.Stderr, "warning: %s\n", w)
}

// ConfigFromValues builds a Config from untyped option values, as read from
// YAML, environment variables or flags. Rejected values fall back to their
// defaults and are returned as warnings. In strict mode the warnings are
// returned as a *ValidationError instead.
func ConfigFromValues(values map[string]any) (Config, []Warning, error) {
	v := &validator{}
	cfg := v.values(values)
	warnings, err := v.result(cfg.Strict)
	return cfg, warnings, err
}

type validator struct {
	warnings []Warning
}

func (v *validator) warn(option string, value any, expected string, def any) {
	v.warnings = append(v.warnings, Warning{Option: option, Value: value, Expected: expected, Default: def})
}

func (v *validator) result(strict bool) ([]Warning, error) {
	if strict && len(v.warnings) > 0 {
		return nil, &ValidationError{Warnings: v.warnings}
	}
	return v.warnings, nil
}

// values reads the raw option map. Keys are visited in sorted order so
// warnings come out in a stable order.
func (v *validator) values(values map[string]any) Config {
	cfg := DefaultConfig()

	keys := make([]string, 0, len(values))
	for k := range values {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		raw := values[k]
		switch k {
		case OptSaveMeasure:
			cfg.SaveMeasure = v.boolOption(k, raw, DefaultSaveMeasure)
		case OptNanoseconds:
			cfg.Nanoseconds = v.boolOption(k, raw, DefaultNanoseconds)
		case OptIterations:
			cfg.Iterations = v.positiveInt(k, raw, DefaultIterations)
		case OptReturnMeasure:
			cfg.ReturnMeasure = v.boolOption(k, raw, DefaultReturnMeasure)
		case OptPrintMeasure:
			cfg.PrintMeasure = v.boolOption(k, raw, DefaultPrintMeasure)
		case OptMaxSamples:
			cfg.MaxSamples = v.nonNegativeInt(k, raw, DefaultMaxSamples)
		case OptStrict:
			cfg.Strict = v.boolOption(k, raw, false)
		default:
			v.warn(k, raw, "", nil)
		}
	}
	return cfg
}

// config checks the typed surface, where only values can be wrong.
func (v *validator) config(cfg Config) Config {
	if cfg.Iterations <= 0 {
		v.warn(OptIterations, cfg.Iterations, "a positive integer", DefaultIterations)
		cfg.Iterations = DefaultIterations
	}
	if cfg.MaxSamples < 0 {
		v.warn(OptMaxSamples, cfg.MaxSamples, "a non-negative integer", DefaultMaxSamples)
		cfg.MaxSamples = DefaultMaxSamples
	}
	return cfg
}

func (v *validator) boolOption(option string, raw any, def bool) bool {
	b, ok := raw.(bool)
	if !ok {
		v.warn(option, raw, "type bool", def)
		return def
	}
	return b
}

func (v *validator) positiveInt(option string, raw any, def int) int {
	n, ok := asInt(raw)
	if !ok || n <= 0 {
		v.warn(option, raw, "a positive integer", def)
		return def
	}
	return n
}

func (v *validator) nonNegativeInt(option string, raw any, def int) int {
	n, ok := asInt(raw)
	if !ok || n < 0 {
		v.warn(option, raw, "a non-negative integer", def)
		return def
	}
	return n
}

// asInt accepts every Go integer kind. Values that do not fit in an int are
// rejected.
func asInt(raw any) (int, bool) {
	const maxInt = int64(^uint(0) >> 1)
	switch n := raw.(type) {
	case int:
		return n, true
	case int8:
		return int(n), true
	case int16:
		return int(n), true
	case int32:
		return int(n), true
	case int64:
		if n > maxInt || n < -maxInt-1 {
			return 0, false
		}
		return int(n), true
	case uint:
		if uint64(n) > uint64(maxInt) {
			return 0, false
		}
		return int(n), true
	case uint8:
		return int(n), true
	case uint16:
		return int(n), true
	case uint32:
		if uint64(n) > uint64(maxInt) {
			return 0, false
		}
		return int(n), true
	case uint64:
		if n > uint64(maxInt) {
			return 0, false
		}
		return int(n), true
	default:
		return 0, false
	}
}
