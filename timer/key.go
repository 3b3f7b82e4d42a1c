package timer

import (
	"reflect"
	"regexp"
	"runtime"
	"strings"
)

// Key identifies the series a sample is recorded under. Owner is empty for
// free functions and holds the receiver type name for methods.
type Key struct {
	Owner string
	Name  string
}

// FuncKey is the key of a free function.
func FuncKey(name string) Key { return Key{Name: name} }

// MethodKey is the key of method name on type owner.
func MethodKey(owner, name string) Key { return Key{Owner: owner, Name: name} }

// MethodOf is MethodKey with the owner taken from R. Pointer types resolve
// to their element type, so MethodOf[*Cache] and MethodOf[Cache] agree.
func MethodOf[R any](name string) Key {
	t := reflect.TypeFor[R]()
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	return MethodKey(t.Name(), name)
}

func (k Key) IsMethod() bool { return k.Owner != "" }

func (k Key) IsZero() bool { return k.Owner == "" && k.Name == "" }

func (k Key) String() string {
	if k.IsMethod() {
		return k.Owner + "." + k.Name
	}
	return k.Name
}

var closureSuffix = regexp.MustCompile(`^func\d+$`)

// KeyOf derives a key from the symbol name of fn.
//
// Method values (pkg.(*T).M-fm, pkg.T.M-fm) and method expressions (pkg.T.M),
// whose first argument is the receiver, are keyed as methods of T. Anything
// else, closures included, is keyed as a free function. Closures get their
// full qualified name (for example "TestX.func1"). This is a naming
// heuristic: a function literal assigned to a package variable still reads
// as a free function. KeyOf returns the zero Key when fn is not a non-nil
// function.
func KeyOf(fn any) Key {
	v := reflect.ValueOf(fn)
	if v.Kind() != reflect.Func || v.IsNil() {
		return Key{}
	}
	f := runtime.FuncForPC(v.Pointer())
	if f == nil {
		return Key{}
	}
	return keyFromSymbol(f.Name())
}

func keyFromSymbol(symbol string) Key {
	name := symbol
	if i := strings.LastIndex(name, "/"); i >= 0 {
		name = name[i+1:]
	}
	// drop the package name
	if i := strings.Index(name, "."); i >= 0 {
		name = name[i+1:]
	}
	name = stripTypeArgs(name)
	name = strings.TrimSuffix(name, "-fm")

	parts := strings.Split(name, ".")
	if len(parts) == 2 && !closureSuffix.MatchString(parts[1]) {
		owner := strings.TrimSuffix(strings.TrimPrefix(parts[0], "(*"), ")")
		return MethodKey(owner, parts[1])
	}
	return FuncKey(name)
}

// stripTypeArgs removes instantiation brackets such as "[...]".
func stripTypeArgs(name string) string {
	var b strings.Builder
	depth := 0
	for _, r := range name {
		switch {
		case r == '[':
			depth++
		case r == ']':
			if depth > 0 {
				depth--
			}
		case depth == 0:
			b.WriteRune(r)
		}
	}
	return b.String()
}
