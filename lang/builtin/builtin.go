// Package builtin provides the standard bindings of the Pravda language:
// constants, arithmetic, comparison, string and list operations, higher-order
// functions, control flow and I/O.
//
// Every operation is total. Missing or ill-typed arguments yield null rather
// than an error, and numeric arguments are coerced with [lang.Value.Number].
package builtin

import (
	"maps"
	"os"
	"slices"
	"sync"

	"github.com/ardnew/pravda/lang"
)

// Private singleton cache.
//
//nolint:gochecknoglobals
var (
	catalogOnce sync.Once
	catalog     map[string]lang.Value
)

// Catalog returns a copy of the lazily-initialized, process-scoped builtin
// bindings. The returned map can be safely mutated by the caller without
// affecting the shared cache.
func Catalog() map[string]lang.Value {
	catalogOnce.Do(func() {
		catalog = make(map[string]lang.Value)

		for _, group := range []map[string]lang.Value{
			constants(),
			arithmetic(),
			comparison(),
			text(),
			lists(),
			control(),
		} {
			maps.Copy(catalog, group)
		}
	})

	return maps.Clone(catalog)
}

// Env returns a new environment holding every builtin.
func Env() *lang.Env {
	return lang.NewEnvFrom(Catalog())
}

// Names returns the names of every builtin in lexical order.
func Names() []string {
	return slices.Sorted(maps.Keys(Catalog()))
}

// Strings returns a list holding each of ss as a string value.
func Strings(ss []string) lang.Value {
	items := make([]lang.Value, len(ss))
	for i, s := range ss {
		items[i] = lang.String(s)
	}

	return lang.List(items...)
}

func constants() map[string]lang.Value {
	return map[string]lang.Value{
		"new-line":     lang.String("\n"),
		"tab":          lang.String("\t"),
		"double-quote": lang.String(`"`),
		"cmd-args":     Strings(os.Args),
	}
}

func native(name string, fn lang.Native) lang.Value {
	return lang.Func(lang.NewNative(name, fn))
}

// register wraps each operation as a native function value.
func register(ops map[string]lang.Native) map[string]lang.Value {
	values := make(map[string]lang.Value, len(ops))
	for name, fn := range ops {
		values[name] = native(name, fn)
	}

	return values
}

func arg(args []lang.Value, i int) (lang.Value, bool) {
	if i < len(args) {
		return args[i], true
	}

	return lang.Null(), false
}

func numbers(args []lang.Value) []float64 {
	nums := make([]float64, len(args))
	for i, a := range args {
		nums[i] = a.Number()
	}

	return nums
}
