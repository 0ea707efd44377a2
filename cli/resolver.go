package cli

import (
	"context"
	"io"
	"log/slog"
	"slices"
	"strconv"
	"strings"

	"github.com/alecthomas/kong"

	"github.com/ardnew/pravda/lang"
	"github.com/ardnew/pravda/lang/builtin"
	"github.com/ardnew/pravda/log"
)

// resolve returns a [kong.ConfigurationLoader] for configuration files
// written in Pravda.
//
// It can be used with [kong.Configuration] like this:
//
//	kong.Configuration(resolve(ctx), "/path/to/config")
//
// The file is run as a program over the builtin bindings. Every top-level
// binding whose name matches a flag supplies that flag's value:
//   - Flag names with hyphens may also be written with underscores
//     (log_level for --log-level)
//   - Lists become repeated values
//   - Strings, numbers and booleans are used as written
//   - Bindings that are not flags are ignored
//
// Example config file:
//
//	log-level = "debug";
//	log-format = "text";
//	prelude = ["lib.pvd" "more.pvd"];
//	output = "json"
//
// Command-line flags override config file values.
func resolve(ctx context.Context) func(r io.Reader) (kong.Resolver, error) {
	return func(r io.Reader) (kong.Resolver, error) {
		source, err := lang.ReadSource(ctx, r)
		if err != nil {
			// Unreadable config - return empty config
			return config{}, nil //nolint:nilerr
		}

		in := lang.New(
			lang.WithLogger(log.Default()),
			lang.WithOutput(io.Discard),
			lang.WithExit(func(int) {}),
		)

		env := builtin.Env()
		in.Run(ctx, source, env)

		return newConfig(env), nil
	}
}

// config implements [kong.Resolver] for Pravda configuration programs.
type config map[string]any

// newConfig collects the bindings a configuration program made, skipping
// untouched builtins.
func newConfig(env *lang.Env) config {
	builtins := builtin.Names()
	cfg := make(config)

	for name, value := range env.All() {
		if _, isBuiltin := slices.BinarySearch(builtins, name); isBuiltin {
			continue
		}

		if native := flagValue(value); native != nil {
			cfg[name] = native
		}
	}

	log.Trace("configuration resolved", slog.Int("bindings", len(cfg)))

	return cfg
}

// Validate implements [kong.Resolver].
func (r config) Validate(*kong.Application) error {
	return nil
}

// Resolve implements [kong.Resolver].
func (r config) Resolve(
	_ *kong.Context,
	_ *kong.Path,
	flag *kong.Flag,
) (any, error) {
	if value, ok := r[flag.Name]; ok {
		return value, nil
	}

	if value, ok := r[strings.ReplaceAll(flag.Name, "-", "_")]; ok {
		return value, nil
	}

	// Not found - return nil to let Kong use defaults
	return nil, nil //nolint:nilnil
}

// flagValue converts a value to the form kong accepts for a flag, or nil
// when the value cannot configure a flag.
func flagValue(v lang.Value) any {
	switch v.Kind() {
	case lang.KindString, lang.KindSymbol:
		return v.Text()

	case lang.KindBool:
		return v.Bool()

	case lang.KindNumber:
		// Kong requires numbers as strings for parsing
		switch n := v.ToNative().(type) {
		case int64:
			return strconv.FormatInt(n, 10)
		case float64:
			return strconv.FormatFloat(n, 'f', -1, 64)
		case string:
			return n
		}

	case lang.KindList:
		items := v.Items()

		list := make([]any, 0, len(items))
		for _, item := range items {
			if native := flagValue(item); native != nil {
				list = append(list, native)
			}
		}

		return list
	}

	return nil
}
