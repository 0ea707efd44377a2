// Package cli contains the command line interface for pravda.
//
// # Usage
//
//	pravda [flags] [FILE] [ARGS...]
//
// With FILE the script is run and ARGS are bound to args. With
// --one-liner CODE the code is run and its result printed in the --output
// format. With neither an interactive REPL starts.
//
// Files named by --prelude are run into the session environment first, in
// order, each file at most once.
//
// # Configuration
//
// The configuration file in the user config directory is itself a Pravda
// program (see [resolve]). Each top-level binding named like a flag supplies
// that flag's default:
//
//	log-level = "debug";
//	output = "json";
//	prelude = ["~/lib/math.pvd"]
//
// The init command writes the current flag values in this form.
//
// # Logging Options
//
//   - --log-level: Set minimum log level (trace, debug, info, warn, error)
//   - --log-format: Set log output format (json, text)
//   - --log-time-layout: Set timestamp format (RFC3339, RFC3339Nano, etc.)
//   - --log-caller: Include caller information in log output
//   - --log-pretty: Colorize log output written to a terminal
//
// # Profiling Options
//
// Profiling is only available when built with the pprof build tag:
//
//	go build -tags pprof -o pravda .
//
//   - --pprof-mode: Enable profiling (allocs, block, clock, cpu, goroutine,
//     heap, mem, mutex, thread, trace)
//   - --pprof-dir: Set profile output directory (default:
//     ~/.cache/pravda/pprof)
//
// # Examples
//
//	# Run a script with arguments
//	pravda fib.pvd 20
//
//	# Print a result as JSON
//	pravda -o json -l 'map (+ 1) [1 2 3]'
//
//	# Debug logging with CPU profiling
//	pravda --log-level=debug --pprof-mode=cpu repl
package cli
