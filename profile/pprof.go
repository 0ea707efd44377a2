//go:build pprof

package profile

import (
	"maps"
	"slices"
	"sync"

	"github.com/pkg/profile"
)

// Modes returns the sorted names of the profiling modes accepted by
// [Config.Start].
var Modes = sync.OnceValue(
	func() []string { return slices.Sorted(maps.Keys(mode)) },
)

var mode = map[string]func(*profile.Profile){
	"block":     profile.BlockProfile,
	"cpu":       profile.CPUProfile,
	"clock":     profile.ClockProfile,
	"goroutine": profile.GoroutineProfile,
	"mem":       profile.MemProfile,
	"allocs":    profile.MemProfileAllocs,
	"heap":      profile.MemProfileHeap,
	"mutex":     profile.MutexProfile,
	"thread":    profile.ThreadcreationProfile,
	"trace":     profile.TraceProfile,
}

// start starts the profiler of c.Mode, or returns a no-op handle if the mode
// is unknown.
func start(c Config) interface{ Stop() } {
	fn, ok := mode[c.Mode]
	if !ok {
		return ignore{}
	}

	// The CLI stops the profiler on exit; its own SIGINT hook would call
	// os.Exit past the REPL's handling of Ctrl+C.
	opts := []func(*profile.Profile){fn, profile.NoShutdownHook}

	if c.Path != "" {
		opts = append(opts, profile.ProfilePath(c.Path))
	}

	if c.Quiet {
		opts = append(opts, profile.Quiet)
	}

	return profile.Start(opts...)
}
