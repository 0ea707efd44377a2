// Package profile records runtime profiles of the pravda interpreter.
//
// Profiling wraps [github.com/pkg/profile] and is compiled in only with the
// pprof build tag:
//
//	go build -tags pprof -o pravda .
//
// Without the tag, [Modes] is empty and [Config.Start] returns a handle whose
// Stop does nothing.
//
// # Modes
//
//   - allocs:    memory allocations, including freed ones
//   - block:     blocking on synchronization primitives
//   - clock:     wall-clock time (fgprof), including time spent waiting
//   - cpu:       CPU time
//   - goroutine: goroutine stacks
//   - heap:      live heap allocations
//   - mem:       memory allocations, sampled
//   - mutex:     mutex contention
//   - thread:    thread creation
//   - trace:     execution trace, for go tool trace
//
// # Usage
//
//	ctrl := profile.New(
//	    profile.WithMode("cpu"),
//	    profile.WithPath("/tmp/profiles"),
//	).Start()
//	defer ctrl.Stop()
//
// The profile is written to the directory when Stop is called, named after
// the mode (cpu.pprof, mem.pprof, trace.out). From the command line:
//
//	pravda --pprof-mode cpu run fib.pvd
//	pravda --pprof-mode heap --pprof-dir ./profiles run fib.pvd
//
// The default directory is pprof below [github.com/ardnew/pravda/pkg.CacheDir].
//
// # Analysis
//
//	go tool pprof ./pravda cpu.pprof          # interactive
//	go tool pprof -http=: cpu.pprof           # web UI with flame graphs
//	go tool pprof -base=old.pprof new.pprof   # compare two runs
//	go tool trace trace.out
//
// CPU profiling costs a few percent. Block and mutex profiling can cost much
// more; see [runtime.SetBlockProfileRate] and
// [runtime.SetMutexProfileFraction].
package profile

// Tag is the build tag required to enable pprof profiling.
const Tag = `pprof`
