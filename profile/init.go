package profile

// Config selects what a profiler records and where.
type Config struct {
	Mode  string // one of [Modes]; empty disables profiling
	Path  string // output directory; empty uses the working directory
	Quiet bool   // suppress the profiler's own log messages
}

// Option modifies a [Config].
type Option func(*Config)

// New returns a Config with opts applied.
func New(opts ...Option) Config {
	var c Config

	for _, opt := range opts {
		opt(&c)
	}

	return c
}

// Start starts profiling and returns the handle that stops it.
//
// Without the pprof build tag, an empty Mode, or a Mode not in [Modes], Start
// does nothing and returns a no-op handle. Stop is always safe to call.
func (c Config) Start() interface{ Stop() } {
	if c.Mode == "" {
		return ignore{}
	}

	return start(c)
}

// WithMode returns an option setting the profiling mode.
func WithMode(mode string) Option {
	return func(c *Config) { c.Mode = mode }
}

// WithPath returns an option setting the output directory.
func WithPath(path string) Option {
	return func(c *Config) { c.Path = path }
}

// WithQuiet returns an option setting whether the profiler logs.
func WithQuiet(quiet bool) Option {
	return func(c *Config) { c.Quiet = quiet }
}

type ignore struct{}

func (ignore) Stop() {}
