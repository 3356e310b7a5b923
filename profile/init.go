package profile

// Config functions return all supported pprof configuration parameters.
// A nil Config describes a disabled profiler.
type Config func() (mode, path string, quiet bool)

// Option adjusts one parameter of a [Config].
type Option func(Config) Config

// Apply returns the receiver with each option applied in order.
func (c Config) Apply(opts ...Option) Config {
	for _, opt := range opts {
		c = opt(c)
	}

	return c
}

func (c Config) values() (mode, path string, quiet bool) {
	if c == nil {
		return "", "", false
	}

	return c()
}

// Start initializes the profiler and returns an interface for stopping it.
//
// If the pprof build tag is unset or the mode is empty or unknown, Start
// returns a no-op implementation. Both Start and Stop are always safe to call.
func (c Config) Start() interface{ Stop() } {
	mode, path, quiet := c.values()

	if mode == "" {
		return ignore{}
	}

	return start(mode, path, quiet)
}

// WithMode returns a functional option for setting a profiler's mode.
func WithMode(mode string) Option {
	return func(c Config) Config {
		_, path, quiet := c.values()

		return func() (string, string, bool) { return mode, path, quiet }
	}
}

// WithPath returns a functional option for setting a profiler's output path.
func WithPath(path string) Option {
	return func(c Config) Config {
		mode, _, quiet := c.values()

		return func() (string, string, bool) { return mode, path, quiet }
	}
}

// WithQuiet returns a functional option for setting a profiler's quiet flag.
func WithQuiet(quiet bool) Option {
	return func(c Config) Config {
		mode, path, _ := c.values()

		return func() (string, string, bool) { return mode, path, quiet }
	}
}

type ignore struct{}

func (ignore) Stop() {}
