package quote

import (
	"maps"

	"github.com/ardnew/quse/lang"
	"github.com/ardnew/quse/lang/token"
	"github.com/ardnew/quse/log"
)

// Option configures an expansion.
type Option func(*options)

type options struct {
	logger     log.Logger
	config     lang.Config
	vars       map[string]token.Stream
	introducer lang.Introducer
	noPrelude  bool
	noCache    bool
}

func applyDefaults(o *options) {
	o.config = lang.DefaultConfig()
	o.introducer = lang.IntroducerPound
}

func applyOptions(o *options, opts ...Option) {
	for _, opt := range opts {
		if opt != nil {
			opt(o)
		}
	}
}

func makeOptions(opts ...Option) options {
	var o options

	applyDefaults(&o)
	applyOptions(&o, opts...)

	return o
}

func (o options) langOptions() []lang.Option {
	return []lang.Option{
		lang.WithLogger(o.logger),
		lang.WithIntroducer(o.introducer),
	}
}

// WithLogger sets the logger used for trace output.
func WithLogger(logger log.Logger) Option {
	return func(o *options) { o.logger = logger }
}

// WithConfig sets the prelude and namespacing configuration.
// The default is [lang.DefaultConfig].
func WithConfig(cfg lang.Config) Option {
	return func(o *options) { o.config = cfg }
}

// WithVars adds quote variables. Each #name in the expansion is replaced by
// the stream bound to name.
func WithVars(vars map[string]token.Stream) Option {
	return func(o *options) {
		if o.vars == nil {
			o.vars = make(map[string]token.Stream, len(vars))
		}

		maps.Copy(o.vars, vars)
	}
}

// WithVar adds a single quote variable.
func WithVar(name string, value token.Stream) Option {
	return WithVars(map[string]token.Stream{name: value})
}

// WithoutPrelude suppresses the whole prelude, as if the input began with a
// no_prelude declaration.
func WithoutPrelude() Option {
	return func(o *options) { o.noPrelude = true }
}

// WithIntroducer sets the declaration introducer. The default is
// [lang.IntroducerPound].
func WithIntroducer(i lang.Introducer) Option {
	return func(o *options) { o.introducer = i }
}

// WithoutCache disables the expansion cache for the call.
func WithoutCache() Option {
	return func(o *options) { o.noCache = true }
}
