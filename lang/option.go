package lang

import "github.com/ardnew/quse/log"

// Introducer selects the tokens that begin a declaration.
type Introducer uint8

const (
	// IntroducerPound begins declarations with "# use", the form accepted
	// at the head of an expansion.
	IntroducerPound Introducer = iota
	// IntroducerBare begins declarations with "use", the form of prelude
	// bundle texts.
	IntroducerBare
)

func (i Introducer) String() string {
	if i == IntroducerBare {
		return "use"
	}

	return "# use"
}

// Option configures parsing, registry construction and rewriting.
type Option func(*options)

type options struct {
	logger     log.Logger
	introducer Introducer
	namespacer *Namespacer
}

func makeOptions(opts ...Option) options {
	var o options

	for _, opt := range opts {
		if opt != nil {
			opt(&o)
		}
	}

	return o
}

// WithLogger sets the logger used for trace output.
func WithLogger(logger log.Logger) Option {
	return func(o *options) { o.logger = logger }
}

// WithIntroducer sets the declaration introducer recognized by
// [ParseDeclarations]. The default is [IntroducerPound].
func WithIntroducer(i Introducer) Option {
	return func(o *options) { o.introducer = i }
}

// WithNamespacer enables the namespacing pass of [Rewrite].
// A nil Namespacer disables it.
func WithNamespacer(ns *Namespacer) Option {
	return func(o *options) { o.namespacer = ns }
}
