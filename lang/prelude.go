package lang

import (
	"context"
	"embed"
	"iter"
	"log/slog"
	"strings"

	"github.com/ardnew/quse/lang/token"
)

// Sentinel names recognized in declarations. They suppress prelude bundles
// and never become bindings.
const (
	NoPrelude = "no_prelude"
	NoStd     = "no_std"
)

// Built-in bundle names.
const (
	BundleCore        = "core"
	BundleStd         = "std"
	BundleEdition2021 = "2021"
)

//go:embed prelude/*.use
var builtin embed.FS

// Bundle is a named declaration text contributing prelude bindings.
// Declarations in Source use the bare "use" introducer.
type Bundle struct {
	Name   string `json:"name"   yaml:"name"`
	Source string `json:"source" yaml:"source"`
	// Std marks a bundle suppressed by the no_std sentinel.
	Std bool `json:"std" yaml:"std"`
}

// PreludeConfig selects the bundles of a prelude [Registry].
type PreludeConfig struct {
	Core        bool     `json:"core"    yaml:"core"`
	Std         bool     `json:"std"     yaml:"std"`
	Edition2021 bool     `json:"2021"    yaml:"2021"`
	Bundles     []Bundle `json:"bundles" yaml:"bundles"`
}

// NamespaceConfig controls the namespacing pass of the rewriter.
type NamespaceConfig struct {
	Enabled bool   `json:"enabled" yaml:"enabled"`
	Seed    string `json:"seed"    yaml:"seed"`
}

// Config is the build configuration threaded into the prelude registry and
// the rewriter.
type Config struct {
	Prelude   PreludeConfig   `json:"prelude"   yaml:"prelude"`
	Namespace NamespaceConfig `json:"namespace" yaml:"namespace"`
}

// DefaultConfig enables every built-in bundle and disables namespacing.
func DefaultConfig() Config {
	return Config{
		Prelude: PreludeConfig{Core: true, Std: true, Edition2021: true},
	}
}

// Validate reports a configuration error in c.
func (c Config) Validate() error {
	return c.Prelude.Validate()
}

// Namespacer returns the namespacer selected by c, or nil if namespacing is
// disabled.
func (c Config) Namespacer() *Namespacer {
	if !c.Namespace.Enabled {
		return nil
	}

	return NewNamespacer(c.Namespace.Seed)
}

// Validate reports a configuration error in c. Std implies Core, and the
// edition bundle requires one of them.
func (c PreludeConfig) Validate() error {
	if c.Edition2021 && !c.Core && !c.Std {
		return ErrEditionWithoutBase.With(slog.String("bundle", BundleEdition2021))
	}

	for i, b := range c.Bundles {
		if strings.TrimSpace(b.Name) == "" {
			return ErrInvalidBundle.With(
				slog.Int("index", i),
				slog.String("issue", "empty name"),
			)
		}
	}

	return nil
}

// normalize applies the layering rule: the std bundle enables core.
func (c PreludeConfig) normalize() PreludeConfig {
	if c.Std {
		c.Core = true
	}

	return c
}

// Registry is an immutable, ordered set of prelude bindings grouped by
// bundle. A nil Registry is empty.
type Registry struct {
	bundles []registryBundle
}

type registryBundle struct {
	name     string
	std      bool
	bindings []Binding
}

// Prelude returns the registry for cfg. Registries are built at most once per
// configuration per process and shared thereafter.
//
// User bundles precede the built-in bundles, which follow in the order core,
// std, 2021.
func Prelude(
	ctx context.Context,
	cfg PreludeConfig,
	opts ...Option,
) (*Registry, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cachedRegistry(ctx, cfg.normalize(), makeOptions(opts...))
}

func buildRegistry(
	ctx context.Context,
	cfg PreludeConfig,
	o options,
) (*Registry, error) {
	bundles := append([]Bundle(nil), cfg.Bundles...)

	for _, sel := range []struct {
		on   bool
		name string
	}{
		{cfg.Core, BundleCore},
		{cfg.Std, BundleStd},
		{cfg.Edition2021, BundleEdition2021},
	} {
		if !sel.on {
			continue
		}

		src, err := builtin.ReadFile("prelude/" + sel.name + ".use")
		if err != nil {
			panic(ErrInternal.Wrap(err).With(slog.String("bundle", sel.name)))
		}

		bundles = append(bundles, Bundle{
			Name:   sel.name,
			Source: string(src),
			Std:    sel.name == BundleStd,
		})
	}

	reg := &Registry{bundles: make([]registryBundle, 0, len(bundles))}

	for _, b := range bundles {
		bindings, err := parseBundle(ctx, b, o)
		if err != nil {
			return nil, err
		}

		reg.bundles = append(reg.bundles, registryBundle{
			name:     b.Name,
			std:      b.Std,
			bindings: bindings,
		})
	}

	o.logger.TraceContext(ctx, "prelude built",
		slog.Int("bundles", len(reg.bundles)),
		slog.Int("bindings", reg.Len()))

	return reg, nil
}

func parseBundle(ctx context.Context, b Bundle, o options) ([]Binding, error) {
	stream, err := Lex(b.Source)
	if err != nil {
		return nil, ErrInvalidBundle.Wrap(err).With(slog.String("bundle", b.Name))
	}

	bindings, tail, err := ParseDeclarations(ctx, stream,
		WithIntroducer(IntroducerBare),
		WithLogger(o.logger),
	)
	if err != nil {
		return nil, ErrInvalidBundle.Wrap(err).With(slog.String("bundle", b.Name))
	}

	if len(tail) > 0 {
		return nil, ErrInvalidBundle.
			Wrap(ErrTrailingTokens.At(tail[0]).Expecting(Quote("use"))).
			With(slog.String("bundle", b.Name))
	}

	return bindings, nil
}

// Bindings returns the registry bindings in priority order. If skipStd is
// true, bundles marked Std are omitted.
func (r *Registry) Bindings(skipStd bool) iter.Seq[Binding] {
	return func(yield func(Binding) bool) {
		if r == nil {
			return
		}

		for _, b := range r.bundles {
			if skipStd && b.std {
				continue
			}

			for _, binding := range b.bindings {
				if !yield(binding) {
					return
				}
			}
		}
	}
}

// Bundles returns the bundle names of the registry and their bindings, in
// priority order.
func (r *Registry) Bundles() iter.Seq2[string, []Binding] {
	return func(yield func(string, []Binding) bool) {
		if r == nil {
			return
		}

		for _, b := range r.bundles {
			if !yield(b.name, b.bindings) {
				return
			}
		}
	}
}

// Len returns the total number of bindings in r.
func (r *Registry) Len() int {
	if r == nil {
		return 0
	}

	n := 0
	for _, b := range r.bundles {
		n += len(b.bindings)
	}

	return n
}

// Sentinel returns the declaration that suppresses prelude bundles by name,
// such as "# use no_prelude;", spelled with the given introducer.
func Sentinel(name string, intro Introducer) token.Stream {
	var decl token.Stream

	if intro == IntroducerPound {
		decl = append(decl, token.NewPunct('#', token.Alone, token.Pos{}))
	}

	return append(decl,
		token.NewIdent("use", token.Pos{}),
		token.NewIdent(name, token.Pos{}),
		token.NewPunct(';', token.Alone, token.Pos{}),
	)
}
