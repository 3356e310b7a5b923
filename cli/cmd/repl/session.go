package repl

import (
	"context"
	"errors"
	"log/slog"
	"slices"
	"strings"

	"github.com/ardnew/quse/lang"
	"github.com/ardnew/quse/lang/token"
	"github.com/ardnew/quse/log"
)

// session holds the declarations in effect for a REPL and the symbol table
// they form with the prelude.
type session struct {
	opts     []lang.Option
	logger   log.Logger
	registry *lang.Registry
	preamble string
	explicit []lang.Binding
	table    *lang.Table
}

func newSession(
	ctx context.Context,
	cfg lang.Config,
	preamble string,
	logger log.Logger,
	opts ...lang.Option,
) (*session, error) {
	opts = append([]lang.Option{lang.WithLogger(logger)}, opts...)

	if ns := cfg.Namespacer(); ns != nil {
		opts = append(opts, lang.WithNamespacer(ns))
	}

	reg, err := lang.Prelude(ctx, cfg.Prelude, opts...)
	if err != nil {
		return nil, err
	}

	s := &session{opts: opts, logger: logger, registry: reg}

	return s.reload(ctx, preamble)
}

// reload returns a copy of s whose declarations are those of preamble.
func (s *session) reload(ctx context.Context, preamble string) (*session, error) {
	stream, err := lang.Lex(preamble)
	if err != nil {
		return nil, err
	}

	explicit, tail, err := lang.ParseDeclarations(ctx, stream, s.opts...)
	if err != nil {
		return nil, err
	}

	if len(tail) > 0 {
		return nil, ErrPreamble.At(tail[0])
	}

	next := *s
	next.preamble = preamble
	next.explicit = explicit
	next.table = lang.NewTable(explicit, s.registry)

	s.logger.TraceContext(ctx, "repl preamble loaded",
		slog.Int("explicit", len(explicit)),
		slog.Int("bound", next.table.Len()))

	return &next, nil
}

// eval expands input against the session. Declarations at the head of input
// are kept, ahead of earlier declarations, by the returned session, which is
// s itself when input declares nothing. eval also returns the rewritten
// tokens and the number of bindings added.
func (s *session) eval(
	ctx context.Context,
	input string,
) (*session, token.Stream, int, error) {
	stream, err := lang.Lex(input)
	if err != nil {
		return s, nil, 0, err
	}

	explicit, tail, err := lang.ParseDeclarations(ctx, stream, s.opts...)
	if err != nil {
		return s, nil, 0, err
	}

	next := s

	if len(explicit) > 0 {
		decl := input
		if len(tail) > 0 {
			decl = input[:tail[0].Pos.Offset]
		}

		next = &session{
			opts:     s.opts,
			logger:   s.logger,
			registry: s.registry,
			preamble: strings.TrimSpace(decl) + "\n" + s.preamble,
			explicit: append(slices.Clone(explicit), s.explicit...),
		}
		next.table = lang.NewTable(next.explicit, next.registry)
	}

	return next, lang.Rewrite(ctx, tail, next.table, s.opts...), len(explicit), nil
}

// names returns the bound names for completion.
func (s *session) names() []string { return s.table.Names() }

// snippet renders the caret snippet of a positioned error against input, or
// "" if err has no position.
func snippet(input string, err error) string {
	for err != nil {
		var lerr *lang.Error
		if !errors.As(err, &lerr) {
			return ""
		}

		if lerr.Position().IsValid() {
			return strings.TrimSuffix(lerr.Snippet(input), "\n")
		}

		err = lerr.Unwrap()
	}

	return ""
}
