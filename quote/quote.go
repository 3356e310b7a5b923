package quote

import (
	"context"
	"log/slog"

	"github.com/ardnew/quse/lang"
	"github.com/ardnew/quse/lang/token"
)

// expansion is the cacheable part of an expansion: the rewritten tokens and,
// for spanned calls, the evaluated span.
type expansion struct {
	tokens token.Stream
	span   token.Pos
}

// Quote expands src and interpolates quote variables.
//
//	# use std::sync::Arc;
//	Arc::new(#value)
func Quote(ctx context.Context, src string, opts ...Option) (token.Stream, error) {
	return run(ctx, src, false, opts)
}

// QuoteSpanned is like [Quote] but src begins with a span expression and
// "=>". Every token of the expansion, except those interpolated from quote
// variables, is positioned at the span.
//
//	pos(3, 1) => # use std::vec::Vec; Vec::new()
func QuoteSpanned(ctx context.Context, src string, opts ...Option) (token.Stream, error) {
	return run(ctx, src, true, opts)
}

// Parse expands src like [Quote] and parses the result with p.
func Parse[T any](
	ctx context.Context,
	src string,
	p Parser[T],
	opts ...Option,
) (T, error) {
	return parse(ctx, src, false, p, opts)
}

// ParseSpanned expands src like [QuoteSpanned] and parses the result with p.
func ParseSpanned[T any](
	ctx context.Context,
	src string,
	p Parser[T],
	opts ...Option,
) (T, error) {
	return parse(ctx, src, true, p, opts)
}

func parse[T any](
	ctx context.Context,
	src string,
	spanned bool,
	p Parser[T],
	opts []Option,
) (T, error) {
	var zero T

	stream, err := run(ctx, src, spanned, opts)
	if err != nil {
		return zero, err
	}

	v, err := p.Parse(stream)
	if err != nil {
		return zero, ErrParse.Wrap(err)
	}

	return v, nil
}

func run(
	ctx context.Context,
	src string,
	spanned bool,
	opts []Option,
) (token.Stream, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	o := makeOptions(opts...)

	var (
		exp expansion
		err error
	)

	if o.noCache {
		exp, err = expand(ctx, src, spanned, o)
	} else {
		exp, err = cachedExpand(ctx, src, spanned, o)
	}

	if err != nil {
		return nil, err
	}

	out := exp.tokens
	if spanned {
		out = out.Respan(exp.span)
	}

	out, err = interpolate(out, o.vars)
	if err != nil {
		return nil, err
	}

	o.logger.TraceContext(ctx, "quote complete",
		slog.Bool("spanned", spanned),
		slog.Int("vars", len(o.vars)),
		slog.Int("tokens", out.Count()))

	return out, nil
}

// expand lexes src, evaluates its span expression if spanned, and rewrites
// it.
func expand(
	ctx context.Context,
	src string,
	spanned bool,
	o options,
) (expansion, error) {
	stream, err := lang.Lex(src)
	if err != nil {
		return expansion{}, err
	}

	var exp expansion

	if spanned {
		head, arrow, rest, ok := splitSpan(stream)
		if !ok {
			err := ErrMissingSpan.Found("end of input")
			if len(stream) > 0 {
				err = ErrMissingSpan.At(stream[0])
			}

			return expansion{}, err
		}

		if exp.span, err = evalSpan(src, head, arrow); err != nil {
			return expansion{}, err
		}

		stream = rest
	}

	if o.noPrelude {
		stream = append(lang.Sentinel(lang.NoPrelude, o.introducer), stream...)
	}

	res, err := lang.Expand(ctx, stream, o.config, o.langOptions()...)
	if err != nil {
		return expansion{}, err
	}

	exp.tokens = res.Tokens

	return exp, nil
}
