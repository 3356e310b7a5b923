package cmd

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"maps"
	"slices"

	"github.com/ardnew/quse/lang"
	"github.com/ardnew/quse/lang/token"
	"github.com/ardnew/quse/log"
	"github.com/ardnew/quse/quote"
)

// Parsers selectable with the --parse flag of [Expand].
const (
	parseTokens   = "tokens"
	parseNonEmpty = "nonempty"
	parsePath     = "path"
)

// Expand rewrites a source against its declarations and the configured
// prelude and prints the result.
type Expand struct {
	Spanned   bool              `                        help:"Source begins with a span expression followed by '=>'."        short:"S"`
	Parse     string            `default:"tokens" enum:"tokens,nonempty,path" help:"Parser applied to the expansion."          short:"p"`
	Var       map[string]string `                        help:"Bind quote variable NAME to the tokens of VALUE."             mapsep:"none" placeholder:"NAME=TOKENS" short:"v"`
	NoPrelude bool              `                        help:"Suppress the prelude as if 'no_prelude' were declared."`
	Bare      bool              `                        help:"Declarations use the bare 'use' introducer."`
	Positions bool              `                        help:"Print each top-level token with its source position."`
	Source    []string          `arg:"" help:"Source file(s) or '-' for stdin." name:"source" optional:"" type:"existingfile"`
}

// Run executes the expand command.
func (e *Expand) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	src, err := readSource(ctx, e.Source)
	if err != nil {
		return err
	}

	opts, err := e.options(ctx)
	if err != nil {
		return err
	}

	out := stdoutFrom(ctx)

	switch e.Parse {
	case parsePath:
		path, err := expandWith(ctx, src, e.Spanned, quote.PathParser, opts)
		if err != nil {
			diagnose(stderrFrom(ctx), src, err)

			return err
		}

		_, err = fmt.Fprintln(out, path.String())

		return err

	default:
		parser := quote.Tokens
		if e.Parse == parseNonEmpty {
			parser = quote.NonEmpty
		}

		stream, err := expandWith(ctx, src, e.Spanned, parser, opts)
		if err != nil {
			diagnose(stderrFrom(ctx), src, err)

			return err
		}

		log.DebugContext(ctx, "expansion complete",
			slog.Int("tokens", stream.Count()),
			slog.Bool("spanned", e.Spanned))

		if e.Positions {
			return writePositions(out, stream)
		}

		_, err = fmt.Fprintln(out, stream.String())

		return err
	}
}

// options translates the flags of e into quote options.
func (e *Expand) options(ctx context.Context) ([]quote.Option, error) {
	opts := []quote.Option{
		quote.WithLogger(log.Default()),
		quote.WithConfig(configFrom(ctx)),
	}

	if e.NoPrelude {
		opts = append(opts, quote.WithoutPrelude())
	}

	if e.Bare {
		opts = append(opts, quote.WithIntroducer(lang.IntroducerBare))
	}

	for _, name := range slices.Sorted(maps.Keys(e.Var)) {
		if !lang.IsIdentifier(name) {
			return nil, ErrInvalidVar.With(slog.String("name", name))
		}

		stream, err := lang.Lex(e.Var[name])
		if err != nil {
			return nil, ErrInvalidVar.With(slog.String("name", name)).Wrap(err)
		}

		opts = append(opts, quote.WithVar(name, stream))
	}

	return opts, nil
}

func expandWith[T any](
	ctx context.Context,
	src string,
	spanned bool,
	p quote.Parser[T],
	opts []quote.Option,
) (T, error) {
	if spanned {
		return quote.ParseSpanned(ctx, src, p, opts...)
	}

	return quote.Parse(ctx, src, p, opts...)
}

// writePositions writes one "line:column<TAB>token" line per top-level token.
func writePositions(w io.Writer, stream token.Stream) error {
	for _, tok := range stream {
		if _, err := fmt.Fprintf(w, "%s\t%s\n", tok.Pos, tok); err != nil {
			return err
		}
	}

	return nil
}
