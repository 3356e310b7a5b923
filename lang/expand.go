package lang

import (
	"context"
	"log/slog"

	"github.com/ardnew/quse/lang/token"
)

// Expansion is the result of [Expand].
type Expansion struct {
	Table  *Table
	Tokens token.Stream
}

// Expand parses the declarations at the head of stream, merges them with the
// prelude selected by cfg and rewrites the remaining tokens.
func Expand(
	ctx context.Context,
	stream token.Stream,
	cfg Config,
	opts ...Option,
) (Expansion, error) {
	o := makeOptions(opts...)

	reg, err := Prelude(ctx, cfg.Prelude, opts...)
	if err != nil {
		return Expansion{}, err
	}

	explicit, tail, err := ParseDeclarations(ctx, stream, opts...)
	if err != nil {
		return Expansion{}, err
	}

	table := NewTable(explicit, reg)

	if ns := cfg.Namespacer(); ns != nil && o.namespacer == nil {
		opts = append(opts, WithNamespacer(ns))
	}

	out := Rewrite(ctx, tail, table, opts...)

	o.logger.TraceContext(ctx, "expanded",
		slog.Int("explicit", len(explicit)),
		slog.Int("bound", table.Len()),
		slog.Bool("no_prelude", table.NoPrelude()),
		slog.Bool("no_std", table.NoStd()))

	return Expansion{Table: table, Tokens: out}, nil
}
