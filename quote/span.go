package quote

import (
	"log/slog"
	"strings"

	"github.com/expr-lang/expr"

	"github.com/ardnew/quse/lang/token"
)

// splitSpan splits stream at the first top-level "=>". It reports false if
// there is none or nothing precedes it.
func splitSpan(stream token.Stream) (head, arrow, rest token.Stream, ok bool) {
	for i := 0; i+1 < len(stream); i++ {
		if stream[i].IsPunct('=') && stream[i].Spacing == token.Joint &&
			stream[i+1].IsPunct('>') {
			if i == 0 {
				return nil, nil, nil, false
			}

			return stream[:i], stream[i : i+2], stream[i+2:], true
		}
	}

	return nil, nil, nil, false
}

// spanEnv is the environment span expressions are evaluated in. The call
// site is the position of the first token of the input.
func spanEnv(site token.Pos) map[string]any {
	return map[string]any{
		"call_site":  site,
		"mixed_site": site,
		"pos": func(line, column int) token.Pos {
			return token.Pos{Line: line, Column: column}
		},
		"line": func(n int) token.Pos {
			return token.Pos{Line: n, Column: 1}
		},
	}
}

// evalSpan evaluates the span expression spelled in src between the first
// token of head and the arrow.
func evalSpan(src string, head, arrow token.Stream) (token.Pos, error) {
	start := head[0].Pos
	source := strings.TrimSpace(src[start.Offset:arrow[0].Pos.Offset])
	env := spanEnv(start)

	program, err := expr.Compile(source, expr.Env(env))
	if err != nil {
		return token.Pos{}, ErrSpanExpr.Wrap(err).
			WithPosition(start).
			With(slog.String("source", source))
	}

	out, err := expr.Run(program, env)
	if err != nil {
		return token.Pos{}, ErrSpanExpr.Wrap(err).
			WithPosition(start).
			With(slog.String("source", source))
	}

	switch v := out.(type) {
	case token.Pos:
		if v.IsValid() {
			return v, nil
		}

	case int:
		if v > 0 {
			return token.Pos{Line: v, Column: 1}, nil
		}
	}

	return token.Pos{}, ErrSpanExpr.
		WithPosition(start).
		Found(slog.AnyValue(out).String()).
		Expecting("position", "positive line number").
		With(slog.String("source", source))
}
