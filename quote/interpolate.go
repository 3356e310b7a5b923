package quote

import (
	"log/slog"

	"github.com/ardnew/quse/lang/token"
)

// interpolate replaces every #name in stream with a copy of vars[name].
// A pound sign followed by anything other than an identifier or a
// parenthesized group is kept.
func interpolate(stream token.Stream, vars map[string]token.Stream) (token.Stream, error) {
	out := make(token.Stream, 0, len(stream))

	for i := 0; i < len(stream); i++ {
		tok := stream[i]

		if tok.Kind == token.Group {
			inner, err := interpolate(tok.Stream, vars)
			if err != nil {
				return nil, err
			}

			out = append(out, token.NewGroup(tok.Delim, inner, tok.Pos))

			continue
		}

		if !tok.IsPunct('#') || i+1 == len(stream) {
			out = append(out, tok)

			continue
		}

		switch next := stream[i+1]; {
		case next.IsIdent():
			value, ok := vars[next.Text]
			if !ok {
				return nil, ErrUnboundVar.At(next).
					With(slog.String("name", next.Text))
			}

			out = append(out, value.Clone()...)
			i++

		case next.IsGroup(token.Parenthesis):
			return nil, ErrRepetition.WithPosition(tok.Pos)

		default:
			out = append(out, tok)
		}
	}

	return out, nil
}
