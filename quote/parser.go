package quote

import (
	"github.com/ardnew/quse/lang"
	"github.com/ardnew/quse/lang/token"
)

// Parser turns an expanded token stream into a value of type T.
type Parser[T any] interface {
	Parse(stream token.Stream) (T, error)
}

// ParserFunc adapts a function to the [Parser] interface.
type ParserFunc[T any] func(stream token.Stream) (T, error)

// Parse calls f(stream).
func (f ParserFunc[T]) Parse(stream token.Stream) (T, error) { return f(stream) }

// Stock parsers.
var (
	// Tokens accepts any stream.
	Tokens Parser[token.Stream] = ParserFunc[token.Stream](
		func(s token.Stream) (token.Stream, error) { return s, nil },
	)

	// NonEmpty accepts any stream with at least one token.
	NonEmpty Parser[token.Stream] = ParserFunc[token.Stream](
		func(s token.Stream) (token.Stream, error) {
			if len(s) == 0 {
				return nil, ErrEmpty
			}

			return s, nil
		},
	)

	// PathParser accepts a single path.
	PathParser Parser[lang.Path] = ParserFunc[lang.Path](lang.ParsePath)
)
