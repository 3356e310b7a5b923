package lang

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/ardnew/quse/lang/token"
)

// punctChars are the characters that lex as single [token.Punct] tokens.
// A punctuation character immediately followed by another one has
// [token.Joint] spacing, unless the other one begins a comment.
const punctChars = "=<>!~+-*/%^&|@.,;:#$?'"

// Lex splits src into a tree of tokens. Delimited groups nest; comments and
// whitespace are discarded.
func Lex(src string) (token.Stream, error) {
	l := &lexer{input: []byte(src), line: 1, col: 1}

	return l.lex()
}

type lexer struct {
	input []byte
	pos   int
	line  int
	col   int
}

// open is a delimited group still being lexed.
type open struct {
	delim  token.Delimiter
	pos    token.Pos
	stream token.Stream
}

func (l *lexer) lex() (token.Stream, error) {
	stack := []*open{{delim: token.None}}

	for {
		if err := l.skipWhitespaceAndComments(); err != nil {
			return nil, err
		}

		if l.eof() {
			break
		}

		top := stack[len(stack)-1]
		pos := l.position()
		r := l.peek()

		switch {
		case r == '(' || r == '[' || r == '{':
			l.advance()

			stack = append(stack, &open{delim: openDelimiter(r), pos: pos})

		case r == ')' || r == ']' || r == '}':
			if len(stack) == 1 {
				return nil, ErrUnbalancedDelimiter.WithPosition(pos).
					Found(Quote(string(r)))
			}

			if want := top.delim.Close(); want != string(r) {
				return nil, ErrUnbalancedDelimiter.WithPosition(pos).
					Expecting(Quote(want)).
					Found(Quote(string(r)))
			}

			l.advance()

			stack = stack[:len(stack)-1]
			parent := stack[len(stack)-1]
			parent.stream = append(parent.stream,
				token.NewGroup(top.delim, top.stream, top.pos))

		default:
			tok, err := l.lexToken()
			if err != nil {
				return nil, err
			}

			top.stream = append(top.stream, tok...)
		}
	}

	if len(stack) > 1 {
		top := stack[len(stack)-1]

		return nil, ErrUnbalancedDelimiter.WithPosition(top.pos).
			Expecting(Quote(top.delim.Close())).
			Found("end of input")
	}

	return stack[0].stream, nil
}

// lexToken lexes one non-group token. Lifetimes yield two tokens.
func (l *lexer) lexToken() ([]token.Token, error) {
	pos := l.position()
	r := l.peek()

	switch {
	case r == '"':
		if err := l.lexQuoted('"'); err != nil {
			return nil, err
		}

		text := string(l.input[pos.Offset:l.pos])

		return []token.Token{token.NewLiteral(text, pos)}, nil

	case r == '\'':
		return l.lexQuote()

	case r == 'b' || r == 'r':
		if lit, ok, err := l.lexPrefixedLiteral(); ok || err != nil {
			if err != nil {
				return nil, err
			}

			return []token.Token{token.NewLiteral(lit, pos)}, nil
		}

		return []token.Token{token.NewIdent(l.lexIdentifier(), pos)}, nil

	case isIdentifierStart(r):
		return []token.Token{token.NewIdent(l.lexIdentifier(), pos)}, nil

	case r >= '0' && r <= '9':
		return []token.Token{token.NewLiteral(l.lexNumber(), pos)}, nil

	case strings.ContainsRune(punctChars, r):
		l.advance()

		spacing := token.Alone
		if l.atJointPunct() {
			spacing = token.Joint
		}

		return []token.Token{token.NewPunct(r, spacing, pos)}, nil

	default:
		return nil, ErrUnexpectedCharacter.WithPosition(pos).
			Found(Quote(string(r)))
	}
}

// lexIdentifier lexes an identifier, including the raw form r#ident.
func (l *lexer) lexIdentifier() string {
	start := l.pos

	if l.peekN(2) == "r#" {
		if r, _ := utf8.DecodeRune(l.input[l.pos+2:]); isIdentifierStart(r) {
			l.advance()
			l.advance()
		}
	}

	l.advance()

	for !l.eof() && isIdentifierContinue(l.peek()) {
		l.advance()
	}

	return string(l.input[start:l.pos])
}

// lexPrefixedLiteral lexes b'x', b"..", r"..", r#".."#, br".." and br#".."#.
// It reports false without consuming anything if the input at the cursor is
// not one of these forms.
func (l *lexer) lexPrefixedLiteral() (string, bool, error) {
	start := l.pos
	rest := l.input[l.pos:]

	var prefix, hashes int

	switch {
	case len(rest) > 1 && rest[0] == 'b' && (rest[1] == '\'' || rest[1] == '"'):
		prefix = 1
	case len(rest) > 1 && rest[0] == 'r' && (rest[1] == '"' || rest[1] == '#'):
		prefix = 1
	case len(rest) > 2 && rest[0] == 'b' && rest[1] == 'r' &&
		(rest[2] == '"' || rest[2] == '#'):
		prefix = 2
	default:
		return "", false, nil
	}

	raw := rest[prefix-1] == 'r'

	if raw {
		for prefix+hashes < len(rest) && rest[prefix+hashes] == '#' {
			hashes++
		}

		// r#ident is a raw identifier, not a raw string.
		if prefix+hashes >= len(rest) || rest[prefix+hashes] != '"' {
			return "", false, nil
		}
	}

	for range prefix + hashes {
		l.advance()
	}

	var err error

	if raw {
		err = l.lexRawString(hashes)
	} else {
		err = l.lexQuoted(l.peek())
	}

	if err != nil {
		return "", true, err
	}

	return string(l.input[start:l.pos]), true, nil
}

// lexQuoted consumes a string or character literal with backslash escapes,
// starting at the opening quote.
func (l *lexer) lexQuoted(quote rune) error {
	pos := l.position()

	l.advance() // opening quote

	for !l.eof() {
		switch l.peek() {
		case '\\':
			l.advance()

			if !l.eof() {
				l.advance()
			}

		case quote:
			l.advance()

			return nil

		default:
			l.advance()
		}
	}

	return ErrUnterminatedLiteral.WithPosition(pos).
		Expecting(Quote(string(quote))).
		Found("end of input")
}

func (l *lexer) lexRawString(hashes int) error {
	pos := l.position()
	closing := "\"" + strings.Repeat("#", hashes)

	l.advance() // opening quote

	for !l.eof() {
		if l.peekN(len(closing)) == closing {
			for range len(closing) {
				l.advance()
			}

			return nil
		}

		l.advance()
	}

	return ErrUnterminatedLiteral.WithPosition(pos).
		Expecting(Quote(closing)).
		Found("end of input")
}

// lexQuote distinguishes a lifetime ('a) from a character literal ('a').
func (l *lexer) lexQuote() ([]token.Token, error) {
	pos := l.position()

	if next, size := utf8.DecodeRune(l.input[l.pos+1:]); isIdentifierStart(next) {
		after, _ := utf8.DecodeRune(l.input[l.pos+1+size:])
		if after != '\'' {
			l.advance()

			ident := token.NewIdent(l.lexIdentifier(), l.shift(pos, 1))

			return []token.Token{token.NewPunct('\'', token.Joint, pos), ident}, nil
		}
	}

	if err := l.lexQuoted('\''); err != nil {
		return nil, err
	}

	text := string(l.input[pos.Offset:l.pos])

	return []token.Token{token.NewLiteral(text, pos)}, nil
}

// lexNumber lexes an integer or float literal with an optional suffix.
func (l *lexer) lexNumber() string {
	start := l.pos

	l.lexDigits()

	// A '.' continues the number only if followed by a digit, so that ranges
	// (0..n) and tuple fields (t.0.1) keep their punctuation.
	if l.peek() == '.' {
		if next, _ := utf8.DecodeRune(l.input[l.pos+1:]); next >= '0' && next <= '9' {
			l.advance()
			l.lexDigits()
		}
	}

	return string(l.input[start:l.pos])
}

func (l *lexer) lexDigits() {
	for !l.eof() {
		r := l.peek()

		switch {
		case r == 'e' || r == 'E':
			l.advance()

			if c := l.peek(); c == '+' || c == '-' {
				l.advance()
			}

		case r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r):
			l.advance()

		default:
			return
		}
	}
}

func (l *lexer) shift(pos token.Pos, n int) token.Pos {
	pos.Offset += n
	pos.Column += n

	return pos
}

func (l *lexer) peek() rune {
	if l.eof() {
		return 0
	}

	r, _ := utf8.DecodeRune(l.input[l.pos:])

	return r
}

// atJointPunct reports whether the next character is punctuation that does
// not begin a comment.
func (l *lexer) atJointPunct() bool {
	if l.eof() || !strings.ContainsRune(punctChars, l.peek()) {
		return false
	}

	next := l.peekN(2)

	return next != "//" && next != "/*"
}

func (l *lexer) peekN(n int) string {
	end := min(l.pos+n, len(l.input))

	return string(l.input[l.pos:end])
}

func (l *lexer) advance() {
	if l.eof() {
		return
	}

	r, size := utf8.DecodeRune(l.input[l.pos:])

	l.pos += size
	if r == '\n' {
		l.line++
		l.col = 1
	} else {
		l.col++
	}
}

func (l *lexer) eof() bool {
	return l.pos >= len(l.input)
}

func (l *lexer) position() token.Pos {
	return token.Pos{
		Offset: l.pos,
		Line:   l.line,
		Column: l.col,
	}
}

func (l *lexer) skipWhitespaceAndComments() error {
	for {
		for !l.eof() && unicode.IsSpace(l.peek()) {
			l.advance()
		}

		switch l.peekN(2) {
		case "//":
			for !l.eof() && l.peek() != '\n' {
				l.advance()
			}

		case "/*":
			if err := l.skipBlockComment(); err != nil {
				return err
			}

		default:
			return nil
		}
	}
}

// skipBlockComment skips a possibly nested /* */ comment.
func (l *lexer) skipBlockComment() error {
	pos := l.position()
	depth := 0

	for !l.eof() {
		switch l.peekN(2) {
		case "/*":
			depth++

			l.advance()
			l.advance()

		case "*/":
			depth--

			l.advance()
			l.advance()

			if depth == 0 {
				return nil
			}

		default:
			l.advance()
		}
	}

	return ErrUnterminatedLiteral.WithPosition(pos).
		Expecting(Quote("*/")).
		Found("end of input")
}

func openDelimiter(r rune) token.Delimiter {
	switch r {
	case '(':
		return token.Parenthesis
	case '[':
		return token.Bracket
	default:
		return token.Brace
	}
}

func isIdentifierStart(r rune) bool {
	return r == '_' || unicode.In(r,
		unicode.L,  // Letter
		unicode.Nl, // Letter, Number
		unicode.Other_ID_Start,
	)
}

func isIdentifierContinue(r rune) bool {
	return unicode.In(r,
		unicode.L,  // Letter
		unicode.Nl, // Letter, Number
		unicode.Other_ID_Start,
		unicode.Mn, // Mark, Nonspacing
		unicode.Mc, // Mark, Spacing Combining
		unicode.Nd, // Number, Decimal Digit
		unicode.Pc, // Punctuation, Connector
		unicode.Other_ID_Continue,
	)
}

// IsIdentifier reports whether s is a valid identifier.
func IsIdentifier(s string) bool {
	for i, r := range s {
		if i == 0 && !isIdentifierStart(r) || i > 0 && !isIdentifierContinue(r) {
			return false
		}
	}

	return s != ""
}
