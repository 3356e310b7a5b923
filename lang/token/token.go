// Package token defines the token trees consumed and produced by the lang
// package: identifiers, punctuation, literals, and delimited groups, each
// tagged with its source position.
package token

import (
	"strconv"
	"strings"
)

// Kind discriminates the variants of a [Token].
type Kind uint8

const (
	Ident Kind = iota
	Punct
	Literal
	Group
)

func (k Kind) String() string {
	switch k {
	case Ident:
		return "ident"
	case Punct:
		return "punct"
	case Literal:
		return "literal"
	case Group:
		return "group"
	default:
		return "Kind(" + strconv.Itoa(int(k)) + ")"
	}
}

// Spacing reports whether a punctuation character is immediately followed by
// another punctuation character, as in the first colon of "::".
type Spacing uint8

const (
	Alone Spacing = iota
	Joint
)

// Delimiter is the bracketing pair around a [Group] token.
// None is an invisible delimiter whose contents render inline.
type Delimiter uint8

const (
	None Delimiter = iota
	Parenthesis
	Brace
	Bracket
)

// Open returns the opening character of d, or "" for None.
func (d Delimiter) Open() string {
	switch d {
	case Parenthesis:
		return "("
	case Brace:
		return "{"
	case Bracket:
		return "["
	default:
		return ""
	}
}

// Close returns the closing character of d, or "" for None.
func (d Delimiter) Close() string {
	switch d {
	case Parenthesis:
		return ")"
	case Brace:
		return "}"
	case Bracket:
		return "]"
	default:
		return ""
	}
}

func (d Delimiter) String() string {
	switch d {
	case Parenthesis:
		return "parenthesis"
	case Brace:
		return "brace"
	case Bracket:
		return "bracket"
	default:
		return "none"
	}
}

// Pos is a location in source text. Line and Column are 1-based; the zero
// Pos is "unknown".
type Pos struct {
	Offset int `json:"offset" yaml:"offset"`
	Line   int `json:"line"   yaml:"line"`
	Column int `json:"column" yaml:"column"`
}

// IsValid reports whether p refers to an actual source location.
func (p Pos) IsValid() bool { return p.Line > 0 }

func (p Pos) String() string {
	if !p.IsValid() {
		return "-"
	}

	return strconv.Itoa(p.Line) + ":" + strconv.Itoa(p.Column)
}

// Token is one node of a token tree.
//
// Text holds the identifier name, the single punctuation character, or the
// literal's source spelling. Spacing is meaningful only for Punct, Delim and
// Stream only for Group.
type Token struct {
	Stream  Stream
	Text    string
	Pos     Pos
	Kind    Kind
	Spacing Spacing
	Delim   Delimiter
}

// NewIdent returns an identifier token.
func NewIdent(name string, pos Pos) Token {
	return Token{Kind: Ident, Text: name, Pos: pos}
}

// NewPunct returns a single-character punctuation token.
func NewPunct(ch rune, spacing Spacing, pos Pos) Token {
	return Token{Kind: Punct, Text: string(ch), Spacing: spacing, Pos: pos}
}

// NewLiteral returns a literal token with the given source spelling.
func NewLiteral(text string, pos Pos) Token {
	return Token{Kind: Literal, Text: text, Pos: pos}
}

// NewGroup returns a group token wrapping inner.
func NewGroup(delim Delimiter, inner Stream, pos Pos) Token {
	return Token{Kind: Group, Delim: delim, Stream: inner, Pos: pos}
}

// IsIdent reports whether t is an identifier, and if names are given,
// whether it is spelled as one of them.
func (t Token) IsIdent(names ...string) bool {
	if t.Kind != Ident {
		return false
	}

	if len(names) == 0 {
		return true
	}

	for _, n := range names {
		if t.Text == n {
			return true
		}
	}

	return false
}

// IsPunct reports whether t is the punctuation character ch.
func (t Token) IsPunct(ch rune) bool {
	return t.Kind == Punct && t.Text == string(ch)
}

// IsGroup reports whether t is a group with delimiter d.
func (t Token) IsGroup(d Delimiter) bool {
	return t.Kind == Group && t.Delim == d
}

// String renders t the same way a one-element [Stream] would.
func (t Token) String() string {
	return Stream{t}.String()
}

// Describe returns a short human-readable description of t for diagnostics,
// such as "`foo`" or "`(...)`".
func (t Token) Describe() string {
	if t.Kind != Group {
		return "`" + t.Text + "`"
	}

	if t.Delim == None {
		return "group"
	}

	return "`" + t.Delim.Open() + "..." + t.Delim.Close() + "`"
}

// Equal reports whether t and u have the same shape and spelling.
// Positions are ignored.
func (t Token) Equal(u Token) bool {
	if t.Kind != u.Kind || t.Text != u.Text {
		return false
	}

	switch t.Kind {
	case Punct:
		return t.Spacing == u.Spacing
	case Group:
		return t.Delim == u.Delim && t.Stream.Equal(u.Stream)
	default:
		return true
	}
}

// Stream is an ordered sequence of token trees.
type Stream []Token

// String renders s as source text. Tokens are separated by one space except
// after joint punctuation; brace groups pad their contents with spaces and
// none-delimited groups render only their contents.
func (s Stream) String() string {
	var sb strings.Builder

	s.write(&sb)

	return sb.String()
}

func (s Stream) write(sb *strings.Builder) {
	joint := false

	for i, t := range s {
		if i > 0 && !joint {
			sb.WriteByte(' ')
		}

		joint = false

		switch t.Kind {
		case Group:
			switch t.Delim {
			case Brace:
				sb.WriteString("{ ")
				t.Stream.write(sb)

				if len(t.Stream) > 0 {
					sb.WriteByte(' ')
				}

				sb.WriteByte('}')

			default:
				sb.WriteString(t.Delim.Open())
				t.Stream.write(sb)
				sb.WriteString(t.Delim.Close())
			}

		case Punct:
			sb.WriteString(t.Text)
			joint = t.Spacing == Joint

		default:
			sb.WriteString(t.Text)
		}
	}
}

// Equal reports whether s and o are token-for-token equal, ignoring
// positions.
func (s Stream) Equal(o Stream) bool {
	if len(s) != len(o) {
		return false
	}

	for i := range s {
		if !s[i].Equal(o[i]) {
			return false
		}
	}

	return true
}

// Clone returns a deep copy of s.
func (s Stream) Clone() Stream {
	if s == nil {
		return nil
	}

	out := make(Stream, len(s))

	for i, t := range s {
		if t.Kind == Group {
			t.Stream = t.Stream.Clone()
		}

		out[i] = t
	}

	return out
}

// Respan returns a deep copy of s with every token, at every depth,
// positioned at pos.
func (s Stream) Respan(pos Pos) Stream {
	if s == nil {
		return nil
	}

	out := make(Stream, len(s))

	for i, t := range s {
		t.Pos = pos

		if t.Kind == Group {
			t.Stream = t.Stream.Respan(pos)
		}

		out[i] = t
	}

	return out
}

// Count returns the number of tokens in s, counting group tokens and their
// contents at every depth.
func (s Stream) Count() int {
	n := len(s)

	for _, t := range s {
		if t.Kind == Group {
			n += t.Stream.Count()
		}
	}

	return n
}
