package lang

import (
	"errors"
	"slices"
	"testing"

	"github.com/ardnew/quse/lang/token"
)

func TestLex_Tokens(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"empty", "", ""},
		{"comments", "a // line\n/* block /* nested */ */ b", "a b"},
		{"path", "::a::b", ":: a :: b"},
		{"call", "f(1, 2.5)", "f (1 , 2.5)"},
		{"brace", "{x}", "{ x }"},
		{"strings", `"a\"b" b'c' r#"raw "s""# br"x"`, `"a\"b" b'c' r#"raw "s""# br"x"`},
		{"char", `'a' '\n'`, `'a' '\n'`},
		{"lifetime", "&'a str", "&'a str"},
		{"raw ident", "r#type", "r#type"},
		{"range", "0..n", "0 .. n"},
		{"tuple field", "t.0", "t . 0"},
		{"exponent", "1e-5 2.0E+3", "1e-5 2.0E+3"},
		{"joint ops", "a += b => c", "a += b => c"},
		{"pound", "#x #(y)", "# x # (y)"},
		{"unicode", "über_straße", "über_straße"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Lex(tt.input)
			if err != nil {
				t.Fatalf("Lex(%q) error: %v", tt.input, err)
			}

			if s := got.String(); s != tt.want {
				t.Errorf("Lex(%q) = %q, want %q", tt.input, s, tt.want)
			}
		})
	}
}

func TestLex_Spacing(t *testing.T) {
	got, err := Lex("a::b: c")
	if err != nil {
		t.Fatal(err)
	}

	want := []struct {
		text    string
		spacing token.Spacing
	}{
		{"a", token.Alone},
		{":", token.Joint},
		{":", token.Alone},
		{"b", token.Alone},
		{":", token.Alone},
		{"c", token.Alone},
	}

	if len(got) != len(want) {
		t.Fatalf("got %d tokens, want %d", len(got), len(want))
	}

	for i, w := range want {
		if got[i].Text != w.text || got[i].Spacing != w.spacing {
			t.Errorf("token %d = %q/%v, want %q/%v",
				i, got[i].Text, got[i].Spacing, w.text, w.spacing)
		}
	}
}

func TestLex_SpacingBeforeComment(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []token.Spacing
	}{
		{"line comment", "!!// c", []token.Spacing{token.Joint, token.Alone}},
		{"block comment", ":/* c */:", []token.Spacing{token.Alone, token.Alone}},
		{"division", "a /= b", []token.Spacing{token.Joint, token.Alone}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Lex(tt.input)
			if err != nil {
				t.Fatal(err)
			}

			var spacing []token.Spacing

			for _, tok := range got {
				if tok.Kind == token.Punct {
					spacing = append(spacing, tok.Spacing)
				}
			}

			if !slices.Equal(spacing, tt.want) {
				t.Errorf("Lex(%q) punct spacing = %v, want %v", tt.input, spacing, tt.want)
			}
		})
	}
}

func TestLex_Positions(t *testing.T) {
	got, err := Lex("a\n  (b)")
	if err != nil {
		t.Fatal(err)
	}

	if p := got[0].Pos; p.Line != 1 || p.Column != 1 {
		t.Errorf("a at %v, want 1:1", p)
	}

	group := got[1]
	if p := group.Pos; p.Line != 2 || p.Column != 3 {
		t.Errorf("group at %v, want 2:3", p)
	}

	if p := group.Stream[0].Pos; p.Line != 2 || p.Column != 4 || p.Offset != 5 {
		t.Errorf("b at %+v, want 2:4 offset 5", p)
	}
}

func TestLex_Lifetime(t *testing.T) {
	got, err := Lex("'static")
	if err != nil {
		t.Fatal(err)
	}

	if len(got) != 2 {
		t.Fatalf("got %d tokens, want 2", len(got))
	}

	if !got[0].IsPunct('\'') || got[0].Spacing != token.Joint {
		t.Errorf("first token = %+v, want joint quote", got[0])
	}

	if !got[1].IsIdent("static") || got[1].Pos.Column != 2 {
		t.Errorf("second token = %+v, want ident at column 2", got[1])
	}
}

func TestLex_Errors(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  *Error
		line  int
		col   int
	}{
		{"unclosed", "a (b", ErrUnbalancedDelimiter, 1, 3},
		{"mismatched", "(b]", ErrUnbalancedDelimiter, 1, 3},
		{"stray close", "a }", ErrUnbalancedDelimiter, 1, 3},
		{"string", `x "abc`, ErrUnterminatedLiteral, 1, 3},
		{"raw string", `r##"abc"#`, ErrUnterminatedLiteral, 1, 4},
		{"block comment", "a /* b", ErrUnterminatedLiteral, 1, 3},
		{"unexpected", "a \\ b", ErrUnexpectedCharacter, 1, 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Lex(tt.input)
			if !errors.Is(err, tt.want) {
				t.Fatalf("Lex(%q) error = %v, want %v", tt.input, err, tt.want)
			}

			if !errors.Is(err, ErrSyntax) {
				t.Errorf("error %v is not a syntax error", err)
			}

			p := WrapError(err).Position()
			if p.Line != tt.line || p.Column != tt.col {
				t.Errorf("error at %v, want %d:%d", p, tt.line, tt.col)
			}
		})
	}
}

func TestIsIdentifier(t *testing.T) {
	tests := []struct {
		input string
		want  bool
	}{
		{"foo", true},
		{"_bar9", true},
		{"ß", true},
		{"", false},
		{"9a", false},
		{"a-b", false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := IsIdentifier(tt.input); got != tt.want {
				t.Errorf("IsIdentifier(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}
