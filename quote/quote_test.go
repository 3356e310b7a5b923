package quote

import (
	"context"
	"errors"
	"testing"

	"github.com/ardnew/quse/lang"
	"github.com/ardnew/quse/lang/token"
)

func mustLex(t *testing.T, src string) token.Stream {
	t.Helper()

	s, err := lang.Lex(src)
	if err != nil {
		t.Fatalf("Lex(%q): %v", src, err)
	}

	return s
}

func TestQuote(t *testing.T) {
	tests := []struct {
		name  string
		input string
		opts  []Option
		want  string
	}{
		{
			name:  "prelude",
			input: "Some(x)",
			want:  "::core::option::Option::Some(x)",
		},
		{
			name:  "declaration",
			input: "# use std::sync::Arc; Arc::new(1)",
			want:  "::std::sync::Arc::new(1)",
		},
		{
			name:  "without prelude",
			input: "Some(x)",
			opts:  []Option{WithoutPrelude()},
			want:  "Some(x)",
		},
		{
			name:  "var",
			input: "# use std::sync::Arc; Arc::new(#value)",
			opts:  []Option{WithVar("value", mustLex(t, "Vec::new()"))},
			want:  "::std::sync::Arc::new(Vec::new())",
		},
		{
			name:  "placeholder path",
			input: "# use #krate::Type; Type::default()",
			opts: []Option{
				WithoutPrelude(),
				WithVar("krate", mustLex(t, "::my_crate")),
			},
			want: "::my_crate::Type::default()",
		},
		{
			name:  "attribute pound kept",
			input: "#[derive(Clone)] struct S;",
			opts:  []Option{WithoutPrelude()},
			want:  "#[derive(Clone)] struct S;",
		},
		{
			name:  "bare introducer",
			input: "use a::b; b",
			opts:  []Option{WithIntroducer(lang.IntroducerBare), WithoutPrelude()},
			want:  "::a::b",
		},
		{
			name:  "namespacing",
			input: "let $tmp = 1;",
			opts: []Option{WithConfig(lang.Config{
				Namespace: lang.NamespaceConfig{Enabled: true, Seed: "gen"},
			})},
			want: "let __gen_tmp = 1;",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Quote(context.Background(), tt.input, tt.opts...)
			if err != nil {
				t.Fatal(err)
			}

			if want := mustLex(t, tt.want); !got.Equal(want) {
				t.Errorf("got %q, want %q", got.String(), want.String())
			}
		})
	}
}

func TestQuote_Errors(t *testing.T) {
	tests := []struct {
		name  string
		input string
		opts  []Option
		want  error
	}{
		{"syntax", "# use a::*; x", nil, lang.ErrWildcardNotSupported},
		{"unbound var", "f(#missing)", nil, ErrUnboundVar},
		{"repetition", "#(#x),*", nil, ErrRepetition},
		{"lex", "f(", nil, lang.ErrUnbalancedDelimiter},
		{
			"configuration", "x",
			[]Option{WithConfig(lang.Config{
				Prelude: lang.PreludeConfig{Edition2021: true},
			})},
			lang.ErrConfiguration,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Quote(context.Background(), tt.input, tt.opts...)
			if !errors.Is(err, tt.want) {
				t.Errorf("error = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestQuote_Canceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := Quote(ctx, "x"); !errors.Is(err, context.Canceled) {
		t.Errorf("error = %v, want context.Canceled", err)
	}
}

func TestQuoteSpanned(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  token.Pos
	}{
		{"pos", "pos(7, 3) => Vec::new()", token.Pos{Line: 7, Column: 3}},
		{"line", "line(4) => Vec::new()", token.Pos{Line: 4, Column: 1}},
		{"integer", "9 => Vec::new()", token.Pos{Line: 9, Column: 1}},
		{"call site", "  call_site => Vec::new()", token.Pos{Offset: 2, Line: 1, Column: 3}},
		{
			"arithmetic",
			"pos(call_site.Line + 1, 5) => Vec::new()",
			token.Pos{Line: 2, Column: 5},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := QuoteSpanned(context.Background(), tt.input)
			if err != nil {
				t.Fatal(err)
			}

			if want := mustLex(t, "::std::vec::Vec::new()"); !got.Equal(want) {
				t.Errorf("got %q", got.String())
			}

			for _, tok := range got {
				if tok.Pos != tt.want {
					t.Errorf("token %s at %+v, want %+v", tok, tok.Pos, tt.want)
				}
			}
		})
	}
}

func TestQuoteSpanned_VarsKeepPosition(t *testing.T) {
	value := token.Stream{token.NewIdent("v", token.Pos{Line: 40, Column: 2})}

	got, err := QuoteSpanned(context.Background(), "line(3) => f(#value)",
		WithVar("value", value), WithoutPrelude())
	if err != nil {
		t.Fatal(err)
	}

	if p := got[1].Stream[0].Pos; p.Line != 40 {
		t.Errorf("interpolated token at %v, want line 40", p)
	}

	if p := got[0].Pos; p.Line != 3 {
		t.Errorf("template token at %v, want line 3", p)
	}
}

func TestQuoteSpanned_Errors(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  error
	}{
		{"missing arrow", "Vec::new()", ErrMissingSpan},
		{"empty head", "=> x", ErrMissingSpan},
		{"empty input", "", ErrMissingSpan},
		{"compile", "1 + => x", ErrSpanExpr},
		{"wrong type", `"here" => x`, ErrSpanExpr},
		{"nonpositive line", "0 => x", ErrSpanExpr},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := QuoteSpanned(context.Background(), tt.input)
			if !errors.Is(err, tt.want) {
				t.Errorf("error = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestParse(t *testing.T) {
	path, err := Parse(context.Background(), "# use a::b::C; C", PathParser)
	if err != nil {
		t.Fatal(err)
	}

	if got := path.String(); got != "::a::b::C" {
		t.Errorf("path = %q", got)
	}

	_, err = Parse(context.Background(), "# use a::b::C; C D", PathParser)
	if !errors.Is(err, ErrParse) || !errors.Is(err, lang.ErrTrailingTokens) {
		t.Errorf("error = %v, want ErrParse wrapping ErrTrailingTokens", err)
	}

	_, err = Parse(context.Background(), "# use a;", NonEmpty)
	if !errors.Is(err, ErrEmpty) {
		t.Errorf("error = %v, want ErrEmpty", err)
	}

	stream, err := Parse(context.Background(), "", Tokens)
	if err != nil || len(stream) != 0 {
		t.Errorf("Parse(Tokens) = %v, %v", stream, err)
	}
}

func TestParseSpanned(t *testing.T) {
	path, err := ParseSpanned(context.Background(), "line(5) => Vec", PathParser)
	if err != nil {
		t.Fatal(err)
	}

	for seg := range path.Segments() {
		if seg.Name.Pos.Line != 5 {
			t.Errorf("segment %s at %v, want line 5", seg, seg.Name.Pos)
		}
	}
}
