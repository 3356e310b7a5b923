package lang

import (
	"context"
	"errors"
	"testing"
	"unicode/utf8"
)

// FuzzLex checks that Lex never panics and that printing a lexed stream and
// lexing the result again is stable.
func FuzzLex(f *testing.F) {
	f.Add("a::b")
	f.Add("# use a::{b, c as d};")
	f.Add("f(1, 2.5) { x } [y]")
	f.Add(`"a\"b" b'c' r#"raw"# br"x"`)
	f.Add("&'a str")
	f.Add("a += b => c")
	f.Add("!!!!!//0")
	f.Add("x:/* c */T")
	f.Add("/* nested /* block */ */ a")
	f.Add("r#type über")

	f.Fuzz(func(t *testing.T, input string) {
		if !utf8.ValidString(input) {
			t.Skip("invalid UTF-8")
		}

		first, err := Lex(input)
		if err != nil {
			if !errors.Is(err, ErrSyntax) {
				t.Fatalf("Lex(%q) error %v is not a syntax error", input, err)
			}

			return
		}

		printed := first.String()

		second, err := Lex(printed)
		if err != nil {
			t.Fatalf("Lex(%q) of printed %q: %v", input, printed, err)
		}

		if got := second.String(); got != printed {
			t.Errorf("Lex(%q) round trip:\n  first  %q\n  second %q", input, printed, got)
		}
	})
}

// FuzzParseDeclarations checks that declaration parsing never panics and
// fails only with syntax errors.
func FuzzParseDeclarations(f *testing.F) {
	f.Add("# use a::b;")
	f.Add("# use ::a::b::{self, c as d, e::{f, #g}}; tail")
	f.Add("# use a::{};")
	f.Add("# use a::#b as c;")
	f.Add("# use ::a::#b;")
	f.Add("# use self;")
	f.Add("# use a::*;")
	f.Add("# use a::{b; c};")
	f.Add("# use no_prelude; Option")
	f.Add("# use")

	f.Fuzz(func(t *testing.T, input string) {
		if !utf8.ValidString(input) {
			t.Skip("invalid UTF-8")
		}

		bindings, _, err := ParseString(context.Background(), input)
		if err != nil {
			if !errors.Is(err, ErrSyntax) {
				t.Fatalf("ParseString(%q) error %v is not a syntax error", input, err)
			}

			return
		}

		for i, b := range bindings {
			if b.Name.Text == "" {
				t.Errorf("ParseString(%q) binding %d has no name: %v", input, i, b)
			}
		}
	})
}
