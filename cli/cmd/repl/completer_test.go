package repl

import (
	"slices"
	"strings"
	"testing"
)

func TestWordBounds(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		cursor    int
		wantWord  string
		wantStart int
		wantEnd   int
	}{
		{"simple", "Vec", 3, "Vec", 0, 3},
		{"path_segment", "Vec::new", 8, "new", 5, 8},
		{"after_angle", "Option<Ve", 9, "Ve", 7, 9},
		{"after_paren", "Some(fo", 7, "fo", 5, 7},
		{"after_comma", "f(a, Bo", 7, "Bo", 5, 7},
		{"empty_at_boundary", "a + ", 4, "", 4, 4},
		{"mid_word", "String", 3, "String", 0, 6},
		{"at_start", "Box", 0, "Box", 0, 3},
		{"underscore", "to_owned", 8, "to_owned", 0, 8},
		{"digits", "u8x2", 4, "u8x2", 0, 4},
		{"after_dollar", "$tmp", 4, "tmp", 1, 4},
		{"empty_after_path_sep", "std::", 5, "", 5, 5},
		{"cursor_past_end", "Box", 10, "Box", 0, 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			word, start, end := wordBounds(tt.input, tt.cursor)
			if word != tt.wantWord || start != tt.wantStart || end != tt.wantEnd {
				t.Errorf("wordBounds(%q, %d) = (%q, %d, %d), want (%q, %d, %d)",
					tt.input, tt.cursor, word, start, end,
					tt.wantWord, tt.wantStart, tt.wantEnd)
			}
		})
	}
}

func TestQualified(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		wordStart int
		want      bool
	}{
		{"top_level", "Vec", 0, false},
		{"after_path_sep", "Vec::new", 5, true},
		{"after_spaced_path_sep", "Vec :: new", 7, true},
		{"after_spaced_dot", "x . len", 4, true},
		{"after_dot", "x.len", 2, true},
		{"after_operator", "a + Vec", 4, false},
		{"after_single_colon", "x: Vec", 3, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := qualified(tt.input, tt.wordStart); got != tt.want {
				t.Errorf("qualified(%q, %d) = %v, want %v",
					tt.input, tt.wordStart, got, tt.want)
			}
		})
	}
}

func TestComplete(t *testing.T) {
	s := testSession(t, "# use foo::Frobnicator;")

	tests := []struct {
		name  string
		mode  inputMode
		input string
		want  string // expected first match, "" for none
	}{
		{"bound_prefix", modeEval, "Frob", "Frobnicator"},
		{"prelude_name", modeEval, "Opti", "Option"},
		{"qualified_segment", modeEval, "std::Vec", ""},
		{"empty_word", modeEval, "x + ", ""},
		{"ctrl_command", modeCtrl, "bind", "bindings"},
		{"ctrl_empty", modeCtrl, "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			matches := complete(tt.input, len(tt.input), tt.mode, s).matches

			if tt.want == "" {
				if len(matches) != 0 {
					t.Errorf("complete(%q) = %d matches, want none", tt.input, len(matches))
				}

				return
			}

			if len(matches) == 0 || matches[0].Str != tt.want {
				var got []string
				for _, match := range matches {
					got = append(got, match.Str)
				}

				t.Errorf("complete(%q) = %v, want first %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestCandidateBar(t *testing.T) {
	c := complete("o", 1, modeEval, testSession(t, ""))
	if len(c.matches) < 2 {
		t.Fatalf("want several matches for %q, got %d", "o", len(c.matches))
	}

	if bar := c.candidateBar(0); bar != "" {
		t.Errorf("zero width bar = %q, want empty", bar)
	}

	narrow := c.candidateBar(12)
	if !strings.Contains(narrow, "...") {
		t.Errorf("narrow bar = %q, want trailing ellipsis", narrow)
	}

	if wide := c.candidateBar(1 << 20); strings.Contains(wide, "...") {
		t.Errorf("wide bar is ellipsized: %q", wide)
	}
}

func TestComplete_Bounds(t *testing.T) {
	c := complete("x + Opt", 5, modeEval, testSession(t, ""))

	if c.start != 4 || c.end != 7 {
		t.Errorf("bounds = [%d, %d), want [4, 7)", c.start, c.end)
	}

	if c.cycling() {
		t.Error("fresh completion is cycling")
	}
}

func TestCtrlCommands_Unique(t *testing.T) {
	sorted := slices.Clone(ctrlCommands)
	slices.Sort(sorted)

	if len(slices.Compact(sorted)) != len(ctrlCommands) {
		t.Errorf("duplicate control commands in %v", ctrlCommands)
	}
}
