package lang

import (
	"context"
	"slices"
	"testing"
)

func mustTable(t *testing.T, src string, cfg PreludeConfig) *Table {
	t.Helper()

	explicit, _, err := ParseString(context.Background(), src)
	if err != nil {
		t.Fatal(err)
	}

	reg, err := Prelude(context.Background(), cfg)
	if err != nil {
		t.Fatal(err)
	}

	return NewTable(explicit, reg)
}

func TestTable_Priority(t *testing.T) {
	table := mustTable(t,
		"# use my::Option; # use other::Option; # use a::Vec;",
		PreludeConfig{Std: true})

	b, ok := table.Lookup("Option")
	if !ok || b.Path.String() != "::my::Option" {
		t.Errorf("Lookup(Option) = %v, %v; want ::my::Option", b, ok)
	}

	b, ok = table.Lookup("String")
	if !ok || b.Path.String() != "::std::string::String" {
		t.Errorf("Lookup(String) = %v, %v", b, ok)
	}

	var explicit []string
	for b, isExplicit := range table.All() {
		if isExplicit {
			explicit = append(explicit, b.Path.String())
		}
	}

	want := []string{"::my::Option", "::other::Option", "::a::Vec"}
	if !slices.Equal(explicit, want) {
		t.Errorf("explicit bindings = %v, want %v", explicit, want)
	}
}

func TestTable_Sentinels(t *testing.T) {
	tests := []struct {
		name      string
		src       string
		has       []string
		lacks     []string
		noPrelude bool
		noStd     bool
	}{
		{
			name: "none",
			src:  "",
			has:  []string{"Option", "Vec"},
		},
		{
			name:      "no prelude",
			src:       "# use no_prelude; # use a::b;",
			has:       []string{"b"},
			lacks:     []string{"Option", "Vec", NoPrelude},
			noPrelude: true,
		},
		{
			name:  "no std",
			src:   "# use no_std;",
			has:   []string{"Option"},
			lacks: []string{"Vec", "String", NoStd},
			noStd: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			table := mustTable(t, tt.src, DefaultConfig().Prelude)

			for _, n := range tt.has {
				if _, ok := table.Lookup(n); !ok {
					t.Errorf("Lookup(%q) missed", n)
				}
			}

			for _, n := range tt.lacks {
				if _, ok := table.Lookup(n); ok {
					t.Errorf("Lookup(%q) hit", n)
				}
			}

			if table.NoPrelude() != tt.noPrelude || table.NoStd() != tt.noStd {
				t.Errorf("sentinels = %v/%v, want %v/%v",
					table.NoPrelude(), table.NoStd(), tt.noPrelude, tt.noStd)
			}
		})
	}
}

func TestTable_NilRegistry(t *testing.T) {
	table := NewTable(nil, nil)

	if table.Len() != 0 {
		t.Errorf("Len() = %d, want 0", table.Len())
	}

	if names := table.Names(); len(names) != 0 {
		t.Errorf("Names() = %v", names)
	}
}

func TestTable_Names(t *testing.T) {
	table := mustTable(t, "# use a::{z, y, x}; # use b::y;", PreludeConfig{})

	if got := table.Names(); !slices.Equal(got, []string{"x", "y", "z"}) {
		t.Errorf("Names() = %v", got)
	}

	if table.Len() != 3 {
		t.Errorf("Len() = %d, want 3", table.Len())
	}
}

func TestSentinel(t *testing.T) {
	for _, intro := range []Introducer{IntroducerPound, IntroducerBare} {
		t.Run(intro.String(), func(t *testing.T) {
			stream := append(Sentinel(NoPrelude, intro), ident("Option"))

			explicit, tail, err := ParseDeclarations(context.Background(), stream,
				WithIntroducer(intro))
			if err != nil {
				t.Fatal(err)
			}

			table := NewTable(explicit, nil)
			if !table.NoPrelude() || table.Len() != 0 {
				t.Errorf("sentinel not recognized: %v", explicit)
			}

			if len(tail) != 1 || !tail[0].IsIdent("Option") {
				t.Errorf("tail = %q", tail.String())
			}
		})
	}
}
