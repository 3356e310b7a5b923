package quote

import (
	"context"
	"testing"

	"github.com/ardnew/quse/lang/token"
)

func TestCache_SharedEntry(t *testing.T) {
	ClearCache()

	const src = "# use a::N; N"

	first, err := Quote(context.Background(), src)
	if err != nil {
		t.Fatal(err)
	}

	first[0].Text = "mutated"

	second, err := Quote(context.Background(), src)
	if err != nil {
		t.Fatal(err)
	}

	if second[0].Text != ":" {
		t.Errorf("cached expansion was modified through a result: %q", second.String())
	}

	count := 0

	expansions.Range(func(_, _ any) bool {
		count++

		return true
	})

	if count != 1 {
		t.Errorf("cache holds %d entries, want 1", count)
	}
}

func TestCache_OptionsInKey(t *testing.T) {
	ClearCache()

	a, err := Quote(context.Background(), "Vec")
	if err != nil {
		t.Fatal(err)
	}

	b, err := Quote(context.Background(), "Vec", WithoutPrelude())
	if err != nil {
		t.Fatal(err)
	}

	if a.Equal(b) {
		t.Errorf("options ignored by cache: %q", b.String())
	}

	if !b.Equal(token.Stream{token.NewIdent("Vec", token.Pos{})}) {
		t.Errorf("without prelude = %q", b.String())
	}
}

func TestCache_Bypass(t *testing.T) {
	ClearCache()

	if _, err := Quote(context.Background(), "x", WithoutCache()); err != nil {
		t.Fatal(err)
	}

	expansions.Range(func(k, _ any) bool {
		t.Errorf("bypassed call stored entry %v", k)

		return false
	})
}

func BenchmarkQuote(b *testing.B) {
	const src = "# use std::collections::{HashMap, HashSet}; " +
		"let m: HashMap<String, Vec<u8>> = HashMap::new(); " +
		"let s: HashSet<Option<u8>> = HashSet::new();"

	b.Run("cached", func(b *testing.B) {
		ClearCache()

		for b.Loop() {
			if _, err := Quote(context.Background(), src); err != nil {
				b.Fatal(err)
			}
		}
	})

	b.Run("uncached", func(b *testing.B) {
		for b.Loop() {
			if _, err := Quote(context.Background(), src, WithoutCache()); err != nil {
				b.Fatal(err)
			}
		}
	})
}
