package lang

import (
	"context"
	"testing"
)

const benchSource = `# use std::collections::{HashMap, HashSet as Set};
# use crate::model::{self, Entry, Id as Key};
fn index(entries: Vec<Entry>) -> HashMap<Key, Option<Entry>> {
	let mut seen = Set::new();
	entries.into_iter().filter(|e| seen.insert(e.id)).map(|e| (e.id, Some(e))).collect()
}`

// BenchmarkPrelude_Cached measures registry retrieval for a configuration
// that was already built.
func BenchmarkPrelude_Cached(b *testing.B) {
	ctx := context.Background()
	cfg := DefaultConfig().Prelude

	if _, err := Prelude(ctx, cfg); err != nil {
		b.Fatal(err)
	}

	for b.Loop() {
		if _, err := Prelude(ctx, cfg); err != nil {
			b.Fatal(err)
		}
	}
}

// BenchmarkPrelude_Build measures registry construction with the cache
// cleared before every retrieval.
func BenchmarkPrelude_Build(b *testing.B) {
	ctx := context.Background()
	cfg := PreludeConfig{Std: true, Edition2021: true}

	b.Cleanup(ClearCache)

	for b.Loop() {
		ClearCache()

		if _, err := Prelude(ctx, cfg); err != nil {
			b.Fatal(err)
		}
	}
}

// BenchmarkLex measures lexing of a small declaration block and body.
func BenchmarkLex(b *testing.B) {
	b.SetBytes(int64(len(benchSource)))

	for b.Loop() {
		if _, err := Lex(benchSource); err != nil {
			b.Fatal(err)
		}
	}
}

// BenchmarkExpand measures declaration parsing and rewriting of a lexed
// stream against the default prelude.
func BenchmarkExpand(b *testing.B) {
	ctx := context.Background()
	cfg := DefaultConfig()

	stream, err := Lex(benchSource)
	if err != nil {
		b.Fatal(err)
	}

	for b.Loop() {
		if _, err := Expand(ctx, stream, cfg); err != nil {
			b.Fatal(err)
		}
	}
}
