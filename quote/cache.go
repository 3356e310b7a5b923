package quote

import (
	"bytes"
	"context"
	"encoding/gob"
	"log/slog"
	"strconv"
	"sync"

	"github.com/zeebo/xxh3"

	"github.com/ardnew/quse/lang"
)

// expansions stores one once-guarded expansion per source and options.
var expansions sync.Map

// state tracks the expansion of one source under one set of options.
// The stored expansion is shared and never modified.
type state struct {
	once sync.Once
	exp  expansion
	err  error
}

// hashOptions encodes the options that affect an expansion using gob and
// hashes them with xxh3.
func hashOptions(o options, spanned bool) uint64 {
	var buf bytes.Buffer

	enc := gob.NewEncoder(&buf)

	_ = enc.Encode(o.config)
	_ = enc.Encode(o.introducer)
	_ = enc.Encode(o.noPrelude)
	_ = enc.Encode(spanned)

	return xxh3.Hash(buf.Bytes())
}

func cachedExpand(
	ctx context.Context,
	src string,
	spanned bool,
	o options,
) (expansion, error) {
	sourceHash := xxh3.HashString(src)
	optsHash := hashOptions(o, spanned)
	key := strconv.FormatUint(sourceHash^optsHash, 36)

	value, hit := expansions.LoadOrStore(key, new(state))

	entry, ok := value.(*state)
	if !ok {
		panic(lang.ErrInternal.With(slog.String("issue", "invalid expansion cache entry")))
	}

	o.logger.TraceContext(ctx, "cache lookup",
		slog.String("source_hash", strconv.FormatUint(sourceHash, 16)),
		slog.String("opts_hash", strconv.FormatUint(optsHash, 16)),
		slog.Bool("cache_hit", hit))

	entry.once.Do(func() {
		entry.exp, entry.err = expand(ctx, src, spanned, o)
	})

	return entry.exp, entry.err
}

// ClearCache removes every cached expansion.
// This is primarily useful for testing or when memory needs to be reclaimed.
func ClearCache() {
	expansions.Clear()
}
