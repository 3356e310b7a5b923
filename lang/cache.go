package lang

import (
	"bytes"
	"context"
	"encoding/gob"
	"log/slog"
	"strconv"
	"sync"

	"github.com/zeebo/xxh3"
)

// registries stores one once-guarded registry per prelude configuration.
var registries sync.Map

// state tracks construction of a registry for one configuration.
type state struct {
	once     sync.Once
	registry *Registry
	err      error
}

// hashConfig encodes cfg using gob and hashes it with xxh3.
// Returns a key that uniquely identifies the prelude configuration.
func hashConfig(cfg PreludeConfig) string {
	var buf bytes.Buffer

	enc := gob.NewEncoder(&buf)

	_ = enc.Encode(cfg.Core)
	_ = enc.Encode(cfg.Std)
	_ = enc.Encode(cfg.Edition2021)
	_ = enc.Encode(len(cfg.Bundles))

	for _, b := range cfg.Bundles {
		_ = enc.Encode(b)
	}

	return strconv.FormatUint(xxh3.Hash(buf.Bytes()), 36)
}

// cachedRegistry returns the registry for cfg, building it on first use.
func cachedRegistry(
	ctx context.Context,
	cfg PreludeConfig,
	o options,
) (*Registry, error) {
	key := hashConfig(cfg)

	value, hit := registries.LoadOrStore(key, new(state))

	entry, ok := value.(*state)
	if !ok {
		panic(ErrInternal.With(slog.String("issue", "invalid registry cache entry")))
	}

	o.logger.TraceContext(ctx, "prelude lookup",
		slog.String("key", key),
		slog.Bool("cache_hit", hit))

	entry.once.Do(func() {
		entry.registry, entry.err = buildRegistry(ctx, cfg, o)
	})

	return entry.registry, entry.err
}

// ClearCache removes every memoized prelude registry.
// This is primarily useful for testing or after bundle files change.
func ClearCache() {
	registries.Clear()
}
