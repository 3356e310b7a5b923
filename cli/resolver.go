package cli

import (
	"io"
	"strconv"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/goccy/go-yaml"

	"github.com/ardnew/quse/lang"
)

// ErrConfigFile is returned when the configuration file cannot be decoded.
var ErrConfigFile = lang.ErrConfiguration.Class("invalid configuration file")

// resolve is a [kong.ConfigurationLoader] for YAML configuration files, as
// written by the init command:
//
//	log-level: debug
//	prelude-2021: false
//	bundle-path:
//	  - ~/src/bundles
//
// Nested mappings are flattened by joining keys with a hyphen, so the
// following is equivalent to the first line above:
//
//	log:
//	  level: debug
//
// Underscores may be used in place of hyphens. Command-line flags override
// values from the file.
func resolve(r io.Reader) (kong.Resolver, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, lang.ErrReadInput.Wrap(err)
	}

	var doc map[string]any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, ErrConfigFile.Wrap(err)
	}

	cfg := make(config, len(doc))
	cfg.flatten("", doc)

	return cfg, nil
}

// config implements [kong.Resolver] over a flattened YAML document.
type config map[string]any

func (c config) flatten(prefix string, doc map[string]any) {
	for key, val := range doc {
		name := strings.ReplaceAll(key, "_", "-")
		if prefix != "" {
			name = prefix + "-" + name
		}

		if sub, ok := val.(map[string]any); ok {
			c.flatten(name, sub)

			continue
		}

		c[name] = normalize(val)
	}
}

// normalize converts decoded YAML scalars into the forms kong's mappers
// accept. Numbers are passed as strings.
func normalize(val any) any {
	switch v := val.(type) {
	case int:
		return strconv.Itoa(v)
	case int64:
		return strconv.FormatInt(v, 10)
	case uint64:
		return strconv.FormatUint(v, 10)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case []any:
		out := make([]any, len(v))
		for i, e := range v {
			out[i] = normalize(e)
		}

		return out
	default:
		return v
	}
}

// Validate implements [kong.Resolver].
func (c config) Validate(*kong.Application) error { return nil }

// Resolve implements [kong.Resolver].
func (c config) Resolve(
	_ *kong.Context,
	_ *kong.Path,
	flag *kong.Flag,
) (any, error) {
	name := strings.ReplaceAll(flag.Name, "_", "-")

	if value, ok := c[name]; ok {
		return value, nil
	}

	return nil, nil
}
