// Package cmd implements the quse subcommands: expand, bindings, prelude,
// init and repl.
//
// Commands receive their inputs through the [context.Context] prepared by
// package cli: the parsed [kong.Context], the merged source files, and the
// [lang.Config] assembled from flags, the configuration file and the bundle
// search path.
package cmd

var (
	// CacheIdentifier is the kong variable identifier containing the path to
	// the runtime cache directory.
	CacheIdentifier = "cache"

	// ConfigIdentifier is the kong variable identifier containing the path to
	// the configuration file.
	ConfigIdentifier = "config"
)
