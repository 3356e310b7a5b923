// Package cli contains the command line interface for quse.
//
// # Usage
//
//	quse [flags] [expand] [SOURCE...]
//	quse bindings [--format=text|json|yaml] [--lookup=NAME] [SOURCE...]
//	quse prelude [--format=text|json|yaml]
//	quse init [--force]
//	quse repl [SOURCE...]
//
// Expand is the default command: bare arguments are taken as its sources.
//
// # Configuration
//
// Flag defaults are read from config.yaml in the user configuration
// directory (for example ~/.config/quse/config.yaml). The init command writes
// the current flags to that file. Keys are flag names; nested mappings are
// joined with hyphens:
//
//	log:
//	  level: debug
//	prelude-2021: false
//	bundle-path:
//	  - /opt/bundles
//
// # Prelude Bundles
//
// Every *.use file found on the bundle search path is added to the prelude
// as a bundle named after the file. The search path is formed from the
// --bundle-path flags, then the entries of $QUSE_BUNDLE_PATH, then the
// bundles directory next to config.yaml. A bundle name found earlier on the
// path hides the same name later on. Bundle declarations use the bare "use"
// introducer:
//
//	use serde::{Deserialize, Serialize};
//
// # Logging Options
//
//   - --log-level: minimum level (trace, debug, info, warn, error)
//   - --log-format: output format (text, json)
//   - --log-time-layout: timestamp format (RFC3339, Kitchen, etc.)
//   - --log-caller: include caller information
//   - --log-pretty: colorize output
//
// # Profiling Options
//
// Profiling is only available when built with the pprof build tag:
//
//	go build -tags pprof -o quse .
//
// The --pprof-mode flag selects the profile and --pprof-dir its output
// directory (default ~/.cache/quse/pprof).
package cli
