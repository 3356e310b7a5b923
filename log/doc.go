// Package log provides a concurrency-safe simplified logging interface
// based on [log/slog].
//
// # Basic Usage
//
//	logger := log.Make(os.Stderr)
//	logger.Info("expansion complete", slog.Int("tokens", n))
//
// The zero [Logger] discards everything, so packages that accept a Logger
// through an option never need a nil check.
//
// # Configuration
//
// Configure the logger using functional options:
//
//	logger := log.Make(os.Stderr,
//		log.WithLevel(log.LevelTrace),
//		log.WithFormat(log.FormatJSON),
//		log.WithTimeLayout("kitchen"),
//		log.WithCaller(true))
//
// [Logger.Wrap] derives a new logger from an existing configuration, and
// [Config] does the same for the package-level default logger used by the
// CLI.
//
// # Levels
//
// Five levels are supported: [LevelTrace], [LevelDebug], [LevelInfo],
// [LevelWarn], and [LevelError]. Trace sits below slog's Debug and is what
// the lang and quote packages use for per-invocation diagnostics.
//
// # Output Formats
//
// [FormatText] and [FormatJSON] map onto slog's text and JSON handlers.
// With [WithPretty] enabled, either format is rendered by a colorized
// handler instead; colors are disabled automatically when the output is not
// a terminal.
package log
