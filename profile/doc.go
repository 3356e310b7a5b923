// Package profile provides optional runtime profiling for quse built on
// [github.com/pkg/profile].
//
// Profiling is compiled in only with the pprof build tag:
//
//	go build -tags pprof -o quse .
//
// Without the tag [Modes] is empty and [Config.Start] always returns a no-op
// stopper, so callers never need build constraints of their own.
//
// A profiler is described by a [Config] closure and adjusted with the
// functional options [WithMode], [WithPath], and [WithQuiet]:
//
//	cfg := profile.Config(nil).Apply(
//		profile.WithMode("cpu"),
//		profile.WithPath(dir),
//	)
//	defer cfg.Start().Stop()
//
// Profile files are written to the configured directory with names matching
// the mode (cpu.pprof, mem.pprof, and so on) and can be inspected with
// go tool pprof. Expanding a large token stream under the cpu mode is the
// usual way to find hot spots in the lexer and rewriter.
package profile

// Tag is the build tag required to enable pprof profiling.
const Tag = `pprof`
