package cmd

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"syscall"

	"github.com/alecthomas/kong"
	"github.com/klauspost/readahead"

	"github.com/ardnew/quse/lang"
)

// ContextKey is used to store a [kong.Context] value in [context.Context].
type contextKey struct{}

// WithContext returns a new context.Context containing the given kong.Context.
func WithContext(ctx context.Context, ktx *kong.Context) context.Context {
	return context.WithValue(ctx, contextKey{}, ktx)
}

func kongContextFrom(ctx context.Context) *kong.Context {
	ktx, ok := ctx.Value(contextKey{}).(*kong.Context)
	if !ok || ktx == nil {
		return nil
	}

	return ktx
}

type configKey struct{}

// WithConfig returns a new context.Context carrying the expansion
// configuration used by every command.
func WithConfig(ctx context.Context, cfg lang.Config) context.Context {
	return context.WithValue(ctx, configKey{}, cfg)
}

// configFrom returns the configuration stored by WithConfig, or
// [lang.DefaultConfig] if none was stored.
func configFrom(ctx context.Context) lang.Config {
	cfg, ok := ctx.Value(configKey{}).(lang.Config)
	if !ok {
		return lang.DefaultConfig()
	}

	return cfg
}

type (
	stdoutKey struct{}
	stderrKey struct{}
)

// WithOutput returns a new context.Context whose commands write results to
// stdout and diagnostics to stderr. Nil writers select the process streams.
func WithOutput(ctx context.Context, stdout, stderr io.Writer) context.Context {
	if stdout != nil {
		ctx = context.WithValue(ctx, stdoutKey{}, stdout)
	}

	if stderr != nil {
		ctx = context.WithValue(ctx, stderrKey{}, stderr)
	}

	return ctx
}

func stdoutFrom(ctx context.Context) io.Writer {
	if w, ok := ctx.Value(stdoutKey{}).(io.Writer); ok {
		return w
	}

	return os.Stdout
}

func stderrFrom(ctx context.Context) io.Writer {
	if w, ok := ctx.Value(stderrKey{}).(io.Writer); ok {
		return w
	}

	return os.Stderr
}

type (
	sourceFilesKey struct{}
	sourceFiles    struct {
		read     []io.Reader
		hasStdin bool
		multi    io.Reader
	}

	SourceFiles interface {
		IsZero() bool
		Stdin() io.Reader
		io.Reader
		io.WriterTo
	}
)

// IsZero reports whether there are no source files.
func (s *sourceFiles) IsZero() bool { return len(s.read) == 0 && !s.hasStdin }

// Stdin returns os.Stdin if stdin was included as a source, or nil otherwise.
func (s *sourceFiles) Stdin() io.Reader {
	if s.hasStdin {
		return os.Stdin
	}

	return nil
}

// reader returns the concatenation of all source files, with stdin last.
func (s *sourceFiles) reader() io.Reader {
	if s.multi == nil {
		readers := make([]io.Reader, 0, len(s.read)+1)
		readers = append(readers, s.read...)

		if s.hasStdin {
			readers = append(readers, os.Stdin)
		}

		s.multi = io.MultiReader(readers...)
	}

	return s.multi
}

// Read implements io.Reader by reading from all source files in order,
// including stdin if present.
func (s *sourceFiles) Read(p []byte) (n int, err error) {
	return s.reader().Read(p)
}

// WriteTo implements io.WriterTo by writing all source files to w in order,
// including stdin if present.
func (s *sourceFiles) WriteTo(w io.Writer) (n int64, err error) {
	return io.Copy(w, s.reader())
}

// fileKey uniquely identifies a file by its device and inode numbers.
// This handles deduplication across symlinks, absolute/relative paths, and
// special device files.
type fileKey struct {
	dev uint64
	ino uint64
}

// stdinSource is the special source indicator for reading from stdin.
const stdinSource = "-"

// WithSourceFiles returns a new context.Context containing an [io.Reader] that
// reads from the given source files.
//
// The function deduplicates readers by resolving symlinks and comparing device/
// inode pairs. All occurrences of "-" are replaced with a single stdin reader.
// The stdin reader is placed last so it reads after all regular files.
func WithSourceFiles(ctx context.Context, sources []string) context.Context {
	return context.WithValue(ctx, sourceFilesKey{}, buildSourceFiles(sources))
}

// buildSourceFiles constructs a SourceFiles from the given source paths.
// It deduplicates readers by resolving symlinks and comparing device/inode
// pairs. All occurrences of "-" are replaced with a single stdin reader placed
// last so it reads after all regular files.
func buildSourceFiles(sources []string) SourceFiles {
	if len(sources) == 0 {
		return nil
	}

	var srcs sourceFiles

	srcs.read = make([]io.Reader, 0, len(sources))
	seen := make(map[fileKey]struct{})

	stdinInfo, _ := os.Stdin.Stat()
	stdinKey, _ := makeFileKey(stdinInfo)

	for _, src := range sources {
		if src == stdinSource {
			seen[stdinKey] = struct{}{}

			continue
		}

		reader, ok := openUniqueFile(src, seen)
		if !ok {
			continue
		}

		srcs.read = append(srcs.read, reader)
	}

	// Stdin may have been included via "-" or as a named file.
	// Both of which will be represented by stdinKey in seen.
	_, srcs.hasStdin = seen[stdinKey]
	delete(seen, stdinKey)

	if len(srcs.read) == 0 && !srcs.hasStdin {
		return nil
	}

	return &srcs
}

// openUniqueFile opens the file at path if it hasn't been seen before.
// It resolves symlinks and uses device/inode to detect duplicates.
// Returns the opened file and true if successful, or nil and false if the file
// is a duplicate or cannot be opened.
func openUniqueFile(path string, seen map[fileKey]struct{}) (io.Reader, bool) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, false
	}

	resolved, err := filepath.EvalSymlinks(absPath)
	if err != nil {
		return nil, false
	}

	info, err := os.Stat(resolved)
	if err != nil {
		return nil, false
	}

	key, ok := makeFileKey(info)
	if !ok {
		return nil, false
	}

	if _, exists := seen[key]; exists {
		return nil, false
	}

	seen[key] = struct{}{}

	file, err := os.Open(resolved)
	if err != nil {
		return nil, false
	}

	return file, true
}

// makeFileKey creates a fileKey from os.FileInfo.
// Returns false if the underlying Sys() data is not of type *syscall.Stat_t.
func makeFileKey(info os.FileInfo) (key fileKey, ok bool) {
	if info == nil {
		return key, false
	}

	stat, ok := info.Sys().(*syscall.Stat_t)
	if !ok {
		return key, false
	}

	return fileKey{dev: uint64(stat.Dev), ino: stat.Ino}, true
}

// sourceFilesFrom retrieves the io.Reader stored in ctx by WithSourceFiles.
// Returns nil if no reader was stored.
func sourceFilesFrom(ctx context.Context) SourceFiles {
	r, _ := ctx.Value(sourceFilesKey{}).(SourceFiles)

	return r
}

// readSource returns the text of the command's sources. Positional sources
// given to the command are read after those of the global --source flag.
// With neither, stdin is read.
func readSource(ctx context.Context, args []string) (string, error) {
	var readers []io.Reader

	if global := sourceFilesFrom(ctx); global != nil && !global.IsZero() {
		readers = append(readers, global)
	}

	if local := buildSourceFiles(args); local != nil {
		readers = append(readers, local)
	}

	if len(readers) == 0 {
		readers = append(readers, os.Stdin)
	}

	ra := readahead.NewReader(io.MultiReader(readers...))
	defer ra.Close()

	buf, err := io.ReadAll(ra)
	if err != nil {
		return "", lang.ErrReadInput.Wrap(err)
	}

	return string(buf), nil
}

// readDeclarations is like readSource but returns an empty source instead of
// blocking on an interactive stdin when no source was named.
func readDeclarations(ctx context.Context, args []string) (string, error) {
	global := sourceFilesFrom(ctx)
	if len(args) == 0 && (global == nil || global.IsZero()) && stdinIsTerminal() {
		return "", nil
	}

	return readSource(ctx, args)
}

func stdinIsTerminal() bool {
	info, err := os.Stdin.Stat()

	return err == nil && info.Mode()&os.ModeCharDevice != 0
}
