package cmd

import (
	"context"
	"io"
	"iter"
	"os"
	"path/filepath"
	"syscall"

	"github.com/alecthomas/kong"
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

// stdoutFrom returns the writer that commands print results to.
func stdoutFrom(ctx context.Context) io.Writer {
	if ktx := kongContextFrom(ctx); ktx != nil && ktx.Stdout != nil {
		return ktx.Stdout
	}

	return os.Stdout
}

// exitFrom returns the function that terminates the process.
func exitFrom(ctx context.Context) func(code int) {
	if ktx := kongContextFrom(ctx); ktx != nil && ktx.Kong != nil && ktx.Kong.Exit != nil {
		return ktx.Kong.Exit
	}

	return os.Exit
}

// varFrom returns the named kong variable, or "" when unset.
func varFrom(ctx context.Context, name string) string {
	ktx := kongContextFrom(ctx)
	if ktx == nil || ktx.Model == nil {
		return ""
	}

	return ktx.Model.Vars()[name]
}

// Output selects how results are rendered.
type Output struct {
	Format string
	Indent int
}

// Output formats.
const (
	FormatPravda = "pvd"
	FormatJSON   = "json"
	FormatYAML   = "yaml"
)

type (
	outputKey struct{}
	argvKey   struct{}
)

// WithOutput returns a new context.Context carrying the result rendering.
func WithOutput(ctx context.Context, out Output) context.Context {
	return context.WithValue(ctx, outputKey{}, out)
}

func outputFrom(ctx context.Context) Output {
	out, ok := ctx.Value(outputKey{}).(Output)
	if !ok || out.Format == "" {
		out.Format = FormatPravda
	}

	return out
}

// WithArgv returns a new context.Context carrying the full command line,
// which sessions bind to cmd-args.
func WithArgv(ctx context.Context, argv []string) context.Context {
	return context.WithValue(ctx, argvKey{}, argv)
}

func argvFrom(ctx context.Context) []string {
	argv, _ := ctx.Value(argvKey{}).([]string)

	return argv
}

type (
	sourceFilesKey struct{}
	sourceFiles    struct {
		read     []namedReader
		hasStdin bool
	}

	namedReader struct {
		name string
		io.Reader
	}

	// SourceFiles is an ordered, de-duplicated set of program files.
	SourceFiles interface {
		IsZero() bool
		Stdin() io.Reader
		All() iter.Seq2[string, io.Reader]
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

// All yields each source file by name in order, with stdin last if present.
// Every file is read separately so that a statement never spans two files.
func (s *sourceFiles) All() iter.Seq2[string, io.Reader] {
	return func(yield func(string, io.Reader) bool) {
		for _, r := range s.read {
			if !yield(r.name, r.Reader) {
				return
			}
		}

		if s.hasStdin {
			yield(stdinSource, os.Stdin)
		}
	}
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

// WithSourceFiles returns a new context.Context containing the prelude files
// run into every session before its own program.
//
// The function deduplicates readers by resolving symlinks and comparing device/
// inode pairs. All occurrences of "-" are replaced with a single stdin reader.
// The stdin reader is placed last so it reads after all regular files.
func WithSourceFiles(ctx context.Context, sources []string) context.Context {
	return context.WithValue(ctx, sourceFilesKey{}, buildSourceFiles(sources))
}

// buildSourceFiles constructs a SourceFiles from the given source paths.
func buildSourceFiles(sources []string) SourceFiles {
	if len(sources) == 0 {
		return nil
	}

	var srcs sourceFiles

	srcs.read = make([]namedReader, 0, len(sources))
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

		srcs.read = append(srcs.read, namedReader{name: src, Reader: reader})
	}

	// Stdin may have been included via "-" or as a named file.
	// Both of which will be represented by stdinKey in seen.
	_, srcs.hasStdin = seen[stdinKey]
	delete(seen, stdinKey)

	if srcs.IsZero() {
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

	return fileKey{dev: uint64(stat.Dev), ino: stat.Ino}, true //nolint:unconvert
}

// sourceFilesFrom retrieves the SourceFiles stored in ctx by WithSourceFiles.
// Returns nil if none were stored.
func sourceFilesFrom(ctx context.Context) SourceFiles {
	r, _ := ctx.Value(sourceFilesKey{}).(SourceFiles)

	return r
}
