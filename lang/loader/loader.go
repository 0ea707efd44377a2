// Package loader resolves identifiers to program files.
//
// A name is looked up as given and then relative to the user's home
// directory. A file ending in .pvd loads as a module function that runs the
// file when called; a file ending in .expr loads as a foreign function whose
// optional first line "import a, b" names the host modules it needs. Any other
// file is found but loads as null, as does a path that exists but cannot be
// read, such as a directory.
package loader

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/ardnew/pravda/lang"
	"github.com/ardnew/pravda/log"
)

// File name suffixes recognized by the loader.
const (
	ModuleExt  = ".pvd"
	ForeignExt = ".expr"
)

const importKeyword = "import "

// Loader reads named files from the filesystem.
type Loader struct {
	home   func() (string, error)
	logger log.Logger
}

// Option configures a [Loader].
type Option func(*Loader)

// WithLogger sets the structured logger for trace-level debugging.
func WithLogger(logger log.Logger) Option {
	return func(l *Loader) {
		l.logger = logger
	}
}

// WithHome sets the function that locates the fallback directory.
// The default is [os.UserHomeDir].
func WithHome(home func() (string, error)) Option {
	return func(l *Loader) {
		l.home = home
	}
}

// New returns a loader configured by opts.
func New(opts ...Option) *Loader {
	l := &Loader{home: os.UserHomeDir}
	for _, opt := range opts {
		opt(l)
	}

	return l
}

// Load implements [lang.Loader].
func (l *Loader) Load(ctx context.Context, name string) (lang.Value, bool) {
	if name == "" {
		return lang.Null(), false
	}

	found := false

	for _, path := range l.candidates(name) {
		source, exists, err := l.read(ctx, path)

		found = found || exists

		if err != nil {
			continue
		}

		l.logger.TraceContext(ctx, "load",
			slog.String("name", name),
			slog.String("path", path),
			slog.Int("bytes", len(source)),
		)

		return Value(name, source), true
	}

	return lang.Null(), found
}

// Value converts the source of the named file to the value it loads as.
func Value(name, source string) lang.Value {
	switch {
	case strings.HasSuffix(name, ModuleExt):
		return lang.Func(lang.NewModule(source))

	case strings.HasSuffix(name, ForeignExt):
		imports, body := splitImports(source)

		return lang.Func(lang.NewForeign(body, imports...))
	}

	return lang.Null()
}

func (l *Loader) candidates(name string) []string {
	paths := []string{name}

	if filepath.IsAbs(name) || l.home == nil {
		return paths
	}

	if home, err := l.home(); err == nil && home != "" {
		paths = append(paths, filepath.Join(home, name))
	}

	return paths
}

// read returns the contents of the regular file at path. It reports whether
// anything exists at path even when it cannot be read.
func (l *Loader) read(ctx context.Context, path string) (string, bool, error) {
	info, err := os.Stat(path)
	if err != nil {
		return "", false, err
	}

	if !info.Mode().IsRegular() {
		return "", true, lang.ErrLoad.With(slog.String("path", path))
	}

	f, err := os.Open(path)
	if err != nil {
		return "", true, lang.ErrLoad.Wrap(err)
	}
	defer f.Close()

	source, err := lang.ReadSource(ctx, f)
	if err != nil {
		l.logger.DebugContext(ctx, "load failed",
			slog.String("path", path),
			slog.Any("error", lang.ErrLoad.Wrap(err)),
		)

		return "", true, err
	}

	return source, true, nil
}

// splitImports removes a leading import line from source and returns the
// module names it lists.
func splitImports(source string) ([]string, string) {
	first, rest, _ := strings.Cut(source, "\n")

	decl, ok := strings.CutPrefix(strings.TrimSpace(first), importKeyword)
	if !ok {
		return nil, source
	}

	var imports []string

	for name := range strings.SplitSeq(decl, ",") {
		if name = strings.TrimSpace(name); name != "" {
			imports = append(imports, name)
		}
	}

	return imports, rest
}
