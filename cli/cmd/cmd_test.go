package cmd

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"slices"
	"testing"

	"github.com/alecthomas/kong"
)

// writeFile creates a file under dir with content and returns its path.
func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()

	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}

	return path
}

// collect drains every source file into name and content slices.
func collect(t *testing.T, srcs SourceFiles) (names, contents []string) {
	t.Helper()

	for name, r := range srcs.All() {
		if name == stdinSource {
			names = append(names, name)

			continue
		}

		data, err := io.ReadAll(r)
		if err != nil {
			t.Fatalf("reading %s: %v", name, err)
		}

		if c, ok := r.(io.Closer); ok {
			_ = c.Close()
		}

		names = append(names, name)
		contents = append(contents, string(data))
	}

	return names, contents
}

// TestWithSourceFilesEmpty tests that an empty source list stores nil.
func TestWithSourceFilesEmpty(t *testing.T) {
	if srcs := sourceFilesFrom(WithSourceFiles(t.Context(), nil)); srcs != nil {
		t.Error("WithSourceFiles(nil) should store nil")
	}

	if srcs := sourceFilesFrom(WithSourceFiles(t.Context(), []string{})); srcs != nil {
		t.Error("WithSourceFiles([]) should store nil")
	}
}

// TestWithSourceFilesOrdered tests that files are yielded in order, each
// as a separate reader.
func TestWithSourceFilesOrdered(t *testing.T) {
	dir := t.TempDir()
	a := writeFile(t, dir, "a.pvd", "a = 1")
	b := writeFile(t, dir, "b.pvd", "b = 2")

	srcs := sourceFilesFrom(WithSourceFiles(t.Context(), []string{b, a}))
	if srcs == nil || srcs.IsZero() {
		t.Fatal("WithSourceFiles should store non-empty files")
	}

	names, contents := collect(t, srcs)

	if !slices.Equal(names, []string{b, a}) {
		t.Errorf("names = %v, want %v", names, []string{b, a})
	}

	if !slices.Equal(contents, []string{"b = 2", "a = 1"}) {
		t.Errorf("contents = %q", contents)
	}

	if srcs.Stdin() != nil {
		t.Error("Stdin() should be nil without '-'")
	}
}

// TestWithSourceFilesDuplicates tests that the same file reached by
// repeated, relative, or symlinked paths is yielded once.
func TestWithSourceFilesDuplicates(t *testing.T) {
	dir := t.TempDir()
	a := writeFile(t, dir, "a.pvd", "a = 1")

	link := filepath.Join(dir, "link.pvd")
	if err := os.Symlink(a, link); err != nil {
		t.Skipf("symlinks unsupported: %v", err)
	}

	t.Chdir(dir)

	srcs := sourceFilesFrom(WithSourceFiles(t.Context(), []string{a, "a.pvd", link, a}))
	if srcs == nil {
		t.Fatal("WithSourceFiles returned nil")
	}

	names, _ := collect(t, srcs)
	if !slices.Equal(names, []string{a}) {
		t.Errorf("names = %v, want [%s]", names, a)
	}
}

// TestWithSourceFilesStdinLast tests that stdin is yielded once, after
// all regular files.
func TestWithSourceFilesStdinLast(t *testing.T) {
	dir := t.TempDir()
	a := writeFile(t, dir, "a.pvd", "a = 1")

	srcs := sourceFilesFrom(WithSourceFiles(t.Context(), []string{"-", a, "-"}))
	if srcs == nil {
		t.Fatal("WithSourceFiles returned nil")
	}

	if srcs.Stdin() == nil {
		t.Error("Stdin() should be non-nil with '-'")
	}

	names, _ := collect(t, srcs)
	if !slices.Equal(names, []string{a, "-"}) {
		t.Errorf("names = %v, want [%s -]", names, a)
	}
}

// TestWithSourceFilesNonexistent tests that unreadable paths are skipped.
func TestWithSourceFilesNonexistent(t *testing.T) {
	dir := t.TempDir()
	a := writeFile(t, dir, "a.pvd", "a = 1")
	missing := filepath.Join(dir, "missing.pvd")

	srcs := sourceFilesFrom(WithSourceFiles(t.Context(), []string{missing, a}))
	if srcs == nil {
		t.Fatal("WithSourceFiles returned nil")
	}

	names, _ := collect(t, srcs)
	if !slices.Equal(names, []string{a}) {
		t.Errorf("names = %v, want [%s]", names, a)
	}

	if srcs := sourceFilesFrom(WithSourceFiles(t.Context(), []string{missing})); srcs != nil {
		t.Error("only nonexistent files should store nil")
	}
}

// TestMakeFileKeyNil tests that a nil FileInfo yields no key.
func TestMakeFileKeyNil(t *testing.T) {
	if _, ok := makeFileKey(nil); ok {
		t.Error("makeFileKey(nil) should report false")
	}
}

// TestContextDefaults tests the fallbacks used when no kong context or
// settings are stored.
func TestContextDefaults(t *testing.T) {
	ctx := t.Context()

	if got := stdoutFrom(ctx); got != os.Stdout {
		t.Errorf("stdoutFrom() = %v, want os.Stdout", got)
	}

	if got := outputFrom(ctx); got.Format != FormatPravda || got.Indent != 0 {
		t.Errorf("outputFrom() = %+v, want pvd format", got)
	}

	if got := argvFrom(ctx); got != nil {
		t.Errorf("argvFrom() = %v, want nil", got)
	}

	if got := varFrom(ctx, ConfigIdentifier); got != "" {
		t.Errorf("varFrom() = %q, want empty", got)
	}

	ctx = WithOutput(ctx, Output{Format: FormatJSON, Indent: 2})
	ctx = WithArgv(ctx, []string{"pravda", "x"})

	if got := outputFrom(ctx); got.Format != FormatJSON || got.Indent != 2 {
		t.Errorf("outputFrom() = %+v, want json indent 2", got)
	}

	if got := argvFrom(ctx); !slices.Equal(got, []string{"pravda", "x"}) {
		t.Errorf("argvFrom() = %v", got)
	}
}

// TestContextFromKong tests that stdout, exit and vars come from the
// stored kong context.
func TestContextFromKong(t *testing.T) {
	var (
		buf  bytes.Buffer
		code = -1
		cli  struct{}
	)

	parser, err := kong.New(&cli,
		kong.Writers(&buf, &buf),
		kong.Exit(func(c int) { code = c }),
		kong.Vars{CacheIdentifier: "/tmp/cache"},
	)
	if err != nil {
		t.Fatal(err)
	}

	ktx, err := parser.Parse(nil)
	if err != nil {
		t.Fatal(err)
	}

	ctx := WithContext(t.Context(), ktx)

	if got := stdoutFrom(ctx); got != &buf {
		t.Errorf("stdoutFrom() = %v, want kong stdout", got)
	}

	exitFrom(ctx)(3)

	if code != 3 {
		t.Errorf("exit code = %d, want 3", code)
	}

	if got := varFrom(ctx, CacheIdentifier); got != "/tmp/cache" {
		t.Errorf("varFrom() = %q, want /tmp/cache", got)
	}
}
