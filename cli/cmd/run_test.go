package cmd

import (
	"bytes"
	"errors"
	"path/filepath"
	"testing"
)

// TestRunOneLiner tests that a one-liner prints its result in the
// selected output format.
func TestRunOneLiner(t *testing.T) {
	tests := []struct {
		name   string
		code   string
		output Output
		want   string
	}{
		{"pvd_number", "+ 1 2", Output{}, "3\n"},
		{"pvd_string", `concat "a" "b"`, Output{Format: FormatPravda}, "\"ab\"\n"},
		{"json_list", "list 1 2", Output{Format: FormatJSON}, "[1,2]\n"},
		{"json_indent", "list 1", Output{Format: FormatJSON, Indent: 2}, "[\n  1\n]\n"},
		{"yaml_list", "list 1 2", Output{Format: FormatYAML, Indent: 2}, "- 1\n- 2\n"},
		{"null", "car []", Output{}, "null\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer

			ctx := WithOutput(kongContext(t, &buf, nil), tt.output)

			if err := (&Run{OneLiner: tt.code}).Run(ctx); err != nil {
				t.Fatalf("Run() error = %v", err)
			}

			if got := buf.String(); got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

// TestRunScript tests that a script runs without printing its result.
func TestRunScript(t *testing.T) {
	script := writeFile(t, t.TempDir(), "hello.pvd",
		"greet name = (concat \"hello \" name);\nprint (greet \"world\") new-line;\n42")

	var buf bytes.Buffer

	if err := (&Run{File: script}).Run(kongContext(t, &buf, nil)); err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	if got := buf.String(); got != "hello world\n" {
		t.Errorf("got %q, want %q", got, "hello world\n")
	}
}

// TestRunArgs tests binding of args from positional arguments, the --args
// flag, and cmd-args from the full command line.
func TestRunArgs(t *testing.T) {
	tests := []struct {
		name string
		run  Run
		argv []string
		want string
	}{
		{
			name: "positional",
			run:  Run{OneLiner: "args", Rest: []string{"x", "y"}},
			want: "[\"x\" \"y\"]\n",
		},
		{
			name: "flag_overrides_positional",
			run:  Run{OneLiner: "args", Args: []string{"a"}, Rest: []string{"x"}},
			want: "[\"a\"]\n",
		},
		{
			name: "cmd_args",
			run:  Run{OneLiner: "len cmd-args"},
			argv: []string{"pravda", "-l", "len cmd-args"},
			want: "3\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer

			ctx := kongContext(t, &buf, nil)
			if tt.argv != nil {
				ctx = WithArgv(ctx, tt.argv)
			}

			if err := tt.run.Run(ctx); err != nil {
				t.Fatalf("Run() error = %v", err)
			}

			if got := buf.String(); got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

// TestRunPrelude tests that prelude files are run, in order, before the
// program.
func TestRunPrelude(t *testing.T) {
	dir := t.TempDir()
	first := writeFile(t, dir, "first.pvd", "base = 10")
	second := writeFile(t, dir, "second.pvd", "scale x = (* x base)")

	var buf bytes.Buffer

	ctx := WithSourceFiles(kongContext(t, &buf, nil), []string{first, second})

	if err := (&Run{OneLiner: "scale 4"}).Run(ctx); err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	if got := buf.String(); got != "40\n" {
		t.Errorf("got %q, want %q", got, "40\n")
	}
}

// TestRunExit tests that the exit builtin goes through the kong exit hook.
func TestRunExit(t *testing.T) {
	var (
		buf  bytes.Buffer
		code = -1
	)

	ctx := kongContext(t, &buf, nil)
	kongContextFrom(ctx).Kong.Exit = func(c int) { code = c }

	if err := (&Run{OneLiner: "exit 4"}).Run(ctx); err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	if code != 4 {
		t.Errorf("exit code = %d, want 4", code)
	}
}

// TestRunMissingScript tests that an unreadable script is a read error.
func TestRunMissingScript(t *testing.T) {
	var buf bytes.Buffer

	err := (&Run{File: filepath.Join(t.TempDir(), "missing.pvd")}).Run(kongContext(t, &buf, nil))
	if !errors.Is(err, ErrReadScript) {
		t.Errorf("error = %v, want %v", err, ErrReadScript)
	}
}

// TestVersion tests the version output.
func TestVersion(t *testing.T) {
	var buf bytes.Buffer

	if err := (&Version{}).Run(kongContext(t, &buf, nil)); err != nil {
		t.Fatalf("Version.Run() error = %v", err)
	}

	if buf.Len() == 0 {
		t.Error("Version.Run() printed nothing")
	}
}
