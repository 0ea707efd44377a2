package cmd

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/alecthomas/kong"

	"github.com/ardnew/pravda/lang"
	"github.com/ardnew/pravda/lang/builtin"
)

// TestInitRun tests the Init.Run command.
func TestInitRun(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		force   bool
		setup   func(t *testing.T, path string) // setup function to prepare test
		wantErr bool
	}{
		{
			name:    "create_new_config",
			force:   false,
			setup:   nil, // no pre-existing file
			wantErr: false,
		},
		{
			name:  "overwrite_existing_with_force",
			force: true,
			setup: func(t *testing.T, path string) {
				if err := os.WriteFile(path, []byte("existing content"), 0o644); err != nil {
					t.Fatal(err)
				}
			},
			wantErr: false,
		},
		{
			name:  "fail_without_force",
			force: false,
			setup: func(t *testing.T, path string) {
				if err := os.WriteFile(path, []byte("existing content"), 0o644); err != nil {
					t.Fatal(err)
				}
			},
			wantErr: true, // should fail because file exists
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			confPath := filepath.Join(t.TempDir(), "config")

			if tt.setup != nil {
				tt.setup(t, confPath)
			}

			var cli struct {
				Level string   `default:"info"`
				Count int      `default:"3"`
				Files []string `default:"a.pvd,b.pvd"`
			}

			parser, err := kong.New(&cli, kong.Vars{
				ConfigIdentifier: confPath,
			})
			if err != nil {
				t.Fatal(err)
			}

			kctx, err := parser.Parse(nil)
			if err != nil {
				t.Fatal(err)
			}

			ctx := WithContext(t.Context(), kctx)

			err = (&Init{Force: tt.force}).Run(ctx)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Init.Run() error = %v, wantErr %v", err, tt.wantErr)
			}

			if tt.wantErr {
				return
			}

			content, err := os.ReadFile(confPath)
			if err != nil {
				t.Fatal(err)
			}

			// The generated file must run as a program and define each flag.
			env := builtin.Env()
			lang.New(lang.WithExit(func(int) {})).Run(ctx, string(content), env)

			if v, ok := env.Get("level"); !ok || v.Text() != "info" {
				t.Errorf("level = %v (defined %v), want info", v, ok)
			}

			if v, ok := env.Get("count"); !ok || v.Number() != 3 {
				t.Errorf("count = %v (defined %v), want 3", v, ok)
			}

			if v, ok := env.Get("files"); !ok || v.Canonical() != `["a.pvd" "b.pvd"]` {
				t.Errorf("files = %v (defined %v), want [\"a.pvd\" \"b.pvd\"]", v.Canonical(), ok)
			}
		})
	}
}

// TestInitBuildProgram tests that buildProgram emits one definition per
// flag and skips help.
func TestInitBuildProgram(t *testing.T) {
	t.Parallel()

	var cli struct {
		Verbose bool   `help:"Enable verbose output" name:"verbose"`
		Output  string `help:"Output file"           name:"output"`
		Count   int    `help:"Number of items"       name:"count"`
	}

	parser, err := kong.New(&cli)
	if err != nil {
		t.Fatal(err)
	}

	kctx, err := parser.Parse([]string{"--verbose", "--output=test.txt", "--count=5"})
	if err != nil {
		t.Fatal(err)
	}

	prog := (&Init{}).buildProgram(WithContext(t.Context(), kctx))

	want := map[string]string{
		"verbose": "true",
		"output":  `"test.txt"`,
		"count":   "5",
	}

	if len(prog.Statements) != len(want) {
		t.Fatalf("got %d statements, want %d", len(prog.Statements), len(want))
	}

	for _, stmt := range prog.Statements {
		if !stmt.Define {
			t.Errorf("statement %q is not a definition", stmt.Source)

			continue
		}

		target := strings.TrimSpace(stmt.Target)
		if got := strings.TrimSpace(stmt.Source); got != want[target] {
			t.Errorf("%s = %q, want %q", target, got, want[target])
		}
	}
}

// TestInitFlagValue tests flagValue with different flag types.
func TestInitFlagValue(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		value  any
		wantOK bool
		want   string
	}{
		{"nil", nil, false, ""},
		{"bool_true", true, true, "true"},
		{"bool_false", false, true, "false"},
		{"string_value", "test", true, `"test"`},
		{"empty_string", "", false, ""},
		{"int_value", 42, true, "42"},
		{"int64_value", int64(-7), true, "-7"},
		{"float_value", 1.5, true, "1.5"},
		{"string_slice", []string{"a", "b"}, true, `["a" "b"]`},
		{"int_slice", []int{1, 2, 3}, true, "[1 2 3]"},
		{"bool_slice", []bool{true}, true, "[true]"},
		{"empty_slice", []string{}, false, ""},
		{"other", struct{ A int }{1}, true, `"{1}"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, ok := flagValue(tt.value)
			if ok != tt.wantOK {
				t.Fatalf("flagValue(%v) ok = %v, want %v", tt.value, ok, tt.wantOK)
			}

			if ok && got.Canonical() != tt.want {
				t.Errorf("flagValue(%v) = %s, want %s", tt.value, got.Canonical(), tt.want)
			}
		})
	}
}

// TestInitMissingConfigVar tests that Init panics without a config path.
func TestInitMissingConfigVar(t *testing.T) {
	t.Parallel()

	defer func() {
		if recover() == nil {
			t.Error("Init.Run() without config path did not panic")
		}
	}()

	_ = (&Init{}).Run(context.Background())
}
