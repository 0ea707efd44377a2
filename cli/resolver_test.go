package cli

import (
	"errors"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"

	"github.com/alecthomas/kong"

	"github.com/ardnew/pravda/lang"
	"github.com/ardnew/pravda/lang/builtin"
)

// parseWithConfig parses args into cli with the Pravda program config as the
// configuration file.
func parseWithConfig(t *testing.T, cli any, config string, args ...string) {
	t.Helper()

	path := filepath.Join(t.TempDir(), "config")
	if err := os.WriteFile(path, []byte(config), 0o600); err != nil {
		t.Fatal(err)
	}

	parser, err := kong.New(cli,
		kong.Exit(func(int) { t.Fatal("unexpected exit") }),
		kong.Configuration(resolve(t.Context()), path),
	)
	if err != nil {
		t.Fatal(err)
	}

	if _, err := parser.Parse(args); err != nil {
		t.Fatalf("Parse(%v): %v", args, err)
	}
}

func TestResolve_FlagValues(t *testing.T) {
	var cli struct {
		Level   string   `default:"info"`
		Count   int      `default:"1"`
		Ratio   float64  `default:"0"`
		Verbose bool     `default:"false"`
		Files   []string `default:""`
	}

	parseWithConfig(t, &cli, `
		level = "debug";
		count = (+ 2 3);
		ratio = 0.25;
		verbose = true;
		files = ["a.pvd" "b.pvd"]
	`)

	if cli.Level != "debug" {
		t.Errorf("Level = %q, want debug", cli.Level)
	}

	if cli.Count != 5 {
		t.Errorf("Count = %d, want 5", cli.Count)
	}

	if cli.Ratio != 0.25 {
		t.Errorf("Ratio = %v, want 0.25", cli.Ratio)
	}

	if !cli.Verbose {
		t.Error("Verbose = false, want true")
	}

	if !slices.Equal(cli.Files, []string{"a.pvd", "b.pvd"}) {
		t.Errorf("Files = %v, want [a.pvd b.pvd]", cli.Files)
	}
}

func TestResolve_UnderscoreHyphenMapping(t *testing.T) {
	var cli struct {
		LogLevel  string `default:"info"`
		LogFormat string `default:"json"`
	}

	parseWithConfig(t, &cli, `log_level = "warn"; log-format = "text"`)

	if cli.LogLevel != "warn" {
		t.Errorf("LogLevel = %q, want warn", cli.LogLevel)
	}

	if cli.LogFormat != "text" {
		t.Errorf("LogFormat = %q, want text", cli.LogFormat)
	}
}

func TestResolve_CommandLineOverrides(t *testing.T) {
	var cli struct {
		Level string `default:"info"`
	}

	parseWithConfig(t, &cli, `level = "debug"`, "--level=error")

	if cli.Level != "error" {
		t.Errorf("Level = %q, want error", cli.Level)
	}
}

func TestResolve_UnrelatedBindings(t *testing.T) {
	var cli struct {
		Level string `default:"info"`
	}

	// Helper functions and untouched builtins are not flags.
	parseWithConfig(t, &cli, `pick x = x; unused = (pick "x")`)

	if cli.Level != "info" {
		t.Errorf("Level = %q, want info", cli.Level)
	}
}

func TestNewConfig_SkipsBuiltins(t *testing.T) {
	env := builtin.Env()
	lang.New(lang.WithExit(func(int) {})).Run(t.Context(), `name = "x"; tab = "rebound"`, env)

	cfg := newConfig(env)

	if cfg["name"] != "x" {
		t.Errorf(`cfg["name"] = %v, want x`, cfg["name"])
	}

	// Builtin names are skipped even when rebound.
	for _, name := range builtin.Names() {
		if _, ok := cfg[name]; ok {
			t.Errorf("cfg holds builtin %q", name)
		}
	}
}

func TestFlagValue(t *testing.T) {
	tests := []struct {
		name  string
		value lang.Value
		want  any
	}{
		{"string", lang.String("s"), "s"},
		{"symbol", lang.Symbol("sym"), "sym"},
		{"bool", lang.Bool(true), true},
		{"integer", lang.Number(42), "42"},
		{"float", lang.Number(1.5), "1.5"},
		{"null", lang.Null(), nil},
		{"expr", lang.Expr("+ 1 2"), nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := flagValue(tt.value); got != tt.want {
				t.Errorf("flagValue(%s) = %#v, want %#v", tt.value.Canonical(), got, tt.want)
			}
		})
	}

	list, ok := flagValue(lang.List(lang.String("a"), lang.Null(), lang.Number(2))).([]any)
	if !ok || len(list) != 2 || list[0] != "a" || list[1] != "2" {
		t.Errorf("flagValue(list) = %#v, want [a 2]", list)
	}
}

func TestResolve_ReadError(t *testing.T) {
	r, err := resolve(t.Context())(errorReader{})
	if err != nil {
		t.Fatalf("resolve() error = %v, want nil", err)
	}

	if cfg, ok := r.(config); !ok || len(cfg) != 0 {
		t.Errorf("resolve() = %#v, want empty config", r)
	}
}

type errorReader struct{}

func (errorReader) Read([]byte) (int, error) {
	return 0, errors.New("simulated read error")
}

func BenchmarkResolve(b *testing.B) {
	source := strings.Repeat(`level = "debug"; count = 3; files = ["a" "b"];`, 16)

	for b.Loop() {
		if _, err := resolve(b.Context())(strings.NewReader(source)); err != nil {
			b.Fatal(err)
		}
	}
}
