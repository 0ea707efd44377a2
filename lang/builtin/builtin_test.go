package builtin

import (
	"bytes"
	"context"
	"slices"
	"strings"
	"testing"

	"github.com/ardnew/pravda/lang"
)

func eval(t *testing.T, in *lang.Interpreter, source string) lang.Value {
	t.Helper()

	return in.Run(t.Context(), source, Env())
}

func TestBuiltins(t *testing.T) {
	tests := []struct {
		name   string
		source string
		want   string
	}{
		// arithmetic
		{"add", "+ 1 2 3", "6"},
		{"add coerces", `* "3" 4`, "12"},
		{"add without arguments", "+", "null"},
		{"negate", "- 5", "-5"},
		{"subtract", "- 10 3 2", "5"},
		{"divide", "/ 1 4", "0.25"},
		{"modulo", "% 7 3", "1"},
		{"power", "^ 2 10", "1024"},
		{"nested", "+ 1 (* 2 3)", "7"},

		// comparison and logic
		{"equal", "equal 1 1 1", "true"},
		{"equal compares canonical forms", `equal "1" 1`, "false"},
		{"less-than", "less-than 1 2 3", "true"},
		{"greater-than", "greater-than 3 2 2", "false"},
		{"or", "or false 0 1", "true"},
		{"and without arguments", "and", "true"},
		{"not", "not false", "true"},
		{"not without arguments", "not", "null"},

		// strings
		{"concat", `concat "a" 1 true`, `"a1true"`},
		{"concat constants", "concat double-quote", `"""`},
		{"split", `split "a,b,c" ","`, `["a" "b" "c"]`},
		{"split without separator", `split "a"`, "null"},
		{"split empty separator", `split "abc" ""`, `["a" "b" "c"]`},
		{"split missing separator", `split "abc" "-"`, `["abc"]`},

		// lists
		{"list", "list 1 (+ 1 1)", "[1 2]"},
		{"car", "car [1 2 3]", "1"},
		{"car of string", `car "abc"`, `"a"`},
		{"car of empty", "car []", "null"},
		{"cdr", "cdr [1 2 3]", "[2 3]"},
		{"cdr of singleton", "cdr [1]", "null"},
		{"len list", "len [1 2]", "2"},
		{"len string", `len "héllo"`, "5"},
		{"len other", "len 3", "null"},
		{"range end", "range 3", "[0 1 2]"},
		{"range start end", "range 2 5", "[2 3 4]"},
		{"range step", "range 0 10 4", "[0 4 8]"},
		{"range empty", "range 5 1", "[]"},
		{"range stalled step", "range 0 3 0", "null"},
		{"map", `map [1 2 3] \(x -> * x 2)`, "[2 4 6]"},
		{"map without function", "map [1 2] 3", "null"},
		{"filter", `filter (range 6) \(n -> equal (% n 2) 0)`, "[0 2 4]"},
		{"for", `for [1 2 3] \(x -> * x 10)`, "30"},
		{"reduce", `reduce [1 2 3 4] @acc \(x -> + acc x)`, "10"},
		{"reduce without variable", `reduce [1 2] 3 \(x -> x)`, "null"},

		// control
		{"if then", `if (less-than 1 2) "yes" "no"`, `"yes"`},
		{"if else", `if false "yes" "no"`, `"no"`},
		{"if without else", "if false 1", "null"},
		{"if lazy branch", "if true @(+ 1 2) 0", "3"},
		{"while", "i = 0; while @(less-than i 3) @{ i = + i 1; i }", "3"},
		{"while without block", "while @(false) 1", "null"},
		{"eval expr", "eval @(+ 1 2)", "3"},
		{"eval symbol", "x = 5; eval @x", "5"},
		{"eval unbound symbol", "eval @nothing", "null"},
		{"eval block", "eval @{ y = 2; * y 3 }", "6"},

		// types
		{"cast number", `cast "12" "number"`, "12"},
		{"cast string", `cast 5 "string"`, `"5"`},
		{"cast list", `cast "ab" "list"`, `["a" "b"]`},
		{"cast bool", `cast 1 "bool"`, "true"},
		{"cast symbol", `cast [1 2] "symbol"`, "[1 2]"},
		{"cast unknown", `cast 1 "other"`, "null"},
		{"type list", "type [1]", `"list"`},
		{"type function", `type \(x -> x)`, `"function"`},
		{"type expr", "type @(x)", `"expr"`},
		{"type without arguments", "type", "null"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := eval(t, lang.New(), tt.source)
			if got.Canonical() != tt.want {
				t.Errorf("%s = %s, want %s", tt.source, got.Canonical(), tt.want)
			}
		})
	}
}

func TestPrint(t *testing.T) {
	var out bytes.Buffer

	in := lang.New(lang.WithOutput(&out))

	got := eval(t, in, `print "x=" 1 new-line; for [1 2 3] \(x -> print x)`)
	if !got.IsNull() {
		t.Errorf("expected null, got %s", got.Canonical())
	}

	if out.String() != "x=1\n123" {
		t.Errorf("unexpected output %q", out.String())
	}
}

func TestInput(t *testing.T) {
	var out bytes.Buffer

	in := lang.New(
		lang.WithOutput(&out),
		lang.WithInput(strings.NewReader("alice\r\nbob\n")),
	)
	env := Env()

	var got []string
	for range 3 {
		got = append(got, in.Run(t.Context(), `input "name? "`, env).String())
	}

	if want := []string{"alice", "bob", ""}; !slices.Equal(got, want) {
		t.Errorf("input lines = %q, want %q", got, want)
	}

	if !strings.HasPrefix(out.String(), "name? name? ") {
		t.Errorf("expected prompts in output, got %q", out.String())
	}
}

func TestExit(t *testing.T) {
	code := -1
	in := lang.New(lang.WithExit(func(c int) { code = c }))

	eval(t, in, "exit 3")

	if code != 3 {
		t.Errorf("expected exit code 3, got %d", code)
	}

	eval(t, in, "exit")

	if code != 0 {
		t.Errorf("expected exit code 0, got %d", code)
	}
}

type loader map[string]lang.Value

func (l loader) Load(_ context.Context, name string) (lang.Value, bool) {
	v, ok := l[name]

	return v, ok
}

func TestLoad(t *testing.T) {
	in := lang.New(lang.WithLoader(loader{
		"square.pvd": lang.Func(lang.NewModule(`\(x -> * x x)`)),
	}))

	tests := []struct {
		source string
		want   string
	}{
		{`(load "square.pvd") 7`, "49"},
		{"square.pvd 3", "9"},
		{`load "missing.pvd"`, "null"},
	}

	for _, tt := range tests {
		t.Run(tt.source, func(t *testing.T) {
			if got := eval(t, in, tt.source); got.Canonical() != tt.want {
				t.Errorf("%s = %s, want %s", tt.source, got.Canonical(), tt.want)
			}
		})
	}
}

func TestCatalog_IsolatedCopies(t *testing.T) {
	first := Catalog()
	first["+"] = lang.Null()

	if v := Catalog()["+"]; v.IsNull() {
		t.Error("mutating a catalog copy changed the shared catalog")
	}

	names := Names()
	if !slices.IsSorted(names) || !slices.Contains(names, "reduce") {
		t.Errorf("unexpected names %q", names)
	}

	if len(Catalog()["cmd-args"].Items()) == 0 {
		t.Error("cmd-args is empty")
	}
}
