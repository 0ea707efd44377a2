package lang

import (
	"slices"
	"testing"
)

func TestTokenizeExpr(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{"words", "+ 1  2", []string{"+", "1", "2"}},
		{"empty", "   ", nil},
		{
			"atomic regions",
			"f (g x) [1 2] {a; b}",
			[]string{"f", "(g x)", "[1 2]", "{a; b}"},
		},
		{"nested", "(a (b c)) d", []string{"(a (b c))", "d"}},
		{"quoted", `print "a b" c`, []string{"print", `"a b"`, "c"}},
		{"quote inside parens", `("a)" b) c`, []string{`("a)" b)`, "c"}},
		{"adjacent regions", "(a)(b)", []string{"(a)", "(b)"}},
		{"prefixed region", "s ~[4 5] @(x)", []string{"s", "~[4 5]", "@(x)"}},
		{"stray closer", "a)b c", []string{"ab", "c"}},
		{"unterminated paren", "f (g x", []string{"f"}},
		{"unterminated quote", `f "abc`, []string{"f"}},
		{"ideographic space", "a　b", []string{"a", "b"}},
		{"newline and tab", "a\n\tb", []string{"a", "b"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := TokenizeExpr(tt.input)
			if !slices.Equal(got, tt.want) {
				t.Errorf("TokenizeExpr(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestTokenizeProgram(t *testing.T) {
	def := func(target, source string) Statement {
		return Statement{Target: target, Source: source, Define: true}
	}
	expr := func(source string) Statement {
		return Statement{Source: source}
	}

	tests := []struct {
		name  string
		input string
		want  []Statement
	}{
		{"definitions", "x = 1; y = 2", []Statement{def("x", "1"), def("y", "2")}},
		{
			"function and call",
			"f a b = + a b; f 1 2",
			[]Statement{def("f a b", "+ a b"), expr("f 1 2")},
		},
		{"block keeps semicolons", "{ a = 1; b }", []Statement{expr("{ a = 1; b }")}},
		{"first equals splits", "a = b = c", []Statement{def("a", "b = c")}},
		{"nested equals", "x = (= 1 1)", []Statement{def("x", "(= 1 1)")}},
		{"equals inside list", "[a = 1]", []Statement{expr("[a = 1]")}},
		{"quoted semicolon", `print "a;b"`, []Statement{expr(`print "a;b"`)}},
		{"quoted equals", `print "a=b"`, []Statement{expr(`print "a=b"`)}},
		{"empty statements", "x = 1;;; y", []Statement{def("x", "1"), expr("y")}},
		{
			"whitespace statements",
			"x = 1;; ;\n y",
			[]Statement{def("x", "1"), expr(""), expr("y")},
		},
		{"trailing whitespace", "5; ", []Statement{expr("5"), expr("")}},
		{"trailing semicolon", "5;", []Statement{expr("5")}},
		{"unterminated block", "x = 1; { y", []Statement{def("x", "1")}},
		{"unterminated quote", `x = 1; "abc`, []Statement{def("x", "1")}},
		{"empty", "", nil},
		{
			"multi-line block body",
			"f n = {\n  m = * n 2;\n  m\n};\nf 3",
			[]Statement{def("f n", "{\n  m = * n 2;\n  m\n}"), expr("f 3")},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := TokenizeProgram(tt.input)
			if !slices.Equal(got, tt.want) {
				t.Errorf("TokenizeProgram(%q) = %+v, want %+v", tt.input, got, tt.want)
			}
		})
	}
}

func TestStatements_Memoized(t *testing.T) {
	ClearCache()

	const source = "x = 1; x"

	first, hit := statements(source)
	if hit {
		t.Fatal("expected first lookup to miss")
	}

	second, hit := statements(source)
	if !hit {
		t.Fatal("expected second lookup to hit")
	}

	if !slices.Equal(first, second) {
		t.Errorf("cached statements differ: %+v != %+v", first, second)
	}

	if n := programCache.len(); n != 1 {
		t.Errorf("expected 1 cached program, got %d", n)
	}
}

func TestMemo_ClearsWhenFull(t *testing.T) {
	m := newMemo[int](2)
	length := func(s string) int { return len(s) }

	m.get("a", length)
	m.get("bb", length)
	m.get("ccc", length)

	if n := m.len(); n != 1 {
		t.Errorf("expected table to restart at 1 entry, got %d", n)
	}

	if v, hit := m.get("ccc", length); !hit || v != 3 {
		t.Errorf("get(ccc) = %d, %v; want 3, true", v, hit)
	}
}
