package lang

import "strings"

// Lambda literal prefixes. Both forms are equivalent.
const (
	lambdaKeyword = "lambda("
	lambdaShort   = `\(`
	lambdaArrow   = "->"
)

// Parse reads a single token as a value. It never fails: text that matches no
// literal form becomes a Symbol.
//
// After trimming surrounding whitespace the forms are tried in this order:
// number, true/false, null, double-quoted string, lambda, (expression),
// {block}, [list], and finally symbol. String contents are taken verbatim;
// no escape sequences are interpreted.
func Parse(token string) Value {
	s := strings.TrimSpace(token)

	if f, ok := parseNumber(s); ok {
		return Number(f)
	}

	switch s {
	case "true":
		return Bool(true)

	case "false":
		return Bool(false)

	case "null":
		return Null()
	}

	if enclosed(s, '"', '"') {
		return String(s[1 : len(s)-1])
	}

	if fn, ok := parseLambda(s); ok {
		return Func(fn)
	}

	switch {
	case enclosed(s, '(', ')'):
		return Expr(strings.TrimSpace(s[1 : len(s)-1]))

	case enclosed(s, '{', '}'):
		return Block(s[1 : len(s)-1])

	case enclosed(s, '[', ']'):
		return List(ParseAll(TokenizeExpr(s[1 : len(s)-1]))...)
	}

	return Symbol(s)
}

// ParseAll parses every token.
func ParseAll(tokens []string) []Value {
	values := make([]Value, len(tokens))
	for i, tok := range tokens {
		values[i] = Parse(tok)
	}

	return values
}

// parseLambda reads lambda(params -> body) or \(params -> body) as a
// single-clause function with an empty captured environment. Only the first
// arrow separates the parameters from the body.
func parseLambda(s string) (*Function, bool) {
	var inner string

	switch {
	case !strings.HasSuffix(s, ")") || !strings.Contains(s, lambdaArrow):
		return nil, false

	case strings.HasPrefix(s, lambdaKeyword):
		inner = s[len(lambdaKeyword) : len(s)-1]

	case strings.HasPrefix(s, lambdaShort):
		inner = s[len(lambdaShort) : len(s)-1]

	default:
		return nil, false
	}

	params, body, ok := strings.Cut(inner, lambdaArrow)
	if !ok {
		return nil, false
	}

	return NewUser(Clause{
		Pattern: ParseAll(TokenizeExpr(params)),
		Body:    strings.TrimSpace(body),
		Scope:   NewEnv(),
	}), true
}

func enclosed(s string, opening, closing byte) bool {
	return len(s) >= 2 && s[0] == opening && s[len(s)-1] == closing
}
