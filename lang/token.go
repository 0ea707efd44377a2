package lang

import "strings"

// Statement is one semicolon-separated unit of a program.
//
// A definition statement carries the text left of its first top-level '=' in
// Target and the text right of it in Source. Any other statement is a plain
// expression held in Source.
type Statement struct {
	Target string
	Source string
	Define bool
}

// TokenizeProgram splits source into statements.
//
// Semicolons separate statements unless they appear inside braces or double
// quotes. The first '=' outside quotes and outside any bracket nesting turns
// a statement into a definition; later '=' characters belong to the source.
// Empty statements (";;") are skipped. A statement of whitespace alone is kept
// as an empty expression, which evaluates to Null. A trailing statement left
// open by an unterminated brace or quote is dropped.
func TokenizeProgram(source string) []Statement {
	var (
		stmts  []Statement
		target strings.Builder
		body   strings.Builder
		braces int
		nest   int
		quoted bool
		define bool
	)

	cur := &target

	flush := func() {
		empty := target.Len() == 0
		stmt := Statement{Define: define}

		if define {
			stmt.Target = strings.TrimSpace(target.String())
			stmt.Source = strings.TrimSpace(body.String())
		} else {
			stmt.Source = strings.TrimSpace(target.String())
		}

		target.Reset()
		body.Reset()

		cur, define, nest = &target, false, 0

		if empty {
			return
		}

		stmts = append(stmts, stmt)
	}

	for _, r := range source {
		switch {
		case r == '"':
			quoted = !quoted

		case quoted:

		case r == '{':
			braces++
			nest++

		case r == '}':
			braces = max(braces-1, 0)
			nest = max(nest-1, 0)

		case r == '(', r == '[':
			nest++

		case r == ')', r == ']':
			nest = max(nest-1, 0)

		case r == ';' && braces == 0:
			flush()

			continue

		case r == '=' && nest == 0 && !define:
			define = true
			cur = &body

			continue
		}

		cur.WriteRune(r)
	}

	if braces == 0 && !quoted {
		flush()
	}

	return stmts
}

// TokenizeExpr splits an expression into items.
//
// Items are separated by whitespace. A region enclosed by (), [] or {} is a
// single item including its delimiters, as is a double-quoted region; the
// item ends as soon as its outermost delimiter closes. A closing delimiter
// with nothing open is discarded. A trailing item left open by an
// unterminated delimiter or quote is dropped.
func TokenizeExpr(source string) []string {
	var (
		items  []string
		cur    strings.Builder
		depth  int
		quoted bool
	)

	emit := func() {
		if cur.Len() > 0 {
			items = append(items, cur.String())
			cur.Reset()
		}
	}

	for _, r := range source {
		switch {
		case quoted:
			cur.WriteRune(r)

			if r == '"' {
				quoted = false

				if depth == 0 {
					emit()
				}
			}

		case r == '"':
			quoted = true

			cur.WriteRune(r)

		case r == '(', r == '[', r == '{':
			depth++

			cur.WriteRune(r)

		case r == ')', r == ']', r == '}':
			if depth == 0 {
				continue
			}

			depth--

			cur.WriteRune(r)

			if depth == 0 {
				emit()
			}

		case depth == 0 && isSpace(r):
			emit()

		default:
			cur.WriteRune(r)
		}
	}

	if depth == 0 && !quoted {
		emit()
	}

	return items
}

func isSpace(r rune) bool {
	switch r {
	case ' ', '\t', '\n', '\v', '\f', '\r', '\u3000':
		return true
	}

	return false
}
