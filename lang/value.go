package lang

import (
	"errors"
	"math"
	"strconv"
	"strings"
)

// Kind identifies the variant held by a [Value].
type Kind int

const (
	// KindNull is the absent value. It is the zero Kind so that the zero
	// [Value] is Null.
	KindNull Kind = iota

	// KindNumber is a 64-bit floating-point number.
	KindNumber

	// KindString is a string literal.
	KindString

	// KindBool is a boolean.
	KindBool

	// KindSymbol is an identifier or any token the reader did not recognize.
	KindSymbol

	// KindList is an ordered sequence of values.
	KindList

	// KindExpr is deferred expression text written as (...).
	KindExpr

	// KindBlock is deferred program text written as {...}.
	KindBlock

	// KindFunction is a callable [Function].
	KindFunction
)

// String returns the name reported by the type builtin.
func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"

	case KindNumber:
		return "number"

	case KindString:
		return "string"

	case KindBool:
		return "bool"

	case KindSymbol:
		return "symbol"

	case KindList:
		return "list"

	case KindExpr:
		return "expr"

	case KindBlock:
		return "block"

	case KindFunction:
		return "function"

	default:
		return "unknown"
	}
}

// Value is an immutable tagged union over every runtime datum of the
// language. The zero Value is Null.
type Value struct {
	fn   *Function
	text string // String, Symbol, Expr and Block payload
	list []Value
	num  float64
	kind Kind
}

// Null returns the absent value.
func Null() Value { return Value{} }

// Number returns a number value.
func Number(f float64) Value { return Value{kind: KindNumber, num: f} }

// String returns a string value holding s verbatim.
func String(s string) Value { return Value{kind: KindString, text: s} }

// Bool returns a boolean value.
func Bool(b bool) Value {
	if b {
		return Value{kind: KindBool, num: 1}
	}

	return Value{kind: KindBool}
}

// Symbol returns a symbol value.
func Symbol(name string) Value { return Value{kind: KindSymbol, text: name} }

// List returns a list value over items. The slice is not copied.
func List(items ...Value) Value { return Value{kind: KindList, list: items} }

// Expr returns a deferred expression holding text without its parentheses.
func Expr(text string) Value { return Value{kind: KindExpr, text: text} }

// Block returns a deferred program holding text without its braces. The text
// is kept verbatim, surrounding whitespace included; only rendering trims it.
func Block(text string) Value { return Value{kind: KindBlock, text: text} }

// Func wraps fn as a value.
func Func(fn *Function) Value { return Value{kind: KindFunction, fn: fn} }

// Kind reports the variant of v.
func (v Value) Kind() Kind { return v.kind }

// IsNull reports whether v is Null.
func (v Value) IsNull() bool { return v.kind == KindNull }

// Text returns the raw payload of a String, Symbol, Expr or Block value and
// the empty string for any other kind.
func (v Value) Text() string { return v.text }

// Items returns the elements of a List value, or nil for any other kind.
func (v Value) Items() []Value {
	if v.kind != KindList {
		return nil
	}

	return v.list
}

// Function returns the function held by v.
func (v Value) Function() (*Function, bool) {
	return v.fn, v.kind == KindFunction && v.fn != nil
}

// Number coerces v to a number. The coercion is total.
func (v Value) Number() float64 {
	switch v.kind {
	case KindNumber, KindBool:
		return v.num

	case KindString, KindSymbol:
		f, ok := parseNumber(strings.TrimSpace(v.text))
		if !ok {
			return 0
		}

		return f

	case KindList:
		if len(v.list) == 0 {
			return 0
		}

		return v.list[0].Number()

	case KindExpr, KindBlock:
		return float64(len(v.text))

	case KindFunction:
		return v.fn.weight()

	default:
		return 0
	}
}

// Bool coerces v to a boolean. The coercion is total.
func (v Value) Bool() bool {
	switch v.kind {
	case KindNumber:
		return v.num != 0

	case KindBool:
		return v.num != 0

	case KindString, KindSymbol:
		return strings.TrimSpace(v.text) == "true"

	case KindList:
		if len(v.list) == 0 {
			return false
		}

		return v.list[0].Bool()

	case KindExpr, KindBlock:
		return v.text != ""

	case KindFunction:
		return true

	default:
		return false
	}
}

// List coerces v to a sequence of values. A String yields one String per
// character; any other non-list value yields a singleton.
func (v Value) List() []Value {
	switch v.kind {
	case KindList:
		return v.list

	case KindString:
		items := make([]Value, 0, len(v.text))
		for _, r := range v.text {
			items = append(items, String(string(r)))
		}

		return items

	default:
		return []Value{v}
	}
}

// String returns the display form of v: strings appear without quotes and
// Null renders as the empty string.
func (v Value) String() string {
	var b strings.Builder

	v.render(&b, false)

	return b.String()
}

// Canonical returns the source-like form of v: strings are re-quoted and
// Null renders as "null". Parsing the canonical form of a literal yields an
// equal value.
func (v Value) Canonical() string {
	var b strings.Builder

	v.render(&b, true)

	return b.String()
}

func (v Value) render(b *strings.Builder, canonical bool) {
	switch v.kind {
	case KindNull:
		if canonical {
			b.WriteString("null")
		}

	case KindNumber:
		b.WriteString(formatNumber(v.num))

	case KindString:
		if canonical {
			b.WriteByte('"')
			b.WriteString(v.text)
			b.WriteByte('"')
		} else {
			b.WriteString(v.text)
		}

	case KindBool:
		b.WriteString(strconv.FormatBool(v.num != 0))

	case KindSymbol:
		b.WriteString(v.text)

	case KindList:
		b.WriteByte('[')

		for i, item := range v.list {
			if i > 0 {
				b.WriteByte(' ')
			}

			item.render(b, canonical)
		}

		b.WriteByte(']')

	case KindExpr:
		b.WriteByte('(')
		b.WriteString(v.text)
		b.WriteByte(')')

	case KindBlock:
		b.WriteString("{ ")
		b.WriteString(strings.TrimSpace(v.text))
		b.WriteString(" }")

	case KindFunction:
		b.WriteString(v.fn.String())
	}
}

// Equal reports whether a and b have the same canonical form, which is the
// equality used by literal pattern dispatch and the equal builtin.
func Equal(a, b Value) bool {
	return a.Canonical() == b.Canonical()
}

// formatNumber renders f as the shortest decimal that round-trips, never
// using exponent notation.
func formatNumber(f float64) string {
	switch {
	case math.IsInf(f, 1):
		return "inf"

	case math.IsInf(f, -1):
		return "-inf"

	case math.IsNaN(f):
		return "NaN"
	}

	return strconv.FormatFloat(f, 'f', -1, 64)
}

// parseNumber accepts decimal and exponent notation plus inf and NaN.
// Literals beyond the float64 range saturate to ±Inf.
func parseNumber(s string) (float64, bool) {
	if s == "" {
		return 0, false
	}

	// strconv also accepts hexadecimal mantissas and digit separators,
	// neither of which the language knows.
	for _, r := range s {
		switch {
		case r >= '0' && r <= '9', r == '.', r == '+', r == '-',
			r == 'e', r == 'E':
		case strings.ContainsRune("infatyINFATY", r):
		default:
			return 0, false
		}
	}

	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		var numErr *strconv.NumError
		if errors.As(err, &numErr) && numErr.Err == strconv.ErrRange {
			return f, true
		}

		return 0, false
	}

	return f, true
}
