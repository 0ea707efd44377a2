package lang

import (
	"encoding/json"
	"math"
)

// MarshalJSON implements json.Marshaler for Value.
func (v Value) MarshalJSON() ([]byte, error) {
	return json.Marshal(v.ToNative())
}

// MarshalYAML implements the goccy/go-yaml InterfaceMarshaler.
func (v Value) MarshalYAML() (any, error) {
	return v.ToNative(), nil
}

// ToNative converts a Value to its native Go type.
//
// Integral numbers become int64 and other finite numbers float64; infinities
// and NaN keep their textual form since neither JSON nor YAML encoders agree
// on them. Deferred code and functions are rendered in canonical form.
func (v Value) ToNative() any {
	switch v.kind {
	case KindNull:
		return nil

	case KindNumber:
		f := v.num
		if math.IsInf(f, 0) || math.IsNaN(f) {
			return formatNumber(f)
		}

		if f == math.Trunc(f) && math.Abs(f) < 1<<53 {
			return int64(f)
		}

		return f

	case KindString, KindSymbol:
		return v.text

	case KindBool:
		return v.num != 0

	case KindList:
		list := make([]any, len(v.list))
		for i, item := range v.list {
			list[i] = item.ToNative()
		}

		return list

	default:
		return v.Canonical()
	}
}

// ToNative converts the statement to a map keyed by its parts. Definitions
// carry their name and, for function clauses, the parsed parameter pattern.
func (s Statement) ToNative() map[string]any {
	m := map[string]any{
		"source": s.Source,
		"items":  natives(ParseAll(TokenizeExpr(s.Source))),
	}

	if !s.Define {
		return m
	}

	target := TokenizeExpr(s.Target)
	if len(target) > 0 {
		m["name"] = target[0]
	}

	if len(target) > 1 {
		m["params"] = natives(ParseAll(target[1:]))
	}

	return m
}

func natives(values []Value) []any {
	list := make([]any, len(values))
	for i, v := range values {
		list[i] = v.ToNative()
	}

	return list
}
