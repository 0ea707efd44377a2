package foreign

import (
	"math"
	"reflect"
	"strconv"
	"strings"

	"github.com/ardnew/pravda/lang"
)

// Marshal renders v as an expr-lang literal. Values without a literal
// counterpart, including non-finite numbers, become nil.
func Marshal(v lang.Value) string {
	switch v.Kind() {
	case lang.KindNumber:
		f := v.Number()
		if math.IsInf(f, 0) || math.IsNaN(f) {
			return "nil"
		}

		return strconv.FormatFloat(f, 'f', -1, 64)

	case lang.KindString:
		return strconv.Quote(v.Text())

	case lang.KindBool:
		return strconv.FormatBool(v.Bool())

	case lang.KindList:
		items := v.Items()

		part := make([]string, len(items))
		for i, item := range items {
			part[i] = Marshal(item)
		}

		return "[" + strings.Join(part, ", ") + "]"
	}

	return "nil"
}

// Unmarshal converts a result produced by an expr-lang program.
func Unmarshal(x any) lang.Value {
	switch x := x.(type) {
	case nil:
		return lang.Null()

	case bool:
		return lang.Bool(x)

	case string:
		return lang.String(x)

	case float64:
		return lang.Number(x)

	case int:
		return lang.Number(float64(x))

	case []any:
		items := make([]lang.Value, len(x))
		for i, item := range x {
			items[i] = Unmarshal(item)
		}

		return lang.List(items...)

	case interface{ String() string }:
		return lang.String(x.String())
	}

	rv := reflect.ValueOf(x)

	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return lang.Number(float64(rv.Int()))

	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return lang.Number(float64(rv.Uint()))

	case reflect.Float32:
		return lang.Number(rv.Float())

	case reflect.Slice, reflect.Array:
		items := make([]lang.Value, rv.Len())
		for i := range items {
			items[i] = Unmarshal(rv.Index(i).Interface())
		}

		return lang.List(items...)
	}

	return lang.Null()
}
