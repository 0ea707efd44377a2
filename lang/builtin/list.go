package builtin

import (
	"context"
	"slices"
	"unicode/utf8"

	"github.com/ardnew/pravda/lang"
)

func lists() map[string]lang.Value {
	return register(map[string]lang.Native{
		"list": func(_ context.Context, _ *lang.Interpreter, _ *lang.Env, args []lang.Value) lang.Value {
			return lang.List(slices.Clone(args)...)
		},
		"car": func(_ context.Context, _ *lang.Interpreter, _ *lang.Env, args []lang.Value) lang.Value {
			a, ok := arg(args, 0)
			if !ok {
				return lang.Null()
			}

			if items := a.List(); len(items) > 0 {
				return items[0]
			}

			return lang.Null()
		},
		"cdr": func(_ context.Context, _ *lang.Interpreter, _ *lang.Env, args []lang.Value) lang.Value {
			a, ok := arg(args, 0)
			if !ok {
				return lang.Null()
			}

			if items := a.List(); len(items) >= 2 {
				return lang.List(slices.Clone(items[1:])...)
			}

			return lang.Null()
		},
		"len": func(_ context.Context, _ *lang.Interpreter, _ *lang.Env, args []lang.Value) lang.Value {
			a, _ := arg(args, 0)

			switch a.Kind() {
			case lang.KindList:
				return lang.Number(float64(len(a.Items())))

			case lang.KindString:
				return lang.Number(float64(utf8.RuneCountInString(a.Text())))
			}

			return lang.Null()
		},
		"range":  rangeOf,
		"map":    mapOf,
		"filter": filterOf,
		"reduce": reduceOf,
		"for":    forEach,
	})
}

// rangeOf returns the numbers from start up to but excluding end, counting by
// step. A single argument is the end with start 0. A step that cannot reach
// the end yields null.
func rangeOf(_ context.Context, _ *lang.Interpreter, _ *lang.Env, args []lang.Value) lang.Value {
	start, step := 0.0, 1.0

	var end float64

	switch nums := numbers(args); len(nums) {
	case 0:
		return lang.Null()

	case 1:
		end = nums[0]

	case 2:
		start, end = nums[0], nums[1]

	default:
		start, end, step = nums[0], nums[1], nums[2]
	}

	if start < end && !(step > 0) {
		return lang.Null()
	}

	var items []lang.Value
	for x := start; x < end; x += step {
		items = append(items, lang.Number(x))
	}

	return lang.List(items...)
}

// higherOrder extracts the list and function arguments shared by map, filter
// and for.
func higherOrder(args []lang.Value) ([]lang.Value, *lang.Function, bool) {
	if len(args) < 2 {
		return nil, nil, false
	}

	fn, ok := args[1].Function()

	return args[0].List(), fn, ok
}

func mapOf(ctx context.Context, in *lang.Interpreter, env *lang.Env, args []lang.Value) lang.Value {
	items, fn, ok := higherOrder(args)
	if !ok {
		return lang.Null()
	}

	result := make([]lang.Value, len(items))
	for i, item := range items {
		result[i] = in.Call(ctx, fn, []lang.Value{item}, env)
	}

	return lang.List(result...)
}

func filterOf(ctx context.Context, in *lang.Interpreter, env *lang.Env, args []lang.Value) lang.Value {
	items, fn, ok := higherOrder(args)
	if !ok {
		return lang.Null()
	}

	var result []lang.Value

	for _, item := range items {
		if in.Call(ctx, fn, []lang.Value{item}, env).Bool() {
			result = append(result, item)
		}
	}

	return lang.List(result...)
}

func forEach(ctx context.Context, in *lang.Interpreter, env *lang.Env, args []lang.Value) lang.Value {
	items, fn, ok := higherOrder(args)
	if !ok {
		return lang.Null()
	}

	result := lang.Null()
	for _, item := range items {
		result = in.Call(ctx, fn, []lang.Value{item}, env)
	}

	return result
}

// reduceOf folds a list through a function of one argument. The accumulator
// is the variable named by the second argument: it starts from its current
// binding, or null, and is rebound to each result before the next call.
func reduceOf(ctx context.Context, in *lang.Interpreter, env *lang.Env, args []lang.Value) lang.Value {
	if len(args) < 3 {
		return lang.Null()
	}

	fn, ok := args[2].Function()
	if !ok || args[1].Kind() != lang.KindSymbol {
		return lang.Null()
	}

	name := args[1].Text()

	result, ok := env.Get(name)
	if !ok {
		result = lang.Null()
	}

	for _, item := range args[0].List() {
		result = in.Call(ctx, fn, []lang.Value{item}, env)
		env.Set(name, result)
	}

	return result
}
