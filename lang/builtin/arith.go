package builtin

import (
	"context"
	"math"

	"github.com/ardnew/pravda/lang"
)

// fold returns an operation that combines its arguments from left to right.
func fold(op func(acc, x float64) float64) lang.Native {
	return func(_ context.Context, _ *lang.Interpreter, _ *lang.Env, args []lang.Value) lang.Value {
		if len(args) == 0 {
			return lang.Null()
		}

		nums := numbers(args)

		acc := nums[0]
		for _, x := range nums[1:] {
			acc = op(acc, x)
		}

		return lang.Number(acc)
	}
}

func arithmetic() map[string]lang.Value {
	subtract := fold(func(acc, x float64) float64 { return acc - x })

	return register(map[string]lang.Native{
		"+": fold(func(acc, x float64) float64 { return acc + x }),
		"*": fold(func(acc, x float64) float64 { return acc * x }),
		"/": fold(func(acc, x float64) float64 { return acc / x }),
		"%": fold(math.Mod),
		"^": fold(math.Pow),
		"-": func(ctx context.Context, in *lang.Interpreter, env *lang.Env, args []lang.Value) lang.Value {
			if len(args) == 1 {
				return lang.Number(-args[0].Number())
			}

			return subtract(ctx, in, env, args)
		},
	})
}

// windows reports whether ok holds for every adjacent pair.
func windows[T any](items []T, ok func(a, b T) bool) bool {
	for i := 1; i < len(items); i++ {
		if !ok(items[i-1], items[i]) {
			return false
		}
	}

	return true
}

func comparison() map[string]lang.Value {
	return register(map[string]lang.Native{
		"equal": func(_ context.Context, _ *lang.Interpreter, _ *lang.Env, args []lang.Value) lang.Value {
			return lang.Bool(windows(args, lang.Equal))
		},
		"less-than": func(_ context.Context, _ *lang.Interpreter, _ *lang.Env, args []lang.Value) lang.Value {
			return lang.Bool(windows(numbers(args), func(a, b float64) bool { return a < b }))
		},
		"greater-than": func(_ context.Context, _ *lang.Interpreter, _ *lang.Env, args []lang.Value) lang.Value {
			return lang.Bool(windows(numbers(args), func(a, b float64) bool { return a > b }))
		},
		"or": func(_ context.Context, _ *lang.Interpreter, _ *lang.Env, args []lang.Value) lang.Value {
			for _, a := range args {
				if a.Bool() {
					return lang.Bool(true)
				}
			}

			return lang.Bool(false)
		},
		"and": func(_ context.Context, _ *lang.Interpreter, _ *lang.Env, args []lang.Value) lang.Value {
			for _, a := range args {
				if !a.Bool() {
					return lang.Bool(false)
				}
			}

			return lang.Bool(true)
		},
		"not": func(_ context.Context, _ *lang.Interpreter, _ *lang.Env, args []lang.Value) lang.Value {
			a, ok := arg(args, 0)
			if !ok {
				return lang.Null()
			}

			return lang.Bool(!a.Bool())
		},
	})
}
