package builtin

import (
	"context"

	"github.com/ardnew/pravda/lang"
)

func control() map[string]lang.Value {
	return register(map[string]lang.Native{
		"while": whileLoop,
		"if":    ifElse,
		"eval":  force,
		"load": func(ctx context.Context, in *lang.Interpreter, _ *lang.Env, args []lang.Value) lang.Value {
			name, ok := arg(args, 0)
			if !ok {
				return lang.Null()
			}

			v, _ := in.Load(ctx, name.String())

			return v
		},
		"cast": func(_ context.Context, _ *lang.Interpreter, _ *lang.Env, args []lang.Value) lang.Value {
			if len(args) < 2 {
				return lang.Null()
			}

			v := args[0]

			switch args[1].String() {
			case "string":
				return lang.String(v.String())

			case "number":
				return lang.Number(v.Number())

			case "symbol":
				return lang.Symbol(v.Canonical())

			case "list":
				return lang.List(v.List()...)

			case "bool":
				return lang.Bool(v.Bool())
			}

			return lang.Null()
		},
		"type": func(_ context.Context, _ *lang.Interpreter, _ *lang.Env, args []lang.Value) lang.Value {
			v, ok := arg(args, 0)
			if !ok {
				return lang.Null()
			}

			return lang.String(v.Kind().String())
		},
		"exit": func(_ context.Context, in *lang.Interpreter, _ *lang.Env, args []lang.Value) lang.Value {
			code, _ := arg(args, 0)
			in.Exit(int(code.Number()))

			return lang.Null()
		},
	})
}

// whileLoop runs the block given second for as long as the expression given
// first is true. Both share one environment, so bindings made by the block
// are visible to the condition.
func whileLoop(ctx context.Context, in *lang.Interpreter, env *lang.Env, args []lang.Value) lang.Value {
	if len(args) < 2 || args[0].Kind() != lang.KindExpr || args[1].Kind() != lang.KindBlock {
		return lang.Null()
	}

	cond, body := args[0].Text(), args[1].Text()

	result := lang.Null()
	for ctx.Err() == nil && in.Eval(ctx, cond, env).Bool() {
		result = in.Run(ctx, body, env)
	}

	return result
}

func ifElse(ctx context.Context, in *lang.Interpreter, env *lang.Env, args []lang.Value) lang.Value {
	if len(args) < 2 {
		return lang.Null()
	}

	branch := 1
	if !args[0].Bool() {
		branch = 2
	}

	v, ok := arg(args, branch)
	if !ok {
		return lang.Null()
	}

	return forceIn(ctx, in, env, v)
}

// force evaluates a deferred argument: an expression is evaluated, a block is
// run and a symbol is looked up. Anything else is returned as is.
func force(ctx context.Context, in *lang.Interpreter, env *lang.Env, args []lang.Value) lang.Value {
	v, ok := arg(args, 0)
	if !ok {
		return lang.Null()
	}

	if v.Kind() == lang.KindSymbol {
		bound, _ := env.Get(v.Text())

		return bound
	}

	return forceIn(ctx, in, env, v)
}

func forceIn(ctx context.Context, in *lang.Interpreter, env *lang.Env, v lang.Value) lang.Value {
	switch v.Kind() {
	case lang.KindExpr:
		return in.Eval(ctx, v.Text(), env)

	case lang.KindBlock:
		return in.Run(ctx, v.Text(), env)
	}

	return v
}
