package lang

import (
	"context"
	"log/slog"
	"slices"
)

// Eval evaluates one expression in env.
//
// The leading item decides the result. A symbol bound to a function calls it
// with the remaining items, a symbol bound to any other value yields that
// value, and an unbound symbol is resolved through the loader or else echoed
// back unchanged. A function literal is called. A block is run and an
// expression is evaluated; if either produces a function it is called with
// the remaining items. Any other literal yields itself when alone and a list
// of every item otherwise.
func (in *Interpreter) Eval(ctx context.Context, text string, env *Env) Value {
	parsed, _ := items(text)
	if len(parsed) == 0 {
		return Null()
	}

	head, rest := parsed[0], parsed[1:]

	switch head.Kind() {
	case KindSymbol:
		name := head.Text()

		if bound, ok := env.Get(name); ok {
			return in.chain(ctx, bound, rest, env)
		}

		loaded, ok := in.Load(ctx, name)
		if !ok {
			in.logger.TraceContext(ctx, "unbound symbol", slog.String("name", name))

			return head
		}

		return in.chain(ctx, loaded, rest, env)

	case KindFunction:
		return in.chain(ctx, head, rest, env)

	case KindBlock:
		return in.chain(ctx, in.Run(ctx, head.Text(), env.Snapshot()), rest, env)

	case KindExpr:
		return in.chain(ctx, in.Eval(ctx, head.Text(), env), rest, env)
	}

	if len(rest) == 0 {
		return head
	}

	return List(slices.Clone(parsed)...)
}

// chain calls v with the raw items rest if it is a function and returns v
// otherwise.
func (in *Interpreter) chain(ctx context.Context, v Value, rest []Value, env *Env) Value {
	fn, ok := v.Function()
	if !ok {
		return v
	}

	return in.Call(ctx, fn, rest, env)
}
