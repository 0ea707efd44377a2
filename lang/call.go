package lang

import (
	"context"
	"log/slog"
	"slices"
	"strings"
)

// Argument prefixes recognized on symbols.
const (
	spreadPrefix   = "~"
	lazyPrefix     = "@"
	lazyKeyword    = "lazy"
	variadicPrefix = spreadPrefix
)

// Call resolves the raw arguments against env and applies fn to them.
//
// An expression argument is evaluated and a block argument is run. A symbol
// argument is replaced by its binding unless it is prefixed: ~name splices the
// elements of a list into the arguments and @name or lazyname passes the
// remaining text unevaluated. A bound value whose canonical form carries a
// lazy prefix is passed with the prefix removed. Unbound symbols and all other
// literals pass through unchanged.
func (in *Interpreter) Call(ctx context.Context, fn *Function, raw []Value, env *Env) Value {
	return in.Apply(ctx, fn, in.resolve(ctx, raw, env), env)
}

// Apply invokes fn with already resolved arguments on behalf of a caller
// whose environment is env.
func (in *Interpreter) Apply(ctx context.Context, fn *Function, args []Value, env *Env) Value {
	switch fn.kind {
	case FuncNative:
		in.logger.TraceContext(ctx, "call builtin",
			slog.String("name", fn.name),
			slog.Int("args", len(args)),
		)

		return fn.native(ctx, in, env.Snapshot(), args)

	case FuncUser:
		return in.dispatch(ctx, fn, args, env)

	case FuncModule:
		result := in.Run(ctx, fn.source, env.Snapshot())
		if inner, ok := result.Function(); ok {
			return in.Apply(ctx, inner, args, env)
		}

		return result

	case FuncForeign:
		return in.foreignCall(ctx, fn, args)
	}

	return Null()
}

func (in *Interpreter) resolve(ctx context.Context, raw []Value, env *Env) []Value {
	args := make([]Value, 0, len(raw))

	for _, arg := range raw {
		switch arg.Kind() {
		case KindExpr:
			args = append(args, in.Eval(ctx, arg.Text(), env))

		case KindBlock:
			args = append(args, in.Run(ctx, arg.Text(), env.Snapshot()))

		case KindSymbol:
			args = in.resolveSymbol(ctx, args, arg, env)

		default:
			args = append(args, arg)
		}
	}

	return args
}

func (in *Interpreter) resolveSymbol(ctx context.Context, args []Value, sym Value, env *Env) []Value {
	name := sym.Text()

	if rest, ok := strings.CutPrefix(name, spreadPrefix); ok {
		return append(args, in.spread(ctx, rest, env)...)
	}

	if rest, ok := cutLazy(name); ok {
		return append(args, Parse(rest))
	}

	bound, ok := env.Get(name)
	if !ok {
		return append(args, sym)
	}

	if rest, ok := cutLazy(bound.Canonical()); ok {
		return append(args, Parse(rest))
	}

	return append(args, bound)
}

// spread returns the elements a ~name argument expands to.
func (in *Interpreter) spread(ctx context.Context, name string, env *Env) []Value {
	if bound, ok := env.Get(name); ok {
		return bound.List()
	}

	v := Parse(name)

	switch v.Kind() {
	case KindList:
		return v.Items()

	case KindExpr:
		return in.Eval(ctx, v.Text(), env).List()

	case KindBlock:
		return in.Run(ctx, v.Text(), env.Snapshot()).List()
	}

	return []Value{v}
}

func cutLazy(s string) (string, bool) {
	if rest, ok := strings.CutPrefix(s, lazyPrefix); ok {
		return rest, true
	}

	return strings.CutPrefix(s, lazyKeyword)
}

// dispatch selects the clause of a user-defined function that handles args.
//
// A clause whose pattern equals args literally is preferred, the last such
// clause winning, and its body is evaluated in its captured scope alone.
// Otherwise the newest clause whose pattern consists only of parameter names
// is bound in the captured scope extended by the caller's environment.
func (in *Interpreter) dispatch(ctx context.Context, fn *Function, args []Value, env *Env) Value {
	var literal *Clause

	for i := range fn.clauses {
		if matchLiteral(fn.clauses[i].Pattern, args) {
			literal = &fn.clauses[i]
		}
	}

	if literal != nil {
		in.logger.TraceContext(ctx, "dispatch literal clause",
			slog.String("pattern", renderItems(literal.Pattern)),
		)

		return in.Eval(ctx, literal.Body, literal.Scope)
	}

	for i := len(fn.clauses) - 1; i >= 0; i-- {
		if isParams(fn.clauses[i].Pattern) {
			return in.bind(ctx, fn.clauses[i], args, env)
		}
	}

	in.logger.TraceContext(ctx, "dispatch miss", slog.Int("args", len(args)))

	return Null()
}

// bind applies a catch-all clause. Missing trailing arguments produce a
// function of the remaining parameters and surplus arguments are ignored.
func (in *Interpreter) bind(ctx context.Context, c Clause, args []Value, env *Env) Value {
	scope := c.Scope.Extend(env)

	params := c.Pattern
	variadic := len(params) > 0 &&
		strings.HasPrefix(params[len(params)-1].Text(), variadicPrefix)

	if len(args) < len(params) {
		for i, arg := range args {
			scope.Set(params[i].Text(), arg)
		}

		in.logger.TraceContext(ctx, "partial application",
			slog.Int("bound", len(args)),
			slog.Int("params", len(params)),
		)

		return Func(NewUser(Clause{
			Pattern: slices.Clone(params[len(args):]),
			Body:    c.Body,
			Scope:   scope,
		}))
	}

	for i, param := range params {
		if variadic && i == len(params)-1 {
			tail := slices.Clone(args[i:])
			scope.Set(strings.TrimPrefix(param.Text(), variadicPrefix), List(tail...))

			break
		}

		scope.Set(param.Text(), args[i])
	}

	return in.body(ctx, c.Body, scope)
}

// body executes the text of a clause: a braced body runs as a program and
// anything else is evaluated as an expression.
func (in *Interpreter) body(ctx context.Context, text string, scope *Env) Value {
	if v := Parse(text); v.Kind() == KindBlock {
		return in.Run(ctx, v.Text(), scope)
	}

	return in.Eval(ctx, text, scope)
}

func (in *Interpreter) foreignCall(ctx context.Context, fn *Function, args []Value) Value {
	if in.foreign == nil {
		in.logger.DebugContext(ctx, "foreign call ignored",
			slog.Any("error", ErrForeignFailure.With(slog.String("cause", "no engine"))),
		)

		return Null()
	}

	result, err := in.foreign.Exec(ctx, fn.source, fn.Imports(), args)
	if err != nil {
		in.logger.DebugContext(ctx, "foreign call failed",
			slog.Any("error", ErrForeignFailure.Wrap(err)),
		)

		return Null()
	}

	return result
}

func matchLiteral(pattern, args []Value) bool {
	return slices.EqualFunc(pattern, args, Equal)
}

func isParams(pattern []Value) bool {
	for _, p := range pattern {
		if p.Kind() != KindSymbol {
			return false
		}
	}

	return true
}
