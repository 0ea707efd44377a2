package lang

import (
	"context"
	"log/slog"
)

// Run executes every statement of source in env and returns the value of the
// last one, or Null if source holds no statements. Definitions bind names in
// env.
func (in *Interpreter) Run(ctx context.Context, source string, env *Env) Value {
	stmts, hit := statements(source)

	in.logger.TraceContext(
		ctx,
		"run program",
		slog.Int("statements", len(stmts)),
		slog.Bool("cache_hit", hit),
	)

	result := Null()

	for _, stmt := range stmts {
		if ctx.Err() != nil {
			break
		}

		if stmt.Define {
			result = in.define(ctx, stmt, env)
		} else {
			result = in.Eval(ctx, stmt.Source, env)
		}
	}

	return result
}

// define executes a definition statement.
//
// A target of a single name binds the evaluated source to it. A target with
// trailing items defines a function clause whose pattern is those items; if
// the name is already bound to a user-defined function of the same arity the
// clause is appended to it.
func (in *Interpreter) define(ctx context.Context, stmt Statement, env *Env) Value {
	target := TokenizeExpr(stmt.Target)

	switch len(target) {
	case 0:
		return in.Eval(ctx, stmt.Source, env)

	case 1:
		result := in.Eval(ctx, stmt.Source, env)
		env.Set(target[0], result)

		return result
	}

	name := target[0]
	clause := Clause{
		Pattern: ParseAll(target[1:]),
		Body:    stmt.Source,
		Scope:   env.Snapshot(),
	}

	if bound, ok := env.Get(name); ok {
		if fn, ok := bound.Function(); ok && fn.Kind() == FuncUser {
			ext, err := fn.Extend(clause)
			if err != nil {
				in.logger.WarnContext(
					ctx,
					"definition discarded",
					slog.String("name", name),
					slog.Any("error", err),
				)

				return bound
			}

			in.logger.TraceContext(
				ctx,
				"clause appended",
				slog.String("name", name),
				slog.Int("clauses", len(ext.clauses)),
			)

			result := Func(ext)
			env.Set(name, result)

			return result
		}
	}

	result := Func(NewUser(clause))
	env.Set(name, result)

	return result
}
