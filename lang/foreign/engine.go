// Package foreign runs foreign functions as expr-lang programs.
//
// A foreign program receives its call arguments as the list args and may use
// the host modules it imports:
//
//	sys   target, platform, hostname, user, shell, cwd()
//	file  exists(p), isDir(p), isRegular(p), isSymlink(p)
//	path  abs(p), cat(p...), rel(from, to)
//	mung  prefix(key, p...), prefixif(key, pred, p...)
//
// The program's result is converted back to a language value: numbers,
// strings, booleans and slices map to their counterparts and anything else
// becomes null.
package foreign

import (
	"context"
	"log/slog"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"

	"github.com/ardnew/pravda/lang"
	"github.com/ardnew/pravda/log"
)

// Engine executes foreign function source. The zero Engine is ready to use.
type Engine struct {
	logger log.Logger
}

// Option configures an [Engine].
type Option func(*Engine)

// WithLogger sets the structured logger for trace-level debugging.
func WithLogger(logger log.Logger) Option {
	return func(e *Engine) {
		e.logger = logger
	}
}

// New returns an engine configured by opts.
func New(opts ...Option) *Engine {
	e := new(Engine)
	for _, opt := range opts {
		opt(e)
	}

	return e
}

// Exec compiles source with the named host modules in scope and args bound
// to the variable args, runs it and converts its result.
func (e *Engine) Exec(
	ctx context.Context,
	source string,
	imports []string,
	args []lang.Value,
) (lang.Value, error) {
	env, err := importEnv(imports)
	if err != nil {
		return lang.Null(), err
	}

	code := "let args = " + Marshal(lang.List(args...)) + ";\n" + source

	e.logger.TraceContext(ctx, "foreign compile",
		slog.Int("source_bytes", len(source)),
		slog.Any("imports", imports),
		slog.Int("args", len(args)),
	)

	program, err := expr.Compile(code, expr.Env(env))
	if err != nil {
		return lang.Null(), lang.ErrForeignFailure.Wrap(err).
			With(slog.String("stage", "compile"))
	}

	if err := ctx.Err(); err != nil {
		return lang.Null(), lang.ErrForeignFailure.Wrap(err)
	}

	result, err := vm.Run(program, env)
	if err != nil {
		return lang.Null(), lang.ErrForeignFailure.Wrap(err).
			With(slog.String("stage", "run"))
	}

	return Unmarshal(result), nil
}

func importEnv(imports []string) (map[string]any, error) {
	host := hostModules()
	env := make(map[string]any, len(imports))

	for _, name := range imports {
		mod, ok := host[name]
		if !ok {
			return nil, lang.ErrUnknownImport.With(slog.String("import", name))
		}

		env[name] = mod
	}

	return env, nil
}
