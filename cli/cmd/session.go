package cmd

import (
	"context"
	"io"
	"log/slog"
	"os"

	"github.com/ardnew/pravda/lang"
	"github.com/ardnew/pravda/lang/builtin"
	"github.com/ardnew/pravda/lang/foreign"
	"github.com/ardnew/pravda/lang/loader"
	"github.com/ardnew/pravda/log"
)

// session is an interpreter and the environment its programs share.
type session struct {
	interp  *lang.Interpreter
	options []lang.Option
	env     *lang.Env
	stdout  io.Writer
	output  Output
	logger  log.Logger
}

// newSession builds a session from the settings stored in ctx, binds args
// when non-nil, and runs the prelude files.
func newSession(
	ctx context.Context,
	args []string,
	opts ...lang.Option,
) (*session, error) {
	logger := log.Default()
	stdout := stdoutFrom(ctx)

	options := append([]lang.Option{
		lang.WithLogger(logger),
		lang.WithOutput(stdout),
		lang.WithExit(exitFrom(ctx)),
		lang.WithLoader(loader.New(loader.WithLogger(logger))),
		lang.WithForeign(foreign.New(foreign.WithLogger(logger))),
	}, opts...)

	s := &session{
		interp:  lang.New(options...),
		options: options,
		env:     builtin.Env(),
		stdout:  stdout,
		output:  outputFrom(ctx),
		logger:  logger,
	}

	if argv := argvFrom(ctx); argv != nil {
		s.env.Set("cmd-args", builtin.Strings(argv))
	}

	if args != nil {
		s.env.Set("args", builtin.Strings(args))
	}

	if err := s.prelude(ctx); err != nil {
		return nil, err
	}

	return s, nil
}

func (s *session) prelude(ctx context.Context) error {
	srcs := sourceFilesFrom(ctx)
	if srcs == nil {
		return nil
	}

	for name, r := range srcs.All() {
		source, err := lang.ReadSource(ctx, r)

		if c, ok := r.(io.Closer); ok && r != io.Reader(os.Stdin) {
			_ = c.Close()
		}

		if err != nil {
			return ErrReadScript.With(slog.String("file", name)).Wrap(err)
		}

		s.logger.DebugContext(ctx, "prelude",
			slog.String("file", name),
			slog.Int("bytes", len(source)),
		)

		s.interp.Run(ctx, source, s.env)
	}

	return nil
}

// run runs source in the session environment.
func (s *session) run(ctx context.Context, source string) lang.Value {
	return s.interp.Run(ctx, source, s.env)
}

// runFile reads and runs the named program file.
func (s *session) runFile(ctx context.Context, path string) (lang.Value, error) {
	source, err := readSource(ctx, path)
	if err != nil {
		return lang.Null(), err
	}

	return s.run(ctx, source), nil
}

// print renders v to the session's standard output.
func (s *session) print(ctx context.Context, v lang.Value) error {
	err := lang.FormatValue(ctx, s.stdout, v, s.output.Format, s.output.Indent)
	if err != nil {
		return ErrMarshal.With(slog.String("format", s.output.Format)).Wrap(err)
	}

	return nil
}
