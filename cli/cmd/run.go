package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/ardnew/pravda/cli/cmd/repl"
	"github.com/ardnew/pravda/pkg"
)

// Run runs a script file or a one-liner. With neither it starts the REPL.
type Run struct {
	OneLiner string   `help:"Run CODE and print its result."                           name:"one-liner" placeholder:"CODE" short:"l"`
	Args     []string `help:"Arguments bound to args (overrides positional arguments)." name:"args"      short:"a"`

	File string   `arg:"" help:"Script file to run."      name:"file"      optional:"" type:"existingfile"`
	Rest []string `arg:"" help:"Arguments bound to args." name:"arguments" optional:""`
}

// Run executes the run command.
func (r *Run) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	args := r.Args
	if args == nil {
		args = r.Rest
	}

	switch {
	case r.File != "":
		s, err := newSession(ctx, args)
		if err != nil {
			return err
		}

		s.logger.DebugContext(ctx, "run script",
			slog.String("file", r.File),
			slog.Int("args", len(args)),
		)

		_, err = s.runFile(ctx, r.File)

		return err

	case r.OneLiner != "":
		s, err := newSession(ctx, args)
		if err != nil {
			return err
		}

		return s.print(ctx, s.run(ctx, r.OneLiner))
	}

	return (&Repl{}).run(ctx, args)
}

// Repl starts the interactive read-eval-print loop.
type Repl struct{}

// Run executes the repl command.
func (r *Repl) Run(ctx context.Context) error {
	return r.run(ctx, nil)
}

func (r *Repl) run(ctx context.Context, args []string) error {
	s, err := newSession(ctx, args)
	if err != nil {
		return err
	}

	fmt.Fprintln(s.stdout, pkg.Name, strings.TrimSpace(pkg.Version))

	return repl.Run(ctx, repl.Config{
		Env:      s.env,
		Options:  s.options,
		CacheDir: varFrom(ctx, CacheIdentifier),
		Logger:   s.logger,
		Exit:     exitFrom(ctx),
	})
}

// Version prints the program version.
type Version struct{}

// Run executes the version command.
func (v *Version) Run(ctx context.Context) error {
	_, err := fmt.Fprintln(stdoutFrom(ctx), pkg.Name, strings.TrimSpace(pkg.Version))

	return err
}
