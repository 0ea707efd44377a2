package builtin

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"

	"github.com/peterh/liner"

	"github.com/ardnew/pravda/lang"
)

func text() map[string]lang.Value {
	return register(map[string]lang.Native{
		"concat": func(_ context.Context, _ *lang.Interpreter, _ *lang.Env, args []lang.Value) lang.Value {
			return lang.String(display(args))
		},
		"split": func(_ context.Context, _ *lang.Interpreter, _ *lang.Env, args []lang.Value) lang.Value {
			if len(args) < 2 {
				return lang.Null()
			}

			return Strings(strings.Split(args[0].String(), args[1].String()))
		},
		"print": func(ctx context.Context, in *lang.Interpreter, _ *lang.Env, args []lang.Value) lang.Value {
			if _, err := io.WriteString(in.Output(), display(args)); err != nil {
				in.Logger().DebugContext(ctx, "print failed", slog.Any("error", err))
			}

			return lang.Null()
		},
		"input": func(ctx context.Context, in *lang.Interpreter, _ *lang.Env, args []lang.Value) lang.Value {
			var prompt string
			if p, ok := arg(args, 0); ok {
				prompt = p.String()
			}

			line, err := readLine(in, prompt)
			if err != nil {
				in.Logger().DebugContext(ctx, "input failed",
					slog.Any("error", lang.ErrReadInput.Wrap(err)),
				)
			}

			return lang.String(line)
		},
	})
}

// display concatenates the display forms of args.
func display(args []lang.Value) string {
	var b strings.Builder
	for _, a := range args {
		b.WriteString(a.String())
	}

	return b.String()
}

// readLine prompts for one line of input. Without a configured input reader
// the line is edited interactively on the terminal.
func readLine(in *lang.Interpreter, prompt string) (string, error) {
	r := in.Input()
	if r == nil {
		state := liner.NewLiner()
		defer state.Close()

		state.SetCtrlCAborts(true)

		return state.Prompt(prompt)
	}

	if _, err := io.WriteString(in.Output(), prompt); err != nil {
		return "", err
	}

	// Read byte by byte so that no input beyond the line is consumed.
	var (
		line strings.Builder
		buf  [1]byte
	)

	for {
		n, err := r.Read(buf[:])
		if n > 0 {
			if buf[0] == '\n' {
				break
			}

			line.WriteByte(buf[0])
		}

		if errors.Is(err, io.EOF) {
			if line.Len() > 0 {
				break
			}

			return "", err
		}

		if err != nil {
			return line.String(), err
		}
	}

	return strings.TrimSuffix(line.String(), "\r"), nil
}
