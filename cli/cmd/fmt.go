package cmd

import (
	"context"
	"io"
	"log/slog"
	"os"

	"github.com/ardnew/pravda/lang"
)

// Fmt reads a program and writes its statement structure in the chosen
// format. Nothing is evaluated.
type Fmt struct {
	Pravda Pravda `cmd:"" default:"withargs" help:"Format as normalized Pravda source (default)." name:"pvd"`
	JSON   JSON   `cmd:""                    help:"Format statements as JSON."`
	YAML   YAML   `cmd:""                    help:"Format statements as YAML."`
	Tokens Tokens `cmd:""                    help:"Print the items of each statement."`
}

// Pravda formats input as normalized Pravda source.
type Pravda struct {
	Indent int `default:"2" help:"Put each statement on its own line when positive." short:"i"`

	Source string `arg:"" default:"-" help:"Source input file or '-' for default stdin." name:"source"`
}

// Run executes the pvd command.
func (f *Pravda) Run(ctx context.Context) error {
	return formatProgram(ctx, f.Source, FormatPravda,
		func(p *lang.Program, w io.Writer) error {
			return p.Format(ctx, w, f.Indent)
		},
	)
}

// JSON reads a program and outputs its statements as JSON.
type JSON struct {
	Indent int `default:"2" help:"Indent width for JSON output" short:"i"`

	Source string `arg:"" default:"-" help:"Source input file or '-' for default stdin." name:"source"`
}

// Run executes the json command.
func (j *JSON) Run(ctx context.Context) error {
	return formatProgram(ctx, j.Source, FormatJSON,
		func(p *lang.Program, w io.Writer) error {
			return p.FormatJSON(ctx, w, j.Indent)
		},
	)
}

// YAML reads a program and outputs its statements as YAML.
type YAML struct {
	Indent int `default:"2" help:"Indent width for YAML output (0 for flow style)" short:"i"`

	Source string `arg:"" default:"-" help:"Source input file or '-' for default stdin." name:"source"`
}

// Run executes the yaml command.
func (y *YAML) Run(ctx context.Context) error {
	return formatProgram(ctx, y.Source, FormatYAML,
		func(p *lang.Program, w io.Writer) error {
			return p.FormatYAML(ctx, w, y.Indent)
		},
	)
}

// Tokens prints the items of each statement, one statement per line.
type Tokens struct {
	Source string `arg:"" default:"-" help:"Source input file or '-' for default stdin." name:"source"`
}

// Run executes the tokens command.
func (t *Tokens) Run(ctx context.Context) error {
	return formatProgram(ctx, t.Source, "tokens",
		func(p *lang.Program, w io.Writer) error {
			return p.FormatTokens(ctx, w)
		},
	)
}

// formatProgram reads the program at source and writes it with format.
func formatProgram(
	ctx context.Context,
	source, name string,
	format func(*lang.Program, io.Writer) error,
) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	text, err := readSource(ctx, source)
	if err != nil {
		return err
	}

	if err := format(lang.ParseProgram(text), stdoutFrom(ctx)); err != nil {
		return ErrMarshal.
			With(slog.String("format", name)).
			Wrap(err)
	}

	return nil
}

// readSource reads the named file, or stdin for "-".
func readSource(ctx context.Context, source string) (string, error) {
	var file *os.File

	if source == stdinSource {
		file = os.Stdin
	} else {
		var err error

		file, err = os.Open(source)
		if err != nil {
			return "", ErrReadScript.With(slog.String("file", source)).Wrap(err)
		}
		defer file.Close()
	}

	text, err := lang.ReadSource(ctx, file)
	if err != nil {
		return "", ErrReadScript.With(slog.String("file", source)).Wrap(err)
	}

	return text, nil
}
