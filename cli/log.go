package cli

import (
	"context"
	"log/slog"
	"os"
	"slices"
	"strconv"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/mattn/go-isatty"

	"github.com/ardnew/pravda/log"
)

// logFormat is a custom type that configures the logger format as a side
// effect of parsing via encoding.TextUnmarshaler.
type logFormat string

// UnmarshalText implements encoding.TextUnmarshaler.
// As Kong parses the --log-format flag, this method is called, allowing us
// to configure the logger early enough to affect error messages during parsing.
func (f *logFormat) UnmarshalText(text []byte) error {
	*f = logFormat(text)
	log.Config(log.WithFormat(log.ParseFormat(string(*f))))

	return nil
}

// logLevel is a custom type that configures the logger level as a side
// effect of parsing via encoding.TextUnmarshaler.
type logLevel string

// UnmarshalText implements encoding.TextUnmarshaler.
// As Kong parses the --log-level flag, this method is called, allowing us
// to configure the logger early enough to affect error messages during parsing.
func (l *logLevel) UnmarshalText(text []byte) error {
	*l = logLevel(text)
	log.Config(log.WithLevel(log.ParseLevel(string(*l))))

	return nil
}

type logConfig struct {
	Level      logLevel  `default:"${logLevel}"  enum:"${logLevels}"  help:"Set log level."`
	Format     logFormat `default:"${logFormat}" enum:"${logFormats}" help:"Set log format."`
	TimeLayout string    `default:"RFC3339"                            help:"Set timestamp format, a time package layout or its name (none disables)."`
	Caller     bool      `default:"false"                              help:"Include caller information."                                                 negatable:""`
	Pretty     bool      `default:"true"                               help:"Colorize log output written to a terminal."                                  negatable:""`
}

func (*logConfig) vars() kong.Vars {
	return kong.Vars{
		"logLevel":   log.DefaultLevel.String(),
		"logLevels":  strings.Join(slices.Collect(log.Levels()), ","),
		"logFormat":  log.DefaultFormat.String(),
		"logFormats": strings.Join(slices.Collect(log.Formats()), ","),
	}
}

func (*logConfig) group() kong.Group {
	var group kong.Group

	group.Key = "log"
	group.Title = "Logging options"

	return group
}

// start applies the parsed logger configuration. Colors are only used when
// the log output is a terminal.
func (f *logConfig) start(ctx context.Context) {
	pretty := f.Pretty && isTerminal(os.Stderr)

	log.Config(
		log.WithLevel(log.ParseLevel(string(f.Level))),
		log.WithFormat(log.ParseFormat(string(f.Format))),
		log.WithTimeLayout(f.TimeLayout),
		log.WithCaller(f.Caller),
		log.WithPretty(pretty),
	)

	log.DebugContext(ctx, "logger initialized",
		slog.String("level", string(f.Level)),
		slog.String("format", string(f.Format)),
		slog.String("time", f.TimeLayout),
		slog.Bool("caller", f.Caller),
		slog.Bool("pretty", pretty),
	)
}

func isTerminal(f *os.File) bool {
	fd := f.Fd()

	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

// scan applies the logging flags in args before Kong parses them, so the
// logger is configured wherever the flags appear on the command line and
// before any parse error is logged. Kong applies them again while parsing.
// Scanning stops at "--".
func (f *logConfig) scan(args []string) {
	for i := 0; i < len(args); i++ {
		if args[i] == "--" {
			return
		}

		name, value, assigned := strings.Cut(args[i], "=")

		key, negated := strings.CutPrefix(name, "--no-log-")
		if !negated {
			var ok bool
			if key, ok = strings.CutPrefix(name, "--log-"); !ok {
				continue
			}
		}

		switch key {
		case "level", "format", "time-layout":
			if negated {
				continue
			}

			if !assigned {
				if i+1 == len(args) || strings.HasPrefix(args[i+1], "-") {
					continue
				}

				i++
				value = args[i]
			}

			f.set(key, value)

		case "caller", "pretty":
			enable := true

			if assigned {
				v, err := strconv.ParseBool(value)
				if err != nil {
					continue
				}

				enable = v
			}

			f.set(key, strconv.FormatBool(enable != negated))
		}
	}
}

// set applies the value of one logging flag, named without its prefix.
func (f *logConfig) set(key, value string) {
	switch key {
	case "level":
		_ = f.Level.UnmarshalText([]byte(value))

	case "format":
		_ = f.Format.UnmarshalText([]byte(value))

	case "time-layout":
		f.TimeLayout = value
		log.Config(log.WithTimeLayout(value))

	case "caller":
		f.Caller = value == "true"
		log.Config(log.WithCaller(f.Caller))

	case "pretty":
		f.Pretty = value == "true"
		log.Config(log.WithPretty(f.Pretty && isTerminal(os.Stderr)))
	}
}
