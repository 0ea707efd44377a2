package log

//go:generate go tool stringer --linecomment --type Level,Format --output config_string.go

import (
	"fmt"
	"io"
	"iter"
	"log/slog"
	"strings"
	"time"
)

// Level represents the severity of a log message.
type Level slog.Level

const levelTraceMask = -8

const (
	LevelTrace Level = Level(levelTraceMask)  // trace
	LevelDebug Level = Level(slog.LevelDebug) // debug
	LevelInfo  Level = Level(slog.LevelInfo)  // info
	LevelWarn  Level = Level(slog.LevelWarn)  // warn
	LevelError Level = Level(slog.LevelError) // error
)

// DefaultLevel is the default log level.
const DefaultLevel = LevelInfo

// Levels returns an iterator over the names of all log levels, from the most
// verbose to the least.
func Levels() iter.Seq[string] {
	return names(LevelTrace, LevelDebug, LevelInfo, LevelWarn, LevelError)
}

// ParseLevel returns the level named by s, ignoring case, or [DefaultLevel]
// if s names none. Besides "trace", any name accepted by
// [slog.Level.UnmarshalText] is recognized, including offsets like "info+2".
func ParseLevel(s string) Level {
	s = strings.TrimSpace(s)

	if strings.EqualFold(s, LevelTrace.String()) {
		return LevelTrace
	}

	var l slog.Level
	if err := l.UnmarshalText([]byte(s)); err != nil {
		return DefaultLevel
	}

	return Level(l)
}

// Format represents the output format for log messages.
type Format int

const (
	FormatText Format = iota // text
	FormatJSON               // json
)

// DefaultFormat is the default log message format.
const DefaultFormat = FormatJSON

// Formats returns an iterator over the names of all log formats, starting
// with [DefaultFormat].
func Formats() iter.Seq[string] {
	return names(FormatJSON, FormatText)
}

// ParseFormat returns the format named by s, ignoring case, or
// [DefaultFormat] if s names none.
func ParseFormat(s string) Format {
	s = strings.TrimSpace(s)

	for _, f := range []Format{FormatJSON, FormatText} {
		if strings.EqualFold(s, f.String()) {
			return f
		}
	}

	return DefaultFormat
}

func names[T fmt.Stringer](values ...T) iter.Seq[string] {
	return func(yield func(string) bool) {
		for _, v := range values {
			if !yield(v.String()) {
				return
			}
		}
	}
}

// FormatTime defines a function that formats a time.Time value as a string.
// An empty result omits the time from log output.
type FormatTime func(time.Time) string

// DefaultTimeLayout is the default used when no valid time layout is provided.
const DefaultTimeLayout = time.RFC3339

// DefaultCaller is the default setting for including caller information
// in log output.
const DefaultCaller = false

// DefaultPretty is the default setting for pretty printing log output.
const DefaultPretty = true

// config holds the settings of a [Logger]. A config is never modified once a
// Logger holds it; deriving a new Logger copies it.
type config struct {
	output     io.Writer
	formatTime FormatTime
	level      Level
	format     Format
	caller     bool
	pretty     bool
}

// Option modifies the settings of a [Logger] being made.
type Option func(*config)

// makeConfig returns the default config for w with opts applied.
func makeConfig(w io.Writer, opts ...Option) config {
	var c config

	return c.with(append([]Option{WithDefaults(w)}, opts...)...)
}

// with returns a copy of c with opts applied.
func (c config) with(opts ...Option) config {
	for _, opt := range opts {
		if opt != nil {
			opt(&c)
		}
	}

	return c
}

// handlerOptions returns the slog options shared by every handler of c.
func (c config) handlerOptions() *slog.HandlerOptions {
	return &slog.HandlerOptions{
		AddSource: c.caller,
		Level:     slog.Level(c.level),
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			if len(groups) > 0 {
				return a
			}

			switch a.Key {
			case slog.TimeKey:
				if t, ok := a.Value.Any().(time.Time); ok {
					s := c.formatTime(t)
					if s == "" {
						return slog.Attr{}
					}

					a.Value = slog.StringValue(s)
				}

			case slog.LevelKey:
				// Name custom levels, so trace is "TRACE" and not "DEBUG-4".
				if l, ok := a.Value.Any().(slog.Level); ok {
					a.Value = slog.StringValue(strings.ToUpper(Level(l).String()))
				}
			}

			return a
		},
	}
}

// handler returns the slog handler writing records as c describes.
func (c config) handler() slog.Handler {
	opts := c.handlerOptions()

	switch {
	case c.format != FormatJSON && c.format != FormatText:
		return slog.DiscardHandler

	case c.pretty:
		return newPrettyHandler(c.output, c.format, opts)

	case c.format == FormatJSON:
		return slog.NewJSONHandler(c.output, opts)

	default:
		return slog.NewTextHandler(c.output, opts)
	}
}

// WithDefaults returns an option restoring every setting to its default,
// writing to w. A nil w discards all output.
func WithDefaults(w io.Writer) Option {
	return func(c *config) {
		*c = config{
			formatTime: makeFormatTimeFunc(DefaultTimeLayout),
			level:      DefaultLevel,
			format:     DefaultFormat,
			caller:     DefaultCaller,
			pretty:     DefaultPretty,
		}

		WithOutput(w)(c)
	}
}

// WithOutput returns an option setting the writer log messages go to.
// A nil w discards all output.
func WithOutput(w io.Writer) Option {
	if w == nil {
		w = io.Discard
	}

	return func(c *config) { c.output = w }
}

// WithLevel returns an option setting the minimum level logged.
func WithLevel(level Level) Option {
	return func(c *config) { c.level = level }
}

// WithFormat returns an option setting the output format.
func WithFormat(format Format) Option {
	return func(c *config) { c.format = format }
}

// WithTimeLayout returns an option setting the layout of log timestamps.
//
// The layout may name one of the layouts of the [time] package, ignoring case
// and punctuation ("RFC3339", "rfc-3339-nano", "Kitchen"), or one of the
// aliases "ms", "us" and "ns". Any other layout is passed verbatim to
// [time.Time.Format]. A blank layout, or "none", omits timestamps.
func WithTimeLayout(layout string) Option {
	format := makeFormatTimeFunc(layout)

	return func(c *config) { c.formatTime = format }
}

// WithCaller returns an option setting whether log messages include the file
// and line of their caller.
func WithCaller(enable bool) Option {
	return func(c *config) { c.caller = enable }
}

// WithPretty returns an option setting whether log output is colorized.
// Pretty text output leaves strings unquoted. Pretty JSON output puts each
// field on its own line.
func WithPretty(enable bool) Option {
	return func(c *config) { c.pretty = enable }
}

// timeLayout maps the normalized names of time layouts to the layouts.
var timeLayout = map[string]string{
	"none": "",

	"rfc3339":     time.RFC3339,
	"rfc3339nano": time.RFC3339Nano,
	"rfc822":      time.RFC822,
	"rfc822z":     time.RFC822Z,
	"rfc850":      time.RFC850,
	"rfc1123":     time.RFC1123,
	"rfc1123z":    time.RFC1123Z,
	"ansic":       time.ANSIC,
	"unixdate":    time.UnixDate,
	"rubydate":    time.RubyDate,
	"kitchen":     time.Kitchen,
	"datetime":    time.DateTime,
	"dateonly":    time.DateOnly,
	"timeonly":    time.TimeOnly,

	"stamp":      time.Stamp,
	"stampmilli": time.StampMilli,
	"stampmicro": time.StampMicro,
	"stampnano":  time.StampNano,
	"ms":         time.StampMilli,
	"us":         time.StampMicro,
	"ns":         time.StampNano,
}

// normalizeLayout reduces a layout name to its lowercase letters and digits.
func normalizeLayout(layout string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			return r
		case r >= 'A' && r <= 'Z':
			return r + 'a' - 'A'
		default:
			return -1
		}
	}, layout)
}

func makeFormatTimeFunc(layout string) FormatTime {
	key := normalizeLayout(layout)

	if std, ok := timeLayout[key]; ok {
		layout = std
	}

	if key == "" || layout == "" {
		return func(time.Time) string { return "" }
	}

	return func(t time.Time) string { return t.Format(layout) }
}
