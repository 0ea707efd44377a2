package log

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"slices"
	"strconv"
	"strings"
	"sync"
	"time"
)

// ANSI color codes for pretty printing.
const (
	colorReset   = "\033[0m"
	colorGray    = "\033[90m"
	colorRed     = "\033[31m"
	colorGreen   = "\033[32m"
	colorYellow  = "\033[33m"
	colorBlue    = "\033[34m"
	colorMagenta = "\033[35m"
	colorCyan    = "\033[36m"
)

// prettyHandler writes colorized records for a reader at a terminal.
//
// In text format a record is one line of key=value fields. In JSON format
// each field is on its own indented line. Strings are unquoted in both.
type prettyHandler struct {
	opts   slog.HandlerOptions
	mu     *sync.Mutex
	w      io.Writer
	format Format
	attrs  []slog.Attr // keys already qualified by their groups
	group  string      // group of the record's own attrs
}

func newPrettyHandler(
	w io.Writer,
	format Format,
	opts *slog.HandlerOptions,
) *prettyHandler {
	return &prettyHandler{
		opts:   *opts,
		mu:     &sync.Mutex{},
		w:      w,
		format: format,
	}
}

func (h *prettyHandler) Enabled(_ context.Context, level slog.Level) bool {
	threshold := slog.LevelInfo
	if h.opts.Level != nil {
		threshold = h.opts.Level.Level()
	}

	return level >= threshold
}

func (h *prettyHandler) Handle(_ context.Context, r slog.Record) error {
	fields := make([]slog.Attr, 0, 4+len(h.attrs)+r.NumAttrs())

	if !r.Time.IsZero() {
		fields = append(fields, h.replace(nil, slog.Time(slog.TimeKey, r.Time)))
	}

	fields = append(fields, h.replace(nil, slog.Any(slog.LevelKey, r.Level)))

	if h.opts.AddSource {
		if src := r.Source(); src != nil {
			fields = append(fields, h.replace(nil,
				slog.String(slog.SourceKey, fmt.Sprintf("%s:%d", src.File, src.Line))))
		}
	}

	fields = append(fields, h.replace(nil, slog.String(slog.MessageKey, r.Message)))
	fields = append(fields, h.attrs...)

	r.Attrs(func(a slog.Attr) bool {
		fields = h.appendAttr(fields, h.group, a)

		return true
	})

	buf := new(bytes.Buffer)

	if h.format == FormatJSON {
		h.writeJSON(buf, fields)
	} else {
		h.writeText(buf, fields)
	}

	buf.WriteByte('\n')

	h.mu.Lock()
	defer h.mu.Unlock()

	_, err := h.w.Write(buf.Bytes())

	return err
}

func (h *prettyHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	if len(attrs) == 0 {
		return h
	}

	c := *h
	c.attrs = slices.Clip(h.attrs)

	for _, a := range attrs {
		c.attrs = c.appendAttr(c.attrs, h.group, a)
	}

	return &c
}

func (h *prettyHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}

	c := *h
	c.group = qualify(h.group, name)

	return &c
}

// appendAttr appends a to fields, flattening groups into dotted keys.
func (h *prettyHandler) appendAttr(
	fields []slog.Attr,
	group string,
	a slog.Attr,
) []slog.Attr {
	a.Value = a.Value.Resolve()

	if a.Value.Kind() == slog.KindGroup {
		sub := qualify(group, a.Key)
		for _, ga := range a.Value.Group() {
			fields = h.appendAttr(fields, sub, ga)
		}

		return fields
	}

	var groups []string
	if group != "" {
		groups = strings.Split(group, ".")
	}

	a = h.replace(groups, a)
	if a.Equal(slog.Attr{}) {
		return fields
	}

	a.Key = qualify(group, a.Key)

	return append(fields, a)
}

// replace applies the configured ReplaceAttr to a.
func (h *prettyHandler) replace(groups []string, a slog.Attr) slog.Attr {
	if h.opts.ReplaceAttr == nil {
		return a
	}

	return h.opts.ReplaceAttr(groups, a)
}

func qualify(group, key string) string {
	if group == "" {
		return key
	}

	return group + "." + key
}

func (h *prettyHandler) writeText(buf *bytes.Buffer, fields []slog.Attr) {
	for _, a := range fields {
		if a.Key == "" {
			continue
		}

		if buf.Len() > 0 {
			buf.WriteByte(' ')
		}

		buf.WriteString(colorGray + a.Key + colorReset + "=")
		writeValue(buf, a)
	}
}

func (h *prettyHandler) writeJSON(buf *bytes.Buffer, fields []slog.Attr) {
	buf.WriteString("{")

	first := true

	for _, a := range fields {
		if a.Key == "" {
			continue
		}

		if !first {
			buf.WriteByte(',')
		}

		first = false

		buf.WriteString("\n  " + colorGray + a.Key + colorReset + ": ")
		writeValue(buf, a)
	}

	buf.WriteString("\n}")
}

// writeValue writes the value of a in the color of its kind. The level field
// is colored by severity.
func writeValue(buf *bytes.Buffer, a slog.Attr) {
	color, text := colorOf(a.Value)

	if a.Key == slog.LevelKey {
		if l, ok := levelNamed(text); ok {
			color = levelColor(l)
		}
	}

	buf.WriteString(color + text + colorReset)
}

func colorOf(v slog.Value) (color, text string) {
	switch v.Kind() {
	case slog.KindString:
		return colorCyan, v.String()

	case slog.KindInt64:
		return colorYellow, strconv.FormatInt(v.Int64(), 10)

	case slog.KindUint64:
		return colorYellow, strconv.FormatUint(v.Uint64(), 10)

	case slog.KindFloat64:
		return colorYellow, strconv.FormatFloat(v.Float64(), 'g', -1, 64)

	case slog.KindBool:
		if v.Bool() {
			return colorGreen, "true"
		}

		return colorRed, "false"

	case slog.KindDuration:
		return colorMagenta, v.Duration().String()

	case slog.KindTime:
		return colorBlue, v.Time().Format(time.RFC3339)

	case slog.KindAny:
		switch a := v.Any().(type) {
		case slog.Level:
			return levelColor(Level(a)), strings.ToUpper(Level(a).String())
		case nil:
			return colorGray, "null"
		case error:
			return colorRed, a.Error()
		}
	}

	return colorCyan, v.String()
}

// levelNamed reports the level whose upper-case name is s, as written by
// ReplaceAttr for the level field.
func levelNamed(s string) (Level, bool) {
	for _, l := range []Level{LevelTrace, LevelDebug, LevelInfo, LevelWarn, LevelError} {
		if s == strings.ToUpper(l.String()) {
			return l, true
		}
	}

	return 0, false
}

func levelColor(l Level) string {
	switch {
	case l >= LevelError:
		return colorRed
	case l >= LevelWarn:
		return colorYellow
	case l >= LevelInfo:
		return colorGreen
	default:
		return colorBlue
	}
}
