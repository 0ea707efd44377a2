package cmd

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"os"
	"reflect"
	"slices"
	"strings"

	"github.com/alecthomas/kong"

	"github.com/ardnew/pravda/lang"
	"github.com/ardnew/pravda/log"
	"github.com/ardnew/pravda/profile"
)

// defaultConfigIndent is the number of spaces to use for indentation
// when generating the default configuration file.
const defaultConfigIndent = 2

// Init generates a default configuration file with current flag values.
type Init struct {
	Force bool `help:"Overwrite existing configuration file" short:"f"`
}

// Run executes the init command.
func (i *Init) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	confPath := varFrom(ctx, ConfigIdentifier)
	if confPath == "" {
		panic("internal error: config path undefined")
	}

	// Check if file exists and force not set
	_, err = os.Stat(confPath)
	if err == nil && !i.Force {
		return ErrWriteConfig.
			With(slog.String("file", confPath)).
			With(slog.Bool("exists", true)).
			Wrap(ErrFileExists)
	}

	file, err := os.Create(confPath)
	if err != nil {
		return ErrWriteConfig.
			With(slog.String("file", confPath)).
			Wrap(err)
	}
	defer file.Close()

	err = i.buildProgram(ctx).Format(ctx, file, defaultConfigIndent)
	if err != nil {
		return ErrWriteConfig.
			With(slog.String("file", confPath)).
			Wrap(err)
	}

	log.DebugContext(
		ctx,
		"initialized configuration file",
		slog.String("path", confPath),
	)

	return nil
}

// buildProgram constructs the config program from current flag values, one
// definition per flag.
func (i *Init) buildProgram(ctx context.Context) *lang.Program {
	ktx := kongContextFrom(ctx)

	var src bytes.Buffer

	prefixIgnore := []string{"help", profile.Tag}

	for _, flag := range ktx.Model.Flags {
		if flag.Hidden || slices.ContainsFunc(prefixIgnore, func(s string) bool {
			return strings.HasPrefix(flag.Name, s)
		}) {
			continue
		}

		val, ok := flagValue(ktx.FlagValue(flag))
		if !ok {
			continue
		}

		if src.Len() > 0 {
			src.WriteString(";\n")
		}

		fmt.Fprintf(&src, "%s = %s", flag.Name, val.Canonical())
	}

	return lang.ParseProgram(src.String())
}

// flagValue converts a parsed flag value to a Pravda value. Unset values
// and empty strings or lists report false.
func flagValue(val any) (lang.Value, bool) {
	switch v := val.(type) {
	case nil:
		return lang.Null(), false

	case bool:
		return lang.Bool(v), true

	case string:
		if v == "" {
			return lang.Null(), false
		}

		return lang.String(v), true

	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64,
		float32, float64:
		return lang.Number(reflect.ValueOf(v).Convert(reflect.TypeFor[float64]()).Float()), true

	case kong.Vars:
		return lang.Null(), false
	}

	rv := reflect.ValueOf(val)
	if rv.Kind() != reflect.Slice {
		return lang.String(fmt.Sprint(val)), true
	}

	if rv.Len() == 0 {
		return lang.Null(), false
	}

	items := make([]lang.Value, 0, rv.Len())

	for i := range rv.Len() {
		if item, ok := flagValue(rv.Index(i).Interface()); ok {
			items = append(items, item)
		}
	}

	return lang.List(items...), true
}
