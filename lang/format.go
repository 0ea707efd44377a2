package lang

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"slices"
	"strings"

	"github.com/goccy/go-yaml"
)

// Program is the statement structure of a source text.
type Program struct {
	Statements []Statement
}

// ParseProgram splits source into statements.
func ParseProgram(source string) *Program {
	stmts, _ := statements(source)

	return &Program{Statements: slices.Clone(stmts)}
}

// ToNative converts the program to a list of statement maps.
func (p *Program) ToNative() []any {
	list := make([]any, len(p.Statements))
	for i, stmt := range p.Statements {
		list[i] = stmt.ToNative()
	}

	return list
}

// MarshalJSON implements json.Marshaler for Program.
func (p *Program) MarshalJSON() ([]byte, error) {
	return json.Marshal(p.ToNative())
}

// Format writes the program in normalized source syntax. Literal items are
// rewritten in canonical form, blocks and lambdas are kept as written, and
// statements are separated by semicolons, one per line when indent is
// positive. The output runs the same as the input.
func (p *Program) Format(_ context.Context, w io.Writer, indent int) error {
	sep := "; "
	if indent > 0 {
		sep = ";\n"
	}

	for i, stmt := range p.Statements {
		if i > 0 {
			if _, err := fmt.Fprint(w, sep); err != nil {
				return err
			}
		}

		if stmt.Define {
			if _, err := fmt.Fprint(w, canonicalItems(stmt.Target), " = "); err != nil {
				return err
			}
		}

		if _, err := fmt.Fprint(w, canonicalItems(stmt.Source)); err != nil {
			return err
		}
	}

	// Final newline
	_, err := fmt.Fprintln(w)

	return err
}

// FormatJSON writes the program structure as JSON to the writer.
func (p *Program) FormatJSON(_ context.Context, w io.Writer, indent int) error {
	var (
		jsonData []byte
		err      error
	)

	if indent > 0 {
		jsonData, err = json.MarshalIndent(p, "", strings.Repeat(" ", indent))
	} else {
		jsonData, err = json.Marshal(p)
	}

	if err != nil {
		return err
	}

	_, err = fmt.Fprintln(w, string(jsonData))

	return err
}

// FormatYAML writes the program structure as YAML to the writer.
func (p *Program) FormatYAML(ctx context.Context, w io.Writer, indent int) error {
	yamlData, err := yaml.MarshalContext(ctx, p.ToNative(), yamlOptions(indent)...)
	if err != nil {
		return err
	}

	_, err = fmt.Fprint(w, string(yamlData))

	return err
}

// FormatTokens writes the items of each statement, one statement per line,
// with items separated by tabs.
func (p *Program) FormatTokens(_ context.Context, w io.Writer) error {
	for _, stmt := range p.Statements {
		line := TokenizeExpr(stmt.Source)

		if stmt.Define {
			line = append(append(TokenizeExpr(stmt.Target), "="), line...)
		}

		if _, err := fmt.Fprintln(w, strings.Join(line, "\t")); err != nil {
			return err
		}
	}

	return nil
}

// FormatValue writes v in the named output format: "json", "yaml", or the
// canonical source form for anything else.
func FormatValue(ctx context.Context, w io.Writer, v Value, format string, indent int) error {
	var (
		data []byte
		err  error
	)

	switch format {
	case "json":
		if indent > 0 {
			data, err = json.MarshalIndent(v, "", strings.Repeat(" ", indent))
		} else {
			data, err = json.Marshal(v)
		}

		if err == nil {
			data = append(data, '\n')
		}

	case "yaml":
		data, err = yaml.MarshalContext(ctx, v, yamlOptions(indent)...)

	default:
		data = []byte(v.Canonical() + "\n")
	}

	if err != nil {
		return err
	}

	_, err = w.Write(data)

	return err
}

func yamlOptions(indent int) []yaml.EncodeOption {
	if indent > 0 {
		return []yaml.EncodeOption{yaml.Indent(indent)}
	}

	return []yaml.EncodeOption{yaml.Flow(true)}
}

func canonicalItems(text string) string {
	tokens := TokenizeExpr(text)

	part := make([]string, len(tokens))
	for i, tok := range tokens {
		part[i] = canonicalItem(tok)
	}

	return strings.Join(part, " ")
}

// canonicalItem normalizes one item. Function and block values cannot be
// rendered back to their source, so their text is used unchanged; lists are
// normalized element by element.
func canonicalItem(tok string) string {
	switch v := Parse(tok); v.Kind() {
	case KindFunction, KindBlock:
		return tok

	case KindList:
		return "[" + canonicalItems(tok[1:len(tok)-1]) + "]"

	default:
		return v.Canonical()
	}
}
