package repl

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/ardnew/pravda/lang"
)

// variadicMark prefixes a parameter that absorbs every remaining argument.
const variadicMark = "~"

// signatureHintStyle styles for parameter hints.
var (
	signatureStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	signatureNameStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("6")).
				Bold(true)
	currentParamStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("11")).
				Bold(true)
	signatureSeparatorStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
)

// functionCall represents a detected function application in the input.
type functionCall struct {
	name     string // head item of the application
	argIndex int    // current argument index (0-based)
	inCall   bool   // true if the cursor is past the head item
}

// signature is one displayable parameter list of a function.
type signature struct {
	name   string
	params []string
}

// detectFunctionCall finds the application enclosing the cursor: the
// innermost unclosed '(' before it, or the start of the current statement.
// The head item names the function and the items after it are arguments.
func detectFunctionCall(input string, cursor int) functionCall {
	if cursor > len(input) {
		cursor = len(input)
	}

	var (
		open   []int // byte offsets of unclosed delimiters
		kinds  []byte
		quoted bool
		start  int
	)

	for i := 0; i < cursor; i++ {
		ch := input[i]

		if quoted {
			if ch == '"' {
				quoted = false
			}

			continue
		}

		switch ch {
		case '"':
			quoted = true

		case '(', '[', '{':
			open = append(open, i)
			kinds = append(kinds, ch)

		case ')', ']', '}':
			if len(open) > 0 {
				open = open[:len(open)-1]
				kinds = kinds[:len(kinds)-1]
			}

		case ';', '=':
			if len(open) == 0 {
				start = i + 1
			}
		}
	}

	// The call is opened by the innermost '('. Any delimiter opened after it
	// belongs to the argument being typed.
	depth := len(open)
	for depth > 0 && kinds[depth-1] != '(' {
		depth--
	}

	if depth > 0 {
		start = open[depth-1] + 1
	}

	// Text of the argument under construction when it is still open.
	pending := quoted || depth < len(open)

	segment := input[start:cursor]
	if depth < len(open) {
		segment = input[start:open[depth]]
	}

	items := lang.TokenizeExpr(segment)
	if len(items) == 0 {
		return functionCall{inCall: false}
	}

	argIndex := len(items) - 2
	if pending || strings.HasSuffix(segment, " ") || strings.HasSuffix(segment, "\t") {
		argIndex = len(items) - 1
	}

	if argIndex < 0 {
		return functionCall{inCall: false}
	}

	return functionCall{
		name:     items[0],
		argIndex: argIndex,
		inCall:   true,
	}
}

// getSignatures returns the parameter lists of the function bound to name
// in env, one per clause for user-defined functions. Host, module and
// foreign functions take any number of arguments.
func getSignatures(env *lang.Env, name string) []signature {
	if env == nil {
		return nil
	}

	v, ok := env.Get(name)
	if !ok {
		return nil
	}

	fn, ok := v.Function()
	if !ok {
		return nil
	}

	if fn.Kind() != lang.FuncUser {
		return []signature{{name: name, params: []string{variadicMark + "args"}}}
	}

	clauses := fn.Clauses()
	sigs := make([]signature, 0, len(clauses))

	for _, c := range clauses {
		sigs = append(sigs, signature{name: name, params: paramNames(c.Pattern)})
	}

	return sigs
}

// paramNames renders each pattern element in canonical form.
func paramNames(pattern []lang.Value) []string {
	names := make([]string, len(pattern))
	for i, p := range pattern {
		names[i] = p.Canonical()
	}

	return names
}

// formatSignature formats a signature as an application.
func formatSignature(sig signature) string {
	if len(sig.params) == 0 {
		return "(" + sig.name + ")"
	}

	return "(" + sig.name + " " + strings.Join(sig.params, " ") + ")"
}

// renderSignatureHint renders every signature with the current parameter
// highlighted.
func renderSignatureHint(sigs []signature, currentArgIdx int) string {
	parts := make([]string, 0, len(sigs))

	for _, sig := range sigs {
		parts = append(parts, renderSignature(sig, currentArgIdx))
	}

	return strings.Join(parts, signatureSeparatorStyle.Render("  |  "))
}

func renderSignature(sig signature, currentArgIdx int) string {
	var b strings.Builder

	b.WriteString(signatureStyle.Render("("))
	b.WriteString(signatureNameStyle.Render(sig.name))

	for i, param := range sig.params {
		b.WriteString(signatureSeparatorStyle.Render(" "))

		// Variadic parameters stay highlighted past their own index.
		variadic := strings.HasPrefix(param, variadicMark)

		if (variadic && currentArgIdx >= i) ||
			(!variadic && currentArgIdx == i) {
			b.WriteString(currentParamStyle.Render(param))
		} else {
			b.WriteString(signatureStyle.Render(param))
		}
	}

	b.WriteString(signatureStyle.Render(")"))

	return b.String()
}
