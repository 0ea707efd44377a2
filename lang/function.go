package lang

import (
	"context"
	"log/slog"
	"slices"
	"strings"
)

// FuncKind identifies the variant of a [Function].
type FuncKind int

const (
	// FuncNative is an operation implemented by the host.
	FuncNative FuncKind = iota

	// FuncUser is a function defined by clauses in the language itself.
	FuncUser

	// FuncModule is a program loaded from source whose result may itself be
	// a function.
	FuncModule

	// FuncForeign is source text executed by a [ForeignEngine].
	FuncForeign
)

// Native is the contract of a host operation. The arguments are already
// resolved and env is a snapshot of the caller's environment that the
// operation may read or extend without affecting the caller.
type Native func(ctx context.Context, in *Interpreter, env *Env, args []Value) Value

// Clause is one pattern/body pair of a user-defined function.
//
// A pattern element is either a Symbol naming a parameter or any other
// literal that must match the corresponding argument exactly. The body is kept
// as raw text and re-read on every call. Scope is the environment captured
// when the clause was defined.
type Clause struct {
	Scope   *Env
	Body    string
	Pattern []Value
}

// Function is a callable value. The zero Function is not usable; construct one
// with [NewNative], [NewUser], [NewModule] or [NewForeign].
type Function struct {
	native  Native
	name    string // native identifier, used only for display
	source  string // module or foreign source
	imports []string
	clauses []Clause
	kind    FuncKind
}

// NewNative returns a host function displayed under name.
func NewNative(name string, fn Native) *Function {
	return &Function{kind: FuncNative, name: name, native: fn}
}

// NewUser returns a user-defined function holding the given clauses.
func NewUser(clauses ...Clause) *Function {
	return &Function{kind: FuncUser, clauses: clauses}
}

// NewModule returns a function that runs source when called.
func NewModule(source string) *Function {
	return &Function{kind: FuncModule, source: source}
}

// NewForeign returns a function that hands source to the foreign engine,
// which must first provide the named imports.
func NewForeign(source string, imports ...string) *Function {
	return &Function{kind: FuncForeign, source: source, imports: imports}
}

// Kind reports the variant of f.
func (f *Function) Kind() FuncKind { return f.kind }

// Name returns the identifier of a native function.
func (f *Function) Name() string { return f.name }

// Source returns the program text of a module or foreign function.
func (f *Function) Source() string { return f.source }

// Imports returns the host modules a foreign function requires.
func (f *Function) Imports() []string { return slices.Clone(f.imports) }

// Clauses returns the clauses of a user-defined function in definition order.
func (f *Function) Clauses() []Clause { return slices.Clone(f.clauses) }

// Arity returns the shared pattern length of a user-defined function, or -1
// when f has no clauses.
func (f *Function) Arity() int {
	if len(f.clauses) == 0 {
		return -1
	}

	return len(f.clauses[0].Pattern)
}

// Extend returns a new function with c appended to the clauses of f.
// It fails with [ErrArityConflict] if the pattern length of c differs from
// the arity of f, in which case f is returned unchanged.
func (f *Function) Extend(c Clause) (*Function, error) {
	if f.kind != FuncUser {
		return f, ErrNotUserDefined
	}

	if arity := f.Arity(); arity >= 0 && arity != len(c.Pattern) {
		return f, ErrArityConflict.With(
			slog.Int("arity", arity),
			slog.Int("pattern", len(c.Pattern)),
		)
	}

	clauses := make([]Clause, len(f.clauses), len(f.clauses)+1)
	copy(clauses, f.clauses)

	return NewUser(append(clauses, c)...), nil
}

// String renders f in the form shared by the display and canonical
// renderings of a function value.
func (f *Function) String() string {
	switch f.kind {
	case FuncNative:
		return "<Built-in function: " + f.name + ">"

	case FuncUser:
		var params string
		if n := len(f.clauses); n > 0 {
			params = renderItems(f.clauses[n-1].Pattern)
		}

		return "<User-defined function: (" + params + ")>"

	case FuncModule:
		return "<Module function: " + f.source + ">"

	case FuncForeign:
		return "<Foreign function: " + f.source + ">"

	default:
		return "<function>"
	}
}

// weight is the number coercion of a function value.
func (f *Function) weight() float64 {
	switch f.kind {
	case FuncUser:
		return float64(len(f.clauses))

	case FuncModule, FuncForeign:
		return float64(len(f.source))

	default:
		return 0
	}
}

func renderItems(items []Value) string {
	part := make([]string, len(items))
	for i, item := range items {
		part[i] = item.Canonical()
	}

	return strings.Join(part, " ")
}
