package lang

import (
	"context"
	"io"
	"os"

	"github.com/ardnew/pravda/log"
)

// Loader resolves identifiers that are not bound in the environment, typically
// by reading a file of that name.
type Loader interface {
	// Load returns the value named by name and whether it was found.
	Load(ctx context.Context, name string) (Value, bool)
}

// ForeignEngine executes the source of a foreign function.
type ForeignEngine interface {
	// Exec runs source with the named host modules imported and args bound
	// as the program's arguments.
	Exec(ctx context.Context, source string, imports []string, args []Value) (Value, error)
}

// Interpreter evaluates programs. It holds only host collaborators; all
// program state lives in the [Env] passed to each call.
//
// The zero Interpreter is usable: it has no loader, no foreign engine, writes
// to os.Stdout and does not log.
type Interpreter struct {
	loader  Loader
	foreign ForeignEngine
	output  io.Writer
	input   io.Reader
	exit    func(code int)
	logger  log.Logger
}

// Option configures an [Interpreter].
type Option func(*Interpreter)

// WithLoader sets the resolver consulted for unbound identifiers.
func WithLoader(loader Loader) Option {
	return func(in *Interpreter) {
		in.loader = loader
	}
}

// WithForeign sets the engine that executes foreign functions.
// Without one every foreign call yields Null.
func WithForeign(engine ForeignEngine) Option {
	return func(in *Interpreter) {
		in.foreign = engine
	}
}

// WithLogger sets the structured logger for trace-level debugging.
// If not provided, the logger is zero-valued and all logging is a no-op.
func WithLogger(logger log.Logger) Option {
	return func(in *Interpreter) {
		in.logger = logger
	}
}

// WithOutput sets the writer that programs print to.
func WithOutput(w io.Writer) Option {
	return func(in *Interpreter) {
		in.output = w
	}
}

// WithInput sets the reader that programs read lines from. If nil, lines are
// read interactively from the terminal.
func WithInput(r io.Reader) Option {
	return func(in *Interpreter) {
		in.input = r
	}
}

// WithExit sets the function called when a program requests termination.
func WithExit(exit func(code int)) Option {
	return func(in *Interpreter) {
		in.exit = exit
	}
}

// New returns an interpreter configured by opts.
func New(opts ...Option) *Interpreter {
	in := &Interpreter{
		output: os.Stdout,
		exit:   os.Exit,
	}

	for _, opt := range opts {
		opt(in)
	}

	return in
}

// Logger returns the logger of in.
func (in *Interpreter) Logger() log.Logger { return in.logger }

// Output returns the writer programs print to.
func (in *Interpreter) Output() io.Writer {
	if in.output == nil {
		return os.Stdout
	}

	return in.output
}

// Input returns the reader programs read lines from, or nil when lines are
// read interactively.
func (in *Interpreter) Input() io.Reader { return in.input }

// Exit terminates the program with the given status code.
func (in *Interpreter) Exit(code int) {
	if in.exit == nil {
		os.Exit(code)
	}

	in.exit(code)
}

// Load resolves name through the loader.
func (in *Interpreter) Load(ctx context.Context, name string) (Value, bool) {
	if in.loader == nil {
		return Null(), false
	}

	return in.loader.Load(ctx, name)
}
