package repl

import (
	"bytes"
	"context"
	"errors"
	"io"
	"slices"
	"sync"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/ardnew/pravda/lang"
)

// evalDoneMsg is sent when a program started from the REPL returns.
type evalDoneMsg struct {
	result lang.Value
	output string
	err    error // ErrInterrupted if the user stopped the program
}

// inputRequestMsg is sent when a running program waits for a line of input.
// The output holds everything the program printed since it last reported,
// ending with its prompt.
type inputRequestMsg struct{ output string }

// lineResult answers an inputRequestMsg.
type lineResult struct {
	line string
	err  error
}

// evaluator runs programs in the session environment, capturing what they
// print and whether one requested termination.
//
// Programs run off the UI goroutine. The model must not touch env while one
// is running.
type evaluator struct {
	interp *lang.Interpreter
	env    *lang.Env
	out    bytes.Buffer
	lines  chan lineResult
	done   <-chan struct{} // closed when the running program is stopped
	send   func(tea.Msg)   // delivers input requests to the UI
	draft  string          // last program returned by the editor

	mu     sync.Mutex
	cancel context.CancelCauseFunc

	exited bool
	code   int
}

func newEvaluator(cfg Config) *evaluator {
	e := &evaluator{
		env:   cfg.Env,
		lines: make(chan lineResult, 1),
	}

	opts := append(slices.Clone(cfg.Options),
		lang.WithOutput(&e.out),
		lang.WithInput(&lineReader{e: e}),
		lang.WithExit(e.exit),
	)

	e.interp = lang.New(opts...)

	return e
}

// exit records the status and stops the running program.
func (e *evaluator) exit(code int) {
	e.exited, e.code = true, code

	e.stop(nil)
}

// interrupt stops the running program, if any.
func (e *evaluator) interrupt() { e.stop(ErrInterrupted) }

func (e *evaluator) stop(cause error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.cancel != nil {
		e.cancel(cause)
	}
}

// answer hands a line typed by the user to the program waiting for it.
func (e *evaluator) answer(line string) {
	select {
	case e.lines <- lineResult{line: line}:
	default:
	}
}

// endInput reports end of input to the program waiting for a line.
func (e *evaluator) endInput() {
	select {
	case e.lines <- lineResult{err: io.EOF}:
	default:
	}
}

// run runs source and returns its result with everything it printed that
// was not already reported. It blocks until the program returns.
func (e *evaluator) run(ctx context.Context, source string) (lang.Value, string, error) {
	ctx, cancel := context.WithCancelCause(ctx)

	e.mu.Lock()
	e.cancel = cancel
	e.mu.Unlock()

	e.done = ctx.Done()

	// Drop an answer left over from an interrupted program.
	select {
	case <-e.lines:
	default:
	}

	result := e.interp.Run(ctx, source, e.env)
	err := context.Cause(ctx)

	e.mu.Lock()
	e.cancel = nil
	e.mu.Unlock()

	cancel(nil)

	if !errors.Is(err, ErrInterrupted) {
		err = nil
	}

	return result, e.takeOutput(), err
}

// start returns a command that runs source and reports an [evalDoneMsg].
func (e *evaluator) start(ctx context.Context, source string) tea.Cmd {
	return func() tea.Msg {
		result, out, err := e.run(ctx, source)

		return evalDoneMsg{result: result, output: out, err: err}
	}
}

func (e *evaluator) takeOutput() string {
	out := e.out.String()
	e.out.Reset()

	return out
}

// lineReader is the input of programs run by the REPL. Each read past the
// buffered line asks the UI for another one, since the terminal belongs to
// the REPL while a program runs.
type lineReader struct {
	e       *evaluator
	pending []byte
}

func (r *lineReader) Read(p []byte) (int, error) {
	if len(r.pending) == 0 {
		if r.e.send == nil {
			return 0, io.EOF
		}

		r.e.send(inputRequestMsg{output: r.e.takeOutput()})

		select {
		case res := <-r.e.lines:
			if res.err != nil {
				return 0, res.err
			}

			r.pending = append(r.pending, res.line...)
			r.pending = append(r.pending, '\n')

		case <-r.e.done:
			return 0, io.EOF
		}
	}

	n := copy(p, r.pending)
	r.pending = r.pending[n:]

	return n, nil
}
