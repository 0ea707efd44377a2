package repl

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/lipgloss"
	"github.com/sahilm/fuzzy"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/ardnew/pravda/lang"
	"github.com/ardnew/pravda/log"
	"github.com/ardnew/pravda/pkg"
)

// editDoneMsg is sent when the editor returns a non-empty program.
type editDoneMsg struct{ source string }

// editCancelledMsg is sent when the user cleared the editor content.
type editCancelledMsg struct{}

// editErrorMsg is sent when the editor could not be run.
type editErrorMsg struct{ err error }

const (
	evalPrompt = "➜ "
	ctrlPrompt = " :"
)

func helpMessage() string {
	return `
: Commands (press Esc to toggle mode):

  help     Print this cruft
  list     List bound names
  edit     Edit a program in external $EDITOR and run it
  clear    Clear screen
  quit     Exit REPL

Usage:
  Type a program to run it; definitions persist between lines
  Completions appear automatically as you type
  Press Tab / Shift-Tab to cycle through candidates
  Press Space to accept the current candidate
  Press Esc to toggle between eval and command modes
  Use Up/Down arrows for history navigation (mode switches automatically)
  Use Shift+Up/Shift+Down for history navigation within current mode only
  Use Alt+Up/Alt+Down to switch to command mode and navigate command history
    (restores original mode when reaching end of history)
  Press Ctrl+C to interrupt a running program
  Press Ctrl+C on empty line or Ctrl+D to exit
`
}

// inputMode represents the current input mode.
type inputMode int

const (
	modeEval inputMode = iota
	modeCtrl
)

// Styles.
var (
	promptStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("6")).
			Bold(true)
	ctrlPromptStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("5")).
			Bold(true)
	inputStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("15"))
	resultStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	errorStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	hintStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	suggestionStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("4"))
	selectedStyle   = lipgloss.NewStyle().
			Foreground(lipgloss.Color("0")).
			Background(lipgloss.Color("4"))
)

// formatCommand formats the command echo line with prompt and input styled.
func formatCommand(input string) string {
	return promptStyle.Render(evalPrompt) + inputStyle.Render(input)
}

// formatCtrlCommand formats the control command echo line with prompt and input
// styled.
func formatCtrlCommand(input string) string {
	return ctrlPromptStyle.Render(ctrlPrompt) + inputStyle.Render(input)
}

// Config configures a REPL session.
type Config struct {
	// Env is the session environment. Every line is run in it, so
	// definitions persist.
	Env *lang.Env

	// Options configure the interpreter. Program output, input and exit
	// requests are handled by the REPL and override any given here.
	Options []lang.Option

	// CacheDir holds the history file. Defaults to [pkg.CacheDir].
	CacheDir string

	Logger log.Logger

	// Exit is called with the requested status after the REPL ends if a
	// program called exit.
	Exit func(code int)
}

// model is the Bubble Tea model for the REPL.
type model struct {
	ctxFunc          func() context.Context
	input            textinput.Model
	eval             *evaluator
	logger           log.Logger
	history          *History
	historyIdx       int
	matches          fuzzy.Matches // current fuzzy match results
	candidates       []string      // backing candidate list
	wordStart        int           // byte offset of current word start
	wordEnd          int           // byte offset of current word end
	suggIdx          int           // selected candidate index
	tabActive        bool          // whether user is tab-cycling
	preTabText       string        // input text before tab-cycling began
	preTabCursor     int           // cursor position before tab-cycling began
	altNavActive     bool          // whether user is in Alt+Up/Down navigation
	altNavOrigMode   inputMode     // original mode before Alt navigation
	altNavOrigText   string        // original text before Alt navigation
	altNavOrigCursor int           // original cursor position before Alt navigation
	width            int           // terminal width for ellipsization
	quitting         bool
	running          bool // a program is running; its env must not be read
	awaiting         bool // the running program waits for a line of input
	mode             inputMode
	evalText         string
	evalCursor       int
	ctrlText         string
	ctrlCursor       int
}

// Run starts the REPL over the session described by cfg and returns when
// the user quits or a program calls exit.
func Run(ctx context.Context, cfg Config) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	if cfg.Env == nil {
		return ErrNoEnv
	}

	if cfg.CacheDir == "" {
		cfg.CacheDir = pkg.CacheDir()
	}

	logger := cfg.Logger

	logger.TraceContext(
		ctx,
		"repl start",
		slog.String("cache_dir", cfg.CacheDir),
		slog.Int("bindings", len(cfg.Env.Names())),
	)

	history := NewHistory(filepath.Join(cfg.CacheDir, baseHistory))
	if err := history.Load(); err != nil {
		logger.WarnContext(ctx, "could not load history", slog.Any("error", err))
	}

	logger.TraceContext(
		ctx,
		"repl history loaded",
		slog.Int("entry_count", history.Len()),
	)

	ev := newEvaluator(cfg)

	p := tea.NewProgram(newModel(ctx, ev, history, logger), tea.WithContext(ctx))
	ev.send = p.Send

	if _, err = p.Run(); err != nil {
		return err
	}

	if ev.exited && cfg.Exit != nil {
		cfg.Exit(ev.code)
	}

	return nil
}

const defaultWidth = 80

func newModel(
	ctx context.Context,
	ev *evaluator,
	history *History,
	logger log.Logger,
) model {
	ti := textinput.New()
	ti.Prompt = promptStyle.Render(evalPrompt)
	ti.Focus()
	ti.CharLimit = 1024
	ti.Width = defaultWidth

	return model{
		ctxFunc:    func() context.Context { return ctx },
		input:      ti,
		eval:       ev,
		logger:     logger,
		history:    history,
		historyIdx: history.Len(),
		width:      defaultWidth,
		mode:       modeEval,
	}
}

func (m model) Init() tea.Cmd {
	return textinput.Blink
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.input.Width = msg.Width - len(evalPrompt) - 2

		return m, nil

	case editDoneMsg:
		m.eval.draft = msg.source

		m.logger.TraceContext(
			m.ctxFunc(),
			"repl edit complete",
			slog.Int("content_length", len(msg.source)),
		)

		return m.start(msg.source,
			tea.Println(resultStyle.Render("✔ program loaded")),
		)

	case evalDoneMsg:
		m.logger.TraceContext(
			m.ctxFunc(),
			"repl eval result",
			slog.String("kind", msg.result.Kind().String()),
			slog.Int("output_length", len(msg.output)),
			slog.Bool("interrupted", msg.err != nil),
		)

		m.running, m.awaiting = false, false
		m.setPrompt()

		return m.report(msg)

	case inputRequestMsg:
		if !m.running {
			return m, nil
		}

		m.awaiting = true

		// The last unterminated line is the program's prompt.
		printed, prompt := "", msg.output
		if i := strings.LastIndexByte(msg.output, '\n'); i >= 0 {
			printed, prompt = msg.output[:i], msg.output[i+1:]
		}

		m.input.Prompt = inputStyle.Render(prompt)
		m.input.SetValue("")

		if printed != "" {
			return m, tea.Println(printed)
		}

		return m, nil

	case editCancelledMsg:
		return m, tea.Println(hintStyle.Render("🗴 edit cancelled"))

	case editErrorMsg:
		return m, tea.Println(
			errorStyle.Render("🗴 error: " + msg.err.Error()),
		)
	}

	var cmd tea.Cmd

	m.input, cmd = m.input.Update(msg)

	return m, cmd
}

func (m model) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder

	if m.running && !m.awaiting {
		b.WriteString(hintStyle.Render("running… (press Ctrl+C to interrupt)"))
		b.WriteString("\n")

		return b.String()
	}

	b.WriteString(m.input.View())
	b.WriteString("\n")

	if m.awaiting {
		return b.String()
	}

	input := m.input.Value()
	viewingHistory := m.historyIdx < m.history.Len()
	call := detectFunctionCall(input, m.input.Position())

	var sigs []signature
	if call.inCall && m.mode == modeEval {
		sigs = getSignatures(m.eval.env, call.name)
	}

	switch {
	case viewingHistory:
		hint := fmt.Sprintf("%s/%d",
			lipgloss.NewStyle().Bold(true).Render(strconv.Itoa(m.historyIdx+1)),
			m.history.Len())
		b.WriteString(hintStyle.Render(hint))

	case strings.TrimSpace(input) == "":
		hint := "Type a program or press Esc for commands"
		if m.mode == modeCtrl {
			hint = "Type: help, list, edit, clear, quit (press Esc to return)"
		}

		b.WriteString(hintStyle.Render(hint))

	case len(sigs) > 0:
		b.WriteString(renderSignatureHint(sigs, call.argIndex))

	case len(m.matches) > 0:
		b.WriteString(renderCandidateBar(
			m.matches, m.suggIdx, m.tabActive, m.width,
			func(name string) bool { return isFunction(m.eval.env, name) },
		))
	}

	b.WriteString("\n")

	return b.String()
}

func (m model) executeInput() (model, tea.Cmd) {
	input := strings.TrimSpace(m.input.Value())
	if input == "" {
		return m, nil
	}

	// Reset both mode inputs after submission
	m.evalText = ""
	m.evalCursor = 0
	m.ctrlText = ""
	m.ctrlCursor = 0
	m.input.SetValue("")

	_, _ = m.history.WriteWithMode(input, m.mode)
	m.historyIdx = m.history.Len()

	if m.mode == modeCtrl {
		m.logger.TraceContext(
			m.ctxFunc(),
			"repl command",
			slog.String("input", input),
		)

		return m.executeCommand(input)
	}

	m.logger.TraceContext(
		m.ctxFunc(),
		"repl eval",
		slog.String("input", input),
	)

	return m.start(input, tea.Println(formatCommand(input)))
}

// start runs source in the background after cmds. Keys other than Ctrl+C are
// held back until the program reports an [evalDoneMsg].
func (m model) start(source string, cmds ...tea.Cmd) (model, tea.Cmd) {
	m.running = true
	m.matches = nil
	m.tabActive = false

	return m, tea.Sequence(append(cmds, m.eval.start(m.ctxFunc(), source))...)
}

// report prints the output and canonical result of a finished program, and
// quits if the program called exit.
func (m model) report(msg evalDoneMsg) (model, tea.Cmd) {
	var cmds []tea.Cmd

	if out := strings.TrimSuffix(msg.output, "\n"); out != "" {
		cmds = append(cmds, tea.Println(out))
	}

	if msg.err != nil {
		cmds = append(cmds, tea.Println(errorStyle.Render("🗴 "+msg.err.Error())))
	} else {
		cmds = append(cmds, tea.Println(resultStyle.Render(msg.result.Canonical())))
	}

	if m.eval.exited {
		m.quitting = true
		cmds = append(cmds, tea.Quit)
	}

	return m, tea.Sequence(cmds...)
}

func (m model) executeCommand(input string) (model, tea.Cmd) {
	parts := strings.Fields(input)
	if len(parts) == 0 {
		return m, nil
	}

	echoCmd := tea.Println(formatCtrlCommand(input))

	cmd := parts[0]

	m.logger.TraceContext(
		m.ctxFunc(),
		"repl exec command",
		slog.String("command", cmd),
		slog.Any("args", parts[1:]),
	)

	switch cmd {
	case "q", "quit", "exit":
		m.quitting = true

		return m, tea.Sequence(echoCmd, tea.Quit)

	case "h", "help":
		return m, tea.Sequence(echoCmd, tea.Println(helpMessage()))

	case "l", "list":
		return m, tea.Sequence(echoCmd, tea.Println(m.listBindings()))

	case "c", "clear":
		return m, tea.ClearScreen

	case "e", "edit":
		return m, tea.Sequence(echoCmd, m.edit())

	default:
		return m, tea.Println(
			errorStyle.Render("Unknown command: " + cmd + " (try 'help')"),
		)
	}
}

// edit suspends the REPL while the user edits the draft program.
func (m model) edit() tea.Cmd {
	cmd := &editCommand{
		draft:   m.eval.draft,
		ctxFunc: m.ctxFunc,
		logger:  m.logger,
	}

	return tea.Exec(cmd, func(err error) tea.Msg {
		if err != nil {
			return editErrorMsg{err: err}
		}

		if cmd.source == "" {
			return editCancelledMsg{}
		}

		return editDoneMsg{source: cmd.source}
	})
}

func (m model) listBindings() string {
	list := userBindings(m.eval.env)
	if len(list) == 0 {
		return hintStyle.Render("  (no bindings)")
	}

	var b strings.Builder

	for _, bind := range list {
		fmt.Fprintf(&b, "  %s %s\n", bind.name, hintStyle.Render(bind.preview))
	}

	return strings.TrimSuffix(b.String(), "\n")
}

// toggleMode switches between eval and control modes.
func (m model) toggleMode() (model, tea.Cmd) {
	if m.mode == modeEval {
		return m.switchToMode(modeCtrl)
	}

	return m.switchToMode(modeEval)
}

// switchToMode switches to the specified mode, preserving the input of the
// mode being left.
func (m model) switchToMode(mode inputMode) (model, tea.Cmd) {
	if m.mode == modeEval {
		m.evalText = m.input.Value()
		m.evalCursor = m.input.Position()
	} else {
		m.ctrlText = m.input.Value()
		m.ctrlCursor = m.input.Position()
	}

	m.mode = mode
	m.setPrompt()

	if mode == modeEval {
		m.input.SetValue(m.evalText)
		m.input.SetCursor(m.evalCursor)
	} else {
		m.input.SetValue(m.ctrlText)
		m.input.SetCursor(m.ctrlCursor)
	}

	refreshMatches(&m, false)

	return m, nil
}

// setPrompt restores the prompt of the current mode.
func (m *model) setPrompt() {
	if m.mode == modeEval {
		m.input.Prompt = promptStyle.Render(evalPrompt)
	} else {
		m.input.Prompt = ctrlPromptStyle.Render(ctrlPrompt)
	}
}
