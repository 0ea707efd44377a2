package repl

import (
	"context"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"strings"

	"github.com/ardnew/pravda/lang"
	"github.com/ardnew/pravda/lang/loader"
	"github.com/ardnew/pravda/log"
)

const defaultEditor = "vi"

// editCommand implements [tea.ExecCommand]. It writes the draft program to a
// temp file, opens the user's editor on it, and reads back the result. An
// empty result cancels the edit.
type editCommand struct {
	draft   string
	ctxFunc func() context.Context
	logger  log.Logger
	source  string // edited program, empty if cancelled
	stdin   io.Reader
	stdout  io.Writer
	stderr  io.Writer
}

// SetStdin sets the stdin reader for the command.
func (c *editCommand) SetStdin(r io.Reader) { c.stdin = r }

// SetStdout sets the stdout writer for the command.
func (c *editCommand) SetStdout(w io.Writer) { c.stdout = w }

// SetStderr sets the stderr writer for the command.
func (c *editCommand) SetStderr(w io.Writer) { c.stderr = w }

// Run opens the editor on the draft and stores the edited program.
func (c *editCommand) Run() error {
	ctx := c.ctxFunc()

	f, err := os.CreateTemp(os.TempDir(), "pravda-repl-*"+loader.ModuleExt)
	if err != nil {
		return err
	}

	tmpPath := f.Name()

	defer os.Remove(tmpPath)

	if _, err := f.WriteString(c.draft); err != nil {
		f.Close()

		return err
	}

	if err := f.Close(); err != nil {
		return err
	}

	r, err := runEditor(ctx, c.stdin, c.stdout, c.stderr, tmpPath)
	if err != nil {
		return err
	}

	source, err := lang.ReadSource(ctx, r)
	if err != nil {
		return err
	}

	c.logger.TraceContext(
		ctx,
		"editor closed",
		slog.Int("content_length", len(source)),
	)

	if strings.TrimSpace(source) == "" {
		return nil
	}

	c.source = source

	return nil
}

// runEditor launches the user's editor on the given file path and returns a
// reader over the edited file content.
func runEditor(
	ctx context.Context,
	stdin io.Reader,
	stdout io.Writer,
	stderr io.Writer,
	path string,
) (io.Reader, error) {
	editor := os.Getenv("EDITOR")
	if editor == "" {
		editor = defaultEditor
	}

	cmd := exec.CommandContext(ctx, editor, path)
	cmd.Stdin = stdin
	cmd.Stdout = stdout
	cmd.Stderr = stderr

	if err := cmd.Run(); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	return strings.NewReader(string(data)), nil
}
