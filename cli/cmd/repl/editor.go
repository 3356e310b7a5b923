package repl

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"strings"

	"github.com/ardnew/quse/log"
)

const defaultEditor = "vi"

// editorCommand returns the command line of the user's editor, taken from
// $VISUAL or $EDITOR. Arguments in the variable are kept.
func editorCommand() []string {
	for _, env := range []string{"VISUAL", "EDITOR"} {
		if fields := strings.Fields(os.Getenv(env)); len(fields) > 0 {
			return fields
		}
	}

	return []string{defaultEditor}
}

// editPreambleCommand implements [tea.ExecCommand]. It opens the session
// preamble in the user's editor and reloads the session from the result,
// offering to edit again while the result does not load.
type editPreambleCommand struct {
	session *session
	ctxFunc func() context.Context
	next    *session // nil if the edit was cancelled
	logger  log.Logger
	stdin   io.Reader
	stdout  io.Writer
	stderr  io.Writer
}

func (c *editPreambleCommand) SetStdin(r io.Reader)  { c.stdin = r }
func (c *editPreambleCommand) SetStdout(w io.Writer) { c.stdout = w }
func (c *editPreambleCommand) SetStderr(w io.Writer) { c.stderr = w }

// Run returns [ErrEditDeclined] if the user declines to edit again after an
// error. Emptying the file cancels the edit.
func (c *editPreambleCommand) Run() error {
	ctx := c.ctxFunc()

	f, err := os.CreateTemp("", "quse-repl-*.use")
	if err != nil {
		return err
	}

	path := f.Name()
	defer os.Remove(path)

	if err := f.Close(); err != nil {
		return err
	}

	text := c.session.preamble

	for attempt := 1; ; attempt++ {
		edited, err := c.edit(ctx, path, text)
		if err != nil {
			return err
		}

		if strings.TrimSpace(edited) == "" {
			return nil
		}

		next, err := c.session.reload(ctx, edited)

		c.logger.TraceContext(ctx, "preamble edited",
			slog.Int("attempt", attempt),
			slog.Int("bytes", len(edited)),
			slog.Bool("loaded", err == nil))

		if err == nil {
			c.next = next

			return nil
		}

		fmt.Fprintf(c.stderr, "\nerror: %s\n", err)

		if snip := snippet(edited, err); snip != "" {
			fmt.Fprintln(c.stderr, snip)
		}

		fmt.Fprint(c.stdout, "Re-edit? [Y/n] ")

		answers := bufio.NewScanner(c.stdin)
		if !answers.Scan() {
			return ErrEditDeclined
		}

		switch strings.ToLower(strings.TrimSpace(answers.Text())) {
		case "n", "no":
			return ErrEditDeclined
		}

		text = edited
	}
}

// edit writes text to path, runs the editor on it, and returns the edited
// contents.
func (c *editPreambleCommand) edit(ctx context.Context, path, text string) (string, error) {
	if err := os.WriteFile(path, []byte(text), 0o600); err != nil {
		return "", err
	}

	argv := append(editorCommand(), path)

	cmd := exec.CommandContext(ctx, argv[0], argv[1:]...)
	cmd.Stdin, cmd.Stdout, cmd.Stderr = c.stdin, c.stdout, c.stderr

	if err := cmd.Run(); err != nil {
		return "", err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}

	return string(data), nil
}
