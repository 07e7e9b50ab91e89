package repl

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"strings"

	"github.com/ardnew/reo/lang"
	"github.com/ardnew/reo/log"
	"github.com/ardnew/reo/pkg"
)

const defaultEditor = "vi"

// editTemplate is the editor content when no functions are defined.
const editTemplate = `# Define functions here. For example:
#
# to double(n):
#   return n * 2.
# end.
`

// editFuncsCommand implements [tea.ExecCommand] for the function
// edit-parse-retry loop. It formats the session's functions to a temp file,
// opens the user's editor, and parses and checks the result. On error the
// user is prompted to re-edit; declining exits the program.
type editFuncsCommand struct {
	funcs   []*lang.FuncDecl
	check   func(context.Context, *lang.Program) error
	ctxFunc func() context.Context
	prog    *lang.Program
	src     string
	logger  log.Logger
	stdin   io.Reader
	stdout  io.Writer
	stderr  io.Writer
}

// SetStdin sets the stdin reader for the command.
func (c *editFuncsCommand) SetStdin(r io.Reader) { c.stdin = r }

// SetStdout sets the stdout writer for the command.
func (c *editFuncsCommand) SetStdout(w io.Writer) { c.stdout = w }

// SetStderr sets the stderr writer for the command.
func (c *editFuncsCommand) SetStderr(w io.Writer) { c.stderr = w }

// Run executes the edit-parse-retry loop. If the user declines to re-edit,
// it returns [ErrEditDeclined]. A file emptied of code leaves prog nil.
func (c *editFuncsCommand) Run() error {
	ctx := c.ctxFunc()

	content := editTemplate

	if len(c.funcs) > 0 {
		var buf bytes.Buffer
		if err := (&lang.Program{Funcs: c.funcs}).Format(ctx, &buf, 2); err != nil {
			return fmt.Errorf("format functions: %w", err)
		}

		content = buf.String()
	}

	// Create a single temp file for the entire loop.
	f, err := os.CreateTemp(os.TempDir(), pkg.Name+"-repl-*"+pkg.Ext)
	if err != nil {
		return err
	}

	tmpPath := f.Name()

	defer os.Remove(tmpPath)

	if err := f.Chmod(0o600); err != nil {
		f.Close()

		return err
	}

	f.Close()

	for {
		// Write current content to temp file.
		if err := os.WriteFile(tmpPath, []byte(content), 0o600); err != nil {
			return err
		}

		data, err := runEditor(ctx, c.stdin, c.stdout, c.stderr, tmpPath)
		if err != nil {
			return err
		}

		// User cleared content.
		if strings.TrimSpace(string(data)) == "" {
			return nil
		}

		content = string(data)

		prog, err := lang.Parse(ctx, content, lang.WithLogger(c.logger))
		if err == nil {
			err = c.check(ctx, prog)
		}

		c.logger.TraceContext(ctx, "editor parse attempt",
			slog.Int("content_length", len(data)),
			slog.Bool("success", err == nil),
		)

		if err == nil {
			if len(prog.Funcs) > 0 || len(prog.Stmts) > 0 {
				c.prog, c.src = prog, content
			}

			return nil
		}

		// Show errors and prompt.
		for _, out := range describe(err, content) {
			fmt.Fprintf(c.stderr, "\n%s\n", out.text)
		}

		fmt.Fprintf(c.stdout, "Re-edit? [Y/n] ")

		scanner := bufio.NewScanner(c.stdin)
		if !scanner.Scan() {
			return ErrEditDeclined
		}

		response := strings.TrimSpace(strings.ToLower(scanner.Text()))
		if response == "n" || response == "no" {
			return ErrEditDeclined
		}
	}
}

// runEditor launches the user's editor on the given file path and returns
// the edited file content.
func runEditor(
	ctx context.Context,
	stdin io.Reader,
	stdout io.Writer,
	stderr io.Writer,
	path string,
) ([]byte, error) {
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

	return os.ReadFile(path)
}
