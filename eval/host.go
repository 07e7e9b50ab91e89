package eval

import (
	"bufio"
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"
	"time"
)

// Host performs the effects a program can observe outside itself.
type Host interface {
	// Say writes one line of output.
	Say(ctx context.Context, line string) error
	// Ask writes prompt and blocks until a line of input arrives. End of
	// input yields empty text.
	Ask(ctx context.Context, prompt string) (string, error)
	// Now returns the current local time.
	Now() time.Time
	// ReadText returns the whole content of the file at path.
	ReadText(ctx context.Context, path string) (string, error)
	// WriteText replaces the content of the file at path.
	WriteText(ctx context.Context, path, text string) error
}

// StdHost is a [Host] backed by a reader, a writer, and the file system.
type StdHost struct {
	out   io.Writer
	in    *bufio.Reader
	clock func() time.Time
	mu    sync.Mutex
}

// NewStdHost returns a host reading lines from in and writing to out.
// A nil in behaves as an empty input.
func NewStdHost(in io.Reader, out io.Writer) *StdHost {
	if in == nil {
		in = strings.NewReader("")
	}

	if out == nil {
		out = io.Discard
	}

	return &StdHost{out: out, in: bufio.NewReader(in), clock: time.Now}
}

// WithClock replaces the time source and returns h.
func (h *StdHost) WithClock(clock func() time.Time) *StdHost {
	h.clock = clock

	return h
}

// Say implements [Host].
func (h *StdHost) Say(_ context.Context, line string) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	_, err := io.WriteString(h.out, line+"\n")

	return err
}

// Ask implements [Host].
func (h *StdHost) Ask(_ context.Context, prompt string) (string, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if prompt != "" {
		if _, err := io.WriteString(h.out, prompt); err != nil {
			return "", err
		}
	}

	line, err := h.in.ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", err
	}

	return strings.TrimRight(line, "\r\n"), nil
}

// Now implements [Host].
func (h *StdHost) Now() time.Time { return h.clock() }

// ReadText implements [Host].
func (h *StdHost) ReadText(_ context.Context, path string) (string, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}

	return string(b), nil
}

// WriteText implements [Host].
func (h *StdHost) WriteText(_ context.Context, path, text string) error {
	return os.WriteFile(path, []byte(text), 0o644) //nolint:gosec
}

// SandboxHost is a [Host] with no output, no input, and no file access.
// Say discards its line, Ask returns empty text, and file operations fail
// with [ErrHost].
type SandboxHost struct{}

// Say implements [Host].
func (SandboxHost) Say(context.Context, string) error { return nil }

// Ask implements [Host].
func (SandboxHost) Ask(context.Context, string) (string, error) { return "", nil }

// Now implements [Host].
func (SandboxHost) Now() time.Time { return time.Now() }

// ReadText implements [Host].
func (SandboxHost) ReadText(_ context.Context, path string) (string, error) {
	return "", ErrHost.With(slog.String("op", "read_text"), slog.String("path", path))
}

// WriteText implements [Host].
func (SandboxHost) WriteText(_ context.Context, path, _ string) error {
	return ErrHost.With(slog.String("op", "write_text"), slog.String("path", path))
}
