package cmd

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"syscall"

	"github.com/alecthomas/kong"

	"github.com/ardnew/reo/pkg"
)

// ContextKey is used to store a [kong.Context] value in [context.Context].
type contextKey struct{}

// WithContext returns a new context.Context containing the given kong.Context.
func WithContext(ctx context.Context, ktx *kong.Context) context.Context {
	return context.WithValue(ctx, contextKey{}, ktx)
}

func kongContextFrom(ctx context.Context) *kong.Context {
	ktx, ok := ctx.Value(contextKey{}).(*kong.Context)
	if !ok || ktx == nil {
		return nil
	}

	return ktx
}

type (
	streamsKey    struct{}
	searchPathKey struct{}
)

// Streams are the standard streams seen by commands and scripts.
type Streams struct {
	In  io.Reader
	Out io.Writer
	Err io.Writer
}

// WithStreams returns a new context.Context whose commands use s in place of
// the process's standard streams. Nil fields keep the process streams.
func WithStreams(ctx context.Context, s Streams) context.Context {
	return context.WithValue(ctx, streamsKey{}, s)
}

func streamsFrom(ctx context.Context) Streams {
	s, _ := ctx.Value(streamsKey{}).(Streams)

	if s.In == nil {
		s.In = os.Stdin
	}

	if s.Out == nil {
		s.Out = os.Stdout
	}

	if s.Err == nil {
		s.Err = os.Stderr
	}

	return s
}

// fileKey uniquely identifies a file by its device and inode numbers.
// This handles deduplication across symlinks, absolute/relative paths, and
// special device files.
type fileKey struct {
	dev uint64
	ino uint64
}

// makeFileKey creates a fileKey from os.FileInfo.
// Returns false if the underlying Sys() data is not of type *syscall.Stat_t.
func makeFileKey(info os.FileInfo) (key fileKey, ok bool) {
	stat, ok := info.Sys().(*syscall.Stat_t)
	if !ok {
		return key, false
	}

	return fileKey{dev: stat.Dev, ino: stat.Ino}, true
}

// WithSearchPath returns a new context.Context whose commands look up script
// names in dirs, in order.
//
// Directories are deduplicated by resolving symlinks and comparing device/
// inode pairs, so the same directory reached by different paths is searched
// once. Entries that are not existing directories are dropped.
func WithSearchPath(ctx context.Context, dirs []string) context.Context {
	seen := make(map[fileKey]struct{})
	uniq := make([]string, 0, len(dirs))

	for _, dir := range dirs {
		abs, err := filepath.Abs(dir)
		if err != nil {
			continue
		}

		resolved, err := filepath.EvalSymlinks(abs)
		if err != nil {
			continue
		}

		info, err := os.Stat(resolved)
		if err != nil || !info.IsDir() {
			continue
		}

		if key, ok := makeFileKey(info); ok {
			if _, dup := seen[key]; dup {
				continue
			}

			seen[key] = struct{}{}
		}

		uniq = append(uniq, abs)
	}

	return context.WithValue(ctx, searchPathKey{}, uniq)
}

// SearchPathFrom returns the directories stored by [WithSearchPath].
func SearchPathFrom(ctx context.Context) []string {
	dirs, _ := ctx.Value(searchPathKey{}).([]string)

	return dirs
}

// stdinSource is the special source indicator for reading from stdin.
const stdinSource = "-"

// findScript resolves name to the path of a script file. A name that is not
// an existing regular file is looked up in each search path directory as
// DIR/NAME and then DIR/NAME.reo.
func findScript(ctx context.Context, name string) (string, error) {
	if isFile(name) {
		return name, nil
	}

	if !filepath.IsAbs(name) {
		for _, dir := range SearchPathFrom(ctx) {
			for _, cand := range []string{name, name + pkg.Ext} {
				path := filepath.Join(dir, cand)
				if isFile(path) {
					return path, nil
				}
			}
		}
	}

	return "", ErrNoScript.With(
		slog.String("script", name),
		slog.Any("search_path", SearchPathFrom(ctx)),
	)
}

func isFile(path string) bool {
	info, err := os.Stat(path)

	return err == nil && info.Mode().IsRegular()
}

// openScript opens the script named by name, or stdin for "-". It returns
// the reader, a display name, and a function that releases the reader.
func openScript(ctx context.Context, name string) (io.Reader, string, func(), error) {
	if name == stdinSource || name == "" {
		return streamsFrom(ctx).In, "<stdin>", func() {}, nil
	}

	path, err := findScript(ctx, name)
	if err != nil {
		return nil, "", nil, err
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, "", nil, ErrNoScript.With(slog.String("script", path)).Wrap(err)
	}

	return file, path, func() { _ = file.Close() }, nil
}

// readScript reads the whole script named by name.
func readScript(ctx context.Context, name string) (src, path string, err error) {
	r, path, release, err := openScript(ctx, name)
	if err != nil {
		return "", "", err
	}
	defer release()

	data, err := io.ReadAll(r)
	if err != nil {
		return "", "", ErrNoScript.With(slog.String("script", path)).Wrap(err)
	}

	return string(data), path, nil
}
