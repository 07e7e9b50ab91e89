// Package log provides a concurrency-safe structured logger based on
// [log/slog].
//
// Loggers are immutable values configured with functional options:
//
//	logger := log.Make(os.Stderr,
//		log.WithLevel(log.LevelDebug),
//		log.WithFormat(log.FormatText),
//		log.WithTimeLayout("kitchen"))
//
//	logger.Info("script loaded", slog.String("path", path))
//
// [Logger.Wrap] derives a logger with different options and [Logger.With]
// derives one that adds attributes to every record.
//
// # Levels
//
// In addition to the four [slog] levels the package defines [LevelTrace],
// which the interpreter uses for per-stage diagnostics.
//
// # Pretty Output
//
// With [WithPretty] enabled (the default), records are rendered in color
// using [github.com/charmbracelet/lipgloss]. Colors are only emitted when the
// output writer is a terminal.
//
// # Default Logger
//
// The package-level functions ([Info], [DebugContext], ...) write through a
// default logger that [Config] reconfigures. Context-unaware variants use
// [DefaultContextProvider].
package log
