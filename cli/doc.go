// Package cli contains the command line interface for reo.
//
// # Usage
//
//	reo [flags] [script]               run a script (the default command)
//	reo check script...                parse and bind without running
//	reo fmt [native|json|yaml|ast|tokens|normalized] script
//	reo repl [script]                  interactive prompt
//	reo init [--yaml] [--force]        write the current settings
//
// A script argument names a file, a script in a search path directory with
// or without the .reo extension, or "-" for standard input. The search path
// is each --path directory followed by the entries of REO_PATH.
//
// # Configuration
//
// Settings are read from two files in the user configuration directory
// (typically ~/.config/reo):
//
//   - config.reo: a Reo script run in a sandbox. Each global it binds sets
//     the flag of the same name, with underscores for hyphens.
//   - config.yaml: a mapping of flag names to values.
//
// Command-line flags override both. Run "reo init" to write the current
// settings as a starting point.
//
//	let log_level be "debug".
//	let path be ["/opt/reo/scripts"].
//	let max_depth be 500.
//
// # Logging Options
//
//   - --log-level: Set minimum log level (trace, debug, info, warn, error)
//   - --log-format: Set log output format (json, text)
//   - --log-time-layout: Set timestamp format (RFC3339, Kitchen, etc.)
//   - --log-caller: Include caller information in log output
//   - --log-pretty: Colorize log output
//
// # Profiling Options
//
// Profiling is only available when built with the pprof build tag:
//
//	go build -tags pprof .
//
//   - --pprof-mode: Enable profiling (allocs, block, clock, cpu, goroutine,
//     heap, mem, mutex, thread, trace)
//   - --pprof-dir: Set profile output directory (default ~/.cache/reo/pprof)
package cli
