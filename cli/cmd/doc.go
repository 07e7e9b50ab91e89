// Package cmd implements the reo subcommands: run, check, fmt, repl, and
// init.
//
// Commands read their context from [context.Context]: the [kong.Context]
// stored by [WithContext], the standard streams set by [WithStreams], and
// the script search path set by [WithSearchPath]. A script argument names
// a file, a script on the search path with or without its extension, or
// "-" for standard input.
package cmd

var (
	// CacheIdentifier is the kong variable identifier containing the path to
	// the runtime cache directory.
	CacheIdentifier = "cache"

	// ConfigIdentifier is the kong variable identifier containing the path to
	// the configuration script.
	ConfigIdentifier = "config"
)
