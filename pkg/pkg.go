//nolint:gochecknoglobals
package pkg

import (
	_ "embed"
	"strings"
)

// Version is the semantic version of the reo module embedded at build time.
// It is printed by the CLI for the --version flag.
//
//go:embed VERSION
var Version string

const (
	// Name is the canonical command and module identifier. It appears in help
	// text, default config paths and environment variable names.
	Name = "reo"
	// Description is a short, human-readable summary of the project used in
	// help output.
	Description = "English-flavored scripting language"
	// Ext is the file extension of Reo source files.
	Ext = ".reo"
)

// EnvVar returns the environment variable identifier for the given suffix,
// e.g., EnvVar("path") returns "REO_PATH".
func EnvVar(suffix string) string {
	return strings.ToUpper(Name + "_" + suffix)
}

// AuthorInfo represents an individual author's name and email address.
type AuthorInfo struct {
	Name  string
	Email string
}

// Author lists the primary author(s) of the project for display in metadata.
var Author = []AuthorInfo{
	{"ardnew", "andrew@ardnew.com"},
}
