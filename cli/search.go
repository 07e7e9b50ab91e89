package cli

import (
	"os"
	"path/filepath"

	"github.com/ardnew/mung"

	"github.com/ardnew/reo/pkg"
)

// searchPath returns the script search path: the given directories followed
// by those listed in the REO_PATH environment variable. Duplicates and
// entries that are not directories are removed.
func searchPath(dirs []string) []string {
	path := mung.Make(
		mung.WithSubjectItems(filepath.SplitList(os.Getenv(pkg.EnvVar("path")))...),
		mung.WithDelim(string(os.PathListSeparator)),
		mung.WithPrefixItems(dirs...),
		mung.WithFilter(isDir),
	).String()

	return filepath.SplitList(path)
}

func isDir(path string) bool {
	info, err := os.Stat(path)

	return err == nil && info.IsDir()
}
