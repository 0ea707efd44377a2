package pkg

import (
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"sync"
)

// prefixRules rewrite the base name of the executable, in order, before its
// extension is removed to form [Prefix].
//
//nolint:gochecknoglobals
var prefixRules = []struct {
	rex *regexp.Regexp
	rep string
}{
	{regexp.MustCompile(`^__debug_bin\d*(\.exe)?$`), Name}, // default output of dlv
	{regexp.MustCompile(`^.*\.test(\.exe)?$`), Name},       // go test binaries
	{regexp.MustCompile(`^\.+`), ""},                       // leading dots
}

// Prefix returns the name of the directory holding pravda's files below the
// user's config and cache directories.
//
// Prefix is the base name of the running executable without its extension,
// so a renamed binary keeps separate files. A debugger or test binary, or a
// name left empty by the rules, falls back to [Name].
//
//nolint:gochecknoglobals
var Prefix = sync.OnceValue(
	func() string {
		exe, err := os.Executable()
		if err != nil {
			exe = os.Args[0]
		}

		return prefixOf(exe)
	},
)

func prefixOf(exe string) string {
	id := filepath.Base(exe)

	for _, rule := range prefixRules {
		id = rule.rex.ReplaceAllString(id, rule.rep)
	}

	id = strings.TrimSuffix(id, filepath.Ext(id))

	if id == "" || id == string(filepath.Separator) {
		return Name
	}

	return id
}

// ConfigDir returns the directory of user configuration, such as init files.
//
//nolint:gochecknoglobals
var ConfigDir = sync.OnceValue(
	func() string { return userDir(os.UserConfigDir, ".config") },
)

// CacheDir returns the directory of transient files, such as REPL history
// and profiles.
//
//nolint:gochecknoglobals
var CacheDir = sync.OnceValue(
	func() string { return userDir(os.UserCacheDir, ".cache") },
)

// userDir returns the [Prefix] directory below the directory reported by
// base. If base fails, the hidden directory of the user's home is used, then
// the working directory.
func userDir(base func() (string, error), hidden string) string {
	dir, err := base()
	if err != nil {
		if home, herr := os.UserHomeDir(); herr == nil {
			dir = filepath.Join(home, hidden)
		} else if dir, err = os.Getwd(); err != nil {
			dir = "."
		}
	}

	return filepath.Join(dir, Prefix())
}
