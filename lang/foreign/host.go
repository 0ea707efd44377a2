package foreign

import (
	"bufio"
	"maps"
	"os"
	"os/user"
	"path/filepath"
	"runtime"
	"slices"
	"strings"
	"sync"

	"github.com/ardnew/mung"
)

// Private singleton cache.
//
//nolint:gochecknoglobals
var (
	modulesOnce sync.Once
	modules     map[string]map[string]any
)

// hostModules returns a clone of the lazily-initialized, process-scoped host
// modules that foreign programs may import. The returned map can be safely
// mutated by the caller without affecting the shared cache.
func hostModules() map[string]map[string]any {
	modulesOnce.Do(func() {
		modules = map[string]map[string]any{
			// System information.
			"sys": {
				"target":   getTarget(),
				"platform": getPlatform(),
				"hostname": getHostname(),
				"user":     getUsername(),
				"shell":    getShell(),
				"cwd":      getCwd,
			},

			// Filesystem predicates.
			"file": {
				"exists":    fileExists,
				"isDir":     fileIsDir,
				"isRegular": fileIsRegular,
				"isSymlink": fileIsSymlink,
			},

			// Path manipulation.
			"path": {
				"abs": pathAbs,
				"cat": pathCat,
				"rel": pathRel,
			},

			// PATH-like string manipulation via mung.
			"mung": {
				"prefix":   mungPrefix,
				"prefixif": mungPrefixIf,
			},
		}
	})

	return maps.Clone(modules)
}

// Modules returns the names of the host modules in lexical order.
func Modules() []string {
	return slices.Sorted(maps.Keys(hostModules()))
}

// target identifies an operating system and instruction set architecture.
type target struct {
	OS   string
	Arch string
}

func (t target) String() string { return t.Arch + "-" + t.OS }

// getTarget returns the host target using GNU GCC/LLVM naming conventions.
func getTarget() target {
	t := getPlatform()

	switch t.Arch {
	case "386":
		t.Arch = "i386"
	case "amd64":
		t.Arch = "x86_64"
	case "arm64":
		if t.OS != "darwin" {
			t.Arch = "aarch64"
		}
	case "mipsle":
		t.Arch = "mipsel"
	}

	return t
}

// getPlatform returns the host target using Go conventions.
func getPlatform() target {
	o, ok := os.LookupEnv("GOHOSTOS")
	if !ok {
		o = runtime.GOOS
	}

	a, ok := os.LookupEnv("GOHOSTARCH")
	if !ok {
		a = runtime.GOARCH
	}

	return target{OS: o, Arch: a}
}

func getHostname() string {
	hostname, err := os.Hostname()
	if err != nil {
		return ""
	}

	return hostname
}

func getUsername() string {
	u, err := user.Current()
	if err != nil {
		return ""
	}

	return u.Username
}

func getShell() string {
	if shell, ok := os.LookupEnv("SHELL"); ok {
		return shell
	}

	name := getUsername()
	if name == "" {
		return ""
	}

	f, err := os.Open("/etc/passwd")
	if err != nil {
		return ""
	}
	defer f.Close()

	s := bufio.NewScanner(f)
	for s.Scan() {
		e := strings.Split(s.Text(), ":")
		if len(e) > 6 && e[0] == name {
			return e[6]
		}
	}

	return ""
}

func getCwd() string {
	cwd, err := os.Getwd()
	if err != nil {
		return pathAbs(".")
	}

	return cwd
}

func fileExists(path string) bool {
	_, err := os.Stat(path)

	return !os.IsNotExist(err)
}

func fileIsDir(path string) bool {
	info, err := os.Stat(path)

	return err == nil && info.IsDir()
}

func fileIsRegular(path string) bool {
	info, err := os.Stat(path)

	return err == nil && info.Mode().IsRegular()
}

func fileIsSymlink(path string) bool {
	info, err := os.Lstat(path)

	return err == nil && info.Mode()&os.ModeSymlink != 0
}

func pathAbs(path string) string {
	p, err := filepath.Abs(path)
	if err != nil {
		return path
	}

	return p
}

func pathCat(elem ...string) string {
	return filepath.Join(elem...)
}

func pathRel(from, to string) string {
	p, err := filepath.Rel(pathAbs(from), pathAbs(to))
	if err != nil {
		return pathCat(from, to)
	}

	return p
}

func mungPrefix(key string, prefix ...string) string {
	return mung.Make(
		mung.WithSubjectItems(key),
		mung.WithDelim(string(os.PathListSeparator)),
		mung.WithPrefixItems(prefix...),
	).String()
}

func mungPrefixIf(
	key string,
	predicate func(string) bool,
	prefix ...string,
) string {
	return mung.Make(
		mung.WithSubjectItems(key),
		mung.WithDelim(string(os.PathListSeparator)),
		mung.WithPrefixItems(prefix...),
		mung.WithFilter(predicate),
	).String()
}
