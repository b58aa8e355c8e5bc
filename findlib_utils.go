package libpython

import (
	"bufio"
	"bytes"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"sort"
	"strings"
	"sync"
)

// preferredVersion sorts paths so that the highest version comes first.
func preferredVersion(paths []string) []string {
	if len(paths) < 2 {
		return paths
	}
	sort.Sort(sort.Reverse(sort.StringSlice(paths)))
	return paths
}

// searchDirs returns the first of files found in dirs. Directories may be glob patterns, in which case
// matches are searched highest version first.
func searchDirs(dirs []string, files ...string) string {
	for _, pattern := range dirs {
		if pattern == "" {
			continue
		}
		matches, err := filepath.Glob(pattern)
		if err != nil {
			continue
		}
		for _, dir := range preferredVersion(matches) {
			for _, file := range files {
				if path := filepath.Join(dir, file); isRegular(path) {
					return path
				}
			}
		}
	}
	return ""
}

// systemLookup answers library lookups from the platform's library tools. The ldconfig cache and the
// pkg-config library directory are read at most once, on first use, and shared by every later lookup.
type systemLookup struct {
	run    func(name string, args ...string) ([]byte, error)
	ldconf func() []byte
	libDir func() string
}

func newSystemLookup(run func(name string, args ...string) ([]byte, error)) *systemLookup {
	s := &systemLookup{run: run}
	s.ldconf = sync.OnceValue(s.readLdconfig)
	s.libDir = sync.OnceValue(s.readPkgConfigLibDir)
	return s
}

// runCommand runs a program and returns what it printed on standard output.
func runCommand(name string, args ...string) ([]byte, error) {
	return exec.Command(name, args...).Output()
}

// pkgConfig returns the path of file in the library directory pkg-config reports for python3.
func (s *systemLookup) pkgConfig(file string) string {
	dir := s.libDir()
	if dir == "" {
		return ""
	}
	if path := filepath.Join(dir, file); isRegular(path) {
		return path
	}
	return ""
}

// readPkgConfigLibDir prefers the -L flag of the python3 link line and falls back to the libdir variable,
// which is all a pkg-config file for a default prefix carries.
func (s *systemLookup) readPkgConfigLibDir() string {
	if output, err := s.run("pkg-config", "--libs", "python3"); err == nil {
		if dir, ok := libDirFlag(output); ok {
			return dir
		}
	}
	output, err := s.run("pkg-config", "--variable=libdir", "python3")
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(output))
}

// libDirFlag returns the directory named by the first -L flag in linker flags.
func libDirFlag(flags []byte) (string, bool) {
	for _, flag := range strings.Fields(string(flags)) {
		if dir, ok := strings.CutPrefix(flag, "-L"); ok && dir != "" {
			return dir, true
		}
	}
	return "", false
}

// ldconfigArch maps GOARCH to the architecture tag ldconfig prints for 64-bit libraries.
var ldconfigArch = map[string]string{
	"amd64":   "x86-64",
	"arm64":   "AArch64",
	"ppc64le": "64bit",
	"s390x":   "64bit",
	"riscv64": "64bit",
}

// parseLdconfig returns the path of the first entry of `ldconfig -p` output whose soname is lib<name>.so
// or a versioned form of it, built for arch. An empty arch matches any entry.
//
// Entries look like:
//
//	libpython3.12.so.1.0 (libc6,x86-64) => /usr/lib/x86_64-linux-gnu/libpython3.12.so.1.0
func parseLdconfig(output []byte, name, arch string) string {
	soname := "lib" + name + ".so"

	scanner := bufio.NewScanner(bytes.NewReader(output))
	for scanner.Scan() {
		lhs, path, ok := strings.Cut(scanner.Text(), "=>")
		if !ok {
			continue
		}
		fields := strings.Fields(lhs)
		if len(fields) == 0 {
			continue
		}
		if fields[0] != soname && !strings.HasPrefix(fields[0], soname+".") {
			continue
		}
		if arch != "" && !strings.Contains(lhs, arch) {
			continue
		}
		return strings.TrimSpace(path)
	}
	return ""
}

// ldconfig asks the dynamic linker cache for lib<name>.so.
func (s *systemLookup) ldconfig(name string) string {
	return parseLdconfig(s.ldconf(), name, ldconfigArch[runtime.GOARCH])
}

func (s *systemLookup) readLdconfig() []byte {
	bin, err := exec.LookPath("ldconfig")
	if err != nil {
		bin = "/sbin/ldconfig"
	}
	output, err := s.run(bin, "-p")
	if err != nil {
		return nil
	}
	return output
}

// isRegular reports whether path, after following symlinks, is a regular file.
func isRegular(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}
