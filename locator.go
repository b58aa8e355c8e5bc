package libpython

import (
	"io"
	"iter"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"
)

// Locator searches the filesystem for the shared library of the interpreter described by a [Profile].
// Apart from the system tool output it caches on first use, a Locator re-derives every answer from the
// profile. It is safe for concurrent use.
type Locator struct {
	profile Profile
	lookup  func(name string) string
	logger  *slog.Logger
}

// Option configures a [Locator].
type Option func(*Locator)

// WithLogger sets the logger that receives a debug record for every candidate examined.
func WithLogger(logger *slog.Logger) Option {
	return func(l *Locator) {
		l.logger = logger
	}
}

// WithLookup replaces the system library lookup used as the last resort of the search. The function
// receives a library name without prefix or suffix (e.g. "python3.12") and returns a path, or "" if the
// library is unknown.
func WithLookup(lookup func(name string) string) Option {
	return func(l *Locator) {
		l.lookup = lookup
	}
}

// NewLocator returns a Locator for the supplied profile.
func NewLocator(profile Profile, opts ...Option) *Locator {
	l := &Locator{
		profile: profile,
		logger:  slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(l)
	}
	if l.lookup == nil {
		l.lookup = newSystemLookup(runCommand).find
	}
	return l
}

// Profile returns the profile the locator searches for.
func (l *Locator) Profile() Profile {
	return l.profile
}

// LinkedLibraryPath returns the library the interpreter process loaded Py_GetVersion from. Nothing is
// returned on Windows, when the dynamic linker had no record, or when the record points at the executable
// itself because the interpreter is statically linked.
//
// A relative record is rejected: the dynamic linker reports argv[0] for symbols of the main executable,
// and resolving that against this process's working directory names an unrelated file.
func (l *Locator) LinkedLibraryPath() (string, bool) {
	if l.profile.Windows || l.profile.LinkedLibrary == "" {
		return "", false
	}
	if !filepath.IsAbs(l.profile.LinkedLibrary) {
		return "", false
	}

	path := realpath(l.profile.LinkedLibrary)
	if l.profile.Executable != "" && path == realpath(l.profile.Executable) {
		return "", false
	}
	return path, true
}

// CandidateNames yields the file names libpython may have, most likely first.
func (l *Locator) CandidateNames(suffix string) iter.Seq[string] {
	p := l.profile
	names := func(yield func(string) bool) {
		if p.Vars.LDLibrary != "" {
			if !yield(p.Vars.LDLibrary) {
				return
			}
		}
		if p.Vars.Library != "" {
			stem := strings.TrimSuffix(p.Vars.Library, filepath.Ext(p.Vars.Library))
			if !yield(stem + suffix) {
				return
			}
		}

		version := p.VersionString()
		stems := []string{
			"python" + version + p.ABIFlags(),
			"python" + version,
			"python" + strconv.Itoa(p.Major),
			"python",
		}
		for _, stem := range stems {
			if !yield(p.libPrefix() + stem + suffix) {
				return
			}
		}
	}

	return Uniquify(iter.Seq[string](names))
}

// libDirs returns the directories libpython may be installed in, most likely first.
func (l *Locator) libDirs() []string {
	p := l.profile

	var dirs []string
	appendSet := func(dir string) {
		if dir != "" {
			dirs = append(dirs, dir)
		}
	}

	// LIBPL is where python-config looks when the shared library is not enabled.
	appendSet(p.Vars.LibPL)
	appendSet(p.Vars.SrcDir)
	appendSet(p.Vars.LibDir)

	if p.Executable != "" {
		if p.Windows {
			dirs = append(dirs, filepath.Dir(p.Executable))
		} else {
			dirs = append(dirs, filepath.Join(filepath.Dir(filepath.Dir(p.Executable)), "lib"))
		}
	}

	if p.Apple {
		appendSet(p.Vars.FrameworkPrefix)
	}

	if p.ExecPrefix != "" {
		dirs = append(dirs, p.ExecPrefix, filepath.Join(p.ExecPrefix, "lib"))
	}

	return dirs
}

// CandidatePaths yields guesses at the location of libpython, most likely first. A guess may be relative
// and may not exist.
func (l *Locator) CandidatePaths(suffix string) iter.Seq[string] {
	paths := func(yield func(string) bool) {
		if linked, ok := l.LinkedLibraryPath(); ok {
			if !yield(linked) {
				return
			}
		}

		names := slices.Collect(l.CandidateNames(suffix))
		for _, dir := range l.libDirs() {
			for _, name := range names {
				if !yield(filepath.Join(dir, name)) {
					return
				}
			}
		}

		// The system lookup may answer with an unrelated full path, so it goes last.
		for _, name := range names {
			path := l.lookup(LibraryName(name, suffix, l.profile.Windows))
			if path == "" {
				continue
			}
			if !yield(path) {
				return
			}
		}
	}

	return Uniquify(iter.Seq[string](paths))
}

// Normalize resolves candidate to an existing file and returns its canonical path. If candidate does not
// exist, candidate+suffix is tried. On macOS a candidate ending in .dylib or .so gets one more attempt with
// that suffix removed and ".so" as the suffix.
func (l *Locator) Normalize(candidate, suffix string) (string, bool) {
	if path, ok := resolve(candidate, suffix); ok {
		return path, true
	}
	if !l.profile.Apple {
		return "", false
	}
	return resolve(trimAppleSuffix(candidate), ".so")
}

// FindExisting yields the canonical paths of every candidate that exists. The first value is the most
// likely to be correct.
func (l *Locator) FindExisting() iter.Seq[string] {
	found := func(yield func(string) bool) {
		l.logger.Debug("searching for libpython",
			"windows", l.profile.Windows,
			"apple", l.profile.Apple,
			"suffix", l.profile.Suffix,
		)
		for candidate := range l.CandidatePaths(l.profile.Suffix) {
			path, ok := l.Normalize(candidate, l.profile.Suffix)
			if !ok {
				l.logger.Debug("candidate not found", "candidate", candidate)
				continue
			}
			l.logger.Debug("candidate found", "candidate", candidate, "path", path)
			if !yield(path) {
				return
			}
		}
	}

	return Uniquify(iter.Seq[string](found))
}

// Find returns the most likely path of libpython.
func (l *Locator) Find() (string, bool) {
	return first(l.FindExisting())
}

// LibraryName converts a library file name to the name used to link against it by removing the "lib"
// prefix (except on Windows) and the suffix, e.g. "libpython3.12.so" becomes "python3.12".
func LibraryName(name, suffix string, windows bool) string {
	for {
		stripped := name
		if !windows {
			stripped = strings.TrimPrefix(stripped, "lib")
		}
		if suffix != "" {
			stripped = strings.TrimSuffix(stripped, suffix)
		}
		if stripped == name {
			return name
		}
		name = stripped
	}
}

// resolve returns the canonical form of path, or of path+suffix, if either exists. Relative paths are
// never resolved.
func resolve(path, suffix string) (string, bool) {
	if path == "" || !filepath.IsAbs(path) {
		return "", false
	}
	for _, p := range []string{path, path + suffix} {
		if _, err := os.Stat(p); err != nil {
			continue
		}
		resolved, err := filepath.EvalSymlinks(p)
		if err != nil {
			continue
		}
		return resolved, true
	}
	return "", false
}

// trimAppleSuffix removes a trailing .dylib or .so.
func trimAppleSuffix(path string) string {
	if s, ok := strings.CutSuffix(path, ".dylib"); ok {
		return s
	}
	return strings.TrimSuffix(path, ".so")
}

// realpath returns path with symlinks resolved, or the cleaned absolute path if it cannot be resolved.
func realpath(path string) string {
	if resolved, err := filepath.EvalSymlinks(path); err == nil {
		path = resolved
	}
	if abs, err := filepath.Abs(path); err == nil {
		return abs
	}
	return filepath.Clean(path)
}
