//go:build darwin

package libpython

import (
	"os"
	"path/filepath"
)

// searchPaths returns the list of paths to search for Python shared libraries on macOS.
func searchPaths() []string {
	paths := []string{
		"/opt/homebrew/Frameworks/Python.framework/Versions/*/lib",
		"/usr/local/Frameworks/Python.framework/Versions/*/lib",
		"/Library/Frameworks/Python.framework/Versions/*/lib",
		"/opt/local/Library/Frameworks/Python.framework/Versions/*/lib",
	}
	if home, err := os.UserHomeDir(); err == nil {
		paths = append(paths,
			filepath.Join(home, ".pyenv/versions/*/lib"),
			filepath.Join(home, "miniconda3/lib"),
			filepath.Join(home, "anaconda3/lib"),
			filepath.Join(home, "lib"),
		)
	}

	return append(paths, "/usr/local/lib", "/usr/lib")
}

// find looks up a library by name on macOS systems the way dyld would: DYLD_LIBRARY_PATH first, then
// pkg-config, then the common framework and prefix locations.
func (s *systemLookup) find(name string) string {
	files := []string{
		"lib" + name + ".dylib",
		name + ".dylib",
		filepath.Join(name+".framework", name),
	}

	dirs := filepath.SplitList(os.Getenv("DYLD_LIBRARY_PATH"))
	if dir := s.libDir(); dir != "" {
		dirs = append(dirs, dir)
	}
	dirs = append(dirs, searchPaths()...)

	return searchDirs(dirs, files...)
}
