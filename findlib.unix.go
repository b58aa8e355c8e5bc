//go:build unix && !(darwin || linux)

package libpython

import (
	"os"
	"path/filepath"
)

// searchPaths returns the list of paths to search for Python shared libraries on Unix systems.
func searchPaths() []string {
	paths := filepath.SplitList(os.Getenv("LD_LIBRARY_PATH"))
	paths = append(paths,
		"/usr/local/lib",
		"/usr/lib",
	)
	if home, err := os.UserHomeDir(); err == nil {
		paths = append(paths,
			filepath.Join(home, ".pyenv/versions/*/lib"),
			filepath.Join(home, "miniconda3/lib"),
			filepath.Join(home, "anaconda3/lib"),
			filepath.Join(home, ".local/lib"),
		)
	}

	return paths
}

// find looks up a library by name on Unix systems.
// It first tries pkg-config, then falls back to searching common paths.
func (s *systemLookup) find(name string) string {
	file := "lib" + name + ".so"
	if path := s.pkgConfig(file); path != "" {
		return path
	}
	return searchDirs(searchPaths(), file)
}
