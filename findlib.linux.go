//go:build linux

package libpython

// defaultLibDirs are searched when neither ldconfig nor pkg-config know the library.
var defaultLibDirs = []string{
	"/usr/lib/x86_64-linux-gnu",
	"/usr/lib/aarch64-linux-gnu",
	"/usr/lib64",
	"/usr/lib",
	"/lib/x86_64-linux-gnu",
	"/lib/aarch64-linux-gnu",
	"/lib64",
	"/usr/local/lib",
}

// find looks up a library by name on Linux systems. It first consults the dynamic linker cache, then
// pkg-config, then the common library directories.
func (s *systemLookup) find(name string) string {
	if path := s.ldconfig(name); path != "" {
		return path
	}

	file := "lib" + name + ".so"
	if path := s.pkgConfig(file); path != "" {
		return path
	}
	return searchDirs(defaultLibDirs, file)
}
