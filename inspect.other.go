//go:build !(darwin || linux)

package libpython

// Inspect returns ErrInspectUnsupported on systems where the library cannot be loaded.
func Inspect(path string) (Runtime, error) {
	return Runtime{}, ErrInspectUnsupported
}
