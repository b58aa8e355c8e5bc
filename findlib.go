//go:build !unix

package libpython

import (
	"os"
	"path/filepath"
)

// find looks up a DLL by name in the directories listed in PATH.
func (s *systemLookup) find(name string) string {
	return searchDirs(filepath.SplitList(os.Getenv("PATH")), name+".dll")
}
