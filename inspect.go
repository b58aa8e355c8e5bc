package libpython

import (
	"errors"
	"strconv"
	"strings"
)

// ErrInspectUnsupported is returned by [Inspect] on platforms without a dynamic loader it can drive.
var ErrInspectUnsupported = errors.New("inspect not supported on this platform")

// Runtime describes a Python shared library after it has been loaded.
type Runtime struct {
	// Path is the file the dynamic linker mapped Py_GetVersion from.
	Path string `json:"path" yaml:"path"`
	// Version is the full version string reported by Py_GetVersion.
	Version string `json:"version" yaml:"version"`
	Major   int    `json:"major" yaml:"major"`
	Minor   int    `json:"minor" yaml:"minor"`
}

// Matches reports whether the runtime has the same major and minor version as the profile.
func (r Runtime) Matches(p Profile) bool {
	return r.Major == p.Major && r.Minor == p.Minor
}

// parseVersion extracts the major and minor version from a Py_GetVersion string such as
// "3.12.1 (main, Dec  7 2023, 20:45:44) [GCC 11.4.0]".
func parseVersion(version string) (major, minor int, ok bool) {
	parts := strings.Split(version, ".")
	if len(parts) < 2 {
		return 0, 0, false
	}
	major, err := strconv.Atoi(parts[0])
	if err != nil {
		return 0, 0, false
	}

	minorStr := parts[1]
	for i, c := range minorStr {
		if c < '0' || c > '9' {
			minorStr = minorStr[:i]
			break
		}
	}
	minor, err = strconv.Atoi(minorStr)
	if err != nil {
		return 0, 0, false
	}

	return major, minor, true
}
