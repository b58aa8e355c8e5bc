package libpython

import (
	"fmt"
	"strconv"

	"github.com/mitchellh/mapstructure"
)

// Vars holds the build-configuration variables recorded by the interpreter's build system. A variable that
// the build did not record is left empty.
type Vars struct {
	LDLibrary       string `mapstructure:"LDLIBRARY" json:"LDLIBRARY,omitempty" yaml:"LDLIBRARY,omitempty"`
	Library         string `mapstructure:"LIBRARY" json:"LIBRARY,omitempty" yaml:"LIBRARY,omitempty"`
	LibPL           string `mapstructure:"LIBPL" json:"LIBPL,omitempty" yaml:"LIBPL,omitempty"`
	SrcDir          string `mapstructure:"srcdir" json:"srcdir,omitempty" yaml:"srcdir,omitempty"`
	LibDir          string `mapstructure:"LIBDIR" json:"LIBDIR,omitempty" yaml:"LIBDIR,omitempty"`
	FrameworkPrefix string `mapstructure:"PYTHONFRAMEWORKPREFIX" json:"PYTHONFRAMEWORKPREFIX,omitempty" yaml:"PYTHONFRAMEWORKPREFIX,omitempty"`
	Version         string `mapstructure:"VERSION" json:"VERSION,omitempty" yaml:"VERSION,omitempty"`
	ABIFlags        string `mapstructure:"ABIFLAGS" json:"ABIFLAGS,omitempty" yaml:"ABIFLAGS,omitempty"`
	LowerABIFlags   string `mapstructure:"abiflags" json:"abiflags,omitempty" yaml:"abiflags,omitempty"`
	ShlibSuffix     string `mapstructure:"SHLIB_SUFFIX" json:"SHLIB_SUFFIX,omitempty" yaml:"SHLIB_SUFFIX,omitempty"`
}

// Profile describes the interpreter whose shared library is being located. A Profile is built once, usually
// by [Probe], and is only read afterwards.
type Profile struct {
	Windows bool   `json:"windows" yaml:"windows"`
	Apple   bool   `json:"apple" yaml:"apple"`
	Suffix  string `json:"suffix" yaml:"suffix"`
	Major   int    `json:"major" yaml:"major"`
	Minor   int    `json:"minor" yaml:"minor"`

	// Executable is the path of the interpreter executable.
	Executable string `json:"executable" yaml:"executable"`
	// ExecPrefix is the interpreter's installation prefix for platform-dependent files.
	ExecPrefix string `json:"exec_prefix" yaml:"exec_prefix"`
	// LinkedLibrary is the file the dynamic linker loaded Py_GetVersion from inside the interpreter
	// process. It is empty when the lookup was unavailable or failed.
	LinkedLibrary string `json:"linked_library,omitempty" yaml:"linked_library,omitempty"`

	Vars Vars `json:"vars" yaml:"vars"`
}

// VersionString returns the version as the build system spells it in library names: "X.Y" on Unix and "XY"
// on Windows. When the build did not record VERSION it falls back to "X.Y".
func (p Profile) VersionString() string {
	if p.Vars.Version != "" {
		return p.Vars.Version
	}
	return fmt.Sprintf("%d.%d", p.Major, p.Minor)
}

// ABIFlags returns the ABI flags of the build, e.g. "m" or "t".
func (p Profile) ABIFlags() string {
	if p.Vars.ABIFlags != "" {
		return p.Vars.ABIFlags
	}
	return p.Vars.LowerABIFlags
}

// libPrefix returns the file name prefix of shared libraries.
func (p Profile) libPrefix() string {
	if p.Windows {
		return ""
	}
	return "lib"
}

// shlibSuffix picks the shared library suffix for a platform. On macOS SHLIB_SUFFIX is often ".so", which
// is the suffix of extension modules rather than of libpython, so it is ignored there.
func shlibSuffix(windows, apple bool, recorded string) string {
	switch {
	case apple:
		return ".dylib"
	case recorded != "":
		return recorded
	case windows:
		return ".dll"
	default:
		return ".so"
	}
}

// decodeVars decodes the loosely typed build variables reported by the interpreter. Values that are not
// scalars are dropped so that a variable the build system recorded as a list reads as absent.
func decodeVars(raw map[string]any) (Vars, error) {
	scalars := make(map[string]any, len(raw))
	for k, v := range raw {
		switch v := v.(type) {
		case string, bool:
			scalars[k] = v
		case float64:
			scalars[k] = strconv.FormatFloat(v, 'f', -1, 64)
		}
	}

	var vars Vars
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		WeaklyTypedInput: true,
		MatchName:        func(mapKey, fieldName string) bool { return mapKey == fieldName },
		Result:           &vars,
	})
	if err != nil {
		return Vars{}, fmt.Errorf("new decoder: %w", err)
	}
	if err := dec.Decode(scalars); err != nil {
		return Vars{}, fmt.Errorf("decode vars: %w", err)
	}

	return vars, nil
}
