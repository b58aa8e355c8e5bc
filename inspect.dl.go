//go:build darwin || linux

package libpython

import (
	"fmt"
	"path/filepath"
	"runtime"
	"unsafe"

	"github.com/ebitengine/purego"
)

// dlInfo matches the Dl_info struct filled in by dladdr.
type dlInfo struct {
	fname *byte
	fbase uintptr
	sname *byte
	saddr uintptr
}

// dladdrLibraries are the libraries that export dladdr, tried in order.
var dladdrLibraries = map[string][]string{
	"darwin": {"/usr/lib/libSystem.B.dylib"},
	"linux":  {"libc.so.6", "libdl.so.2"},
}

// Inspect loads the Python shared library at path and reports its version and the file the dynamic linker
// mapped it from. The interpreter is not initialized. The library stays loaded for the life of the process.
func Inspect(path string) (Runtime, error) {
	lib, err := purego.Dlopen(path, purego.RTLD_NOW|purego.RTLD_LOCAL)
	if err != nil {
		return Runtime{}, fmt.Errorf("dlopen: %v", err)
	}

	sym, err := purego.Dlsym(lib, "Py_GetVersion")
	if err != nil {
		return Runtime{}, fmt.Errorf("dlsym Py_GetVersion: %v", err)
	}
	var py_GetVersion func() string
	purego.RegisterFunc(&py_GetVersion, sym)

	rt := Runtime{Path: loadedPath(sym, path), Version: py_GetVersion()}
	major, minor, ok := parseVersion(rt.Version)
	if !ok {
		return rt, fmt.Errorf("unrecognized version %q", rt.Version)
	}
	rt.Major, rt.Minor = major, minor

	return rt, nil
}

// loadedPath returns the canonical path of the file containing addr. It falls back to the canonical form of
// path when dladdr is unavailable.
func loadedPath(addr uintptr, path string) string {
	dladdr, ok := lookupDladdr()
	if ok {
		var info dlInfo
		if dladdr(addr, &info) != 0 && info.fname != nil {
			return realpath(goString(info.fname))
		}
	}
	if resolved, err := filepath.EvalSymlinks(path); err == nil {
		return resolved
	}
	return path
}

// lookupDladdr resolves dladdr from the C library.
func lookupDladdr() (func(uintptr, *dlInfo) int32, bool) {
	for _, name := range dladdrLibraries[runtime.GOOS] {
		lib, err := purego.Dlopen(name, purego.RTLD_LAZY|purego.RTLD_GLOBAL)
		if err != nil {
			continue
		}
		sym, err := purego.Dlsym(lib, "dladdr")
		if err != nil {
			continue
		}
		var dladdr func(uintptr, *dlInfo) int32
		purego.RegisterFunc(&dladdr, sym)
		return dladdr, true
	}
	return nil, false
}

// goString copies a NUL-terminated C string.
func goString(p *byte) string {
	var n int
	for *(*byte)(unsafe.Add(unsafe.Pointer(p), n)) != 0 {
		n++
	}
	return string(unsafe.Slice(p, n))
}
