// Package libpython locates the shared library of a Python interpreter so that a host application can load
// it as its embedded runtime.
//
// The search follows the interpreter's own build configuration: the library the interpreter process has
// loaded, the file names recorded by its build system joined to the directories it was installed in, and
// finally the system library lookup.
//
//	profile, err := libpython.Probe(ctx, "python3")
//	if err != nil {
//	    return err
//	}
//	path, ok := libpython.NewLocator(profile).Find()
package libpython

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"
)

// ErrLibraryNotFound is returned when the Python shared library cannot be found.
var ErrLibraryNotFound = errors.New("library not found")

// probeTimeout bounds how long Lib waits for the interpreter to report its configuration.
const probeTimeout = 10 * time.Second

// Lib returns the path of the shared library behind the default interpreter (see [DefaultInterpreter]). The
// interpreter is asked for its build configuration and a [Locator] searches the places it names. A set
// LIBPYTHON_PATH is returned as is, without running the interpreter. Failures wrap ErrLibraryNotFound.
func Lib() (string, error) {
	if path := os.Getenv("LIBPYTHON_PATH"); path != "" {
		return path, nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), probeTimeout)
	defer cancel()

	profile, err := Probe(ctx, DefaultInterpreter())
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrLibraryNotFound, err)
	}

	path, ok := NewLocator(profile).Find()
	if !ok {
		return "", ErrLibraryNotFound
	}
	return path, nil
}
