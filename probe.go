package libpython

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"

	_ "embed"
)

// ErrProbeFailed is returned when the interpreter could not be queried for its build configuration.
var ErrProbeFailed = errors.New("probe failed")

// probeScript is run by the interpreter to report its build configuration as JSON.
//
//go:embed probe.py
var probeScript string

// probeResult is the JSON document written by probeScript.
type probeResult struct {
	Platform    string         `json:"platform"`
	OSName      string         `json:"os_name"`
	Executable  string         `json:"executable"`
	ExecPrefix  string         `json:"exec_prefix"`
	VersionInfo []int          `json:"version_info"`
	Linked      string         `json:"linked"`
	ConfigVars  map[string]any `json:"config_vars"`
}

// DefaultInterpreter returns the interpreter to probe when none is configured. An active virtual
// environment takes precedence over the interpreter on PATH.
func DefaultInterpreter() string {
	if venv := os.Getenv("VIRTUAL_ENV"); venv != "" {
		if runtime.GOOS == "windows" {
			return filepath.Join(venv, "Scripts", "python.exe")
		}
		return filepath.Join(venv, "bin", "python")
	}
	if runtime.GOOS == "windows" {
		return "python"
	}
	return "python3"
}

// Probe runs interpreter and builds a [Profile] from the build configuration it reports.
func Probe(ctx context.Context, interpreter string) (Profile, error) {
	var stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, interpreter, "-c", probeScript)
	cmd.Stderr = &stderr

	out, err := cmd.Output()
	if err != nil {
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			return Profile{}, fmt.Errorf("%w: %s: %v: %s", ErrProbeFailed, interpreter, err, msg)
		}
		return Profile{}, fmt.Errorf("%w: %s: %v", ErrProbeFailed, interpreter, err)
	}

	return ProfileFromProbe(out)
}

// ProfileFromProbe builds a [Profile] from the JSON document written by the probe script.
func ProfileFromProbe(data []byte) (Profile, error) {
	var result probeResult
	if err := json.Unmarshal(data, &result); err != nil {
		return Profile{}, fmt.Errorf("%w: unmarshal: %v", ErrProbeFailed, err)
	}
	if len(result.VersionInfo) < 2 {
		return Profile{}, fmt.Errorf("%w: missing version_info", ErrProbeFailed)
	}

	vars, err := decodeVars(result.ConfigVars)
	if err != nil {
		return Profile{}, fmt.Errorf("%w: %v", ErrProbeFailed, err)
	}

	windows := result.OSName == "nt"
	apple := result.Platform == "darwin"
	return Profile{
		Windows:       windows,
		Apple:         apple,
		Suffix:        shlibSuffix(windows, apple, vars.ShlibSuffix),
		Major:         result.VersionInfo[0],
		Minor:         result.VersionInfo[1],
		Executable:    result.Executable,
		ExecPrefix:    result.ExecPrefix,
		LinkedLibrary: result.Linked,
		Vars:          vars,
	}, nil
}
