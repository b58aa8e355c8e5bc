//go:build unix

package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fixture is a fake interpreter installation whose probe output points at a temporary library directory.
type fixture struct {
	root   string
	libDir string
	python string
	config string
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	for _, key := range []string{"LIBPYTHON_CONFIG", "LIBPYTHON_PYTHON", "LIBPYTHON_PATH", "LIBPYTHON_LOG_LEVEL", "LIBPYTHON_PROBE_TIMEOUT"} {
		t.Setenv(key, "")
	}

	root := t.TempDir()
	f := fixture{
		root:   root,
		libDir: filepath.Join(root, "lib"),
		python: filepath.Join(root, "bin", "python3"),
		config: filepath.Join(root, "config.toml"),
	}
	require.NoError(t, os.MkdirAll(f.libDir, 0o755))
	require.NoError(t, os.MkdirAll(filepath.Dir(f.python), 0o755))
	require.NoError(t, os.WriteFile(f.config, nil, 0o644))

	probe := fmt.Sprintf(`{
	"platform": "linux",
	"os_name": "posix",
	"executable": %q,
	"exec_prefix": %q,
	"version_info": [3, 12],
	"linked": null,
	"config_vars": {"LDLIBRARY": "libpython3.12.so", "LIBDIR": %q, "VERSION": "3.12", "SHLIB_SUFFIX": ".so"}
}`, f.python, root, f.libDir)
	script := "#!/bin/sh\ncat <<'JSON'\n" + probe + "\nJSON\n"
	require.NoError(t, os.WriteFile(f.python, []byte(script), 0o755))

	return f
}

func (f fixture) run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd(&options{lookup: func(string) string { return "" }})
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(io.Discard)
	cmd.SetArgs(append([]string{"--config", f.config, "--python", f.python}, args...))
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestFind(t *testing.T) {
	f := newFixture(t)
	lib := filepath.Join(f.libDir, "libpython3.12.so")
	require.NoError(t, os.WriteFile(lib, nil, 0o644))

	out, err := f.run(t, "find")
	require.NoError(t, err)

	exp, err := filepath.EvalSymlinks(lib)
	require.NoError(t, err)
	assert.Equal(t, exp+"\n", out)
}

func TestFind_NotFound(t *testing.T) {
	f := newFixture(t)

	_, err := f.run(t, "find")
	require.ErrorIs(t, err, errNotFound)
	assert.Contains(t, err.Error(), f.python)
}

func TestFind_LibraryPathOverride(t *testing.T) {
	f := newFixture(t)
	t.Setenv("LIBPYTHON_PATH", "/custom/libpython3.12.so")

	out, err := f.run(t, "find")
	require.NoError(t, err)
	assert.Equal(t, "/custom/libpython3.12.so\n", out)
}

func TestFind_ProbeFails(t *testing.T) {
	f := newFixture(t)

	_, err := f.run(t, "find", "--python", filepath.Join(f.root, "missing"))
	assert.Error(t, err)
}

func TestCandidates(t *testing.T) {
	f := newFixture(t)

	out, err := f.run(t, "candidates")
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.NotEmpty(t, lines)
	assert.Equal(t, filepath.Join(f.libDir, "libpython3.12.so"), lines[0])
	assert.Contains(t, lines, filepath.Join(f.root, "libpython3.so"))
}

func TestCandidates_Existing(t *testing.T) {
	f := newFixture(t)
	lib := filepath.Join(f.libDir, "libpython3.so")
	require.NoError(t, os.WriteFile(lib, nil, 0o644))

	out, err := f.run(t, "candidates", "--existing")
	require.NoError(t, err)

	exp, err := filepath.EvalSymlinks(lib)
	require.NoError(t, err)
	assert.Equal(t, exp+"\n", out)
}

func TestCandidates_ExistingRejectsSuffix(t *testing.T) {
	f := newFixture(t)

	_, err := f.run(t, "candidates", "--existing", "--suffix", ".dylib")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "existing")
	assert.Contains(t, err.Error(), "suffix")
}

func TestCandidates_Suffix(t *testing.T) {
	f := newFixture(t)

	out, err := f.run(t, "candidates", "--suffix", ".dylib")
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	assert.Contains(t, lines, filepath.Join(f.root, "libpython3.dylib"))
}

func TestProfile_JSON(t *testing.T) {
	f := newFixture(t)

	out, err := f.run(t, "profile", "--format", "json")
	require.NoError(t, err)

	var got struct {
		Major  int    `json:"major"`
		Minor  int    `json:"minor"`
		Suffix string `json:"suffix"`
		Vars   struct {
			LibDir string `json:"LIBDIR"`
		} `json:"vars"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.Equal(t, 3, got.Major)
	assert.Equal(t, 12, got.Minor)
	assert.Equal(t, ".so", got.Suffix)
	assert.Equal(t, f.libDir, got.Vars.LibDir)
}

func TestProfile_YAML(t *testing.T) {
	f := newFixture(t)

	out, err := f.run(t, "profile")
	require.NoError(t, err)
	assert.Contains(t, out, "suffix: .so")
	assert.Contains(t, out, "LDLIBRARY: libpython3.12.so")
}

func TestProfile_UnknownFormat(t *testing.T) {
	f := newFixture(t)

	_, err := f.run(t, "profile", "--format", "xml")
	assert.Error(t, err)
}

func TestInspect_NotALibrary(t *testing.T) {
	f := newFixture(t)
	lib := filepath.Join(f.libDir, "libpython3.12.so")
	require.NoError(t, os.WriteFile(lib, []byte("not a library"), 0o644))

	_, err := f.run(t, "inspect", lib)
	assert.Error(t, err)
}

func TestInvalidTimeoutFlag(t *testing.T) {
	f := newFixture(t)

	_, err := f.run(t, "find", "--timeout", "0s")
	assert.Error(t, err)
}

func TestVersion(t *testing.T) {
	f := newFixture(t)

	out, err := f.run(t, "version")
	require.NoError(t, err)
	assert.Equal(t, "libpython version dev\n", out)
}

func TestParseLevel(t *testing.T) {
	tests := map[string]string{
		"debug":   "DEBUG",
		"":        "INFO",
		"WARNING": "WARN",
		"error":   "ERROR",
		"bogus":   "INFO",
	}
	for in, exp := range tests {
		assert.Equal(t, exp, parseLevel(in).Level().String(), in)
	}
}
