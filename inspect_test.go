package libpython

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseVersion(t *testing.T) {
	tests := []struct {
		version string
		major   int
		minor   int
		ok      bool
	}{
		{"3.12.1 (main, Dec  7 2023, 20:45:44) [GCC 11.4.0]", 3, 12, true},
		{"3.13.0rc1 (main)", 3, 13, true},
		{"3.9", 3, 9, true},
		{"3.14a1", 3, 14, true},
		{"3", 0, 0, false},
		{"x.y", 0, 0, false},
		{"3.rc", 0, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.version, func(t *testing.T) {
			major, minor, ok := parseVersion(tt.version)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.major, major)
			assert.Equal(t, tt.minor, minor)
		})
	}
}

func TestRuntime_Matches(t *testing.T) {
	rt := Runtime{Major: 3, Minor: 12}
	assert.True(t, rt.Matches(Profile{Major: 3, Minor: 12}))
	assert.False(t, rt.Matches(Profile{Major: 3, Minor: 11}))
}

func TestInspect_Missing(t *testing.T) {
	_, err := Inspect(filepath.Join(t.TempDir(), "libpython-missing.so"))
	require.Error(t, err)
}
