package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/adamkeys/libpython"
)

// Loader loads configuration from a TOML file and environment variables. Tests can override Lookup and
// ReadFile to inject deterministic sources.
type Loader struct {
	Lookup   func(string) (string, bool)
	ReadFile func(string) ([]byte, error)
}

// DefaultPath returns the configuration file read when none is named.
func DefaultPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "libpython", "config.toml")
}

// Load builds the configuration from defaults, the file at path, and environment overrides, in increasing
// priority. An empty path falls back to LIBPYTHON_CONFIG and then to [DefaultPath]; only a file that was
// named explicitly has to exist.
func (l Loader) Load(path string) (Config, error) {
	if l.Lookup == nil {
		l.Lookup = os.LookupEnv
	}
	if l.ReadFile == nil {
		l.ReadFile = os.ReadFile
	}

	cfg := Config{
		Interpreter:  libpython.DefaultInterpreter(),
		LogLevel:     DefaultLogLevel,
		ProbeTimeout: DefaultProbeTimeout,
	}

	required := path != ""
	if !required {
		if env, ok := l.Lookup("LIBPYTHON_CONFIG"); ok && strings.TrimSpace(env) != "" {
			path, required = strings.TrimSpace(env), true
		} else {
			path = DefaultPath()
		}
	}
	if path != "" {
		if err := l.applyFile(path, required, &cfg); err != nil {
			return Config{}, err
		}
	}

	overrideString(l.Lookup, "LIBPYTHON_PYTHON", &cfg.Interpreter)
	overrideString(l.Lookup, "LIBPYTHON_PATH", &cfg.LibraryPath)
	overrideString(l.Lookup, "LIBPYTHON_LOG_LEVEL", &cfg.LogLevel)
	if err := overrideDuration(l.Lookup, "LIBPYTHON_PROBE_TIMEOUT", &cfg.ProbeTimeout); err != nil {
		return Config{}, err
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (l Loader) applyFile(path string, required bool, cfg *Config) error {
	data, err := l.ReadFile(path)
	if err != nil {
		if !required && errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("config: read %s: %w", path, err)
	}

	md, err := toml.Decode(string(data), cfg)
	if err != nil {
		return fmt.Errorf("config: decode %s: %w", path, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return fmt.Errorf("config: %s: unknown key %q", path, undecoded[0].String())
	}
	return nil
}

func overrideString(lookup func(string) (string, bool), key string, target *string) {
	if value, ok := lookup(key); ok && strings.TrimSpace(value) != "" {
		*target = strings.TrimSpace(value)
	}
}

func overrideDuration(lookup func(string) (string, bool), key string, target *time.Duration) error {
	if value, ok := lookup(key); ok && strings.TrimSpace(value) != "" {
		parsed, err := time.ParseDuration(strings.TrimSpace(value))
		if err != nil {
			return fmt.Errorf("config: invalid value for %s: %w", key, err)
		}
		*target = parsed
	}
	return nil
}
