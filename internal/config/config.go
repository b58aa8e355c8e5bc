package config

import (
	"fmt"
	"strings"
	"time"
)

const (
	DefaultLogLevel     = "info"
	DefaultProbeTimeout = 10 * time.Second
)

// Config holds the tool configuration.
type Config struct {
	// Interpreter is the Python executable whose library is located.
	Interpreter string `toml:"interpreter"`
	// LibraryPath short-circuits the search when set.
	LibraryPath  string        `toml:"library_path"`
	LogLevel     string        `toml:"log_level"`
	ProbeTimeout time.Duration `toml:"probe_timeout"`
}

// Validate reports configuration values the tool cannot run with.
func (c Config) Validate() error {
	if strings.TrimSpace(c.Interpreter) == "" {
		return fmt.Errorf("config: interpreter must not be empty")
	}
	if c.ProbeTimeout <= 0 {
		return fmt.Errorf("config: probe_timeout must be positive, got %s", c.ProbeTimeout)
	}
	switch strings.ToLower(c.LogLevel) {
	case "debug", "info", "warn", "warning", "error":
	default:
		return fmt.Errorf("config: unknown log_level %q", c.LogLevel)
	}
	return nil
}
