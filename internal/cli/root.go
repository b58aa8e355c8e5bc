package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/adamkeys/libpython"
	"github.com/adamkeys/libpython/internal/config"
)

// version is set at build time via -ldflags.
var version = "dev"

// options carries the global flags and the state derived from them to every command.
type options struct {
	configFile string
	python     string
	logLevel   string
	timeout    time.Duration

	cfg    config.Config
	logger *slog.Logger

	// lookup replaces the system library lookup when set.
	lookup func(name string) string
}

// NewRootCmd returns the libpython command tree.
func NewRootCmd() *cobra.Command {
	return newRootCmd(&options{})
}

func newRootCmd(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "libpython",
		Short: "Locate the shared library of a Python interpreter",
		Long: `libpython - locate the Python shared library

Finds the libpython shared library that belongs to a Python interpreter so that
an application embedding Python can be pointed at it. The interpreter is asked
for its build configuration and the library is searched for in the directories
it was built and installed with.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return opts.load(cmd)
		},
	}

	cmd.PersistentFlags().StringVar(&opts.configFile, "config", "", "config file (default is $XDG_CONFIG_HOME/libpython/config.toml)")
	cmd.PersistentFlags().StringVar(&opts.python, "python", "", "python interpreter to locate the library for")
	cmd.PersistentFlags().StringVar(&opts.logLevel, "log-level", "", "log level (debug, info, warn, error)")
	cmd.PersistentFlags().DurationVar(&opts.timeout, "timeout", 0, "how long to wait for the interpreter to report its configuration")

	cmd.AddCommand(newFindCmd(opts))
	cmd.AddCommand(newCandidatesCmd(opts))
	cmd.AddCommand(newProfileCmd(opts))
	cmd.AddCommand(newInspectCmd(opts))
	cmd.AddCommand(newVersionCmd())

	return cmd
}

// Execute executes the root command.
func Execute(ctx context.Context) error {
	return NewRootCmd().ExecuteContext(ctx)
}

// load reads the configuration and applies flag overrides.
func (o *options) load(cmd *cobra.Command) error {
	cfg, err := config.Loader{}.Load(o.configFile)
	if err != nil {
		return err
	}

	flags := cmd.Flags()
	if flags.Changed("python") {
		cfg.Interpreter = o.python
	}
	if flags.Changed("log-level") {
		cfg.LogLevel = o.logLevel
	}
	if flags.Changed("timeout") {
		cfg.ProbeTimeout = o.timeout
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	o.cfg = cfg
	o.logger = newLogger(cfg.LogLevel, cmd.ErrOrStderr())
	return nil
}

// probe asks the configured interpreter for its profile.
func (o *options) probe(ctx context.Context) (libpython.Profile, error) {
	ctx, cancel := context.WithTimeout(ctx, o.cfg.ProbeTimeout)
	defer cancel()

	profile, err := libpython.Probe(ctx, o.cfg.Interpreter)
	if err != nil {
		return libpython.Profile{}, err
	}
	o.logger.Debug("probed interpreter",
		"interpreter", o.cfg.Interpreter,
		"executable", profile.Executable,
		"version", profile.VersionString(),
		"suffix", profile.Suffix,
	)
	return profile, nil
}

// locator returns a locator for profile that logs through the command logger.
func (o *options) locator(profile libpython.Profile) *libpython.Locator {
	opts := []libpython.Option{libpython.WithLogger(o.logger)}
	if o.lookup != nil {
		opts = append(opts, libpython.WithLookup(o.lookup))
	}
	return libpython.NewLocator(profile, opts...)
}

// find returns the library path, honouring a configured override.
func (o *options) find(ctx context.Context) (string, error) {
	if o.cfg.LibraryPath != "" {
		o.logger.Debug("using configured library path", "path", o.cfg.LibraryPath)
		return o.cfg.LibraryPath, nil
	}

	profile, err := o.probe(ctx)
	if err != nil {
		return "", err
	}
	path, ok := o.locator(profile).Find()
	if !ok {
		return "", fmt.Errorf("%w for %s", errNotFound, o.cfg.Interpreter)
	}
	return path, nil
}

func newLogger(level string, w io.Writer) *slog.Logger {
	handler := slog.NewTextHandler(w, &slog.HandlerOptions{
		Level: parseLevel(level),
	})
	return slog.New(handler)
}

func parseLevel(value string) slog.Leveler {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "debug":
		return slog.LevelDebug
	case "info", "":
		return slog.LevelInfo
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
