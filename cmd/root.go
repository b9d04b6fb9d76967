// Package cmd implements the CLI command structure for claw.
package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/nibzard/taskclaw/internal/config"
	"github.com/nibzard/taskclaw/internal/exitcode"
	"github.com/nibzard/taskclaw/internal/logging"
	"github.com/nibzard/taskclaw/internal/storage"
	"github.com/nibzard/taskclaw/internal/task"
)

// Version is set via ldflags at build time.
var Version = "dev"

// openBackend selects the storage backend for a loaded config.
var openBackend = storage.Open

// exitError carries the exit code for an error. Plain errors are printed
// as they are; others get an "Error: " prefix.
type exitError struct {
	code  int
	plain bool
	err   error
}

func (e *exitError) Error() string { return e.err.Error() }

func (e *exitError) Unwrap() error { return e.err }

func userError(format string, args ...any) error {
	return &exitError{code: exitcode.UserError, err: fmt.Errorf(format, args...)}
}

func plainUserError(format string, args ...any) error {
	return &exitError{code: exitcode.UserError, plain: true, err: fmt.Errorf(format, args...)}
}

// app holds what commands share for one invocation.
type app struct {
	stdout io.Writer
	stderr io.Writer
	logger *log.Logger

	cws     *config.ConfigWithSources
	backend storage.Backend
}

// Run executes the claw CLI and returns the process exit code.
func Run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	a := &app{
		stdout: stdout,
		stderr: stderr,
		logger: logging.New(stderr, logging.DefaultOptions()),
	}
	root := a.newRootCmd()
	root.SetArgs(args)
	root.SetOut(stdout)
	root.SetErr(stderr)

	err := root.ExecuteContext(ctx)
	if err == nil {
		return exitcode.Success
	}
	if ctx.Err() != nil {
		fmt.Fprintln(stderr, "\nInterrupted")
		return exitcode.Interrupted
	}

	var ee *exitError
	if errors.As(err, &ee) {
		if ee.plain {
			fmt.Fprintln(stderr, ee.err)
		} else {
			fmt.Fprintln(stderr, "Error:", ee.err)
		}
		return ee.code
	}
	// cobra usage errors: unknown command, bad flag, wrong arg count
	fmt.Fprintln(stderr, "Error:", err)
	return exitcode.UserError
}

func (a *app) newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "claw",
		Short:         "A simple CLI task tracking tool",
		Long:          "claw keeps a small list of tasks in a data directory and lets you add, list, complete and remove them from the shell or a full-screen editor.",
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.SetVersionTemplate("claw version {{.Version}}\n")
	root.CompletionOptions.DisableDefaultCmd = true
	config.RegisterFlags(root.PersistentFlags())

	root.AddCommand(
		a.newAddCmd(),
		a.newListCmd(),
		a.newCompleteCmd(),
		a.newRemoveCmd(),
		a.newCompletionsCmd(),
		a.newTUICmd(),
		a.newDoctorCmd(),
		a.newConfigCmd(),
		a.newVersionCmd(),
	)
	return root
}

// loadConfig resolves configuration from the command's flags and replaces
// the bootstrap logger with the configured one.
func (a *app) loadConfig(cmd *cobra.Command) (*config.Config, error) {
	if a.cws != nil {
		return a.cws.Config, nil
	}
	cws, err := config.LoadWithSources(cmd.Flags())
	if err != nil {
		return nil, &exitError{code: exitcode.ConfigError, err: fmt.Errorf("loading config: %w", err)}
	}
	a.cws = cws
	cfg := cws.Config
	a.logger = logging.FromConfig(a.stderr, cfg.LogLevel, cfg.LogFormat, cfg.LogTimestamps)
	for _, key := range cws.Unknown {
		a.logger.Warn("unknown config key", "key", key, "file", cfg.ConfigFile)
	}
	a.logger.Debug("config loaded", "file", cfg.ConfigFile, "data_dir", cfg.DataDir, "storage", cfg.Storage)
	return cfg, nil
}

// openStore loads the persisted tasks into a store that writes through
// the configured backend.
func (a *app) openStore(cmd *cobra.Command) (*task.Store, *storage.LoadReport, error) {
	cfg, err := a.loadConfig(cmd)
	if err != nil {
		return nil, nil, err
	}
	backend, err := openBackend(cfg, a.logger)
	if err != nil {
		return nil, nil, &exitError{code: exitcode.ConfigError, err: err}
	}
	a.backend = backend
	store, report, err := storage.OpenStore(backend)
	if err != nil {
		return nil, nil, fmt.Errorf("loading tasks: %w", err)
	}
	if n := len(report.Skipped); n > 0 {
		a.logger.Warn("some task records were skipped; run 'claw doctor' for details", "skipped", n)
	}
	return store, report, nil
}

// warnPersist reports a failed write. The command still succeeds.
func (a *app) warnPersist(action string, err error) {
	a.logger.Warn("could not "+action, "err", err)
}
