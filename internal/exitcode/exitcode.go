// Package exitcode defines the process exit codes of the claw CLI.
package exitcode

const (
	// Success covers normal completion, including lookups that found
	// nothing and persistence warnings.
	Success = 0

	// UserError covers bad arguments, empty titles, malformed ids and
	// unsupported shells.
	UserError = 1

	// ConfigError covers unreadable or invalid configuration.
	ConfigError = 2

	// Interrupted is returned after SIGINT or SIGTERM.
	Interrupted = 130
)
