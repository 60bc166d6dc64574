// Package exitcode provides standardized exit codes for licensegate
package exitcode

// Exit codes for the licensegate CLI. ViolationsFound is deliberately 1 so
// CI gates can rely on plain success/failure semantics.
const (
	Success         = 0
	ViolationsFound = 1
	GeneralError    = 2
	ConfigError     = 3
	UsageError      = 4
)

// String returns a human-readable description of the exit code
func String(code int) string {
	switch code {
	case Success:
		return "Success"
	case ViolationsFound:
		return "License violations found"
	case GeneralError:
		return "General error"
	case ConfigError:
		return "Configuration error"
	case UsageError:
		return "Usage error"
	default:
		return "Unknown error"
	}
}
