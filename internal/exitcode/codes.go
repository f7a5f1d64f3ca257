// Package exitcode defines named exit codes for the cart-copilot CLI.
//
// Each code maps a specific termination condition to a numeric value
// recognized by shell scripts and automation around the CLI.
package exitcode

// Exit code constants for the cart-copilot CLI.
const (
	Success          = 0   // Run completed (or review pack approved)
	Error            = 1   // Invalid args, file not found, misconfiguration
	AuthRequired     = 2   // Session not authenticated; re-login needed
	ExtractionFailed = 3   // Site layout changed; selectors no longer match
	MaxErrors        = 4   // Consecutive-error threshold exceeded
	ReviewPending    = 5   // Run paused or waiting for human review
	Interrupted      = 130 // SIGINT/SIGTERM received
)

// Name returns the human-readable name for the given exit code.
// Unknown codes return "unknown".
func Name(code int) string {
	switch code {
	case Success:
		return "Success"
	case Error:
		return "Error"
	case AuthRequired:
		return "AuthRequired"
	case ExtractionFailed:
		return "ExtractionFailed"
	case MaxErrors:
		return "MaxErrors"
	case ReviewPending:
		return "ReviewPending"
	case Interrupted:
		return "Interrupted"
	default:
		return "unknown"
	}
}
