package notification

import (
	"fmt"
)

// Notification events emitted by the orchestrator lifecycle.
const (
	EventReviewReady  = "review_ready"
	EventRunPaused    = "run_paused"
	EventRunCancelled = "run_cancelled"
	EventApproved     = "approved"
	EventInterrupted  = "interrupted"
)

// FormatEvent renders the one-line message sent for an event.
func FormatEvent(event, runID string, detail string) string {
	var headline string
	switch event {
	case EventReviewReady:
		headline = "🛒 Cart ready for review"
	case EventRunPaused:
		headline = "⏸ Run paused"
	case EventRunCancelled:
		headline = "✖ Run cancelled"
	case EventApproved:
		headline = "✓ Review pack approved"
	case EventInterrupted:
		headline = "⚠ Run interrupted"
	default:
		headline = event
	}
	msg := fmt.Sprintf("%s [run %s]", headline, shortID(runID))
	if detail != "" {
		msg += " — " + detail
	}
	return msg
}

// shortID trims a UUID down to its first group for display.
func shortID(runID string) string {
	if len(runID) > 8 {
		return runID[:8]
	}
	if runID == "" {
		return "none"
	}
	return runID
}
