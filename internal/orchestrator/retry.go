package orchestrator

import (
	"context"
	"fmt"
	"time"

	"github.com/raulfermoselle/ai-shopping-copilot-sub007/internal/runstate"
)

// ResumeConfig configures the exponential-backoff auto-resume loop.
type ResumeConfig struct {
	// BaseDelay is the first wait, in seconds (default 5). Each further
	// attempt doubles it.
	BaseDelay int
	// OnRetry is called before each wait with the attempt number and the
	// delay in seconds.
	OnRetry func(attempt int, delay int)
}

// AutoResume keeps resuming a paused run with exponential backoff while the
// retry guard allows it. It returns nil once the run has left the paused
// state for review (or was cancelled underneath us), and an error when the
// guard rejects further retries and the caller must cancel.
func AutoResume(ctx context.Context, o *Orchestrator, cfg ResumeConfig) error {
	delay := cfg.BaseDelay
	if delay <= 0 {
		delay = 5
	}

	attempt := 0
	for {
		st := o.State()
		switch st.Status {
		case runstate.StatusPaused:
			// fall through to the guard check below
		case runstate.StatusRunning:
			return fmt.Errorf("run is still in flight")
		default:
			return nil
		}

		if !runstate.CanRetry(st) {
			if st.Error != nil && !st.Error.Recoverable {
				return fmt.Errorf("error is not recoverable (%s): %s", st.Error.Code, st.Error.Message)
			}
			return fmt.Errorf("retry limit reached after %d consecutive failures", st.ErrorCount)
		}

		if cfg.OnRetry != nil {
			cfg.OnRetry(attempt, delay)
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(time.Duration(delay) * time.Second):
		}

		if err := o.ResumeRun(ctx); err != nil {
			return err
		}

		delay *= 2
		attempt++
	}
}
