// Package signal provides signal handling for graceful shutdown of the
// cart-copilot CLI.
//
// A run interrupted by SIGINT/SIGTERM must leave its persisted state behind
// so it can be resumed; the handler gives the orchestrator a chance to do
// that before the context is cancelled.
package signal

import (
	"context"
	"os"
	"os/signal"
	"syscall"
)

// SetupHandler registers SIGINT and SIGTERM handlers. When a signal
// arrives, onInterrupt (if non-nil) runs first, then the context is
// cancelled. The listening goroutine exits when the context ends.
func SetupHandler(ctx context.Context, cancel context.CancelFunc, onInterrupt func()) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		select {
		case <-sigCh:
			if onInterrupt != nil {
				onInterrupt()
			}
			cancel()
		case <-ctx.Done():
			return
		}
	}()
}
