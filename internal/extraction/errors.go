package extraction

import (
	"context"
	"errors"
	"fmt"

	"github.com/raulfermoselle/ai-shopping-copilot-sub007/internal/bridge"
	"github.com/raulfermoselle/ai-shopping-copilot-sub007/internal/runstate"
)

// ErrNotLoggedIn is returned when the session check comes back unsigned.
var ErrNotLoggedIn = errors.New("session is not authenticated")

// Classify maps a port failure onto the run error taxonomy.
//
//	network   -> recoverable (retried via resume)
//	selector  -> extraction, not recoverable (site layout changed)
//	auth      -> not recoverable (re-login required out of band)
//	otherwise -> unknown, not recoverable by default
//
// A timed-out or cancelled port call is a network error: re-running the
// step is always safe because steps are idempotent.
func Classify(err error) runstate.RunError {
	if err == nil {
		return runstate.RunError{}
	}

	if errors.Is(err, ErrNotLoggedIn) {
		return runstate.RunError{
			Code:        runstate.ErrorAuth,
			Message:     err.Error(),
			Recoverable: false,
		}
	}

	var bridgeErr *bridge.Error
	if errors.As(err, &bridgeErr) {
		switch bridgeErr.Tag {
		case bridge.TagAuth:
			return runstate.RunError{Code: runstate.ErrorAuth, Message: bridgeErr.Message, Recoverable: false}
		case bridge.TagSelector:
			return runstate.RunError{Code: runstate.ErrorExtraction, Message: bridgeErr.Message, Recoverable: false}
		default:
			return runstate.RunError{Code: runstate.ErrorNetwork, Message: bridgeErr.Message, Recoverable: true}
		}
	}

	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return runstate.RunError{
			Code:        runstate.ErrorNetwork,
			Message:     fmt.Sprintf("operation timed out: %v", err),
			Recoverable: true,
		}
	}

	return runstate.RunError{
		Code:        runstate.ErrorUnknown,
		Message:     err.Error(),
		Recoverable: false,
	}
}
