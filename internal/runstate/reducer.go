package runstate

// MaxConsecutiveErrors is the number of consecutive failures after which the
// ResumeRun guard rejects further retries and the caller must cancel.
const MaxConsecutiveErrors = 3

// Reduce applies an action to a state and returns the next state. It is pure
// and total: an action that is invalid for the current status returns the
// state unchanged, never an error, so it is safe to dispatch speculatively.
func Reduce(s RunState, a Action) RunState {
	switch a := a.(type) {
	case StartRun:
		// A completed run is implicitly superseded by the next start; only
		// running, paused and review states block a new run.
		if (s.Status != StatusIdle && s.Status != StatusComplete) || a.TabID == 0 {
			return s
		}
		next := NewIdleState()
		next.RunID = a.RunID
		next.Status = StatusRunning
		next.Phase = PhaseInitializing
		next.Step = FirstStep(PhaseInitializing)
		next.TabID = a.TabID
		next.OrderID = a.OrderID
		next.StartedAt = a.At
		next.LastUpdated = a.At
		return next

	case PauseRun:
		if s.Status != StatusRunning {
			return s
		}
		s.Status = StatusPaused
		s.LastUpdated = a.At
		return s

	case ErrorOccurred:
		if s.Status != StatusRunning {
			return s
		}
		err := a.Err
		s.Status = StatusPaused
		s.Error = &err
		s.ErrorCount++
		s.LastUpdated = a.At
		return s

	case ResumeRun:
		if s.Status != StatusPaused || !CanRetry(s) {
			return s
		}
		s.Status = StatusRunning
		s.Error = nil
		s.LastUpdated = a.At
		return s

	case CancelRun:
		switch s.Status {
		case StatusRunning, StatusPaused, StatusReview, StatusComplete:
			next := NewIdleState()
			next.LastUpdated = a.At
			return next
		}
		return s

	case PhaseComplete:
		if s.Status != StatusRunning || a.Phase != s.Phase {
			return s
		}
		// A completed phase counts as a success, so the consecutive-error
		// counter starts over.
		s.ErrorCount = 0
		s.LastUpdated = a.At
		next, ok := NextPhase(s.Phase)
		if !ok {
			s.Status = StatusReview
			s.Step = ""
			return s
		}
		s.Phase = next
		s.Step = FirstStep(next)
		return s

	case StepUpdate:
		if s.Status != StatusRunning {
			return s
		}
		s.Step = a.Step
		s.LastUpdated = a.At
		return s

	case ProgressUpdate:
		if s.Status != StatusRunning {
			return s
		}
		s.Progress = a.Progress
		s.LastUpdated = a.At
		return s

	case ApproveCart:
		if s.Status != StatusReview {
			return s
		}
		s.Status = StatusComplete
		s.LastUpdated = a.At
		return s

	case RecoveryComplete:
		s.RecoveryNeeded = false
		return s
	}

	return s
}

// CanRetry reports whether a paused run may be resumed: fewer than
// MaxConsecutiveErrors consecutive failures and a recoverable last error.
// A run paused by hand (no error recorded) may always resume.
func CanRetry(s RunState) bool {
	if s.ErrorCount >= MaxConsecutiveErrors {
		return false
	}
	return s.Error == nil || s.Error.Recoverable
}

// PackReady reports whether the finalizing phase has assembled the review
// pack: the step is cleared once assembly is done.
func PackReady(s RunState) bool {
	return s.Phase == PhaseFinalizing && s.Step == ""
}
