package runstate

// Action is the closed set of inputs accepted by Reduce. The unexported
// marker method keeps the set closed to this package, so the reducer's type
// switch stays exhaustive.
//
// Actions that touch timestamps carry an At field (RFC3339) instead of the
// reducer reading the clock, keeping Reduce pure.
type Action interface {
	isAction()
}

// StartRun begins a new run. Rejected unless the state is idle or complete
// and a tab handle is supplied. The caller generates RunID; the reducer never
// invents identity. A non-empty OrderID restricts the run to that one order.
type StartRun struct {
	RunID   string
	TabID   int
	OrderID string
	At      string
}

// PauseRun suspends a running run without recording an error.
type PauseRun struct {
	At string
}

// ResumeRun continues a paused run. Rejected unless the CanRetry guard
// holds: fewer than MaxConsecutiveErrors failures and a recoverable error.
type ResumeRun struct {
	At string
}

// CancelRun resets any non-idle run (running, paused, review or complete)
// back to the default idle state.
type CancelRun struct {
	At string
}

// PhaseComplete advances a running run to the next phase. The Phase payload
// must match the current phase or the action is ignored; completing the last
// phase moves the run to review.
type PhaseComplete struct {
	Phase Phase
	At    string
}

// StepUpdate records the current sub-step within the active phase.
type StepUpdate struct {
	Step string
	At   string
}

// ProgressUpdate replaces the run's progress counters.
type ProgressUpdate struct {
	Progress Progress
	At       string
}

// ErrorOccurred pauses a running run, stores the error and increments the
// consecutive-error counter.
type ErrorOccurred struct {
	Err RunError
	At  string
}

// ApproveCart is the human-gated terminal action: review to complete.
// The orchestrator never dispatches it on its own.
type ApproveCart struct {
	At string
}

// RecoveryComplete clears the recovery marker. Valid in any state.
type RecoveryComplete struct{}

func (StartRun) isAction()         {}
func (PauseRun) isAction()         {}
func (ResumeRun) isAction()        {}
func (CancelRun) isAction()        {}
func (PhaseComplete) isAction()    {}
func (StepUpdate) isAction()       {}
func (ProgressUpdate) isAction()   {}
func (ErrorOccurred) isAction()    {}
func (ApproveCart) isAction()      {}
func (RecoveryComplete) isAction() {}
