// Package orchestrator drives the reorder workflow: it dispatches actions
// into the runstate reducer, persists every transition, performs the side
// effect belonging to the new phase and folds the result back in as the
// next action.
//
// Execution is single-threaded and cooperative. The only suspension points
// are the external port calls; the reducer, the diff and the scoring run
// synchronously between them. State persistence happens after every reducer
// transition and before the next side effect starts, so a crash between the
// two is always recoverable by re-running the current (idempotent) step.
package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/raulfermoselle/ai-shopping-copilot-sub007/internal/browser"
	"github.com/raulfermoselle/ai-shopping-copilot-sub007/internal/config"
	"github.com/raulfermoselle/ai-shopping-copilot-sub007/internal/extraction"
	"github.com/raulfermoselle/ai-shopping-copilot-sub007/internal/logging"
	"github.com/raulfermoselle/ai-shopping-copilot-sub007/internal/notification"
	"github.com/raulfermoselle/ai-shopping-copilot-sub007/internal/runstate"
	"github.com/raulfermoselle/ai-shopping-copilot-sub007/internal/slots"
	"github.com/raulfermoselle/ai-shopping-copilot-sub007/internal/store"
	"github.com/raulfermoselle/ai-shopping-copilot-sub007/internal/substitute"
)

// Sentinel errors returned for rejected operations. Run failures are never
// returned this way: they land in RunState.Error and the caller reads state.
var (
	// ErrRunActive is returned by StartRun when a run is already active.
	ErrRunActive = errors.New("a run is already active")
	// ErrCannotResume is returned when the retry guard rejects a resume.
	ErrCannotResume = errors.New("run cannot be resumed")
	// ErrNotInReview is returned by ApproveCart outside the review state.
	ErrNotInReview = errors.New("no review pack awaiting approval")
)

// Orchestrator coordinates one run at a time across the extraction,
// browser-control, persistence and substitution ports.
type Orchestrator struct {
	Config    *config.Config
	Store     store.StateStore
	Messenger extraction.Messenger
	Tabs      browser.TabController

	// Advisor is optional; a nil advisor degrades the substitution phase
	// to an empty proposal list.
	Advisor substitute.Advisor
	// Notifier is optional; nil disables milestone notifications.
	Notifier *notification.Sender
	// Prefs rank delivery slots during the slots phase.
	Prefs slots.Preferences

	state runstate.RunState
	run   *RunContext
}

// New returns an orchestrator in the idle state.
func New(cfg *config.Config, st store.StateStore, m extraction.Messenger, tabs browser.TabController) *Orchestrator {
	return &Orchestrator{
		Config:    cfg,
		Store:     st,
		Messenger: m,
		Tabs:      tabs,
		state:     runstate.NewIdleState(),
	}
}

// State returns the current run state snapshot.
func (o *Orchestrator) State() runstate.RunState {
	return o.state
}

// Run returns the transient run context, nil when no run is active.
// Exposed for status display; callers must not mutate it.
func (o *Orchestrator) Run() *RunContext {
	return o.run
}

// dispatch feeds one action through the reducer and persists the resulting
// state before any further side effect is initiated.
func (o *Orchestrator) dispatch(a runstate.Action) runstate.RunState {
	o.state = runstate.Reduce(o.state, a)
	if err := o.Store.SaveState(o.state); err != nil {
		logging.Warn(fmt.Sprintf("Failed to persist state: %v", err))
	}
	return o.state
}

// StartRun begins a new run against the given browser tab. A non-empty
// orderID restricts the cart phase to that single order. It returns
// ErrRunActive when another run is in flight; every other failure is
// recorded in RunState.Error and the run is left paused for inspection.
func (o *Orchestrator) StartRun(ctx context.Context, tabID int, orderID string) error {
	runID := uuid.NewString()
	st := o.dispatch(runstate.StartRun{RunID: runID, TabID: tabID, OrderID: orderID, At: now()})
	if st.Status != runstate.StatusRunning || st.RunID != runID {
		return ErrRunActive
	}

	if orderID != "" {
		logging.Info(fmt.Sprintf("Run %s started on tab %d for order %s", runID, tabID, orderID))
	} else {
		logging.Info(fmt.Sprintf("Run %s started on tab %d", runID, tabID))
	}
	o.run = newRunContext(runID)
	o.advance(ctx)
	return nil
}

// ResumeRun continues a paused run from the phase it stopped in. The
// CanRetry guard applies: after runstate.MaxConsecutiveErrors consecutive
// failures, or a non-recoverable error, the only way forward is CancelRun.
func (o *Orchestrator) ResumeRun(ctx context.Context) error {
	st := o.dispatch(runstate.ResumeRun{At: now()})
	if st.Status != runstate.StatusRunning {
		return ErrCannotResume
	}

	logging.Info(fmt.Sprintf("Resuming run %s in phase %s", st.RunID, st.Phase))
	if err := o.rehydrate(ctx); err != nil {
		o.dispatch(runstate.ErrorOccurred{Err: extraction.Classify(err), At: now()})
		return nil
	}
	o.advance(ctx)
	return nil
}

// CancelRun resets any active run to idle and discards the run context.
// In-flight port calls are left to resolve; their results are dropped by
// run ID comparison when they come back.
func (o *Orchestrator) CancelRun() {
	st := o.dispatch(runstate.CancelRun{At: now()})
	if st.Status == runstate.StatusIdle {
		o.run = nil
		if o.Notifier != nil {
			o.Notifier.Send(notification.FormatEvent(notification.EventRunCancelled, st.RunID, ""))
		}
	}
}

// PauseRun suspends a running run without recording an error.
func (o *Orchestrator) PauseRun() {
	o.dispatch(runstate.PauseRun{At: now()})
}

// ApproveCart is the human-gated terminal transition from review to
// complete. The orchestrator never calls it on its own behalf.
func (o *Orchestrator) ApproveCart() error {
	st := o.dispatch(runstate.ApproveCart{At: now()})
	if st.Status != runstate.StatusComplete {
		return ErrNotInReview
	}
	logging.Success("Review pack approved")
	if o.Notifier != nil {
		o.Notifier.Send(notification.FormatEvent(notification.EventApproved, st.RunID, ""))
	}
	o.run = nil
	return nil
}

// LoadPersisted replaces the in-memory state with the persisted one, without
// re-entering any phase. Used by the status/cancel/approve one-shot paths;
// Recover is the phase-re-entering variant.
func (o *Orchestrator) LoadPersisted() (bool, error) {
	persisted, found, err := o.Store.LoadState()
	if err != nil {
		return false, fmt.Errorf("load persisted state: %w", err)
	}
	if found {
		o.state = persisted
	}
	return found, nil
}

// Recover is invoked once at process start. It loads the persisted state
// and, when the process died mid-run, clears the recovery marker and
// re-enters the current phase rather than restarting the whole run, since
// phases are idempotent.
func (o *Orchestrator) Recover(ctx context.Context) error {
	persisted, found, err := o.Store.LoadState()
	if err != nil {
		return fmt.Errorf("load persisted state: %w", err)
	}
	if !found {
		return nil
	}
	o.state = persisted

	if persisted.Status != runstate.StatusRunning {
		return nil
	}

	// The process restarted while a run was in flight.
	o.state.RecoveryNeeded = true
	o.dispatch(runstate.RecoveryComplete{})

	logging.Info(fmt.Sprintf("Recovering run %s in phase %s", o.state.RunID, o.state.Phase))
	o.run = newRunContext(o.state.RunID)
	if err := o.rehydrate(ctx); err != nil {
		o.dispatch(runstate.ErrorOccurred{Err: extraction.Classify(err), At: now()})
		return nil
	}
	o.advance(ctx)
	return nil
}

// advance runs phases in order until the run leaves the running state:
// review on success, paused on failure, idle on cancel.
func (o *Orchestrator) advance(ctx context.Context) {
	for o.state.Status == runstate.StatusRunning {
		runID := o.state.RunID
		phase := o.state.Phase

		err := o.runPhase(ctx, phase)

		// A cancel while the phase was in flight superseded this run; its
		// result is dropped.
		if o.state.RunID != runID {
			return
		}
		if err != nil {
			runErr := extraction.Classify(err)
			logging.Error(fmt.Sprintf("Phase %s failed: %s (%s)", phase, runErr.Message, runErr.Code))
			st := o.dispatch(runstate.ErrorOccurred{Err: runErr, At: now()})
			if o.Notifier != nil {
				o.Notifier.Send(notification.FormatEvent(notification.EventRunPaused, st.RunID, runErr.Message))
			}
			return
		}

		o.dispatch(runstate.PhaseComplete{Phase: phase, At: now()})
	}

	if o.state.Status == runstate.StatusReview {
		logging.Success("Cart rebuilt — review pack ready for approval")
		if o.Notifier != nil {
			detail := fmt.Sprintf("%d changes, %d slots scored",
				o.run.Diff.Summary.AddedCount+o.run.Diff.Summary.RemovedCount+o.run.Diff.Summary.UnavailableCount,
				len(o.run.Scored))
			o.Notifier.Send(notification.FormatEvent(notification.EventReviewReady, o.state.RunID, detail))
		}
	}
}

// runPhase executes the side effect belonging to one phase under the phase
// timeout.
func (o *Orchestrator) runPhase(ctx context.Context, phase runstate.Phase) error {
	timeout := time.Duration(o.Config.PhaseTimeout) * time.Second
	if timeout <= 0 {
		timeout = 180 * time.Second
	}
	pctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	switch phase {
	case runstate.PhaseInitializing:
		return o.phaseInitialize(pctx)
	case runstate.PhaseCart:
		return o.phaseCart(pctx)
	case runstate.PhaseSubstitution:
		return o.phaseSubstitution(pctx)
	case runstate.PhaseSlots:
		return o.phaseSlots(pctx)
	case runstate.PhaseFinalizing:
		return o.phaseFinalize(pctx)
	default:
		return fmt.Errorf("unknown phase %q", phase)
	}
}

// rehydrate rebuilds the transient run context after a resume or recovery
// that landed past the cart phase. Re-scanning is safe: order history and
// the live cart are read-only to re-request.
func (o *Orchestrator) rehydrate(ctx context.Context) error {
	if o.run == nil {
		o.run = newRunContext(o.state.RunID)
	}

	switch o.state.Phase {
	case runstate.PhaseSubstitution, runstate.PhaseSlots, runstate.PhaseFinalizing:
		if o.run.Cart == nil {
			if err := o.rebuildCartView(ctx); err != nil {
				return err
			}
		}
	}
	// Past the substitution phase the proposals would otherwise be lost
	// with the rest of the transient context.
	switch o.state.Phase {
	case runstate.PhaseSlots, runstate.PhaseFinalizing:
		if o.run.Proposals == nil && len(o.run.Diff.NowUnavailable) > 0 {
			if err := o.collectSubstitutes(ctx); err != nil {
				return err
			}
		}
	}
	if o.state.Phase == runstate.PhaseFinalizing && o.run.Scored == nil {
		if err := o.collectSlots(ctx); err != nil {
			return err
		}
	}
	return nil
}

// portCtx derives the per-call timeout context for one port operation.
func (o *Orchestrator) portCtx(ctx context.Context) (context.Context, context.CancelFunc) {
	timeout := time.Duration(o.Config.PortTimeout) * time.Second
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return context.WithTimeout(ctx, timeout)
}

func now() string {
	return time.Now().UTC().Format(time.RFC3339)
}
