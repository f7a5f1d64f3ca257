// Package runstate defines the persisted run state of a cart-copilot run and
// the pure reducer that is the only way to mutate it.
//
// The Status and Phase enums are closed: there is no checkout, payment or
// order-placement variant, so no reachable state can denote one. That
// guarantee is structural and does not rely on runtime checks.
package runstate

// Status is the coarse lifecycle state of a run.
type Status string

const (
	StatusIdle     Status = "idle"
	StatusRunning  Status = "running"
	StatusPaused   Status = "paused"
	StatusReview   Status = "review"
	StatusComplete Status = "complete"
)

// Phase is the workflow stage within a running run. It is meaningful only
// while Status is StatusRunning (or StatusPaused, where it marks the stage
// to re-enter on resume).
type Phase string

const (
	PhaseInitializing Phase = "initializing"
	PhaseCart         Phase = "cart"
	PhaseSubstitution Phase = "substitution"
	PhaseSlots        Phase = "slots"
	PhaseFinalizing   Phase = "finalizing"
)

// phaseOrder is the fixed progression driven by PhaseComplete actions.
var phaseOrder = [5]Phase{
	PhaseInitializing,
	PhaseCart,
	PhaseSubstitution,
	PhaseSlots,
	PhaseFinalizing,
}

// NextPhase returns the phase following p in the fixed order. ok is false
// when p is the last phase (or unknown); completing it leaves the running
// state for review instead.
func NextPhase(p Phase) (next Phase, ok bool) {
	for i, cur := range phaseOrder {
		if cur == p && i+1 < len(phaseOrder) {
			return phaseOrder[i+1], true
		}
	}
	return "", false
}

// FirstStep returns the canonical first step of a phase. The step is reset
// to this value whenever the reducer enters the phase.
func FirstStep(p Phase) string {
	switch p {
	case PhaseInitializing:
		return "verify-session"
	case PhaseCart:
		return "load-orders"
	case PhaseSubstitution:
		return "propose-substitutes"
	case PhaseSlots:
		return "extract-slots"
	case PhaseFinalizing:
		return "assemble-pack"
	default:
		return ""
	}
}

// ErrorCode classifies a run error. Only network errors are recoverable;
// extraction errors signal that the site layout changed, and auth errors
// require a re-login out of band.
type ErrorCode string

const (
	ErrorNetwork    ErrorCode = "network"
	ErrorExtraction ErrorCode = "extraction"
	ErrorAuth       ErrorCode = "auth"
	ErrorUnknown    ErrorCode = "unknown"
)

// RunError is the last error observed by a run.
type RunError struct {
	Code        ErrorCode `json:"code"`
	Message     string    `json:"message"`
	Recoverable bool      `json:"recoverable"`
}

// Progress holds the per-run counters surfaced to the user.
type Progress struct {
	OrdersLoaded        int `json:"orders_loaded"`
	OrdersTotal         int `json:"orders_total"`
	ItemsProcessed      int `json:"items_processed"`
	ItemsTotal          int `json:"items_total"`
	UnavailableItems    int `json:"unavailable_items"`
	SubstitutesProposed int `json:"substitutes_proposed"`
	SlotsFound          int `json:"slots_found"`
}

// RunState is the single source of truth for one workflow execution.
// It is persisted after every reducer transition.
type RunState struct {
	SchemaVersion  int       `json:"schema_version"`
	RunID          string    `json:"run_id"`
	Status         Status    `json:"status"`
	Phase          Phase     `json:"phase"`
	Step           string    `json:"step"`
	Progress       Progress  `json:"progress"`
	Error          *RunError `json:"error"`
	ErrorCount     int       `json:"error_count"`
	TabID          int       `json:"tab_id"`
	OrderID        string    `json:"order_id,omitempty"`
	RecoveryNeeded bool      `json:"recovery_needed"`
	StartedAt      string    `json:"started_at"`
	LastUpdated    string    `json:"last_updated"`
}

// SchemaVersion is written into every persisted state snapshot.
const SchemaVersion = 1

// NewIdleState returns the default empty state: no run, no error.
func NewIdleState() RunState {
	return RunState{
		SchemaVersion: SchemaVersion,
		Status:        StatusIdle,
	}
}
