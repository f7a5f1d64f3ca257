// Package store provides the state-persistence port and its two backends: a
// JSON file store and a SQLite store. The orchestrator saves the full run
// state through this port after every reducer transition, which is what
// makes a crash between transitions recoverable.
package store

import (
	"github.com/raulfermoselle/ai-shopping-copilot-sub007/internal/review"
	"github.com/raulfermoselle/ai-shopping-copilot-sub007/internal/runstate"
)

// StateStore is the durable get/set surface for run state and the finalized
// review pack.
type StateStore interface {
	// SaveState persists the full state snapshot, replacing any previous one.
	SaveState(s runstate.RunState) error
	// LoadState returns the persisted state. found is false when no state
	// has ever been saved (or it was cleared).
	LoadState() (s runstate.RunState, found bool, err error)
	// SaveReviewPack persists the finalized pack beside the state.
	SaveReviewPack(p *review.Pack) error
	// LoadReviewPack returns the persisted pack, found=false when absent.
	LoadReviewPack() (p *review.Pack, found bool, err error)
	// Clear removes both the state and the review pack.
	Clear() error
}
