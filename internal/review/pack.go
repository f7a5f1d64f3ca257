// Package review defines the review pack: the human-facing bundle of cart
// diff, substitution proposals and slot recommendations produced at the end
// of a run. Approving it is the only way a run completes.
package review

import (
	"github.com/raulfermoselle/ai-shopping-copilot-sub007/internal/cartdiff"
	"github.com/raulfermoselle/ai-shopping-copilot-sub007/internal/slots"
	"github.com/raulfermoselle/ai-shopping-copilot-sub007/internal/substitute"
)

// Pack is persisted beside the run state once the finalizing phase
// completes.
type Pack struct {
	RunID           string                `json:"run_id"`
	GeneratedAt     string                `json:"generated_at"`
	Diff            cartdiff.CartDiff     `json:"diff"`
	Substitutions   []substitute.Proposal `json:"substitutions"`
	Slots           []slots.ScoredSlot    `json:"slots"`
	Recommendations slots.Recommendations `json:"recommendations"`
	Confidence      Confidence            `json:"confidence"`
}

// Confidence summarizes how much the pack can be trusted without a close
// look. Scores are 0-1.
type Confidence struct {
	Cart    float64 `json:"cart"`
	Slots   float64 `json:"slots"`
	Overall float64 `json:"overall"`
	// RequiresUserAttention flags packs whose price drift or availability
	// losses exceed the configured tolerance.
	RequiresUserAttention bool     `json:"requires_user_attention"`
	Notes                 []string `json:"notes,omitempty"`
}

// Thresholds are the named, overridable cutoffs behind
// RequiresUserAttention. The 20% price tolerance is a carried-over heuristic
// constant without a stated derivation.
type Thresholds struct {
	PriceTolerancePct float64
}

// DefaultThresholds returns the standard cutoffs.
func DefaultThresholds() Thresholds {
	return Thresholds{PriceTolerancePct: 20}
}
