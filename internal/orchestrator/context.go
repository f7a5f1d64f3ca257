package orchestrator

import (
	"github.com/raulfermoselle/ai-shopping-copilot-sub007/internal/cartdiff"
	"github.com/raulfermoselle/ai-shopping-copilot-sub007/internal/extraction"
	"github.com/raulfermoselle/ai-shopping-copilot-sub007/internal/slots"
	"github.com/raulfermoselle/ai-shopping-copilot-sub007/internal/substitute"
)

// RunContext is the transient working set accumulated across phases. It is
// discarded on cancel or completion and is never persisted on its own; the
// durable artifacts are RunState and the review pack.
type RunContext struct {
	RunID string

	Orders        []extraction.OrderSummary
	OriginalLines []cartdiff.OrderLine
	OriginalTotal float64

	Cart []cartdiff.CartItem
	Diff cartdiff.CartDiff

	Proposals []substitute.Proposal

	Scored          []slots.ScoredSlot
	Recommendations slots.Recommendations
}

func newRunContext(runID string) *RunContext {
	return &RunContext{RunID: runID}
}
