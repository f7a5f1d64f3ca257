package substitute

import (
	"context"

	"github.com/raulfermoselle/ai-shopping-copilot-sub007/internal/bridge"
	"github.com/raulfermoselle/ai-shopping-copilot-sub007/internal/cartdiff"
)

// ActionRank is the action tag for LLM-backed substitute ranking.
const ActionRank = "substitute.rank"

// BridgeAdvisor asks the LLM collaborator behind the extension bridge to
// rank substitutes. Pair it with a Heuristic via Fallback so its absence
// never fails the run.
type BridgeAdvisor struct {
	Client *bridge.Client
}

func (b *BridgeAdvisor) Suggest(ctx context.Context, unavailable []cartdiff.CartItem, candidates []cartdiff.CartItem) ([]Proposal, error) {
	params := struct {
		Unavailable []cartdiff.CartItem `json:"unavailable"`
		Candidates  []cartdiff.CartItem `json:"candidates"`
	}{Unavailable: unavailable, Candidates: candidates}

	var out []Proposal
	if err := b.Client.Call(ctx, ActionRank, params, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Fallback tries Primary first and falls back to Secondary when Primary is
// nil or errors.
type Fallback struct {
	Primary   Advisor
	Secondary Advisor
}

func (f *Fallback) Suggest(ctx context.Context, unavailable []cartdiff.CartItem, candidates []cartdiff.CartItem) ([]Proposal, error) {
	if f.Primary != nil {
		proposals, err := f.Primary.Suggest(ctx, unavailable, candidates)
		if err == nil {
			return proposals, nil
		}
	}
	if f.Secondary == nil {
		return nil, nil
	}
	return f.Secondary.Suggest(ctx, unavailable, candidates)
}
