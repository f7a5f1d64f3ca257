// Package substitute proposes replacements for items that went unavailable
// since the original order. The advisor is advisory input only: a missing or
// failing advisor degrades the substitution phase to an empty proposal list,
// never to a failed run.
package substitute

import (
	"context"

	"github.com/raulfermoselle/ai-shopping-copilot-sub007/internal/cartdiff"
)

// Proposal suggests one candidate replacement for an unavailable item.
// Confidence is 0-1.
type Proposal struct {
	For        cartdiff.CartItem `json:"for"`
	Candidate  cartdiff.CartItem `json:"candidate"`
	Confidence float64           `json:"confidence"`
	Reason     string            `json:"reason"`
}

// Advisor ranks substitute candidates for unavailable items. candidates is
// the pool of items known to be purchasable right now (typically the live
// cart plus related products the extraction layer surfaced).
type Advisor interface {
	Suggest(ctx context.Context, unavailable []cartdiff.CartItem, candidates []cartdiff.CartItem) ([]Proposal, error)
}
