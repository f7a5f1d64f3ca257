package review

import (
	"fmt"

	"github.com/raulfermoselle/ai-shopping-copilot-sub007/internal/cartdiff"
	"github.com/raulfermoselle/ai-shopping-copilot-sub007/internal/slots"
	"github.com/raulfermoselle/ai-shopping-copilot-sub007/internal/substitute"
)

// ComputeConfidence derives the pack's confidence metrics.
//
// Cart confidence starts at 1 and loses 0.1 per unavailable original item
// not covered by a substitution proposal, floored at 0. Slot confidence is
// the best available slot score scaled to 0-1, or 0 when no slot is
// available. Overall is the mean of the two.
func ComputeConfidence(diff cartdiff.CartDiff, proposals []substitute.Proposal, scored []slots.ScoredSlot, originalTotal float64, t Thresholds) Confidence {
	c := Confidence{Cart: 1}

	covered := make(map[string]bool, len(proposals))
	for _, p := range proposals {
		covered[p.For.ProductID+"|"+p.For.Name] = true
	}
	uncovered := 0
	for _, item := range diff.NowUnavailable {
		if !covered[item.ProductID+"|"+item.Name] {
			uncovered++
		}
	}
	c.Cart -= 0.1 * float64(uncovered)
	if c.Cart < 0 {
		c.Cart = 0
	}
	if uncovered > 0 {
		c.Notes = append(c.Notes, fmt.Sprintf("%d unavailable item(s) without a substitute", uncovered))
	}

	for _, s := range scored {
		if s.Available && s.Score/100 > c.Slots {
			c.Slots = s.Score / 100
		}
	}
	if c.Slots == 0 {
		c.Notes = append(c.Notes, "no available delivery slot")
	}

	c.Overall = (c.Cart + c.Slots) / 2

	if t.PriceTolerancePct <= 0 {
		t = DefaultThresholds()
	}
	if originalTotal > 0 {
		driftPct := diff.Summary.PriceDifference / originalTotal * 100
		if driftPct < 0 {
			driftPct = -driftPct
		}
		if driftPct > t.PriceTolerancePct {
			c.RequiresUserAttention = true
			c.Notes = append(c.Notes, fmt.Sprintf("price drift %.1f%% exceeds tolerance %.0f%%", driftPct, t.PriceTolerancePct))
		}
	}
	if diff.Summary.UnavailableCount > 0 || diff.Summary.RemovedCount > 0 {
		c.RequiresUserAttention = true
	}

	return c
}
