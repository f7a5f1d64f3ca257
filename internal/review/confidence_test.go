package review_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/raulfermoselle/ai-shopping-copilot-sub007/internal/cartdiff"
	"github.com/raulfermoselle/ai-shopping-copilot-sub007/internal/review"
	"github.com/raulfermoselle/ai-shopping-copilot-sub007/internal/slots"
	"github.com/raulfermoselle/ai-shopping-copilot-sub007/internal/substitute"
)

func scoredSlot(score float64, available bool) slots.ScoredSlot {
	return slots.ScoredSlot{
		DeliverySlot: slots.DeliverySlot{Available: available},
		Score:        score,
	}
}

func TestConfidenceCleanRun(t *testing.T) {
	diff := cartdiff.CartDiff{}
	scored := []slots.ScoredSlot{scoredSlot(80, true)}

	c := review.ComputeConfidence(diff, nil, scored, 50, review.DefaultThresholds())

	assert.Equal(t, 1.0, c.Cart)
	assert.InDelta(t, 0.8, c.Slots, 0.001)
	assert.InDelta(t, 0.9, c.Overall, 0.001)
	assert.False(t, c.RequiresUserAttention)
	assert.Empty(t, c.Notes)
}

func TestConfidenceDropsPerUncoveredUnavailable(t *testing.T) {
	missing := cartdiff.CartItem{ProductID: "p1", Name: "Milk"}
	covered := cartdiff.CartItem{ProductID: "p2", Name: "Bread"}
	diff := cartdiff.CartDiff{
		NowUnavailable: []cartdiff.CartItem{missing, covered},
		Summary:        cartdiff.Summary{UnavailableCount: 2},
	}
	proposals := []substitute.Proposal{{For: covered, Confidence: 0.7}}

	c := review.ComputeConfidence(diff, proposals, nil, 50, review.DefaultThresholds())

	assert.InDelta(t, 0.9, c.Cart, 0.001, "one uncovered item costs 0.1")
	assert.True(t, c.RequiresUserAttention)
	require.NotEmpty(t, c.Notes)
	assert.Contains(t, c.Notes[0], "without a substitute")
}

func TestConfidenceCartFloorsAtZero(t *testing.T) {
	var unavailable []cartdiff.CartItem
	for i := 0; i < 12; i++ {
		unavailable = append(unavailable, cartdiff.CartItem{Name: string(rune('a' + i))})
	}
	diff := cartdiff.CartDiff{NowUnavailable: unavailable}

	c := review.ComputeConfidence(diff, nil, nil, 50, review.DefaultThresholds())
	assert.Equal(t, 0.0, c.Cart)
}

func TestConfidenceNoAvailableSlot(t *testing.T) {
	scored := []slots.ScoredSlot{scoredSlot(95, false)}

	c := review.ComputeConfidence(cartdiff.CartDiff{}, nil, scored, 50, review.DefaultThresholds())

	assert.Equal(t, 0.0, c.Slots)
	assert.Contains(t, c.Notes, "no available delivery slot")
}

func TestConfidencePriceDriftFlags(t *testing.T) {
	diff := cartdiff.CartDiff{Summary: cartdiff.Summary{PriceDifference: -15}}

	c := review.ComputeConfidence(diff, nil, nil, 50, review.Thresholds{PriceTolerancePct: 20})

	// 15/50 = 30% drift, above the 20% tolerance; sign does not matter.
	assert.True(t, c.RequiresUserAttention)

	within := cartdiff.CartDiff{Summary: cartdiff.Summary{PriceDifference: 5}}
	c2 := review.ComputeConfidence(within, nil, nil, 50, review.Thresholds{PriceTolerancePct: 20})
	assert.False(t, c2.RequiresUserAttention)
}

func TestConfidenceRemovedItemsFlag(t *testing.T) {
	diff := cartdiff.CartDiff{Summary: cartdiff.Summary{RemovedCount: 1}}

	c := review.ComputeConfidence(diff, nil, nil, 50, review.DefaultThresholds())
	assert.True(t, c.RequiresUserAttention)
}
