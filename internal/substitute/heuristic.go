package substitute

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/raulfermoselle/ai-shopping-copilot-sub007/internal/cartdiff"
)

// DefaultPriceTolerancePct bounds how far a candidate's price may drift from
// the unavailable item's price before it stops being proposed. The 20%
// cutoff is a carried-over heuristic, not a derived value; override it via
// configuration when it proves wrong.
const DefaultPriceTolerancePct = 20

// minNameConfidence is the token-overlap floor below which a candidate is
// not considered related to the unavailable item.
const minNameConfidence = 0.3

// Heuristic is the fallback advisor used when no LLM collaborator is
// configured. It ranks candidates by normalized-name token overlap and
// filters by price proximity.
type Heuristic struct {
	// PriceTolerancePct defaults to DefaultPriceTolerancePct when zero.
	PriceTolerancePct float64
}

func (h *Heuristic) Suggest(ctx context.Context, unavailable []cartdiff.CartItem, candidates []cartdiff.CartItem) ([]Proposal, error) {
	tolerance := h.PriceTolerancePct
	if tolerance <= 0 {
		tolerance = DefaultPriceTolerancePct
	}

	proposals := make([]Proposal, 0, len(unavailable))
	for _, item := range unavailable {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		best, confidence := h.bestCandidate(item, candidates, tolerance)
		if confidence < minNameConfidence {
			continue
		}
		proposals = append(proposals, Proposal{
			For:        item,
			Candidate:  best,
			Confidence: confidence,
			Reason:     fmt.Sprintf("similar name, %.2f€ vs %.2f€", best.UnitPrice, item.UnitPrice),
		})
	}
	return proposals, nil
}

func (h *Heuristic) bestCandidate(item cartdiff.CartItem, candidates []cartdiff.CartItem, tolerancePct float64) (cartdiff.CartItem, float64) {
	var best cartdiff.CartItem
	bestScore := 0.0

	for _, cand := range candidates {
		if cand.ProductID == item.ProductID && cand.ProductID != "" {
			continue // the same product is not a substitute
		}
		if cand.Availability != cartdiff.Available || cand.Quantity == 0 {
			continue
		}
		if !withinTolerance(item.UnitPrice, cand.UnitPrice, tolerancePct) {
			continue
		}
		score := tokenOverlap(item.Name, cand.Name)
		if score > bestScore {
			best = cand
			bestScore = score
		}
	}
	return best, bestScore
}

// withinTolerance reports whether candidate stays within tolerancePct of the
// reference price. A zero reference price accepts any candidate.
func withinTolerance(reference, candidate, tolerancePct float64) bool {
	if reference <= 0 {
		return true
	}
	drift := (candidate - reference) / reference * 100
	if drift < 0 {
		drift = -drift
	}
	return drift <= tolerancePct
}

// tokenOverlap is the Jaccard index of the two normalized name token sets.
func tokenOverlap(a, b string) float64 {
	ta := tokens(a)
	tb := tokens(b)
	if len(ta) == 0 || len(tb) == 0 {
		return 0
	}
	shared := 0
	for tok := range ta {
		if tb[tok] {
			shared++
		}
	}
	union := len(ta) + len(tb) - shared
	return float64(shared) / float64(union)
}

func tokens(name string) map[string]bool {
	set := make(map[string]bool)
	for _, tok := range strings.Fields(strings.ToLower(name)) {
		set[tok] = true
	}
	return set
}

// SortByConfidence orders proposals highest-confidence first, tie-broken by
// product name for stable output.
func SortByConfidence(proposals []Proposal) {
	sort.SliceStable(proposals, func(i, j int) bool {
		if proposals[i].Confidence != proposals[j].Confidence {
			return proposals[i].Confidence > proposals[j].Confidence
		}
		return proposals[i].For.Name < proposals[j].For.Name
	})
}
