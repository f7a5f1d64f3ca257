package cartdiff

import (
	"math"
	"sort"
	"strings"
)

// priceTolerance is the sub-cent threshold below which two prices are
// considered equal, so float noise never shows up as a price change.
const priceTolerance = 0.005

// ComputeDiff compares the concatenated original order lines against the
// live cart snapshot.
//
// Items are matched by product ID, falling back to the exact normalized name
// when either side lacks an ID. Unmatched live items are added; unmatched
// original lines are removed, converted into cart-item-shaped records tagged
// FromOriginalOrder. The result is independent of input order: every slice
// is sorted by product ID, then name.
func ComputeDiff(original []OrderLine, live []CartItem) CartDiff {
	var diff CartDiff

	used := make([]bool, len(live))

	// Lookup tables into the live cart. Name matching only applies when the
	// product ID is absent on one of the two sides.
	byID := make(map[string]int, len(live))
	byName := make(map[string]int, len(live))
	for i, item := range live {
		if item.ProductID != "" {
			if _, dup := byID[item.ProductID]; !dup {
				byID[item.ProductID] = i
			}
		}
		key := normalizeName(item.Name)
		if key != "" {
			if _, dup := byName[key]; !dup {
				byName[key] = i
			}
		}
	}

	var originalTotal float64
	for _, line := range original {
		originalTotal += float64(line.Quantity) * line.UnitPrice

		idx, ok := matchLine(line, live, byID, byName, used)
		if !ok {
			diff.Removed = append(diff.Removed, CartItem{
				ProductID:         line.ProductID,
				Name:              line.Name,
				Quantity:          line.Quantity,
				UnitPrice:         line.UnitPrice,
				Availability:      OutOfStock,
				FromOriginalOrder: true,
			})
			continue
		}
		used[idx] = true
		item := live[idx]

		if item.Quantity != line.Quantity {
			diff.QuantityChanged = append(diff.QuantityChanged, QuantityChange{
				Item:             item,
				OriginalQuantity: line.Quantity,
				LiveQuantity:     item.Quantity,
			})
		}
		if math.Abs(item.UnitPrice-line.UnitPrice) > priceTolerance {
			diff.PriceChanged = append(diff.PriceChanged, PriceChange{
				Item:          item,
				OriginalPrice: line.UnitPrice,
				LivePrice:     item.UnitPrice,
			})
		}
		if item.Availability != Available || item.Quantity == 0 {
			diff.NowUnavailable = append(diff.NowUnavailable, item)
		}
	}

	var liveTotal float64
	for i, item := range live {
		liveTotal += float64(item.Quantity) * item.UnitPrice
		if !used[i] {
			diff.Added = append(diff.Added, item)
		}
	}

	sortItems(diff.Added)
	sortItems(diff.Removed)
	sortItems(diff.NowUnavailable)
	sort.Slice(diff.QuantityChanged, func(i, j int) bool {
		return itemLess(diff.QuantityChanged[i].Item, diff.QuantityChanged[j].Item)
	})
	sort.Slice(diff.PriceChanged, func(i, j int) bool {
		return itemLess(diff.PriceChanged[i].Item, diff.PriceChanged[j].Item)
	})

	diff.Summary = Summary{
		AddedCount:           len(diff.Added),
		RemovedCount:         len(diff.Removed),
		QuantityChangedCount: len(diff.QuantityChanged),
		PriceChangedCount:    len(diff.PriceChanged),
		UnavailableCount:     len(diff.NowUnavailable),
		PriceDifference:      RoundCents(liveTotal - originalTotal),
	}
	return diff
}

// matchLine finds the live cart index for an original line, or ok=false.
// The name fallback only applies when the product ID is absent on at least
// one side; two distinct non-empty IDs never match.
func matchLine(line OrderLine, live []CartItem, byID, byName map[string]int, used []bool) (int, bool) {
	if line.ProductID != "" {
		if idx, ok := byID[line.ProductID]; ok && !used[idx] {
			return idx, true
		}
	}
	idx, ok := byName[normalizeName(line.Name)]
	if !ok || used[idx] {
		return 0, false
	}
	if line.ProductID != "" && live[idx].ProductID != "" {
		return 0, false
	}
	return idx, true
}

// normalizeName lowercases and collapses whitespace so formatting noise
// never breaks a name match.
func normalizeName(name string) string {
	return strings.Join(strings.Fields(strings.ToLower(name)), " ")
}

// RoundCents rounds a euro amount to the nearest cent.
func RoundCents(v float64) float64 {
	return math.Round(v*100) / 100
}

func sortItems(items []CartItem) {
	sort.Slice(items, func(i, j int) bool { return itemLess(items[i], items[j]) })
}

func itemLess(a, b CartItem) bool {
	if a.ProductID != b.ProductID {
		return a.ProductID < b.ProductID
	}
	return a.Name < b.Name
}
